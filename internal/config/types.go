package config

import "time"

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                   `yaml:"port"`
	DSN            string                `yaml:"dsn"` // MySQL DSN
	RedisURL       string                `yaml:"redis_url"`
	Database       DatabaseRuntimeConfig `yaml:"database"`
	Redis          RedisRuntimeConfig    `yaml:"redis"`
	Env            string                `yaml:"env"` // "development" | "production"
	AllowedOrigins []string              `yaml:"allowed_origins"`
	JWTSecret      string                `yaml:"jwt_secret"`
	Timezone       string                `yaml:"timezone"`
	AI             AIConfig              `yaml:"ai"`
	Storage        StorageConfig         `yaml:"storage"`
	Admin          AdminBootstrapConfig  `yaml:"admin"`
	Site           SiteConfig            `yaml:"site"`
	Notify         NotifyConfig          `yaml:"notify"`
	Generator      GeneratorConfig       `yaml:"generator"`
}

type DatabaseRuntimeConfig struct {
	DSN       string            `yaml:"dsn"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	Charset   string            `yaml:"charset"`
	ParseTime bool              `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Params    map[string]string `yaml:"params"`
}

type RedisRuntimeConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TLS      bool   `yaml:"tls"`
}

// AIConfig lists the completion providers. Provider selects one by ID; when empty
// the first enabled provider wins.
type AIConfig struct {
	Providers []AIProvider `yaml:"providers"`
	Provider  string       `yaml:"provider"`
	Model     string       `yaml:"model"`
}

type AIProvider struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Type         string `yaml:"type"` // OpenAI | OpenAI-Compatible | Anthropic | OpenRouter
	APIKey       string `yaml:"api_key"`
	Endpoint     string `yaml:"endpoint"`
	DefaultModel string `yaml:"default_model"`
	Enabled      bool   `yaml:"enabled"`
}

// StorageConfig points at an S3-compatible bucket for media uploads.
type StorageConfig struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PublicURL       string `yaml:"public_url"`
	Prefix          string `yaml:"prefix"`
	PathStyle       bool   `yaml:"path_style"`
}

// SiteConfig holds the public identity used in feeds and the sitemap.
type SiteConfig struct {
	URL         string `yaml:"url"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// NotifyConfig configures the SMTP mailer that alerts sales about new leads.
// MinTier is the lowest lead tier that triggers a mail (hot | warm | cold).
type NotifyConfig struct {
	Enable  bool     `yaml:"enable"`
	Host    string   `yaml:"host"`
	Port    int      `yaml:"port"`
	User    string   `yaml:"user"`
	Pass    string   `yaml:"pass"`
	From    string   `yaml:"from"`
	To      []string `yaml:"to"`
	MinTier string   `yaml:"min_tier"`
}

type AdminBootstrapConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Email    string `yaml:"email"`
}

type GeneratorConfig struct {
	// Concurrency > 1 generates sections in parallel; 1 keeps strict sequential calls.
	Concurrency int           `yaml:"concurrency"`
	RunTTL      time.Duration `yaml:"run_ttl"`
	MaxTokens   int           `yaml:"max_tokens"`
}

type rawAppConfig struct {
	Port               int                  `yaml:"port"`
	DSN                string               `yaml:"dsn"`
	DatabaseURL        string               `yaml:"database_url"`
	RedisURL           string               `yaml:"redis_url"`
	Database           rawDatabaseConfig    `yaml:"database"`
	Redis              rawRedisConfig       `yaml:"redis"`
	Env                string               `yaml:"env"`
	AllowedOrigins     []string             `yaml:"allowed_origins"`
	CORSAllowedOrigins []string             `yaml:"cors_allowed_origins"`
	JWTSecret          string               `yaml:"jwt_secret"`
	Timezone           string               `yaml:"timezone"`
	TZ                 string               `yaml:"tz"`
	AI                 AIConfig             `yaml:"ai"`
	Storage            StorageConfig        `yaml:"storage"`
	Admin              AdminBootstrapConfig `yaml:"admin"`
	Site               SiteConfig           `yaml:"site"`
	Notify             NotifyConfig         `yaml:"notify"`
	Generator          rawGeneratorConfig   `yaml:"generator"`
}

type rawDatabaseConfig struct {
	DSN       string            `yaml:"dsn"`
	URL       string            `yaml:"url"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Username  string            `yaml:"username"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	DBName    string            `yaml:"db_name"`
	Charset   string            `yaml:"charset"`
	ParseTime *bool             `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Params    map[string]string `yaml:"params"`
}

type rawRedisConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       *int   `yaml:"db"`
	TLS      *bool  `yaml:"tls"`
}

type rawGeneratorConfig struct {
	Concurrency int    `yaml:"concurrency"`
	RunTTL      string `yaml:"run_ttl"`
	MaxTokens   int    `yaml:"max_tokens"`
}
