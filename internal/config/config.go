package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML config at configPath and applies defaults.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}
	cfg, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("config file %q: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML content into a validated AppConfig.
func Parse(content []byte) (*AppConfig, error) {
	cfg := defaultAppConfig()
	raw := rawAppConfig{}
	if len(bytes.TrimSpace(content)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
	}

	if err := applyRawAppConfig(&cfg, raw); err != nil {
		return nil, err
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *AppConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", cfg.Port)
	}
	if cfg.Database.Port < 1 || cfg.Database.Port > 65535 {
		return fmt.Errorf("invalid database.port %d, expected 1-65535", cfg.Database.Port)
	}
	if cfg.Redis.Port < 1 || cfg.Redis.Port > 65535 {
		return fmt.Errorf("invalid redis.port %d, expected 1-65535", cfg.Redis.Port)
	}
	if cfg.Redis.DB < 0 {
		return fmt.Errorf("invalid redis.db %d, expected >= 0", cfg.Redis.DB)
	}
	if cfg.Generator.Concurrency < 1 || cfg.Generator.Concurrency > maxGeneratorConcurrency {
		return fmt.Errorf("invalid generator.concurrency %d, expected 1-%d", cfg.Generator.Concurrency, maxGeneratorConcurrency)
	}
	seen := make(map[string]struct{}, len(cfg.AI.Providers))
	for _, p := range cfg.AI.Providers {
		if p.ID == "" {
			return fmt.Errorf("ai.providers: provider %q has no id", p.Name)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("ai.providers: duplicate id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

func defaultAppConfig() AppConfig {
	cfg := AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseRuntimeConfig{
			Host:      defaultDBHost,
			Port:      defaultDBPort,
			User:      defaultDBUser,
			Password:  defaultDBPassword,
			Name:      defaultDBName,
			Charset:   defaultDBCharset,
			ParseTime: true,
			Loc:       defaultDBLoc,
		},
		Redis: RedisRuntimeConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
		Storage: StorageConfig{
			Region: defaultStorageRegion,
			Prefix: defaultStoragePrefix,
		},
		Site: SiteConfig{
			URL:  defaultSiteURL,
			Name: defaultSiteName,
		},
		Notify: NotifyConfig{
			Port:    defaultNotifyPort,
			MinTier: defaultNotifyMinTier,
		},
		Generator: GeneratorConfig{
			Concurrency: 1,
			RunTTL:      defaultGeneratorRunTTL,
			MaxTokens:   defaultGeneratorMaxTokens,
		},
	}
	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = cfg.Redis.URLValue()
	return cfg
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) error {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	cfg.Database = applyRawDatabaseConfig(cfg.Database, raw)
	cfg.Redis = applyRawRedisConfig(cfg.Redis, raw)
	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = v
	}

	switch {
	case raw.AllowedOrigins != nil:
		cfg.AllowedOrigins = normalizeOrigins(raw.AllowedOrigins)
	case raw.CORSAllowedOrigins != nil:
		cfg.AllowedOrigins = normalizeOrigins(raw.CORSAllowedOrigins)
	}

	if v := strings.TrimSpace(raw.JWTSecret); v != "" {
		cfg.JWTSecret = v
	}
	if v := strings.TrimSpace(raw.Timezone); v != "" {
		cfg.Timezone = v
	}
	if v := strings.TrimSpace(raw.TZ); v != "" {
		cfg.Timezone = v
	}

	cfg.AI = normalizeAIConfig(raw.AI)
	cfg.Storage = normalizeStorageConfig(cfg.Storage, raw.Storage)
	cfg.Admin = AdminBootstrapConfig{
		Username: strings.TrimSpace(raw.Admin.Username),
		Password: raw.Admin.Password,
		Email:    strings.TrimSpace(raw.Admin.Email),
	}

	cfg.Site = normalizeSiteConfig(cfg.Site, raw.Site)
	notify, err := normalizeNotifyConfig(cfg.Notify, raw.Notify)
	if err != nil {
		return err
	}
	cfg.Notify = notify

	gen, err := applyRawGeneratorConfig(cfg.Generator, raw.Generator)
	if err != nil {
		return err
	}
	cfg.Generator = gen

	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = cfg.Redis.URLValue()
	cfg.Env = normalizeEnv(cfg.Env)
	return nil
}

func applyRawDatabaseConfig(current DatabaseRuntimeConfig, raw rawAppConfig) DatabaseRuntimeConfig {
	cfg := current
	db := raw.Database

	for _, v := range []string{db.DSN, db.URL, raw.DSN, raw.DatabaseURL} {
		if v = strings.TrimSpace(v); v != "" {
			cfg.DSN = v
		}
	}
	if v := strings.TrimSpace(db.Host); v != "" {
		cfg.Host = v
	}
	if db.Port != 0 {
		cfg.Port = db.Port
	}
	if v := strings.TrimSpace(db.User); v != "" {
		cfg.User = v
	} else if v := strings.TrimSpace(db.Username); v != "" {
		cfg.User = v
	}
	if db.Password != "" {
		cfg.Password = db.Password
	}
	if v := strings.TrimSpace(db.Name); v != "" {
		cfg.Name = v
	} else if v := strings.TrimSpace(db.DBName); v != "" {
		cfg.Name = v
	}
	if v := strings.TrimSpace(db.Charset); v != "" {
		cfg.Charset = v
	}
	if db.ParseTime != nil {
		cfg.ParseTime = *db.ParseTime
	}
	if v := strings.TrimSpace(db.Loc); v != "" {
		cfg.Loc = v
	}
	if len(db.Params) > 0 {
		cfg.Params = copyStringMap(db.Params)
	}
	return cfg
}

func applyRawRedisConfig(current RedisRuntimeConfig, raw rawAppConfig) RedisRuntimeConfig {
	cfg := current
	rd := raw.Redis

	if v := normalizeRedisRawURL(rd.URL); v != "" {
		cfg.URL = v
	}
	if v := normalizeRedisRawURL(raw.RedisURL); v != "" {
		cfg.URL = v
	}
	if v := strings.TrimSpace(rd.Host); v != "" {
		cfg.Host = v
	}
	if rd.Port != 0 {
		cfg.Port = rd.Port
	}
	if v := strings.TrimSpace(rd.Username); v != "" {
		cfg.Username = v
	}
	if rd.Password != "" {
		cfg.Password = rd.Password
	}
	if rd.DB != nil {
		cfg.DB = *rd.DB
	}
	if rd.TLS != nil {
		cfg.TLS = *rd.TLS
	}
	return cfg
}

func applyRawGeneratorConfig(current GeneratorConfig, raw rawGeneratorConfig) (GeneratorConfig, error) {
	cfg := current
	if raw.Concurrency != 0 {
		cfg.Concurrency = raw.Concurrency
	}
	if raw.MaxTokens > 0 {
		cfg.MaxTokens = raw.MaxTokens
	}
	if v := strings.TrimSpace(raw.RunTTL); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid generator.run_ttl %q: %w", v, err)
		}
		if ttl <= 0 {
			return cfg, fmt.Errorf("invalid generator.run_ttl %q, expected > 0", v)
		}
		cfg.RunTTL = ttl
	}
	return cfg, nil
}

// IsDev reports whether the server runs in development mode.
func (c *AppConfig) IsDev() bool {
	return c.Env == "development"
}

// StorageEnabled reports whether media uploads can be served.
func (c *AppConfig) StorageEnabled() bool {
	s := c.Storage
	return s.Bucket != "" && s.AccessKeyID != "" && s.SecretAccessKey != ""
}
