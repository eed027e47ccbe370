package config

import "time"

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 8080
	defaultEnv        = "development"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "leadforge_site"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"
	defaultRedisHost  = "localhost"
	defaultRedisPort  = 6379
	defaultRedisDB    = 0

	defaultStorageRegion      = "us-east-1"
	defaultStoragePrefix      = "uploads"
	defaultGeneratorRunTTL    = 2 * time.Hour
	defaultGeneratorMaxTokens = 4096
	maxGeneratorConcurrency   = 8

	defaultSiteURL       = "http://localhost:3000"
	defaultSiteName      = "LeadForge"
	defaultNotifyPort    = 587
	defaultNotifyMinTier = "hot"
)
