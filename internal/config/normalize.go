package config

import (
	"fmt"
	"strings"
)

func normalizeRedisRawURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "redis://") || strings.HasPrefix(trimmed, "rediss://") {
		return trimmed
	}
	return "redis://" + trimmed
}

func normalizeAIConfig(raw AIConfig) AIConfig {
	out := AIConfig{
		Provider: strings.TrimSpace(raw.Provider),
		Model:    strings.TrimSpace(raw.Model),
	}
	for _, p := range raw.Providers {
		out.Providers = append(out.Providers, AIProvider{
			ID:           strings.TrimSpace(p.ID),
			Name:         strings.TrimSpace(p.Name),
			Type:         strings.TrimSpace(p.Type),
			APIKey:       strings.TrimSpace(p.APIKey),
			Endpoint:     strings.TrimRight(strings.TrimSpace(p.Endpoint), "/"),
			DefaultModel: strings.TrimSpace(p.DefaultModel),
			Enabled:      p.Enabled,
		})
	}
	return out
}

func normalizeStorageConfig(current, raw StorageConfig) StorageConfig {
	cfg := current
	if v := strings.TrimRight(strings.TrimSpace(raw.Endpoint), "/"); v != "" {
		cfg.Endpoint = v
	}
	if v := strings.TrimSpace(raw.Region); v != "" {
		cfg.Region = v
	}
	if v := strings.TrimSpace(raw.Bucket); v != "" {
		cfg.Bucket = v
	}
	if v := strings.TrimSpace(raw.AccessKeyID); v != "" {
		cfg.AccessKeyID = v
	}
	if v := strings.TrimSpace(raw.SecretAccessKey); v != "" {
		cfg.SecretAccessKey = v
	}
	if v := strings.TrimRight(strings.TrimSpace(raw.PublicURL), "/"); v != "" {
		cfg.PublicURL = v
	}
	if v := strings.Trim(strings.TrimSpace(raw.Prefix), "/"); v != "" {
		cfg.Prefix = v
	}
	if raw.PathStyle || cfg.Endpoint != "" {
		cfg.PathStyle = true
	}
	return cfg
}

func normalizeSiteConfig(current, raw SiteConfig) SiteConfig {
	cfg := current
	if v := strings.TrimRight(strings.TrimSpace(raw.URL), "/"); v != "" {
		cfg.URL = v
	}
	if v := strings.TrimSpace(raw.Name); v != "" {
		cfg.Name = v
	}
	if v := strings.TrimSpace(raw.Description); v != "" {
		cfg.Description = v
	}
	return cfg
}

func normalizeNotifyConfig(current, raw NotifyConfig) (NotifyConfig, error) {
	cfg := current
	cfg.Enable = raw.Enable
	cfg.Host = strings.TrimSpace(raw.Host)
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	cfg.User = strings.TrimSpace(raw.User)
	cfg.Pass = raw.Pass
	cfg.From = strings.TrimSpace(raw.From)
	cfg.To = nil
	for _, addr := range raw.To {
		if addr = strings.TrimSpace(addr); addr != "" {
			cfg.To = append(cfg.To, addr)
		}
	}
	if v := strings.ToLower(strings.TrimSpace(raw.MinTier)); v != "" {
		switch v {
		case "hot", "warm", "cold":
			cfg.MinTier = v
		default:
			return cfg, fmt.Errorf("invalid notify.min_tier %q, expected hot|warm|cold", raw.MinTier)
		}
	}
	if cfg.Enable && (cfg.Host == "" || len(cfg.To) == 0) {
		return cfg, fmt.Errorf("notify is enabled but host or to is empty")
	}
	return cfg, nil
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(env string) string {
	trimmed := strings.ToLower(strings.TrimSpace(env))
	switch trimmed {
	case "prod", "production":
		return "production"
	case "", "dev", "development":
		return "development"
	default:
		return trimmed
	}
}

func copyStringMap(input map[string]string) map[string]string {
	out := make(map[string]string, len(input))
	for k, v := range input {
		out[k] = v
	}
	return out
}
