// Package config loads server settings from the environment, optionally
// layered over a config file named by CONFIG_FILE.
//
// Keys (env var name = config file key):
//
//	APP_ENV               dev | prod                          (default dev)
//	PORT                  listen port                         (default 8080)
//	USER_TABLE_PATH       path of the user table              (default db/user.csv)
//	SESSION_SECRET        enables signed session cookies      (default empty)
//	RATE_LIMIT            per-IP limit on /api, e.g. "60-M"   (default 60-M, "off" disables)
//	CORS_ALLOWED_ORIGINS  comma-separated origins for /api    (default *)
//	LOCALE                UI copy locale                      (default en)
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Env            string
	Port           int
	UserTablePath  string
	SessionSecret  string
	RateLimit      string
	AllowedOrigins []string
	Locale         string
}

// IsProduction reports whether APP_ENV is "prod".
func (c *Config) IsProduction() bool {
	return c.Env == "prod"
}

// Load reads the configuration. Environment variables win over the file.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("PORT", 8080)
	v.SetDefault("USER_TABLE_PATH", "db/user.csv")
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("RATE_LIMIT", "60-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("LOCALE", "en")

	if p := os.Getenv("CONFIG_FILE"); p != "" {
		v.SetConfigFile(p)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", p, err)
		}
	}

	cfg := &Config{
		Env:            strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV"))),
		Port:           v.GetInt("PORT"),
		UserTablePath:  strings.TrimSpace(v.GetString("USER_TABLE_PATH")),
		SessionSecret:  v.GetString("SESSION_SECRET"),
		RateLimit:      strings.TrimSpace(v.GetString("RATE_LIMIT")),
		AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		Locale:         v.GetString("LOCALE"),
	}
	if strings.EqualFold(cfg.RateLimit, "off") {
		cfg.RateLimit = ""
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Env != "dev" && c.Env != "prod" {
		return fmt.Errorf("config: APP_ENV must be dev or prod, got %q", c.Env)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.UserTablePath == "" {
		return errors.New("config: USER_TABLE_PATH must not be empty")
	}
	if c.SessionSecret != "" && len(c.SessionSecret) < 16 {
		return errors.New("config: SESSION_SECRET must be at least 16 characters")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
