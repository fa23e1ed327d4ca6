package config

import (
	"os"
	"strings"

	"github.com/dmitrijs2005/gophforum/internal/flagx"
)

// parseEnv applies the deployment environment variables:
//
//	PORT          HTTP port; becomes HTTPAddr ":<PORT>"
//	DATABASE_URL  PostgreSQL DSN
//	JWT_SECRET    HMAC secret
//	FRONTEND_URL  replaces the primary CORS origin; the rest are kept
//
// Unset or empty variables leave the current value alone.
func parseEnv(config *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if strings.Contains(v, ":") {
			config.HTTPAddr = v
		} else {
			config.HTTPAddr = ":" + v
		}
	}
	setString(&config.DatabaseDSN, os.Getenv("DATABASE_URL"))
	setString(&config.SecretKey, os.Getenv("JWT_SECRET"))

	if v := os.Getenv("FRONTEND_URL"); v != "" {
		origins := flagx.SplitList(v)
		if len(config.AllowedOrigins) > 1 {
			origins = append(origins, config.AllowedOrigins[1:]...)
		}
		config.AllowedOrigins = origins
	}
}
