package config

import (
	"github.com/joho/godotenv"

	"github.com/yourorg/property-api/internal/env"
)

// Config holds everything read from the environment at startup.
type Config struct {
	Port int

	MLSBaseURL   string // e.g. https://query.ampre.ca/odata
	MLSAuthToken string

	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseServiceKey string // optional; profile reads fall back to the anon key

	DefaultLimit int // default $top for listing queries, clamped 1-50 per request
	LogLevel     string
}

// Load reads an optional .env file, then the process environment.
// Missing upstream credentials are not fatal here; the endpoints that
// need them answer 503 until they are set.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:               env.GetInt("PORT", 4002),
		MLSBaseURL:         env.Get("MLS_API_URL", ""),
		MLSAuthToken:       env.Get("MLS_AUTH_TOKEN", ""),
		SupabaseURL:        env.Get("SUPABASE_URL", ""),
		SupabaseAnonKey:    env.Get("SUPABASE_ANON_KEY", ""),
		SupabaseServiceKey: env.Get("SUPABASE_SERVICE_ROLE_KEY", ""),
		DefaultLimit:       env.GetInt("PROPERTY_TOP_LIMIT", 24),
		LogLevel:           env.Get("LOG_LEVEL", "info"),
	}
}
