package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Runtime settings, read from the environment (optionally populated from .env).
type Config struct {
	Port string

	// Base URL of an OSRM-compatible server serving /table and /route.
	OSRMURL string
	// Requests per second allowed against OSRMURL; the public demo server asks for 1.
	OSRMRPS float64

	SolverURL string
	// Remote persistence API. Empty selects the in-memory store.
	PersistenceURL string
	// YAML scenarios loaded into the in-memory store.
	SeedPath string

	// Distance cache backends; both empty disables caching.
	DatabaseURL string
	RedisURL    string

	GuardTimeout time.Duration
	// Upper bound for one solve round trip (matrix + solver).
	SolveTimeout time.Duration
}

func Load() Config {
	return Config{
		Port:           Get("PORT", "8080"),
		OSRMURL:        Get("OSRM_URL", "https://router.project-osrm.org"),
		OSRMRPS:        GetFloat("OSRM_RPS", 1),
		SolverURL:      Get("SOLVER_URL", "http://127.0.0.1:5100"),
		PersistenceURL: strings.TrimSpace(os.Getenv("PERSISTENCE_URL")),
		SeedPath:       Get("SEED_PATH", "data/seeds/scenarios.yaml"),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisURL:       strings.TrimSpace(os.Getenv("REDIS_URL")),
		GuardTimeout:   GetDuration("GUARD_TIMEOUT", 30*time.Second),
		SolveTimeout:   GetDuration("SOLVE_TIMEOUT", 2*time.Minute),
	}
}

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetFloat(key string, fallback float64) float64 {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("config: invalid %s=%q, using %v", key, raw, fallback)
		return fallback
	}
	return f
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("config: invalid %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}
