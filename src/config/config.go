package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration. Every field maps to an
// environment variable; a .env file is loaded first when present.
type Config struct {
	Port               string        // HTTP port to listen on
	MongoURI           string        // MongoDB connection string
	MongoDB            string        // database name
	JWTSecret          string        // secret used to sign JWTs
	JWTExpire          time.Duration // JWT lifetime
	CORSOrigins        string        // comma-separated allowed origins
	JobCleanupInterval time.Duration // how often expired jobs are swept
}

// Load reads the .env file (if any) and the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	return Config{
		Port:               getEnv("PORT", "5000"),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:            getEnv("MONGO_DB", "alumnet"),
		JWTSecret:          getEnv("JWT_SECRET", "fallback-secret-key"),
		JWTExpire:          getDuration("JWT_EXPIRE", 24*time.Hour),
		CORSOrigins:        getEnv("CORS_ORIGINS", "http://localhost:5173"),
		JobCleanupInterval: getDuration("JOB_CLEANUP_INTERVAL", 24*time.Hour),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	// Plain numbers are treated as hours, matching the old JWT_EXPIRE
	// convention.
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Hour
	}
	log.Fatalf("invalid duration for %s: %s", key, v)
	return def
}
