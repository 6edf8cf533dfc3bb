package configprovider

import (
	"fmt"
	"lending/providers"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type EnvConfigProvider struct {
	env              string
	serverPort       string
	remoteAPIURL     string
	remoteAPITimeout time.Duration
	remoteJWTSecret  string
	staleAfter       time.Duration
	cacheBackend     string
	sqlitePath       string
	dbUser           string
	dbPassword       string
	dbHost           string
	dbPort           string
	dbName           string
	redisAddr        string
	cacheTTL         time.Duration
}

func NewConfigProvider() providers.ConfigProvider {
	return &EnvConfigProvider{}
}

func (e *EnvConfigProvider) LoadEnv() error {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not loaded, using system envs")
	}

	e.env = getEnv("APP_ENV", "dev")
	e.serverPort = getEnv("SERVER_PORT", "8080")
	e.remoteAPIURL = strings.TrimRight(getEnv("REMOTE_API_URL", "http://localhost:8000"), "/")
	e.remoteAPITimeout = durationEnv("REMOTE_API_TIMEOUT", 10*time.Second)
	e.remoteJWTSecret = os.Getenv("REMOTE_JWT_SECRET")
	e.staleAfter = durationEnv("STALE_AFTER", 30*time.Second)
	e.cacheBackend = strings.ToLower(getEnv("CACHE_BACKEND", "sqlite"))
	e.sqlitePath = getEnv("CACHE_SQLITE_PATH", "lending-cache.db")
	e.dbUser = os.Getenv("DB_USER")
	e.dbPassword = os.Getenv("DB_PASSWORD")
	e.dbHost = getEnv("DB_HOST", "localhost")
	e.dbPort = getEnv("DB_PORT", "5432")
	e.dbName = os.Getenv("DB_NAME")
	e.redisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	e.cacheTTL = durationEnv("CACHE_TTL", 0)

	switch e.cacheBackend {
	case "sqlite", "postgres", "redis", "memory":
	default:
		return fmt.Errorf("unsupported CACHE_BACKEND %q", e.cacheBackend)
	}
	return nil
}

func (e *EnvConfigProvider) GetEnv() string {
	return e.env
}

func (e *EnvConfigProvider) GetServerPort() string {
	return e.serverPort
}

func (e *EnvConfigProvider) GetRemoteAPIURL() string {
	return e.remoteAPIURL
}

func (e *EnvConfigProvider) GetRemoteAPITimeout() time.Duration {
	return e.remoteAPITimeout
}

func (e *EnvConfigProvider) GetRemoteJWTSecret() string {
	return e.remoteJWTSecret
}

func (e *EnvConfigProvider) GetStaleAfter() time.Duration {
	return e.staleAfter
}

func (e *EnvConfigProvider) GetCacheBackend() string {
	return e.cacheBackend
}

func (e *EnvConfigProvider) GetSQLitePath() string {
	return e.sqlitePath
}

func (e *EnvConfigProvider) GetDatabaseString() string {
	return fmt.Sprintf("user=%s password=%s host=%s port=%s dbname=%s sslmode=disable",
		e.dbUser, e.dbPassword, e.dbHost, e.dbPort, e.dbName)
}

func (e *EnvConfigProvider) GetRedisAddr() string {
	return e.redisAddr
}

func (e *EnvConfigProvider) GetCacheTTL() time.Duration {
	return e.cacheTTL
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using fallback %s", key, err, fallback)
			return fallback
		}
		return d
	}
	return fallback
}
