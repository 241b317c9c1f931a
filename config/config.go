package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort                = "8080"
	DefaultGatewayPort         = "8000"
	DefaultTokenLifetimeHours  = 24
	DefaultGraceMinutes        = 10
	DefaultVerificationMinutes = 10
	DefaultVerifySeconds       = 5
)

type Config struct {
	Env  string
	Port string

	DBURL         string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	TokenSecret string
	// TokenLifetime is how long an issued credential is valid for.
	TokenLifetime time.Duration
	// GraceWindow pads every store TTL past the credential expiry so
	// revocation records outlive the tokens they reject.
	GraceWindow time.Duration
	// VerificationTTL bounds one-time confirmation and reset codes.
	VerificationTTL time.Duration

	// OpenDoors disables request authentication globally. Local
	// development only.
	OpenDoors bool

	Domain         string
	FrontendDomain string

	// Gateway settings.
	GatewayPort     string
	UsersServiceURL string
	ContentURL      string
	StatsURL        string
	// VerifyTimeout bounds the gateway's call to the verification
	// endpoint; on expiry the request fails closed.
	VerifyTimeout time.Duration
}

func Load() *Config {
	env := getEnv("ENV", "development")

	// Env vars win over the file; godotenv.Load never overwrites
	// variables that are already set.
	if env == "production" {
		_ = godotenv.Load("config/.env.prod")
	} else {
		_ = godotenv.Load("config/.env.dev")
	}

	return &Config{
		Env:  env,
		Port: getEnv("PORT", DefaultPort),

		DBURL:         mustGetEnv("DB_URL"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		TokenSecret:     mustGetEnv("TOKEN_SECRET"),
		TokenLifetime:   time.Duration(getEnvAsInt("TOKEN_LIFETIME_HOURS", DefaultTokenLifetimeHours)) * time.Hour,
		GraceWindow:     time.Duration(getEnvAsInt("GRACE_MINUTES", DefaultGraceMinutes)) * time.Minute,
		VerificationTTL: time.Duration(getEnvAsInt("VERIFICATION_MINUTES", DefaultVerificationMinutes)) * time.Minute,

		OpenDoors: getEnvAsBool("OPEN_DOORS", false),

		Domain:         getEnv("APP_DOMAIN", "http://localhost:8080"),
		FrontendDomain: getEnv("FRONTEND_DOMAIN", "http://localhost:3000/"),

		GatewayPort:     getEnv("GATEWAY_PORT", DefaultGatewayPort),
		UsersServiceURL: getEnv("USERS_SERVICE_URL", "http://localhost:8080"),
		ContentURL:      getEnv("CONTENT_SERVICE_URL", "http://localhost:8081"),
		StatsURL:        getEnv("STATS_SERVICE_URL", "http://localhost:8082"),
		VerifyTimeout:   time.Duration(getEnvAsInt("VERIFY_TIMEOUT_SECONDS", DefaultVerifySeconds)) * time.Second,
	}
}

// LoadGateway reads only the keys the edge gateway needs; the gateway has
// no database, no store and no key material of its own.
func LoadGateway() *Config {
	env := getEnv("ENV", "development")

	if env == "production" {
		_ = godotenv.Load("config/.env.prod")
	} else {
		_ = godotenv.Load("config/.env.dev")
	}

	return &Config{
		Env:             env,
		GatewayPort:     getEnv("GATEWAY_PORT", DefaultGatewayPort),
		UsersServiceURL: getEnv("USERS_SERVICE_URL", "http://localhost:8080"),
		ContentURL:      getEnv("CONTENT_SERVICE_URL", "http://localhost:8081"),
		StatsURL:        getEnv("STATS_SERVICE_URL", "http://localhost:8082"),
		VerifyTimeout:   time.Duration(getEnvAsInt("VERIFY_TIMEOUT_SECONDS", DefaultVerifySeconds)) * time.Second,
	}
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required config: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %t", key, defaultVal)
		return defaultVal
	}
	return val
}
