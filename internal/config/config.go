package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"edu-service/pkg/password"
)

const (
	envPort                  = "PORT"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envDBHost                = "DB_HOST"
	envDBPort                = "DB_PORT"
	envDBName                = "DB_NAME"
	envDBUser                = "DB_USER"
	envDBPassword            = "DB_PASSWORD"
	envDBSSLMode             = "DB_SSL_MODE"
	envDBMaxConns            = "DB_MAX_CONNS"
	envDBMinConns            = "DB_MIN_CONNS"
	envJWTSecret             = "JWT_SECRET"
	envJWTExpiry             = "JWT_EXPIRY_MINUTES"
	envBcryptCost            = "BCRYPT_COST"
	envCacheBackend          = "CACHE_BACKEND"
	envCacheTTL              = "CACHE_TTL"
	envCacheCapacity         = "CACHE_CAPACITY"
	envRedisAddr             = "REDIS_ADDR"
	envGoogleClientID        = "GOOGLE_CLIENT_ID"
	envGoogleClientSecret    = "GOOGLE_CLIENT_SECRET"
	envGoogleRedirectURL     = "GOOGLE_REDIRECT_URL"
)

const (
	defaultServerPort         = "8080"
	defaultServerReadTimeout  = 10 * time.Second
	defaultServerWriteTimeout = 10 * time.Second
	defaultServerShutdown     = 10 * time.Second
	defaultDBHost             = "localhost"
	defaultDBPort             = 5432
	defaultDBName             = "eduservice"
	defaultDBUser             = "eduservice_app"
	defaultDBSSLMode          = "disable"
	defaultDBMaxConns         = 25
	defaultDBMinConns         = 5
	defaultJWTExpiry          = 60 * time.Minute
	defaultBcryptCost         = 12
	defaultCacheBackend       = CacheBackendMemory
	defaultCacheTTL           = 5 * time.Minute
	defaultCacheCapacity      = 1024

	minJWTSecretLength       = 32
	minUniqueCharsInSecret   = 16
	minRepeatedCharThreshold = 4
	maxRepeatedChars         = 2

	errPortRequiredFmt         = "PORT must be set"
	errDBPasswordRequiredFmt   = "DB_PASSWORD must be set"
	errJWTSecretRequiredFmt    = "JWT_SECRET must be set"
	errJWTSecretMinLengthFmt   = "JWT_SECRET must be at least %d characters"
	errJWTSecretLowEntropyFmt  = "JWT_SECRET has insufficient entropy (appears non-random). Use a cryptographically secure random string."
	errBcryptCostRangeFmt      = "BCRYPT_COST must be between %d and %d"
	errCacheBackendInvalidFmt  = "CACHE_BACKEND must be %q or %q"
	errCacheTTLInvalidFmt      = "CACHE_TTL must be positive"
	errCacheCapacityInvalidFmt = "CACHE_CAPACITY must be positive"
	errRedisAddrRequiredFmt    = "REDIS_ADDR must be set when CACHE_BACKEND is redis"
	errOAuthPartialFmt         = "GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET and GOOGLE_REDIRECT_URL must be set together"
	errInvalidConfigurationFmt = "invalid configuration: %w"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Cache    CacheConfig
	OAuth    OAuthConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MinConns int
}

type JWTConfig struct {
	Secret         string
	ExpiryDuration time.Duration
}

type AuthConfig struct {
	BcryptCost int
}

type CacheConfig struct {
	Backend   string
	TTL       time.Duration
	Capacity  int
	RedisAddr string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

// Enabled reports whether federated login is configured.
func (c *OAuthConfig) Enabled() bool {
	return c.GoogleClientID != ""
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv(envPort, defaultServerPort),
			ReadTimeout:     getDurationEnv(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:    getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout: getDurationEnv(envServerShutdownTimeout, defaultServerShutdown),
		},
		Database: DatabaseConfig{
			Host:     getEnv(envDBHost, defaultDBHost),
			Port:     getIntEnv(envDBPort, defaultDBPort),
			Database: getEnv(envDBName, defaultDBName),
			User:     getEnv(envDBUser, defaultDBUser),
			Password: requireEnv(envDBPassword),
			SSLMode:  getEnv(envDBSSLMode, defaultDBSSLMode),
			MaxConns: getIntEnv(envDBMaxConns, defaultDBMaxConns),
			MinConns: getIntEnv(envDBMinConns, defaultDBMinConns),
		},
		JWT: JWTConfig{
			Secret:         requireEnv(envJWTSecret),
			ExpiryDuration: getDurationEnv(envJWTExpiry, defaultJWTExpiry),
		},
		Auth: AuthConfig{
			BcryptCost: getIntEnv(envBcryptCost, defaultBcryptCost),
		},
		Cache: CacheConfig{
			Backend:   getEnv(envCacheBackend, defaultCacheBackend),
			TTL:       getDurationEnv(envCacheTTL, defaultCacheTTL),
			Capacity:  getIntEnv(envCacheCapacity, defaultCacheCapacity),
			RedisAddr: getEnv(envRedisAddr, ""),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     getEnv(envGoogleClientID, ""),
			GoogleClientSecret: getEnv(envGoogleClientSecret, ""),
			GoogleRedirectURL:  getEnv(envGoogleRedirectURL, ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf(errPortRequiredFmt)
	}

	if c.Database.Password == "" {
		return fmt.Errorf(errDBPasswordRequiredFmt)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf(errJWTSecretRequiredFmt)
	}

	if len(c.JWT.Secret) < minJWTSecretLength {
		return fmt.Errorf(errJWTSecretMinLengthFmt, minJWTSecretLength)
	}

	if !hasMinimumEntropy(c.JWT.Secret) {
		return fmt.Errorf(errJWTSecretLowEntropyFmt)
	}

	if c.Auth.BcryptCost < password.MinCost || c.Auth.BcryptCost > password.MaxCost {
		return fmt.Errorf(errBcryptCostRangeFmt, password.MinCost, password.MaxCost)
	}

	if c.Cache.Backend != CacheBackendMemory && c.Cache.Backend != CacheBackendRedis {
		return fmt.Errorf(errCacheBackendInvalidFmt, CacheBackendMemory, CacheBackendRedis)
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf(errCacheTTLInvalidFmt)
	}

	if c.Cache.Capacity <= 0 {
		return fmt.Errorf(errCacheCapacityInvalidFmt)
	}

	if c.Cache.Backend == CacheBackendRedis && c.Cache.RedisAddr == "" {
		return fmt.Errorf(errRedisAddrRequiredFmt)
	}

	oauthFieldsSet := 0
	for _, v := range []string{c.OAuth.GoogleClientID, c.OAuth.GoogleClientSecret, c.OAuth.GoogleRedirectURL} {
		if v != "" {
			oauthFieldsSet++
		}
	}
	if oauthFieldsSet != 0 && oauthFieldsSet != 3 {
		return fmt.Errorf(errOAuthPartialFmt)
	}

	return nil
}

func hasMinimumEntropy(secret string) bool {
	if len(secret) < minJWTSecretLength {
		return false
	}

	charCounts := make(map[rune]int)
	for _, char := range secret {
		charCounts[char]++
	}

	uniqueChars := len(charCounts)
	if uniqueChars < minUniqueCharsInSecret {
		return false
	}

	repeatedChars := 0
	for _, count := range charCounts {
		if count > len(secret)/minRepeatedCharThreshold {
			repeatedChars++
		}
	}

	return repeatedChars <= maxRepeatedChars
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func requireEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		panic(messages.requiredEnvNotSet(key))
	}
	return value
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}
