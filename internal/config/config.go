package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"go-notes-api/internal/auth"
	"go-notes-api/internal/logger"
)

type Config struct {
	ServerPort              string
	ServerReadHeaderTimeout time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	RequestTimeout          time.Duration

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	JWTSecret    string
	JWTAccessTTL time.Duration
	JWTIssuer    string
	HashCost     int

	CORSOrigins      []string
	RateLimitRPM     int
	AuthRateLimitRPM int
	// TrustedProxies may set X-Forwarded-For / X-Real-IP for the client address.
	TrustedProxies []netip.Prefix

	LogLevel  string
	LogFormat string

	AdminUsername string
	AdminPassword string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := &envReader{}
	cfg := &Config{
		ServerPort:              env.getEnv("SERVER_PORT", "8080"),
		ServerReadHeaderTimeout: env.getDuration("SERVER_READ_HEADER_TIMEOUT", 10*time.Second),
		ServerWriteTimeout:      env.getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:       env.getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:          env.getDuration("REQUEST_TIMEOUT", 30*time.Second),
		DatabaseURL:             strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:              env.getInt32("DB_MAX_CONNS", 10),
		DBMinConns:              env.getInt32("DB_MIN_CONNS", 2),
		JWTSecret:               strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTAccessTTL:            env.getDuration("JWT_ACCESS_TTL", auth.DefaultTokenTTL),
		JWTIssuer:               env.getEnv("JWT_ISSUER", auth.DefaultTokenIssuer),
		HashCost:                env.getInt("HASH_COST", 0),
		CORSOrigins:             splitCSV(env.getEnv("CORS_ORIGINS", "*")),
		RateLimitRPM:            env.getInt("RATE_LIMIT_RPM", 100),
		AuthRateLimitRPM:        env.getInt("AUTH_RATE_LIMIT_RPM", 10),
		TrustedProxies:          env.getPrefixes("TRUSTED_PROXIES"),
		LogLevel:                env.getEnv("LOG_LEVEL", "info"),
		LogFormat:               env.getEnv("LOG_FORMAT", logger.FormatPretty),
		AdminUsername:           strings.TrimSpace(os.Getenv("ADMIN_USERNAME")),
		AdminPassword:           os.Getenv("ADMIN_PASSWORD"),
	}

	if err := env.err(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDatabase reads only the settings the admin CLI needs.
func LoadDatabase() (*Config, error) {
	_ = godotenv.Load()

	env := &envReader{}
	cfg := &Config{
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:  env.getInt32("DB_MAX_CONNS", 2),
		DBMinConns:  0,
		HashCost:    env.getInt("HASH_COST", 0),
	}
	if err := env.err(); err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("%w: DATABASE_URL is required", auth.ErrConfiguration)
	}
	return cfg, nil
}

// Validate reports the first invalid setting. Every error wraps
// auth.ErrConfiguration.
func (c *Config) Validate() error {
	if err := c.validate(); err != nil {
		return fmt.Errorf("%w: %w", auth.ErrConfiguration, err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if len(c.JWTSecret) < auth.MinSigningKeyLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", auth.MinSigningKeyLength)
	}

	if c.JWTAccessTTL < time.Second || c.JWTAccessTTL%time.Second != 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be a whole number of seconds, at least 1s")
	}

	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}

	if c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS")
	}

	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}

	switch strings.ToLower(c.LogFormat) {
	case logger.FormatPretty, logger.FormatJSON:
	default:
		return fmt.Errorf("LOG_FORMAT must be %q or %q", logger.FormatPretty, logger.FormatJSON)
	}

	if (c.AdminUsername == "") != (c.AdminPassword == "") {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}

	return nil
}

// envReader collects parse failures so Load can report every malformed setting
// instead of falling back to defaults.
type envReader struct {
	errs []error
}

func (e *envReader) err() error {
	if len(e.errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", auth.ErrConfiguration, errors.Join(e.errs...))
}

func (e *envReader) getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func (e *envReader) getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %q is not an integer", key, raw))
		return fallback
	}

	return v
}

func (e *envReader) getInt32(key string, fallback int32) int32 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %q is not a 32-bit integer", key, raw))
		return fallback
	}

	return int32(v)
}

func (e *envReader) getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %q is not a duration (e.g. 30s, 15m)", key, raw))
		return fallback
	}

	return v
}

// getPrefixes parses a comma separated list of CIDRs or bare addresses.
func (e *envReader) getPrefixes(key string) []netip.Prefix {
	entries := splitCSV(os.Getenv(key))
	if len(entries) == 0 {
		return nil
	}

	out := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				e.errs = append(e.errs, fmt.Errorf("%s: %q is not a CIDR", key, entry))
				continue
			}
			out = append(out, prefix.Masked())
			continue
		}

		addr, err := netip.ParseAddr(entry)
		if err != nil {
			e.errs = append(e.errs, fmt.Errorf("%s: %q is not an IP address", key, entry))
			continue
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}

	return out
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
