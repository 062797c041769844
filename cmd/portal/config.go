package main

import (
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/joho/godotenv"
	"github.com/serenoa/go-session"
)

// Config carries everything the portal needs from the environment. The
// backend URL and the role gate are the only things that differ between the
// admin and the provider deployments of the same binary.
type Config struct {
	Address    string
	APIBaseURL string
	ViewsDir   string

	// TokenStore selects where the credential slot lives:
	// memory, file, sqlite, or redis.
	TokenStore string
	TokenFile  string
	TokenSlot  string
	SQLiteDSN  string

	RedisAddr     string
	RedisPassword string

	AllowedRoles   []session.UserRole
	LoginPath      string
	RedirectCookie string
}

func LoadConfig() (*Config, error) {
	// missing .env is fine, the environment may be set by the host
	godotenv.Load()

	cfg := &Config{
		Address:        getEnv("PORTAL_ADDRESS", ":8572"),
		APIBaseURL:     getEnv("PORTAL_API_URL", "http://localhost:3000/api"),
		ViewsDir:       getEnv("PORTAL_VIEWS_DIR", "./views"),
		TokenStore:     getEnv("PORTAL_TOKEN_STORE", "file"),
		TokenFile:      getEnv("PORTAL_TOKEN_FILE", ".portal/token"),
		TokenSlot:      getEnv("PORTAL_TOKEN_SLOT", "key"),
		SQLiteDSN:      getEnv("PORTAL_SQLITE_DSN", "file:.portal/session.db?cache=shared"),
		RedisAddr:      getEnv("PORTAL_REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("PORTAL_REDIS_PASSWORD", ""),
		AllowedRoles:   getEnvRoles("PORTAL_ROLES", session.RoleAdmin),
		LoginPath:      getEnv("PORTAL_LOGIN_PATH", "/login"),
		RedirectCookie: getEnv("PORTAL_REDIRECT_COOKIE", "rejected_route"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Address, validation.Required),
		validation.Field(&c.APIBaseURL, validation.Required),
		validation.Field(&c.TokenStore, validation.Required,
			validation.In("memory", "file", "sqlite", "redis")),
	)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// getEnvRoles parses a comma separated role list, dropping names the
// marketplace does not recognize
func getEnvRoles(key string, fallback ...session.UserRole) []session.UserRole {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}

	var roles []session.UserRole
	for _, part := range strings.Split(raw, ",") {
		role, ok := session.ParseRole(part)
		if !ok {
			continue
		}
		roles = append(roles, role)
	}

	if len(roles) == 0 {
		return fallback
	}
	return roles
}
