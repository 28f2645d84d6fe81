package config

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// AuthConfig guards the administrative endpoints (catalog refresh). The
// admin key is stored as a bcrypt hash; a JWT signed with Secret is issued
// after a successful key exchange.
type AuthConfig struct {
	// AdminKeyHash is the bcrypt hash of the admin key. Empty disables the
	// admin endpoints entirely.
	AdminKeyHash    string
	Secret          string
	ExpirationHours int
}

// NewAuthConfig reads ADMIN_KEY_HASH, JWT_SECRET and JWT_EXPIRATION_HOURS
// (default 24) from the environment.
func NewAuthConfig() (*AuthConfig, error) {
	cfg := &AuthConfig{
		AdminKeyHash:    os.Getenv("ADMIN_KEY_HASH"),
		Secret:          os.Getenv("JWT_SECRET"),
		ExpirationHours: 24,
	}

	if v := os.Getenv("JWT_EXPIRATION_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %v", err)
		}
		cfg.ExpirationHours = hours
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Enabled reports whether the admin endpoints are configured at all.
func (c *AuthConfig) Enabled() bool {
	return c.AdminKeyHash != ""
}

func (c *AuthConfig) normalize() error {
	if c.AdminKeyHash != "" && c.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required when ADMIN_KEY_HASH is set")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}

// HashAdminKey hashes an admin key for storage in ADMIN_KEY_HASH.
func HashAdminKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash admin key: %w", err)
	}
	return string(hash), nil
}

// VerifyAdminKey checks a presented key against the stored hash.
func (c *AuthConfig) VerifyAdminKey(key string) bool {
	if c.AdminKeyHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(c.AdminKeyHash), []byte(key)) == nil
}
