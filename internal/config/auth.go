package config

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"
)

type AuthConfig struct {
	JWTSecret []byte
	TokenTTL  time.Duration
}

var (
	authConfig *AuthConfig
	authOnce   sync.Once
)

func LoadAuthConfig() *AuthConfig {
	authOnce.Do(func() {
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			secret = "dev-secret-change-me"
			log.Println("Warning: JWT_SECRET not set, using development secret")
		}
		ttlHours := 24
		if v := os.Getenv("JWT_TTL_HOURS"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				ttlHours = parsed
			}
		}
		authConfig = &AuthConfig{
			JWTSecret: []byte(secret),
			TokenTTL:  time.Duration(ttlHours) * time.Hour,
		}
	})
	return authConfig
}
