package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/myhireapp/myhire-api/internal/config"
	"github.com/myhireapp/myhire-api/internal/model"
	"github.com/myhireapp/myhire-api/internal/repository"
)

// UserKey is the fiber locals key the authenticated user is stored under.
const UserKey = "currentUser"

// RequireAuth validates the bearer token and loads the user row so handlers
// can read the per-user OpenAI key without another lookup.
func RequireAuth(users *repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return config.LoadAuthConfig().JWTSecret, nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
		sub, _ := claims["sub"].(string)
		if sub == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		user, err := users.FindByID(sub)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		c.Locals(UserKey, user)
		return c.Next()
	}
}

// CurrentUser reads the authenticated user set by RequireAuth.
func CurrentUser(c *fiber.Ctx) *model.User {
	user, _ := c.Locals(UserKey).(*model.User)
	return user
}
