package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
)

const (
	ContextOwnerKey = "owner_id"
	ContextRoleKey  = "role"
)

type Claims struct {
	Subject string `json:"sub"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// RequireAuth validates the bearer token and stores the owner identity on
// the request context.
func RequireAuth(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing bearer token"})
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(header[len("Bearer "):], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
		}

		owner := claims.Subject
		if owner == "" {
			owner = claims.RegisteredClaims.Subject
		}
		if owner == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "token has no subject"})
		}

		c.Locals(ContextOwnerKey, owner)
		c.Locals(ContextRoleKey, claims.Role)
		return c.Next()
	}
}

// RequireAdmin gates maintenance operations. Runs after RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(ContextRoleKey).(string)
		if role != "admin" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin role required"})
		}
		return c.Next()
	}
}

func Owner(c *fiber.Ctx) string {
	owner, _ := c.Locals(ContextOwnerKey).(string)
	return owner
}
