package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"lms/config"
	"lms/models"
)

// AuthUser is the verified token payload, carried in c.Locals for the
// duration of one request only.
type AuthUser struct {
	ID    uint
	Email string
	Role  string
}

const authUserKey = "authUser"

// CurrentUser returns the authenticated user set by Auth, if any
func CurrentUser(c *fiber.Ctx) (AuthUser, bool) {
	user, ok := c.Locals(authUserKey).(AuthUser)
	return user, ok
}

// GenerateToken signs a JWT for the given subject with HMAC-SHA256
func GenerateToken(cfg *config.Config, id uint, email, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":    id,
		"email": email,
		"role":  role,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Duration(cfg.JWTExpiry) * time.Second).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTKey))
}

// Auth returns a middleware that requires a valid bearer token and
// exposes the claims to the handler via CurrentUser.
func Auth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "No token provided", nil)
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid Authorization header format", nil)
		}

		tokenString := authHeader[len("Bearer "):]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(cfg.JWTKey), nil
		})
		if err != nil || !token.Valid {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired token", nil)
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || claims["id"] == nil {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid token payload", nil)
		}

		id, _ := claims["id"].(float64) // numeric claims decode as float64
		email, _ := claims["email"].(string)
		role, _ := claims["role"].(string)

		c.Locals(authUserKey, AuthUser{ID: uint(id), Email: email, Role: role})
		return c.Next()
	}
}

// OptionalAuth resolves a bearer token when one is sent but lets the
// request through either way. Handlers treat anonymous callers as the
// published-only public view.
func OptionalAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Next()
		}

		token, err := jwt.Parse(authHeader[len("Bearer "):], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(cfg.JWTKey), nil
		})
		if err != nil || !token.Valid {
			return c.Next()
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || claims["id"] == nil {
			return c.Next()
		}

		id, _ := claims["id"].(float64)
		email, _ := claims["email"].(string)
		role, _ := claims["role"].(string)

		c.Locals(authUserKey, AuthUser{ID: uint(id), Email: email, Role: role})
		return c.Next()
	}
}

// AdminOnly requires an authenticated admin. Runs after Auth.
func AdminOnly(c *fiber.Ctx) error {
	user, ok := CurrentUser(c)
	if !ok {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "No token provided", nil)
	}
	if user.Role != models.RoleAdmin {
		return JsonResponse(c, fiber.StatusForbidden, false, "Admin access required", nil)
	}
	return c.Next()
}

// StudentOnly requires an authenticated student. Runs after Auth.
func StudentOnly(c *fiber.Ctx) error {
	user, ok := CurrentUser(c)
	if !ok {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "No token provided", nil)
	}
	if user.Role != models.RoleStudent {
		return JsonResponse(c, fiber.StatusForbidden, false, "Student access required", nil)
	}
	return c.Next()
}

// InstructorOrAdmin requires an authenticated admin or instructor. Runs after Auth.
func InstructorOrAdmin(c *fiber.Ctx) error {
	user, ok := CurrentUser(c)
	if !ok {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "No token provided", nil)
	}
	if user.Role != models.RoleAdmin && user.Role != models.RoleInstructor {
		return JsonResponse(c, fiber.StatusForbidden, false, "Instructor or admin access required", nil)
	}
	return c.Next()
}
