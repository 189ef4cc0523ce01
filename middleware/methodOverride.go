package middleware

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// MethodOverride reinterprets a POST as PUT or DELETE when the client
// signals the intended verb, for deployment targets that cannot issue
// those verbs natively. The override applies to routing only.
func MethodOverride(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.Next()
	}

	override := c.Get("X-HTTP-Method-Override")
	if override == "" {
		var body struct {
			Method string `json:"_method"`
		}
		if err := json.Unmarshal(c.Body(), &body); err == nil {
			override = body.Method
		}
	}

	switch strings.ToUpper(override) {
	case fiber.MethodPut:
		c.Method(fiber.MethodPut)
	case fiber.MethodDelete:
		c.Method(fiber.MethodDelete)
	default:
		return c.Next()
	}

	// re-run route matching with the new verb
	return c.RestartRouting()
}
