package params

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"lms/middleware"
)

// ID validates that the named path parameter is a positive integer and
// stores it under localKey for the controller.
func ID(paramName, localKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params(paramName))
		if idStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, paramName+" is required", nil)
		}

		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+paramName, nil)
		}

		c.Locals(localKey, uint(id))
		return c.Next()
	}
}
