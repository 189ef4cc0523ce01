package authValidator

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"lms/middleware"
	"lms/models"
	"lms/utils"
)

// LoginRequest is the parsed login payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the parsed admin-side registration payload
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body", nil)
		}

		if strings.TrimSpace(reqData.Email) == "" || strings.TrimSpace(reqData.Password) == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Email and password are required", nil)
		}

		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}

func Register() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RegisterRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Name) == "" {
			errors["name"] = "Name is required"
		}
		if strings.TrimSpace(reqData.Email) == "" {
			errors["email"] = "Email is required"
		} else if !utils.IsValidEmail(reqData.Email) {
			errors["email"] = "Invalid email format"
		}
		if len(reqData.Password) < 8 {
			errors["password"] = "Password must be at least 8 characters long"
		}

		// default role, reject unknown values
		if reqData.Role == "" {
			reqData.Role = models.RoleUser
		} else if !models.ValidRole(reqData.Role) {
			errors["role"] = "Invalid role"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRegister", reqData)
		return c.Next()
	}
}
