package studentValidator

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"lms/middleware"
	"lms/utils"
)

// RegisterRequest is the parsed student registration payload
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// LoginRequest is the parsed student login payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries only the fields present in the body
type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

// ChangePasswordRequest is the parsed password change payload
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
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

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedStudentRegister", reqData)
		return c.Next()
	}
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

		c.Locals("validatedStudentLogin", reqData)
		return c.Next()
	}
}

func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateProfileRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body", nil)
		}

		if reqData.Name == nil && reqData.Phone == nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No fields to update", nil)
		}

		if reqData.Name != nil && strings.TrimSpace(*reqData.Name) == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Name cannot be empty", nil)
		}

		c.Locals("validatedProfileUpdate", reqData)
		return c.Next()
	}
}

func ChangePassword() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ChangePasswordRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body", nil)
		}

		errors := make(map[string]string)

		if reqData.CurrentPassword == "" {
			errors["currentPassword"] = "Current password is required"
		}
		if len(reqData.NewPassword) < 8 {
			errors["newPassword"] = "New password must be at least 8 characters long"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPasswordChange", reqData)
		return c.Next()
	}
}
