package siteValidator

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"lms/middleware"
	"lms/models"
	"lms/utils"
)

// CreatePostRequest is the parsed blog post creation payload
type CreatePostRequest struct {
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	Content       string `json:"content"`
	Excerpt       string `json:"excerpt"`
	FeaturedImage string `json:"featured_image"`
	Status        string `json:"status"`
}

// UpdatePostRequest carries only the fields present in the body
type UpdatePostRequest struct {
	Title         *string `json:"title"`
	Slug          *string `json:"slug"`
	Content       *string `json:"content"`
	Excerpt       *string `json:"excerpt"`
	FeaturedImage *string `json:"featured_image"`
	Status        *string `json:"status"`
}

// HasFields reports whether any recognized field is present
func (r *UpdatePostRequest) HasFields() bool {
	return r.Title != nil || r.Slug != nil || r.Content != nil ||
		r.Excerpt != nil || r.FeaturedImage != nil || r.Status != nil
}

// ContactRequest is the parsed public contact-form payload
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message" validate:"required"`
}

// DonationRequest is the parsed public donation payload
type DonationRequest struct {
	DonorName string  `json:"donor_name" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     string  `json:"phone"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Message   string  `json:"message"`
}

// StatusRequest is a bare status update payload
type StatusRequest struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

// CreateProgramRequest is the parsed program creation payload
type CreateProgramRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
}

// UpdateProgramRequest carries only the fields present in the body
type UpdateProgramRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	ImageURL    *string `json:"image_url"`
}

// HasFields reports whether any recognized field is present
func (r *UpdateProgramRequest) HasFields() bool {
	return r.Title != nil || r.Description != nil || r.Category != nil || r.ImageURL != nil
}

// UpdateOrganizationRequest carries only the fields present in the body
type UpdateOrganizationRequest struct {
	Name        *string `json:"name"`
	Mission     *string `json:"mission"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	FacebookURL *string `json:"facebook_url"`
	TwitterURL  *string `json:"twitter_url"`
}

// HasFields reports whether any recognized field is present
func (r *UpdateOrganizationRequest) HasFields() bool {
	return r.Name != nil || r.Mission != nil || r.Email != nil || r.Phone != nil ||
		r.Address != nil || r.FacebookURL != nil || r.TwitterURL != nil
}

// RoleRequest is the parsed admin user-role update payload
type RoleRequest struct {
	Role string `json:"role"`
}

func CreatePost() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreatePostRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required"
		}
		if strings.TrimSpace(reqData.Slug) == "" {
			errors["slug"] = "Slug is required"
		}
		if strings.TrimSpace(reqData.Content) == "" {
			errors["content"] = "Content is required"
		}
		if reqData.Status == "" {
			reqData.Status = models.BlogDraft
		} else if !models.ValidBlogStatus(reqData.Status) {
			errors["status"] = "Invalid status"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPost", reqData)
		return c.Next()
	}
}

func UpdatePost() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdatePostRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body", nil)
		}

		if !reqData.HasFields() {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No fields to update", nil)
		}
		if reqData.Status != nil && !models.ValidBlogStatus(*reqData.Status) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid status", nil)
		}

		c.Locals("validatedPostUpdate", reqData)
		return c.Next()
	}
}

func SubmitContact() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ContactRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body", nil)
		}

		if errors := utils.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedContact", reqData)
		return c.Next()
	}
}

func ContactStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(StatusRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body", nil)
		}

		if reqData.Status == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Status is required", nil)
		}
		if !models.ValidContactStatus(reqData.Status) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid status", nil)
		}

		c.Locals("validatedStatus", reqData)
		return c.Next()
	}
}

func CreateDonation() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(DonationRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body", nil)
		}

		if errors := utils.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedDonation", reqData)
		return c.Next()
	}
}

func DonationStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(StatusRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body", nil)
		}

		if reqData.PaymentStatus == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Payment status is required", nil)
		}
		if !models.ValidPaymentStatus(reqData.PaymentStatus) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid payment status", nil)
		}

		c.Locals("validatedStatus", reqData)
		return c.Next()
	}
}

func CreateProgram() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateProgramRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body", nil)
		}

		errors := make(map[string]string)
		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required"
		}
		if strings.TrimSpace(reqData.Description) == "" {
			errors["description"] = "Description is required"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProgram", reqData)
		return c.Next()
	}
}

func UpdateProgram() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateProgramRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body", nil)
		}

		if !reqData.HasFields() {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No fields to update", nil)
		}

		c.Locals("validatedProgramUpdate", reqData)
		return c.Next()
	}
}

func UpdateOrganization() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateOrganizationRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body", nil)
		}

		if !reqData.HasFields() {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No fields to update", nil)
		}
		if reqData.Email != nil && !utils.IsValidEmail(*reqData.Email) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid email format", nil)
		}

		c.Locals("validatedOrganization", reqData)
		return c.Next()
	}
}

func UpdateRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RoleRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body", nil)
		}

		if reqData.Role == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Role is required", nil)
		}
		if !models.ValidRole(reqData.Role) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid role", nil)
		}

		c.Locals("validatedRole", reqData)
		return c.Next()
	}
}
