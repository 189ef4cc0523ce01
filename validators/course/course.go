package courseValidator

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"lms/middleware"
	courseModels "lms/models/course"
)

// CreateCourseRequest is the parsed course creation payload
type CreateCourseRequest struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Type          string     `json:"type"`
	Level         string     `json:"level"`
	Duration      string     `json:"duration"`
	Price         float64    `json:"price"`
	Instructor    string     `json:"instructor"`
	Schedule      string     `json:"schedule"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	MaxStudents   int        `json:"max_students"`
	IsActive      *bool      `json:"is_active"`
	ThumbnailURL  string     `json:"thumbnail_url"`
	IntroVideoURL string     `json:"intro_video_url"`
}

// UpdateCourseRequest carries only the fields present in the body
type UpdateCourseRequest struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	Type          *string    `json:"type"`
	Level         *string    `json:"level"`
	Duration      *string    `json:"duration"`
	Price         *float64   `json:"price"`
	Instructor    *string    `json:"instructor"`
	Schedule      *string    `json:"schedule"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	MaxStudents   *int       `json:"max_students"`
	IsActive      *bool      `json:"is_active"`
	ThumbnailURL  *string    `json:"thumbnail_url"`
	IntroVideoURL *string    `json:"intro_video_url"`
}

// HasFields reports whether any recognized field is present
func (r *UpdateCourseRequest) HasFields() bool {
	return r.Title != nil || r.Description != nil || r.Type != nil || r.Level != nil ||
		r.Duration != nil || r.Price != nil || r.Instructor != nil || r.Schedule != nil ||
		r.StartDate != nil || r.EndDate != nil || r.MaxStudents != nil || r.IsActive != nil ||
		r.ThumbnailURL != nil || r.IntroVideoURL != nil
}

// EnrollmentStatusRequest is the parsed status update payload
type EnrollmentStatusRequest struct {
	Status string `json:"status"`
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)
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
		if reqData.Type == "" {
			reqData.Type = courseModels.TypeOnline
		} else if !courseModels.ValidCourseType(reqData.Type) {
			errors["type"] = "Invalid course type"
		}
		if reqData.Price < 0 {
			errors["price"] = "Price cannot be negative"
		}
		if reqData.MaxStudents < 0 {
			errors["max_students"] = "Max students cannot be negative"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body", nil)
		}

		if !reqData.HasFields() {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No fields to update", nil)
		}

		if reqData.Type != nil && !courseModels.ValidCourseType(*reqData.Type) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course type", nil)
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

func EnrollmentStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(EnrollmentStatusRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body", nil)
		}

		if reqData.Status == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Status is required", nil)
		}
		if !courseModels.ValidEnrollmentStatus(reqData.Status) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid status", nil)
		}

		c.Locals("validatedEnrollmentStatus", reqData)
		return c.Next()
	}
}
