package contentValidator

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"lms/middleware"
	"lms/progression"
)

// CreateModuleRequest is the parsed module creation payload
type CreateModuleRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	OrderPosition int    `json:"order_position"`
	IsPublished   *bool  `json:"is_published"`
}

// UpdateModuleRequest carries only the fields present in the body
type UpdateModuleRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	OrderPosition *int    `json:"order_position"`
	IsPublished   *bool   `json:"is_published"`
}

// HasFields reports whether any recognized field is present
func (r *UpdateModuleRequest) HasFields() bool {
	return r.Title != nil || r.Description != nil || r.OrderPosition != nil || r.IsPublished != nil
}

// ReorderRequest is an ordered list of ids defining the new sequence
type ReorderRequest struct {
	ModuleIDs []uint `json:"moduleIds"`
	LessonIDs []uint `json:"lessonIds"`
}

// CreateLessonRequest is the parsed lesson creation payload
type CreateLessonRequest struct {
	Title           string `json:"title"`
	Content         string `json:"content"`
	VideoURL        string `json:"video_url"`
	DurationMinutes int    `json:"duration_minutes"`
	OrderPosition   int    `json:"order_position"`
	IsPreview       *bool  `json:"is_preview"`
	IsPublished     *bool  `json:"is_published"`
}

// UpdateLessonRequest carries only the fields present in the body
type UpdateLessonRequest struct {
	Title           *string `json:"title"`
	Content         *string `json:"content"`
	VideoURL        *string `json:"video_url"`
	DurationMinutes *int    `json:"duration_minutes"`
	OrderPosition   *int    `json:"order_position"`
	IsPreview       *bool   `json:"is_preview"`
	IsPublished     *bool   `json:"is_published"`
}

// HasFields reports whether any recognized field is present
func (r *UpdateLessonRequest) HasFields() bool {
	return r.Title != nil || r.Content != nil || r.VideoURL != nil ||
		r.DurationMinutes != nil || r.OrderPosition != nil || r.IsPreview != nil || r.IsPublished != nil
}

// SubmitQuizRequest is the parsed quiz submission payload
type SubmitQuizRequest struct {
	Answers          []progression.AnswerSubmission `json:"answers"`
	TimeTakenSeconds int                            `json:"time_taken_seconds"`
}

func CreateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateModuleRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body", nil)
		}

		if strings.TrimSpace(reqData.Title) == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Title is required", nil)
		}

		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

func UpdateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateModuleRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body", nil)
		}

		if !reqData.HasFields() {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No fields to update", nil)
		}

		c.Locals("validatedModuleUpdate", reqData)
		return c.Next()
	}
}

func ReorderModules() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ReorderRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body", nil)
		}

		if len(reqData.ModuleIDs) == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "moduleIds is required", nil)
		}

		c.Locals("validatedReorder", reqData)
		return c.Next()
	}
}

func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateLessonRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body", nil)
		}

		if strings.TrimSpace(reqData.Title) == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Title is required", nil)
		}

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

func UpdateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateLessonRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body", nil)
		}

		if !reqData.HasFields() {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No fields to update", nil)
		}

		c.Locals("validatedLessonUpdate", reqData)
		return c.Next()
	}
}

func ReorderLessons() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ReorderRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body", nil)
		}

		if len(reqData.LessonIDs) == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "lessonIds is required", nil)
		}

		c.Locals("validatedReorder", reqData)
		return c.Next()
	}
}

func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SubmitQuizRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body", nil)
		}

		if len(reqData.Answers) == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Answers are required", nil)
		}

		c.Locals("validatedQuizSubmission", reqData)
		return c.Next()
	}
}
