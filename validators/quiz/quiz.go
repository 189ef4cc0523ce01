package quizValidator

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"lms/middleware"
)

// AnswerPayload is a nested answer option of a question payload
type AnswerPayload struct {
	AnswerText string `json:"answer_text"`
	IsCorrect  bool   `json:"is_correct"`
	OrderIndex int    `json:"order_index"`
}

// QuestionPayload is a nested question of a quiz creation payload
type QuestionPayload struct {
	QuestionText string          `json:"question_text"`
	QuestionType string          `json:"question_type"`
	Points       int             `json:"points"`
	Explanation  string          `json:"explanation"`
	Answers      []AnswerPayload `json:"answers"`
}

// CreateQuizRequest creates a quiz with its questions in one shot
type CreateQuizRequest struct {
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	PassingScore     int               `json:"passing_score"`
	TimeLimitMinutes int               `json:"time_limit_minutes"`
	MaxAttempts      int               `json:"max_attempts"`
	IsPublished      *bool             `json:"is_published"`
	Questions        []QuestionPayload `json:"questions"`
}

// UpdateQuizRequest carries only the fields present in the body
type UpdateQuizRequest struct {
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	PassingScore     *int    `json:"passing_score"`
	TimeLimitMinutes *int    `json:"time_limit_minutes"`
	MaxAttempts      *int    `json:"max_attempts"`
	IsPublished      *bool   `json:"is_published"`
}

// HasFields reports whether any recognized field is present
func (r *UpdateQuizRequest) HasFields() bool {
	return r.Title != nil || r.Description != nil || r.PassingScore != nil ||
		r.TimeLimitMinutes != nil || r.MaxAttempts != nil || r.IsPublished != nil
}

// CreateQuestionRequest adds one question (with optional answers) to a quiz
type CreateQuestionRequest struct {
	QuestionText string          `json:"question_text"`
	QuestionType string          `json:"question_type"`
	Points       int             `json:"points"`
	OrderIndex   *int            `json:"order_index"`
	Explanation  string          `json:"explanation"`
	Answers      []AnswerPayload `json:"answers"`
}

// UpdateQuestionRequest carries only the fields present in the body
type UpdateQuestionRequest struct {
	QuestionText *string `json:"question_text"`
	QuestionType *string `json:"question_type"`
	Points       *int    `json:"points"`
	OrderIndex   *int    `json:"order_index"`
	Explanation  *string `json:"explanation"`
}

// HasFields reports whether any recognized field is present
func (r *UpdateQuestionRequest) HasFields() bool {
	return r.QuestionText != nil || r.QuestionType != nil || r.Points != nil ||
		r.OrderIndex != nil || r.Explanation != nil
}

// CreateAnswerRequest adds one answer option to a question
type CreateAnswerRequest struct {
	AnswerText string `json:"answer_text"`
	IsCorrect  bool   `json:"is_correct"`
	OrderIndex *int   `json:"order_index"`
}

// UpdateAnswerRequest carries only the fields present in the body
type UpdateAnswerRequest struct {
	AnswerText *string `json:"answer_text"`
	IsCorrect  *bool   `json:"is_correct"`
	OrderIndex *int    `json:"order_index"`
}

// HasFields reports whether any recognized field is present
func (r *UpdateAnswerRequest) HasFields() bool {
	return r.AnswerText != nil || r.IsCorrect != nil || r.OrderIndex != nil
}

func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateQuizRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required"
		}
		if len(reqData.Questions) == 0 {
			errors["questions"] = "At least one question is required"
		}
		for _, q := range reqData.Questions {
			if strings.TrimSpace(q.QuestionText) == "" {
				errors["questions"] = "Every question needs question_text"
				break
			}
		}
		if reqData.PassingScore < 0 || reqData.PassingScore > 100 {
			errors["passing_score"] = "Passing score must be between 0 and 100"
		}

		// defaults matching the course catalog conventions
		if reqData.PassingScore == 0 {
			reqData.PassingScore = 70
		}
		if reqData.MaxAttempts == 0 {
			reqData.MaxAttempts = 3
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

func UpdateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateQuizRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body", nil)
		}

		if !reqData.HasFields() {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No fields to update", nil)
		}

		if reqData.PassingScore != nil && (*reqData.PassingScore < 0 || *reqData.PassingScore > 100) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Passing score must be between 0 and 100", nil)
		}

		c.Locals("validatedQuizUpdate", reqData)
		return c.Next()
	}
}

func CreateQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateQuestionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body", nil)
		}

		if strings.TrimSpace(reqData.QuestionText) == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "question_text is required", nil)
		}
		if reqData.Points <= 0 {
			reqData.Points = 1
		}

		c.Locals("validatedQuestion", reqData)
		return c.Next()
	}
}

func UpdateQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateQuestionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body", nil)
		}

		if !reqData.HasFields() {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No fields to update", nil)
		}

		c.Locals("validatedQuestionUpdate", reqData)
		return c.Next()
	}
}

func CreateAnswer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateAnswerRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body", nil)
		}

		if strings.TrimSpace(reqData.AnswerText) == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "answer_text is required", nil)
		}

		c.Locals("validatedAnswer", reqData)
		return c.Next()
	}
}

func UpdateAnswer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateAnswerRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body", nil)
		}

		if !reqData.HasFields() {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No fields to update", nil)
		}

		c.Locals("validatedAnswerUpdate", reqData)
		return c.Next()
	}
}
