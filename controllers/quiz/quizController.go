package quizController

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lms/middleware"
	courseModels "lms/models/course"
	quizValidator "lms/validators/quiz"
)

// Controller manages quizzes, questions and answers for the back office.
// Everything here returns correct answers in full.
type Controller struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Controller {
	return &Controller{db: db}
}

// adminQuizView is a quiz with its full question tree, correctness included
type adminQuizView struct {
	courseModels.Quiz
	Questions []adminQuestionView `json:"questions"`
}

type adminQuestionView struct {
	courseModels.Question
	Answers []courseModels.Answer `json:"answers"`
}

func (ctrl *Controller) quizTree(quiz *courseModels.Quiz) (*adminQuizView, error) {
	var questions []courseModels.Question
	if err := ctrl.db.Where("quiz_id = ?", quiz.ID).
		Order("order_index ASC").Find(&questions).Error; err != nil {
		return nil, err
	}

	view := adminQuizView{Quiz: *quiz, Questions: make([]adminQuestionView, 0, len(questions))}
	for _, q := range questions {
		var answers []courseModels.Answer
		if err := ctrl.db.Where("question_id = ?", q.ID).
			Order("order_index ASC").Find(&answers).Error; err != nil {
			return nil, err
		}
		view.Questions = append(view.Questions, adminQuestionView{Question: q, Answers: answers})
	}
	return &view, nil
}

func (ctrl *Controller) createQuiz(c *fiber.Ctx, quiz courseModels.Quiz, reqData *quizValidator.CreateQuizRequest) error {
	quiz.Title = reqData.Title
	quiz.Description = reqData.Description
	quiz.PassingScore = reqData.PassingScore
	quiz.TimeLimitMinutes = reqData.TimeLimitMinutes
	quiz.MaxAttempts = reqData.MaxAttempts
	quiz.IsPublished = true
	if reqData.IsPublished != nil {
		quiz.IsPublished = *reqData.IsPublished
	}

	err := ctrl.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&quiz).Error; err != nil {
			return err
		}
		for i, qp := range reqData.Questions {
			question := courseModels.Question{
				QuizID:       quiz.ID,
				QuestionText: qp.QuestionText,
				QuestionType: qp.QuestionType,
				Points:       qp.Points,
				OrderIndex:   i + 1,
				Explanation:  qp.Explanation,
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
			for j, ap := range qp.Answers {
				answer := courseModels.Answer{
					QuestionID: question.ID,
					AnswerText: ap.AnswerText,
					IsCorrect:  ap.IsCorrect,
					OrderIndex: j + 1,
				}
				if err := tx.Create(&answer).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Println("Failed to create quiz:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz", nil)
	}

	view, err := ctrl.quizTree(&quiz)
	if err != nil {
		log.Println("Failed to load quiz:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created", view)
}

// CreateModuleQuiz attaches a quiz to a module. One quiz per module.
func (ctrl *Controller) CreateModuleQuiz(c *fiber.Ctx) error {
	moduleID := c.Locals("moduleId").(uint)
	reqData := c.Locals("validatedQuiz").(*quizValidator.CreateQuizRequest)

	var module courseModels.Module
	if err := ctrl.db.First(&module, moduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found", nil)
		}
		log.Println("Failed to load module:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz", nil)
	}

	var existing int64
	if err := ctrl.db.Model(&courseModels.Quiz{}).
		Where("scope = ? AND module_id = ?", courseModels.QuizScopeModule, moduleID).
		Count(&existing).Error; err != nil {
		log.Println("Failed to check quiz:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz", nil)
	}
	if existing > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Module already has a quiz", nil)
	}

	return ctrl.createQuiz(c, courseModels.Quiz{
		Scope:    courseModels.QuizScopeModule,
		ModuleID: &module.ID,
	}, reqData)
}

// GetModuleQuiz returns a module's quiz with correct answers. Admin view.
func (ctrl *Controller) GetModuleQuiz(c *fiber.Ctx) error {
	moduleID := c.Locals("moduleId").(uint)

	var quiz courseModels.Quiz
	err := ctrl.db.Where("scope = ? AND module_id = ?", courseModels.QuizScopeModule, moduleID).
		First(&quiz).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found", nil)
		}
		log.Println("Failed to load quiz:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load quiz", nil)
	}

	view, err := ctrl.quizTree(&quiz)
	if err != nil {
		log.Println("Failed to load quiz:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load quiz", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz retrieved", view)
}

// CreateFinalQuiz attaches the certificate-gating quiz to a course.
func (ctrl *Controller) CreateFinalQuiz(c *fiber.Ctx) error {
	courseID := c.Locals("courseId").(uint)
	reqData := c.Locals("validatedQuiz").(*quizValidator.CreateQuizRequest)

	var course courseModels.Course
	if err := ctrl.db.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found", nil)
		}
		log.Println("Failed to load course:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz", nil)
	}

	var existing int64
	if err := ctrl.db.Model(&courseModels.Quiz{}).
		Where("scope = ? AND course_id = ?", courseModels.QuizScopeFinal, courseID).
		Count(&existing).Error; err != nil {
		log.Println("Failed to check quiz:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz", nil)
	}
	if existing > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Course already has a final quiz", nil)
	}

	return ctrl.createQuiz(c, courseModels.Quiz{
		Scope:    courseModels.QuizScopeFinal,
		CourseID: &course.ID,
	}, reqData)
}

// GetFinalQuiz returns a course's final quiz with correct answers. Admin view.
func (ctrl *Controller) GetFinalQuiz(c *fiber.Ctx) error {
	courseID := c.Locals("courseId").(uint)

	var quiz courseModels.Quiz
	err := ctrl.db.Where("scope = ? AND course_id = ?", courseModels.QuizScopeFinal, courseID).
		First(&quiz).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found", nil)
		}
		log.Println("Failed to load quiz:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load quiz", nil)
	}

	view, err := ctrl.quizTree(&quiz)
	if err != nil {
		log.Println("Failed to load quiz:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load quiz", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz retrieved", view)
}

func (ctrl *Controller) UpdateQuiz(c *fiber.Ctx) error {
	quizID := c.Locals("quizId").(uint)
	reqData := c.Locals("validatedQuizUpdate").(*quizValidator.UpdateQuizRequest)

	var quiz courseModels.Quiz
	if err := ctrl.db.First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found", nil)
		}
		log.Println("Failed to load quiz:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quiz", nil)
	}

	updates := make(map[string]interface{})
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.PassingScore != nil {
		updates["passing_score"] = *reqData.PassingScore
	}
	if reqData.TimeLimitMinutes != nil {
		updates["time_limit_minutes"] = *reqData.TimeLimitMinutes
	}
	if reqData.MaxAttempts != nil {
		updates["max_attempts"] = *reqData.MaxAttempts
	}
	if reqData.IsPublished != nil {
		updates["is_published"] = *reqData.IsPublished
	}

	if err := ctrl.db.Model(&quiz).Updates(updates).Error; err != nil {
		log.Println("Failed to update quiz:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quiz", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz updated", quiz)
}

// DeleteQuiz removes a quiz with its questions, answers and attempts
func (ctrl *Controller) DeleteQuiz(c *fiber.Ctx) error {
	quizID := c.Locals("quizId").(uint)

	var quiz courseModels.Quiz
	if err := ctrl.db.First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found", nil)
		}
		log.Println("Failed to load quiz:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete quiz", nil)
	}

	err := ctrl.db.Transaction(func(tx *gorm.DB) error {
		var questionIDs []uint
		if err := tx.Model(&courseModels.Question{}).
			Where("quiz_id = ?", quizID).
			Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&courseModels.Answer{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("quiz_id = ?", quizID).Delete(&courseModels.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", quizID).Delete(&courseModels.QuizAttempt{}).Error; err != nil {
			return err
		}
		return tx.Delete(&quiz).Error
	})
	if err != nil {
		log.Println("Failed to delete quiz:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete quiz", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz deleted", nil)
}

func (ctrl *Controller) ListQuestions(c *fiber.Ctx) error {
	quizID := c.Locals("quizId").(uint)

	var quiz courseModels.Quiz
	if err := ctrl.db.First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found", nil)
		}
		log.Println("Failed to load quiz:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load questions", nil)
	}

	view, err := ctrl.quizTree(&quiz)
	if err != nil {
		log.Println("Failed to load questions:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load questions", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Questions retrieved", view.Questions)
}

func (ctrl *Controller) CreateQuestion(c *fiber.Ctx) error {
	quizID := c.Locals("quizId").(uint)
	reqData := c.Locals("validatedQuestion").(*quizValidator.CreateQuestionRequest)

	var quiz courseModels.Quiz
	if err := ctrl.db.First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found", nil)
		}
		log.Println("Failed to load quiz:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create question", nil)
	}

	orderIndex := 0
	if reqData.OrderIndex != nil {
		orderIndex = *reqData.OrderIndex
	} else {
		var maxIdx int
		row := ctrl.db.Model(&courseModels.Question{}).
			Where("quiz_id = ?", quizID).
			Select("COALESCE(MAX(order_index), 0)").
			Row()
		if err := row.Scan(&maxIdx); err != nil {
			log.Println("Failed to read question order:", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create question", nil)
		}
		orderIndex = maxIdx + 1
	}

	question := courseModels.Question{
		QuizID:       quizID,
		QuestionText: reqData.QuestionText,
		QuestionType: reqData.QuestionType,
		Points:       reqData.Points,
		OrderIndex:   orderIndex,
		Explanation:  reqData.Explanation,
	}

	err := ctrl.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&question).Error; err != nil {
			return err
		}
		for j, ap := range reqData.Answers {
			answer := courseModels.Answer{
				QuestionID: question.ID,
				AnswerText: ap.AnswerText,
				IsCorrect:  ap.IsCorrect,
				OrderIndex: j + 1,
			}
			if err := tx.Create(&answer).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Println("Failed to create question:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create question", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Question created", question)
}

func (ctrl *Controller) UpdateQuestion(c *fiber.Ctx) error {
	questionID := c.Locals("questionId").(uint)
	reqData := c.Locals("validatedQuestionUpdate").(*quizValidator.UpdateQuestionRequest)

	var question courseModels.Question
	if err := ctrl.db.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found", nil)
		}
		log.Println("Failed to load question:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update question", nil)
	}

	updates := make(map[string]interface{})
	if reqData.QuestionText != nil {
		updates["question_text"] = *reqData.QuestionText
	}
	if reqData.QuestionType != nil {
		updates["question_type"] = *reqData.QuestionType
	}
	if reqData.Points != nil {
		updates["points"] = *reqData.Points
	}
	if reqData.OrderIndex != nil {
		updates["order_index"] = *reqData.OrderIndex
	}
	if reqData.Explanation != nil {
		updates["explanation"] = *reqData.Explanation
	}

	if err := ctrl.db.Model(&question).Updates(updates).Error; err != nil {
		log.Println("Failed to update question:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update question", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question updated", question)
}

func (ctrl *Controller) DeleteQuestion(c *fiber.Ctx) error {
	questionID := c.Locals("questionId").(uint)

	err := ctrl.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&courseModels.Question{}, questionID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("question_id = ?", questionID).Delete(&courseModels.Answer{}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found", nil)
		}
		log.Println("Failed to delete question:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete question", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question deleted", nil)
}

func (ctrl *Controller) ListAnswers(c *fiber.Ctx) error {
	questionID := c.Locals("questionId").(uint)

	var answers []courseModels.Answer
	if err := ctrl.db.Where("question_id = ?", questionID).
		Order("order_index ASC").Find(&answers).Error; err != nil {
		log.Println("Failed to list answers:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load answers", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answers retrieved", answers)
}

func (ctrl *Controller) CreateAnswer(c *fiber.Ctx) error {
	questionID := c.Locals("questionId").(uint)
	reqData := c.Locals("validatedAnswer").(*quizValidator.CreateAnswerRequest)

	var question courseModels.Question
	if err := ctrl.db.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found", nil)
		}
		log.Println("Failed to load question:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create answer", nil)
	}

	orderIndex := 0
	if reqData.OrderIndex != nil {
		orderIndex = *reqData.OrderIndex
	} else {
		var maxIdx int
		row := ctrl.db.Model(&courseModels.Answer{}).
			Where("question_id = ?", questionID).
			Select("COALESCE(MAX(order_index), 0)").
			Row()
		if err := row.Scan(&maxIdx); err != nil {
			log.Println("Failed to read answer order:", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create answer", nil)
		}
		orderIndex = maxIdx + 1
	}

	answer := courseModels.Answer{
		QuestionID: questionID,
		AnswerText: reqData.AnswerText,
		IsCorrect:  reqData.IsCorrect,
		OrderIndex: orderIndex,
	}
	if err := ctrl.db.Create(&answer).Error; err != nil {
		log.Println("Failed to create answer:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create answer", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Answer created", answer)
}

func (ctrl *Controller) UpdateAnswer(c *fiber.Ctx) error {
	answerID := c.Locals("answerId").(uint)
	reqData := c.Locals("validatedAnswerUpdate").(*quizValidator.UpdateAnswerRequest)

	var answer courseModels.Answer
	if err := ctrl.db.First(&answer, answerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Answer not found", nil)
		}
		log.Println("Failed to load answer:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update answer", nil)
	}

	updates := make(map[string]interface{})
	if reqData.AnswerText != nil {
		updates["answer_text"] = *reqData.AnswerText
	}
	if reqData.IsCorrect != nil {
		updates["is_correct"] = *reqData.IsCorrect
	}
	if reqData.OrderIndex != nil {
		updates["order_index"] = *reqData.OrderIndex
	}

	if err := ctrl.db.Model(&answer).Updates(updates).Error; err != nil {
		log.Println("Failed to update answer:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update answer", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer updated", answer)
}

func (ctrl *Controller) DeleteAnswer(c *fiber.Ctx) error {
	answerID := c.Locals("answerId").(uint)

	result := ctrl.db.Delete(&courseModels.Answer{}, answerID)
	if result.Error != nil {
		log.Println("Failed to delete answer:", result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete answer", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Answer not found", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer deleted", nil)
}
