package contentController

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/progression"
	contentValidator "lms/validators/content"
)

type Controller struct {
	db     *gorm.DB
	engine *progression.Engine
}

func New(db *gorm.DB) *Controller {
	return &Controller{db: db, engine: progression.NewEngine(db)}
}

// moduleView is a module with its lessons nested for the curriculum view
type moduleView struct {
	courseModels.Module
	Lessons []courseModels.Lesson `json:"lessons"`
}

// staffView reports whether the caller may see unpublished content.
// Anonymous callers and students get the published-only view.
func staffView(c *fiber.Ctx) bool {
	user, ok := middleware.CurrentUser(c)
	return ok && (user.Role == models.RoleAdmin || user.Role == models.RoleInstructor)
}

// CourseModules returns the course curriculum, modules with lessons
// nested in order.
func (ctrl *Controller) CourseModules(c *fiber.Ctx) error {
	courseID := c.Locals("courseId").(uint)
	publishedOnly := !staffView(c)

	var course courseModels.Course
	if err := ctrl.db.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found", nil)
		}
		log.Println("Failed to load course:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load modules", nil)
	}

	moduleQuery := ctrl.db.Where("course_id = ?", courseID)
	if publishedOnly {
		moduleQuery = moduleQuery.Where("is_published = ?", true)
	}

	var modules []courseModels.Module
	if err := moduleQuery.Order("order_position ASC").Find(&modules).Error; err != nil {
		log.Println("Failed to list modules:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load modules", nil)
	}

	views := make([]moduleView, 0, len(modules))
	for _, m := range modules {
		lessonQuery := ctrl.db.Where("module_id = ?", m.ID)
		if publishedOnly {
			lessonQuery = lessonQuery.Where("is_published = ?", true)
		}

		var lessons []courseModels.Lesson
		if err := lessonQuery.Order("order_position ASC").Find(&lessons).Error; err != nil {
			log.Println("Failed to list lessons:", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load modules", nil)
		}
		views = append(views, moduleView{Module: m, Lessons: lessons})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules retrieved", views)
}

func (ctrl *Controller) GetModule(c *fiber.Ctx) error {
	moduleID := c.Locals("moduleId").(uint)

	var module courseModels.Module
	if err := ctrl.db.First(&module, moduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found", nil)
		}
		log.Println("Failed to load module:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load module", nil)
	}

	if !module.IsPublished && !staffView(c) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module retrieved", module)
}

// CreateModule appends a module to a course. When no order position is
// given it lands after the current last module.
func (ctrl *Controller) CreateModule(c *fiber.Ctx) error {
	courseID := c.Locals("courseId").(uint)
	reqData := c.Locals("validatedModule").(*contentValidator.CreateModuleRequest)

	var course courseModels.Course
	if err := ctrl.db.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found", nil)
		}
		log.Println("Failed to load course:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module", nil)
	}

	position := reqData.OrderPosition
	if position <= 0 {
		var maxPos int
		row := ctrl.db.Model(&courseModels.Module{}).
			Where("course_id = ?", courseID).
			Select("COALESCE(MAX(order_position), 0)").
			Row()
		if err := row.Scan(&maxPos); err != nil {
			log.Println("Failed to read module order:", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module", nil)
		}
		position = maxPos + 1
	}

	module := courseModels.Module{
		CourseID:      courseID,
		Title:         reqData.Title,
		Description:   reqData.Description,
		OrderPosition: position,
		IsPublished:   true,
	}
	if reqData.IsPublished != nil {
		module.IsPublished = *reqData.IsPublished
	}

	if err := ctrl.db.Create(&module).Error; err != nil {
		log.Println("Failed to create module:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created", module)
}

func (ctrl *Controller) UpdateModule(c *fiber.Ctx) error {
	moduleID := c.Locals("moduleId").(uint)
	reqData := c.Locals("validatedModuleUpdate").(*contentValidator.UpdateModuleRequest)

	var module courseModels.Module
	if err := ctrl.db.First(&module, moduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found", nil)
		}
		log.Println("Failed to load module:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module", nil)
	}

	updates := make(map[string]interface{})
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.OrderPosition != nil {
		updates["order_position"] = *reqData.OrderPosition
	}
	if reqData.IsPublished != nil {
		updates["is_published"] = *reqData.IsPublished
	}

	if err := ctrl.db.Model(&module).Updates(updates).Error; err != nil {
		log.Println("Failed to update module:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module updated", module)
}

// DeleteModule removes a module with its lessons and attached quiz.
func (ctrl *Controller) DeleteModule(c *fiber.Ctx) error {
	moduleID := c.Locals("moduleId").(uint)

	var module courseModels.Module
	if err := ctrl.db.First(&module, moduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found", nil)
		}
		log.Println("Failed to load module:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module", nil)
	}

	err := ctrl.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("module_id = ?", moduleID).Delete(&courseModels.Lesson{}).Error; err != nil {
			return err
		}

		var quizzes []courseModels.Quiz
		if err := tx.Where("scope = ? AND module_id = ?", courseModels.QuizScopeModule, moduleID).
			Find(&quizzes).Error; err != nil {
			return err
		}
		for _, quiz := range quizzes {
			if err := deleteQuizTree(tx, quiz.ID); err != nil {
				return err
			}
		}

		return tx.Delete(&module).Error
	})
	if err != nil {
		log.Println("Failed to delete module:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module deleted", nil)
}

// deleteQuizTree removes a quiz with its questions, answers and attempts
func deleteQuizTree(tx *gorm.DB, quizID uint) error {
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
	return tx.Delete(&courseModels.Quiz{}, quizID).Error
}

// ReorderModules rewrites the order of a course's modules to match the
// submitted id list. Positions come out contiguous from 1.
func (ctrl *Controller) ReorderModules(c *fiber.Ctx) error {
	courseID := c.Locals("courseId").(uint)
	reqData := c.Locals("validatedReorder").(*contentValidator.ReorderRequest)

	err := ctrl.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&courseModels.Module{}).
			Where("course_id = ? AND id IN ?", courseID, reqData.ModuleIDs).
			Count(&count).Error; err != nil {
			return err
		}
		if count != int64(len(reqData.ModuleIDs)) {
			return gorm.ErrRecordNotFound
		}

		for i, id := range reqData.ModuleIDs {
			if err := tx.Model(&courseModels.Module{}).
				Where("id = ?", id).
				Update("order_position", i+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "One or more modules do not belong to this course", nil)
		}
		log.Println("Failed to reorder modules:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reorder modules", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules reordered", nil)
}

func (ctrl *Controller) ModuleLessons(c *fiber.Ctx) error {
	moduleID := c.Locals("moduleId").(uint)

	query := ctrl.db.Where("module_id = ?", moduleID)
	if !staffView(c) {
		query = query.Where("is_published = ?", true)
	}

	var lessons []courseModels.Lesson
	if err := query.Order("order_position ASC").Find(&lessons).Error; err != nil {
		log.Println("Failed to list lessons:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load lessons", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lessons retrieved", lessons)
}

func (ctrl *Controller) GetLesson(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonId").(uint)

	var lesson courseModels.Lesson
	if err := ctrl.db.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found", nil)
		}
		log.Println("Failed to load lesson:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load lesson", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson retrieved", lesson)
}

func (ctrl *Controller) CreateLesson(c *fiber.Ctx) error {
	moduleID := c.Locals("moduleId").(uint)
	reqData := c.Locals("validatedLesson").(*contentValidator.CreateLessonRequest)

	var module courseModels.Module
	if err := ctrl.db.First(&module, moduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found", nil)
		}
		log.Println("Failed to load module:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson", nil)
	}

	position := reqData.OrderPosition
	if position <= 0 {
		var maxPos int
		row := ctrl.db.Model(&courseModels.Lesson{}).
			Where("module_id = ?", moduleID).
			Select("COALESCE(MAX(order_position), 0)").
			Row()
		if err := row.Scan(&maxPos); err != nil {
			log.Println("Failed to read lesson order:", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson", nil)
		}
		position = maxPos + 1
	}

	lesson := courseModels.Lesson{
		ModuleID:        moduleID,
		Title:           reqData.Title,
		Content:         reqData.Content,
		VideoURL:        reqData.VideoURL,
		DurationMinutes: reqData.DurationMinutes,
		OrderPosition:   position,
		IsPublished:     true,
	}
	if reqData.IsPreview != nil {
		lesson.IsPreview = *reqData.IsPreview
	}
	if reqData.IsPublished != nil {
		lesson.IsPublished = *reqData.IsPublished
	}

	if err := ctrl.db.Create(&lesson).Error; err != nil {
		log.Println("Failed to create lesson:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created", lesson)
}

func (ctrl *Controller) UpdateLesson(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonId").(uint)
	reqData := c.Locals("validatedLessonUpdate").(*contentValidator.UpdateLessonRequest)

	var lesson courseModels.Lesson
	if err := ctrl.db.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found", nil)
		}
		log.Println("Failed to load lesson:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lesson", nil)
	}

	updates := make(map[string]interface{})
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Content != nil {
		updates["content"] = *reqData.Content
	}
	if reqData.VideoURL != nil {
		updates["video_url"] = *reqData.VideoURL
	}
	if reqData.DurationMinutes != nil {
		updates["duration_minutes"] = *reqData.DurationMinutes
	}
	if reqData.OrderPosition != nil {
		updates["order_position"] = *reqData.OrderPosition
	}
	if reqData.IsPreview != nil {
		updates["is_preview"] = *reqData.IsPreview
	}
	if reqData.IsPublished != nil {
		updates["is_published"] = *reqData.IsPublished
	}

	if err := ctrl.db.Model(&lesson).Updates(updates).Error; err != nil {
		log.Println("Failed to update lesson:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lesson", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated", lesson)
}

func (ctrl *Controller) DeleteLesson(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonId").(uint)

	err := ctrl.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&courseModels.Lesson{}, lessonID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("lesson_id = ?", lessonID).Delete(&courseModels.LessonProgress{}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found", nil)
		}
		log.Println("Failed to delete lesson:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lesson", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted", nil)
}

// ReorderLessons rewrites lesson order within a module
func (ctrl *Controller) ReorderLessons(c *fiber.Ctx) error {
	moduleID := c.Locals("moduleId").(uint)
	reqData := c.Locals("validatedReorder").(*contentValidator.ReorderRequest)

	err := ctrl.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&courseModels.Lesson{}).
			Where("module_id = ? AND id IN ?", moduleID, reqData.LessonIDs).
			Count(&count).Error; err != nil {
			return err
		}
		if count != int64(len(reqData.LessonIDs)) {
			return gorm.ErrRecordNotFound
		}

		for i, id := range reqData.LessonIDs {
			if err := tx.Model(&courseModels.Lesson{}).
				Where("id = ?", id).
				Update("order_position", i+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "One or more lessons do not belong to this module", nil)
		}
		log.Println("Failed to reorder lessons:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reorder lessons", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lessons reordered", nil)
}

// CompleteLesson marks a lesson done for the authenticated student.
// Completing twice is fine; the first record wins.
func (ctrl *Controller) CompleteLesson(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	lessonID := c.Locals("lessonId").(uint)

	record, alreadyCompleted, err := ctrl.engine.CompleteLesson(user.ID, lessonID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found", nil)
		case errors.Is(err, progression.ErrModuleLocked):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Complete the previous module first", nil)
		}
		log.Println("Failed to complete lesson:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete lesson", nil)
	}

	message := "Lesson completed"
	if alreadyCompleted {
		message = "Lesson already completed"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, record)
}

// CourseProgress reports completion for the authenticated student
func (ctrl *Controller) CourseProgress(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	courseID := c.Locals("courseId").(uint)

	progress, err := ctrl.engine.CourseProgress(user.ID, courseID)
	if err != nil {
		log.Println("Failed to compute progress:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load progress", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress retrieved", progress)
}

// ModuleUnlocked reports whether the student may enter a module
func (ctrl *Controller) ModuleUnlocked(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	moduleID := c.Locals("moduleId").(uint)

	unlocked, err := ctrl.engine.ModuleUnlocked(user.ID, moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found", nil)
		}
		log.Println("Failed to check module:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check module", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module status retrieved", fiber.Map{
		"module_id": moduleID,
		"unlocked":  unlocked,
	})
}

// answerOption hides correctness when the quiz is served to students
type answerOption struct {
	ID         uint   `json:"id"`
	AnswerText string `json:"answer_text"`
	OrderIndex int    `json:"order_index"`
}

type questionView struct {
	ID           uint           `json:"id"`
	QuestionText string         `json:"question_text"`
	QuestionType string         `json:"question_type"`
	Points       int            `json:"points"`
	OrderIndex   int            `json:"order_index"`
	Answers      []answerOption `json:"answers"`
}

type quizView struct {
	ID               uint                       `json:"id"`
	Title            string                     `json:"title"`
	Description      string                     `json:"description"`
	PassingScore     int                        `json:"passing_score"`
	TimeLimitMinutes int                        `json:"time_limit_minutes"`
	MaxAttempts      int                        `json:"max_attempts"`
	Questions        []questionView             `json:"questions"`
	Attempts         []courseModels.QuizAttempt `json:"attempts"`
}

func (ctrl *Controller) studentQuizView(quiz *courseModels.Quiz, studentID uint) (*quizView, error) {
	var questions []courseModels.Question
	if err := ctrl.db.Where("quiz_id = ?", quiz.ID).
		Order("order_index ASC").Find(&questions).Error; err != nil {
		return nil, err
	}

	view := quizView{
		ID:               quiz.ID,
		Title:            quiz.Title,
		Description:      quiz.Description,
		PassingScore:     quiz.PassingScore,
		TimeLimitMinutes: quiz.TimeLimitMinutes,
		MaxAttempts:      quiz.MaxAttempts,
		Questions:        make([]questionView, 0, len(questions)),
	}

	for _, q := range questions {
		var answers []courseModels.Answer
		if err := ctrl.db.Where("question_id = ?", q.ID).
			Order("order_index ASC").Find(&answers).Error; err != nil {
			return nil, err
		}

		options := make([]answerOption, 0, len(answers))
		for _, a := range answers {
			options = append(options, answerOption{ID: a.ID, AnswerText: a.AnswerText, OrderIndex: a.OrderIndex})
		}
		view.Questions = append(view.Questions, questionView{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Points:       q.Points,
			OrderIndex:   q.OrderIndex,
			Answers:      options,
		})
	}

	if err := ctrl.db.Where("student_id = ? AND quiz_id = ?", studentID, quiz.ID).
		Order("created_at ASC").Find(&view.Attempts).Error; err != nil {
		return nil, err
	}

	return &view, nil
}

// ModuleQuiz serves a module's quiz to a student, correct answers
// stripped, previous attempts included.
func (ctrl *Controller) ModuleQuiz(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	moduleID := c.Locals("moduleId").(uint)

	var quiz courseModels.Quiz
	err := ctrl.db.Where("scope = ? AND module_id = ? AND is_published = ?",
		courseModels.QuizScopeModule, moduleID, true).First(&quiz).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found", nil)
		}
		log.Println("Failed to load quiz:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load quiz", nil)
	}

	unlocked, err := ctrl.engine.ModuleUnlocked(user.ID, moduleID)
	if err != nil {
		log.Println("Failed to check module:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load quiz", nil)
	}
	if !unlocked {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Complete the previous module first", nil)
	}

	view, err := ctrl.studentQuizView(&quiz, user.ID)
	if err != nil {
		log.Println("Failed to build quiz view:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load quiz", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz retrieved", view)
}

func quizErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found", nil)
	case errors.Is(err, progression.ErrQuizAlreadyPassed):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Quiz already passed", nil)
	case errors.Is(err, progression.ErrMaxAttemptsReached):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Maximum attempts reached", nil)
	case errors.Is(err, progression.ErrIncompleteSubmission):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "All questions must be answered", nil)
	}
	log.Println("Failed to grade quiz:", err)
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz", nil)
}

// SubmitModuleQuiz grades a submission against the module's quiz
func (ctrl *Controller) SubmitModuleQuiz(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	moduleID := c.Locals("moduleId").(uint)
	reqData := c.Locals("validatedQuizSubmission").(*contentValidator.SubmitQuizRequest)

	var quiz courseModels.Quiz
	err := ctrl.db.Where("scope = ? AND module_id = ? AND is_published = ?",
		courseModels.QuizScopeModule, moduleID, true).First(&quiz).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found", nil)
		}
		log.Println("Failed to load quiz:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz", nil)
	}

	unlocked, err := ctrl.engine.ModuleUnlocked(user.ID, moduleID)
	if err != nil {
		log.Println("Failed to check module:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz", nil)
	}
	if !unlocked {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Complete the previous module first", nil)
	}

	result, err := ctrl.engine.SubmitQuizAttempt(user.ID, quiz.ID, reqData.Answers, reqData.TimeTakenSeconds)
	if err != nil {
		return quizErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted", result)
}

func (ctrl *Controller) finalQuiz(courseID uint) (*courseModels.Quiz, error) {
	var quiz courseModels.Quiz
	err := ctrl.db.Where("scope = ? AND course_id = ? AND is_published = ?",
		courseModels.QuizScopeFinal, courseID, true).First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// CourseFinalQuiz serves the course's final quiz once every lesson is done
func (ctrl *Controller) CourseFinalQuiz(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	courseID := c.Locals("courseId").(uint)

	quiz, err := ctrl.finalQuiz(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Final quiz not found", nil)
		}
		log.Println("Failed to load final quiz:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load quiz", nil)
	}

	progress, err := ctrl.engine.CourseProgress(user.ID, courseID)
	if err != nil {
		log.Println("Failed to compute progress:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load quiz", nil)
	}
	if progress.ProgressPercentage < 100 {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Complete all lessons before taking the final quiz", nil)
	}

	view, err := ctrl.studentQuizView(quiz, user.ID)
	if err != nil {
		log.Println("Failed to build quiz view:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load quiz", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Final quiz retrieved", view)
}

// SubmitFinalQuiz grades a submission against the course's final quiz
func (ctrl *Controller) SubmitFinalQuiz(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	courseID := c.Locals("courseId").(uint)
	reqData := c.Locals("validatedQuizSubmission").(*contentValidator.SubmitQuizRequest)

	quiz, err := ctrl.finalQuiz(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Final quiz not found", nil)
		}
		log.Println("Failed to load final quiz:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz", nil)
	}

	progress, err := ctrl.engine.CourseProgress(user.ID, courseID)
	if err != nil {
		log.Println("Failed to compute progress:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz", nil)
	}
	if progress.ProgressPercentage < 100 {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Complete all lessons before taking the final quiz", nil)
	}

	result, err := ctrl.engine.SubmitQuizAttempt(user.ID, quiz.ID, reqData.Answers, reqData.TimeTakenSeconds)
	if err != nil {
		return quizErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted", result)
}
