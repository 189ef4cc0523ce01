package contentController_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/routers/contentRoutes"
)

type env struct {
	app     *fiber.App
	db      *gorm.DB
	cfg     *config.Config
	token   string
	student models.Student
	course  courseModels.Course
	module1 courseModels.Module
	module2 courseModels.Module
	lesson1 courseModels.Lesson
	lesson2 courseModels.Lesson
	quiz    courseModels.Quiz
}

func setup(t *testing.T) *env {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{JWTKey: "test-secret", JWTExpiry: 3600}
	app := fiber.New()
	contentRoutes.SetupContentRoutes(app, db, cfg)

	e := &env{app: app, db: db, cfg: cfg}

	e.student = models.Student{Name: "Ada", Email: "ada@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&e.student).Error)
	e.token, err = middleware.GenerateToken(cfg, e.student.ID, e.student.Email, models.RoleStudent)
	require.NoError(t, err)

	e.course = courseModels.Course{Title: "Go", Description: "d", Type: courseModels.TypeOnline, IsActive: true}
	require.NoError(t, db.Create(&e.course).Error)
	require.NoError(t, db.Create(&courseModels.Enrollment{
		StudentID: e.student.ID, CourseID: e.course.ID,
		Status: courseModels.EnrollApproved, AccessGranted: true,
	}).Error)

	e.module1 = courseModels.Module{CourseID: e.course.ID, Title: "M1", OrderPosition: 1, IsPublished: true}
	require.NoError(t, db.Create(&e.module1).Error)
	e.module2 = courseModels.Module{CourseID: e.course.ID, Title: "M2", OrderPosition: 2, IsPublished: true}
	require.NoError(t, db.Create(&e.module2).Error)

	e.lesson1 = courseModels.Lesson{ModuleID: e.module1.ID, Title: "L1", OrderPosition: 1, IsPublished: true}
	require.NoError(t, db.Create(&e.lesson1).Error)
	e.lesson2 = courseModels.Lesson{ModuleID: e.module2.ID, Title: "L2", OrderPosition: 1, IsPublished: true}
	require.NoError(t, db.Create(&e.lesson2).Error)

	e.quiz = courseModels.Quiz{
		Scope: courseModels.QuizScopeModule, ModuleID: &e.module1.ID,
		Title: "M1 Quiz", PassingScore: 70, MaxAttempts: 3, IsPublished: true,
	}
	require.NoError(t, db.Create(&e.quiz).Error)
	q := courseModels.Question{QuizID: e.quiz.ID, QuestionText: "?", Points: 1, OrderIndex: 1}
	require.NoError(t, db.Create(&q).Error)
	require.NoError(t, db.Create(&courseModels.Answer{QuestionID: q.ID, AnswerText: "right", IsCorrect: true, OrderIndex: 1}).Error)
	require.NoError(t, db.Create(&courseModels.Answer{QuestionID: q.ID, AnswerText: "wrong", IsCorrect: false, OrderIndex: 2}).Error)

	return e
}

func (e *env) request(t *testing.T, method, path string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	return e.requestWithToken(t, method, path, e.token, payload)
}

// requestWithToken sends a request as the given bearer, or anonymously
// when token is empty.
func (e *env) requestWithToken(t *testing.T, method, path, token string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp, parsed
}

func TestCompleteLessonEndpoint(t *testing.T) {
	e := setup(t)

	resp, body := e.request(t, http.MethodPost, "/content/lessons/1/complete", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Lesson completed", body["message"])

	resp, body = e.request(t, http.MethodPost, "/content/lessons/1/complete", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Lesson already completed", body["message"])
}

func TestLockedModuleLessonRejected(t *testing.T) {
	e := setup(t)

	resp, body := e.request(t, http.MethodPost, "/content/lessons/2/complete", nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Complete the previous module first", body["message"])
}

func TestModuleUnlockedEndpoint(t *testing.T) {
	e := setup(t)

	resp, body := e.request(t, http.MethodGet, "/content/modules/1/unlocked", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["data"].(map[string]interface{})["unlocked"])

	resp, body = e.request(t, http.MethodGet, "/content/modules/2/unlocked", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["data"].(map[string]interface{})["unlocked"])
}

func TestStudentQuizViewHidesCorrectness(t *testing.T) {
	e := setup(t)

	resp, body := e.request(t, http.MethodGet, "/content/modules/1/quiz", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	questions := data["questions"].([]interface{})
	require.Len(t, questions, 1)
	answers := questions[0].(map[string]interface{})["answers"].([]interface{})
	require.Len(t, answers, 2)
	for _, a := range answers {
		_, leaked := a.(map[string]interface{})["is_correct"]
		assert.False(t, leaked)
	}
}

func TestSubmitModuleQuizEndpoint(t *testing.T) {
	e := setup(t)

	// module completion needs the lesson done as well as the quiz passed
	resp, _ := e.request(t, http.MethodPost, "/content/lessons/1/complete", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var q courseModels.Question
	require.NoError(t, e.db.Where("quiz_id = ?", e.quiz.ID).First(&q).Error)
	var right courseModels.Answer
	require.NoError(t, e.db.Where("question_id = ? AND is_correct = ?", q.ID, true).First(&right).Error)

	resp, body := e.request(t, http.MethodPost, "/content/modules/1/quiz/submit", fiber.Map{
		"answers":            []fiber.Map{{"question_id": q.ID, "answer_id": right.ID}},
		"time_taken_seconds": 42,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["passed"])
	assert.EqualValues(t, 100, data["percentage"])
	assert.EqualValues(t, 70, data["passing_score"])

	// passing the quiz completes module one and unlocks module two
	resp, body = e.request(t, http.MethodGet, "/content/modules/2/unlocked", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["data"].(map[string]interface{})["unlocked"])
}

func TestCourseProgressEndpoint(t *testing.T) {
	e := setup(t)

	resp, _ := e.request(t, http.MethodPost, "/content/lessons/1/complete", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := e.request(t, http.MethodGet, "/content/courses/1/progress", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 1, data["completed_lessons"])
	assert.EqualValues(t, 2, data["total_lessons"])
	assert.EqualValues(t, 50, data["progress_percentage"])
}

func TestFinalQuizRequiresFullProgress(t *testing.T) {
	e := setup(t)

	final := courseModels.Quiz{
		Scope: courseModels.QuizScopeFinal, CourseID: &e.course.ID,
		Title: "Final", PassingScore: 70, MaxAttempts: 3, IsPublished: true,
	}
	require.NoError(t, e.db.Create(&final).Error)

	resp, body := e.request(t, http.MethodGet, "/content/courses/1/final-quiz", nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Complete all lessons before taking the final quiz", body["message"])
}

func TestCurriculumReadableWithoutToken(t *testing.T) {
	e := setup(t)

	resp, body := e.requestWithToken(t, http.MethodGet, "/content/courses/1/modules", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"].([]interface{}), 2)

	resp, _ = e.requestWithToken(t, http.MethodGet, "/content/modules/1", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = e.requestWithToken(t, http.MethodGet, "/content/modules/1/lessons", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"].([]interface{}), 1)
}

func TestAnonymousSeesPublishedContentOnly(t *testing.T) {
	e := setup(t)

	draft := courseModels.Module{CourseID: e.course.ID, Title: "M3", OrderPosition: 3, IsPublished: false}
	require.NoError(t, e.db.Create(&draft).Error)
	require.NoError(t, e.db.Create(&courseModels.Lesson{
		ModuleID: e.module1.ID, Title: "L1 draft", OrderPosition: 2, IsPublished: false,
	}).Error)

	resp, body := e.requestWithToken(t, http.MethodGet, "/content/courses/1/modules", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	modules := body["data"].([]interface{})
	require.Len(t, modules, 2)
	assert.Len(t, modules[0].(map[string]interface{})["lessons"].([]interface{}), 1)

	resp, _ = e.requestWithToken(t, http.MethodGet, "/content/modules/3", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// staff still see the drafts
	staff, err := middleware.GenerateToken(e.cfg, 1, "teach@example.com", models.RoleInstructor)
	require.NoError(t, err)

	resp, body = e.requestWithToken(t, http.MethodGet, "/content/courses/1/modules", staff, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"].([]interface{}), 3)

	resp, _ = e.requestWithToken(t, http.MethodGet, "/content/modules/3", staff, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
