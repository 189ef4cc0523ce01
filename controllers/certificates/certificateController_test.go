package certificateController_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

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
	"lms/routers/certificateRoutes"
	"lms/utils"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{JWTKey: "test-secret", JWTExpiry: 3600}
	app := fiber.New()
	certificateRoutes.SetupCertificateRoutes(app, db, cfg, utils.ConsoleMailer{})
	return app, db, cfg
}

func request(t *testing.T, app *fiber.App, method, path, token string) (*http.Response, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp, parsed
}

// seedCompletedCourse creates a student who finished a one-lesson course
func seedCompletedCourse(t *testing.T, db *gorm.DB) (models.Student, courseModels.Course) {
	t.Helper()

	student := models.Student{Name: "Ada", Email: "ada@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&student).Error)
	course := courseModels.Course{Title: "Go", Description: "d", Type: courseModels.TypeOnline, IsActive: true}
	require.NoError(t, db.Create(&course).Error)

	module := courseModels.Module{CourseID: course.ID, Title: "M1", OrderPosition: 1, IsPublished: true}
	require.NoError(t, db.Create(&module).Error)
	lesson := courseModels.Lesson{ModuleID: module.ID, Title: "L1", OrderPosition: 1, IsPublished: true}
	require.NoError(t, db.Create(&lesson).Error)

	require.NoError(t, db.Create(&courseModels.Enrollment{
		StudentID: student.ID, CourseID: course.ID,
		Status: courseModels.EnrollApproved, AccessGranted: true,
	}).Error)
	require.NoError(t, db.Create(&courseModels.LessonProgress{
		StudentID: student.ID, LessonID: lesson.ID, CourseID: course.ID,
	}).Error)

	return student, course
}

func TestGenerateCertificateEndpoint(t *testing.T) {
	app, db, cfg := setupApp(t)
	student, _ := seedCompletedCourse(t, db)

	token, err := middleware.GenerateToken(cfg, student.ID, student.Email, models.RoleStudent)
	require.NoError(t, err)

	resp, body := request(t, app, http.MethodGet, "/certificates/check-eligibility/1", token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["data"].(map[string]interface{})["eligible"])

	resp, body = request(t, app, http.MethodPost, "/certificates/generate/1", token)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	number := body["data"].(map[string]interface{})["certificate_number"].(string)
	require.NotEmpty(t, number)

	// asking again returns the same certificate, not a new one
	resp, body = request(t, app, http.MethodPost, "/certificates/generate/1", token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, number, body["data"].(map[string]interface{})["certificate_number"])
}

func TestGenerateCertificateNotEligible(t *testing.T) {
	app, db, cfg := setupApp(t)
	student, course := seedCompletedCourse(t, db)

	// an extra unfinished lesson drops progress below 100%
	var module courseModels.Module
	require.NoError(t, db.Where("course_id = ?", course.ID).First(&module).Error)
	require.NoError(t, db.Create(&courseModels.Lesson{
		ModuleID: module.ID, Title: "L2", OrderPosition: 2, IsPublished: true,
	}).Error)

	token, err := middleware.GenerateToken(cfg, student.ID, student.Email, models.RoleStudent)
	require.NoError(t, err)

	resp, body := request(t, app, http.MethodPost, "/certificates/generate/1", token)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Course requirements not yet met", body["message"])
}

func TestVerifyCertificate(t *testing.T) {
	app, db, _ := setupApp(t)
	student, course := seedCompletedCourse(t, db)

	cert := courseModels.Certificate{
		StudentID:         student.ID,
		CourseID:          course.ID,
		CertificateNumber: "CERT-2026-ABCDEF12",
		VerificationCode:  "known-code",
		IssueDate:         time.Now(),
	}
	require.NoError(t, db.Create(&cert).Error)

	resp, body := request(t, app, http.MethodGet, "/certificates/verify/known-code", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["valid"])
	certData := data["certificate"].(map[string]interface{})
	assert.Equal(t, "CERT-2026-ABCDEF12", certData["certificate_number"])
	assert.Equal(t, "Ada", certData["student_name"])
}

func TestGetCertificateReadableWithoutToken(t *testing.T) {
	app, db, _ := setupApp(t)
	student, course := seedCompletedCourse(t, db)

	cert := courseModels.Certificate{
		StudentID:         student.ID,
		CourseID:          course.ID,
		CertificateNumber: "CERT-2026-ABCDEF12",
		VerificationCode:  "known-code",
		IssueDate:         time.Now(),
	}
	require.NoError(t, db.Create(&cert).Error)

	resp, body := request(t, app, http.MethodGet, "/certificates/1", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "CERT-2026-ABCDEF12", data["certificate_number"])
	assert.Equal(t, "Ada", data["student_name"])
}

func TestVerifyUnknownCodeIsSoftFailure(t *testing.T) {
	app, _, _ := setupApp(t)

	resp, body := request(t, app, http.MethodGet, "/certificates/verify/nope", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, false, body["data"].(map[string]interface{})["valid"])
}
