package courseController_test

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
	"lms/routers/courseRoutes"
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

	cfg := &config.Config{JWTKey: "test-secret", JWTExpiry: 3600, SaltRound: 4}
	app := fiber.New()
	courseRoutes.SetupCourseRoutes(app, db, cfg, utils.ConsoleMailer{})
	return app, db, cfg
}

func studentToken(t *testing.T, db *gorm.DB, cfg *config.Config, email string) (models.Student, string) {
	t.Helper()

	student := models.Student{Name: "Ada", Email: email, PasswordHash: "x"}
	require.NoError(t, db.Create(&student).Error)
	token, err := middleware.GenerateToken(cfg, student.ID, student.Email, models.RoleStudent)
	require.NoError(t, err)
	return student, token
}

func request(t *testing.T, app *fiber.App, method, path, token string, payload interface{}) (*http.Response, map[string]interface{}) {
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

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp, parsed
}

func TestPublicCatalogListsActiveOnly(t *testing.T) {
	app, db, _ := setupApp(t)

	require.NoError(t, db.Create(&courseModels.Course{Title: "Live", Description: "d", Type: courseModels.TypeOnline, IsActive: true}).Error)
	require.NoError(t, db.Create(&courseModels.Course{Title: "Retired", Description: "d", Type: courseModels.TypeOnline, IsActive: false}).Error)

	resp, body := request(t, app, http.MethodGet, "/courses/", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	courses := body["data"].([]interface{})
	require.Len(t, courses, 1)
	assert.Equal(t, "Live", courses[0].(map[string]interface{})["title"])
}

func TestEnrollOnlineCourse(t *testing.T) {
	app, db, cfg := setupApp(t)
	_, token := studentToken(t, db, cfg, "ada@example.com")

	course := courseModels.Course{Title: "Go", Description: "d", Type: courseModels.TypeOnline, IsActive: true}
	require.NoError(t, db.Create(&course).Error)

	resp, body := request(t, app, http.MethodPost, "/courses/1/enroll", token, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, courseModels.EnrollApproved, data["status"])
	assert.Equal(t, true, data["access_granted"])
}

func TestEnrollPhysicalCourseStartsPending(t *testing.T) {
	app, db, cfg := setupApp(t)
	_, token := studentToken(t, db, cfg, "ada@example.com")

	course := courseModels.Course{Title: "Workshop", Description: "d", Type: courseModels.TypePhysical, IsActive: true}
	require.NoError(t, db.Create(&course).Error)

	resp, body := request(t, app, http.MethodPost, "/courses/1/enroll", token, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, courseModels.EnrollPending, data["status"])
	assert.Equal(t, false, data["access_granted"])
}

func TestEnrollTwiceConflicts(t *testing.T) {
	app, db, cfg := setupApp(t)
	_, token := studentToken(t, db, cfg, "ada@example.com")

	require.NoError(t, db.Create(&courseModels.Course{Title: "Go", Description: "d", Type: courseModels.TypeOnline, IsActive: true}).Error)

	resp, _ := request(t, app, http.MethodPost, "/courses/1/enroll", token, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body := request(t, app, http.MethodPost, "/courses/1/enroll", token, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Already enrolled in this course", body["message"])
}

func TestEnrollInactiveCourse(t *testing.T) {
	app, db, cfg := setupApp(t)
	_, token := studentToken(t, db, cfg, "ada@example.com")

	require.NoError(t, db.Create(&courseModels.Course{Title: "Old", Description: "d", Type: courseModels.TypeOnline, IsActive: false}).Error)

	resp, body := request(t, app, http.MethodPost, "/courses/1/enroll", token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Course not found or not active", body["message"])
}

func TestEnrollFullCourse(t *testing.T) {
	app, db, cfg := setupApp(t)

	course := courseModels.Course{Title: "Tiny", Description: "d", Type: courseModels.TypeOnline, IsActive: true, MaxStudents: 1}
	require.NoError(t, db.Create(&course).Error)

	_, first := studentToken(t, db, cfg, "first@example.com")
	resp, _ := request(t, app, http.MethodPost, "/courses/1/enroll", first, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	_, second := studentToken(t, db, cfg, "second@example.com")
	resp, body := request(t, app, http.MethodPost, "/courses/1/enroll", second, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Course is full", body["message"])
}

func TestAdminRoutesRejectStudents(t *testing.T) {
	app, db, cfg := setupApp(t)
	_, token := studentToken(t, db, cfg, "ada@example.com")

	resp, _ := request(t, app, http.MethodGet, "/courses/all", token, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = request(t, app, http.MethodGet, "/courses/all", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestEnrollmentStatusUpdate(t *testing.T) {
	app, db, cfg := setupApp(t)

	admin := models.User{FullName: "Root", Email: "root@example.com", PasswordHash: "x", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)
	adminToken, err := middleware.GenerateToken(cfg, admin.ID, admin.Email, admin.Role)
	require.NoError(t, err)

	student, _ := studentToken(t, db, cfg, "ada@example.com")
	course := courseModels.Course{Title: "Workshop", Description: "d", Type: courseModels.TypePhysical, IsActive: true}
	require.NoError(t, db.Create(&course).Error)
	enrollment := courseModels.Enrollment{StudentID: student.ID, CourseID: course.ID, Status: courseModels.EnrollPending}
	require.NoError(t, db.Create(&enrollment).Error)

	resp, _ := request(t, app, http.MethodPut, "/courses/enrollments/1/status", adminToken,
		fiber.Map{"status": courseModels.EnrollApproved})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reloaded courseModels.Enrollment
	require.NoError(t, db.First(&reloaded, enrollment.ID).Error)
	assert.Equal(t, courseModels.EnrollApproved, reloaded.Status)
	assert.True(t, reloaded.AccessGranted)

	resp, body := request(t, app, http.MethodPut, "/courses/enrollments/1/status", adminToken,
		fiber.Map{"status": "archived"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid status", body["message"])
}
