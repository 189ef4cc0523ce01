package blogController_test

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
	"lms/routers/siteRoutes"
	"lms/utils"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB, string) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{JWTKey: "test-secret", JWTExpiry: 3600}
	app := fiber.New()
	siteRoutes.SetupSiteRoutes(app, db, cfg, utils.ConsoleMailer{})

	admin := models.User{FullName: "Root", Email: "root@example.com", PasswordHash: "x", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)
	token, err := middleware.GenerateToken(cfg, admin.ID, admin.Email, admin.Role)
	require.NoError(t, err)

	return app, db, token
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

func TestCreatePostDuplicateSlug(t *testing.T) {
	app, _, token := setupApp(t)

	post := fiber.Map{"title": "Hello", "slug": "hello", "content": "body"}
	resp, _ := request(t, app, http.MethodPost, "/blog/", token, post)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body := request(t, app, http.MethodPost, "/blog/", token, post)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Slug already exists", body["message"])
}

func TestPublishingStampsTimestampOnce(t *testing.T) {
	app, db, token := setupApp(t)

	resp, _ := request(t, app, http.MethodPost, "/blog/", token,
		fiber.Map{"title": "Draft", "slug": "draft", "content": "body", "status": models.BlogDraft})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var post models.BlogPost
	require.NoError(t, db.Where("slug = ?", "draft").First(&post).Error)
	require.Nil(t, post.PublishedAt)

	resp, _ = request(t, app, http.MethodPut, "/blog/1", token,
		fiber.Map{"status": models.BlogPublished})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, db.Where("slug = ?", "draft").First(&post).Error)
	require.NotNil(t, post.PublishedAt)
	stamped := *post.PublishedAt

	// republishing keeps the original timestamp
	resp, _ = request(t, app, http.MethodPut, "/blog/1", token,
		fiber.Map{"title": "Draft v2", "status": models.BlogPublished})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, db.Where("slug = ?", "draft").First(&post).Error)
	assert.Equal(t, stamped.Unix(), post.PublishedAt.Unix())
}

func TestPublicListingHidesDrafts(t *testing.T) {
	app, db, _ := setupApp(t)

	require.NoError(t, db.Create(&models.BlogPost{Title: "Draft", Slug: "draft", Content: "x", Status: models.BlogDraft}).Error)
	require.NoError(t, db.Create(&models.BlogPost{Title: "Live", Slug: "live", Content: "x", Status: models.BlogPublished}).Error)

	resp, body := request(t, app, http.MethodGet, "/blog/", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	posts := data["posts"].([]interface{})
	require.Len(t, posts, 1)
	assert.Equal(t, "live", posts[0].(map[string]interface{})["slug"])

	pagination := data["pagination"].(map[string]interface{})
	assert.EqualValues(t, 1, pagination["total"])
	assert.EqualValues(t, 1, pagination["pages"])

	resp, _ = request(t, app, http.MethodGet, "/blog/draft", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestContactSubmission(t *testing.T) {
	app, db, token := setupApp(t)

	resp, _ := request(t, app, http.MethodPost, "/contact/", "",
		fiber.Map{"name": "Ada", "email": "ada@example.com", "message": "Hi"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var message models.ContactMessage
	require.NoError(t, db.First(&message).Error)
	assert.Equal(t, models.ContactUnread, message.Status)

	resp, _ = request(t, app, http.MethodPut, "/contact/1/status", token,
		fiber.Map{"status": models.ContactRead})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, db.First(&message).Error)
	assert.Equal(t, models.ContactRead, message.Status)
}

func TestContactValidation(t *testing.T) {
	app, _, _ := setupApp(t)

	resp, body := request(t, app, http.MethodPost, "/contact/", "",
		fiber.Map{"name": "Ada", "email": "not-an-email", "message": "Hi"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestDonationStats(t *testing.T) {
	app, db, token := setupApp(t)

	require.NoError(t, db.Create(&models.Donation{DonorName: "A", Email: "a@x.com", Amount: 50, PaymentStatus: models.PaymentCompleted}).Error)
	require.NoError(t, db.Create(&models.Donation{DonorName: "B", Email: "b@x.com", Amount: 25, PaymentStatus: models.PaymentPending}).Error)

	resp, body := request(t, app, http.MethodGet, "/donations/stats", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	completed := data["completed"].(map[string]interface{})
	assert.EqualValues(t, 1, completed["count"])
	assert.EqualValues(t, 50, completed["total"])
	total := data["total"].(map[string]interface{})
	assert.EqualValues(t, 75, total["total"])
}
