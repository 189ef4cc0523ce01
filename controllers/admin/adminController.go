package adminController

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	siteValidator "lms/validators/site"
)

type Controller struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Controller {
	return &Controller{db: db}
}

// DashboardStats aggregates the counters shown on the admin home page
func (ctrl *Controller) DashboardStats(c *fiber.Ctx) error {
	count := func(model interface{}, where string, args ...interface{}) (int64, error) {
		var n int64
		query := ctrl.db.Model(model)
		if where != "" {
			query = query.Where(where, args...)
		}
		err := query.Count(&n).Error
		return n, err
	}

	type stat struct {
		name  string
		model interface{}
		where string
		args  []interface{}
	}

	stats := []stat{
		{"students", &models.Student{}, "", nil},
		{"courses", &courseModels.Course{}, "", nil},
		{"active_courses", &courseModels.Course{}, "is_active = ?", []interface{}{true}},
		{"enrollments", &courseModels.Enrollment{}, "", nil},
		{"pending_enrollments", &courseModels.Enrollment{}, "status = ?", []interface{}{courseModels.EnrollPending}},
		{"certificates", &courseModels.Certificate{}, "", nil},
		{"unread_messages", &models.ContactMessage{}, "status = ?", []interface{}{models.ContactUnread}},
		{"blog_posts", &models.BlogPost{}, "", nil},
		{"published_posts", &models.BlogPost{}, "status = ?", []interface{}{models.BlogPublished}},
		{"programs", &models.Program{}, "", nil},
		{"sponsors", &models.Sponsor{}, "", nil},
	}

	data := fiber.Map{}
	for _, s := range stats {
		n, err := count(s.model, s.where, s.args...)
		if err != nil {
			log.Println("Failed to compute dashboard stats:", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load stats", nil)
		}
		data[s.name] = n
	}

	type donationSums struct {
		Count int64   `json:"count"`
		Total float64 `json:"total"`
	}
	var donations donationSums
	err := ctrl.db.Model(&models.Donation{}).
		Where("payment_status = ?", models.PaymentCompleted).
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Scan(&donations).Error
	if err != nil {
		log.Println("Failed to compute dashboard stats:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load stats", nil)
	}
	data["donations"] = donations

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Stats retrieved", data)
}

// ListUsers returns all back-office accounts
func (ctrl *Controller) ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := ctrl.db.Order("created_at DESC").Find(&users).Error; err != nil {
		log.Println("Failed to list users:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load users", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users retrieved", users)
}

func (ctrl *Controller) UpdateUserRole(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	reqData := c.Locals("validatedRole").(*siteValidator.RoleRequest)

	var user models.User
	if err := ctrl.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found", nil)
		}
		log.Println("Failed to load user:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user", nil)
	}

	if err := ctrl.db.Model(&user).Update("role", reqData.Role).Error; err != nil {
		log.Println("Failed to update user:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User role updated", user)
}

// DeleteUser removes an account. Admins cannot remove themselves.
func (ctrl *Controller) DeleteUser(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	current, _ := middleware.CurrentUser(c)

	if userID == current.ID {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Cannot delete your own account", nil)
	}

	result := ctrl.db.Delete(&models.User{}, userID)
	if result.Error != nil {
		log.Println("Failed to delete user:", result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted", nil)
}
