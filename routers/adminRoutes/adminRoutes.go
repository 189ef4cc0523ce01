package adminRoutes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lms/config"
	adminController "lms/controllers/admin"
	"lms/middleware"
	"lms/validators/params"
	siteValidator "lms/validators/site"
)

func SetupAdminRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	ctrl := adminController.New(db)

	admin := app.Group("/admin", middleware.Auth(cfg), middleware.AdminOnly)
	admin.Get("/dashboard/stats", ctrl.DashboardStats)
	admin.Get("/users", ctrl.ListUsers)
	admin.Put("/users/:userId/role",
		params.ID("userId", "userId"),
		siteValidator.UpdateRole(), ctrl.UpdateUserRole)
	admin.Delete("/users/:userId",
		params.ID("userId", "userId"), ctrl.DeleteUser)
}
