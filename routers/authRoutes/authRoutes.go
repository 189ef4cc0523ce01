package authRoutes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lms/config"
	authController "lms/controllers/auth"
	"lms/middleware"
	authValidator "lms/validators/auth"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	ctrl := authController.New(db, cfg)

	auth := app.Group("/auth")
	auth.Post("/login", authValidator.Login(), ctrl.Login)
	auth.Post("/register", middleware.Auth(cfg), middleware.AdminOnly, authValidator.Register(), ctrl.Register)
}
