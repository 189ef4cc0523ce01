package studentRoutes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lms/config"
	studentController "lms/controllers/students"
	"lms/middleware"
	"lms/validators/params"
	studentValidator "lms/validators/students"
)

func SetupStudentRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	ctrl := studentController.New(db, cfg)

	students := app.Group("/students")
	students.Post("/register", studentValidator.Register(), ctrl.Register)
	students.Post("/login", studentValidator.Login(), ctrl.Login)

	me := students.Group("", middleware.Auth(cfg), middleware.StudentOnly)
	me.Get("/profile", ctrl.GetProfile)
	me.Put("/profile", studentValidator.UpdateProfile(), ctrl.UpdateProfile)
	me.Put("/change-password", studentValidator.ChangePassword(), ctrl.ChangePassword)
	me.Get("/enrollments", ctrl.GetEnrollments)
	me.Get("/courses/:courseId/progress", params.ID("courseId", "courseId"), ctrl.GetCourseProgress)
}
