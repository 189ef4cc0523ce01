package courseRoutes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lms/config"
	courseController "lms/controllers/course"
	"lms/middleware"
	"lms/utils"
	courseValidator "lms/validators/course"
	"lms/validators/params"
)

func SetupCourseRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, mailer utils.Mailer) {
	ctrl := courseController.New(db, cfg, mailer)

	courses := app.Group("/courses")

	// fixed paths before the :courseId wildcard
	courses.Get("/all", middleware.Auth(cfg), middleware.AdminOnly, ctrl.ListAll)
	courses.Get("/enrollments/all", middleware.Auth(cfg), middleware.AdminOnly, ctrl.AllEnrollments)
	courses.Put("/enrollments/:enrollmentId/status",
		middleware.Auth(cfg), middleware.AdminOnly,
		params.ID("enrollmentId", "enrollmentId"),
		courseValidator.EnrollmentStatus(), ctrl.UpdateEnrollmentStatus)

	courses.Get("/", ctrl.ListActive)
	courses.Post("/", middleware.Auth(cfg), middleware.InstructorOrAdmin, courseValidator.CreateCourse(), ctrl.Create)

	courses.Get("/:courseId", params.ID("courseId", "courseId"), ctrl.Get)
	courses.Put("/:courseId",
		middleware.Auth(cfg), middleware.InstructorOrAdmin,
		params.ID("courseId", "courseId"),
		courseValidator.UpdateCourse(), ctrl.Update)
	courses.Delete("/:courseId",
		middleware.Auth(cfg), middleware.AdminOnly,
		params.ID("courseId", "courseId"), ctrl.Delete)

	courses.Post("/:courseId/enroll",
		middleware.Auth(cfg), middleware.StudentOnly,
		params.ID("courseId", "courseId"), ctrl.Enroll)
	courses.Get("/:courseId/enrollments",
		middleware.Auth(cfg), middleware.AdminOnly,
		params.ID("courseId", "courseId"), ctrl.CourseEnrollments)
}
