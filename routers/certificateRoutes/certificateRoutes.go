package certificateRoutes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lms/config"
	certificateController "lms/controllers/certificates"
	"lms/middleware"
	"lms/utils"
	"lms/validators/params"
)

func SetupCertificateRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, mailer utils.Mailer) {
	ctrl := certificateController.New(db, mailer)

	certificates := app.Group("/certificates")

	certificates.Get("/verify/:code", ctrl.Verify)

	certificates.Get("/my-certificates",
		middleware.Auth(cfg), middleware.StudentOnly, ctrl.MyCertificates)
	certificates.Get("/check-eligibility/:courseId",
		middleware.Auth(cfg), middleware.StudentOnly,
		params.ID("courseId", "courseId"), ctrl.CheckEligibility)
	certificates.Post("/generate/:courseId",
		middleware.Auth(cfg), middleware.StudentOnly,
		params.ID("courseId", "courseId"), ctrl.Generate)

	certificates.Get("/:certificateId",
		params.ID("certificateId", "certificateId"), ctrl.GetByID)
}
