package certificateController

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/progression"
	"lms/utils"
)

type Controller struct {
	db     *gorm.DB
	mailer utils.Mailer
	engine *progression.Engine
}

func New(db *gorm.DB, mailer utils.Mailer) *Controller {
	return &Controller{db: db, mailer: mailer, engine: progression.NewEngine(db)}
}

// certificateRow joins a certificate to its student and course for display
type certificateRow struct {
	ID                uint    `json:"id"`
	StudentID         uint    `json:"student_id"`
	StudentName       string  `json:"student_name"`
	CourseID          uint    `json:"course_id"`
	CourseTitle       string  `json:"course_title"`
	CertificateNumber string  `json:"certificate_number"`
	VerificationCode  string  `json:"verification_code"`
	IssueDate         string  `json:"issue_date"`
	ExpiryDate        *string `json:"expiry_date"`
}

const certificateSelect = `certificates.id, certificates.student_id, students.name AS student_name,
	certificates.course_id, courses.title AS course_title, certificates.certificate_number,
	certificates.verification_code, certificates.issue_date, certificates.expiry_date`

func (ctrl *Controller) joined() *gorm.DB {
	return ctrl.db.Model(&courseModels.Certificate{}).
		Select(certificateSelect).
		Joins("JOIN students ON students.id = certificates.student_id").
		Joins("JOIN courses ON courses.id = certificates.course_id")
}

// MyCertificates lists the authenticated student's certificates
func (ctrl *Controller) MyCertificates(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var rows []certificateRow
	err := ctrl.joined().
		Where("certificates.student_id = ?", user.ID).
		Order("certificates.issue_date DESC").
		Scan(&rows).Error
	if err != nil {
		log.Println("Failed to list certificates:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load certificates", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates retrieved", rows)
}

// CheckEligibility reports whether the student can claim a certificate
func (ctrl *Controller) CheckEligibility(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	courseID := c.Locals("courseId").(uint)

	eligibility, err := ctrl.engine.CertificateEligibility(user.ID, courseID)
	if err != nil {
		log.Println("Failed to check eligibility:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check eligibility", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Eligibility checked", eligibility)
}

// Generate issues the student's certificate for a completed course.
// Asking again for the same course returns the original certificate.
func (ctrl *Controller) Generate(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	courseID := c.Locals("courseId").(uint)

	cert, created, err := ctrl.engine.GenerateCertificate(user.ID, courseID)
	if err != nil {
		if errors.Is(err, progression.ErrNotEligible) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Course requirements not yet met", nil)
		}
		log.Println("Failed to generate certificate:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate certificate", nil)
	}

	if !created {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate already issued", cert)
	}

	var student models.Student
	var course courseModels.Course
	if ctrl.db.First(&student, user.ID).Error == nil && ctrl.db.First(&course, courseID).Error == nil {
		utils.SendCertificateEmail(ctrl.mailer, student.Email, student.Name, course.Title, cert.CertificateNumber)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate issued", cert)
}

// GetByID returns one certificate with student and course names
func (ctrl *Controller) GetByID(c *fiber.Ctx) error {
	certID := c.Locals("certificateId").(uint)

	var row certificateRow
	result := ctrl.joined().Where("certificates.id = ?", certID).Scan(&row)
	if result.Error != nil {
		log.Println("Failed to load certificate:", result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load certificate", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate retrieved", row)
}

// Verify is the public lookup by verification code. An unknown code is
// a normal outcome, not an error.
func (ctrl *Controller) Verify(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Verification code is required", nil)
	}

	var cert courseModels.Certificate
	if err := ctrl.db.Where("verification_code = ?", code).First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Verification complete", fiber.Map{
				"valid": false,
			})
		}
		log.Println("Failed to verify certificate:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Verification failed", nil)
	}

	var row certificateRow
	if err := ctrl.joined().Where("certificates.id = ?", cert.ID).Scan(&row).Error; err != nil {
		log.Println("Failed to load certificate:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Verification failed", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Verification complete", fiber.Map{
		"valid":       true,
		"certificate": row,
	})
}
