package studentController

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"lms/config"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/progression"
	studentValidator "lms/validators/students"
)

type Controller struct {
	db     *gorm.DB
	cfg    *config.Config
	engine *progression.Engine
}

func New(db *gorm.DB, cfg *config.Config) *Controller {
	return &Controller{db: db, cfg: cfg, engine: progression.NewEngine(db)}
}

func (ctrl *Controller) Register(c *fiber.Ctx) error {
	reqData := c.Locals("validatedStudentRegister").(*studentValidator.RegisterRequest)

	hash, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), ctrl.cfg.SaltRound)
	if err != nil {
		log.Println("Failed to hash password:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Registration failed", nil)
	}

	student := models.Student{
		Name:         reqData.Name,
		Email:        reqData.Email,
		PasswordHash: string(hash),
		Phone:        reqData.Phone,
	}

	if err := ctrl.db.Create(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email already registered", nil)
		}
		log.Println("Failed to create student:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Registration failed", nil)
	}

	token, err := middleware.GenerateToken(ctrl.cfg, student.ID, student.Email, models.RoleStudent)
	if err != nil {
		log.Println("Failed to sign token:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Registration failed", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Registration successful", fiber.Map{
		"token": token,
		"student": fiber.Map{
			"id":    student.ID,
			"name":  student.Name,
			"email": student.Email,
		},
	})
}

func (ctrl *Controller) Login(c *fiber.Ctx) error {
	reqData := c.Locals("validatedStudentLogin").(*studentValidator.LoginRequest)

	var student models.Student
	if err := ctrl.db.Where("email = ?", reqData.Email).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password", nil)
		}
		log.Println("Failed to look up student:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Login failed", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password", nil)
	}

	token, err := middleware.GenerateToken(ctrl.cfg, student.ID, student.Email, models.RoleStudent)
	if err != nil {
		log.Println("Failed to sign token:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Login failed", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful", fiber.Map{
		"token": token,
		"student": fiber.Map{
			"id":    student.ID,
			"name":  student.Name,
			"email": student.Email,
		},
	})
}

func (ctrl *Controller) GetProfile(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var student models.Student
	if err := ctrl.db.First(&student, user.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not found", nil)
		}
		log.Println("Failed to load student:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load profile", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile retrieved", student)
}

func (ctrl *Controller) UpdateProfile(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	reqData := c.Locals("validatedProfileUpdate").(*studentValidator.UpdateProfileRequest)

	updates := make(map[string]interface{})
	if reqData.Name != nil {
		updates["name"] = *reqData.Name
	}
	if reqData.Phone != nil {
		updates["phone"] = *reqData.Phone
	}

	var student models.Student
	if err := ctrl.db.First(&student, user.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not found", nil)
		}
		log.Println("Failed to load student:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile", nil)
	}

	if err := ctrl.db.Model(&student).Updates(updates).Error; err != nil {
		log.Println("Failed to update student:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated", student)
}

func (ctrl *Controller) ChangePassword(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	reqData := c.Locals("validatedPasswordChange").(*studentValidator.ChangePasswordRequest)

	var student models.Student
	if err := ctrl.db.First(&student, user.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not found", nil)
		}
		log.Println("Failed to load student:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to change password", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(reqData.CurrentPassword)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Current password is incorrect", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), ctrl.cfg.SaltRound)
	if err != nil {
		log.Println("Failed to hash password:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to change password", nil)
	}

	if err := ctrl.db.Model(&student).Update("password_hash", string(hash)).Error; err != nil {
		log.Println("Failed to update password:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to change password", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password changed successfully", nil)
}

// enrollmentRow is one line of a student's enrollment list, joined
// to the course for display.
type enrollmentRow struct {
	ID                 uint    `json:"id"`
	CourseID           uint    `json:"course_id"`
	CourseTitle        string  `json:"course_title"`
	CourseType         string  `json:"course_type"`
	CourseThumbnail    string  `json:"course_thumbnail"`
	Status             string  `json:"status"`
	PaymentStatus      string  `json:"payment_status"`
	ProgressPercentage int     `json:"progress_percentage"`
	EnrolledAt         string  `json:"enrolled_at"`
	CompletedAt        *string `json:"completed_at"`
}

func (ctrl *Controller) GetEnrollments(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var rows []enrollmentRow
	err := ctrl.db.Model(&courseModels.Enrollment{}).
		Select(`enrollments.id, enrollments.course_id, courses.title AS course_title,
			courses.type AS course_type, courses.thumbnail_url AS course_thumbnail,
			enrollments.status, enrollments.payment_status, enrollments.progress_percentage,
			enrollments.created_at AS enrolled_at, enrollments.completed_at`).
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("enrollments.student_id = ?", user.ID).
		Order("enrollments.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		log.Println("Failed to list enrollments:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load enrollments", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments retrieved", rows)
}

func (ctrl *Controller) GetCourseProgress(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	courseID := c.Locals("courseId").(uint)

	progress, err := ctrl.engine.CourseProgress(user.ID, courseID)
	if err != nil {
		log.Println("Failed to compute course progress:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load progress", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress retrieved", progress)
}
