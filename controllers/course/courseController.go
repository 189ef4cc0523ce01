package courseController

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lms/config"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"
	courseValidator "lms/validators/course"
)

type Controller struct {
	db     *gorm.DB
	cfg    *config.Config
	mailer utils.Mailer
}

func New(db *gorm.DB, cfg *config.Config, mailer utils.Mailer) *Controller {
	return &Controller{db: db, cfg: cfg, mailer: mailer}
}

// ListActive returns active courses for the public catalog.
func (ctrl *Controller) ListActive(c *fiber.Ctx) error {
	var courses []courseModels.Course

	query := ctrl.db.Where("is_active = ?", true)
	if t := c.Query("type"); t != "" {
		if !courseModels.ValidCourseType(t) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course type", nil)
		}
		query = query.Where("type = ?", t)
	}

	if err := query.Order("created_at DESC").Find(&courses).Error; err != nil {
		log.Println("Failed to list courses:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load courses", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses retrieved", courses)
}

// ListAll returns every course, active or not. Admin only.
func (ctrl *Controller) ListAll(c *fiber.Ctx) error {
	var courses []courseModels.Course
	if err := ctrl.db.Order("created_at DESC").Find(&courses).Error; err != nil {
		log.Println("Failed to list courses:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load courses", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses retrieved", courses)
}

func (ctrl *Controller) Get(c *fiber.Ctx) error {
	courseID := c.Locals("courseId").(uint)

	var course courseModels.Course
	if err := ctrl.db.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found", nil)
		}
		log.Println("Failed to load course:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load course", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course retrieved", course)
}

func (ctrl *Controller) Create(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)

	course := courseModels.Course{
		Title:         reqData.Title,
		Description:   reqData.Description,
		Type:          reqData.Type,
		Level:         reqData.Level,
		Duration:      reqData.Duration,
		Price:         reqData.Price,
		Instructor:    reqData.Instructor,
		Schedule:      reqData.Schedule,
		StartDate:     reqData.StartDate,
		EndDate:       reqData.EndDate,
		MaxStudents:   reqData.MaxStudents,
		IsActive:      true,
		ThumbnailURL:  reqData.ThumbnailURL,
		IntroVideoURL: reqData.IntroVideoURL,
	}
	if reqData.IsActive != nil {
		course.IsActive = *reqData.IsActive
	}

	if err := ctrl.db.Create(&course).Error; err != nil {
		log.Println("Failed to create course:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created", course)
}

func (ctrl *Controller) Update(c *fiber.Ctx) error {
	courseID := c.Locals("courseId").(uint)
	reqData := c.Locals("validatedCourseUpdate").(*courseValidator.UpdateCourseRequest)

	var course courseModels.Course
	if err := ctrl.db.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found", nil)
		}
		log.Println("Failed to load course:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course", nil)
	}

	updates := make(map[string]interface{})
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.Type != nil {
		updates["type"] = *reqData.Type
	}
	if reqData.Level != nil {
		updates["level"] = *reqData.Level
	}
	if reqData.Duration != nil {
		updates["duration"] = *reqData.Duration
	}
	if reqData.Price != nil {
		updates["price"] = *reqData.Price
	}
	if reqData.Instructor != nil {
		updates["instructor"] = *reqData.Instructor
	}
	if reqData.Schedule != nil {
		updates["schedule"] = *reqData.Schedule
	}
	if reqData.StartDate != nil {
		updates["start_date"] = *reqData.StartDate
	}
	if reqData.EndDate != nil {
		updates["end_date"] = *reqData.EndDate
	}
	if reqData.MaxStudents != nil {
		updates["max_students"] = *reqData.MaxStudents
	}
	if reqData.IsActive != nil {
		updates["is_active"] = *reqData.IsActive
	}
	if reqData.ThumbnailURL != nil {
		updates["thumbnail_url"] = *reqData.ThumbnailURL
	}
	if reqData.IntroVideoURL != nil {
		updates["intro_video_url"] = *reqData.IntroVideoURL
	}

	if err := ctrl.db.Model(&course).Updates(updates).Error; err != nil {
		log.Println("Failed to update course:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated", course)
}

func (ctrl *Controller) Delete(c *fiber.Ctx) error {
	courseID := c.Locals("courseId").(uint)

	result := ctrl.db.Delete(&courseModels.Course{}, courseID)
	if result.Error != nil {
		log.Println("Failed to delete course:", result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted", nil)
}

// Enroll creates an enrollment for the authenticated student. Online
// courses are approved immediately, physical courses wait for review.
func (ctrl *Controller) Enroll(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	courseID := c.Locals("courseId").(uint)

	var course courseModels.Course
	if err := ctrl.db.Where("id = ? AND is_active = ?", courseID, true).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not active", nil)
		}
		log.Println("Failed to load course:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Enrollment failed", nil)
	}

	if course.MaxStudents > 0 {
		var taken int64
		err := ctrl.db.Model(&courseModels.Enrollment{}).
			Where("course_id = ? AND status IN ?", courseID,
				[]string{courseModels.EnrollApproved, courseModels.EnrollCompleted}).
			Count(&taken).Error
		if err != nil {
			log.Println("Failed to count enrollments:", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Enrollment failed", nil)
		}
		if taken >= int64(course.MaxStudents) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course is full", nil)
		}
	}

	status := courseModels.EnrollPending
	accessGranted := false
	if course.Type == courseModels.TypeOnline {
		status = courseModels.EnrollApproved
		accessGranted = true
	}

	enrollment := courseModels.Enrollment{
		StudentID:     user.ID,
		CourseID:      courseID,
		Status:        status,
		PaymentStatus: models.PaymentPending,
		AccessGranted: accessGranted,
	}

	if err := ctrl.db.Create(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already enrolled in this course", nil)
		}
		log.Println("Failed to create enrollment:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Enrollment failed", nil)
	}

	var student models.Student
	if err := ctrl.db.First(&student, user.ID).Error; err == nil {
		utils.SendEnrollmentEmail(ctrl.mailer, student.Email, student.Name, course.Title)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled successfully", enrollment)
}

// adminEnrollmentRow joins enrollments to students and courses for the
// back office lists.
type adminEnrollmentRow struct {
	ID                 uint      `json:"id"`
	StudentID          uint      `json:"student_id"`
	StudentName        string    `json:"student_name"`
	StudentEmail       string    `json:"student_email"`
	CourseID           uint      `json:"course_id"`
	CourseTitle        string    `json:"course_title"`
	Status             string    `json:"status"`
	PaymentStatus      string    `json:"payment_status"`
	ProgressPercentage int       `json:"progress_percentage"`
	EnrolledAt         time.Time `json:"enrolled_at"`
}

func (ctrl *Controller) enrollmentRows(extraWhere string, args ...interface{}) ([]adminEnrollmentRow, error) {
	var rows []adminEnrollmentRow
	query := ctrl.db.Model(&courseModels.Enrollment{}).
		Select(`enrollments.id, enrollments.student_id, students.name AS student_name,
			students.email AS student_email, enrollments.course_id, courses.title AS course_title,
			enrollments.status, enrollments.payment_status, enrollments.progress_percentage,
			enrollments.created_at AS enrolled_at`).
		Joins("JOIN students ON students.id = enrollments.student_id").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Order("enrollments.created_at DESC")
	if extraWhere != "" {
		query = query.Where(extraWhere, args...)
	}
	err := query.Scan(&rows).Error
	return rows, err
}

// CourseEnrollments lists enrollments for one course. Admin only.
func (ctrl *Controller) CourseEnrollments(c *fiber.Ctx) error {
	courseID := c.Locals("courseId").(uint)

	rows, err := ctrl.enrollmentRows("enrollments.course_id = ?", courseID)
	if err != nil {
		log.Println("Failed to list enrollments:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load enrollments", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments retrieved", rows)
}

// AllEnrollments lists every enrollment. Admin only.
func (ctrl *Controller) AllEnrollments(c *fiber.Ctx) error {
	rows, err := ctrl.enrollmentRows("")
	if err != nil {
		log.Println("Failed to list enrollments:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load enrollments", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments retrieved", rows)
}

// UpdateEnrollmentStatus moves an enrollment through its lifecycle.
func (ctrl *Controller) UpdateEnrollmentStatus(c *fiber.Ctx) error {
	enrollmentID := c.Locals("enrollmentId").(uint)
	reqData := c.Locals("validatedEnrollmentStatus").(*courseValidator.EnrollmentStatusRequest)

	var enrollment courseModels.Enrollment
	if err := ctrl.db.First(&enrollment, enrollmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found", nil)
		}
		log.Println("Failed to load enrollment:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update enrollment", nil)
	}

	updates := map[string]interface{}{"status": reqData.Status}
	switch reqData.Status {
	case courseModels.EnrollApproved:
		updates["access_granted"] = true
	case courseModels.EnrollRejected, courseModels.EnrollDropped:
		updates["access_granted"] = false
	case courseModels.EnrollCompleted:
		if enrollment.CompletedAt == nil {
			now := time.Now()
			updates["completed_at"] = &now
		}
	}

	if err := ctrl.db.Model(&enrollment).Updates(updates).Error; err != nil {
		log.Println("Failed to update enrollment:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update enrollment", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment updated", enrollment)
}
