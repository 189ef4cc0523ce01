package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment statuses. Online self-service enrollments start approved;
// physical-course enrollments start pending until an admin decides.
const (
	EnrollPending   = "pending"
	EnrollApproved  = "approved"
	EnrollRejected  = "rejected"
	EnrollCompleted = "completed"
	EnrollDropped   = "dropped"
)

// Enrollment links a student to a course with approval and payment state
type Enrollment struct {
	gorm.Model
	StudentID          uint       `json:"student_id" gorm:"uniqueIndex:idx_student_course;not null"`
	CourseID           uint       `json:"course_id" gorm:"uniqueIndex:idx_student_course;not null"`
	Status             string     `json:"status" gorm:"default:'pending'"`
	PaymentStatus      string     `json:"payment_status" gorm:"default:'pending'"`
	AccessGranted      bool       `json:"access_granted" gorm:"default:false"`
	ProgressPercentage int        `json:"progress_percentage" gorm:"default:0"`
	CompletedAt        *time.Time `json:"completed_at"`
}

// ValidEnrollmentStatus reports whether s is a known enrollment status
func ValidEnrollmentStatus(s string) bool {
	switch s {
	case EnrollPending, EnrollApproved, EnrollRejected, EnrollCompleted, EnrollDropped:
		return true
	}
	return false
}
