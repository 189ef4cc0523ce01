package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is issued once per (student, course) when the course is
// fully completed and any published final quiz has been passed.
type Certificate struct {
	gorm.Model
	StudentID         uint       `json:"student_id" gorm:"uniqueIndex:idx_cert_student_course;not null"`
	CourseID          uint       `json:"course_id" gorm:"uniqueIndex:idx_cert_student_course;not null"`
	CertificateNumber string     `json:"certificate_number" gorm:"uniqueIndex;not null"`
	VerificationCode  string     `json:"verification_code" gorm:"uniqueIndex;not null"`
	IssueDate         time.Time  `json:"issue_date"`
	ExpiryDate        *time.Time `json:"expiry_date"` // nil = permanent
}
