package course

import (
	"time"

	"gorm.io/gorm"
)

// Course types
const (
	TypeOnline   = "online"
	TypePhysical = "physical"
)

// Course represents a learning course
type Course struct {
	gorm.Model
	Title        string     `json:"title"`
	Description  string     `json:"description" gorm:"type:text"`
	Type         string     `json:"type" gorm:"default:'online'"` // online, physical
	Level        string     `json:"level"`
	Duration     string     `json:"duration"`
	Price        float64    `json:"price" gorm:"default:0"`
	Instructor   string     `json:"instructor"`
	Schedule     string     `json:"schedule"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	MaxStudents  int        `json:"max_students" gorm:"default:0"` // 0 = unlimited
	IsActive     bool       `json:"is_active" gorm:"default:true"`
	ThumbnailURL string     `json:"thumbnail_url"`
	IntroVideoURL string    `json:"intro_video_url"`
}

// ValidCourseType reports whether t is a known course type
func ValidCourseType(t string) bool {
	return t == TypeOnline || t == TypePhysical
}
