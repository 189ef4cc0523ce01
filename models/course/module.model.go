package course

import "gorm.io/gorm"

// Module represents an ordered chapter within a course
type Module struct {
	gorm.Model
	CourseID      uint   `json:"course_id" gorm:"index;not null"`
	Title         string `json:"title"`
	Description   string `json:"description" gorm:"type:text"`
	OrderPosition int    `json:"order_position" gorm:"default:0"` // module order in course, 1-based
	IsPublished   bool   `json:"is_published" gorm:"default:true"`
}

// Lesson is a single content unit inside a module
type Lesson struct {
	gorm.Model
	ModuleID        uint   `json:"module_id" gorm:"index;not null"`
	Title           string `json:"title"`
	Content         string `json:"content" gorm:"type:text"`
	VideoURL        string `json:"video_url"`
	DurationMinutes int    `json:"duration_minutes" gorm:"default:0"`
	OrderPosition   int    `json:"order_position" gorm:"default:0"`
	IsPreview       bool   `json:"is_preview" gorm:"default:false"`
	IsPublished     bool   `json:"is_published" gorm:"default:true"`
}

// LessonProgress records that a student completed a lesson.
// Append-only; the unique pair makes re-completion a no-op.
type LessonProgress struct {
	gorm.Model
	StudentID uint `json:"student_id" gorm:"uniqueIndex:idx_student_lesson;not null"`
	LessonID  uint `json:"lesson_id" gorm:"uniqueIndex:idx_student_lesson;not null"`
	CourseID  uint `json:"course_id" gorm:"index;not null"`
}
