package course

import (
	"time"

	"gorm.io/gorm"
)

// Quiz scopes. A module quiz gates the next module; a final quiz
// gates the course certificate.
const (
	QuizScopeModule = "module"
	QuizScopeFinal  = "final"
)

// Quiz is an assessment attached to either a module or a course.
// Both scopes share the normalized question/answer representation.
type Quiz struct {
	gorm.Model
	Scope            string `json:"scope" gorm:"default:'module';index"`
	ModuleID         *uint  `json:"module_id" gorm:"index"` // set when scope = module
	CourseID         *uint  `json:"course_id" gorm:"index"` // set when scope = final
	Title            string `json:"title"`
	Description      string `json:"description" gorm:"type:text"`
	PassingScore     int    `json:"passing_score" gorm:"default:70"` // percent
	TimeLimitMinutes int    `json:"time_limit_minutes" gorm:"default:0"`
	MaxAttempts      int    `json:"max_attempts" gorm:"default:3"`
	IsPublished      bool   `json:"is_published" gorm:"default:true"`
}

// Question belongs to a quiz, ordered by OrderIndex
type Question struct {
	gorm.Model
	QuizID       uint   `json:"quiz_id" gorm:"index;not null"`
	QuestionText string `json:"question_text" gorm:"type:text"`
	QuestionType string `json:"question_type" gorm:"default:'multiple_choice'"`
	Points       int    `json:"points" gorm:"default:1"`
	OrderIndex   int    `json:"order_index" gorm:"default:0"`
	Explanation  string `json:"explanation" gorm:"type:text"`
}

// Answer is one option of a question; exactly the is_correct ones score
type Answer struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	AnswerText string `json:"answer_text"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
}

// QuizAttempt records one graded submission, passed or not
type QuizAttempt struct {
	gorm.Model
	StudentID        uint      `json:"student_id" gorm:"index:idx_student_quiz;not null"`
	QuizID           uint      `json:"quiz_id" gorm:"index:idx_student_quiz;not null"`
	Score            int       `json:"score"`
	MaxScore         int       `json:"max_score"`
	Percentage       int       `json:"percentage"`
	Passed           bool      `json:"passed" gorm:"default:false"`
	TimeTakenSeconds int       `json:"time_taken_seconds"`
	CompletedAt      time.Time `json:"completed_at"`
}
