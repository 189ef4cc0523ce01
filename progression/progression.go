// Package progression computes module unlock state, lesson and module
// completion, quiz grading and certificate eligibility from persisted facts.
package progression

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	courseModels "lms/models/course"
	"lms/utils"
)

var (
	ErrModuleLocked         = errors.New("module is locked")
	ErrQuizAlreadyPassed    = errors.New("quiz already passed")
	ErrMaxAttemptsReached   = errors.New("maximum attempts reached")
	ErrIncompleteSubmission = errors.New("all questions must be answered")
	ErrNotEligible          = errors.New("not eligible for certificate")
)

// Engine evaluates student progression against the course structure.
// All state lives in the database; the engine itself is stateless.
type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// CourseProgress summarizes a student's standing in one course
type CourseProgress struct {
	CompletedLessons   int    `json:"completed_lessons"`
	TotalLessons       int    `json:"total_lessons"`
	ProgressPercentage int    `json:"progress_percentage"`
	CompletedLessonIDs []uint `json:"completed_lesson_ids"`
	CompletedModuleIDs []uint `json:"completed_module_ids"`
}

// AnswerSubmission is one answered question of a quiz submission
type AnswerSubmission struct {
	QuestionID uint `json:"question_id"`
	AnswerID   uint `json:"answer_id"`
}

// QuizResult is the outcome of a graded submission
type QuizResult struct {
	Attempt      courseModels.QuizAttempt `json:"attempt"`
	Passed       bool                     `json:"passed"`
	Percentage   int                      `json:"percentage"`
	PassingScore int                      `json:"passing_score"`
}

// Eligibility explains whether a certificate can be issued
type Eligibility struct {
	Eligible           bool `json:"eligible"`
	ProgressPercentage int  `json:"progress_percentage"`
	RequiresFinalQuiz  bool `json:"requires_final_quiz"`
	FinalQuizPassed    bool `json:"final_quiz_passed"`
}

// ModuleUnlocked reports whether the student may access the module's
// lessons. The first published module of a course is always unlocked;
// every later module requires its predecessor to be completed.
func (e *Engine) ModuleUnlocked(studentID, moduleID uint) (bool, error) {
	var module courseModels.Module
	if err := e.db.First(&module, moduleID).Error; err != nil {
		return false, err
	}

	var predecessor courseModels.Module
	err := e.db.
		Where("course_id = ? AND is_published = ? AND order_position < ?", module.CourseID, true, module.OrderPosition).
		Order("order_position desc").
		First(&predecessor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, nil // first module of the course
	}
	if err != nil {
		return false, err
	}

	return e.ModuleCompleted(studentID, predecessor.ID)
}

// ModuleCompleted reports whether all published lessons of the module are
// completed and, when a published module quiz exists, it has been passed.
func (e *Engine) ModuleCompleted(studentID, moduleID uint) (bool, error) {
	var totalLessons int64
	if err := e.db.Model(&courseModels.Lesson{}).
		Where("module_id = ? AND is_published = ?", moduleID, true).
		Count(&totalLessons).Error; err != nil {
		return false, err
	}

	var completedLessons int64
	if err := e.db.Model(&courseModels.LessonProgress{}).
		Joins("JOIN lessons ON lessons.id = lesson_progresses.lesson_id").
		Where("lesson_progresses.student_id = ? AND lessons.module_id = ? AND lessons.is_published = ?", studentID, moduleID, true).
		Count(&completedLessons).Error; err != nil {
		return false, err
	}

	if completedLessons < totalLessons {
		return false, nil
	}

	var quiz courseModels.Quiz
	err := e.db.
		Where("scope = ? AND module_id = ? AND is_published = ?", courseModels.QuizScopeModule, moduleID, true).
		First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, nil // no quiz gates this module
	}
	if err != nil {
		return false, err
	}

	return e.quizPassed(studentID, quiz.ID)
}

func (e *Engine) quizPassed(studentID, quizID uint) (bool, error) {
	var passedAttempts int64
	err := e.db.Model(&courseModels.QuizAttempt{}).
		Where("student_id = ? AND quiz_id = ? AND passed = ?", studentID, quizID, true).
		Count(&passedAttempts).Error
	return passedAttempts > 0, err
}

// CompleteLesson records a lesson completion. Re-completing is a no-op:
// the existing record is returned with alreadyCompleted set and no error.
// The owning module must be unlocked for the student.
func (e *Engine) CompleteLesson(studentID, lessonID uint) (*courseModels.LessonProgress, bool, error) {
	var lesson courseModels.Lesson
	if err := e.db.Where("id = ? AND is_published = ?", lessonID, true).First(&lesson).Error; err != nil {
		return nil, false, err
	}

	var module courseModels.Module
	if err := e.db.First(&module, lesson.ModuleID).Error; err != nil {
		return nil, false, err
	}

	unlocked, err := e.ModuleUnlocked(studentID, module.ID)
	if err != nil {
		return nil, false, err
	}
	if !unlocked {
		return nil, false, ErrModuleLocked
	}

	progress := courseModels.LessonProgress{
		StudentID: studentID,
		LessonID:  lessonID,
		CourseID:  module.CourseID,
	}

	err = e.db.Create(&progress).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		var existing courseModels.LessonProgress
		if err := e.db.
			Where("student_id = ? AND lesson_id = ?", studentID, lessonID).
			First(&existing).Error; err != nil {
			return nil, false, err
		}
		return &existing, true, nil
	}
	if err != nil {
		return nil, false, err
	}

	// keep the enrollment row's cached percentage in sync
	if _, err := e.CourseProgress(studentID, module.CourseID); err != nil {
		return nil, false, err
	}

	return &progress, false, nil
}

// CourseProgress computes the student's completion state for a course:
// completedLessons / totalPublishedLessons, rounded to a whole percent.
// Module and final quizzes are excluded from the denominator. The
// enrollment row's progress_percentage is updated as a side effect.
func (e *Engine) CourseProgress(studentID, courseID uint) (*CourseProgress, error) {
	var totalLessons int64
	if err := e.db.Model(&courseModels.Lesson{}).
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("modules.course_id = ? AND modules.is_published = ? AND lessons.is_published = ?", courseID, true, true).
		Count(&totalLessons).Error; err != nil {
		return nil, err
	}

	var completed []courseModels.LessonProgress
	if err := e.db.
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Find(&completed).Error; err != nil {
		return nil, err
	}

	completedIDs := make([]uint, len(completed))
	for i, p := range completed {
		completedIDs[i] = p.LessonID
	}

	percentage := 0
	if totalLessons > 0 {
		percentage = int(math.Round(float64(len(completed)) / float64(totalLessons) * 100))
	}

	var modules []courseModels.Module
	if err := e.db.
		Where("course_id = ? AND is_published = ?", courseID, true).
		Order("order_position asc").
		Find(&modules).Error; err != nil {
		return nil, err
	}

	completedModuleIDs := make([]uint, 0, len(modules))
	for _, m := range modules {
		done, err := e.ModuleCompleted(studentID, m.ID)
		if err != nil {
			return nil, err
		}
		if done {
			completedModuleIDs = append(completedModuleIDs, m.ID)
		}
	}

	if err := e.syncEnrollment(studentID, courseID, percentage); err != nil {
		return nil, err
	}

	return &CourseProgress{
		CompletedLessons:   len(completed),
		TotalLessons:       int(totalLessons),
		ProgressPercentage: percentage,
		CompletedLessonIDs: completedIDs,
		CompletedModuleIDs: completedModuleIDs,
	}, nil
}

func (e *Engine) syncEnrollment(studentID, courseID uint, percentage int) error {
	var enrollment courseModels.Enrollment
	err := e.db.
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil // progress can be computed without an enrollment row
	}
	if err != nil {
		return err
	}

	enrollment.ProgressPercentage = percentage
	if percentage >= 100 && enrollment.Status == courseModels.EnrollApproved {
		enrollment.Status = courseModels.EnrollCompleted
		now := time.Now()
		enrollment.CompletedAt = &now
	}

	return e.db.Save(&enrollment).Error
}

// SubmitQuizAttempt grades a submission and records the attempt. It
// rejects when a prior attempt already passed, when the attempt cap is
// reached, or when any question of the quiz is unanswered. The attempt
// rows are read under a row lock in the same transaction as the insert,
// so concurrent submissions for one (student, quiz) serialize and the
// stored attempts never exceed max_attempts.
func (e *Engine) SubmitQuizAttempt(studentID, quizID uint, answers []AnswerSubmission, timeTakenSeconds int) (*QuizResult, error) {
	var quiz courseModels.Quiz
	if err := e.db.Where("id = ? AND is_published = ?", quizID, true).First(&quiz).Error; err != nil {
		return nil, err
	}

	var result *QuizResult
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var attempts []courseModels.QuizAttempt
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("student_id = ? AND quiz_id = ?", studentID, quizID).
			Find(&attempts).Error; err != nil {
			return err
		}

		for _, a := range attempts {
			if a.Passed {
				return ErrQuizAlreadyPassed
			}
		}
		if quiz.MaxAttempts > 0 && len(attempts) >= quiz.MaxAttempts {
			return ErrMaxAttemptsReached
		}

		var questions []courseModels.Question
		if err := tx.
			Where("quiz_id = ?", quizID).
			Order("order_index asc").
			Find(&questions).Error; err != nil {
			return err
		}

		answered := make(map[uint]uint, len(answers))
		for _, a := range answers {
			answered[a.QuestionID] = a.AnswerID
		}

		score, maxScore := 0, 0
		for _, q := range questions {
			maxScore += q.Points

			answerID, ok := answered[q.ID]
			if !ok {
				return ErrIncompleteSubmission
			}

			var correct courseModels.Answer
			err := tx.
				Where("question_id = ? AND is_correct = ?", q.ID, true).
				First(&correct).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue // question without a designated answer scores nothing
			}
			if err != nil {
				return err
			}
			if correct.ID == answerID {
				score += q.Points
			}
		}

		percentage := 0
		if maxScore > 0 {
			percentage = int(math.Round(float64(score) / float64(maxScore) * 100))
		}
		passed := percentage >= quiz.PassingScore

		attempt := courseModels.QuizAttempt{
			StudentID:        studentID,
			QuizID:           quizID,
			Score:            score,
			MaxScore:         maxScore,
			Percentage:       percentage,
			Passed:           passed,
			TimeTakenSeconds: timeTakenSeconds,
			CompletedAt:      time.Now(),
		}
		if err := tx.Create(&attempt).Error; err != nil {
			return err
		}

		result = &QuizResult{
			Attempt:      attempt,
			Passed:       passed,
			Percentage:   percentage,
			PassingScore: quiz.PassingScore,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// CertificateEligibility: 100% course progress, and the published final
// quiz (when one exists) passed.
func (e *Engine) CertificateEligibility(studentID, courseID uint) (*Eligibility, error) {
	progress, err := e.CourseProgress(studentID, courseID)
	if err != nil {
		return nil, err
	}

	elig := &Eligibility{ProgressPercentage: progress.ProgressPercentage}

	var finalQuiz courseModels.Quiz
	err = e.db.
		Where("scope = ? AND course_id = ? AND is_published = ?", courseModels.QuizScopeFinal, courseID, true).
		First(&finalQuiz).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no final quiz gates this course
	case err != nil:
		return nil, err
	default:
		elig.RequiresFinalQuiz = true
		passed, err := e.quizPassed(studentID, finalQuiz.ID)
		if err != nil {
			return nil, err
		}
		elig.FinalQuizPassed = passed
	}

	elig.Eligible = progress.ProgressPercentage >= 100 &&
		(!elig.RequiresFinalQuiz || elig.FinalQuizPassed)

	return elig, nil
}

// GenerateCertificate issues the certificate for an eligible student.
// Generation is idempotent: a concurrent or repeated call returns the
// existing row, relying on the unique (student_id, course_id) constraint
// rather than a check-then-insert race.
func (e *Engine) GenerateCertificate(studentID, courseID uint) (*courseModels.Certificate, bool, error) {
	elig, err := e.CertificateEligibility(studentID, courseID)
	if err != nil {
		return nil, false, err
	}
	if !elig.Eligible {
		return nil, false, ErrNotEligible
	}

	now := time.Now()
	cert := courseModels.Certificate{
		StudentID:         studentID,
		CourseID:          courseID,
		CertificateNumber: utils.GenerateCertificateNumber(now),
		VerificationCode:  utils.GenerateVerificationCode(),
		IssueDate:         now,
	}

	err = e.db.Create(&cert).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		var existing courseModels.Certificate
		if err := e.db.
			Where("student_id = ? AND course_id = ?", studentID, courseID).
			First(&existing).Error; err != nil {
			return nil, false, err
		}
		return &existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return &cert, true, nil
}
