package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// fixture is a course with two modules: module one has two lessons and
// a quiz, module two has one lesson.
type fixture struct {
	student models.Student
	course  courseModels.Course
	module1 courseModels.Module
	module2 courseModels.Module
	lesson1 courseModels.Lesson
	lesson2 courseModels.Lesson
	lesson3 courseModels.Lesson
	quiz1   courseModels.Quiz
}

func seedCourse(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()

	f := &fixture{}

	f.student = models.Student{Name: "Ada", Email: "ada@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&f.student).Error)

	f.course = courseModels.Course{Title: "Go Basics", Description: "intro", Type: courseModels.TypeOnline, IsActive: true}
	require.NoError(t, db.Create(&f.course).Error)

	require.NoError(t, db.Create(&courseModels.Enrollment{
		StudentID:     f.student.ID,
		CourseID:      f.course.ID,
		Status:        courseModels.EnrollApproved,
		AccessGranted: true,
	}).Error)

	f.module1 = courseModels.Module{CourseID: f.course.ID, Title: "Module 1", OrderPosition: 1, IsPublished: true}
	require.NoError(t, db.Create(&f.module1).Error)
	f.module2 = courseModels.Module{CourseID: f.course.ID, Title: "Module 2", OrderPosition: 2, IsPublished: true}
	require.NoError(t, db.Create(&f.module2).Error)

	f.lesson1 = courseModels.Lesson{ModuleID: f.module1.ID, Title: "Lesson 1", OrderPosition: 1, IsPublished: true}
	require.NoError(t, db.Create(&f.lesson1).Error)
	f.lesson2 = courseModels.Lesson{ModuleID: f.module1.ID, Title: "Lesson 2", OrderPosition: 2, IsPublished: true}
	require.NoError(t, db.Create(&f.lesson2).Error)
	f.lesson3 = courseModels.Lesson{ModuleID: f.module2.ID, Title: "Lesson 3", OrderPosition: 1, IsPublished: true}
	require.NoError(t, db.Create(&f.lesson3).Error)

	f.quiz1 = courseModels.Quiz{
		Scope:        courseModels.QuizScopeModule,
		ModuleID:     &f.module1.ID,
		Title:        "Module 1 Quiz",
		PassingScore: 70,
		MaxAttempts:  3,
		IsPublished:  true,
	}
	require.NoError(t, db.Create(&f.quiz1).Error)

	addQuestion(t, db, f.quiz1.ID, 1)
	addQuestion(t, db, f.quiz1.ID, 2)

	return f
}

// addQuestion creates a one-point question with two answers; the first
// answer is the correct one.
func addQuestion(t *testing.T, db *gorm.DB, quizID uint, order int) courseModels.Question {
	t.Helper()

	q := courseModels.Question{QuizID: quizID, QuestionText: "?", Points: 1, OrderIndex: order}
	require.NoError(t, db.Create(&q).Error)
	require.NoError(t, db.Create(&courseModels.Answer{QuestionID: q.ID, AnswerText: "right", IsCorrect: true, OrderIndex: 1}).Error)
	require.NoError(t, db.Create(&courseModels.Answer{QuestionID: q.ID, AnswerText: "wrong", IsCorrect: false, OrderIndex: 2}).Error)
	return q
}

func quizQuestions(t *testing.T, db *gorm.DB, quizID uint) []courseModels.Question {
	t.Helper()

	var questions []courseModels.Question
	require.NoError(t, db.Where("quiz_id = ?", quizID).Order("order_index asc").Find(&questions).Error)
	return questions
}

// correctAnswers builds a fully correct submission for a quiz
func correctAnswers(t *testing.T, db *gorm.DB, quizID uint) []AnswerSubmission {
	t.Helper()

	var answers []AnswerSubmission
	for _, q := range quizQuestions(t, db, quizID) {
		var a courseModels.Answer
		require.NoError(t, db.Where("question_id = ? AND is_correct = ?", q.ID, true).First(&a).Error)
		answers = append(answers, AnswerSubmission{QuestionID: q.ID, AnswerID: a.ID})
	}
	return answers
}

// wrongAnswers builds a fully incorrect submission for a quiz
func wrongAnswers(t *testing.T, db *gorm.DB, quizID uint) []AnswerSubmission {
	t.Helper()

	var answers []AnswerSubmission
	for _, q := range quizQuestions(t, db, quizID) {
		var a courseModels.Answer
		require.NoError(t, db.Where("question_id = ? AND is_correct = ?", q.ID, false).First(&a).Error)
		answers = append(answers, AnswerSubmission{QuestionID: q.ID, AnswerID: a.ID})
	}
	return answers
}

func completeModuleOne(t *testing.T, db *gorm.DB, e *Engine, f *fixture) {
	t.Helper()

	_, _, err := e.CompleteLesson(f.student.ID, f.lesson1.ID)
	require.NoError(t, err)
	_, _, err = e.CompleteLesson(f.student.ID, f.lesson2.ID)
	require.NoError(t, err)

	result, err := e.SubmitQuizAttempt(f.student.ID, f.quiz1.ID, correctAnswers(t, db, f.quiz1.ID), 60)
	require.NoError(t, err)
	require.True(t, result.Passed)
}

func TestFirstModuleAlwaysUnlocked(t *testing.T) {
	db := newTestDB(t)
	f := seedCourse(t, db)
	e := NewEngine(db)

	unlocked, err := e.ModuleUnlocked(f.student.ID, f.module1.ID)
	require.NoError(t, err)
	assert.True(t, unlocked)
}

func TestSecondModuleLockedUntilFirstComplete(t *testing.T) {
	db := newTestDB(t)
	f := seedCourse(t, db)
	e := NewEngine(db)

	unlocked, err := e.ModuleUnlocked(f.student.ID, f.module2.ID)
	require.NoError(t, err)
	assert.False(t, unlocked)

	// lessons done but quiz not passed: still locked
	_, _, err = e.CompleteLesson(f.student.ID, f.lesson1.ID)
	require.NoError(t, err)
	_, _, err = e.CompleteLesson(f.student.ID, f.lesson2.ID)
	require.NoError(t, err)

	unlocked, err = e.ModuleUnlocked(f.student.ID, f.module2.ID)
	require.NoError(t, err)
	assert.False(t, unlocked)

	result, err := e.SubmitQuizAttempt(f.student.ID, f.quiz1.ID, correctAnswers(t, db, f.quiz1.ID), 30)
	require.NoError(t, err)
	require.True(t, result.Passed)

	unlocked, err = e.ModuleUnlocked(f.student.ID, f.module2.ID)
	require.NoError(t, err)
	assert.True(t, unlocked)
}

func TestCompleteLessonInLockedModule(t *testing.T) {
	db := newTestDB(t)
	f := seedCourse(t, db)
	e := NewEngine(db)

	_, _, err := e.CompleteLesson(f.student.ID, f.lesson3.ID)
	assert.ErrorIs(t, err, ErrModuleLocked)
}

func TestCompleteLessonIdempotent(t *testing.T) {
	db := newTestDB(t)
	f := seedCourse(t, db)
	e := NewEngine(db)

	first, already, err := e.CompleteLesson(f.student.ID, f.lesson1.ID)
	require.NoError(t, err)
	assert.False(t, already)

	second, already, err := e.CompleteLesson(f.student.ID, f.lesson1.ID)
	require.NoError(t, err)
	assert.True(t, already)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&courseModels.LessonProgress{}).
		Where("student_id = ? AND lesson_id = ?", f.student.ID, f.lesson1.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUnpublishedLessonCannotBeCompleted(t *testing.T) {
	db := newTestDB(t)
	f := seedCourse(t, db)
	e := NewEngine(db)

	hidden := courseModels.Lesson{ModuleID: f.module1.ID, Title: "Draft", OrderPosition: 3, IsPublished: false}
	require.NoError(t, db.Create(&hidden).Error)

	_, _, err := e.CompleteLesson(f.student.ID, hidden.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCourseProgressPercentage(t *testing.T) {
	db := newTestDB(t)
	f := seedCourse(t, db)
	e := NewEngine(db)

	progress, err := e.CourseProgress(f.student.ID, f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, progress.ProgressPercentage)
	assert.Equal(t, 3, progress.TotalLessons)

	_, _, err = e.CompleteLesson(f.student.ID, f.lesson1.ID)
	require.NoError(t, err)

	progress, err = e.CourseProgress(f.student.ID, f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.CompletedLessons)
	assert.Equal(t, 33, progress.ProgressPercentage)

	_, _, err = e.CompleteLesson(f.student.ID, f.lesson2.ID)
	require.NoError(t, err)

	// 2 of 3 lessons rounds to 67; the quiz does not count as a lesson
	progress, err = e.CourseProgress(f.student.ID, f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, 67, progress.ProgressPercentage)
	assert.NotContains(t, progress.CompletedModuleIDs, f.module1.ID)

	result, err := e.SubmitQuizAttempt(f.student.ID, f.quiz1.ID, correctAnswers(t, db, f.quiz1.ID), 45)
	require.NoError(t, err)
	require.True(t, result.Passed)

	progress, err = e.CourseProgress(f.student.ID, f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, 67, progress.ProgressPercentage)
	assert.Contains(t, progress.CompletedModuleIDs, f.module1.ID)
}

func TestUnpublishedContentExcludedFromProgress(t *testing.T) {
	db := newTestDB(t)
	f := seedCourse(t, db)
	e := NewEngine(db)

	require.NoError(t, db.Create(&courseModels.Lesson{
		ModuleID: f.module1.ID, Title: "Draft", OrderPosition: 4, IsPublished: false,
	}).Error)
	require.NoError(t, db.Create(&courseModels.Module{
		CourseID: f.course.ID, Title: "Draft Module", OrderPosition: 3, IsPublished: false,
	}).Error)

	progress, err := e.CourseProgress(f.student.ID, f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, progress.TotalLessons)
}

func TestQuizGrading(t *testing.T) {
	db := newTestDB(t)
	f := seedCourse(t, db)
	e := NewEngine(db)

	result, err := e.SubmitQuizAttempt(f.student.ID, f.quiz1.ID, wrongAnswers(t, db, f.quiz1.ID), 20)
	require.NoError(t, err)
	assert.False(t, result.Passed)
	assert.Equal(t, 0, result.Percentage)
	assert.Equal(t, 70, result.PassingScore)
	assert.Equal(t, 2, result.Attempt.MaxScore)

	result, err = e.SubmitQuizAttempt(f.student.ID, f.quiz1.ID, correctAnswers(t, db, f.quiz1.ID), 20)
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Equal(t, 100, result.Percentage)
	assert.Equal(t, 2, result.Attempt.Score)
}

func TestQuizAlreadyPassedRejected(t *testing.T) {
	db := newTestDB(t)
	f := seedCourse(t, db)
	e := NewEngine(db)

	_, err := e.SubmitQuizAttempt(f.student.ID, f.quiz1.ID, correctAnswers(t, db, f.quiz1.ID), 10)
	require.NoError(t, err)

	_, err = e.SubmitQuizAttempt(f.student.ID, f.quiz1.ID, correctAnswers(t, db, f.quiz1.ID), 10)
	assert.ErrorIs(t, err, ErrQuizAlreadyPassed)
}

func TestQuizMaxAttemptsEnforced(t *testing.T) {
	db := newTestDB(t)
	f := seedCourse(t, db)
	e := NewEngine(db)

	for i := 0; i < 3; i++ {
		result, err := e.SubmitQuizAttempt(f.student.ID, f.quiz1.ID, wrongAnswers(t, db, f.quiz1.ID), 10)
		require.NoError(t, err)
		require.False(t, result.Passed)
	}

	_, err := e.SubmitQuizAttempt(f.student.ID, f.quiz1.ID, correctAnswers(t, db, f.quiz1.ID), 10)
	assert.ErrorIs(t, err, ErrMaxAttemptsReached)

	// the rejected submission leaves no row behind, the stored attempts
	// stay at the cap
	var count int64
	require.NoError(t, db.Model(&courseModels.QuizAttempt{}).
		Where("student_id = ? AND quiz_id = ?", f.student.ID, f.quiz1.ID).
		Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestQuizIncompleteSubmissionRejected(t *testing.T) {
	db := newTestDB(t)
	f := seedCourse(t, db)
	e := NewEngine(db)

	answers := correctAnswers(t, db, f.quiz1.ID)[:1]
	_, err := e.SubmitQuizAttempt(f.student.ID, f.quiz1.ID, answers, 10)
	assert.ErrorIs(t, err, ErrIncompleteSubmission)

	// a rejected submission must not burn an attempt
	var count int64
	require.NoError(t, db.Model(&courseModels.QuizAttempt{}).
		Where("student_id = ? AND quiz_id = ?", f.student.ID, f.quiz1.ID).
		Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestEnrollmentSyncedOnCompletion(t *testing.T) {
	db := newTestDB(t)
	f := seedCourse(t, db)
	e := NewEngine(db)

	completeModuleOne(t, db, e, f)
	_, _, err := e.CompleteLesson(f.student.ID, f.lesson3.ID)
	require.NoError(t, err)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("student_id = ? AND course_id = ?", f.student.ID, f.course.ID).
		First(&enrollment).Error)
	assert.Equal(t, 100, enrollment.ProgressPercentage)
	assert.Equal(t, courseModels.EnrollCompleted, enrollment.Status)
	assert.NotNil(t, enrollment.CompletedAt)
}

func TestCertificateEligibilityWithoutFinalQuiz(t *testing.T) {
	db := newTestDB(t)
	f := seedCourse(t, db)
	e := NewEngine(db)

	elig, err := e.CertificateEligibility(f.student.ID, f.course.ID)
	require.NoError(t, err)
	assert.False(t, elig.Eligible)
	assert.False(t, elig.RequiresFinalQuiz)

	completeModuleOne(t, db, e, f)
	_, _, err = e.CompleteLesson(f.student.ID, f.lesson3.ID)
	require.NoError(t, err)

	elig, err = e.CertificateEligibility(f.student.ID, f.course.ID)
	require.NoError(t, err)
	assert.True(t, elig.Eligible)
	assert.Equal(t, 100, elig.ProgressPercentage)
}

func TestCertificateEligibilityWithFinalQuiz(t *testing.T) {
	db := newTestDB(t)
	f := seedCourse(t, db)
	e := NewEngine(db)

	final := courseModels.Quiz{
		Scope:        courseModels.QuizScopeFinal,
		CourseID:     &f.course.ID,
		Title:        "Final Exam",
		PassingScore: 70,
		MaxAttempts:  3,
		IsPublished:  true,
	}
	require.NoError(t, db.Create(&final).Error)
	addQuestion(t, db, final.ID, 1)

	completeModuleOne(t, db, e, f)
	_, _, err := e.CompleteLesson(f.student.ID, f.lesson3.ID)
	require.NoError(t, err)

	elig, err := e.CertificateEligibility(f.student.ID, f.course.ID)
	require.NoError(t, err)
	assert.False(t, elig.Eligible)
	assert.True(t, elig.RequiresFinalQuiz)
	assert.False(t, elig.FinalQuizPassed)

	result, err := e.SubmitQuizAttempt(f.student.ID, final.ID, correctAnswers(t, db, final.ID), 120)
	require.NoError(t, err)
	require.True(t, result.Passed)

	elig, err = e.CertificateEligibility(f.student.ID, f.course.ID)
	require.NoError(t, err)
	assert.True(t, elig.Eligible)
	assert.True(t, elig.FinalQuizPassed)
}

func TestGenerateCertificate(t *testing.T) {
	db := newTestDB(t)
	f := seedCourse(t, db)
	e := NewEngine(db)

	_, _, err := e.GenerateCertificate(f.student.ID, f.course.ID)
	assert.ErrorIs(t, err, ErrNotEligible)

	completeModuleOne(t, db, e, f)
	_, _, err = e.CompleteLesson(f.student.ID, f.lesson3.ID)
	require.NoError(t, err)

	cert, created, err := e.GenerateCertificate(f.student.ID, f.course.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, cert.CertificateNumber)
	assert.NotEmpty(t, cert.VerificationCode)

	again, created, err := e.GenerateCertificate(f.student.ID, f.course.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, cert.ID, again.ID)
	assert.Equal(t, cert.CertificateNumber, again.CertificateNumber)
}
