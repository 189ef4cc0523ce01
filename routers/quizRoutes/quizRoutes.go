package quizRoutes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lms/config"
	quizController "lms/controllers/quiz"
	"lms/middleware"
	"lms/validators/params"
	quizValidator "lms/validators/quiz"
)

func SetupQuizRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	ctrl := quizController.New(db)

	manage := app.Group("/quiz-management", middleware.Auth(cfg), middleware.InstructorOrAdmin)

	manage.Post("/modules/:moduleId/quiz",
		params.ID("moduleId", "moduleId"),
		quizValidator.CreateQuiz(), ctrl.CreateModuleQuiz)
	manage.Get("/modules/:moduleId/quiz",
		params.ID("moduleId", "moduleId"), ctrl.GetModuleQuiz)

	manage.Post("/courses/:courseId/final-quiz",
		params.ID("courseId", "courseId"),
		quizValidator.CreateQuiz(), ctrl.CreateFinalQuiz)
	manage.Get("/courses/:courseId/final-quiz",
		params.ID("courseId", "courseId"), ctrl.GetFinalQuiz)

	manage.Put("/quizzes/:quizId",
		params.ID("quizId", "quizId"),
		quizValidator.UpdateQuiz(), ctrl.UpdateQuiz)
	manage.Delete("/quizzes/:quizId",
		params.ID("quizId", "quizId"), ctrl.DeleteQuiz)

	manage.Get("/quizzes/:quizId/questions",
		params.ID("quizId", "quizId"), ctrl.ListQuestions)
	manage.Post("/quizzes/:quizId/questions",
		params.ID("quizId", "quizId"),
		quizValidator.CreateQuestion(), ctrl.CreateQuestion)

	manage.Put("/questions/:questionId",
		params.ID("questionId", "questionId"),
		quizValidator.UpdateQuestion(), ctrl.UpdateQuestion)
	manage.Delete("/questions/:questionId",
		params.ID("questionId", "questionId"), ctrl.DeleteQuestion)

	manage.Get("/questions/:questionId/answers",
		params.ID("questionId", "questionId"), ctrl.ListAnswers)
	manage.Post("/questions/:questionId/answers",
		params.ID("questionId", "questionId"),
		quizValidator.CreateAnswer(), ctrl.CreateAnswer)

	manage.Put("/answers/:answerId",
		params.ID("answerId", "answerId"),
		quizValidator.UpdateAnswer(), ctrl.UpdateAnswer)
	manage.Delete("/answers/:answerId",
		params.ID("answerId", "answerId"), ctrl.DeleteAnswer)
}
