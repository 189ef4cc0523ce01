package contentRoutes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lms/config"
	contentController "lms/controllers/content"
	"lms/middleware"
	contentValidator "lms/validators/content"
	"lms/validators/params"
)

func SetupContentRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	ctrl := contentController.New(db)

	public := app.Group("/content", middleware.OptionalAuth(cfg))

	// public catalog reads, anonymous callers see published content only
	public.Get("/courses/:courseId/modules", params.ID("courseId", "courseId"), ctrl.CourseModules)
	public.Get("/modules/:moduleId/lessons", params.ID("moduleId", "moduleId"), ctrl.ModuleLessons)
	public.Get("/modules/:moduleId", params.ID("moduleId", "moduleId"), ctrl.GetModule)

	content := app.Group("/content", middleware.Auth(cfg))

	// curriculum
	content.Post("/courses/:courseId/modules",
		middleware.InstructorOrAdmin,
		params.ID("courseId", "courseId"),
		contentValidator.CreateModule(), ctrl.CreateModule)
	content.Put("/courses/:courseId/modules/reorder",
		middleware.InstructorOrAdmin,
		params.ID("courseId", "courseId"),
		contentValidator.ReorderModules(), ctrl.ReorderModules)

	content.Put("/modules/:moduleId",
		middleware.InstructorOrAdmin,
		params.ID("moduleId", "moduleId"),
		contentValidator.UpdateModule(), ctrl.UpdateModule)
	content.Delete("/modules/:moduleId",
		middleware.InstructorOrAdmin,
		params.ID("moduleId", "moduleId"), ctrl.DeleteModule)

	content.Post("/modules/:moduleId/lessons",
		middleware.InstructorOrAdmin,
		params.ID("moduleId", "moduleId"),
		contentValidator.CreateLesson(), ctrl.CreateLesson)
	content.Put("/modules/:moduleId/lessons/reorder",
		middleware.InstructorOrAdmin,
		params.ID("moduleId", "moduleId"),
		contentValidator.ReorderLessons(), ctrl.ReorderLessons)

	content.Get("/lessons/:lessonId", params.ID("lessonId", "lessonId"), ctrl.GetLesson)
	content.Put("/lessons/:lessonId",
		middleware.InstructorOrAdmin,
		params.ID("lessonId", "lessonId"),
		contentValidator.UpdateLesson(), ctrl.UpdateLesson)
	content.Delete("/lessons/:lessonId",
		middleware.InstructorOrAdmin,
		params.ID("lessonId", "lessonId"), ctrl.DeleteLesson)

	// learning flow
	content.Post("/lessons/:lessonId/complete",
		middleware.StudentOnly,
		params.ID("lessonId", "lessonId"), ctrl.CompleteLesson)
	content.Get("/courses/:courseId/progress",
		middleware.StudentOnly,
		params.ID("courseId", "courseId"), ctrl.CourseProgress)
	content.Get("/modules/:moduleId/unlocked",
		middleware.StudentOnly,
		params.ID("moduleId", "moduleId"), ctrl.ModuleUnlocked)

	content.Get("/modules/:moduleId/quiz",
		middleware.StudentOnly,
		params.ID("moduleId", "moduleId"), ctrl.ModuleQuiz)
	content.Post("/modules/:moduleId/quiz/submit",
		middleware.StudentOnly,
		params.ID("moduleId", "moduleId"),
		contentValidator.SubmitQuiz(), ctrl.SubmitModuleQuiz)

	content.Get("/courses/:courseId/final-quiz",
		middleware.StudentOnly,
		params.ID("courseId", "courseId"), ctrl.CourseFinalQuiz)
	content.Post("/courses/:courseId/final-quiz/submit",
		middleware.StudentOnly,
		params.ID("courseId", "courseId"),
		contentValidator.SubmitQuiz(), ctrl.SubmitFinalQuiz)
}
