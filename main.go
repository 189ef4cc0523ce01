package main

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/routers/adminRoutes"
	"lms/routers/authRoutes"
	"lms/routers/certificateRoutes"
	"lms/routers/contentRoutes"
	"lms/routers/courseRoutes"
	"lms/routers/quizRoutes"
	"lms/routers/siteRoutes"
	"lms/routers/studentRoutes"
	"lms/utils"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Database connection failed: ", err)
	}

	mailer := utils.NewSMTPMailer(cfg)

	app := fiber.New(fiber.Config{
		AppName: "lms",
	})

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-HTTP-Method-Override",
		AllowCredentials: true,
	}))
	app.Use(middleware.MethodOverride)

	authRoutes.SetupAuthRoutes(app, db, cfg)
	studentRoutes.SetupStudentRoutes(app, db, cfg)
	courseRoutes.SetupCourseRoutes(app, db, cfg, mailer)
	contentRoutes.SetupContentRoutes(app, db, cfg)
	quizRoutes.SetupQuizRoutes(app, db, cfg)
	certificateRoutes.SetupCertificateRoutes(app, db, cfg, mailer)
	siteRoutes.SetupSiteRoutes(app, db, cfg, mailer)
	adminRoutes.SetupAdminRoutes(app, db, cfg)

	scheduler := utils.InitializeCourseScheduler(db)
	defer scheduler.Stop()

	log.Println("Server starting on port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("Server failed to start: ", err)
	}
}
