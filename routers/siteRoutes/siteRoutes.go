package siteRoutes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lms/config"
	blogController "lms/controllers/blog"
	siteController "lms/controllers/site"
	"lms/middleware"
	"lms/utils"
	"lms/validators/params"
	siteValidator "lms/validators/site"
)

// SetupSiteRoutes registers the public marketing surface: blog,
// contact, donations, programs, organization, testimonials, sponsors.
func SetupSiteRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, mailer utils.Mailer) {
	blog := blogController.New(db)
	site := siteController.New(db, cfg, mailer)

	blogGroup := app.Group("/blog")
	blogGroup.Get("/all", middleware.Auth(cfg), middleware.InstructorOrAdmin, blog.ListAll)
	blogGroup.Get("/", blog.ListPublished)
	blogGroup.Post("/", middleware.Auth(cfg), middleware.InstructorOrAdmin, siteValidator.CreatePost(), blog.Create)
	blogGroup.Get("/:slug", blog.GetBySlug)
	blogGroup.Put("/:postId",
		middleware.Auth(cfg), middleware.InstructorOrAdmin,
		params.ID("postId", "postId"),
		siteValidator.UpdatePost(), blog.Update)
	blogGroup.Delete("/:postId",
		middleware.Auth(cfg), middleware.InstructorOrAdmin,
		params.ID("postId", "postId"), blog.Delete)

	contact := app.Group("/contact")
	contact.Post("/", siteValidator.SubmitContact(), site.SubmitContact)
	contact.Get("/", middleware.Auth(cfg), middleware.AdminOnly, site.ListContacts)
	contact.Put("/:messageId/status",
		middleware.Auth(cfg), middleware.AdminOnly,
		params.ID("messageId", "messageId"),
		siteValidator.ContactStatus(), site.UpdateContactStatus)
	contact.Delete("/:messageId",
		middleware.Auth(cfg), middleware.AdminOnly,
		params.ID("messageId", "messageId"), site.DeleteContact)

	donations := app.Group("/donations")
	donations.Post("/", siteValidator.CreateDonation(), site.CreateDonation)
	donations.Get("/", middleware.Auth(cfg), middleware.AdminOnly, site.ListDonations)
	donations.Get("/stats", middleware.Auth(cfg), middleware.AdminOnly, site.DonationStats)
	donations.Put("/:donationId/status",
		middleware.Auth(cfg), middleware.AdminOnly,
		params.ID("donationId", "donationId"),
		siteValidator.DonationStatus(), site.UpdateDonationStatus)

	programs := app.Group("/programs")
	programs.Get("/", site.ListPrograms)
	programs.Post("/", middleware.Auth(cfg), middleware.AdminOnly, siteValidator.CreateProgram(), site.CreateProgram)
	programs.Get("/:programId", params.ID("programId", "programId"), site.GetProgram)
	programs.Put("/:programId",
		middleware.Auth(cfg), middleware.AdminOnly,
		params.ID("programId", "programId"),
		siteValidator.UpdateProgram(), site.UpdateProgram)
	programs.Delete("/:programId",
		middleware.Auth(cfg), middleware.AdminOnly,
		params.ID("programId", "programId"), site.DeleteProgram)

	organization := app.Group("/organization")
	organization.Get("/info", site.OrganizationInfo)
	organization.Get("/founders", site.Founders)
	organization.Put("/info",
		middleware.Auth(cfg), middleware.AdminOnly,
		siteValidator.UpdateOrganization(), site.UpdateOrganizationInfo)

	app.Get("/testimonials/featured", site.FeaturedTestimonials)
	app.Get("/testimonials", site.Testimonials)
	app.Get("/sponsors", site.Sponsors)
}
