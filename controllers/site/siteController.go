package siteController

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lms/config"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	siteValidator "lms/validators/site"
)

// Controller serves the public marketing surface and its back-office
// counterparts: contact, donations, programs, organization profile,
// testimonials and sponsors.
type Controller struct {
	db     *gorm.DB
	cfg    *config.Config
	mailer utils.Mailer
}

func New(db *gorm.DB, cfg *config.Config, mailer utils.Mailer) *Controller {
	return &Controller{db: db, cfg: cfg, mailer: mailer}
}

// SubmitContact stores a contact-form message and mails both sides
func (ctrl *Controller) SubmitContact(c *fiber.Ctx) error {
	reqData := c.Locals("validatedContact").(*siteValidator.ContactRequest)

	message := models.ContactMessage{
		Name:    reqData.Name,
		Email:   reqData.Email,
		Phone:   reqData.Phone,
		Subject: reqData.Subject,
		Message: reqData.Message,
		Status:  models.ContactUnread,
	}

	if err := ctrl.db.Create(&message).Error; err != nil {
		log.Println("Failed to save contact message:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to send message", nil)
	}

	utils.SendContactNotification(ctrl.mailer, ctrl.cfg.SMTPToEmail, message.Name, message.Email, message.Subject, message.Message)
	utils.SendContactConfirmation(ctrl.mailer, message.Email, message.Name)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Message sent successfully", fiber.Map{
		"id": message.ID,
	})
}

// ListContacts returns contact messages, newest first. Admin only.
func (ctrl *Controller) ListContacts(c *fiber.Ctx) error {
	query := ctrl.db.Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		if !models.ValidContactStatus(status) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid status", nil)
		}
		query = query.Where("status = ?", status)
	}

	var messages []models.ContactMessage
	if err := query.Find(&messages).Error; err != nil {
		log.Println("Failed to list contact messages:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load messages", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Messages retrieved", messages)
}

func (ctrl *Controller) UpdateContactStatus(c *fiber.Ctx) error {
	messageID := c.Locals("messageId").(uint)
	reqData := c.Locals("validatedStatus").(*siteValidator.StatusRequest)

	var message models.ContactMessage
	if err := ctrl.db.First(&message, messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Message not found", nil)
		}
		log.Println("Failed to load contact message:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update message", nil)
	}

	if err := ctrl.db.Model(&message).Update("status", reqData.Status).Error; err != nil {
		log.Println("Failed to update contact message:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update message", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Message updated", message)
}

func (ctrl *Controller) DeleteContact(c *fiber.Ctx) error {
	messageID := c.Locals("messageId").(uint)

	result := ctrl.db.Delete(&models.ContactMessage{}, messageID)
	if result.Error != nil {
		log.Println("Failed to delete contact message:", result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete message", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Message not found", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Message deleted", nil)
}

// CreateDonation records a public donation pledge
func (ctrl *Controller) CreateDonation(c *fiber.Ctx) error {
	reqData := c.Locals("validatedDonation").(*siteValidator.DonationRequest)

	donation := models.Donation{
		DonorName:     reqData.DonorName,
		Email:         reqData.Email,
		Phone:         reqData.Phone,
		Amount:        reqData.Amount,
		Message:       reqData.Message,
		PaymentStatus: models.PaymentPending,
	}

	if err := ctrl.db.Create(&donation).Error; err != nil {
		log.Println("Failed to save donation:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record donation", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Donation recorded", donation)
}

// ListDonations returns donations, newest first. Admin only.
func (ctrl *Controller) ListDonations(c *fiber.Ctx) error {
	var donations []models.Donation
	if err := ctrl.db.Order("created_at DESC").Find(&donations).Error; err != nil {
		log.Println("Failed to list donations:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load donations", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Donations retrieved", donations)
}

// DonationStats summarizes donation totals for the dashboard
func (ctrl *Controller) DonationStats(c *fiber.Ctx) error {
	type sums struct {
		Count int64   `json:"count"`
		Total float64 `json:"total"`
	}

	sumWhere := func(status string) (sums, error) {
		var s sums
		query := ctrl.db.Model(&models.Donation{})
		if status != "" {
			query = query.Where("payment_status = ?", status)
		}
		err := query.Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").Scan(&s).Error
		return s, err
	}

	total, err := sumWhere("")
	if err != nil {
		log.Println("Failed to compute donation stats:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load stats", nil)
	}
	completed, err := sumWhere(models.PaymentCompleted)
	if err != nil {
		log.Println("Failed to compute donation stats:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load stats", nil)
	}
	pending, err := sumWhere(models.PaymentPending)
	if err != nil {
		log.Println("Failed to compute donation stats:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load stats", nil)
	}

	var recent []models.Donation
	if err := ctrl.db.Order("created_at DESC").Limit(5).Find(&recent).Error; err != nil {
		log.Println("Failed to list recent donations:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load stats", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Stats retrieved", fiber.Map{
		"total":     total,
		"completed": completed,
		"pending":   pending,
		"recent":    recent,
	})
}

func (ctrl *Controller) UpdateDonationStatus(c *fiber.Ctx) error {
	donationID := c.Locals("donationId").(uint)
	reqData := c.Locals("validatedStatus").(*siteValidator.StatusRequest)

	var donation models.Donation
	if err := ctrl.db.First(&donation, donationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Donation not found", nil)
		}
		log.Println("Failed to load donation:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update donation", nil)
	}

	if err := ctrl.db.Model(&donation).Update("payment_status", reqData.PaymentStatus).Error; err != nil {
		log.Println("Failed to update donation:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update donation", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Donation updated", donation)
}

// ListPrograms returns all programs for the marketing site
func (ctrl *Controller) ListPrograms(c *fiber.Ctx) error {
	var programs []models.Program
	if err := ctrl.db.Order("created_at DESC").Find(&programs).Error; err != nil {
		log.Println("Failed to list programs:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load programs", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Programs retrieved", programs)
}

func (ctrl *Controller) GetProgram(c *fiber.Ctx) error {
	programID := c.Locals("programId").(uint)

	var program models.Program
	if err := ctrl.db.First(&program, programID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Program not found", nil)
		}
		log.Println("Failed to load program:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load program", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Program retrieved", program)
}

func (ctrl *Controller) CreateProgram(c *fiber.Ctx) error {
	reqData := c.Locals("validatedProgram").(*siteValidator.CreateProgramRequest)

	program := models.Program{
		Title:       reqData.Title,
		Description: reqData.Description,
		Category:    reqData.Category,
		ImageURL:    reqData.ImageURL,
	}
	if err := ctrl.db.Create(&program).Error; err != nil {
		log.Println("Failed to create program:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create program", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Program created", program)
}

func (ctrl *Controller) UpdateProgram(c *fiber.Ctx) error {
	programID := c.Locals("programId").(uint)
	reqData := c.Locals("validatedProgramUpdate").(*siteValidator.UpdateProgramRequest)

	var program models.Program
	if err := ctrl.db.First(&program, programID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Program not found", nil)
		}
		log.Println("Failed to load program:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update program", nil)
	}

	updates := make(map[string]interface{})
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.Category != nil {
		updates["category"] = *reqData.Category
	}
	if reqData.ImageURL != nil {
		updates["image_url"] = *reqData.ImageURL
	}

	if err := ctrl.db.Model(&program).Updates(updates).Error; err != nil {
		log.Println("Failed to update program:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update program", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Program updated", program)
}

func (ctrl *Controller) DeleteProgram(c *fiber.Ctx) error {
	programID := c.Locals("programId").(uint)

	result := ctrl.db.Delete(&models.Program{}, programID)
	if result.Error != nil {
		log.Println("Failed to delete program:", result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete program", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Program not found", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Program deleted", nil)
}

// OrganizationInfo returns the single organization profile row
func (ctrl *Controller) OrganizationInfo(c *fiber.Ctx) error {
	var info models.OrganizationInfo
	if err := ctrl.db.First(&info).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Organization info not found", nil)
		}
		log.Println("Failed to load organization info:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load organization info", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Organization info retrieved", info)
}

// UpdateOrganizationInfo edits the profile row, creating it on first use
func (ctrl *Controller) UpdateOrganizationInfo(c *fiber.Ctx) error {
	reqData := c.Locals("validatedOrganization").(*siteValidator.UpdateOrganizationRequest)

	var info models.OrganizationInfo
	if err := ctrl.db.First(&info).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Println("Failed to load organization info:", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update organization info", nil)
		}
		if err := ctrl.db.Create(&info).Error; err != nil {
			log.Println("Failed to create organization info:", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update organization info", nil)
		}
	}

	updates := make(map[string]interface{})
	if reqData.Name != nil {
		updates["name"] = *reqData.Name
	}
	if reqData.Mission != nil {
		updates["mission"] = *reqData.Mission
	}
	if reqData.Email != nil {
		updates["email"] = *reqData.Email
	}
	if reqData.Phone != nil {
		updates["phone"] = *reqData.Phone
	}
	if reqData.Address != nil {
		updates["address"] = *reqData.Address
	}
	if reqData.FacebookURL != nil {
		updates["facebook_url"] = *reqData.FacebookURL
	}
	if reqData.TwitterURL != nil {
		updates["twitter_url"] = *reqData.TwitterURL
	}

	if err := ctrl.db.Model(&info).Updates(updates).Error; err != nil {
		log.Println("Failed to update organization info:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update organization info", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Organization info updated", info)
}

// Founders returns the team list in display order
func (ctrl *Controller) Founders(c *fiber.Ctx) error {
	var founders []models.Founder
	if err := ctrl.db.Order("order_position ASC").Find(&founders).Error; err != nil {
		log.Println("Failed to list founders:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load founders", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Founders retrieved", founders)
}

// Testimonials returns public testimonials. ?featured=true limits the
// list to six featured entries for the home page.
func (ctrl *Controller) Testimonials(c *fiber.Ctx) error {
	return ctrl.listTestimonials(c, c.Query("featured") == "true")
}

// FeaturedTestimonials returns the six featured entries for the home page.
func (ctrl *Controller) FeaturedTestimonials(c *fiber.Ctx) error {
	return ctrl.listTestimonials(c, true)
}

func (ctrl *Controller) listTestimonials(c *fiber.Ctx, featuredOnly bool) error {
	query := ctrl.db.Order("created_at DESC")
	if featuredOnly {
		query = query.Where("is_featured = ?", true).Limit(6)
	}

	var testimonials []models.Testimonial
	if err := query.Find(&testimonials).Error; err != nil {
		log.Println("Failed to list testimonials:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load testimonials", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Testimonials retrieved", testimonials)
}

// Sponsors returns sponsors ordered by tier, then name
func (ctrl *Controller) Sponsors(c *fiber.Ctx) error {
	var sponsors []models.Sponsor
	if err := ctrl.db.Order("tier ASC, name ASC").Find(&sponsors).Error; err != nil {
		log.Println("Failed to list sponsors:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load sponsors", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Sponsors retrieved", sponsors)
}
