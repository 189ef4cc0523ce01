package authController

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"lms/config"
	authValidator "lms/validators/auth"

	"lms/middleware"
	"lms/models"
)

// Controller serves staff authentication for the back office.
type Controller struct {
	db  *gorm.DB
	cfg *config.Config
}

func New(db *gorm.DB, cfg *config.Config) *Controller {
	return &Controller{db: db, cfg: cfg}
}

func (ctrl *Controller) Register(c *fiber.Ctx) error {
	reqData := c.Locals("validatedRegister").(*authValidator.RegisterRequest)

	hash, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), ctrl.cfg.SaltRound)
	if err != nil {
		log.Println("Failed to hash password:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register user", nil)
	}

	user := models.User{
		FullName:     reqData.Name,
		Email:        reqData.Email,
		PasswordHash: string(hash),
		Role:         reqData.Role,
	}

	if err := ctrl.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email already registered", nil)
		}
		log.Println("Failed to create user:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register user", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully", fiber.Map{
		"id":    user.ID,
		"name":  user.FullName,
		"email": user.Email,
		"role":  user.Role,
	})
}

func (ctrl *Controller) Login(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLogin").(*authValidator.LoginRequest)

	var user models.User
	if err := ctrl.db.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password", nil)
		}
		log.Println("Failed to look up user:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Login failed", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password", nil)
	}

	token, err := middleware.GenerateToken(ctrl.cfg, user.ID, user.Email, user.Role)
	if err != nil {
		log.Println("Failed to sign token:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Login failed", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful", fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.FullName,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}
