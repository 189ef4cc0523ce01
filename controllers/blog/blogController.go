package blogController

import (
	"errors"
	"log"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lms/middleware"
	"lms/models"
	siteValidator "lms/validators/site"
)

type Controller struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Controller {
	return &Controller{db: db}
}

// ListPublished returns published posts for the public site, newest
// first, paginated.
func (ctrl *Controller) ListPublished(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var total int64
	if err := ctrl.db.Model(&models.BlogPost{}).
		Where("status = ?", models.BlogPublished).
		Count(&total).Error; err != nil {
		log.Println("Failed to count posts:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load posts", nil)
	}

	var posts []models.BlogPost
	err := ctrl.db.Where("status = ?", models.BlogPublished).
		Order("published_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		log.Println("Failed to list posts:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load posts", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Posts retrieved", fiber.Map{
		"posts": posts,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

// GetBySlug returns one published post for the public site
func (ctrl *Controller) GetBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")

	var post models.BlogPost
	err := ctrl.db.Where("slug = ? AND status = ?", slug, models.BlogPublished).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Post not found", nil)
		}
		log.Println("Failed to load post:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load post", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Post retrieved", post)
}

// ListAll returns every post regardless of status. Admin only.
func (ctrl *Controller) ListAll(c *fiber.Ctx) error {
	var posts []models.BlogPost
	if err := ctrl.db.Order("created_at DESC").Find(&posts).Error; err != nil {
		log.Println("Failed to list posts:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load posts", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Posts retrieved", posts)
}

func (ctrl *Controller) Create(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	reqData := c.Locals("validatedPost").(*siteValidator.CreatePostRequest)

	post := models.BlogPost{
		Title:         reqData.Title,
		Slug:          reqData.Slug,
		Content:       reqData.Content,
		Excerpt:       reqData.Excerpt,
		FeaturedImage: reqData.FeaturedImage,
		AuthorID:      user.ID,
		Status:        reqData.Status,
	}
	if post.Status == models.BlogPublished {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := ctrl.db.Create(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Slug already exists", nil)
		}
		log.Println("Failed to create post:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create post", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Post created", post)
}

// Update edits a post. The publish timestamp is stamped on the first
// transition to published and never rewritten.
func (ctrl *Controller) Update(c *fiber.Ctx) error {
	postID := c.Locals("postId").(uint)
	reqData := c.Locals("validatedPostUpdate").(*siteValidator.UpdatePostRequest)

	var post models.BlogPost
	if err := ctrl.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Post not found", nil)
		}
		log.Println("Failed to load post:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update post", nil)
	}

	updates := make(map[string]interface{})
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Slug != nil {
		updates["slug"] = *reqData.Slug
	}
	if reqData.Content != nil {
		updates["content"] = *reqData.Content
	}
	if reqData.Excerpt != nil {
		updates["excerpt"] = *reqData.Excerpt
	}
	if reqData.FeaturedImage != nil {
		updates["featured_image"] = *reqData.FeaturedImage
	}
	if reqData.Status != nil {
		updates["status"] = *reqData.Status
		if *reqData.Status == models.BlogPublished && post.PublishedAt == nil {
			now := time.Now()
			updates["published_at"] = &now
		}
	}

	if err := ctrl.db.Model(&post).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Slug already exists", nil)
		}
		log.Println("Failed to update post:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update post", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Post updated", post)
}

func (ctrl *Controller) Delete(c *fiber.Ctx) error {
	postID := c.Locals("postId").(uint)

	result := ctrl.db.Delete(&models.BlogPost{}, postID)
	if result.Error != nil {
		log.Println("Failed to delete post:", result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete post", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Post not found", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Post deleted", nil)
}
