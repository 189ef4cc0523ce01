package models

import (
	"time"

	"gorm.io/gorm"
)

// Blog post statuses
const (
	BlogDraft     = "draft"
	BlogPublished = "published"
)

// BlogPost represents a marketing blog article
type BlogPost struct {
	gorm.Model
	Title         string     `json:"title"`
	Slug          string     `json:"slug" gorm:"uniqueIndex;not null"`
	Content       string     `json:"content" gorm:"type:text"`
	Excerpt       string     `json:"excerpt"`
	FeaturedImage string     `json:"featured_image"`
	AuthorID      uint       `json:"author_id" gorm:"index"`
	Status        string     `json:"status" gorm:"default:'draft'"` // draft, published
	PublishedAt   *time.Time `json:"published_at"`
}

// ValidBlogStatus reports whether s is a known blog status
func ValidBlogStatus(s string) bool {
	return s == BlogDraft || s == BlogPublished
}
