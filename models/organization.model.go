package models

import "gorm.io/gorm"

// Program is a nonprofit program shown on the marketing site
type Program struct {
	gorm.Model
	Title       string `json:"title"`
	Description string `json:"description" gorm:"type:text"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
}

// Sponsor is a supporting organization, listed by tier
type Sponsor struct {
	gorm.Model
	Name       string `json:"name"`
	LogoURL    string `json:"logo_url"`
	WebsiteURL string `json:"website_url"`
	Tier       int    `json:"tier" gorm:"default:3"`
}

// Testimonial is a public quote from a student or partner
type Testimonial struct {
	gorm.Model
	AuthorName string `json:"author_name"`
	AuthorRole string `json:"author_role"`
	Content    string `json:"content" gorm:"type:text"`
	PhotoURL   string `json:"photo_url"`
	IsFeatured bool   `json:"is_featured" gorm:"default:false"`
}

// OrganizationInfo is the single-row organization profile
type OrganizationInfo struct {
	gorm.Model
	Name        string `json:"name"`
	Mission     string `json:"mission" gorm:"type:text"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	FacebookURL string `json:"facebook_url"`
	TwitterURL  string `json:"twitter_url"`
}

// Founder is a team member shown on the organization page
type Founder struct {
	gorm.Model
	Name          string `json:"name"`
	Title         string `json:"title"`
	Bio           string `json:"bio" gorm:"type:text"`
	PhotoURL      string `json:"photo_url"`
	OrderPosition int    `json:"order_position" gorm:"default:0"`
}
