package models

import "gorm.io/gorm"

// Contact message statuses
const (
	ContactUnread  = "unread"
	ContactRead    = "read"
	ContactReplied = "replied"
)

// ContactMessage is a public contact-form submission
type ContactMessage struct {
	gorm.Model
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message" gorm:"type:text"`
	Status  string `json:"status" gorm:"default:'unread'"` // unread, read, replied
}

// ValidContactStatus reports whether s is a known contact status
func ValidContactStatus(s string) bool {
	switch s {
	case ContactUnread, ContactRead, ContactReplied:
		return true
	}
	return false
}
