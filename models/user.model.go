package models

import "gorm.io/gorm"

// User roles
const (
	RoleAdmin      = "admin"
	RoleInstructor = "instructor"
	RoleUser       = "user"

	// RoleStudent marks learner tokens. Students live in their own
	// table and never hold a back-office role.
	RoleStudent = "student"
)

// User represents a back-office account (admin side)
type User struct {
	gorm.Model
	FullName     string `json:"full_name"`
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-"`
	Role         string `json:"role" gorm:"default:'user'"` // admin, instructor, user
}

// ValidRole reports whether r is a known user role
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleInstructor, RoleUser:
		return true
	}
	return false
}
