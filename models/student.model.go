package models

import "gorm.io/gorm"

// Student is a learner account, a separate identity space from User
type Student struct {
	gorm.Model
	Name         string `json:"name"`
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-"`
	Phone        string `json:"phone"`
}
