package models

import "gorm.io/gorm"

// Payment statuses, shared by donations and enrollments
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// Donation is a public donation record
type Donation struct {
	gorm.Model
	DonorName     string  `json:"donor_name"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	Amount        float64 `json:"amount"`
	Message       string  `json:"message"`
	PaymentStatus string  `json:"payment_status" gorm:"default:'pending'"` // pending, completed, failed, refunded
}

// ValidPaymentStatus reports whether s is a known payment status
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}
