package models

import "time"

const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"

	PartnerStatusPending  = "pending"
	PartnerStatusActive   = "active"
	PartnerStatusRejected = "rejected"
)

// Partner adalah akun mitra penyedia jasa. Saldo (balance) dipakai untuk menutup komisi.
type Partner struct {
	ID                 uint64    `gorm:"primaryKey" json:"id"`
	OwnerName          string    `gorm:"size:100;not null" json:"owner_name"`
	BusinessName       string    `gorm:"size:150;not null" json:"business_name"`
	BusinessType       string    `gorm:"size:100" json:"business_type"`
	PhoneNumber        string    `gorm:"size:20" json:"phone_number"`
	Email              string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PasswordHash       string    `gorm:"not null" json:"-"`
	Address            string    `gorm:"type:text" json:"address"`
	City               string    `gorm:"size:100" json:"city"`
	Province           string    `gorm:"size:100" json:"province"`
	Balance            float64   `gorm:"default:0" json:"balance"`
	CommissionRate     float64   `gorm:"default:15" json:"commission_rate"` // Persen
	VerificationStatus string    `gorm:"size:20;index;default:'pending'" json:"verification_status"`
	Status             string    `gorm:"size:20;default:'pending'" json:"status"`
	FCMToken           string    `gorm:"size:255" json:"-"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Input registrasi mitra baru
type RegisterPartnerInput struct {
	OwnerName    string `json:"owner_name" binding:"required"`
	BusinessName string `json:"business_name" binding:"required"`
	BusinessType string `json:"business_type" binding:"required"`
	PhoneNumber  string `json:"phone_number" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Address      string `json:"address" binding:"required"`
	City         string `json:"city" binding:"required"`
	Province     string `json:"province" binding:"required"`
	Password     string `json:"password" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	FCMToken string `json:"fcm_token"`
}

// Struct inputan dari Mitra saat update profil
type UpdateProfileInput struct {
	OwnerName    string `json:"owner_name"`
	BusinessName string `json:"business_name"`
	BusinessType string `json:"business_type"`
	PhoneNumber  string `json:"phone_number"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Province     string `json:"province"`
}
