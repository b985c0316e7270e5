package models

import "time"

const (
	TopupStatusPending  = "pending"
	TopupStatusApproved = "approved"
	TopupStatusRejected = "rejected"

	PaymentTransfer = "transfer"
	PaymentMidtrans = "midtrans"
)

type TopupRequest struct {
	ID            uint64     `gorm:"primaryKey" json:"id"`
	PartnerID     uint64     `gorm:"column:user_id;index;not null" json:"user_id"`
	UserType      string     `gorm:"size:20;default:'partner'" json:"user_type"`
	Amount        float64    `gorm:"not null" json:"amount"`
	PaymentMethod string     `gorm:"size:20" json:"payment_method"`
	PaymentRef    string     `gorm:"uniqueIndex;size:64" json:"payment_ref"`
	PartnerName   string     `gorm:"column:nama_mitra;size:100" json:"nama_mitra"`
	WhatsApp      string     `gorm:"column:no_wa;size:20" json:"no_wa"`
	Status        string     `gorm:"size:20;index" json:"status"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type CreateTopupInput struct {
	Amount        float64 `json:"amount" binding:"required"`
	PaymentMethod string  `json:"payment_method" binding:"omitempty,oneof=transfer midtrans"`
}
