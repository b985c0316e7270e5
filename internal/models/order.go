package models

import "time"

const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
)

// MyJobStatuses adalah status yang tampil di tab "pekerjaan" mitra.
var MyJobStatuses = []string{OrderStatusConfirmed, OrderStatusInProgress, OrderStatusCompleted}

type Order struct {
	ID                uint64     `gorm:"primaryKey" json:"id"`
	OrderNumber       string     `gorm:"uniqueIndex;size:50" json:"order_number"`
	ServiceName       string     `gorm:"size:150;not null" json:"service_name"`
	PricePerHour      float64    `gorm:"not null" json:"price_per_hour"`
	TotalAmount       float64    `json:"total_amount"`
	CommissionAmount  float64    `json:"commission_amount"` // Diisi saat selesai, hanya catatan
	Status            string     `gorm:"size:20;index;not null" json:"status"`
	PartnerID         *uint64    `gorm:"index" json:"partner_id"` // Pointer karena bisa NULL
	CustomerName      string     `gorm:"size:100" json:"customer_name"`
	Address           string     `gorm:"type:text" json:"address"`
	Notes             string     `gorm:"type:text" json:"notes,omitempty"`
	ScheduledDate     string     `gorm:"size:20" json:"scheduled_date"`
	ScheduledTime     string     `gorm:"size:10" json:"scheduled_time"`
	EstimatedDuration int        `json:"estimated_duration"`           // Jam
	ActualDuration    int64      `json:"actual_duration,omitempty"`    // Detik, dari timer kerja
	StartedAt         *time.Time `json:"start_time,omitempty"`
	CompletedAt       *time.Time `json:"end_time,omitempty"`
	Rating            *int       `json:"rating,omitempty"`
	Review            string     `gorm:"type:text" json:"review,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Input admin untuk membuat order (pengganti alur customer)
type CreateOrderInput struct {
	ServiceName       string  `json:"service_name" binding:"required"`
	PricePerHour      float64 `json:"price_per_hour" binding:"required,gt=0"`
	TotalAmount       float64 `json:"total_amount"`
	CustomerName      string  `json:"customer_name" binding:"required"`
	Address           string  `json:"address" binding:"required"`
	Notes             string  `json:"notes"`
	ScheduledDate     string  `json:"scheduled_date" binding:"required"` // Format: 2025-11-20
	ScheduledTime     string  `json:"scheduled_time" binding:"required"` // Format: 08:00
	EstimatedDuration int     `json:"estimated_duration"`
	PartnerID         uint64  `json:"partner_id"` // Opsional: direct booking
}
