package models

import "time"

const (
	TransactionCommission = "COMMISSION"
	TransactionTopup      = "TOPUP"
)

// WalletTransaction mencatat setiap perubahan saldo mitra.
type WalletTransaction struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	PartnerID    uint64    `gorm:"index;not null" json:"partner_id"`
	OrderID      *uint64   `json:"order_id,omitempty"` // Terisi kalau potongan komisi
	TopupID      *uint64   `json:"topup_id,omitempty"` // Terisi kalau top up
	Amount       float64   `json:"amount"`             // Negatif = potongan
	Type         string    `gorm:"size:20" json:"type"`
	BalanceAfter float64   `json:"balance_after"`
	CreatedAt    time.Time `json:"created_at"`
}
