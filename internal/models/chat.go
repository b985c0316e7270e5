package models

import "time"

const (
	SenderPartner = "partner"
	SenderAdmin   = "admin"
	SenderSystem  = "system"
)

type ChatMessage struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	RoomID      string    `gorm:"size:100;index;not null" json:"room_id"`
	SenderID    uint64    `json:"sender_id"`
	SenderType  string    `gorm:"size:20" json:"sender_type"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	MessageType string    `gorm:"size:20;default:'text'" json:"message_type"`
	IsRead      bool      `gorm:"default:false" json:"is_read"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

type SendMessageInput struct {
	Content string `json:"content" binding:"required"`
	RoomID  string `json:"room_id"` // Wajib untuk admin, diabaikan untuk mitra
}
