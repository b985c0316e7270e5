// Package chat berisi live chat mitra-admin: riwayat pesan, pengiriman, dan
// penyebaran real-time lewat websocket per room.
package chat

import (
	"context"
	"errors"
	"strings"

	"smartcare-backend/internal/apperror"
	"smartcare-backend/internal/logger"
	"smartcare-backend/internal/models"
	"smartcare-backend/internal/notify"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	EventMessage = "chat_message"
	EventRead    = "chat_read"
)

var ErrEmptyMessage = apperror.New(apperror.ErrCodeValidation, "Pesan tidak boleh kosong")

type Service struct {
	db           *gorm.DB
	bus          Broadcaster
	pusher       notify.Pusher
	historyLimit int
}

func NewService(db *gorm.DB, bus Broadcaster, pusher notify.Pusher, historyLimit int) *Service {
	if historyLimit <= 0 {
		historyLimit = 50
	}
	if pusher == nil {
		pusher = notify.Nop{}
	}
	return &Service{db: db, bus: bus, pusher: pusher, historyLimit: historyLimit}
}

// History mengembalikan pesan terbaru di room, urut dari yang paling lama.
func (s *Service) History(ctx context.Context, room string) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	if err := s.db.WithContext(ctx).
		Where("room_id = ?", room).
		Order("created_at desc, id desc").
		Limit(s.historyLimit).
		Find(&msgs).Error; err != nil {
		return nil, apperror.Internal(err, "Gagal memuat riwayat chat")
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// Send menyimpan pesan lalu menyebarkannya ke room.
func (s *Service) Send(ctx context.Context, room string, senderID uint64, senderType, content string) (*models.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	msg := models.ChatMessage{
		RoomID:      room,
		SenderID:    senderID,
		SenderType:  senderType,
		Content:     content,
		MessageType: "text",
	}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, apperror.Internal(err, "Gagal mengirim pesan")
	}

	log := logger.Log.WithFields(logrus.Fields{"room": room, "message_id": msg.ID})
	if s.bus != nil {
		if err := s.bus.Publish(ctx, room, EventMessage, msg); err != nil {
			// Pesan tetap tersimpan di riwayat
			log.WithError(err).Warn("chat: gagal menyebarkan pesan")
		}
	}

	if senderType == models.SenderAdmin {
		s.notifyPartner(ctx, room, content, log)
	}
	return &msg, nil
}

func (s *Service) notifyPartner(ctx context.Context, room, content string, log *logrus.Entry) {
	partnerID, ok := PartnerFromRoom(room)
	if !ok {
		return
	}
	var partner models.Partner
	if err := s.db.WithContext(ctx).Select("id", "fcm_token").First(&partner, partnerID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.WithError(err).Warn("chat: gagal memuat mitra untuk notifikasi")
		}
		return
	}
	preview := content
	if r := []rune(preview); len(r) > 80 {
		preview = string(r[:80]) + "..."
	}
	if err := s.pusher.Push(ctx, partner.FCMToken, "Pesan baru dari Admin", preview, map[string]string{
		"type":    "chat_message",
		"room_id": room,
	}); err != nil {
		log.WithError(err).Warn("chat: gagal kirim push")
	}
}

// MarkRead menandai pesan dari pihak lain di room sebagai sudah dibaca.
func (s *Service) MarkRead(ctx context.Context, room, readerType string) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.ChatMessage{}).
		Where("room_id = ? AND sender_type <> ? AND is_read = ?", room, readerType, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, apperror.Internal(res.Error, "Gagal menandai pesan")
	}
	if res.RowsAffected > 0 && s.bus != nil {
		if err := s.bus.Publish(ctx, room, EventRead, map[string]string{"reader": readerType}); err != nil {
			logger.Log.WithError(err).WithField("room", room).Warn("chat: gagal menyebarkan status baca")
		}
	}
	return res.RowsAffected, nil
}

// Unread menghitung pesan dari pihak lain yang belum dibaca.
func (s *Service) Unread(ctx context.Context, room, readerType string) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).
		Model(&models.ChatMessage{}).
		Where("room_id = ? AND sender_type <> ? AND is_read = ?", room, readerType, false).
		Count(&n).Error; err != nil {
		return 0, apperror.Internal(err, "Gagal menghitung pesan")
	}
	return n, nil
}
