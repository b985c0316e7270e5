package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"smartcare-backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

// Broadcaster menyebarkan event chat ke klien yang berlangganan room.
type Broadcaster interface {
	Publish(ctx context.Context, room, eventType string, data interface{}) error
}

const channelPrefix = "chat:room:"

// RedisRelay menyebarkan event lewat Redis pub/sub supaya semua instance API
// menerima pesan yang sama, lalu meneruskannya ke hub lokal.
type RedisRelay struct {
	client *redis.Client
	hub    *Hub
}

func NewRedisRelay(client *redis.Client, hub *Hub) *RedisRelay {
	return &RedisRelay{client: client, hub: hub}
}

func (r *RedisRelay) Publish(ctx context.Context, room, eventType string, data interface{}) error {
	raw, err := json.Marshal(Event{Type: eventType, Room: room, Data: data})
	if err != nil {
		return fmt.Errorf("chat: gagal serialisasi event: %w", err)
	}
	if err := r.client.Publish(ctx, channelPrefix+room, raw).Err(); err != nil {
		return fmt.Errorf("chat: publish redis: %w", err)
	}
	return nil
}

// Run berlangganan semua room dan meneruskan ke hub sampai ctx selesai.
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.client.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("chat: subscribe redis: %w", err)
	}
	logger.Log.Info("chat: relay redis aktif")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			room := strings.TrimPrefix(msg.Channel, channelPrefix)
			r.hub.Deliver(room, []byte(msg.Payload))
		}
	}
}
