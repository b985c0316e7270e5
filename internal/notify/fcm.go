package notify

import (
	"context"
	"fmt"

	"smartcare-backend/internal/logger"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"google.golang.org/api/option"
)

// FCM mengirim push lewat Firebase Cloud Messaging.
type FCM struct {
	client *messaging.Client
}

// NewFCM membuat client dari file service account.
func NewFCM(ctx context.Context, credentialsFile string) (*FCM, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("gagal inisialisasi firebase: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("gagal membuat messaging client: %w", err)
	}

	return &FCM{client: client}, nil
}

// Push mengirim pesan ke satu device. Token kosong dilewati.
func (f *FCM) Push(ctx context.Context, token, title, body string, data map[string]string) error {
	if token == "" {
		return nil
	}

	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := f.client.Send(ctx, message); err != nil {
		logger.Log.WithError(err).Warn("fcm: gagal kirim notifikasi")
		return err
	}
	return nil
}
