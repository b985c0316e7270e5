// Package notify mengirim notifikasi keluar: push FCM ke mitra dan alert Telegram ke admin.
package notify

import "context"

// Pusher mengirim push notification ke satu device.
type Pusher interface {
	Push(ctx context.Context, token, title, body string, data map[string]string) error
}

// AdminAlerter mengirim pesan singkat ke kanal admin.
type AdminAlerter interface {
	Alert(ctx context.Context, text string) error
}

// Nop dipakai kalau kredensial tidak dikonfigurasi.
type Nop struct{}

func (Nop) Push(context.Context, string, string, string, map[string]string) error { return nil }
func (Nop) Alert(context.Context, string) error                                   { return nil }
