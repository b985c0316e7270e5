// Package testutil berisi helper untuk test: database SQLite in-memory dan data contoh.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"smartcare-backend/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewDB membuat database SQLite in-memory baru yang sudah dimigrasi, terpisah per test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreatePartner menyimpan mitra terverifikasi dengan saldo tertentu.
func CreatePartner(t testing.TB, db *gorm.DB, email string, balance float64) models.Partner {
	t.Helper()
	p := models.Partner{
		OwnerName:          "Budi Santoso",
		BusinessName:       "Klinik Sehat",
		BusinessType:       "Klinik",
		PhoneNumber:        "081234567890",
		Email:              email,
		PasswordHash:       "x",
		Balance:            balance,
		CommissionRate:     15,
		VerificationStatus: models.VerificationVerified,
		Status:             models.PartnerStatusActive,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("create partner: %v", err)
	}
	return p
}

var orderSeq atomic.Int64

// CreateOrder menyimpan pesanan pending dengan harga per jam tertentu.
func CreateOrder(t testing.TB, db *gorm.DB, price float64) models.Order {
	t.Helper()
	o := models.Order{
		OrderNumber:  fmt.Sprintf("SC-TEST-%d", orderSeq.Add(1)),
		ServiceName:  "SmartClean",
		PricePerHour: price,
		Status:       models.OrderStatusPending,
		CustomerName: "Siti",
		Address:      "Jl. Merdeka 1",
	}
	if err := db.Create(&o).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
	return o
}

var topupSeq atomic.Int64

// CreateTopup menyimpan permintaan top up pending dengan metode tertentu.
func CreateTopup(t testing.TB, db *gorm.DB, partnerID uint64, amount float64, method string) models.TopupRequest {
	t.Helper()
	req := models.TopupRequest{
		PartnerID:     partnerID,
		UserType:      "partner",
		Amount:        amount,
		PaymentMethod: method,
		PaymentRef:    fmt.Sprintf("TOPUP-TEST-%d", topupSeq.Add(1)),
		Status:        models.TopupStatusPending,
	}
	if err := db.Create(&req).Error; err != nil {
		t.Fatalf("create topup: %v", err)
	}
	return req
}

// Reload mengambil ulang baris dari database.
func Reload[T any](t testing.TB, db *gorm.DB, id uint64) T {
	t.Helper()
	var v T
	if err := db.WithContext(context.Background()).First(&v, id).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	return v
}

// RecordingPusher mencatat push yang dikirim, untuk assert di test.
type RecordingPusher struct {
	mu     sync.Mutex
	Titles []string
}

func (r *RecordingPusher) Push(_ context.Context, _ string, title, _ string, _ map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Titles = append(r.Titles, title)
	return nil
}

func (r *RecordingPusher) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Titles)
}

// RecordingAlerter mencatat alert admin.
type RecordingAlerter struct {
	mu    sync.Mutex
	Texts []string
}

func (r *RecordingAlerter) Alert(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Texts = append(r.Texts, text)
	return nil
}

func (r *RecordingAlerter) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Texts)
}
