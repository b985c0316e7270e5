package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smartcare-backend/internal/apperror"
	"smartcare-backend/internal/commission"
	"smartcare-backend/internal/invoice"
	"smartcare-backend/internal/models"
	"smartcare-backend/internal/worktimer"
	"smartcare-backend/pkg/utils"

	"gorm.io/gorm"
)

// OrderService menangani feed pesanan dan siklus terima -> mulai -> selesai.
type OrderService struct {
	db          *gorm.DB
	clock       *worktimer.Clock
	defaultRate float64
	feedLimit   int
	now         func() time.Time
}

func NewOrderService(db *gorm.DB, clock *worktimer.Clock, defaultRate float64, feedLimit int) *OrderService {
	if feedLimit <= 0 {
		feedLimit = 100
	}
	return &OrderService{
		db:          db,
		clock:       clock,
		defaultRate: defaultRate,
		feedLimit:   feedLimit,
		now:         time.Now,
	}
}

// IncomingOrder adalah pesanan masuk beserta hitungan komisi untuk mitra yang melihat.
type IncomingOrder struct {
	models.Order
	commission.Quote
}

// Job adalah pesanan milik mitra di tab "pekerjaan".
type Job struct {
	models.Order
	Commission       float64             `json:"commission"`
	Timer            *worktimer.Snapshot `json:"timer,omitempty"`
	InvoiceAvailable bool                `json:"invoice_available"`
}

type Feeds struct {
	Incoming []IncomingOrder `json:"incoming"`
	MyJobs   []Job           `json:"my_jobs"`
}

// FinishResult dikembalikan setelah pekerjaan diselesaikan.
type FinishResult struct {
	Order            models.Order        `json:"order"`
	Commission       float64             `json:"commission"`
	BalanceBefore    float64             `json:"balance_before"`
	BalanceAfter     float64             `json:"balance_after"`
	Timer            *worktimer.Snapshot `json:"timer,omitempty"`
	Invoice          string              `json:"invoice"`
	InvoiceFilename  string              `json:"invoice_filename"`
	AlreadyCompleted bool                `json:"already_completed"`
}

func (s *OrderService) rate(p *models.Partner) float64 {
	return commission.Rate(p.CommissionRate, s.defaultRate)
}

func (s *OrderService) loadPartner(db *gorm.DB, partnerID uint64) (*models.Partner, error) {
	var p models.Partner
	if err := db.First(&p, partnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, apperror.Internal(err, "Gagal memuat data mitra")
	}
	return &p, nil
}

func (s *OrderService) loadOrder(db *gorm.DB, orderID uint64) (*models.Order, error) {
	var o models.Order
	if err := db.First(&o, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, apperror.Internal(err, "Gagal memuat pesanan")
	}
	return &o, nil
}

// Incoming: pesanan pending yang belum diambil (atau direct booking untuk mitra ini), terbaru dulu.
func (s *OrderService) Incoming(ctx context.Context, partnerID uint64) ([]IncomingOrder, error) {
	db := s.db.WithContext(ctx)
	partner, err := s.loadPartner(db, partnerID)
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	err = db.
		Where("status = ? AND (partner_id IS NULL OR partner_id = ?)", models.OrderStatusPending, partnerID).
		Order("created_at desc, id desc").
		Limit(s.feedLimit).
		Find(&orders).Error
	if err != nil {
		return nil, apperror.Internal(err, "Gagal memuat data pesanan")
	}

	rate := s.rate(partner)
	out := make([]IncomingOrder, 0, len(orders))
	for _, o := range orders {
		out = append(out, IncomingOrder{Order: o, Quote: commission.For(o.PricePerHour, partner.Balance, rate)})
	}
	return out, nil
}

// MyJobs: pesanan milik mitra yang sudah dikonfirmasi, sedang dikerjakan, atau selesai.
func (s *OrderService) MyJobs(ctx context.Context, partnerID uint64) ([]Job, error) {
	db := s.db.WithContext(ctx)
	partner, err := s.loadPartner(db, partnerID)
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	err = db.
		Where("partner_id = ? AND status IN ?", partnerID, models.MyJobStatuses).
		Order("created_at desc, id desc").
		Find(&orders).Error
	if err != nil {
		return nil, apperror.Internal(err, "Gagal memuat pekerjaan saya")
	}

	rate := s.rate(partner)
	out := make([]Job, 0, len(orders))
	for _, o := range orders {
		job := Job{
			Order:            o,
			Commission:       commission.Amount(o.PricePerHour, rate),
			InvoiceAvailable: o.Status == models.OrderStatusCompleted,
		}
		if o.Status == models.OrderStatusInProgress {
			job.Timer = s.timerFor(&o)
		}
		out = append(out, job)
	}
	return out, nil
}

// timerFor mengambil timer order; kalau hilang (server restart) dipulihkan dari started_at.
func (s *OrderService) timerFor(o *models.Order) *worktimer.Snapshot {
	if snap, ok := s.clock.Get(o.ID); ok {
		return &snap
	}
	if o.StartedAt == nil {
		return nil
	}
	s.clock.Resume(o.ID, int64(s.now().Sub(*o.StartedAt)/time.Second))
	snap, _ := s.clock.Get(o.ID)
	return &snap
}

// Feeds memuat ulang kedua daftar. Dipanggil setelah setiap aksi.
func (s *OrderService) Feeds(ctx context.Context, partnerID uint64) (*Feeds, error) {
	incoming, err := s.Incoming(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	jobs, err := s.MyJobs(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	return &Feeds{Incoming: incoming, MyJobs: jobs}, nil
}

// Accept mengklaim pesanan pending. Saldo harus >= komisi, tapi belum dipotong di sini.
func (s *OrderService) Accept(ctx context.Context, partnerID, orderID uint64) (*models.Order, error) {
	db := s.db.WithContext(ctx)

	order, err := s.loadOrder(db, orderID)
	if err != nil {
		return nil, err
	}
	partner, err := s.loadPartner(db, partnerID)
	if err != nil {
		return nil, err
	}

	if partner.Status != models.PartnerStatusActive {
		return nil, ErrPartnerInactive
	}
	if order.Status != models.OrderStatusPending {
		return nil, ErrOrderTaken
	}
	if order.PartnerID != nil && *order.PartnerID != partnerID {
		return nil, ErrOrderForOther
	}

	quote := commission.For(order.PricePerHour, partner.Balance, s.rate(partner))
	if !quote.CanAccept {
		msg := fmt.Sprintf("Saldo tidak mencukupi. Komisi %g%% pesanan ini %s, saldo Anda kurang %s. Silakan top up terlebih dahulu.",
			quote.Rate, utils.FormatRupiah(quote.Commission), utils.FormatRupiah(quote.Shortfall))
		return nil, apperror.New(apperror.ErrCodeValidation, msg).WithData(map[string]float64{
			"required":  quote.Commission,
			"balance":   partner.Balance,
			"shortfall": quote.Shortfall,
		})
	}

	// Klaim hanya kalah kalau baris sudah berubah sejak dibaca.
	res := db.Model(&models.Order{}).
		Where("id = ? AND status = ? AND (partner_id IS NULL OR partner_id = ?)", orderID, models.OrderStatusPending, partnerID).
		Updates(map[string]interface{}{
			"partner_id": partnerID,
			"status":     models.OrderStatusConfirmed,
		})
	if res.Error != nil {
		return nil, apperror.Internal(res.Error, "Gagal menerima pesanan")
	}
	if res.RowsAffected == 0 {
		return nil, ErrOrderTaken
	}

	return s.loadOrder(db, orderID)
}

// Start memindahkan confirmed -> in_progress lalu menyalakan timer dari 00:00:00.
func (s *OrderService) Start(ctx context.Context, partnerID, orderID uint64) (*worktimer.Snapshot, error) {
	db := s.db.WithContext(ctx)
	now := s.now()

	partner, err := s.loadPartner(db, partnerID)
	if err != nil {
		return nil, err
	}
	if partner.Status != models.PartnerStatusActive {
		return nil, ErrPartnerInactive
	}

	res := db.Model(&models.Order{}).
		Where("id = ? AND partner_id = ? AND status = ?", orderID, partnerID, models.OrderStatusConfirmed).
		Updates(map[string]interface{}{
			"status":     models.OrderStatusInProgress,
			"started_at": now,
		})
	if res.Error != nil {
		return nil, apperror.Internal(res.Error, "Gagal memulai pekerjaan")
	}

	if res.RowsAffected == 0 {
		order, err := s.loadOrder(db, orderID)
		if err != nil {
			return nil, err
		}
		if order.PartnerID == nil || *order.PartnerID != partnerID {
			return nil, ErrOrderNotFound
		}
		// Start ulang untuk pekerjaan yang sudah berjalan tidak mereset timer.
		if order.Status == models.OrderStatusInProgress {
			return s.timerFor(order), nil
		}
		return nil, ErrNotConfirmed
	}

	s.clock.Start(orderID)
	snap, _ := s.clock.Get(orderID)
	return &snap, nil
}

// Finish menyelesaikan pekerjaan dan memotong komisi dalam satu transaksi.
// Pemanggilan ulang untuk order yang sudah selesai tidak memotong saldo lagi.
func (s *OrderService) Finish(ctx context.Context, partnerID, orderID uint64) (*FinishResult, error) {
	return s.finish(ctx, partnerID, orderID, 0)
}

var errFinishRaced = errors.New("finish: order changed during update")

func (s *OrderService) finish(ctx context.Context, partnerID, orderID uint64, attempt int) (*FinishResult, error) {
	var (
		result  FinishResult
		partner *models.Partner
		order   *models.Order
	)
	now := s.now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if partner, err = s.loadPartner(tx, partnerID); err != nil {
			return err
		}
		if order, err = s.loadOrder(tx, orderID); err != nil {
			return err
		}
		if order.PartnerID == nil || *order.PartnerID != partnerID {
			return ErrOrderNotFound
		}

		result.BalanceBefore = partner.Balance
		switch order.Status {
		case models.OrderStatusCompleted:
			result.AlreadyCompleted = true
			result.Commission = order.CommissionAmount
			result.BalanceAfter = partner.Balance
			return nil
		case models.OrderStatusInProgress:
		default:
			return ErrNotStarted
		}

		amount := commission.Amount(order.PricePerHour, s.rate(partner))
		elapsed := s.elapsedFor(order, now)

		res := tx.Model(&models.Order{}).
			Where("id = ? AND partner_id = ? AND status = ?", orderID, partnerID, models.OrderStatusInProgress).
			Updates(map[string]interface{}{
				"status":            models.OrderStatusCompleted,
				"completed_at":      now,
				"commission_amount": amount,
				"actual_duration":   elapsed,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errFinishRaced
		}

		if err := tx.Model(&models.Partner{}).
			Where("id = ?", partnerID).
			Update("balance", gorm.Expr("balance - ?", amount)).Error; err != nil {
			return err
		}

		if partner, err = s.loadPartner(tx, partnerID); err != nil {
			return err
		}
		entry := models.WalletTransaction{
			PartnerID:    partnerID,
			OrderID:      &orderID,
			Amount:       -amount,
			Type:         models.TransactionCommission,
			BalanceAfter: partner.Balance,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		result.Commission = amount
		result.BalanceAfter = partner.Balance
		order, err = s.loadOrder(tx, orderID)
		return err
	})
	if errors.Is(err, errFinishRaced) && attempt == 0 {
		// Finish lain menang duluan; baca ulang di transaksi baru supaya hasilnya idempoten.
		return s.finish(ctx, partnerID, orderID, attempt+1)
	}
	if errors.Is(err, errFinishRaced) {
		return nil, apperror.New(apperror.ErrCodeConflict, "Pesanan sudah diselesaikan")
	}
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.Internal(err, "Gagal menyelesaikan pekerjaan")
	}

	if snap, ok := s.clock.Stop(orderID); ok && !result.AlreadyCompleted {
		result.Timer = &snap
	}

	result.Order = *order
	result.Invoice = s.RenderInvoice(*order, *partner, now)
	result.InvoiceFilename = invoice.Filename(*order)
	return &result, nil
}

func (s *OrderService) elapsedFor(o *models.Order, now time.Time) int64 {
	if snap, ok := s.clock.Get(o.ID); ok {
		return snap.Elapsed
	}
	if o.StartedAt != nil {
		return int64(now.Sub(*o.StartedAt) / time.Second)
	}
	return 0
}

// RunningTimers: semua timer kerja yang sedang berjalan, untuk pantauan admin.
func (s *OrderService) RunningTimers() []worktimer.Snapshot {
	return s.clock.All()
}

// RenderInvoice mencetak invoice dengan tarif komisi yang sama seperti saat pemotongan.
func (s *OrderService) RenderInvoice(order models.Order, partner models.Partner, at time.Time) string {
	return invoice.Render(order, partner, s.defaultRate, at)
}

// CompletedOrder memuat pesanan selesai milik mitra untuk invoice.
func (s *OrderService) CompletedOrder(ctx context.Context, partnerID, orderID uint64) (*models.Order, *models.Partner, error) {
	db := s.db.WithContext(ctx)
	order, err := s.loadOrder(db, orderID)
	if err != nil {
		return nil, nil, err
	}
	if order.PartnerID == nil || *order.PartnerID != partnerID {
		return nil, nil, ErrOrderNotFound
	}
	if order.Status != models.OrderStatusCompleted {
		return nil, nil, ErrInvoiceNotReady
	}
	partner, err := s.loadPartner(db, partnerID)
	if err != nil {
		return nil, nil, err
	}
	return order, partner, nil
}
