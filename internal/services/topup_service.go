package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smartcare-backend/internal/apperror"
	"smartcare-backend/internal/logger"
	"smartcare-backend/internal/models"
	"smartcare-backend/internal/notify"
	"smartcare-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TopupService mengelola permintaan top up saldo mitra.
type TopupService struct {
	db        *gorm.DB
	snap      SnapCreator // nil kalau Midtrans tidak dikonfigurasi
	pusher    notify.Pusher
	alerter   notify.AdminAlerter
	minAmount float64
	now       func() time.Time
}

func NewTopupService(db *gorm.DB, snapClient SnapCreator, pusher notify.Pusher, alerter notify.AdminAlerter, minAmount float64) *TopupService {
	if pusher == nil {
		pusher = notify.Nop{}
	}
	if alerter == nil {
		alerter = notify.Nop{}
	}
	return &TopupService{
		db:        db,
		snap:      snapClient,
		pusher:    pusher,
		alerter:   alerter,
		minAmount: minAmount,
		now:       time.Now,
	}
}

// TopupResult: untuk metode midtrans berisi token Snap yang dipakai frontend.
type TopupResult struct {
	Request     models.TopupRequest `json:"request"`
	SnapToken   string              `json:"snap_token,omitempty"`
	RedirectURL string              `json:"redirect_url,omitempty"`
}

// Create membuat permintaan top up pending. Saldo baru bertambah setelah disetujui.
func (s *TopupService) Create(ctx context.Context, partnerID uint64, input models.CreateTopupInput) (*TopupResult, error) {
	if input.Amount < s.minAmount {
		return nil, apperror.New(apperror.ErrCodeValidation, "Minimal top up "+utils.FormatRupiah(s.minAmount))
	}

	method := input.PaymentMethod
	if method == "" {
		method = models.PaymentTransfer
	}
	if method == models.PaymentMidtrans && s.snap == nil {
		return nil, ErrMidtransOff
	}

	db := s.db.WithContext(ctx)
	var partner models.Partner
	if err := db.First(&partner, partnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, apperror.Internal(err, "Gagal memuat data mitra")
	}

	req := models.TopupRequest{
		PartnerID:     partnerID,
		UserType:      "partner",
		Amount:        input.Amount,
		PaymentMethod: method,
		PaymentRef:    "TOPUP-" + uuid.NewString(),
		PartnerName:   partner.OwnerName,
		WhatsApp:      partner.PhoneNumber,
		Status:        models.TopupStatusPending,
	}

	result := &TopupResult{}
	if method == models.PaymentMidtrans {
		resp, errSnap := s.snap.CreateTransaction(&snap.Request{
			TransactionDetails: midtrans.TransactionDetails{
				OrderID:  req.PaymentRef,
				GrossAmt: int64(req.Amount),
			},
			CustomerDetail: &midtrans.CustomerDetails{
				FName: partner.OwnerName,
				Email: partner.Email,
				Phone: partner.PhoneNumber,
			},
			Items: &[]midtrans.ItemDetails{
				{ID: "TOPUP", Name: "Top Up Saldo SmartCare", Price: int64(req.Amount), Qty: 1},
			},
		})
		if errSnap != nil {
			return nil, apperror.Wrap(errors.New(errSnap.GetMessage()), apperror.ErrCodeInternal, "Gagal membuat pembayaran Midtrans")
		}
		result.SnapToken = resp.Token
		result.RedirectURL = resp.RedirectURL
	}

	if err := db.Create(&req).Error; err != nil {
		return nil, apperror.Internal(err, "Gagal menyimpan permintaan top up")
	}
	result.Request = req

	text := fmt.Sprintf("Top up baru #%d\nMitra: %s (%s)\nWA: %s\nNominal: %s\nMetode: %s",
		req.ID, partner.OwnerName, partner.BusinessName, req.WhatsApp, utils.FormatRupiah(req.Amount), method)
	if err := s.alerter.Alert(ctx, text); err != nil {
		logger.Log.WithError(err).WithField("topup_id", req.ID).Warn("gagal kirim alert top up ke admin")
	}

	return result, nil
}

// ListMine: riwayat top up milik mitra, terbaru dulu.
func (s *TopupService) ListMine(ctx context.Context, partnerID uint64) ([]models.TopupRequest, error) {
	var list []models.TopupRequest
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", partnerID).
		Order("created_at desc, id desc").
		Find(&list).Error; err != nil {
		return nil, apperror.Internal(err, "Gagal memuat riwayat top up")
	}
	return list, nil
}

// ListByStatus untuk admin. status kosong = semua.
func (s *TopupService) ListByStatus(ctx context.Context, status string) ([]models.TopupRequest, error) {
	q := s.db.WithContext(ctx).Order("created_at desc, id desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []models.TopupRequest
	if err := q.Find(&list).Error; err != nil {
		return nil, apperror.Internal(err, "Gagal memuat data top up")
	}
	return list, nil
}

// Resolve menyetujui atau menolak top up pending. Persetujuan menambah saldo
// dan mencatat ledger dalam transaksi yang sama. Hanya bisa sekali.
func (s *TopupService) Resolve(ctx context.Context, topupID uint64, approve bool) (*models.TopupRequest, error) {
	status := models.TopupStatusRejected
	if approve {
		status = models.TopupStatusApproved
	}

	var (
		req     models.TopupRequest
		partner models.Partner
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.TopupRequest{}).
			Where("id = ? AND status = ?", topupID, models.TopupStatusPending).
			Updates(map[string]interface{}{"status": status, "resolved_at": s.now()})
		if res.Error != nil {
			return res.Error
		}
		if err := tx.First(&req, topupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTopupNotFound
			}
			return err
		}
		if res.RowsAffected == 0 {
			return ErrTopupResolved
		}
		if !approve {
			return tx.First(&partner, req.PartnerID).Error
		}

		if err := tx.Model(&models.Partner{}).
			Where("id = ?", req.PartnerID).
			Update("balance", gorm.Expr("balance + ?", req.Amount)).Error; err != nil {
			return err
		}
		if err := tx.First(&partner, req.PartnerID).Error; err != nil {
			return err
		}
		return tx.Create(&models.WalletTransaction{
			PartnerID:    req.PartnerID,
			TopupID:      &req.ID,
			Amount:       req.Amount,
			Type:         models.TransactionTopup,
			BalanceAfter: partner.Balance,
		}).Error
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.Internal(err, "Gagal memproses top up")
	}

	logger.Log.WithFields(logrus.Fields{
		"topup_id":   req.ID,
		"partner_id": req.PartnerID,
		"status":     req.Status,
		"amount":     req.Amount,
	}).Info("top up diproses")

	title, body := "Top Up Ditolak", "Permintaan top up "+utils.FormatRupiah(req.Amount)+" ditolak. Hubungi admin untuk info lebih lanjut."
	if approve {
		title, body = "Top Up Berhasil", "Saldo Anda bertambah "+utils.FormatRupiah(req.Amount)+". Saldo sekarang "+utils.FormatRupiah(partner.Balance)+"."
	}
	if err := s.pusher.Push(ctx, partner.FCMToken, title, body, map[string]string{
		"type":     "topup_" + req.Status,
		"topup_id": fmt.Sprintf("%d", req.ID),
	}); err != nil {
		logger.Log.WithError(err).WithField("topup_id", req.ID).Warn("gagal kirim notifikasi top up")
	}

	return &req, nil
}

// ResolveByPaymentRef dipakai webhook Midtrans (order_id = payment_ref).
// Hanya untuk top up dengan metode midtrans.
func (s *TopupService) ResolveByPaymentRef(ctx context.Context, ref string, approve bool) (*models.TopupRequest, error) {
	var req models.TopupRequest
	if err := s.db.WithContext(ctx).Where("payment_ref = ?", ref).First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopupNotFound
		}
		return nil, apperror.Internal(err, "Gagal memuat top up")
	}
	// Top up transfer hanya boleh diputuskan admin
	if req.PaymentMethod != models.PaymentMidtrans {
		return nil, ErrNotMidtrans
	}
	return s.Resolve(ctx, req.ID, approve)
}
