package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"smartcare-backend/internal/config"
	"smartcare-backend/internal/logger"
	"smartcare-backend/internal/models"
	"smartcare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetDashboardStats menampilkan ringkasan operasional
func GetDashboardStats(c *gin.Context) {
	var verifiedPartners int64
	var ongoingOrders int64
	var pendingOrders int64
	var pendingTopups int64

	// 1. Total Komisi Terkumpul (dari ledger, bukan dari kolom order)
	type Result struct {
		Total float64
	}
	var res Result
	config.DB.Model(&models.WalletTransaction{}).
		Where("type = ?", models.TransactionCommission).
		Select("COALESCE(SUM(-amount), 0) as total").
		Scan(&res)

	// 2. Mitra Terverifikasi
	config.DB.Model(&models.Partner{}).Where("verification_status = ?", models.VerificationVerified).Count(&verifiedPartners)

	// 3. Order Sedang Berjalan & Menunggu Mitra
	config.DB.Model(&models.Order{}).
		Where("status IN ?", []string{models.OrderStatusConfirmed, models.OrderStatusInProgress}).
		Count(&ongoingOrders)
	config.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusPending).Count(&pendingOrders)

	// 4. Top Up Pending
	config.DB.Model(&models.TopupRequest{}).Where("status = ?", models.TopupStatusPending).Count(&pendingTopups)

	utils.APIResponse(c, http.StatusOK, true, "Data Dashboard Admin", gin.H{
		"total_commission":        res.Total,
		"verified_partners_count": verifiedPartners,
		"ongoing_orders_count":    ongoingOrders,
		"pending_orders_count":    pendingOrders,
		"pending_topups_count":    pendingTopups,
	})
}

// GetAllOrders melihat semua pesanan ?status=pending
func GetAllOrders(c *gin.Context) {
	status := c.Query("status")

	var orders []models.Order
	query := config.DB.Order("created_at desc, id desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Find(&orders).Error; err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Data Semua Order", orders)
}

// CreateOrder: admin memasukkan pesanan (pengganti alur customer)
func CreateOrder(c *gin.Context) {
	var input models.CreateOrderInput

	// 1. Validasi Input
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Input tidak valid", err.Error())
		return
	}

	// 2. Direct booking: pastikan mitranya ada & terverifikasi
	var partnerID *uint64
	if input.PartnerID != 0 {
		var partner models.Partner
		if err := config.DB.First(&partner, input.PartnerID).Error; err != nil {
			utils.APIResponse(c, http.StatusNotFound, false, "Mitra tidak ditemukan", nil)
			return
		}
		if partner.VerificationStatus != models.VerificationVerified {
			utils.APIResponse(c, http.StatusBadRequest, false, "Mitra belum terverifikasi", nil)
			return
		}
		partnerID = &partner.ID
	}

	total := input.TotalAmount
	if total <= 0 {
		total = input.PricePerHour
	}

	// 3. Nomor order unik: SC-<unix>-<4 hex>
	order := models.Order{
		OrderNumber:       NewOrderNumber(time.Now()),
		ServiceName:       input.ServiceName,
		PricePerHour:      input.PricePerHour,
		TotalAmount:       total,
		Status:            models.OrderStatusPending,
		PartnerID:         partnerID,
		CustomerName:      input.CustomerName,
		Address:           input.Address,
		Notes:             input.Notes,
		ScheduledDate:     input.ScheduledDate,
		ScheduledTime:     input.ScheduledTime,
		EstimatedDuration: input.EstimatedDuration,
	}

	// 4. Simpan
	if err := config.DB.Create(&order).Error; err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Gagal menyimpan order", nil)
		return
	}

	logger.Log.WithField("order_number", order.OrderNumber).Info("order baru dibuat admin")
	utils.APIResponse(c, http.StatusCreated, true, "Order berhasil dibuat", order)
}

// NewOrderNumber: SC-1760511600-9f3a
func NewOrderNumber(now time.Time) string {
	return fmt.Sprintf("SC-%d-%s", now.Unix(), strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
}

// === FITUR ADMIN OPS ===

// GetPendingPartners melihat daftar mitra yang belum diverifikasi
func GetPendingPartners(c *gin.Context) {
	var partners []models.Partner

	if err := config.DB.
		Where("verification_status = ? AND status <> ?", models.VerificationPending, models.PartnerStatusRejected).
		Order("created_at asc").
		Find(&partners).Error; err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Daftar Mitra Pending", partners)
}

// VerifyPartner menyetujui atau menolak mitra
func VerifyPartner(c *gin.Context) {
	partnerID, ok := idParam(c)
	if !ok {
		return
	}
	var input struct {
		Action string `json:"action" binding:"required,oneof=approve reject"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Input salah", nil)
		return
	}

	var partner models.Partner
	if err := config.DB.First(&partner, partnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.APIResponse(c, http.StatusNotFound, false, "Mitra tidak ditemukan", nil)
			return
		}
		utils.ErrorResponse(c, err)
		return
	}

	if input.Action == "approve" {
		// Verified & Active
		if err := config.DB.Model(&partner).Updates(map[string]interface{}{
			"verification_status": models.VerificationVerified,
			"status":              models.PartnerStatusActive,
		}).Error; err != nil {
			utils.ErrorResponse(c, err)
			return
		}
		config.DB.First(&partner, partnerID)
		utils.APIResponse(c, http.StatusOK, true, "Mitra Berhasil Diverifikasi", partner)
		return
	}

	if err := config.DB.Model(&partner).Updates(map[string]interface{}{
		"verification_status": models.VerificationRejected,
		"status":              models.PartnerStatusRejected,
	}).Error; err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	config.DB.First(&partner, partnerID)
	utils.APIResponse(c, http.StatusOK, true, "Mitra Ditolak", partner)
}
