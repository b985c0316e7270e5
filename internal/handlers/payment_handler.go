package handlers

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"smartcare-backend/internal/apperror"
	"smartcare-backend/internal/logger"
	"smartcare-backend/internal/services"
	"smartcare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Struct sederhana untuk menangkap body notifikasi Midtrans
// Midtrans mengirim JSON banyak field, tapi kita cuma butuh ini
type MidtransNotification struct {
	TransactionStatus string `json:"transaction_status"`
	OrderID           string `json:"order_id"`
	FraudStatus       string `json:"fraud_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
}

type PaymentHandler struct {
	topups    *services.TopupService
	serverKey string
}

func NewPaymentHandler(topups *services.TopupService, serverKey string) *PaymentHandler {
	return &PaymentHandler{topups: topups, serverKey: serverKey}
}

// MidtransSignature = sha512(order_id + status_code + gross_amount + server_key)
func MidtransSignature(n MidtransNotification, serverKey string) string {
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// HandleMidtransNotification: webhook pembayaran top up
func (h *PaymentHandler) HandleMidtransNotification(c *gin.Context) {
	var notification MidtransNotification

	// 1. Decode JSON dari Midtrans
	if err := c.ShouldBindJSON(&notification); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Invalid JSON", nil)
		return
	}

	log := logger.Log.WithFields(logrus.Fields{
		"payment_ref":        notification.OrderID,
		"transaction_status": notification.TransactionStatus,
		"fraud_status":       notification.FraudStatus,
	})

	// 2. Verifikasi signature. Tanpa server key tidak ada notifikasi yang bisa dipercaya.
	if h.serverKey == "" {
		log.Warn("[Webhook] Midtrans tidak aktif, notifikasi ditolak")
		utils.APIResponse(c, http.StatusServiceUnavailable, false, "Pembayaran Midtrans tidak aktif", nil)
		return
	}
	expected := MidtransSignature(notification, h.serverKey)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(notification.SignatureKey)) != 1 {
		log.Warn("[Webhook] signature Midtrans tidak cocok")
		utils.APIResponse(c, http.StatusForbidden, false, "Invalid signature", nil)
		return
	}

	// 3. Tentukan keputusan berdasarkan status Midtrans
	var approve, decided bool
	switch notification.TransactionStatus {
	case "capture":
		// challenge = masih diverifikasi bank
		if notification.FraudStatus == "accept" {
			approve, decided = true, true
		}
	case "settlement":
		approve, decided = true, true
	case "deny", "cancel", "expire":
		approve, decided = false, true
	}

	log.Info("[Webhook] notifikasi Midtrans diterima")
	if !decided {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	// 4. Update top up
	if _, err := h.topups.ResolveByPaymentRef(c.Request.Context(), notification.OrderID, approve); err != nil {
		// Notifikasi ulang untuk top up yang sudah diproses tetap dibalas OK
		if !apperror.Is(err, apperror.ErrCodeConflict) {
			utils.ErrorResponse(c, err)
			return
		}
		log.Info("[Webhook] top up sudah diproses sebelumnya")
	}

	// 5. Response OK ke Midtrans (wajib biar Midtrans tau kita udah terima)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
