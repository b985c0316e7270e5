package handlers

import (
	"net/http"
	"time"

	"smartcare-backend/internal/apperror"
	"smartcare-backend/internal/invoice"
	"smartcare-backend/internal/services"
	"smartcare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OrderHandler melayani feed dan aksi pesanan mitra.
type OrderHandler struct {
	orders       *services.OrderService
	invoiceDelay time.Duration
}

func NewOrderHandler(orders *services.OrderService, invoiceDelay time.Duration) *OrderHandler {
	return &OrderHandler{orders: orders, invoiceDelay: invoiceDelay}
}

// GetFeeds: pesanan masuk + pekerjaan saya sekaligus
func (h *OrderHandler) GetFeeds(c *gin.Context) {
	partnerID, _ := currentUser(c)
	feeds, err := h.orders.Feeds(c.Request.Context(), partnerID)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Data Pesanan", feeds)
}

// GetIncomingOrders menampilkan pesanan pending yang bisa diambil
func (h *OrderHandler) GetIncomingOrders(c *gin.Context) {
	partnerID, _ := currentUser(c)
	list, err := h.orders.Incoming(c.Request.Context(), partnerID)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Pesanan Masuk", list)
}

// GetMyJobs menampilkan pekerjaan milik mitra beserta timer
func (h *OrderHandler) GetMyJobs(c *gin.Context) {
	partnerID, _ := currentUser(c)
	list, err := h.orders.MyJobs(c.Request.Context(), partnerID)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Pekerjaan Saya", list)
}

func (h *OrderHandler) AcceptOrder(c *gin.Context) {
	partnerID, _ := currentUser(c)
	orderID, ok := idParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	// 1. Klaim pesanan
	order, err := h.orders.Accept(ctx, partnerID, orderID)
	if err != nil {
		// Kalah cepat: kirim feed terbaru supaya frontend langsung refresh
		if apperror.Is(err, apperror.ErrCodeConflict) {
			feeds, _ := h.orders.Feeds(ctx, partnerID)
			utils.APIResponse(c, http.StatusConflict, false, apperror.From(err).Message, feeds)
			return
		}
		utils.ErrorResponse(c, err)
		return
	}

	// 2. Refresh kedua daftar
	feeds, err := h.orders.Feeds(ctx, partnerID)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Pesanan berhasil diterima! Silakan mulai pekerjaan sesuai jadwal.", gin.H{
		"order": order,
		"feeds": feeds,
	})
}

func (h *OrderHandler) StartOrder(c *gin.Context) {
	partnerID, _ := currentUser(c)
	orderID, ok := idParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	timer, err := h.orders.Start(ctx, partnerID, orderID)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	feeds, err := h.orders.Feeds(ctx, partnerID)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Pekerjaan dimulai! Timer berjalan.", gin.H{
		"timer": timer,
		"feeds": feeds,
	})
}

func (h *OrderHandler) FinishOrder(c *gin.Context) {
	partnerID, _ := currentUser(c)
	orderID, ok := idParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	// 1. Selesaikan + potong komisi (satu transaksi)
	result, err := h.orders.Finish(ctx, partnerID, orderID)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	// 2. Refresh kedua daftar
	feeds, err := h.orders.Feeds(ctx, partnerID)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	message := "Pekerjaan selesai! Komisi " + utils.FormatRupiah(result.Commission) + " telah dipotong dari saldo."
	if result.AlreadyCompleted {
		message = "Pekerjaan sudah selesai sebelumnya, saldo tidak dipotong lagi."
	}
	utils.APIResponse(c, http.StatusOK, true, message, gin.H{
		"result": result,
		"feeds":  feeds,
	})
}

// GetRunningTimers (admin): timer kerja yang sedang berjalan
func (h *OrderHandler) GetRunningTimers(c *gin.Context) {
	utils.APIResponse(c, http.StatusOK, true, "Timer Kerja Aktif", h.orders.RunningTimers())
}

// DownloadInvoice mengirim invoice .txt sebagai attachment
func (h *OrderHandler) DownloadInvoice(c *gin.Context) {
	partnerID, _ := currentUser(c)
	orderID, ok := idParam(c)
	if !ok {
		return
	}

	order, partner, err := h.orders.CompletedOrder(c.Request.Context(), partnerID, orderID)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	body := h.orders.RenderInvoice(*order, *partner, time.Now())
	c.Header("Content-Disposition", `attachment; filename="`+invoice.Filename(*order)+`"`)
	c.Data(http.StatusOK, invoice.ContentType, []byte(body))
}

// GetInvoiceQR: QR code PNG untuk verifikasi invoice
func (h *OrderHandler) GetInvoiceQR(c *gin.Context) {
	partnerID, _ := currentUser(c)
	orderID, ok := idParam(c)
	if !ok {
		return
	}

	order, partner, err := h.orders.CompletedOrder(c.Request.Context(), partnerID, orderID)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	png, err := invoice.QRCodePNG(*order, *partner, 256)
	if err != nil {
		utils.ErrorResponse(c, apperror.Internal(err, "Gagal membuat QR code"))
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// SendInvoiceToChat masih simulasi: tunggu sebentar lalu lapor sukses
func (h *OrderHandler) SendInvoiceToChat(c *gin.Context) {
	partnerID, _ := currentUser(c)
	orderID, ok := idParam(c)
	if !ok {
		return
	}

	order, _, err := h.orders.CompletedOrder(c.Request.Context(), partnerID, orderID)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	if err := invoice.SimulateSend(c.Request.Context(), h.invoiceDelay); err != nil {
		utils.ErrorResponse(c, apperror.Internal(err, "Gagal mengirim invoice"))
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Invoice "+order.OrderNumber+" berhasil dikirim ke chat", nil)
}
