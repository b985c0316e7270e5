package handlers

import (
	"net/http"

	"smartcare-backend/internal/models"
	"smartcare-backend/internal/services"
	"smartcare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type TopupHandler struct {
	topups *services.TopupService
}

func NewTopupHandler(topups *services.TopupService) *TopupHandler {
	return &TopupHandler{topups: topups}
}

// CreateTopup: mitra mengajukan top up saldo
func (h *TopupHandler) CreateTopup(c *gin.Context) {
	partnerID, _ := currentUser(c)

	var input models.CreateTopupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Input tidak valid", err.Error())
		return
	}

	result, err := h.topups.Create(c.Request.Context(), partnerID, input)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	message := "Permintaan top up " + utils.FormatRupiah(input.Amount) + " terkirim. Silakan hubungi admin untuk konfirmasi transfer."
	if result.SnapToken != "" {
		message = "Silakan selesaikan pembayaran. Saldo bertambah otomatis setelah pembayaran berhasil."
	}
	utils.APIResponse(c, http.StatusCreated, true, message, result)
}

func (h *TopupHandler) GetMyTopups(c *gin.Context) {
	partnerID, _ := currentUser(c)
	list, err := h.topups.ListMine(c.Request.Context(), partnerID)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Riwayat Top Up", list)
}

// === ADMIN ===

// GetTopups ?status=pending
func (h *TopupHandler) GetTopups(c *gin.Context) {
	list, err := h.topups.ListByStatus(c.Request.Context(), c.Query("status"))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Daftar Top Up", list)
}

func (h *TopupHandler) ResolveTopup(c *gin.Context) {
	id, ok := idParam(c)
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

	req, err := h.topups.Resolve(c.Request.Context(), id, input.Action == "approve")
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	message := "Top Up Ditolak"
	if req.Status == models.TopupStatusApproved {
		message = "Top Up Disetujui, saldo mitra bertambah"
	}
	utils.APIResponse(c, http.StatusOK, true, message, req)
}
