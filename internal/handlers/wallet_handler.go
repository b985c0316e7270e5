package handlers

import (
	"net/http"
	"strconv"
	"time"

	"smartcare-backend/internal/services"
	"smartcare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type WalletHandler struct {
	earnings *services.EarningsService
}

func NewWalletHandler(earnings *services.EarningsService) *WalletHandler {
	return &WalletHandler{earnings: earnings}
}

// GetEarnings menampilkan saldo & ringkasan pendapatan
func (h *WalletHandler) GetEarnings(c *gin.Context) {
	partnerID, _ := currentUser(c)
	summary, err := h.earnings.Summary(c.Request.Context(), partnerID)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Pendapatan Saya", summary)
}

func (h *WalletHandler) ExportEarnings(c *gin.Context) {
	partnerID, _ := currentUser(c)
	data, err := h.earnings.ExportXLSX(c.Request.Context(), partnerID)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	filename := "pendapatan_" + time.Now().Format("20060102_150405") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// GetTransactions riwayat mutasi saldo ?limit=50
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	partnerID, _ := currentUser(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	list, err := h.earnings.Transactions(c.Request.Context(), partnerID, limit)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Riwayat Saldo", list)
}
