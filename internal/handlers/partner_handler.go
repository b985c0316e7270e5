package handlers

import (
	"errors"
	"net/http"

	"smartcare-backend/internal/config"
	"smartcare-backend/internal/models"
	"smartcare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetPartnerProfile menampilkan profil mitra yang sedang login (termasuk saldo)
func GetPartnerProfile(c *gin.Context) {
	partnerID, _ := currentUser(c)

	var partner models.Partner
	if err := config.DB.First(&partner, partnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.APIResponse(c, http.StatusNotFound, false, "Mitra tidak ditemukan", nil)
			return
		}
		utils.ErrorResponse(c, err)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Profil Mitra", partner)
}

func UpdatePartnerProfile(c *gin.Context) {
	// 1. Ambil ID Mitra dari Middleware
	partnerID, _ := currentUser(c)

	// 2. Validasi Input JSON
	var input models.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Input tidak valid", err.Error())
		return
	}

	// 3. Cari Mitra di DB
	var partner models.Partner
	if err := config.DB.First(&partner, partnerID).Error; err != nil {
		utils.APIResponse(c, http.StatusNotFound, false, "Mitra tidak ditemukan", nil)
		return
	}

	// 4. Update hanya kolom profil. Field kosong diabaikan oleh Updates(struct).
	if err := config.DB.Model(&partner).Updates(models.Partner{
		OwnerName:    input.OwnerName,
		BusinessName: input.BusinessName,
		BusinessType: input.BusinessType,
		PhoneNumber:  input.PhoneNumber,
		Address:      input.Address,
		City:         input.City,
		Province:     input.Province,
	}).Error; err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Gagal mengupdate profil mitra", nil)
		return
	}

	// reload biar data yang dikirim balik fresh
	if err := config.DB.First(&partner, partnerID).Error; err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Gagal mengambil profil setelah update", nil)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Profil Mitra Berhasil Diupdate!", partner)
}
