package handlers

import (
	"errors"
	"net/http"
	"strings"

	"smartcare-backend/internal/config"
	"smartcare-backend/internal/logger"
	"smartcare-backend/internal/models"
	"smartcare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// REGISTER MITRA
func Register(c *gin.Context) {
	var input models.RegisterPartnerInput

	// 1. Validasi Input JSON
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Input tidak valid", err.Error())
		return
	}
	if utils.PasswordTooShort(input.Password) {
		utils.APIResponse(c, http.StatusBadRequest, false, "Password minimal 6 karakter", nil)
		return
	}

	// 2. Hash Password
	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Gagal memproses password", nil)
		return
	}

	// 3. Siapkan Data Mitra (belum terverifikasi, saldo 0)
	partner := models.Partner{
		OwnerName:          input.OwnerName,
		BusinessName:       input.BusinessName,
		BusinessType:       input.BusinessType,
		PhoneNumber:        input.PhoneNumber,
		Email:              strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash:       hashedPassword,
		Address:            input.Address,
		City:               input.City,
		Province:           input.Province,
		Balance:            0,
		CommissionRate:     15,
		VerificationStatus: models.VerificationPending,
		Status:             models.PartnerStatusPending,
	}

	// 4. Simpan ke Database
	if err := config.DB.Create(&partner).Error; err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Email sudah terdaftar!", nil)
		return
	}

	logger.Log.WithField("partner_id", partner.ID).Info("mitra baru mendaftar")

	// 5. Sukses
	utils.APIResponse(c, http.StatusCreated, true, "Registrasi berhasil! Tunggu verifikasi admin sebelum login.", partner)
}

// LOGIN MITRA
func Login(c *gin.Context) {
	var input models.LoginInput

	// 1. Validasi Input
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Input tidak valid", nil)
		return
	}
	if utils.PasswordTooShort(input.Password) {
		utils.APIResponse(c, http.StatusBadRequest, false, "Password minimal 6 karakter", nil)
		return
	}

	// 2. Cari Mitra berdasarkan Email
	var partner models.Partner
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := config.DB.Where("email = ?", email).First(&partner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.APIResponse(c, http.StatusUnauthorized, false, "Email tidak terdaftar sebagai mitra", nil)
			return
		}
		utils.ErrorResponse(c, err)
		return
	}

	// 3. Cek Password
	if !utils.CheckPassword(input.Password, partner.PasswordHash) {
		utils.APIResponse(c, http.StatusUnauthorized, false, "Email atau password salah", nil)
		return
	}

	// 4. Cek Verifikasi Admin. Ditolak atau belum terverifikasi = tidak dapat token.
	if partner.VerificationStatus == models.VerificationRejected || partner.Status == models.PartnerStatusRejected {
		utils.APIResponse(c, http.StatusForbidden, false, "Akun Anda ditolak oleh admin", nil)
		return
	}
	if partner.VerificationStatus != models.VerificationVerified {
		utils.APIResponse(c, http.StatusForbidden, false, "Akun Anda belum diverifikasi oleh admin", nil)
		return
	}

	// Simpan token FCM kalau dikirim frontend
	if input.FCMToken != "" {
		partner.FCMToken = input.FCMToken
		config.DB.Model(&partner).Update("fcm_token", input.FCMToken)
	}

	// 5. Generate JWT Token
	token, err := utils.GenerateToken(partner.ID, utils.RolePartner)
	if err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Gagal generate token", nil)
		return
	}

	// 6. Sukses & Kirim Token
	utils.APIResponse(c, http.StatusOK, true, "Login Berhasil", gin.H{
		"token":   token,
		"partner": partner,
	})
}

// AdminLogin memeriksa kredensial admin dari konfigurasi (bukan tabel).
func AdminLogin(adminEmail, adminPasswordHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.APIResponse(c, http.StatusBadRequest, false, "Input tidak valid", nil)
			return
		}

		email := strings.ToLower(strings.TrimSpace(input.Email))
		if adminPasswordHash == "" || email != strings.ToLower(adminEmail) ||
			!utils.CheckPassword(input.Password, adminPasswordHash) {
			utils.APIResponse(c, http.StatusUnauthorized, false, "Email atau password salah", nil)
			return
		}

		token, err := utils.GenerateToken(0, utils.RoleAdmin)
		if err != nil {
			utils.APIResponse(c, http.StatusInternalServerError, false, "Gagal generate token", nil)
			return
		}
		utils.APIResponse(c, http.StatusOK, true, "Login Admin Berhasil", gin.H{"token": token})
	}
}

// Logout: token JWT stateless, jadi cukup lepas token FCM supaya push berhenti.
func Logout(c *gin.Context) {
	partnerID, _ := currentUser(c)
	if err := config.DB.Model(&models.Partner{}).Where("id = ?", partnerID).Update("fcm_token", "").Error; err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Logout berhasil", nil)
}
