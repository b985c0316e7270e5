package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"smartcare-backend/internal/config"
	"smartcare-backend/internal/models"
	"smartcare-backend/internal/testutil"
	"smartcare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) utils.Response {
	t.Helper()
	var res utils.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func setupAuth(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.DB = testutil.NewDB(t)

	r := gin.New()
	r.POST("/register", Register)
	r.POST("/login", Login)
	return r
}

func seedPartner(t *testing.T, email, password, verification string) models.Partner {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	p := models.Partner{
		OwnerName:          "Budi",
		BusinessName:       "Klinik Sehat",
		Email:              email,
		PasswordHash:       hash,
		VerificationStatus: verification,
		Status:             models.PartnerStatusPending,
	}
	require.NoError(t, config.DB.Create(&p).Error)
	return p
}

func TestLogin_ChecksInOrder(t *testing.T) {
	r := setupAuth(t)
	seedPartner(t, "pending@test.id", "rahasia1", models.VerificationPending)
	seedPartner(t, "ok@test.id", "rahasia1", models.VerificationVerified)
	seedPartner(t, "tolak@test.id", "rahasia1", models.VerificationRejected)

	tests := []struct {
		name    string
		email   string
		pass    string
		code    int
		message string
	}{
		{"password pendek", "ok@test.id", "12345", http.StatusBadRequest, "Password minimal 6 karakter"},
		{"email tidak terdaftar", "siapa@test.id", "rahasia1", http.StatusUnauthorized, "Email tidak terdaftar sebagai mitra"},
		{"password salah", "ok@test.id", "salahsalah", http.StatusUnauthorized, "Email atau password salah"},
		{"belum diverifikasi", "pending@test.id", "rahasia1", http.StatusForbidden, "Akun Anda belum diverifikasi oleh admin"},
		{"ditolak admin", "tolak@test.id", "rahasia1", http.StatusForbidden, "Akun Anda ditolak oleh admin"},
		{"sukses", "ok@test.id", "rahasia1", http.StatusOK, "Login Berhasil"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(r, "/login", gin.H{"email": tt.email, "password": tt.pass})
			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, tt.message, decode(t, w).Message)
		})
	}
}

func TestLogin_PendingGetsNoToken(t *testing.T) {
	r := setupAuth(t)
	seedPartner(t, "pending@test.id", "rahasia1", models.VerificationPending)

	w := postJSON(r, "/login", gin.H{"email": "pending@test.id", "password": "rahasia1"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NotContains(t, w.Body.String(), "token")
}

func TestLogin_StoresFCMToken(t *testing.T) {
	r := setupAuth(t)
	p := seedPartner(t, "ok@test.id", "rahasia1", models.VerificationVerified)

	w := postJSON(r, "/login", gin.H{"email": "ok@test.id", "password": "rahasia1", "fcm_token": "device-1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "device-1", testutil.Reload[models.Partner](t, config.DB, p.ID).FCMToken)
	// Hash dan token FCM tidak pernah keluar di response
	assert.NotContains(t, w.Body.String(), "device-1")
	assert.NotContains(t, w.Body.String(), "password")
}

func TestVerifyPartner_RejectBlocksLogin(t *testing.T) {
	r := setupAuth(t)
	r.POST("/admin/partners/:id/verify", VerifyPartner)
	p := seedPartner(t, "baru@test.id", "rahasia1", models.VerificationPending)

	w := postJSON(r, fmt.Sprintf("/admin/partners/%d/verify", p.ID), gin.H{"action": "reject"})
	require.Equal(t, http.StatusOK, w.Code)

	got := testutil.Reload[models.Partner](t, config.DB, p.ID)
	assert.Equal(t, models.VerificationRejected, got.VerificationStatus)
	assert.Equal(t, models.PartnerStatusRejected, got.Status)

	w = postJSON(r, "/login", gin.H{"email": "baru@test.id", "password": "rahasia1"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Akun Anda ditolak oleh admin", decode(t, w).Message)
}

func TestRegister(t *testing.T) {
	r := setupAuth(t)
	body := gin.H{
		"owner_name": "Budi", "business_name": "Klinik Sehat", "business_type": "Klinik",
		"phone_number": "0812", "email": "Budi@Test.id", "address": "Jl. Mawar",
		"city": "Bandung", "province": "Jawa Barat", "password": "rahasia1",
	}

	w := postJSON(r, "/register", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var p models.Partner
	require.NoError(t, config.DB.Where("email = ?", "budi@test.id").First(&p).Error)
	assert.Equal(t, models.VerificationPending, p.VerificationStatus)
	assert.Equal(t, models.PartnerStatusPending, p.Status)
	assert.Equal(t, 0.0, p.Balance)
	assert.Equal(t, 15.0, p.CommissionRate)

	w = postJSON(r, "/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body["email"] = "lain@test.id"
	body["password"] = "123"
	w = postJSON(r, "/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Password minimal 6 karakter", decode(t, w).Message)
}

func TestAdminLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hash, err := utils.HashPassword("admin123")
	require.NoError(t, err)

	r := gin.New()
	r.POST("/admin/login", AdminLogin("admin@smartcare.id", hash))

	w := postJSON(r, "/admin/login", gin.H{"email": "admin@smartcare.id", "password": "salah123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(r, "/admin/login", gin.H{"email": "admin@smartcare.id", "password": "admin123"})
	require.Equal(t, http.StatusOK, w.Code)

	data, ok := decode(t, w).Data.(map[string]interface{})
	require.True(t, ok)
	_, role, err := utils.ParseToken(data["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, utils.RoleAdmin, role)

	// Tanpa hash di konfigurasi, admin login selalu ditolak
	r2 := gin.New()
	r2.POST("/admin/login", AdminLogin("admin@smartcare.id", ""))
	w = postJSON(r2, "/admin/login", gin.H{"email": "admin@smartcare.id", "password": "admin123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
