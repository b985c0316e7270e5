package utils

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RolePartner = "partner"
	RoleAdmin   = "admin"
)

var tokenTTL = 24 * time.Hour

// SetTokenTTL dipanggil sekali saat startup dari config.
func SetTokenTTL(ttl time.Duration) {
	if ttl > 0 {
		tokenTTL = ttl
	}
}

var tokenSecret string

// SetTokenSecret dipanggil dari main dengan secret hasil config.Load.
func SetTokenSecret(s string) {
	tokenSecret = s
}

func secret() []byte {
	if tokenSecret != "" {
		return []byte(tokenSecret)
	}
	s := os.Getenv("JWT_SECRET")
	if s == "" {
		s = "rahasia_dapur_smartcare" // Fallback kalau .env lupa diisi
	}
	return []byte(s)
}

// GenerateToken membuat JWT berisi ID mitra dan role. Admin memakai ID 0.
func GenerateToken(partnerID uint64, role string) (string, error) {
	claims := jwt.MapClaims{
		"partner_id": partnerID,
		"role":       role,
		"exp":        time.Now().Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret())
}

// ParseToken memverifikasi token dan mengembalikan ID mitra & role.
func ParseToken(encodedToken string) (uint64, string, error) {
	token, err := jwt.Parse(encodedToken, func(token *jwt.Token) (interface{}, error) {
		// Validasi algoritma enkripsi (harus HMAC)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret(), nil
	})
	if err != nil || !token.Valid {
		return 0, "", errors.New("token tidak valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", errors.New("gagal memproses token")
	}

	// JWT parse angka sebagai float64
	var partnerID uint64
	if val, ok := claims["partner_id"].(float64); ok {
		partnerID = uint64(val)
	}
	role, _ := claims["role"].(string)
	if role != RolePartner && role != RoleAdmin {
		return 0, "", errors.New("role tidak dikenal")
	}

	return partnerID, role, nil
}
