package middleware

import (
	"net/http"
	"strings"

	"smartcare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Ambil Header Authorization
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.APIResponse(c, http.StatusUnauthorized, false, "Token tidak ditemukan", nil)
			c.Abort()
			return
		}

		// 2. Format harus "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.APIResponse(c, http.StatusUnauthorized, false, "Format token salah", nil)
			c.Abort()
			return
		}

		// 3. Validasi Token
		userID, role, err := utils.ParseToken(parts[1])
		if err != nil {
			utils.APIResponse(c, http.StatusUnauthorized, false, "Token tidak valid", nil)
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Set("role", role)

		c.Next()
	}
}

func requireRole(want, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		if r, _ := role.(string); r != want {
			utils.APIResponse(c, http.StatusForbidden, false, message, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// PartnerOnly: hanya token mitra
func PartnerOnly() gin.HandlerFunc {
	return requireRole(utils.RolePartner, "Akses Ditolak: Khusus Mitra")
}

// AdminOnly: hanya token admin
func AdminOnly() gin.HandlerFunc {
	return requireRole(utils.RoleAdmin, "Akses Ditolak: Khusus Admin")
}
