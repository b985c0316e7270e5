package handlers

import (
	"net/http"

	"smartcare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// currentUser membaca identitas yang dipasang AuthMiddleware.
func currentUser(c *gin.Context) (uint64, string) {
	id, _ := c.Get("userID")
	role, _ := c.Get("role")
	uid, _ := id.(uint64)
	r, _ := role.(string)
	return uid, r
}

// idParam membaca :id, sekaligus menulis response 400 kalau tidak valid.
func idParam(c *gin.Context) (uint64, bool) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		utils.APIResponse(c, http.StatusBadRequest, false, "ID tidak valid", nil)
	}
	return id, ok
}
