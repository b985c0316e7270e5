package utils

import (
	"smartcare-backend/internal/apperror"
	"smartcare-backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Format response standar biar frontend enak bacanya
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"` // omitempty: kalau null, ga usah dimunculin
}

func APIResponse(c *gin.Context, code int, success bool, message string, data interface{}) {
	c.JSON(code, Response{
		Success: success,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse menerjemahkan error service ke response. Penyebab internal hanya masuk log.
func ErrorResponse(c *gin.Context, err error) {
	appErr := apperror.From(err)
	if appErr.Cause != nil {
		logger.Log.WithFields(logrus.Fields{
			"code":   appErr.Code,
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"error":  appErr.Cause.Error(),
		}).Error(appErr.Message)
	}
	APIResponse(c, appErr.HTTPStatus, false, appErr.Message, appErr.Data)
}
