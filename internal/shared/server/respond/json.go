package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SuccessEnvelope wraps a payload returned by a completed operation.
type SuccessEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK writes a bare 200 payload.
func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}

// Success writes 200 {"success": true, "data": data}.
func Success(c *gin.Context, data any) {
	JSON(c, http.StatusOK, SuccessEnvelope{Success: true, Data: data})
}
