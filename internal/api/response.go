package api

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Response is the envelope returned by every endpoint.
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp string      `json:"timestamp"`
}

func respondOK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// respondError carries a machine-readable code in Error and optional
// structured context in Data so the client can explain the rejection
// without a second round-trip.
func respondError(c *gin.Context, status int, code, message string, data interface{}) {
	c.JSON(status, Response{
		Success:   false,
		Message:   message,
		Data:      data,
		Error:     code,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
