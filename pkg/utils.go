package pkg

import (
	"github.com/gin-gonic/gin"
)

// GetClientIP relies on gin's trusted proxy list, so X-Forwarded-For and
// X-Real-IP only count when the socket peer is a configured proxy.
func GetClientIP(c *gin.Context) string {
	ip := c.ClientIP()

	if ip == "" {
		return "unknown"
	}

	return ip
}
