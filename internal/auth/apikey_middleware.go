package auth

import (
	"net/http"

	"gameshelf/backend/internal/config"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// APIKeyMiddleware guards write endpoints used by the ingestion job and
// library mutations. The configured value is a bcrypt hash, so a leaked
// config file does not leak the key itself.
func APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		hash := config.AppConfig.IngestAPIKeyHash
		if hash == "" {
			// No key configured: endpoint is open (dev / test setups).
			c.Next()
			return
		}

		key := c.GetHeader("X-API-Key")
		if key == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
