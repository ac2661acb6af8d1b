package handler

import (
	"log"
	"net/http"
	"strings"

	"gameshelf/backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Message string `json:"message" example:"An error message"`
}

// respondError maps an error to its wire status. Internal causes are logged
// and never echoed to the caller.
func respondError(c *gin.Context, err error) {
	if appErr, ok := apperrors.As(err); ok {
		if appErr.Status >= http.StatusInternalServerError {
			log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, appErr.Unwrap())
		}
		c.JSON(appErr.Status, gin.H{"message": appErr.Message})
		return
	}

	log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
}

// splitCommaSeparated splits a CSV query value, dropping empty tokens.
func splitCommaSeparated(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
