package handler

import (
	"net/http"

	"gameshelf/backend/internal/community"
	"gameshelf/backend/internal/database"

	"github.com/gin-gonic/gin"
)

// GetCommunityDashboard godoc
// @Summary      Community dashboard
// @Description  Global statistics plus the most-completed leaderboard. Computed from five concurrent aggregate reads; the response is all-or-nothing.
// @Tags         community
// @Produce      json
// @Success      200 {object} community.Dashboard
// @Failure      500 {object} ErrorResponse
// @Router       /community/dashboard [get]
func GetCommunityDashboard(c *gin.Context) {
	dashboard, err := community.BuildDashboard(c.Request.Context(), database.DB)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
