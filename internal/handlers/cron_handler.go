package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/winsim/wheel-backend/internal/services"
)

// CronHandler exposes the scheduled sweep endpoint. Authentication is done by
// CronAuthMiddleware (shared bearer secret).
type CronHandler struct {
	spinService services.SpinService
}

// NewCronHandler creates a new CronHandler
func NewCronHandler(spinService services.SpinService) *CronHandler {
	return &CronHandler{
		spinService: spinService,
	}
}

// Sweep handles GET /cron/spin. It spins every due wheel independently and
// reports a per-wheel result; one wheel's failure never aborts the sweep.
func (h *CronHandler) Sweep(c *gin.Context) {
	entries, err := h.spinService.Sweep(c.Request.Context(), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Query failed"})
		return
	}
	if len(entries) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No wheels due for spin", "spun": 0})
		return
	}

	spun := 0
	for _, e := range entries {
		if e.Status == "spun" {
			spun++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Processed %d wheels", len(entries)),
		"spun":    spun,
		"results": entries,
	})
}
