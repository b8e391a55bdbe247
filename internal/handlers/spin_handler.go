package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/winsim/wheel-backend/internal/middleware"
	"github.com/winsim/wheel-backend/internal/models"
	"github.com/winsim/wheel-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SpinHandler exposes the host and public spin triggers
type SpinHandler struct {
	spinService  services.SpinService
	wheelService services.WheelService
}

// NewSpinHandler creates a new SpinHandler
func NewSpinHandler(spinService services.SpinService, wheelService services.WheelService) *SpinHandler {
	return &SpinHandler{
		spinService:  spinService,
		wheelService: wheelService,
	}
}

// Spin handles POST /wheels/:id/spin (host trigger)
func (h *SpinHandler) Spin(c *gin.Context) {
	hostID, ok := middleware.HostID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	outcome, err := h.spinService.AttemptSpin(c.Request.Context(), id, services.TriggerContext{
		Source: models.TriggerHost,
		HostID: hostID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// AutoSpin handles POST /wheels/:id/auto-spin (public schedule trigger).
// Any connected viewer may call this once the scheduled time arrives; the
// schedule itself is re-validated server-side. On failure the handler returns
// the current wheel state instead of an error, because a concurrent trigger
// may already have completed the spin and the viewer just needs fresh state.
func (h *SpinHandler) AutoSpin(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	outcome, err := h.spinService.AttemptSpin(c.Request.Context(), id, services.TriggerContext{
		Source: models.TriggerAuto,
	})
	if err != nil {
		view, viewErr := h.wheelService.GetWheelView(c.Request.Context(), id)
		if viewErr != nil {
			respondError(c, viewErr)
			return
		}
		c.JSON(http.StatusOK, gin.H{"spun": false, "wheel": view.Wheel})
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// Reset handles POST /wheels/:id/reset (host trigger)
func (h *SpinHandler) Reset(c *gin.Context) {
	hostID, ok := middleware.HostID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	if err := h.spinService.Reset(c.Request.Context(), id, hostID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Wheel reset"})
}
