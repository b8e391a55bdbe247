package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/winsim/wheel-backend/internal/realtime"
	"github.com/winsim/wheel-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WSHandler upgrades viewers to the per-wheel realtime feed
type WSHandler struct {
	hub          *realtime.Hub
	wheelService services.WheelService
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(hub *realtime.Hub, wheelService services.WheelService) *WSHandler {
	return &WSHandler{
		hub:          hub,
		wheelService: wheelService,
	}
}

// Subscribe handles GET /ws/wheels/:id
func (h *WSHandler) Subscribe(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	// Reject subscriptions to wheels that do not exist; a bad id would
	// otherwise hold a silent dead channel open.
	if _, err := h.wheelService.GetWheelByID(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	h.hub.ServeWS(c.Writer, c.Request, id.Hex())
}
