package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/winsim/wheel-backend/internal/middleware"
	"github.com/winsim/wheel-backend/internal/models"
	"github.com/winsim/wheel-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WheelHandler handles wheel CRUD HTTP requests
type WheelHandler struct {
	wheelService       services.WheelService
	participantService services.ParticipantService
}

// NewWheelHandler creates a new WheelHandler
func NewWheelHandler(wheelService services.WheelService, participantService services.ParticipantService) *WheelHandler {
	return &WheelHandler{
		wheelService:       wheelService,
		participantService: participantService,
	}
}

// CreateWheelRequest is the payload for POST /wheels
type CreateWheelRequest struct {
	Title string `json:"title"`
}

// CreateWheel handles POST /wheels
func (h *WheelHandler) CreateWheel(c *gin.Context) {
	hostID, ok := middleware.HostID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	// An empty body is fine; the wheel starts with defaults.
	var request CreateWheelRequest
	if err := c.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wheel, err := h.wheelService.CreateWheel(c.Request.Context(), hostID, request.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, wheel)
}

// GetMyWheels handles GET /wheels
func (h *WheelHandler) GetMyWheels(c *gin.Context) {
	hostID, ok := middleware.HostID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	wheels, err := h.wheelService.GetWheelsByAdmin(c.Request.Context(), hostID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, wheels)
}

// GetWheel handles GET /wheels/:id
func (h *WheelHandler) GetWheel(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	view, err := h.wheelService.GetWheelView(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetWheelBySlug handles GET /wheels/slug/:slug (public viewer page)
func (h *WheelHandler) GetWheelBySlug(c *gin.Context) {
	view, err := h.wheelService.GetWheelViewBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateWheelRequest is the payload for PATCH /wheels/:id
type UpdateWheelRequest struct {
	Title            *string `json:"title"`
	PrizeDescription *string `json:"prize_description"`
	Theme            *string `json:"theme"`
	MaxSlotsPerUser  *int    `json:"max_slots_per_user"`
	MaxParticipants  *int    `json:"max_participants"`
	ShowConfetti     *bool   `json:"show_confetti"`
	SoundEnabled     *bool   `json:"sound_enabled"`
	SpinAt           *string `json:"spin_at"` // RFC3339; empty string clears the schedule
	Status           *string `json:"status"`  // open or closed
}

// UpdateWheel handles PATCH /wheels/:id
func (h *WheelHandler) UpdateWheel(c *gin.Context) {
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
	var request UpdateWheelRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := services.WheelUpdate{
		Title:            request.Title,
		PrizeDescription: request.PrizeDescription,
		MaxSlotsPerUser:  request.MaxSlotsPerUser,
		MaxParticipants:  request.MaxParticipants,
		ShowConfetti:     request.ShowConfetti,
		SoundEnabled:     request.SoundEnabled,
	}
	if request.Theme != nil {
		theme := models.WheelTheme(*request.Theme)
		update.Theme = &theme
	}
	if request.SpinAt != nil {
		if *request.SpinAt == "" {
			update.ClearSpinAt = true
		} else {
			spinAt, err := time.Parse(time.RFC3339, *request.SpinAt)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid spin_at format (RFC3339)"})
				return
			}
			update.SpinAt = &spinAt
		}
	}
	if request.Status != nil {
		status := models.WheelStatus(*request.Status)
		if status != models.WheelStatusOpen && status != models.WheelStatusClosed {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Status can only be set to open or closed"})
			return
		}
		update.Status = &status
	}

	wheel, err := h.wheelService.UpdateWheel(c.Request.Context(), id, hostID, update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, wheel)
}

// DeleteWheel handles DELETE /wheels/:id
func (h *WheelHandler) DeleteWheel(c *gin.Context) {
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
	if err := h.wheelService.DeleteWheel(c.Request.Context(), id, hostID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Wheel deleted"})
}

// JoinRequest is the payload for POST /wheels/:id/join
type JoinRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
	// AddSlot re-joins under an existing name to claim one more slot, up to
	// the wheel's per-user cap.
	AddSlot bool `json:"add_slot"`
}

// Join handles POST /wheels/:id/join (public)
func (h *WheelHandler) Join(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var request JoinRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	participant, err := h.participantService.Join(c.Request.Context(), id, request.DisplayName, request.AddSlot)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, participant)
}

// AddParticipantRequest is the payload for POST /wheels/:id/participants
type AddParticipantRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
}

// AddParticipant handles POST /wheels/:id/participants (host)
func (h *WheelHandler) AddParticipant(c *gin.Context) {
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
	var request AddParticipantRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	participant, err := h.participantService.AddByHost(c.Request.Context(), id, hostID, request.DisplayName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, participant)
}

// RemoveParticipant handles DELETE /wheels/:id/participants/:pid (host)
func (h *WheelHandler) RemoveParticipant(c *gin.Context) {
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
	pid, err := primitive.ObjectIDFromHex(c.Param("pid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid participant ID format"})
		return
	}
	if err := h.participantService.Remove(c.Request.Context(), id, pid, hostID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Participant removed"})
}
