package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"tutoring_back_end_go/auth"
	"tutoring_back_end_go/models"
)

func SetupAvailabilityRoutes(r *gin.Engine, h *Handlers) {
	tutorOnly := auth.RequireRole(models.KindTutor)

	r.POST("/save-availability", tutorOnly, h.saveAvailability)
	r.GET("/my-availability", tutorOnly, h.myAvailability)
	r.DELETE("/availability/:id", tutorOnly, h.deleteAvailability)
	r.GET("/availability/:username", h.publicAvailability)
}

// parseSlotInputs reads the slots list either as a JSON array under
// "slots" or as a JSON document carried in a string (form field or JSON).
func parseSlotInputs(c *gin.Context) ([]models.SlotInput, error) {
	var raw []byte

	if c.ContentType() == binding.MIMEJSON {
		var body struct {
			Slots json.RawMessage `json:"slots"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			return nil, models.Invalid("slots", "Invalid slots data")
		}
		raw = body.Slots

		var wrapped string
		if err := json.Unmarshal(raw, &wrapped); err == nil {
			raw = []byte(wrapped)
		}
	} else {
		raw = []byte(c.PostForm("slots"))
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, models.Invalid("slots", "No slots provided")
	}

	var inputs []models.SlotInput
	if err := json.Unmarshal(raw, &inputs); err != nil {
		return nil, models.Invalid("slots", "Invalid slots data")
	}
	return inputs, nil
}

func (h *Handlers) saveAvailability(c *gin.Context) {
	inputs, err := parseSlotInputs(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.Availability.AddSlots(c.Request.Context(), principal(c), inputs); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Availability saved successfully"})
}

func (h *Handlers) myAvailability(c *gin.Context) {
	slots, err := h.Availability.ListUpcoming(c.Request.Context(), principal(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

func (h *Handlers) deleteAvailability(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.respondError(c, models.Invalid("id", "invalid slot id"))
		return
	}

	if err := h.Availability.DeleteSlot(c.Request.Context(), principal(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Slot deleted"})
}

func (h *Handlers) publicAvailability(c *gin.Context) {
	slots, err := h.Availability.ListPublic(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}
