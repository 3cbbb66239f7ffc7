package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tutoring_back_end_go/models"
)

type contactRequest struct {
	Name    string `form:"name" json:"name"`
	Email   string `form:"email" json:"email"`
	Message string `form:"message" json:"message"`
}

func SetupContactRoutes(r *gin.Engine, h *Handlers) {
	r.POST("/contact", h.contact)
}

func (h *Handlers) contact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBind(&req); err != nil {
		h.respondError(c, &models.ValidationError{Message: "All fields are required."})
		return
	}

	msg := &models.ContactMessage{Name: req.Name, Email: req.Email, Message: req.Message}
	if err := h.Contact.Submit(c.Request.Context(), msg); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Message sent successfully."})
}
