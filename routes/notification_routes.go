package routes

import (
	"github.com/gin-gonic/gin"

	"tutoring_back_end_go/auth"
	"tutoring_back_end_go/models"
)

func SetupNotificationRoutes(r *gin.Engine, h *Handlers) {
	r.GET("/ws", auth.RequireRole(models.KindTutor), func(c *gin.Context) {
		user, err := h.Accounts.Profile(c.Request.Context(), principal(c))
		if err != nil {
			h.respondError(c, err)
			return
		}
		h.Hub.Serve(c, user.Identity().ID)
	})
}
