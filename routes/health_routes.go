package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func SetupHealthRoutes(r *gin.Engine, h *Handlers) {
	r.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.DB.Ping(ctx); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// SetupStaticRoutes serves dir for any path no route claims.
func SetupStaticRoutes(r *gin.Engine, dir string) {
	if dir == "" {
		return
	}
	r.NoRoute(gin.WrapH(http.FileServer(http.Dir(dir))))
}
