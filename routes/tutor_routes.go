package routes

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"tutoring_back_end_go/models"
)

func SetupTutorRoutes(r *gin.Engine, h *Handlers) {
	r.GET("/search", h.searchTutors)
	r.GET("/get-tutor/:username", h.getTutor)
}

// parseSearchFilter reads the optional search parameters. An absent or
// empty parameter leaves its clause out.
func parseSearchFilter(c *gin.Context) (models.SearchFilter, error) {
	filter := models.SearchFilter{
		Subject:  strings.TrimSpace(c.Query("subject")),
		Location: strings.TrimSpace(c.Query("location")),
		Method:   strings.TrimSpace(c.Query("lessonType")),
	}

	number := func(name string) (*float64, error) {
		raw := strings.TrimSpace(c.Query(name))
		if raw == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, models.Invalid(name, name+" must be a number")
		}
		return &v, nil
	}

	var err error
	if filter.MaxPrice, err = number("price"); err != nil {
		return filter, err
	}
	if filter.MinRating, err = number("ratings"); err != nil {
		return filter, err
	}
	return filter, nil
}

func (h *Handlers) searchTutors(c *gin.Context) {
	filter, err := parseSearchFilter(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	tutors, err := h.Tutors.Search(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tutors)
}

func (h *Handlers) getTutor(c *gin.Context) {
	profile, err := h.Tutors.Profile(c.Request.Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tutor not found"})
			return
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
