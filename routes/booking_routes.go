package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tutoring_back_end_go/auth"
	"tutoring_back_end_go/models"
)

type reviewRequest struct {
	LessonID int64  `form:"lessonId" json:"lessonId"`
	Stars    int    `form:"stars" json:"stars"`
	Text     string `form:"text" json:"text"`
}

func SetupBookingRoutes(r *gin.Engine, h *Handlers) {
	studentOnly := auth.RequireRole(models.KindStudent)

	r.POST("/book-lesson", studentOnly, h.bookLesson)
	r.POST("/submit-review", studentOnly, h.submitReview)
}

func (h *Handlers) bookLesson(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBind(&req); err != nil {
		h.respondError(c, &models.ValidationError{Message: "Missing fields"})
		return
	}

	booking, err := h.Bookings.Book(c.Request.Context(), principal(c), req)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.respondError(c, err)
		return
	}

	body := gin.H{
		"message":      "Lesson booked successfully",
		"lessonId":     booking.Lesson.ID,
		"slotsRemoved": booking.SlotsRemoved,
	}
	switch {
	case booking.SlotCleanupErr != nil:
		body["warning"] = "Lesson booked but the slot could not be removed"
	case booking.SlotsRemoved == 0:
		body["warning"] = "Lesson booked but no matching slot was found"
	}
	c.JSON(http.StatusOK, body)
}

func (h *Handlers) submitReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBind(&req); err != nil {
		h.respondError(c, &models.ValidationError{Message: "Missing data"})
		return
	}

	review, err := h.Reviews.Submit(c.Request.Context(), principal(c), req.LessonID, req.Stars, req.Text)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
			return
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review submitted successfully", "reviewId": review.ID})
}
