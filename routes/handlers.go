package routes

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"tutoring_back_end_go/auth"
	"tutoring_back_end_go/logger"
	"tutoring_back_end_go/models"
)

type AccountService interface {
	Login(ctx context.Context, email, password string) (models.Principal, error)
	Profile(ctx context.Context, p models.Principal) (models.User, error)
	MyLessons(ctx context.Context, p models.Principal) ([]models.LessonView, error)
}

type RegistrationService interface {
	RegisterStudent(ctx context.Context, student *models.Student, password string) error
	RegisterTutor(ctx context.Context, tutor *models.Tutor, password string) error
}

type AvailabilityService interface {
	AddSlots(ctx context.Context, p models.Principal, inputs []models.SlotInput) error
	ListUpcoming(ctx context.Context, p models.Principal) ([]models.Slot, error)
	ListPublic(ctx context.Context, username string) ([]models.Slot, error)
	DeleteSlot(ctx context.Context, p models.Principal, slotID int64) error
}

type BookingService interface {
	Book(ctx context.Context, p models.Principal, req models.BookingRequest) (*models.Booking, error)
}

type ReviewService interface {
	Submit(ctx context.Context, p models.Principal, lessonID int64, stars int, text string) (*models.Review, error)
}

type TutorService interface {
	Search(ctx context.Context, filter models.SearchFilter) ([]models.TutorSummary, error)
	Profile(ctx context.Context, username string) (*models.TutorProfile, error)
}

type ContactService interface {
	Submit(ctx context.Context, msg *models.ContactMessage) error
}

// Notifications upgrades a tutor's request to an event stream.
type Notifications interface {
	Serve(c *gin.Context, tutorID int64)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handlers struct {
	Accounts     AccountService
	Registration RegistrationService
	Availability AvailabilityService
	Bookings     BookingService
	Reviews      ReviewService
	Tutors       TutorService
	Contact      ContactService
	Hub          Notifications
	DB           Pinger
	Sessions     *auth.Sessions
	Logger       *zap.Logger
}

// Setup registers every route on r.
func Setup(r *gin.Engine, h *Handlers) {
	registerValidatorTagNames()

	r.Use(h.Sessions.Middleware())

	SetupAccountRoutes(r, h)
	SetupAvailabilityRoutes(r, h)
	SetupBookingRoutes(r, h)
	SetupTutorRoutes(r, h)
	SetupContactRoutes(r, h)
	SetupNotificationRoutes(r, h)
	SetupHealthRoutes(r, h)
}

var tagNamesOnce sync.Once

// registerValidatorTagNames makes binding errors report the request field
// name instead of the Go field name.
func registerValidatorTagNames() {
	tagNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"form", "json"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return fld.Name
		})
	})
}

// bindError converts a binding failure into a ValidationError naming the
// first offending field.
func bindError(err error, message string) *models.ValidationError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return models.Invalid(fe.Field(), fe.Field()+" is required")
		case "email":
			return models.Invalid(fe.Field(), "Invalid email format.")
		}
		return models.Invalid(fe.Field(), fe.Field()+" is invalid")
	}
	return &models.ValidationError{Message: message}
}

func principal(c *gin.Context) models.Principal {
	p, _ := auth.PrincipalFrom(c)
	return p
}

// respondError maps the error kinds to status codes. Store failures are
// logged in full and reported generically.
func (h *Handlers) respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		body := gin.H{"error": verr.Message}
		if verr.Field != "" {
			body["field"] = verr.Field
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, models.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
	case errors.Is(err, models.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, models.ErrSlotNotOwned):
		c.JSON(http.StatusForbidden, gin.H{"error": "Slot not found or not yours"})
	case errors.Is(err, models.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, models.ErrSlotUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": "Slot is no longer available"})
	default:
		h.Logger.Error("Request failed",
			zap.String("request_id", c.GetString(logger.RequestIDKey)),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
