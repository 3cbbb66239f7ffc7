package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tutoring_back_end_go/auth"
	"tutoring_back_end_go/config"
	"tutoring_back_end_go/db"
	"tutoring_back_end_go/jobs"
	"tutoring_back_end_go/logger"
	"tutoring_back_end_go/notify"
	"tutoring_back_end_go/routes"
	"tutoring_back_end_go/services"
	"tutoring_back_end_go/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger := logger.New(cfg.Environment)
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	pool, err := db.InitDatabase(ctx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to the database", zap.Error(err))
	}
	defer pool.Close()

	st := store.New(pool)
	clock := func() time.Time { return time.Now().In(cfg.Location) }
	hub := notify.NewHub(cfg.CORSOrigins, zapLogger)

	var mailer services.Mailer
	if m := notify.NewMailer(cfg.Mail); m != nil {
		mailer = m
	} else {
		zapLogger.Info("SendGrid not configured, contact messages will not be forwarded")
	}

	handlers := &routes.Handlers{
		Accounts:     services.NewAccountService(st, zapLogger),
		Registration: services.NewRegistrationService(st, st, cfg.StrictRegistration, zapLogger),
		Availability: services.NewAvailabilityService(st, clock, zapLogger),
		Bookings:     services.NewBookingService(st, st, hub, cfg.TransactionalBooking, zapLogger),
		Reviews:      services.NewReviewService(st, zapLogger),
		Tutors:       services.NewTutorService(st, zapLogger),
		Contact:      services.NewContactService(st, mailer, cfg.Mail.ContactInbox, zapLogger),
		Hub:          hub,
		DB:           pool,
		Sessions:     auth.NewSessions(cfg.Session),
		Logger:       zapLogger,
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(zapLogger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Initialize routes
	routes.Setup(r, handlers)
	routes.SetupStaticRoutes(r, cfg.PublicDir)

	completer := jobs.NewLessonCompleter(st, cfg.LessonCompletionInterval, clock, zapLogger)
	completer.Start(ctx)
	defer completer.Stop()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zapLogger.Info("Server starting",
			zap.String("port", cfg.Port),
			zap.Bool("transactional_booking", cfg.TransactionalBooking),
			zap.Bool("strict_registration", cfg.StrictRegistration))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server shutdown failed", zap.Error(err))
	}
}
