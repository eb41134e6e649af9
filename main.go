package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"lifeline/config"
	"lifeline/database"
	"lifeline/models"
	"lifeline/repositories"
	"lifeline/routes"
	"lifeline/services"
	"lifeline/websocket"
	"lifeline/workers"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize configuration
	cfg := config.Load()

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize logger
	setupLogger(cfg)

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logrus.Fatal("Failed to connect to database: ", err)
	}
	defer database.Disconnect()

	// Initialize Redis
	redisClient := config.InitRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	logRepo := repositories.NewEventLogRepository(db)
	contactRepo := repositories.NewContactRepository(db)
	monitorRepo := repositories.NewMonitorStateRepository(db)
	settingsRepo := repositories.NewSettingsRepository(db)

	// Initialize WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Load persisted settings and contacts
	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer bootCancel()

	settings := models.DefaultSettings()
	if persisted, err := settingsRepo.Load(bootCtx); err != nil {
		logrus.Warnf("Failed to load settings, using defaults: %v", err)
	} else if persisted != nil {
		settings = *persisted
	}

	contacts, err := contactRepo.GetAll(bootCtx)
	if err != nil {
		logrus.Warnf("Failed to load contacts: %v", err)
	}

	// Initialize services
	clock := services.SystemClock()
	feedback := services.NewFeedbackService()
	feedback.SetBroadcaster(hub)

	activityLog := services.NewActivityLog(clock)
	activityLog.SetSink(logRepo)
	activityLog.SetBroadcaster(hub)

	dispatch := services.NewDispatchService(clock, activityLog, feedback)
	dispatch.SetBroadcaster(hub)
	dispatch.RegisterSender(models.ChannelSMS, services.NewSMSService(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber))
	dispatch.RegisterSender(models.ChannelCall, services.NewCallService(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber))
	dispatch.RegisterSender(models.ChannelEmail, services.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom))

	tracking := services.NewTrackingService(services.DefaultBroadcastPeriod, activityLog)
	tracking.SetBroadcaster(hub)

	compose := services.NewComposeService(cfg.GeminiAPIKey)
	push := services.NewPushService(bootCtx, cfg.FirebaseCredentials, cfg.FirebaseDeviceToken)
	auth := services.NewAuthService(cfg.PinCode, cfg.JWTSecret, feedback)

	guardian := services.NewGuardianService(
		clock, settings, contacts,
		activityLog, dispatch, tracking, compose, push, feedback, auth,
	)
	guardian.SetBroadcaster(hub)
	guardian.SetMonitorStore(monitorRepo)
	guardian.SetContactStore(contactRepo)
	guardian.SetSettingsStore(settingsRepo)

	// Restore state so deadlines survive a restart
	if state, err := monitorRepo.Load(bootCtx); err != nil {
		logrus.Warnf("Failed to load monitor state: %v", err)
	} else {
		guardian.Restore(state)
	}

	// Start the deadline tick
	monitorWorker := workers.NewMonitorWorker(guardian, clock)
	monitorWorker.Start()

	// Setup routes
	router := routes.SetupRoutes(routes.Dependencies{
		Environment: cfg.Environment,
		Guardian:    guardian,
		Auth:        auth,
		Log:         activityLog,
		Dispatch:    dispatch,
		Clock:       clock,
		Redis:       redisClient,
		Hub:         hub,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// Start server in goroutine
	go func() {
		logrus.Info("🚀 LifeLine Safety Server starting on port ", cfg.Port)
		logrus.Info("📱 WebSocket endpoint: /ws")
		logrus.Info("💖 Health Check: /health")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatal("Failed to start server: ", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Fatal("Server forced to shutdown: ", err)
	}

	monitorWorker.Stop()
	tracking.Stop()
	dispatch.Wait()

	logrus.Info("✅ Server shutdown complete")
}

func setupLogger(cfg *config.Config) {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	if cfg.Environment == "development" {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}
