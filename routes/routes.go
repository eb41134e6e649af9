package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"lifeline/controllers"
	"lifeline/middleware"
	"lifeline/services"
	"lifeline/websocket"
)

// Dependencies are the assembled services the routes are wired to.
type Dependencies struct {
	Environment string

	Guardian *services.GuardianService
	Auth     *services.AuthService
	Log      *services.ActivityLog
	Dispatch *services.DispatchService
	Clock    services.Clock

	Redis *redis.Client
	Hub   *websocket.Hub
}

// SetupRoutes initializes all application routes
func SetupRoutes(deps Dependencies) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORSMiddleware(deps.Environment))

	// Initialize controllers
	monitorController := controllers.NewMonitorController(deps.Guardian, deps.Log, deps.Dispatch)
	contactController := controllers.NewContactController(deps.Guardian)
	sensorController := controllers.NewSensorController(deps.Guardian, deps.Clock)
	authController := controllers.NewAuthController(deps.Auth)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "lifeline",
			"state":   deps.Guardian.State(),
		})
	})

	// WebSocket endpoint for live state, log and dispatch events
	router.GET("/ws", websocket.ServeWS(deps.Hub))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimit(deps.Redis, middleware.DefaultRateLimitConfig()))
	{
		setupMonitorRoutes(v1, monitorController, deps.Redis)
		setupContactRoutes(v1, contactController)
		setupSensorRoutes(v1, sensorController)
		setupAuthRoutes(v1, authController)
	}

	return router
}

func setupMonitorRoutes(rg *gin.RouterGroup, mc *controllers.MonitorController, redisClient *redis.Client) {
	monitor := rg.Group("/monitor")
	{
		// State-changing intents get the stricter limiter
		intents := monitor.Group("")
		intents.Use(middleware.RateLimit(redisClient, middleware.IntentRateLimitConfig()))
		{
			intents.POST("/checkin", mc.CheckIn)
			intents.POST("/sos", mc.TriggerSOS)
			intents.POST("/reset", mc.Reset)
		}

		monitor.GET("/status", mc.GetStatus)
		monitor.GET("/logs", mc.GetLogs)
		monitor.GET("/dispatches", mc.GetDispatches)
		monitor.GET("/settings", mc.GetSettings)
		monitor.PUT("/settings", mc.UpdateSettings)
	}
}

func setupContactRoutes(rg *gin.RouterGroup, cc *controllers.ContactController) {
	contacts := rg.Group("/contacts")
	{
		contacts.GET("", cc.GetContacts)
		contacts.POST("", cc.CreateContact)
		contacts.PUT("/:contactId", cc.UpdateContact)
		contacts.DELETE("/:contactId", cc.DeleteContact)
	}
}

func setupSensorRoutes(rg *gin.RouterGroup, sc *controllers.SensorController) {
	sensors := rg.Group("/sensors")
	{
		sensors.POST("/location", sc.UpdateLocation)
		sensors.POST("/battery", sc.UpdateBattery)
		sensors.POST("/recording", sc.UpdateRecording)
	}
}

func setupAuthRoutes(rg *gin.RouterGroup, ac *controllers.AuthController) {
	auth := rg.Group("/auth")
	{
		auth.POST("/verify-pin", ac.VerifyPIN)
	}
}
