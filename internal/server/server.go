// Package server wires services, handlers and middleware into the gateway's
// HTTP router.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"merlin/internal/config"
	"merlin/internal/handlers"
	"merlin/internal/middleware"
	"merlin/internal/services"

	_ "merlin/internal/docs" // Import swagger docs
)

// Services groups the gateway's service layer.
type Services struct {
	Sessions    services.SessionServicer
	Assessments services.AssessmentServicer
	Entries     services.EntryServicer
	Advice      services.AdviceServicer
	Audit       services.AuditServicer
}

// NewServices builds the service layer on top of the session store and the
// finance backend client.
func NewServices(db *gorm.DB, backend services.BackendClient, vault *services.TokenVault) Services {
	audit := services.NewAuditService(db)
	return Services{
		Sessions:    services.NewSessionService(db, backend, vault, audit),
		Assessments: services.NewAssessmentService(backend, audit),
		Entries:     services.NewEntryService(backend, audit),
		Advice:      services.NewAdviceService(backend),
		Audit:       audit,
	}
}

// NewRouter returns the gateway's gin engine with every route registered.
func NewRouter(cfg *config.Config, svc Services) *gin.Engine {
	authHandler := handlers.NewAuthHandler(svc.Sessions, cfg.JWTSecret, cfg.JWTExpirationDur)
	assessmentHandler := handlers.NewAssessmentHandler(svc.Assessments, cfg.CurrencySymbol)
	entryHandler := handlers.NewEntryHandler(svc.Entries, cfg.CurrencySymbol)
	adviceHandler := handlers.NewAdviceHandler(svc.Advice)
	activityHandler := handlers.NewActivityHandler(svc.Audit, svc.Sessions)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogging())
	router.NoRoute(middleware.NoRoute())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	if !cfg.IsProduction() {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	v1.GET("/session", middleware.OptionalSession(cfg.JWTSecret), authHandler.GetSession)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret, svc.Sessions))

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/profile", authHandler.GetProfile)
	protected.GET("/activity", activityHandler.ListActivity)

	assessments := protected.Group("/assessments")
	assessments.GET("", assessmentHandler.ListAssessments)
	assessments.POST("", assessmentHandler.CreateAssessment)
	assessments.DELETE("/:id", assessmentHandler.DeleteAssessment)
	assessments.GET("/:id/details", assessmentHandler.GetAssessmentDetails)
	assessments.GET("/:id/entries", entryHandler.ListEntries)
	assessments.POST("/:id/entries", entryHandler.CreateEntry)
	assessments.GET("/:id/advice", adviceHandler.GetAdvice)
	assessments.POST("/:id/advice", adviceHandler.GenerateAdvice)

	protected.DELETE("/entries/:id", entryHandler.DeleteEntry)
	protected.POST("/advice/selected", adviceHandler.SelectedAdvice)

	// Admin routes (API key auth)
	admin := v1.Group("/admin")
	admin.Use(middleware.AdminKeyMiddleware(cfg.AdminAPIKey))
	admin.POST("/sessions/refresh", activityHandler.RefreshSessions)

	return router
}
