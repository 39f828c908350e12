package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stayscape/hotel-reservation-backend/internal/config"
	"github.com/stayscape/hotel-reservation-backend/internal/database"
	"github.com/stayscape/hotel-reservation-backend/internal/handlers"
	"github.com/stayscape/hotel-reservation-backend/internal/middleware"
	"github.com/stayscape/hotel-reservation-backend/internal/services"
	"github.com/stayscape/hotel-reservation-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting StayScape Hotel Reservation Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize repositories
	userRepository := database.NewUserRepository(db)
	hotelRepository := database.NewHotelRepository(db)
	bookingRepository := database.NewBookingRepository(db)
	sessionRepository := database.NewUserSessionRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	cacheService, err := services.NewCacheService(cfg.Redis, logger)
	if err != nil {
		logger.Fatalf("Failed to connect to redis: %v", err)
	}
	if cacheService != nil {
		defer cacheService.Close()
		logger.Info("Redis cache enabled")
	} else {
		logger.Info("Running without cache (REDIS_ADDR not set)")
	}

	authService := services.NewAuthService(
		userRepository,
		sessionRepository,
		jwtService,
		cfg.Security.BcryptCost,
		logger,
	)
	hotelService := services.NewHotelService(hotelRepository, cacheService, logger)
	bookingService := services.NewBookingService(bookingRepository, hotelRepository, logger)
	ownerRequestService := services.NewOwnerRequestService(userRepository, cfg.OwnerAccess, logger)
	logger.Info("Services initialized")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, logger)
	hotelHandler := handlers.NewHotelHandler(hotelService, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	ownerRequestHandler := handlers.NewOwnerRequestHandler(ownerRequestService, logger)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	requireAuth := middleware.AuthMiddleware(jwtService, userRepository)
	optionalAuth := middleware.OptionalAuthMiddleware(jwtService, userRepository)

	// API routes
	api := router.Group("/api")
	{
		// Authentication routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)

			// Protected routes (require JWT authentication)
			protected := auth.Group("")
			protected.Use(requireAuth)
			{
				protected.GET("/me", authHandler.Me)
				protected.PUT("/profile", authHandler.UpdateProfile)
				protected.PUT("/password", authHandler.ChangePassword)
				protected.GET("/sessions", authHandler.Sessions)

				protected.POST("/request-owner-access", ownerRequestHandler.Request)
				protected.GET("/my-owner-request", ownerRequestHandler.MyRequest)
			}

			// Owner request review (admin only)
			admin := auth.Group("")
			admin.Use(requireAuth, middleware.RequireAdmin())
			{
				admin.GET("/owner-requests", ownerRequestHandler.List)
				admin.POST("/approve-owner-request/:userId", ownerRequestHandler.Approve)
				admin.POST("/reject-owner-request/:userId", ownerRequestHandler.Reject)
			}
		}

		// Hotel routes
		hotels := api.Group("/hotels")
		{
			// Public routes (no authentication)
			hotels.GET("", hotelHandler.Search)
			hotels.GET("/cities/list", hotelHandler.Cities)

			// Public detail; owners and admins also see inactive hotels
			hotels.GET("/:id", optionalAuth, hotelHandler.Get)

			// Hotel management (approved owners and admins)
			owner := hotels.Group("")
			owner.Use(requireAuth, middleware.RequireOwner())
			{
				owner.POST("", hotelHandler.Create)
				owner.GET("/my-hotels", hotelHandler.MyHotels)
				owner.PUT("/:id", hotelHandler.Update)
				owner.DELETE("/:id", hotelHandler.Delete)
				owner.PATCH("/:id/toggle-status", hotelHandler.ToggleStatus)
			}

			// Admin listing of another owner's hotels
			hotels.GET("/owner/:ownerId", requireAuth, middleware.RequireAdmin(), hotelHandler.ByOwner)
		}

		// Booking routes (all protected)
		bookings := api.Group("/bookings")
		bookings.Use(requireAuth)
		{
			bookings.POST("", bookingHandler.Create)
			bookings.GET("", bookingHandler.List)
			bookings.GET("/:id", bookingHandler.Get)
			bookings.PUT("/:id/cancel", bookingHandler.Cancel)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if userCtx, exists := middleware.GetUserContext(c); exists {
			fields["user_id"] = userCtx.UserID
			fields["role"] = userCtx.Role
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
			return
		}

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
