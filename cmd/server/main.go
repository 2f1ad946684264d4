package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/handlers"
	"inkwell/internal/logging"
	"inkwell/internal/middleware"
	"inkwell/internal/services"
	"inkwell/pkg/auth"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting Inkwell Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	}

	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s)", cfg.Port)

	if cfg.MongoURI == "" {
		log.Fatal("❌ MONGODB_URI environment variable is required")
	}

	mongoDB, err := database.NewMongoDB(cfg.MongoURI)
	if err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Close(context.Background())

	initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := mongoDB.Initialize(initCtx); err != nil {
		cancel()
		log.Fatalf("❌ Failed to initialize MongoDB indexes: %v", err)
	}
	cancel()

	// JWT auth is mandatory; every content operation is owner-scoped
	if cfg.JWTSecret == "" {
		log.Fatal("❌ JWT_SECRET environment variable is required")
	}
	jwtAuth, err := auth.NewJWTAuth(cfg.JWTSecret, 0, 0)
	if err != nil {
		log.Fatalf("❌ Failed to initialize JWT auth: %v", err)
	}

	// Initialize services
	metrics := services.InitMetrics()
	completionService := services.NewCompletionService(cfg.Completion, metrics)
	fetcherService := services.NewFetcherService(cfg.Fetch, metrics)
	contentStore := services.NewMongoContentStore(mongoDB)
	usageCounter := services.NewMongoUsageCounter(mongoDB)
	contentService := services.NewContentService(completionService, fetcherService, contentStore, usageCounter, metrics)
	userService := services.NewUserService(mongoDB, jwtAuth)
	log.Println("✅ Services initialized")

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Inkwell v1.0",
		ReadTimeout:  180 * time.Second,
		WriteTimeout: 180 * time.Second, // completion calls can run long
		IdleTimeout:  180 * time.Second,
		BodyLimit:    5 * 1024 * 1024, // 5MB is plenty for pasted articles
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// Prometheus metrics middleware
	prometheus := fiberprometheus.New("inkwell")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	// CORS configuration with environment-based origins
	allowedOrigins := cfg.AllowedOrigins
	if allowedOrigins == "" {
		// Default to localhost for development
		allowedOrigins = "http://localhost:5173,http://localhost:3000"
		log.Println("⚠️  ALLOWED_ORIGINS not set, using development defaults")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: allowedOrigins != "*",
	}))

	// Global API rate limiter
	rateLimitConfig := middleware.DefaultRateLimitConfig(cfg.Environment)
	app.Use("/api", middleware.GlobalAPIRateLimiter(rateLimitConfig))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(mongoDB)
	authHandler := handlers.NewAuthHandler(userService)
	contentHandler := handlers.NewContentHandler(contentService)

	// Routes
	app.Get("/health", healthHandler.Handle)

	api := app.Group("/api")
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)

	requireAuth := middleware.RequireAuth(jwtAuth)
	api.Get("/users/me", requireAuth, authHandler.Me)

	content := api.Group("/content", requireAuth)
	aiLimiter := middleware.AIOperationRateLimiter(rateLimitConfig)
	content.Post("/generate", aiLimiter, contentHandler.Generate)
	content.Post("/summarize", aiLimiter, contentHandler.Summarize)
	content.Get("/history", contentHandler.History)
	content.Get("/export", contentHandler.Export)
	content.Put("/:id", contentHandler.Update)
	content.Delete("/:id", contentHandler.Delete)

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
