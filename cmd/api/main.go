package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/auth"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/config"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/database"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/domain"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/handler"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/middleware"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/repository"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/service"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/storage"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Initialize MinIO client
	minioClient, err := storage.NewMinIOClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to MinIO: %v", err)
	}

	// Initialize JWT service
	jwtService := auth.NewJWTService(cfg)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	authRepo := repository.NewAuthRepository(db)
	questionnaireRepo := repository.NewQuestionnaireRepository(db)
	qrRepo := repository.NewQRCodeRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// Initialize services
	sentimentService := service.NewSentimentService()
	analyticsService := service.NewAnalyticsService(reviewRepo)
	qrService := service.NewQRService(minioClient, cfg.QR.ScanBaseURL)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userRepo, authRepo, jwtService)
	profileHandler := handler.NewProfileHandler(userRepo)
	questionnaireHandler := handler.NewQuestionnaireHandler(questionnaireRepo, userRepo)
	qrCodeHandler := handler.NewQRCodeHandler(qrRepo, questionnaireRepo, qrService)
	wsHandler := handler.NewWebSocketHandler()
	scanHandler := handler.NewScanHandler(qrRepo, questionnaireRepo, reviewRepo, sentimentService, wsHandler)
	reviewHandler := handler.NewReviewHandler(reviewRepo, questionnaireRepo)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, questionnaireRepo)
	exportHandler := handler.NewExportHandler(reviewRepo, questionnaireRepo)
	adminHandler := handler.NewAdminHandler(userRepo, questionnaireRepo, qrRepo, reviewRepo, authRepo)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, db)
	planMiddleware := middleware.NewPlanMiddleware()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"error": fiber.Map{
					"code":    "INTERNAL_ERROR",
					"message": err.Error(),
				},
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.CORS.Origins, ","),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
	}))

	// Public scan routes, outside the API prefix so QR URLs stay short
	app.Get("/q/:code", scanHandler.Scan)
	app.Get("/q/:code/form", scanHandler.GetForm)
	app.Post("/q/:code/reviews", scanHandler.SubmitReview)

	// API v1 routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth routes
	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/refresh", authHandler.Refresh)
	authRoutes.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authRoutes.Post("/logout-all", authMiddleware.Required(), authHandler.LogoutAll)
	authRoutes.Get("/sessions", authMiddleware.Required(), authHandler.GetSessions)
	authRoutes.Delete("/sessions/:session_id", authMiddleware.Required(), authHandler.DeleteSession)

	// Profile routes (me)
	api.Get("/me", authMiddleware.Required(), profileHandler.GetMe)
	api.Patch("/me", authMiddleware.Required(), profileHandler.UpdateMe)
	api.Patch("/me/password", authMiddleware.Required(), profileHandler.UpdatePassword)

	// Questionnaire routes
	questionnaireRoutes := api.Group("/questionnaires")
	questionnaireRoutes.Get("/", authMiddleware.Required(), questionnaireHandler.List)
	questionnaireRoutes.Post("/", authMiddleware.Required(), questionnaireHandler.Create)
	questionnaireRoutes.Get("/quota", authMiddleware.Required(), questionnaireHandler.GetQuota)
	questionnaireRoutes.Get("/:id", authMiddleware.Required(), questionnaireHandler.GetByID)
	questionnaireRoutes.Patch("/:id", authMiddleware.Required(), questionnaireHandler.Update)
	questionnaireRoutes.Delete("/:id", authMiddleware.Required(), questionnaireHandler.Delete)

	// Question routes
	questionnaireRoutes.Post("/:id/questions", authMiddleware.Required(), questionnaireHandler.CreateQuestion)
	questionnaireRoutes.Patch("/:id/questions/:question_id", authMiddleware.Required(), questionnaireHandler.UpdateQuestion)
	questionnaireRoutes.Delete("/:id/questions/:question_id", authMiddleware.Required(), questionnaireHandler.DeleteQuestion)
	questionnaireRoutes.Put("/:id/questions/reorder", authMiddleware.Required(), questionnaireHandler.ReorderQuestions)

	// QR code routes
	questionnaireRoutes.Get("/:id/qrcodes", authMiddleware.Required(), qrCodeHandler.List)
	questionnaireRoutes.Post("/:id/qrcodes", authMiddleware.Required(), qrCodeHandler.Create)
	qrRoutes := api.Group("/qrcodes", authMiddleware.Required())
	qrRoutes.Get("/statistics", qrCodeHandler.GetStatistics)
	qrRoutes.Get("/:qr_id", qrCodeHandler.GetByID)
	qrRoutes.Patch("/:qr_id", qrCodeHandler.Update)
	qrRoutes.Delete("/:qr_id", qrCodeHandler.Delete)
	qrRoutes.Post("/:qr_id/regenerate", qrCodeHandler.Regenerate)

	// Review routes (owner dashboard)
	questionnaireRoutes.Get("/:id/reviews", authMiddleware.Required(), reviewHandler.List)
	questionnaireRoutes.Get("/:id/reviews/stats", authMiddleware.Required(), reviewHandler.GetStats)
	questionnaireRoutes.Patch("/:id/reviews/:review_id/status", authMiddleware.Required(), reviewHandler.UpdateStatus)

	// Public direct submission, e.g. from a shared link
	questionnaireRoutes.Post("/:id/reviews", scanHandler.SubmitDirect)

	// Analytics routes
	questionnaireRoutes.Get("/:id/analytics", authMiddleware.Required(), analyticsHandler.GetSummary)

	// Export routes (plan-gated)
	questionnaireRoutes.Get("/:id/export",
		authMiddleware.Required(),
		planMiddleware.RequireFeature(domain.FeatureExport),
		exportHandler.ExportReviews)

	// Live review feed
	api.Use("/ws", wsHandler.WebSocketUpgrade(authMiddleware))
	api.Get("/ws", websocket.New(wsHandler.HandleWebSocket))

	// Admin routes
	adminRoutes := api.Group("/admin", authMiddleware.Required(), authMiddleware.AdminOnly())
	adminRoutes.Get("/stats", adminHandler.GetPlatformStats)
	adminRoutes.Get("/users", adminHandler.ListUsers)
	adminRoutes.Post("/users/:user_id/activate", adminHandler.SetUserActive(true))
	adminRoutes.Post("/users/:user_id/deactivate", adminHandler.SetUserActive(false))
	adminRoutes.Patch("/users/:user_id/plan", adminHandler.ChangeUserPlan)
	adminRoutes.Post("/qrcodes/cleanup", adminHandler.CleanupExpiredQRCodes)
	adminRoutes.Post("/tokens/cleanup", adminHandler.CleanupExpiredTokens)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	log.Printf("Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
