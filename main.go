package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	amqp "github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"ternak/internal/config"
	"ternak/internal/handlers"
	"ternak/internal/middleware"
	"ternak/internal/models"
	"ternak/internal/repositories"
	"ternak/internal/services"
	"ternak/internal/storage"
	"ternak/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg := config.Load()

	// --- Database ---
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Goat{}, &models.Image{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Blob storage ---
	blobs, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize upload directory: %v", err)
	}

	// --- RabbitMQ (optional) ---
	// The marketplace works without a broker; listing events are then skipped.
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, listing events disabled: %v", err)
			mqClient = nil
		} else {
			defer mqClient.Close()

			// Log-and-ack consumer so listing events are visible even when
			// no downstream worker is attached to the queue.
			err = mqClient.ConsumeListingEvents(func(msg amqp.Delivery) error {
				log.Printf("Received %s event: %s", msg.Type, msg.Body)
				return nil
			})
			if err != nil {
				log.Printf("Warning: failed to start listing event consumer: %v", err)
			}
		}
	}

	// --- Initialize Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	goatRepo := repositories.NewGORMGoatRepository(db)
	imageRepo := repositories.NewGORMImageRepository(db)

	// --- Initialize Services ---
	authService := services.NewAuthService(userRepo, cfg.JWTSecret)
	farmService := services.NewFarmService(userRepo)
	imageService := services.NewImageService(imageRepo, blobs)
	var publisher services.EventPublisher
	if mqClient != nil {
		publisher = mqClient
	}
	goatService := services.NewGoatService(goatRepo, userRepo, imageRepo, imageService, publisher)

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	goatHandler := handlers.NewGoatHandler(goatService)
	farmHandler := handlers.NewFarmHandler(farmService)
	uploadHandler := handlers.NewUploadHandler(imageService)

	// --- Initialize Fiber App ---
	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024, // base64 image batches get large
	})

	// --- Middleware ---
	app.Use(logger.New()) // Request logger

	// --- Routes ---
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Goat marketplace API is running")
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.Ping() != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unhealthy",
			})
		}
		return c.JSON(fiber.Map{
			"status": "healthy",
		})
	})

	authHandler.RegisterRoutes(app)
	goatHandler.RegisterRoutes(app)
	farmHandler.RegisterRoutes(app)
	uploadHandler.RegisterRoutes(app)

	// Stored image blobs are served straight from the upload directory.
	app.Static("/uploads", cfg.UploadDir)

	// Authenticated profile endpoint.
	app.Get("/api/me", middleware.AuthRequired(authService), farmHandler.HandleCurrentFarm)

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}
