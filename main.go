package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tokorating/internal/handlers"
	"tokorating/internal/middleware"
	"tokorating/internal/models"
	"tokorating/internal/repositories"
	"tokorating/internal/services"
	"tokorating/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=tokorating port=5432 sslmode=disable")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	databaseDSN := viper.GetString("DATABASE_DSN")
	jwtSecret := viper.GetString("JWT_SECRET")
	tokenDuration := time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour
	rabbitMQURL := viper.GetString("RABBITMQ_URL")

	// The signing secret is process-wide configuration, never a literal.
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// --- Database ---
	db, err := gorm.Open(postgres.Open(databaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Store{}, &models.Rating{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- RabbitMQ (optional: empty URL disables eventing) ---
	var mqClient *rabbitmq.Client
	var publisher services.EventPublisher
	if rabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		publisher = mqClient
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	storeRepo := repositories.NewGORMStoreRepository(db)
	ratingRepo := repositories.NewGORMRatingRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, jwtSecret, tokenDuration)
	userService := services.NewUserService(userRepo, storeRepo, ratingRepo)
	storeService := services.NewStoreService(storeRepo, userRepo, ratingRepo)
	ratingService := services.NewRatingService(ratingRepo, storeRepo, userRepo, publisher)
	dashboardService := services.NewDashboardService(userRepo, storeRepo, ratingRepo, storeService)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, storeService, ratingService)
	storeHandler := handlers.NewStoreHandler(storeService, ratingService)
	storeOwnerHandler := handlers.NewStoreOwnerHandler(storeService)
	adminHandler := handlers.NewAdminHandler(userService, storeService, dashboardService)

	// --- Fiber App ---
	app := fiber.New()
	app.Use(logger.New())

	// --- API Routes, grouped by audience. Each guard is scoped to its own
	// path prefix; /api itself stays open so the public listings work
	// without a token. ---
	api := app.Group("/api")
	authRequired := middleware.AuthRequired(authService)

	authHandler.RegisterRoutes(api)
	storeHandler.RegisterRoutes(api, authRequired)
	userHandler.RegisterRoutes(api, authRequired)
	storeOwnerHandler.RegisterRoutes(api, authRequired, middleware.RequireRole(models.RoleStoreOwner))
	adminHandler.RegisterRoutes(api, authRequired, middleware.RequireRole(models.RoleAdmin))

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Rating event consumer ---
	if mqClient != nil {
		log.Println("Starting RabbitMQ consumer for rating events...")
		messageHandler := func(msg amqp.Delivery) error {
			log.Printf("Received rating event (Tag: %d): %s", msg.DeliveryTag, string(msg.Body))
			return nil
		}
		if consumerErr := mqClient.ConsumeRatingEvents(messageHandler); consumerErr != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
		}
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}
