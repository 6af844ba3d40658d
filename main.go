package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"quetest-service/internal/config"
	"quetest-service/internal/db"
	"quetest-service/internal/event"
	"quetest-service/internal/handlers"
	"quetest-service/internal/models"
	"quetest-service/internal/repository"
	"quetest-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := db.InitMongo(cfg.MongoURI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close()
	database := db.Client.Database(cfg.MongoDB)

	// RabbitMQ event publisher
	var events service.EventSink
	if cfg.RabbitURI != "" && cfg.RabbitExchange != "" {
		publisher, err := event.NewPublisher(cfg.RabbitURI, cfg.RabbitExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
		events = publisher
	} else {
		log.Println("RabbitMQ not configured, lifecycle events will not be published")
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Repositories, services, handlers
	questionRepo := repository.NewQuestionRepository(database)
	sessionRepo := repository.NewSessionRepository(database)
	resultRepo := repository.NewResultRepository(database)

	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	admins := service.NewStaticAdminStore(cfg.Admins)

	questionService := service.NewQuestionService(questionRepo)
	authService := service.NewAuthService(sessionRepo, questionRepo, admins, tokens, cfg.RequireTestcode)
	resultService := service.NewResultService(resultRepo, sessionRepo, cfg.LegacyScoring)

	authHandler := handlers.NewAuthHandler(authService, events)
	questionHandler := handlers.NewQuestionHandler(questionService, authService, events)
	resultHandler := handlers.NewResultHandler(resultService, events)
	adminHandler := handlers.NewAdminHandler(questionService, resultService)

	// Background test-code rotation
	rotation := service.NewRotationService(questionRepo, cfg.RotationInterval, events)
	rotation.Start(context.Background())
	defer rotation.Stop()

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "api is running")
	})

	api := r.Group("/api")
	{
		api.POST("/user/auth", authHandler.RegisterStudent)
		api.POST("/admin/auth", authHandler.AdminLogin)

		api.POST("/question/uploading/page",
			handlers.RequireAuth(tokens, models.RoleAdmin),
			questionHandler.UploadQuestions)
		api.POST("/admin/db",
			handlers.RequireAuth(tokens, models.RoleAdmin),
			adminHandler.Dashboard)

		api.POST("/test/page",
			handlers.RequireAuth(tokens, models.RoleStudent),
			questionHandler.FetchAssigned)
		api.POST("/score/page",
			handlers.RequireAuth(tokens, models.RoleStudent),
			resultHandler.SubmitResult)
	}

	log.Printf("server is running on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
