package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/myhireapp/myhire-api/internal/config"
	"github.com/myhireapp/myhire-api/internal/domain/fiber/handler"
	"github.com/myhireapp/myhire-api/internal/middleware"
	"github.com/myhireapp/myhire-api/internal/model"
	"github.com/myhireapp/myhire-api/internal/repository"
	"github.com/myhireapp/myhire-api/internal/service"
	"github.com/myhireapp/myhire-api/internal/usecase"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	ctx := context.Background()
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()

	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}
			return ctx.Status(code).JSON(fiber.Map{"error": message})
		},
	})
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: appConfig.Env != "production",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return config.LoadAppConfig().Env != "production"
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, 1*time.Minute))

	db := ConnectDB()

	userRepo := repository.NewUserRepository(db)
	jobRepo := repository.NewJobRepository(db)
	importRepo := repository.NewImportRepository(db)
	cvRepo := repository.NewCVRepository(db)

	fetcher := service.NewFetchService()
	llm := service.NewOpenAIService()

	// Embeddings power the related-jobs search only; the server runs fine
	// without them.
	var embedder service.GeminiServiceInterface
	if gemini, err := service.NewGeminiService(ctx); err != nil {
		log.Println("Related-jobs embeddings disabled:", err)
	} else {
		embedder = gemini
	}

	importUC := usecase.NewImportUsecase(importRepo, jobRepo, cvRepo, fetcher, llm, embedder)
	jobUC := usecase.NewJobUsecase(jobRepo, embedder)
	authUC := usecase.NewAuthUsecase(userRepo)
	cvUC := usecase.NewCVUsecase(cvRepo)

	importHandler := handler.NewImportHandler(importUC)
	jobHandler := handler.NewJobHandler(jobUC)
	authHandler := handler.NewAuthHandler(authUC)
	cvHandler := handler.NewCVHandler(cvUC)

	api := app.Group("/api")
	api.Post("/auth/register", middleware.RateLimiter(10, 1*time.Minute), authHandler.Register)
	api.Post("/auth/login", middleware.RateLimiter(10, 1*time.Minute), authHandler.Login)

	authed := api.Group("", middleware.RequireAuth(userRepo))
	authed.Post("/import", middleware.RateLimiter(5, 1*time.Minute), importHandler.Import)
	authed.Get("/jobs", jobHandler.List)
	authed.Get("/jobs/:id", jobHandler.Get)
	authed.Patch("/jobs/:id/status", jobHandler.UpdateStatus)
	authed.Get("/jobs/:id/similar", jobHandler.Similar)
	authed.Post("/overdue", jobHandler.SweepOverdue)
	authed.Post("/cv", cvHandler.Upload)
	authed.Get("/cv", cvHandler.Latest)

	log.Println("Server running on ", appConfig.Port)
	if err := app.Listen(appConfig.Port); err != nil {
		log.Fatal(err)
	}
}

func ConnectDB() *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		dbConfig.Host,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Port,
		dbConfig.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		log.Fatalf("Could not get database instance: %v", err)
	}
	if appConfig.Env != "production" {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.JobImport{},
		&model.JobApplication{},
		&model.CVProfile{},
	)
	if err != nil {
		log.Fatal("migration failed: ", err)
	}
	return db
}
