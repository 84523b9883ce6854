package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/postgenio/api/configs"
	"github.com/postgenio/api/internal/api/handlers"
	"github.com/postgenio/api/internal/api/middleware"
	job "github.com/postgenio/api/internal/jobs"
	"github.com/postgenio/api/internal/queue"
	"github.com/postgenio/api/internal/repository"
	"github.com/postgenio/api/internal/service"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	companyProfileRepo := repository.NewCompanyProfileRepository(db)
	generatedPostRepo := repository.NewGeneratedPostRepository(db)
	scheduledPostRepo := repository.NewScheduledPostRepository(db)
	publishRecordRepo := repository.NewPublishRecordRepository(db)
	mediaAssetRepo := repository.NewMediaAssetRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	apiKeyRepository := repository.NewApiKeyRepository(db)

	graphClient := service.NewGraphClient(cfg.GraphBaseURL)

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo)
	subscriptionService := service.NewSubscriptionService(*cfg, userRepo, subscriptionRepo)
	instagramService := service.NewInstagramService(*cfg, graphClient, companyProfileRepo)
	publishService := service.NewPublishService(*cfg, graphClient, scheduledPostRepo, generatedPostRepo, companyProfileRepo, publishRecordRepo)
	postService := service.NewPostService(generatedPostRepo, scheduledPostRepo, subscriptionService)
	mediaService := service.NewMediaService(*cfg, mediaAssetRepo)
	profileService := service.NewProfileService(companyProfileRepo)
	apiKeyService := service.NewApiKeyService(apiKeyRepository)

	authMiddleware := middleware.NewAuthMiddleware(*cfg, apiKeyService)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)

	instagram := handlers.NewInstagramHandler(*cfg, instagramService)
	app.Get("/auth/instagram", authMiddleware.AuthMiddleware(), instagram.AddInstagram)
	app.Get("/auth/instagram/callback", instagram.CallbackHandler)

	payment := handlers.NewPaymentHandler(subscriptionService)
	app.Post("/payment/webhook", payment.PaymentWebhook)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.GetUserInfo)

	profile := handlers.NewProfileHandler(profileService)
	api.Get("/profile/info", profile.GetProfile)
	api.Post("/profile/update", profile.UpdateProfile)

	api.Post("/instagram/connect", instagram.Connect)
	api.Post("/instagram/refresh", instagram.Refresh)
	api.Post("/instagram/status", instagram.Status)
	api.Post("/instagram/disconnect", instagram.Disconnect)

	apiKeys := handlers.NewApiKeyHandler(apiKeyService)
	api.Post("/api_key/new", apiKeys.CreateApiKey)
	api.Get("/api_key/list", apiKeys.ListKeys)
	api.Post("/api_key/remove", apiKeys.RemoveAPIKey)

	post := handlers.NewPostHandler(postService, publishService, client)
	api.Post("/posts/generated", post.CreateGeneratedPost)
	api.Get("/posts/generated", post.ListGeneratedPosts)
	api.Post("/posts/schedule", post.SchedulePost)
	api.Post("/posts/publish", post.Publish)
	api.Get("/posts", post.ListPosts)
	api.Post("/posts/remove", post.RemovePost)

	media := handlers.NewMediaHandler(mediaService)
	api.Post("/media/upload", media.Upload)

	// cron jobs
	refreshTokenJob := job.NewTokenRefreshJob(companyProfileRepo, instagramService)

	//queue
	queueW := queue.NewQueue(publishService)

	c := cron.New()
	c.AddFunc("@every 06h00m00s", refreshTokenJob.RefreshTokens)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypePublishScheduledPost, queueW.HandleSchedulePostTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
