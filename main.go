package main

import (
	"log"
	"time"

	"quizgate/config"
	"quizgate/database"
	"quizgate/middleware"
	"quizgate/routers/courseRoutes"
	"quizgate/routers/quizRoutes"
	"quizgate/services/catalog"
	"quizgate/services/metrics"
	"quizgate/services/notify"
	"quizgate/services/quiz"
	"quizgate/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()
	cfg := config.AppConfig
	db := database.Database.Db

	svc := quiz.NewService(db, quiz.Policy{
		CompletionThreshold: cfg.CompletionThreshold,
		DefaultPassingScore: cfg.DefaultPassingScore,
		BlockDuration:       time.Duration(cfg.BlockDays) * 24 * time.Hour,
	})
	if cfg.CatalogURL != "" {
		log.Printf("Using remote lesson catalog at %s", cfg.CatalogURL)
		svc.Lessons = catalog.New(cfg.CatalogURL)
	}

	var sender notify.Sender = notify.LogSender{}
	if cfg.SendGridAPIKey != "" {
		sender = notify.NewSendGridSender(cfg.SendGridAPIKey, cfg.EmailSender)
	} else {
		log.Println("Warning: SENDGRID_API_KEY not set. Certificate emails are only logged.")
	}
	svc.Notifier = notify.CertificateNotifier{DB: db, Sender: sender}

	if cfg.BlockSweepSchedule != "" {
		sweeper, err := utils.InitializeBlockSweeper(db, cfg.BlockSweepSchedule)
		if err != nil {
			log.Fatalf("Invalid BLOCK_SWEEP_SCHEDULE: %v", err)
		}
		defer sweeper.Stop()
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return middleware.JsonResponse(c, code, false, err.Error(), nil)
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	app.Get("/metrics", metrics.Handler())
	quizRoutes.SetupQuizRoutes(app, svc, cfg.RateLimitMax)
	courseRoutes.SetupCourseRoutes(app, svc)
	courseRoutes.SetupAdminCourseRoutes(app, svc)

	log.Printf("Server is running on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
