package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"kudos/internal/adapter/api"
	"kudos/internal/adapter/api/handler"
	apimiddleware "kudos/internal/adapter/api/middleware"
	"kudos/internal/adapter/api/router"
	"kudos/internal/adapter/repository"
	"kudos/internal/infrastructure/filestore"
	"kudos/internal/infrastructure/mailer"
	"kudos/internal/infrastructure/ratelimit"
	"kudos/internal/infrastructure/scheduler"
	"kudos/internal/usecase"
	"kudos/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := filestore.NewStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize data directory: %v", err)
	}

	reviewRepo := repository.NewFileReviewRepository(store)
	tokenRepo := repository.NewFileTokenRepository(store)

	clientLimiter := ratelimit.NewLimiter(store, "client", cfg.SubmitRateLimitMax, cfg.SubmitRateLimitWindow)
	emailLimiter := ratelimit.NewLimiter(store, "email", cfg.EmailRateLimitMax, cfg.EmailRateLimitWindow)
	verifyLimiter := ratelimit.NewLimiter(store, "verify", cfg.VerifyRateLimitMax, cfg.VerifyRateLimitWindow)

	mailClient := mailer.NewSendgridMailer(cfg)

	submissionUseCase := usecase.NewSubmissionUseCase(reviewRepo, tokenRepo, mailClient, clientLimiter, emailLimiter, cfg.VerificationTokenTTL)
	verificationUseCase := usecase.NewVerificationUseCase(reviewRepo, tokenRepo, mailClient)
	moderationUseCase := usecase.NewModerationUseCase(reviewRepo, mailClient)
	publicReviewUseCase := usecase.NewPublicReviewUseCase(reviewRepo)

	handler.Setup(submissionUseCase, verificationUseCase, moderationUseCase, publicReviewUseCase)
	handler.SetupHealthHandler(store)
	handler.SetupDevTokenHandler(cfg)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(cfg.JWTSecret)
	adminMiddleware := apimiddleware.NewAdminMiddleware()

	router.Setup(e, authMiddleware, adminMiddleware, verifyLimiter)
	router.SetupDevRouter(e, cfg.Environment)

	janitor := scheduler.NewJanitor(clientLimiter, tokenRepo)
	if err := janitor.Start(); err != nil {
		log.Fatalf("Failed to start janitor: %v", err)
	}
	defer janitor.Stop()
	go janitor.Sweep()

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
