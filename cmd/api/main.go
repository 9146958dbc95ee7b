package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	"campusissues/internal/adapter/api"
	"campusissues/internal/adapter/api/handler"
	apimiddleware "campusissues/internal/adapter/api/middleware"
	"campusissues/internal/adapter/api/router"
	"campusissues/internal/adapter/repository"
	"campusissues/internal/infrastructure/firebase"
	"campusissues/internal/infrastructure/metrics"
	"campusissues/internal/infrastructure/token"
	"campusissues/internal/usecase"
	"campusissues/pkg/config"
	"campusissues/pkg/logger"
	"campusissues/pkg/response"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.SetDebug(cfg.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []option.ClientOption
	switch {
	case cfg.ServiceAccountJSON != "":
		log.Printf("Using Firebase service account from environment variable")
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.ServiceAccountJSON)))
	case cfg.ServiceAccountPath != "":
		if _, err := os.Stat(cfg.ServiceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", cfg.ServiceAccountPath)
		}
		log.Printf("Using Firebase service account from file: %s", cfg.ServiceAccountPath)
		opts = append(opts, option.WithCredentialsFile(cfg.ServiceAccountPath))
	default:
		log.Printf("No service account configured, using application default credentials")
	}

	firestoreClient, err := firestore.NewClientWithDatabase(ctx, cfg.FirebaseProject, cfg.FirestoreDatabase, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	var accounts usecase.AccountRemover
	if cfg.DeleteAuthProviderAccounts {
		firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		authClient, err := firebaseApp.Auth(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase Auth: %v", err)
		}
		accounts = firebase.NewFirebaseAuthClient(authClient)
	}

	m, err := metrics.New()
	if err != nil {
		log.Fatalf("Failed to register metrics: %v", err)
	}
	tokens := token.NewService(cfg.TokenSecret, cfg.TokenTTL)

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	issueRepo := repository.NewFirestoreIssueRepository(firestoreClient)
	reactionRepo := repository.NewFirestoreReactionRepository(firestoreClient)

	authUseCase := usecase.NewAuthUseCase(userRepo, tokens)
	userUseCase := usecase.NewUserUseCase(userRepo, issueRepo, accounts, m)
	issueUseCase := usecase.NewIssueUseCase(issueRepo, userRepo)
	toggleUseCase := usecase.NewToggleUseCase(reactionRepo, m)
	reactionUseCase := usecase.NewReactionUseCase(reactionRepo, issueRepo)

	handlers := handler.New(authUseCase, userUseCase, issueUseCase, toggleUseCase, reactionUseCase)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = response.HTTPErrorHandler
	e.Validator = api.NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(apimiddleware.Metrics(m))
	e.Use(apimiddleware.RequestLogger(logger.Structured()))
	e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
		Timeout: cfg.RequestTimeout,
		ErrorHandler: func(err error, c echo.Context) error {
			return response.Error(c, err)
		},
	}))

	router.Setup(e, handlers, router.Gates{
		Auth:      apimiddleware.NewAuthMiddleware(tokens),
		Role:      apimiddleware.NewRoleMiddleware(userUseCase),
		LoginRate: apimiddleware.LoginRateLimit(cfg.LoginRateLimit),
	}, m.Handler())

	go func() {
		log.Printf("The Server is Working on %s port", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
