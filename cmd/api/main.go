package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/truefeedback/true-feedback-api/internal/auth"
	"github.com/truefeedback/true-feedback-api/internal/config"
	"github.com/truefeedback/true-feedback-api/internal/database"
	"github.com/truefeedback/true-feedback-api/internal/handler"
	"github.com/truefeedback/true-feedback-api/internal/mailer"
	"github.com/truefeedback/true-feedback-api/internal/payload"
	"github.com/truefeedback/true-feedback-api/internal/repository"
	"github.com/truefeedback/true-feedback-api/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg := config.New(&logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()
	logger.Info().Msg("connected to MongoDB")

	db := client.Database(cfg.MongoDatabase)

	userRepo := repository.NewUserMongoRepository(ctx, &logger, db)
	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.Secret, cfg.Token.Issuer, cfg.Token.ExpiresIn)
	smtpMailer := mailer.NewMailer(&logger)

	validator, err := payload.NewValidator()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize validator")
	}

	accountUsecase := usecase.NewAccountUsecase(userRepo, smtpMailer, jwtAuth)
	messageUsecase := usecase.NewMessageUsecase(userRepo)

	h := handler.New(accountUsecase, messageUsecase, validator, jwtAuth, &logger)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: h.Router(),
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shut down HTTP server")
	}
}
