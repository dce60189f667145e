package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/truefeedback/true-feedback-api/internal/auth"
	"github.com/truefeedback/true-feedback-api/internal/payload"
	"github.com/truefeedback/true-feedback-api/internal/usecase"
)

// Handler serves the HTTP JSON API.
type Handler struct {
	accountUsecase usecase.AccountUsecase
	messageUsecase usecase.MessageUsecase
	validator      *payload.Validator
	jwtAuth        auth.JWTAuthenticator
	logger         *zerolog.Logger
}

// New creates a Handler instance.
func New(
	accountUsecase usecase.AccountUsecase,
	messageUsecase usecase.MessageUsecase,
	validator *payload.Validator,
	jwtAuth auth.JWTAuthenticator,
	logger *zerolog.Logger,
) *Handler {
	return &Handler{
		accountUsecase: accountUsecase,
		messageUsecase: messageUsecase,
		validator:      validator,
		jwtAuth:        jwtAuth,
		logger:         logger,
	}
}

// Router builds the chi router with all API routes mounted.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/signup", h.signUp)
	r.Post("/sign-in", h.signIn)
	r.Post("/verify-code", h.verifyCode)
	r.Get("/unique-username", h.uniqueUsername)
	r.Post("/send-message", h.sendMessage)

	r.Group(func(r chi.Router) {
		r.Use(h.requireSession)
		r.Get("/accept-messages", h.getAcceptMessages)
		r.Post("/accept-messages", h.setAcceptMessages)
		r.Get("/get-messages", h.getMessages)
	})

	return r
}

// respondUsecaseError maps usecase sentinel errors onto the HTTP error
// envelope; anything unrecognized is logged and answered as a 500.
func (h *Handler) respondUsecaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrUsernameTaken),
		errors.Is(err, usecase.ErrEmailTaken),
		errors.Is(err, usecase.ErrCodeExpired),
		errors.Is(err, usecase.ErrInvalidCode),
		errors.Is(err, usecase.ErrEmailDelivery):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrNotVerified):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, usecase.ErrNotAcceptingMessages):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, usecase.ErrUserNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error().Err(err).Msg("request failed")
		respondError(w, http.StatusInternalServerError, "something went wrong")
	}
}
