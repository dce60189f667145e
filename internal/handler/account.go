package handler

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/truefeedback/true-feedback-api/internal/payload"
	"github.com/truefeedback/true-feedback-api/internal/usecase"
)

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	var req payload.SignUpRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	err := h.accountUsecase.SignUp(r.Context(), usecase.SignUpParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, true, "user registered successfully, please verify your email")
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	var req payload.SignInRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	token, err := h.accountUsecase.SignIn(r.Context(), usecase.SignInParams{
		Identifier: req.Identifier,
		Password:   req.Password,
	})
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, payload.SignInResponse{
		Success:     true,
		Message:     "signed in successfully",
		AccessToken: token,
	})
}

func (h *Handler) verifyCode(w http.ResponseWriter, r *http.Request) {
	var req payload.VerifyCodeRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	// Clients send the username as it appears in profile URLs.
	username, err := url.QueryUnescape(req.Username)
	if err != nil {
		respondError(w, http.StatusBadRequest, "malformed username")
		return
	}

	if err := h.accountUsecase.VerifyCode(r.Context(), username, req.Code); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, true, "account verified successfully")
}

func (h *Handler) uniqueUsername(w http.ResponseWriter, r *http.Request) {
	query := payload.UsernameQuery{
		Username: r.URL.Query().Get("username"),
	}
	if err := h.validator.Validate(query); err != nil {
		respondError(w, http.StatusBadRequest, "invalid query parameters: "+err.Error())
		return
	}

	available, err := h.accountUsecase.CheckUsernameAvailable(r.Context(), query.Username)
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	if !available {
		respondError(w, http.StatusBadRequest, "username is already taken")
		return
	}

	respondMessage(w, http.StatusOK, true, "username is available")
}

// decodeAndValidate decodes the JSON body into req and validates it,
// answering a 400 itself when either step fails.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	if err := h.validator.Validate(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}

	return true
}
