package handler

import (
	"net/http"

	"github.com/truefeedback/true-feedback-api/internal/payload"
)

func (h *Handler) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req payload.SendMessageRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.messageUsecase.SendMessage(r.Context(), req.Username, req.Content); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, true, "message sent successfully")
}

func (h *Handler) getMessages(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	messages, err := h.messageUsecase.ListMessages(r.Context(), claims.UserID)
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, payload.MessagesResponse{
		Success:  true,
		Message:  "messages retrieved successfully",
		Messages: messages,
	})
}

func (h *Handler) getAcceptMessages(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	accepting, err := h.messageUsecase.AcceptingMessages(r.Context(), claims.UserID)
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, payload.AcceptMessagesResponse{
		Success:            true,
		Message:            "user found",
		IsAcceptingMessage: accepting,
	})
}

func (h *Handler) setAcceptMessages(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req payload.AcceptMessagesRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.messageUsecase.SetAcceptingMessages(r.Context(), claims.UserID, *req.AcceptMessages); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, true, "message acceptance updated successfully")
}
