package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/listoapp/listo/internal/services/assistant"
	"github.com/listoapp/listo/internal/services/nlp"
	"github.com/listoapp/listo/internal/validation"
)

// ChatHandler handles chat message requests.
type ChatHandler struct {
	assistant *assistant.Service
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(svc *assistant.Service) *ChatHandler {
	return &ChatHandler{assistant: svc}
}

// RegisterRoutes registers chat routes.
func (h *ChatHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/chat/message", h.SendMessage).Methods("POST")
	r.HandleFunc("/chat/cancel", h.Cancel).Methods("POST")
}

// ChatMessageRequest represents a chat message request.
type ChatMessageRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

// SendMessage runs one chat message through extraction and the merge
// pipeline and returns the assistant's reply.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req ChatMessageRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if err := validation.Validate.Struct(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Message is required and must be at most 2000 characters")
		return
	}

	resp, err := h.assistant.HandleMessage(r.Context(), validation.SanitizeText(req.Message))
	if err != nil {
		switch {
		case errors.Is(err, assistant.ErrBusy):
			respondJSONError(w, http.StatusTooManyRequests, "Too Many Requests", "A previous message is still being processed")
		case errors.Is(err, assistant.ErrEmptyMessage):
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Message is empty")
		case errors.Is(err, nlp.ErrExtractionFailed):
			respondJSONError(w, http.StatusBadGateway, "Bad Gateway", "Could not understand the message right now, please try again")
		default:
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to process message")
		}
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// Cancel discards the pending task, if any.
func (h *ChatHandler) Cancel(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.assistant.Cancel())
}
