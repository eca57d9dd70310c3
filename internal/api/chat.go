package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gigicalma/calmalink/internal/compose"
	"github.com/gigicalma/calmalink/internal/domain"
	"github.com/gigicalma/calmalink/internal/identity"
	"github.com/gigicalma/calmalink/internal/responder"
	"github.com/gigicalma/calmalink/internal/store"
)

// transcriptWriteTimeout bounds the detached transcript insert.
const transcriptWriteTimeout = 5 * time.Second

// chatRequest is the chat endpoint body. Unknown fields are ignored and a
// missing messages array is treated as an empty history, not an error.
type chatRequest struct {
	Messages []domain.ConversationTurn `json:"messages"`
}

// RegisterRoutes mounts the chat and catalog endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/chat", h.HandleChat)
	r.Get("/api/library", h.HandleLibrary)
	r.Get("/api/practices/{lang}/{id}", h.HandlePractice)
	r.Get("/api/ready", h.HandleReady)
}

// HandleChat answers one conversation with a response envelope.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		Error(w, http.StatusBadRequest, compose.InvalidBodyMessage())
		return
	}

	var req chatRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			Error(w, http.StatusBadRequest, compose.InvalidBodyMessage())
			return
		}
	}

	reply, err := h.responder.Respond(r.Context(), req.Messages)
	if err != nil {
		// The responder recovers its own failures; reaching this means a
		// programming error, and the caller still gets a clean message.
		slog.Error("responder failed", "error", err)
		Error(w, http.StatusInternalServerError, compose.InternalErrorMessage())
		return
	}

	h.logTranscript(r.Context(), "http", req.Messages, reply)

	JSON(w, http.StatusOK, reply.Envelope)
}

// logTranscript appends the answered turn to the opt-in transcript log.
// Runs detached from the request: a slow or failing insert must never
// delay or fail the reply.
func (h *Handler) logTranscript(reqCtx context.Context, channel string, history []domain.ConversationTurn, reply responder.Reply) {
	if h.repo == nil {
		return
	}
	entry := &store.TranscriptEntry{
		VisitorID: identity.VisitorIDFromContext(reqCtx),
		Channel:   channel,
		UserText:  domain.LastUserContent(history),
		ReplyText: reply.Envelope.Message,
		Intent:    string(reply.Decision.Intent),
		Language:  reply.Decision.Language,
		Source:    reply.Source,
		CreatedAt: time.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), transcriptWriteTimeout)
		defer cancel()
		if err := h.repo.AppendTranscript(ctx, entry); err != nil {
			slog.Warn("failed to append transcript", "error", err, "channel", channel)
		}
	}()
}

// HandleReady reports readiness, including store connectivity when the
// transcript log is enabled.
func (h *Handler) HandleReady(w http.ResponseWriter, r *http.Request) {
	if h.repo != nil {
		if err := h.repo.Ping(r.Context()); err != nil {
			slog.Error("readiness check failed", "error", err)
			Error(w, http.StatusServiceUnavailable, "transcript store unreachable")
			return
		}
	}
	JSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
