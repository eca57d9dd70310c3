// Package ws serves live chat over WebSocket. Each inbound frame carries a
// full conversation history and gets one response envelope frame back; the
// connection itself holds no conversation state.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/gigicalma/calmalink/internal/compose"
	"github.com/gigicalma/calmalink/internal/domain"
	"github.com/gigicalma/calmalink/internal/identity"
	"github.com/gigicalma/calmalink/internal/responder"
	"github.com/gigicalma/calmalink/internal/store"
)

const transcriptWriteTimeout = 5 * time.Second

// ChatHandler upgrades /ws/chat connections and answers chat frames.
type ChatHandler struct {
	responder      responder.Responder
	repo           store.Repository
	allowedOrigins []string
}

// NewChatHandler creates a WebSocket chat handler. repo may be nil.
func NewChatHandler(rsp responder.Responder, repo store.Repository, allowedOrigins []string) *ChatHandler {
	return &ChatHandler{
		responder:      rsp,
		repo:           repo,
		allowedOrigins: allowedOrigins,
	}
}

// chatFrame is one inbound message: the same shape as the HTTP chat body.
type chatFrame struct {
	Messages []domain.ConversationTurn `json:"messages"`
}

type errorFrame struct {
	Error string `json:"error"`
}

// ServeHTTP implements http.Handler for the WebSocket upgrade.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	visitorID := identity.VisitorIDFromContext(r.Context())

	if !h.originAllowed(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// Origin is already enforced above against the configured
		// allowlist; the library check would only duplicate it.
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "visitor_id", visitorID)
		return
	}
	defer func() {
		if closeErr := conn.Close(websocket.StatusNormalClosure, "chat ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "visitor_id", visitorID)
		}
	}()

	slog.Info("WebSocket chat connected", "visitor_id", visitorID, "ip", r.RemoteAddr)

	ctx := r.Context()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway ||
				errors.Is(err, context.Canceled) {
				return
			}
			slog.Debug("WebSocket read ended", "error", err, "visitor_id", visitorID)
			return
		}

		var frame chatFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			// Malformed frames get an error frame; the connection stays up.
			h.writeJSON(ctx, conn, errorFrame{Error: compose.InvalidBodyMessage()})
			continue
		}

		reply, err := h.responder.Respond(ctx, frame.Messages)
		if err != nil {
			slog.Error("responder failed on websocket", "error", err, "visitor_id", visitorID)
			h.writeJSON(ctx, conn, errorFrame{Error: compose.InternalErrorMessage()})
			continue
		}

		h.logTranscript(visitorID, frame.Messages, reply)
		h.writeJSON(ctx, conn, reply.Envelope)
	}
}

func (h *ChatHandler) originAllowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Non-browser clients send no Origin; nothing to protect.
		return true
	}
	for _, o := range h.allowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

func (h *ChatHandler) writeJSON(ctx context.Context, conn *websocket.Conn, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal websocket frame", "error", err)
		return
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		slog.Debug("WebSocket write error", "error", err)
	}
}

func (h *ChatHandler) logTranscript(visitorID string, history []domain.ConversationTurn, reply responder.Reply) {
	if h.repo == nil {
		return
	}
	entry := &store.TranscriptEntry{
		VisitorID: visitorID,
		Channel:   "ws",
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
			slog.Warn("failed to append transcript", "error", err, "channel", "ws")
		}
	}()
}
