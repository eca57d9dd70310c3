// Package domain contains core domain types for the CalmaLink API.
package domain

// Conversation roles as they appear on the wire.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ConversationTurn is a single message in the conversation history the
// caller sends with every request. The server never mutates or stores it
// on the chat path.
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LastUserContent returns the content of the most recent user turn, or ""
// if the history holds none.
func LastUserContent(history []ConversationTurn) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == RoleUser {
			return history[i].Content
		}
	}
	return ""
}

// TurnBeforeLastUser returns the turn immediately preceding the most recent
// user turn, or nil when there is none. The classifier uses it to see
// whether the assistant had just extended an invitation.
func TurnBeforeLastUser(history []ConversationTurn) *ConversationTurn {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == RoleUser {
			if i == 0 {
				return nil
			}
			return &history[i-1]
		}
	}
	return nil
}

// UserTurns returns up to the last n user-turn contents, most recent last.
func UserTurns(history []ConversationTurn, n int) []string {
	var out []string
	for i := len(history) - 1; i >= 0 && len(out) < n; i-- {
		if history[i].Role == RoleUser {
			out = append(out, history[i].Content)
		}
	}
	// Reverse back into chronological order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
