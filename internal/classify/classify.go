// Package classify decides which canned response a conversation gets.
//
// Classification is a pure function over the caller-supplied history: no
// I/O, no stored state, deterministic given the keyword tables in rules.go.
// It is a total function — every possible last user turn maps to exactly
// one intent, falling through to Unclassified when nothing matches.
package classify

import (
	"strings"
	"unicode"

	"github.com/gigicalma/calmalink/internal/domain"
)

// inferenceWindow is how many recent user turns the language heuristic reads.
const inferenceWindow = 6

// Classifier holds the immutable configuration the keyword rules run with.
type Classifier struct {
	defaultLanguage string
	invitations     []string
}

// New creates a classifier. invitations are the assistant sentences that,
// when present in the previous assistant turn, let a bare affirmation start
// the practice.
func New(defaultLanguage string, invitations []string) *Classifier {
	if defaultLanguage != domain.LangSpanish {
		defaultLanguage = domain.LangEnglish
	}
	inv := make([]string, len(invitations))
	for i, s := range invitations {
		inv[i] = normalize(s)
	}
	return &Classifier{defaultLanguage: defaultLanguage, invitations: inv}
}

// Classify inspects the most recent user turn and returns exactly one
// decision. An empty history, or one with no user turn, is Unclassified in
// the default language — never an error.
func (c *Classifier) Classify(history []domain.ConversationTurn) domain.Decision {
	msg := normalize(domain.LastUserContent(history))
	lang := c.resolveLanguage(msg, history)

	if msg == "" {
		return domain.Decision{Intent: domain.IntentUnclassified, Language: lang}
	}

	for _, r := range rules {
		if containsAny(msg, r.english) || containsAny(msg, r.spanish) {
			return domain.Decision{Intent: r.intent, Language: lang}
		}
	}

	if c.isStartSignal(msg, history) {
		return domain.Decision{Intent: domain.IntentStartPractice, Language: lang}
	}

	return domain.Decision{Intent: domain.IntentUnclassified, Language: lang}
}

// isStartSignal applies the three independent start-practice sub-rules:
// a bare language name, a start keyword, or a bare affirmation answering
// an invitation.
func (c *Classifier) isStartSignal(msg string, history []domain.ConversationTurn) bool {
	bare := stripPunct(msg)

	if _, ok := languageNames[bare]; ok {
		return true
	}
	if containsAny(msg, startKeywords.english) || containsAny(msg, startKeywords.spanish) {
		return true
	}
	if affirmations[bare] && c.previousTurnInvited(history) {
		return true
	}
	return false
}

// previousTurnInvited reports whether the turn right before the last user
// turn is an assistant invitation. It matches the canonical invitation
// sentences the composer emits rather than guessing from arbitrary wording.
func (c *Classifier) previousTurnInvited(history []domain.ConversationTurn) bool {
	prev := domain.TurnBeforeLastUser(history)
	if prev == nil || prev.Role != domain.RoleAssistant {
		return false
	}
	content := normalize(prev.Content)
	for _, inv := range c.invitations {
		if inv != "" && strings.Contains(content, inv) {
			return true
		}
	}
	return false
}

// resolveLanguage picks the reply language: an explicit mention in the
// current message wins, then the conversation-language heuristic, then the
// configured default. The heuristic may be wrong; there is no correction
// loop beyond the user repeating themselves.
func (c *Classifier) resolveLanguage(msg string, history []domain.ConversationTurn) string {
	if lang, ok := explicitLanguage(msg); ok {
		return lang
	}
	for _, turn := range domain.UserTurns(history, inferenceWindow) {
		if looksSpanish(normalize(turn)) {
			return domain.LangSpanish
		}
	}
	return c.defaultLanguage
}

func explicitLanguage(msg string) (string, bool) {
	if lang, ok := languageNames[stripPunct(msg)]; ok {
		return lang, true
	}
	for _, m := range languageMentions {
		if strings.Contains(msg, m.pattern) {
			return m.lang, true
		}
	}
	return "", false
}

// looksSpanish flags text containing Spanish-only letters or distinctively
// Spanish vocabulary.
func looksSpanish(text string) bool {
	if strings.ContainsAny(text, "áéíóúñ¿¡ü") {
		return true
	}
	for _, word := range strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		if spanishMarkers[word] {
			return true
		}
	}
	return false
}

func containsAny(text string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// stripPunct removes surrounding punctuation so "sí!" or "Ok." still count
// as bare affirmations and "english?" as a bare language name.
func stripPunct(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	})
}
