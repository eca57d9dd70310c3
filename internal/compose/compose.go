// Package compose renders a classification decision into the response
// envelope. Like the classifier it is pure and deterministic: identical
// decisions produce byte-identical envelopes.
package compose

import (
	"fmt"
	"strings"

	"github.com/gigicalma/calmalink/internal/catalog"
	"github.com/gigicalma/calmalink/internal/domain"
)

// Composer renders decisions against an immutable catalog.
type Composer struct {
	catalog *catalog.Catalog
}

// New creates a composer over the given catalog.
func New(cat *catalog.Catalog) *Composer {
	return &Composer{catalog: cat}
}

// Compose turns a decision into the response envelope. The tool payload is
// attached if and only if the intent is start-practice. No branch can fail:
// catalog misses degrade to the English entry inside Lookup.
func (c *Composer) Compose(d domain.Decision) domain.ResponseEnvelope {
	t := textsFor(d.Language)

	switch d.Intent {
	case domain.IntentCrisis:
		return domain.ResponseEnvelope{Message: t.crisis}

	case domain.IntentLibrary:
		return domain.ResponseEnvelope{Message: c.libraryListing(d.Language)}

	case domain.IntentHelp:
		return domain.ResponseEnvelope{Message: t.helpText}

	case domain.IntentDecline:
		// Deliberately no invitation here: declining must not be met with
		// another nudge toward the practice.
		return domain.ResponseEnvelope{Message: t.decline}

	case domain.IntentStartPractice:
		return c.startPractice(d.Language)

	default:
		return domain.ResponseEnvelope{Message: t.supportive + " " + t.invitation}
	}
}

func (c *Composer) startPractice(lang string) domain.ResponseEnvelope {
	rec, ok := c.catalog.Lookup(lang, catalog.PracticeCalmBreath)
	if !ok {
		// Unreachable with the shipped catalog (Load guarantees the
		// English entry); kept so a future catalog edit cannot turn a
		// chat request into an error.
		t := textsFor(lang)
		return domain.ResponseEnvelope{Message: t.supportive + " " + t.invitation}
	}
	t := textsFor(rec.Language)
	return domain.ResponseEnvelope{
		Message: fmt.Sprintf(t.startIntro, displayName(rec)),
		Tool:    &domain.ToolResult{Name: domain.ToolNameGetMeditation, Result: rec},
	}
}

func (c *Composer) libraryListing(lang string) string {
	t := textsFor(lang)
	var b strings.Builder
	b.WriteString(t.libraryIntro)
	for _, rec := range c.catalog.Practices(lang) {
		b.WriteString("\n• ")
		b.WriteString(rec.Title)
	}
	return b.String()
}

// displayName strips the duration suffix from a catalog title, e.g.
// "Calm Breath • 3 min" → "Calm Breath".
func displayName(rec domain.PracticeRecord) string {
	name, _, found := strings.Cut(rec.Title, " • ")
	if !found {
		return rec.Title
	}
	return name
}
