// Package responder selects how a conversation gets answered.
//
// Two strategies implement the same interface: Deterministic (keyword
// classification plus canned composition, never fails) and Model (OpenAI
// enrichment with the deterministic strategy as its error boundary). The
// deterministic path is always the default; the model path is an explicit
// opt-in decorator.
package responder

import (
	"context"

	"github.com/gigicalma/calmalink/internal/classify"
	"github.com/gigicalma/calmalink/internal/compose"
	"github.com/gigicalma/calmalink/internal/domain"
)

// Responder produces one reply for a conversation history.
type Responder interface {
	Respond(ctx context.Context, history []domain.ConversationTurn) (Reply, error)
}

// Reply is a response envelope tagged with how it was produced, for
// transcript logging.
type Reply struct {
	Envelope domain.ResponseEnvelope
	Decision domain.Decision
	// Source is "pattern" for deterministic replies and "model" for
	// model-generated ones.
	Source string
}

// Reply sources.
const (
	SourcePattern = "pattern"
	SourceModel   = "model"
)

// Deterministic answers every request from the keyword classifier and the
// canned text tables. It performs no I/O and cannot fail.
type Deterministic struct {
	classifier *classify.Classifier
	composer   *compose.Composer
}

// NewDeterministic wires the classifier and composer into a responder.
func NewDeterministic(classifier *classify.Classifier, composer *compose.Composer) *Deterministic {
	return &Deterministic{classifier: classifier, composer: composer}
}

// Respond classifies and composes. The error return exists only to satisfy
// the interface; it is always nil.
func (d *Deterministic) Respond(_ context.Context, history []domain.ConversationTurn) (Reply, error) {
	dec := d.classifier.Classify(history)
	return Reply{
		Envelope: d.composer.Compose(dec),
		Decision: dec,
		Source:   SourcePattern,
	}, nil
}

// Decide exposes the bare classification, used by the model responder as
// its safety pre-filter.
func (d *Deterministic) Decide(history []domain.ConversationTurn) domain.Decision {
	return d.classifier.Classify(history)
}

// Compose renders a decision without re-classifying.
func (d *Deterministic) Compose(dec domain.Decision) domain.ResponseEnvelope {
	return d.composer.Compose(dec)
}
