package responder

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/gigicalma/calmalink/internal/catalog"
	"github.com/gigicalma/calmalink/internal/classify"
	"github.com/gigicalma/calmalink/internal/compose"
	"github.com/gigicalma/calmalink/internal/domain"
)

type fakeCompleter struct {
	completion *openai.ChatCompletion
	err        error
	calls      int
}

func (f *fakeCompleter) New(_ context.Context, _ openai.ChatCompletionNewParams, _ ...option.RequestOption) (*openai.ChatCompletion, error) {
	f.calls++
	return f.completion, f.err
}

func newTestDeterministic(t *testing.T) *Deterministic {
	t.Helper()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load failed: %v", err)
	}
	classifier := classify.New(domain.LangEnglish, compose.Invitations())
	return NewDeterministic(classifier, compose.New(cat))
}

func newTestModel(t *testing.T, fake *fakeCompleter) *Model {
	t.Helper()
	return newModelWithCompleter(newTestDeterministic(t), fake, "test-model", 0, slog.Default())
}

func history(content string) []domain.ConversationTurn {
	return []domain.ConversationTurn{{Role: domain.RoleUser, Content: content}}
}

func textCompletion(content string) *openai.ChatCompletion {
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func toolCompletion(name, arguments string) *openai.ChatCompletion {
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{
				ToolCalls: []openai.ChatCompletionMessageToolCall{
					{Function: openai.ChatCompletionMessageToolCallFunction{
						Name:      name,
						Arguments: arguments,
					}},
				},
			}},
		},
	}
}

func TestDeterministicNeverErrors(t *testing.T) {
	t.Parallel()
	d := newTestDeterministic(t)

	reply, err := d.Respond(context.Background(), nil)
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if reply.Source != SourcePattern {
		t.Errorf("source = %q, want pattern", reply.Source)
	}
	if reply.Decision.Intent != domain.IntentUnclassified {
		t.Errorf("intent = %s, want unclassified", reply.Decision.Intent)
	}
	if reply.Envelope.Message == "" {
		t.Error("empty history must still get a supportive reply")
	}
}

func TestModelSafetyPreFilterSkipsModel(t *testing.T) {
	t.Parallel()

	// Crisis, library, help and decline carry safety or correctness weight
	// the generative path cannot guarantee: the model must never be called.
	cases := []struct {
		msg    string
		intent domain.IntentKind
	}{
		{"I want to kill myself", domain.IntentCrisis},
		{"show me the library", domain.IntentLibrary},
		{"how does this work", domain.IntentHelp},
		{"not now", domain.IntentDecline},
	}
	for _, tc := range cases {
		fake := &fakeCompleter{completion: textCompletion("model text")}
		m := newTestModel(t, fake)

		reply, err := m.Respond(context.Background(), history(tc.msg))
		if err != nil {
			t.Fatalf("Respond(%q) failed: %v", tc.msg, err)
		}
		if fake.calls != 0 {
			t.Errorf("Respond(%q) called the model %d times, want 0", tc.msg, fake.calls)
		}
		if reply.Decision.Intent != tc.intent {
			t.Errorf("Respond(%q) intent = %s, want %s", tc.msg, reply.Decision.Intent, tc.intent)
		}
		if reply.Source != SourcePattern {
			t.Errorf("Respond(%q) source = %q, want pattern", tc.msg, reply.Source)
		}
	}
}

func TestModelFreeTextReply(t *testing.T) {
	t.Parallel()
	fake := &fakeCompleter{completion: textCompletion("That sounds heavy. I'm here.")}
	m := newTestModel(t, fake)

	reply, err := m.Respond(context.Background(), history("I had a rough day"))
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if fake.calls != 1 {
		t.Errorf("model calls = %d, want 1", fake.calls)
	}
	if reply.Source != SourceModel {
		t.Errorf("source = %q, want model", reply.Source)
	}
	if reply.Envelope.Message != "That sounds heavy. I'm here." {
		t.Errorf("message = %q", reply.Envelope.Message)
	}
	if reply.Envelope.Tool != nil {
		t.Error("free-text reply must not carry a tool payload")
	}
}

func TestModelToolCallStartsPractice(t *testing.T) {
	t.Parallel()
	fake := &fakeCompleter{completion: toolCompletion("get_meditation", `{"language":"es"}`)}
	m := newTestModel(t, fake)

	reply, err := m.Respond(context.Background(), history("I had a rough day"))
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if reply.Envelope.Tool == nil {
		t.Fatal("expected tool payload")
	}
	if reply.Envelope.Tool.Result.Language != domain.LangSpanish {
		t.Errorf("record language = %q, want es", reply.Envelope.Tool.Result.Language)
	}
	if reply.Source != SourceModel {
		t.Errorf("source = %q, want model", reply.Source)
	}
}

func TestModelHallucinatedLanguageIsNotTrusted(t *testing.T) {
	t.Parallel()
	fake := &fakeCompleter{completion: toolCompletion("get_meditation", `{"language":"klingon"}`)}
	m := newTestModel(t, fake)

	reply, err := m.Respond(context.Background(), history("I had a rough day"))
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if reply.Envelope.Tool == nil {
		t.Fatal("expected tool payload")
	}
	// The keyword classifier resolved English; the hallucinated language
	// must be discarded in its favor.
	if reply.Envelope.Tool.Result.Language != domain.LangEnglish {
		t.Errorf("record language = %q, want en", reply.Envelope.Tool.Result.Language)
	}
}

func TestModelUnknownToolFallsBack(t *testing.T) {
	t.Parallel()
	fake := &fakeCompleter{completion: toolCompletion("delete_database", `{}`)}
	m := newTestModel(t, fake)

	reply, err := m.Respond(context.Background(), history("I had a rough day"))
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if reply.Source != SourcePattern {
		t.Errorf("source = %q, want pattern fallback", reply.Source)
	}
	if reply.Envelope.Message == "" {
		t.Error("fallback must still produce a reply")
	}
}

func TestModelErrorFallsBack(t *testing.T) {
	t.Parallel()
	fake := &fakeCompleter{err: errors.New("connection refused")}
	m := newTestModel(t, fake)

	reply, err := m.Respond(context.Background(), history("I had a rough day"))
	if err != nil {
		t.Fatalf("model failure must be recovered locally, got: %v", err)
	}
	if reply.Source != SourcePattern {
		t.Errorf("source = %q, want pattern fallback", reply.Source)
	}
	found := false
	for _, inv := range compose.Invitations() {
		if strings.Contains(reply.Envelope.Message, inv) {
			found = true
		}
	}
	if !found {
		t.Errorf("fallback for unclassified chat should invite, got %q", reply.Envelope.Message)
	}
}

func TestModelEmptyCompletionFallsBack(t *testing.T) {
	t.Parallel()
	fake := &fakeCompleter{completion: &openai.ChatCompletion{}}
	m := newTestModel(t, fake)

	reply, err := m.Respond(context.Background(), history("I had a rough day"))
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if reply.Source != SourcePattern {
		t.Errorf("source = %q, want pattern fallback", reply.Source)
	}
}
