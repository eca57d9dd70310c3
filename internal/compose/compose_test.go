package compose

import (
	"strings"
	"testing"

	"github.com/gigicalma/calmalink/internal/catalog"
	"github.com/gigicalma/calmalink/internal/domain"
)

func newTestComposer(t *testing.T) *Composer {
	t.Helper()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load failed: %v", err)
	}
	return New(cat)
}

func TestStartPracticeSpanish(t *testing.T) {
	t.Parallel()
	c := newTestComposer(t)

	env := c.Compose(domain.Decision{Intent: domain.IntentStartPractice, Language: domain.LangSpanish})

	if env.Message != "Aquí tienes tu práctica de Respiración Calma." {
		t.Errorf("message = %q", env.Message)
	}
	if env.Tool == nil {
		t.Fatal("expected tool payload")
	}
	if env.Tool.Name != domain.ToolNameGetMeditation {
		t.Errorf("tool name = %q", env.Tool.Name)
	}
	rec := env.Tool.Result
	if rec.Language != domain.LangSpanish || rec.DurationMinutes != 3 {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.Title != "Respiración Calma • 3 min" {
		t.Errorf("title = %q", rec.Title)
	}
	if rec.AudioURL == "" || rec.Script == "" {
		t.Error("expected audio URL and script to be populated")
	}
}

func TestStartPracticeUnsupportedLanguageFallsBackToEnglish(t *testing.T) {
	t.Parallel()
	c := newTestComposer(t)

	env := c.Compose(domain.Decision{Intent: domain.IntentStartPractice, Language: "fr"})

	if env.Tool == nil {
		t.Fatal("fallback must still produce a tool payload, never an error")
	}
	if env.Tool.Result.Language != domain.LangEnglish {
		t.Errorf("fallback record language = %q, want en", env.Tool.Result.Language)
	}
	if !strings.Contains(env.Message, "Calm Breath") {
		t.Errorf("fallback intro should be English, got %q", env.Message)
	}
}

func TestDeclineSuppressesInvitationAndTool(t *testing.T) {
	t.Parallel()
	c := newTestComposer(t)

	for _, lang := range []string{domain.LangEnglish, domain.LangSpanish} {
		env := c.Compose(domain.Decision{Intent: domain.IntentDecline, Language: lang})
		if env.Tool != nil {
			t.Errorf("decline (%s) must not carry a tool payload", lang)
		}
		for _, inv := range Invitations() {
			if strings.Contains(env.Message, inv) {
				t.Errorf("decline (%s) must not invite again: %q", lang, env.Message)
			}
		}
	}
}

func TestUnclassifiedInvites(t *testing.T) {
	t.Parallel()
	c := newTestComposer(t)

	env := c.Compose(domain.Decision{Intent: domain.IntentUnclassified, Language: domain.LangEnglish})
	if env.Tool != nil {
		t.Error("unclassified reply must not carry a tool payload")
	}
	found := false
	for _, inv := range Invitations() {
		if strings.Contains(env.Message, inv) {
			found = true
		}
	}
	if !found {
		t.Errorf("unclassified reply should end with an invitation, got %q", env.Message)
	}
}

func TestLibraryListsCatalogTitles(t *testing.T) {
	t.Parallel()
	c := newTestComposer(t)

	env := c.Compose(domain.Decision{Intent: domain.IntentLibrary, Language: domain.LangSpanish})
	if !strings.Contains(env.Message, "Respiración Calma • 3 min") {
		t.Errorf("library listing missing Spanish title: %q", env.Message)
	}
	if env.Tool != nil {
		t.Error("library reply must not carry a tool payload")
	}
}

func TestCrisisTextPerLanguage(t *testing.T) {
	t.Parallel()
	c := newTestComposer(t)

	en := c.Compose(domain.Decision{Intent: domain.IntentCrisis, Language: domain.LangEnglish})
	es := c.Compose(domain.Decision{Intent: domain.IntentCrisis, Language: domain.LangSpanish})
	if !strings.Contains(en.Message, "988") || !strings.Contains(es.Message, "988") {
		t.Error("crisis texts must carry the hotline number")
	}
	if en.Message == es.Message {
		t.Error("crisis texts should differ per language")
	}
	if en.Tool != nil || es.Tool != nil {
		t.Error("crisis reply must not carry a tool payload")
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	t.Parallel()
	c := newTestComposer(t)

	dec := domain.Decision{Intent: domain.IntentStartPractice, Language: domain.LangEnglish}
	first := c.Compose(dec)
	for i := 0; i < 5; i++ {
		got := c.Compose(dec)
		if got.Message != first.Message {
			t.Fatal("message changed between identical calls")
		}
		if *got.Tool != *first.Tool {
			t.Fatal("tool payload changed between identical calls")
		}
	}
}
