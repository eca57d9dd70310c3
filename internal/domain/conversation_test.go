package domain

import "testing"

func TestLastUserContent(t *testing.T) {
	t.Parallel()

	history := []ConversationTurn{
		{Role: RoleUser, Content: "first"},
		{Role: RoleAssistant, Content: "reply"},
		{Role: RoleUser, Content: "second"},
		{Role: RoleAssistant, Content: "another reply"},
	}
	if got := LastUserContent(history); got != "second" {
		t.Errorf("LastUserContent = %q, want second", got)
	}
	if got := LastUserContent(nil); got != "" {
		t.Errorf("LastUserContent(nil) = %q, want empty", got)
	}
}

func TestTurnBeforeLastUser(t *testing.T) {
	t.Parallel()

	history := []ConversationTurn{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "invitation"},
		{Role: RoleUser, Content: "yes"},
	}
	prev := TurnBeforeLastUser(history)
	if prev == nil || prev.Content != "invitation" {
		t.Fatalf("TurnBeforeLastUser = %+v, want the assistant turn", prev)
	}

	if prev := TurnBeforeLastUser([]ConversationTurn{{Role: RoleUser, Content: "alone"}}); prev != nil {
		t.Errorf("expected nil before a lone first turn, got %+v", prev)
	}
	if prev := TurnBeforeLastUser(nil); prev != nil {
		t.Errorf("expected nil for empty history, got %+v", prev)
	}
}

func TestUserTurnsWindow(t *testing.T) {
	t.Parallel()

	history := []ConversationTurn{
		{Role: RoleUser, Content: "one"},
		{Role: RoleUser, Content: "two"},
		{Role: RoleAssistant, Content: "x"},
		{Role: RoleUser, Content: "three"},
	}
	got := UserTurns(history, 2)
	if len(got) != 2 || got[0] != "two" || got[1] != "three" {
		t.Errorf("UserTurns = %v, want [two three] in order", got)
	}
}
