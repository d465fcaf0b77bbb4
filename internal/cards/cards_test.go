package cards

import (
	"errors"
	"testing"

	"github.com/tatianab/sunnytown/internal/metrics"
)

func TestPlotCardBranchesOnCarriedState(t *testing.T) {
	card := NewPlotCard("s9", Prompt{Question: "?"}, []Option{
		{Text: "go", Next: "s10EV", Branches: map[string]string{"EV": "s10EV", "oil": "s10oil"}},
	})
	m := metrics.NewManager(metrics.Initial)

	if _, err := card.Apply(0, "oil", m); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if card.NextStateID != "s10oil" {
		t.Errorf("Expected successor s10oil, got %s", card.NextStateID)
	}
}

func TestPlotCardDefaultSuccessor(t *testing.T) {
	card := NewPlotCard("s9", Prompt{}, []Option{
		{Next: "s10EV", Branches: map[string]string{"oil": "s10oil"}},
	})
	if _, err := card.Apply(0, "", metrics.NewManager(metrics.Initial)); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if card.NextStateID != "s10EV" {
		t.Errorf("Expected successor s10EV, got %s", card.NextStateID)
	}
}

func TestPlotCardPinSurvivesDecision(t *testing.T) {
	card := NewPlotCard("s4", Prompt{}, []Option{{Next: "s5"}})
	card.Pin("s10EV")
	if _, err := card.Apply(0, "", metrics.NewManager(metrics.Initial)); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if card.NextStateID != "s10EV" {
		t.Errorf("Expected pinned successor s10EV, got %s", card.NextStateID)
	}
}

func TestCardRecordsOutcomeAndAppliesOnce(t *testing.T) {
	card := NewMinorCard("m1", Prompt{}, []Option{
		{Modifier: metrics.NewModifier(3, -2, 1), Feedback: "done", FeedbackSpeaker: "Bob", Animate: true, Building: "School"},
	})
	m := metrics.NewManager(metrics.Initial)

	out, err := card.Apply(0, "", m)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if out.Feedback != "done" || out.FeedbackSpeaker != "Bob" || !out.Animate || out.Building != "School" {
		t.Errorf("Unexpected outcome %+v", out)
	}
	if card.Outcome() != out || !card.Decided() {
		t.Errorf("Expected card to keep its outcome")
	}

	_, err = card.Apply(0, "", m)
	if !errors.Is(err, ErrAlreadyDecided) {
		t.Errorf("Expected ErrAlreadyDecided, got %v", err)
	}
	if m.PopHappiness() != 53 || m.Gold() != 48 || m.EnvHealth() != 51 {
		t.Errorf("Expected modifier applied once, got (%d, %d, %d)", m.PopHappiness(), m.Gold(), m.EnvHealth())
	}
}

func TestDecisionOutOfRange(t *testing.T) {
	card := NewMinorCard("m1", Prompt{}, []Option{{}, {}})
	m := metrics.NewManager(metrics.Initial)
	for _, d := range []int{-1, 2} {
		if _, err := card.Apply(d, "", m); !errors.Is(err, ErrDecisionOutOfRange) {
			t.Errorf("decision %d: expected ErrDecisionOutOfRange, got %v", d, err)
		}
	}
	if card.Decided() {
		t.Errorf("Expected rejected decisions to leave the card undecided")
	}
}

func TestSliderScalesPerUnit(t *testing.T) {
	card := NewSliderCard("tax", Prompt{}, 0, 5, metrics.NewModifier(-2, 3, 0), Dialogue{Speaker: "Treasurer", Lines: []string{"ok"}})
	m := metrics.NewManager(metrics.Initial)

	if lo, hi := card.DecisionRange(); lo != 0 || hi != 6 {
		t.Errorf("Expected range [0, 6), got [%d, %d)", lo, hi)
	}
	if _, err := card.Resolve(6); !errors.Is(err, ErrDecisionOutOfRange) {
		t.Errorf("Expected ErrDecisionOutOfRange, got %v", err)
	}
	out, err := card.Apply(4, "", m)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if m.PopHappiness() != 42 || m.Gold() != 62 {
		t.Errorf("Expected (42, 62), got (%d, %d)", m.PopHappiness(), m.Gold())
	}
	if out.Feedback != "ok" || out.FeedbackSpeaker != "Treasurer" {
		t.Errorf("Unexpected outcome %+v", out)
	}
}

func TestPlotNumber(t *testing.T) {
	tests := []struct {
		id   string
		want int
		ok   bool
	}{
		{"s0", 0, true},
		{"s10EV", 10, true},
		{"s15", 15, true},
		{"intro", 0, false},
	}
	for _, tt := range tests {
		got, ok := PlotNumber(tt.id)
		if got != tt.want || ok != tt.ok {
			t.Errorf("PlotNumber(%q) = %d, %v; want %d, %v", tt.id, got, ok, tt.want, tt.ok)
		}
	}
}

func TestEndingsCompose(t *testing.T) {
	deck, err := DefaultDeck()
	if err != nil {
		t.Fatalf("DefaultDeck failed: %v", err)
	}
	d := deck.Endings.Compose(map[string]string{"investment": "EV", "arvio": "no"})
	if d.Speaker != "Advisor" {
		t.Errorf("Expected speaker Advisor, got %s", d.Speaker)
	}
	if len(d.Lines) != 4 {
		t.Fatalf("Expected 4 lines, got %d: %v", len(d.Lines), d.Lines)
	}
	if d.Lines[1] != deck.Endings.ByToken[0].Lines[0] {
		t.Errorf("Expected EV line second, got %q", d.Lines[1])
	}
}
