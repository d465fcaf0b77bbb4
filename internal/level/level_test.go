package level

import (
	"math"
	"testing"

	"github.com/tatianab/sunnytown/internal/cards"
	"go.uber.org/zap"
)

func TestProgress(t *testing.T) {
	tests := []struct {
		n         int
		wantLevel int
		wantFrac  float64
	}{
		{0, 1, 0},
		{2, 1, 1.0 / 6},
		{4, 1, 1.0 / 3},
		{9, 2, 2.0 / 3},
		{10, 3, 10.0 / 15},
		{15, 3, 1},
	}
	for _, tt := range tests {
		level, frac := Progress(tt.n)
		if level != tt.wantLevel || math.Abs(frac-tt.wantFrac) > 1e-9 {
			t.Errorf("Progress(%d) = %d, %f; want %d, %f", tt.n, level, frac, tt.wantLevel, tt.wantFrac)
		}
	}
}

type recordingListener struct {
	levels []int
	last   float64
}

func (l *recordingListener) NextLevel(level int)               { l.levels = append(l.levels, level) }
func (l *recordingListener) ProgressChanged(_ int, f float64) { l.last = f }

func TestTrackerFiresNextLevelAtCaps(t *testing.T) {
	l := &recordingListener{}
	tr := NewTracker(l, zap.NewNop())
	for _, id := range []string{"s3", "s4", "s5", "s9", "s10EV"} {
		tr.Update(cards.NewPlotCard(id, cards.Prompt{}, nil))
	}
	if len(l.levels) != 2 || l.levels[0] != 2 || l.levels[1] != 3 {
		t.Errorf("Expected level ups [2 3], got %v", l.levels)
	}
	if tr.Level() != 3 {
		t.Errorf("Expected level 3, got %d", tr.Level())
	}
	if math.Abs(l.last-10.0/15) > 1e-9 {
		t.Errorf("Expected last progress %f, got %f", 10.0/15, l.last)
	}
}

func TestTrackerIgnoresUnnumberedCards(t *testing.T) {
	tr := NewTracker(nil, zap.NewNop())
	tr.Update(cards.NewPlotCard("s2", cards.Prompt{}, nil))
	before := tr.Fraction()
	if got := tr.Update(cards.NewPlotCard("intro", cards.Prompt{}, nil)); got != before {
		t.Errorf("Expected progress unchanged at %f, got %f", before, got)
	}
}
