// Package level tracks how far through the three levels the plot is.
package level

import (
	"github.com/tatianab/sunnytown/internal/cards"
	"go.uber.org/zap"
)

// Plot numbers that close each level.
const (
	LevelOneCap   = 4
	LevelTwoCap   = 9
	LevelThreeCap = 15
)

// Listener is told when the player reaches a new level and when progress changes.
type Listener interface {
	NextLevel(level int)
	ProgressChanged(level int, fraction float64)
}

// Tracker turns plot positions into overall progress.
type Tracker struct {
	listener Listener
	logger   *zap.Logger
	level    int
	fraction float64
}

func NewTracker(listener Listener, logger *zap.Logger) *Tracker {
	return &Tracker{listener: listener, logger: logger, level: 1}
}

func (t *Tracker) Level() int        { return t.level }
func (t *Tracker) Fraction() float64 { return t.fraction }

// Update records the position of card and returns the overall progress in
// [0, 1]. Cards without a plot number leave progress unchanged.
func (t *Tracker) Update(card *cards.PlotCard) float64 {
	n, ok := cards.PlotNumber(card.ID())
	if !ok {
		t.logger.Warn("plot card without a position", zap.String("card", card.ID()))
		return t.fraction
	}
	t.logger.Debug("on plot card", zap.Int("position", n))

	level, fraction := Progress(n)
	t.level, t.fraction = level, fraction
	if t.listener != nil {
		t.listener.ProgressChanged(level, fraction)
	}
	if n == LevelOneCap || n == LevelTwoCap {
		t.level = level + 1
		if t.listener != nil {
			t.listener.NextLevel(t.level)
		}
	}
	return fraction
}

// Progress returns the level containing plot position n and the overall
// progress bar value for it.
func Progress(n int) (level int, fraction float64) {
	x := float64(n)
	switch {
	case n <= LevelOneCap:
		return 1, x / LevelOneCap / 3
	case n <= LevelTwoCap:
		return 2, x / LevelTwoCap * 2 / 3
	default:
		return 3, min(1, x/LevelThreeCap)
	}
}
