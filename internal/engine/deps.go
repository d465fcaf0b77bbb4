package engine

import (
	"context"
	"time"

	"github.com/tatianab/sunnytown/internal/achievements"
	"github.com/tatianab/sunnytown/internal/cards"
	"github.com/tatianab/sunnytown/internal/metrics"
	"github.com/tatianab/sunnytown/internal/weather"
)

// CardSource produces the next card to show.
type CardSource interface {
	NewCard(pool cards.Pool) (cards.Card, error)
	CurrentPlotCard() *cards.PlotCard
	LevelTwoCard() (*cards.PlotCard, error)
	LevelThreeCard() (*cards.PlotCard, error)
}

// Cutscene names the artwork shown while the ending plays.
type Cutscene string

const (
	CutsceneGoodWin Cutscene = "good_win"
	CutsceneBadWin  Cutscene = "bad_win"
	CutsceneLose    Cutscene = "lose"
)

// Display is the surface cards and notices are shown on. Invoking a
// callback is the only way a waiting state resumes.
type Display interface {
	ShowBinaryChoice(card cards.Card, onChoice func(decision int) error)
	ShowSliderChoice(card *cards.SliderCard, onChoice func(value int) error)
	ShowNotice(notice cards.Dialogue, onDismiss func() error)
	ShowAnimationProgress(d time.Duration)
	ShowCutscene(scene Cutscene, dialogue cards.Dialogue, onDone func() error)
}

// Metrics is the town metrics store.
type Metrics interface {
	metrics.Updater
	Render()
	Snapshot() metrics.Snapshot
	Score() int
	ScoreLow() bool
}

// Achievements evaluates unlocks and records final scores.
type Achievements interface {
	Evaluate(ctx context.Context, s achievements.Snapshot) ([]string, error)
	RecordScore(ctx context.Context, score int, player, runID string) (int, error)
}

// Animator plays building animations. Unknown buildings return an error.
type Animator interface {
	PlayAnimation(building string, d time.Duration) error
}

// Audio plays sound effects and music.
type Audio interface {
	PlayConstructionSound()
	PlayWinMusic()
	PlayLoseMusic()
}

// Progress follows the plot position.
type Progress interface {
	Update(card *cards.PlotCard) float64
}

// Weather rolls for and tracks climate events.
type Weather interface {
	Check(envHealth int) (weather.Event, bool)
	Force(ev weather.Event)
	Current() weather.Event
	Reset()
}

// Scenes is handed the result once the ending cutscene finishes.
type Scenes interface {
	Advance(Result)
}

// Observer is told about every state change.
type Observer interface {
	StateChanged(from, to GameState)
}

// Deps are the collaborators of an Engine. Deck, Cards, Display, Metrics
// and Achievements are required.
type Deps struct {
	Deck         *cards.Deck
	Cards        CardSource
	Display      Display
	Metrics      Metrics
	Achievements Achievements

	Animator Animator
	Audio    Audio
	Progress Progress
	Weather  Weather
	Scenes   Scenes
	Observer Observer
}

// Config tunes the game loop.
type Config struct {
	WaitingForEvents time.Duration
	FeedbackWait     time.Duration
	AnimationWait    time.Duration

	// MinorPerPlot minor cards are drawn between plot cards.
	MinorPerPlot int
	// CardsPerDay enables the day cycle when positive.
	CardsPerDay int

	WeatherPenalty metrics.Modifier

	Player string
	RunID  string
}

// DefaultConfig returns the standard timings.
func DefaultConfig() Config {
	return Config{
		WaitingForEvents: 2500 * time.Millisecond,
		FeedbackWait:     100 * time.Millisecond,
		AnimationWait:    3 * time.Second,
		WeatherPenalty:   metrics.NewModifier(-4, -3, 0),
		Player:           "Mayor",
	}
}

// Result is the outcome of a finished game.
type Result struct {
	Won    bool
	Score  int
	Rank   int // achievements.NotHighScore when off the table
	Tokens map[string]string
}

type nopAnimator struct{}

func (nopAnimator) PlayAnimation(string, time.Duration) error { return nil }

type nopAudio struct{}

func (nopAudio) PlayConstructionSound() {}
func (nopAudio) PlayWinMusic()          {}
func (nopAudio) PlayLoseMusic()         {}

type nopProgress struct{}

func (nopProgress) Update(*cards.PlotCard) float64 { return 0 }

type calmWeather struct{ current weather.Event }

func (w *calmWeather) Check(int) (weather.Event, bool) { return weather.None, false }
func (w *calmWeather) Force(ev weather.Event)          { w.current = ev }
func (w *calmWeather) Current() weather.Event          { return w.current }
func (w *calmWeather) Reset()                          { w.current = weather.None }

type nopScenes struct{}

func (nopScenes) Advance(Result) {}
