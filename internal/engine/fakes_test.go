package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tatianab/sunnytown/internal/achievements"
	"github.com/tatianab/sunnytown/internal/cards"
	"github.com/tatianab/sunnytown/internal/metrics"
	"github.com/tatianab/sunnytown/internal/weather"
	"go.uber.org/zap"
)

const testDeck = `
final_card: s2
level_skips:
  - {level: 2, card: s1, next: s2}
ideal_tokens:
  - {key: investment, value: EV}
plot:
  - id: s0
    question: "Invest in what?"
    options:
      - text: EV
        deltas: {pop_happiness: 5, gold: -5, env_health: 5}
        feedback: "Charging stations installed."
        feedback_speaker: Sam
        token: {key: investment, value: EV}
        next: s1
      - text: oil
        deltas: {pop_happiness: 0, gold: 10, env_health: -10}
        token: {key: investment, value: oil}
        animate: true
        building: Refinery
        next: s1
  - id: s1
    question: "See the results?"
    options:
      - text: see
        additional_state: investment
        next: s2
        branches: {oil: s1b}
  - id: s1b
    question: "Smoke everywhere. Continue?"
    options:
      - text: "continue"
        token: {key: investment, value: EV}
        next: s2
  - id: s2
    question: "Read the results?"
    options:
      - text: done
        feedback: "The end."
        feedback_speaker: Advisor
minor:
  - id: m1
    question: "A bench?"
    options:
      - text: "yes"
        deltas: {pop_happiness: 1, gold: 0, env_health: 0}
endings:
  speaker: Advisor
  intro: ["You won."]
  by_token:
    - {key: investment, value: EV, lines: ["Clean power."]}
  lost:
    speaker: Advisor
    lines: ["You lost."]
`

type fakeDisplay struct {
	card     cards.Card
	slider   *cards.SliderCard
	choose   func(int) error
	notices  []cards.Dialogue
	dismiss  func() error
	cutscene Cutscene
	ending   cards.Dialogue
	done     func() error
	progress []time.Duration
}

func (d *fakeDisplay) ShowBinaryChoice(card cards.Card, onChoice func(int) error) {
	d.card, d.slider, d.choose = card, nil, onChoice
}

func (d *fakeDisplay) ShowSliderChoice(card *cards.SliderCard, onChoice func(int) error) {
	d.card, d.slider, d.choose = card, card, onChoice
}

func (d *fakeDisplay) ShowNotice(n cards.Dialogue, onDismiss func() error) {
	d.notices = append(d.notices, n)
	d.dismiss = onDismiss
}

func (d *fakeDisplay) ShowAnimationProgress(dur time.Duration) {
	d.progress = append(d.progress, dur)
}

func (d *fakeDisplay) ShowCutscene(scene Cutscene, dialogue cards.Dialogue, onDone func() error) {
	d.cutscene, d.ending, d.done = scene, dialogue, onDone
}

func (d *fakeDisplay) lastNotice() cards.Dialogue {
	if len(d.notices) == 0 {
		return cards.Dialogue{}
	}
	return d.notices[len(d.notices)-1]
}

type fakeAchievements struct {
	evaluations int
	last        achievements.Snapshot
	scores      []int
}

func (a *fakeAchievements) Evaluate(_ context.Context, s achievements.Snapshot) ([]string, error) {
	a.evaluations++
	a.last = s
	return nil, nil
}

func (a *fakeAchievements) RecordScore(_ context.Context, score int, _, _ string) (int, error) {
	a.scores = append(a.scores, score)
	return 1, nil
}

var errUnknownBuilding = errors.New("unknown building")

type fakeAnimator struct{ played []string }

func (a *fakeAnimator) PlayAnimation(building string, _ time.Duration) error {
	a.played = append(a.played, building)
	if building != "School" {
		return fmt.Errorf("%s: %w", building, errUnknownBuilding)
	}
	return nil
}

type fakeAudio struct{ construction, win, lose int }

func (a *fakeAudio) PlayConstructionSound() { a.construction++ }
func (a *fakeAudio) PlayWinMusic()          { a.win++ }
func (a *fakeAudio) PlayLoseMusic()         { a.lose++ }

// fakeWeather strikes with smog on the next strikes checks.
type fakeWeather struct {
	strikes int
	checks  int
	resets  int
	current weather.Event
}

func (w *fakeWeather) Check(int) (weather.Event, bool) {
	w.checks++
	if w.strikes == 0 {
		return weather.None, false
	}
	w.strikes--
	w.current = weather.Smog
	return w.current, true
}

func (w *fakeWeather) Force(ev weather.Event)  { w.current = ev }
func (w *fakeWeather) Current() weather.Event { return w.current }

func (w *fakeWeather) Reset() {
	w.resets++
	w.current = weather.None
}

type recordingObserver struct{ transitions []string }

func (o *recordingObserver) StateChanged(from, to GameState) {
	o.transitions = append(o.transitions, from.String()+"->"+to.String())
}

type recordingScenes struct{ results []Result }

func (s *recordingScenes) Advance(r Result) { s.results = append(s.results, r) }

type harness struct {
	engine   *Engine
	deck     *cards.Deck
	display  *fakeDisplay
	metrics  *metrics.Manager
	achieve  *fakeAchievements
	animator *fakeAnimator
	audio    *fakeAudio
	weather  *fakeWeather
	observer *recordingObserver
	scenes   *recordingScenes
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.WaitingForEvents = time.Second
	cfg.FeedbackWait = 100 * time.Millisecond
	cfg.AnimationWait = 3 * time.Second
	cfg.RunID = "test"
	return cfg
}

func newHarness(t *testing.T, cfg Config, edit func(*cards.Deck)) *harness {
	t.Helper()
	deck, err := cards.ParseDeck([]byte(testDeck))
	if err != nil {
		t.Fatalf("ParseDeck failed: %v", err)
	}
	if edit != nil {
		edit(deck)
	}
	h := &harness{
		deck:     deck,
		display:  &fakeDisplay{},
		metrics:  metrics.NewManager(metrics.Initial),
		achieve:  &fakeAchievements{},
		animator: &fakeAnimator{},
		audio:    &fakeAudio{},
		weather:  &fakeWeather{},
		observer: &recordingObserver{},
		scenes:   &recordingScenes{},
	}
	h.engine = New(context.Background(), Deps{
		Deck:         deck,
		Cards:        cards.NewFactory(deck, 1),
		Display:      h.display,
		Metrics:      h.metrics,
		Achievements: h.achieve,
		Animator:     h.animator,
		Audio:        h.audio,
		Weather:      h.weather,
		Scenes:       h.scenes,
		Observer:     h.observer,
	}, cfg, zap.NewNop())
	return h
}

func (h *harness) tick(t *testing.T, d time.Duration) {
	t.Helper()
	if err := h.engine.Tick(d); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
}

func (h *harness) expectState(t *testing.T, want GameState) {
	t.Helper()
	if got := h.engine.State(); got != want {
		t.Fatalf("Expected state %s, got %s", want, got)
	}
}

// toCard ticks from GameStarting or WaitingForEvents until a card is shown.
func (h *harness) toCard(t *testing.T) cards.Card {
	t.Helper()
	if h.engine.State() == GameStarting {
		h.tick(t, 0)
	}
	h.expectState(t, WaitingForEvents)
	h.tick(t, h.engine.Remaining())
	h.expectState(t, SelectingPlotDecision)
	return h.display.card
}

// decide chooses decision on the shown card and clicks through any feedback.
func (h *harness) decide(t *testing.T, decision int) {
	t.Helper()
	if err := h.display.choose(decision); err != nil {
		t.Fatalf("decision %d failed: %v", decision, err)
	}
	if h.engine.State() == WaitingForFeedback {
		h.tick(t, h.engine.Remaining())
		h.expectState(t, ViewingFeedback)
		if err := h.display.dismiss(); err != nil {
			t.Fatalf("dismiss failed: %v", err)
		}
	}
	h.expectState(t, WaitingForEvents)
}
