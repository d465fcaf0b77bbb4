// Package engine runs the Sunny Town game loop: a timed state machine that
// draws cards, applies the player's decisions and decides when the game is
// won or lost.
package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/tatianab/sunnytown/internal/achievements"
	"github.com/tatianab/sunnytown/internal/cards"
	"go.uber.org/zap"
)

// forever marks a state that only a callback can end.
const forever = time.Duration(math.MaxInt64)

var mailNotice = cards.Dialogue{
	Speaker: "You have mail",
	Lines:   []string{"A new message has been addressed to you at the town hall!"},
}

// Engine is the game state machine. It is driven by Tick and by the
// callbacks it hands to the Display, all from a single goroutine.
type Engine struct {
	ctx    context.Context
	cfg    Config
	logger *zap.Logger

	deck     *cards.Deck
	cards    CardSource
	display  Display
	metrics  Metrics
	achieve  Achievements
	animator Animator
	audio    Audio
	progress Progress
	weather  Weather
	scenes   Scenes
	observer Observer

	state     GameState
	remaining time.Duration
	gen       uint64
	err       error

	waitingForEvents time.Duration
	feedbackWait     time.Duration

	current   cards.Card
	awaiting  bool
	tokens    *Tokens
	travelled map[string]bool

	cardCount      int
	decisions      int
	decisionsToday int
	day            int
	interactions   int
	hadCampaign    bool

	won, lost    bool
	ended        bool
	lostDialogue cards.Dialogue
	result       *Result

	pausedState     GameState
	pausedRemaining time.Duration

	// afterWeather is entered once the weather notice is dismissed.
	afterWeather GameState
}

// New returns an engine in GameStarting. It panics if a required
// collaborator is missing.
func New(ctx context.Context, deps Deps, cfg Config, logger *zap.Logger) *Engine {
	if deps.Deck == nil || deps.Cards == nil || deps.Display == nil || deps.Metrics == nil || deps.Achievements == nil {
		panic("engine: Deck, Cards, Display, Metrics and Achievements are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		ctx:       ctx,
		cfg:       cfg,
		logger:    logger.With(zap.String("run", cfg.RunID)),
		deck:      deps.Deck,
		cards:     deps.Cards,
		display:   deps.Display,
		metrics:   deps.Metrics,
		achieve:   deps.Achievements,
		animator:  deps.Animator,
		audio:     deps.Audio,
		progress:  deps.Progress,
		weather:   deps.Weather,
		scenes:    deps.Scenes,
		observer:  deps.Observer,
		state:     GameStarting,
		remaining: 0,
		tokens:    NewTokens(),
		travelled: make(map[string]bool),
		day:       1,

		waitingForEvents: cfg.WaitingForEvents,
		feedbackWait:     cfg.FeedbackWait,
	}
	if e.animator == nil {
		e.animator = nopAnimator{}
	}
	if e.audio == nil {
		e.audio = nopAudio{}
	}
	if e.progress == nil {
		e.progress = nopProgress{}
	}
	if e.weather == nil {
		e.weather = &calmWeather{}
	}
	if e.scenes == nil {
		e.scenes = nopScenes{}
	}
	return e
}

func (e *Engine) State() GameState                { return e.state }
func (e *Engine) Remaining() time.Duration        { return e.remaining }
func (e *Engine) GameWon() bool                   { return e.won }
func (e *Engine) GameLost() bool                  { return e.lost }
func (e *Engine) CurrentCard() cards.Card         { return e.current }
func (e *Engine) Tokens() map[string]string       { return e.tokens.Map() }
func (e *Engine) Day() int                        { return e.day }
func (e *Engine) Err() error                      { return e.err }
func (e *Engine) Travelled(id string) bool        { return e.travelled[id] }
func (e *Engine) FeedbackWait() time.Duration     { return e.feedbackWait }
func (e *Engine) WaitingForEvents() time.Duration { return e.waitingForEvents }

// Result returns the outcome once the ending has finished.
func (e *Engine) Result() (Result, bool) {
	if e.result == nil {
		return Result{}, false
	}
	return *e.result, true
}

// Start begins displaying cards. It does nothing once the game has started.
func (e *Engine) Start() {
	if e.state != GameStarting {
		return
	}
	e.moveToNextState()
}

// Tick advances the active state's timer by dt and runs its transition
// when the timer runs out. States waiting on a callback never time out.
func (e *Engine) Tick(dt time.Duration) error {
	if e.err != nil {
		return e.err
	}
	if e.remaining == forever {
		return nil
	}
	e.remaining -= dt
	if e.remaining <= 0 {
		e.moveToNextState()
	}
	return e.err
}

// SetState enters state and runs its on-enter action.
func (e *Engine) SetState(state GameState) {
	from := e.state
	e.logger.Debug("setting state", zap.Stringer("from", from), zap.Stringer("to", state))
	e.state = state
	e.gen++
	if e.observer != nil {
		e.observer.StateChanged(from, state)
	}

	switch state {
	case GameStarting:
		e.remaining = 0
	case SelectingPlotDecision:
		e.remaining = forever
		e.displayAnyCard()
	case SelectingMinorDecision:
		e.remaining = forever
		e.displayMinorDecisionCard()
	case ViewingFeedback:
		e.remaining = forever
		e.showFeedback()
	case WaitingForFeedback:
		e.remaining = e.feedbackWait
	case GamePaused:
		e.remaining = forever
	case WaitingForEvents:
		e.remaining = e.waitingForEvents
		if !e.won && !e.lost {
			if ev, ok := e.weather.Check(e.metrics.Snapshot().EnvHealth); ok {
				e.logger.Info("weather struck", zap.Stringer("event", ev))
				e.afterWeather = WaitingForEvents
				e.SetState(WeatherEvent)
			}
		}
	case DayEnding:
		e.remaining = forever
		e.showDayEnd()
	case GameEnding:
		e.remaining = forever
		e.endGame()
	case WeatherEvent:
		e.remaining = forever
		e.displayWeatherCard()
	}
}

func (e *Engine) moveToNextState() {
	switch e.state {
	case GameStarting:
		e.SetState(WaitingForEvents)
	case WaitingForEvents:
		e.transitionFromWaitingForEvents()
	case SelectingPlotDecision, SelectingMinorDecision:
		e.transitionFromSelectingDecision()
	case WaitingForFeedback:
		e.SetState(ViewingFeedback)
	case ViewingFeedback, WeatherEvent, DayEnding:
		e.SetState(WaitingForEvents)
	}
}

func (e *Engine) transitionFromWaitingForEvents() {
	switch {
	case e.won || e.lost:
		if !e.ended {
			e.SetState(GameEnding)
		}
	case e.cfg.CardsPerDay > 0 && e.decisionsToday >= e.cfg.CardsPerDay:
		e.SetState(DayEnding)
	default:
		e.SetState(SelectingPlotDecision)
	}
}

func (e *Engine) transitionFromSelectingDecision() {
	if e.current == nil || e.current.Outcome().Feedback == "" {
		e.metrics.Render()
		e.evaluate()
		e.SetState(WaitingForEvents)
		return
	}
	e.SetState(WaitingForFeedback)
}

// callback wraps fn so it runs at most once, and only while the state that
// created it is still active.
func (e *Engine) callback(fn func()) func() error {
	gen := e.gen
	fired := false
	return func() error {
		if e.state == GamePaused {
			return fmt.Errorf("game paused: %w", ErrWrongState)
		}
		if fired || gen != e.gen {
			e.logger.Debug("ignoring stale callback", zap.Stringer("state", e.state))
			return ErrStaleCallback
		}
		fired = true
		fn()
		return nil
	}
}

func (e *Engine) choice() func(int) error {
	gen := e.gen
	return func(decision int) error {
		if gen != e.gen {
			return ErrStaleCallback
		}
		return e.HandleOption(decision)
	}
}

func (e *Engine) fail(err error) {
	e.logger.Error("game loop stopped", zap.Error(err))
	e.err = err
	e.remaining = forever
}

// displayAnyCard draws the next plot or minor card. The campaign dialogue
// plays once, just before the plot card it is attached to.
func (e *Engine) displayAnyCard() {
	pool := cards.PoolStory
	if e.cfg.MinorPerPlot > 0 && e.cardCount%(e.cfg.MinorPerPlot+1) != 0 {
		pool = cards.PoolMinor
	}
	e.cardCount++

	card, err := e.cards.NewCard(pool)
	if err != nil {
		e.fail(fmt.Errorf("draw %s card: %w", pool, err))
		return
	}

	if c := e.deck.Campaign; c != nil && !e.hadCampaign && card.Kind() == cards.KindPlot {
		if n, ok := cards.PlotNumber(card.ID()); ok && n == c.Trigger {
			e.logger.Info("starting campaign dialogue", zap.String("card", card.ID()))
			e.display.ShowNotice(c.Dialogue, e.callback(func() {
				e.hadCampaign = true
				e.showCard(card)
			}))
			return
		}
	}
	e.showCard(card)
}

// displayMinorDecisionCard announces mail and shows a minor card once the
// notice is dismissed.
func (e *Engine) displayMinorDecisionCard() {
	e.display.ShowNotice(mailNotice, e.callback(func() {
		card, err := e.cards.NewCard(cards.PoolMinor)
		if err != nil {
			e.fail(fmt.Errorf("draw minor card: %w", err))
			return
		}
		e.showCard(card)
	}))
}

func (e *Engine) showCard(card cards.Card) {
	e.current = card
	e.awaiting = true
	e.logger.Debug("showing card", zap.String("card", card.ID()), zap.Stringer("kind", card.Kind()))
	if slider, ok := card.(*cards.SliderCard); ok {
		e.display.ShowSliderChoice(slider, e.choice())
		return
	}
	e.display.ShowBinaryChoice(card, e.choice())
}

func (e *Engine) showFeedback() {
	e.metrics.Render()
	e.evaluate()
	out := e.current.Outcome()
	notice := cards.Dialogue{Speaker: out.FeedbackSpeaker, Lines: []string{out.Feedback}}
	e.display.ShowNotice(notice, e.callback(e.moveToNextState))
}

func (e *Engine) showDayEnd() {
	e.decisionsToday = 0
	notice := cards.Dialogue{
		Speaker: "Advisor",
		Lines:   []string{fmt.Sprintf("Day %d is over. Get some rest, Mayor.", e.day)},
	}
	e.display.ShowNotice(notice, e.callback(func() {
		e.day++
		e.moveToNextState()
	}))
}

func (e *Engine) displayWeatherCard() {
	ev := e.weather.Current()
	notice := cards.Dialogue{
		Speaker: ev.String(),
		Lines: []string{
			fmt.Sprintf("Your town has been struck by %s! Try to raise your environment health to avoid more disasters.", ev),
		},
	}
	e.display.ShowNotice(notice, e.callback(func() {
		e.weather.Reset()
		e.logger.Info("weather penalty", zap.Stringer("event", ev), zap.Stringer("modifier", e.cfg.WeatherPenalty))
		e.cfg.WeatherPenalty.Apply(e.metrics)
		e.metrics.Render()
		e.evaluate()
		e.SetState(e.afterWeather)
	}))
}

func (e *Engine) evaluate() {
	snap := achievements.Snapshot{
		Snapshot:     e.metrics.Snapshot(),
		GameWon:      e.won,
		Interactions: e.interactions,
	}
	if _, err := e.achieve.Evaluate(e.ctx, snap); err != nil {
		e.logger.Warn("achievement evaluation failed", zap.Error(err))
	}
}
