package engine

import (
	"fmt"

	"github.com/tatianab/sunnytown/internal/cards"
	"github.com/tatianab/sunnytown/internal/weather"
	"go.uber.org/zap"
)

// QueueMinorCard shows a minor card. It only works while waiting for events.
func (e *Engine) QueueMinorCard() error {
	if e.state != WaitingForEvents {
		e.logger.Debug("not in a state to show a minor card", zap.Stringer("state", e.state))
		return fmt.Errorf("minor card in %s: %w", e.state, ErrWrongState)
	}
	e.SetState(SelectingMinorDecision)
	return nil
}

// QueueGameLost ends the game after the current card with dialogue as the
// closing words. An empty dialogue uses the deck's default.
func (e *Engine) QueueGameLost(dialogue cards.Dialogue) {
	if e.lost {
		return
	}
	if len(dialogue.Lines) == 0 {
		dialogue = e.deck.Endings.Lost
	}
	e.logger.Info("game lost queued")
	e.lost = true
	e.waitingForEvents = 0
	e.lostDialogue = dialogue
	if e.state == WaitingForEvents {
		e.remaining = 0
	}
	if e.state == GamePaused && e.pausedState == WaitingForEvents {
		e.pausedRemaining = 0
	}
}

// TriggerWeather interrupts the game with ev. Any card awaiting a decision
// is dropped; an undecided plot card is drawn again later. Pending feedback
// and the end of the day are shown once the weather notice is dismissed.
func (e *Engine) TriggerWeather(ev weather.Event) error {
	switch e.state {
	case GameEnding, GamePaused, WeatherEvent:
		return fmt.Errorf("weather in %s: %w", e.state, ErrWrongState)
	case WaitingForFeedback, ViewingFeedback:
		e.afterWeather = ViewingFeedback
	case DayEnding:
		e.afterWeather = DayEnding
	default:
		e.afterWeather = WaitingForEvents
	}
	e.awaiting = false
	e.weather.Force(ev)
	e.SetState(WeatherEvent)
	return nil
}

// Pause freezes the current state and its timer.
func (e *Engine) Pause() error {
	if e.state == GamePaused || e.state == GameEnding {
		return fmt.Errorf("pause in %s: %w", e.state, ErrWrongState)
	}
	e.pausedState, e.pausedRemaining = e.state, e.remaining
	e.state, e.remaining = GamePaused, forever
	if e.observer != nil {
		e.observer.StateChanged(e.pausedState, GamePaused)
	}
	return nil
}

// Resume returns to the paused state without re-running its on-enter action.
func (e *Engine) Resume() error {
	if e.state != GamePaused {
		return fmt.Errorf("resume in %s: %w", e.state, ErrWrongState)
	}
	e.state, e.remaining = e.pausedState, e.pausedRemaining
	if e.observer != nil {
		e.observer.StateChanged(GamePaused, e.state)
	}
	return nil
}

// RecordInteraction counts a chat with a townsperson.
func (e *Engine) RecordInteraction() int {
	e.interactions++
	return e.interactions
}

// SkipToLevel jumps the story to the start of level 2 or 3 and replaces the
// tokens with the ideal decision path. It only works between cards.
func (e *Engine) SkipToLevel(level int) (*cards.PlotCard, error) {
	if e.state != GameStarting && e.state != WaitingForEvents {
		return nil, fmt.Errorf("skip in %s: %w", e.state, ErrWrongState)
	}
	skip, ok := e.deck.Skip(level)
	if !ok {
		return nil, fmt.Errorf("no skip path to level %d", level)
	}

	var card *cards.PlotCard
	var err error
	switch level {
	case 2:
		card, err = e.cards.LevelTwoCard()
	case 3:
		card, err = e.cards.LevelThreeCard()
	default:
		return nil, fmt.Errorf("no skip path to level %d", level)
	}
	if err != nil {
		return nil, err
	}
	card.Pin(skip.Next)
	e.tokens.Reset(e.deck.IdealTokens())
	e.logger.Info("skipped to level", zap.Int("level", level), zap.String("card", card.ID()), zap.String("next", skip.Next))
	return card, nil
}
