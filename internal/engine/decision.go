package engine

import (
	"fmt"

	"github.com/tatianab/sunnytown/internal/cards"
	"go.uber.org/zap"
)

// HandleOption applies the player's decision to the current card and
// advances the state machine. A decision outside the card's range is
// rejected with ErrDecisionOutOfRange and changes nothing.
func (e *Engine) HandleOption(decision int) error {
	if !e.state.selecting() || !e.awaiting || e.current == nil {
		return fmt.Errorf("decision in %s: %w", e.state, ErrWrongState)
	}
	card := e.current

	opt, err := card.Resolve(decision)
	if err != nil {
		return fmt.Errorf("handle option: %w", err)
	}

	var carried string
	if opt.AdditionalState != "" {
		if v, ok := e.tokens.Get(opt.AdditionalState); ok {
			e.logger.Debug("additional state carried", zap.String("key", opt.AdditionalState), zap.String("value", v))
			carried = v
		}
	}
	outcome, err := card.Apply(decision, carried, e.metrics)
	if err != nil {
		return fmt.Errorf("handle option: %w", err)
	}
	e.awaiting = false
	e.decisions++
	e.decisionsToday++
	e.logger.Info("decision made",
		zap.String("card", card.ID()),
		zap.Int("decision", decision),
		zap.Stringer("modifier", opt.Modifier))

	if opt.TokenKey != "" {
		if err := e.tokens.Add(opt.TokenKey, opt.TokenValue); err != nil {
			e.logger.Warn("token not recorded", zap.Error(err))
		}
	}

	plot, isPlot := card.(*cards.PlotCard)
	if isPlot {
		e.travelled[plot.ID()] = true
		if plot.Terminal() {
			e.logger.Info("final card reached", zap.String("card", plot.ID()))
			e.won = true
			e.waitingForEvents = 0
		}
	}

	if outcome.Animate {
		e.feedbackWait = e.cfg.AnimationWait
		e.display.ShowAnimationProgress(e.feedbackWait)
		if err := e.animator.PlayAnimation(outcome.Building, e.feedbackWait); err != nil {
			e.logger.Warn("building animation not played", zap.String("building", outcome.Building), zap.Error(err))
		}
		e.audio.PlayConstructionSound()
	} else {
		e.feedbackWait = e.cfg.FeedbackWait
	}

	if isPlot {
		e.progress.Update(plot)
	}
	e.moveToNextState()
	return nil
}
