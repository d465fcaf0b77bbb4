package engine

import (
	"errors"

	"github.com/tatianab/sunnytown/internal/cards"
)

var (
	// ErrDecisionOutOfRange is returned for a decision outside the card's range.
	ErrDecisionOutOfRange = cards.ErrDecisionOutOfRange
	// ErrWrongState is returned when an operation is not valid in the current state.
	ErrWrongState = errors.New("not valid in current game state")
	// ErrStaleCallback is returned by a callback whose state has already been left.
	ErrStaleCallback = errors.New("callback no longer current")
	// ErrTokenConflict is returned when a token key is written with a second value.
	ErrTokenConflict = errors.New("token already recorded with a different value")
)
