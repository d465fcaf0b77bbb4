// Package cards models the decision cards shown to the player and the deck
// they are drawn from.
package cards

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/tatianab/sunnytown/internal/metrics"
)

var (
	ErrDecisionOutOfRange = errors.New("decision out of range")
	ErrAlreadyDecided     = errors.New("card already decided")
)

// Kind is the variant of a card.
type Kind int

const (
	KindPlot Kind = iota
	KindMinor
	KindSlider
)

func (k Kind) String() string {
	switch k {
	case KindPlot:
		return "plot"
	case KindMinor:
		return "minor"
	case KindSlider:
		return "slider"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Dialogue is a block of lines spoken by one character.
type Dialogue struct {
	Speaker string   `yaml:"speaker"`
	Lines   []string `yaml:"lines"`
}

// Prompt is what the player sees before deciding.
type Prompt struct {
	Preceding []string
	Speaker   string
	Question  string
}

// Outcome is recorded on a card once its decision is applied.
type Outcome struct {
	Feedback        string
	FeedbackSpeaker string
	Animate         bool
	Building        string
}

// Option is one selectable branch of a card.
type Option struct {
	Text            string
	Modifier        metrics.Modifier
	Feedback        string
	FeedbackSpeaker string
	Animate         bool
	Building        string

	// TokenKey, when set, records TokenValue as a past token.
	TokenKey   string
	TokenValue string

	// AdditionalState names a past token whose value is carried into the decision.
	AdditionalState string

	// Next is the successor plot card; Branches overrides it by carried value.
	Next     string
	Branches map[string]string
}

// Card is a single decision point. The concrete types are *PlotCard,
// *MinorCard and *SliderCard.
type Card interface {
	ID() string
	Kind() Kind
	Prompt() Prompt

	// DecisionRange returns the valid decisions as the half-open range [lo, hi).
	DecisionRange() (lo, hi int)

	// Resolve returns the option a decision selects. Sliders synthesise one.
	Resolve(decision int) (Option, error)

	// Apply records the outcome of decision and applies its metrics
	// modifier to u. It fails if the card has already been decided.
	Apply(decision int, carried string, u metrics.Updater) (Outcome, error)

	Outcome() Outcome
	Decided() bool

	card()
}

type base struct {
	id      string
	prompt  Prompt
	outcome Outcome
	decided bool
}

func (b *base) ID() string       { return b.id }
func (b *base) Prompt() Prompt   { return b.prompt }
func (b *base) Outcome() Outcome { return b.outcome }
func (b *base) Decided() bool    { return b.decided }
func (b *base) card()            {}

func (b *base) record(opt Option, u metrics.Updater) Outcome {
	opt.Modifier.Apply(u)
	b.outcome = Outcome{
		Feedback:        opt.Feedback,
		FeedbackSpeaker: opt.FeedbackSpeaker,
		Animate:         opt.Animate,
		Building:        opt.Building,
	}
	b.decided = true
	return b.outcome
}

func resolveIndex(id string, options []Option, decision int) (Option, error) {
	if decision < 0 || decision >= len(options) {
		return Option{}, fmt.Errorf("card %s: decision %d not in [0, %d): %w", id, decision, len(options), ErrDecisionOutOfRange)
	}
	return options[decision], nil
}

var plotNumberRe = regexp.MustCompile(`\d+`)

// PlotNumber extracts the first number in a plot card id, so "s10EV" is 10.
func PlotNumber(id string) (int, bool) {
	m := plotNumberRe.FindString(id)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}
