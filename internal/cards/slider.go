package cards

import (
	"fmt"
	"strconv"

	"github.com/tatianab/sunnytown/internal/metrics"
)

// SliderCard takes a value from a continuous range instead of a discrete
// option. The chosen value scales PerUnit into a single synthetic option.
type SliderCard struct {
	base
	Min, Max        int
	PerUnit         metrics.Modifier
	feedback        string
	feedbackSpeaker string
}

func NewSliderCard(id string, prompt Prompt, lo, hi int, perUnit metrics.Modifier, feedback Dialogue) *SliderCard {
	c := &SliderCard{
		base:    base{id: id, prompt: prompt},
		Min:     lo,
		Max:     hi,
		PerUnit: perUnit,
	}
	c.feedbackSpeaker = feedback.Speaker
	if len(feedback.Lines) > 0 {
		c.feedback = feedback.Lines[0]
	}
	return c
}

func (c *SliderCard) Kind() Kind { return KindSlider }

func (c *SliderCard) DecisionRange() (int, int) { return c.Min, c.Max + 1 }

func (c *SliderCard) Resolve(value int) (Option, error) {
	if value < c.Min || value > c.Max {
		return Option{}, fmt.Errorf("card %s: value %d not in [%d, %d]: %w", c.id, value, c.Min, c.Max, ErrDecisionOutOfRange)
	}
	return Option{
		Text:            strconv.Itoa(value),
		Modifier:        c.PerUnit.Scale(value),
		Feedback:        c.feedback,
		FeedbackSpeaker: c.feedbackSpeaker,
	}, nil
}

func (c *SliderCard) Apply(value int, _ string, u metrics.Updater) (Outcome, error) {
	if c.decided {
		return Outcome{}, fmt.Errorf("card %s: %w", c.id, ErrAlreadyDecided)
	}
	opt, err := c.Resolve(value)
	if err != nil {
		return Outcome{}, err
	}
	return c.record(opt, u), nil
}
