package cards

import (
	"fmt"

	"github.com/tatianab/sunnytown/internal/metrics"
)

// MinorCard affects the metrics but not the plot.
type MinorCard struct {
	base
	options []Option
}

func NewMinorCard(id string, prompt Prompt, options []Option) *MinorCard {
	return &MinorCard{base: base{id: id, prompt: prompt}, options: options}
}

func (c *MinorCard) Kind() Kind                    { return KindMinor }
func (c *MinorCard) DecisionRange() (int, int)     { return 0, len(c.options) }
func (c *MinorCard) Resolve(d int) (Option, error) { return resolveIndex(c.id, c.options, d) }

func (c *MinorCard) Apply(decision int, _ string, u metrics.Updater) (Outcome, error) {
	if c.decided {
		return Outcome{}, fmt.Errorf("card %s: %w", c.id, ErrAlreadyDecided)
	}
	opt, err := c.Resolve(decision)
	if err != nil {
		return Outcome{}, err
	}
	return c.record(opt, u), nil
}
