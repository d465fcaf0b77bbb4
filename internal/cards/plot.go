package cards

import (
	"fmt"

	"github.com/tatianab/sunnytown/internal/metrics"
)

// PlotCard advances the main story. NextStateID is set by the decision and
// is empty on a terminal card.
type PlotCard struct {
	base
	options     []Option
	NextStateID string
	pinned      bool
}

// NewPlotCard builds a plot card.
func NewPlotCard(id string, prompt Prompt, options []Option) *PlotCard {
	return &PlotCard{base: base{id: id, prompt: prompt}, options: options}
}

func (c *PlotCard) Kind() Kind                    { return KindPlot }
func (c *PlotCard) DecisionRange() (int, int)     { return 0, len(c.options) }
func (c *PlotCard) Resolve(d int) (Option, error) { return resolveIndex(c.id, c.options, d) }

// Pin fixes the successor regardless of the decision taken.
func (c *PlotCard) Pin(next string) {
	c.NextStateID = next
	c.pinned = true
}

// Terminal reports whether the decided card has no successor.
func (c *PlotCard) Terminal() bool {
	return c.decided && c.NextStateID == ""
}

func (c *PlotCard) Apply(decision int, carried string, u metrics.Updater) (Outcome, error) {
	if c.decided {
		return Outcome{}, fmt.Errorf("card %s: %w", c.id, ErrAlreadyDecided)
	}
	opt, err := c.Resolve(decision)
	if err != nil {
		return Outcome{}, err
	}
	if !c.pinned {
		c.NextStateID = opt.Next
		if next, ok := opt.Branches[carried]; ok && carried != "" {
			c.NextStateID = next
		}
	}
	return c.record(opt, u), nil
}
