// Package weather rolls for climate disasters that hit a town with poor
// environmental health.
package weather

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"
)

// Event is a climate disaster.
type Event int

const (
	None Event = iota
	AcidRain
	Hurricane
	Smog
	WildFire
)

var events = []Event{AcidRain, Hurricane, Smog, WildFire}

func (e Event) String() string {
	switch e {
	case None:
		return "none"
	case AcidRain:
		return "acid rain"
	case Hurricane:
		return "hurricane"
	case Smog:
		return "smog"
	case WildFire:
		return "wildfire"
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

// Controller accumulates disaster probability while env health is below
// Threshold and rolls for an event each time it is checked.
type Controller struct {
	Threshold int
	Step      float64

	probability float64
	current     Event
	rng         *rand.Rand
	logger      *zap.Logger
}

func NewController(threshold int, step float64, seed int64, logger *zap.Logger) *Controller {
	return &Controller{
		Threshold: threshold,
		Step:      step,
		rng:       rand.New(rand.NewSource(seed)),
		logger:    logger,
	}
}

func (c *Controller) Probability() float64 { return c.probability }
func (c *Controller) Current() Event       { return c.current }

// Check raises the probability in proportion to how far envHealth is under
// the threshold, then rolls. It reports the event that struck, if any.
func (c *Controller) Check(envHealth int) (Event, bool) {
	if c.current != None {
		return c.current, false
	}
	if envHealth >= c.Threshold {
		return None, false
	}
	deficit := float64(c.Threshold-envHealth) / float64(c.Threshold)
	c.probability = min(1, c.probability+c.Step*deficit)
	if c.rng.Float64() >= c.probability {
		return None, false
	}
	c.current = events[c.rng.Intn(len(events))]
	c.logger.Info("weather event", zap.Stringer("event", c.current), zap.Float64("probability", c.probability))
	return c.current, true
}

// Force starts ev regardless of the odds.
func (c *Controller) Force(ev Event) {
	c.current = ev
}

// Reset ends the current event and zeroes the probability.
func (c *Controller) Reset() {
	c.current = None
	c.probability = 0
	c.logger.Debug("weather reset")
}
