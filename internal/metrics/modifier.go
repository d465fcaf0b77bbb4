package metrics

import "fmt"

// Updater receives metric deltas.
type Updater interface {
	UpdateGold(delta int)
	UpdateEnvHealth(delta int)
	UpdatePopHappiness(delta int)
}

// Modifier is an immutable set of metric deltas carried by a card option.
type Modifier struct {
	popHappiness int
	gold         int
	envHealth    int
}

// NewModifier returns a modifier in (happiness, gold, env health) order.
func NewModifier(popHappiness, gold, envHealth int) Modifier {
	return Modifier{popHappiness: popHappiness, gold: gold, envHealth: envHealth}
}

func (m Modifier) PopHappiness() int { return m.popHappiness }
func (m Modifier) Gold() int         { return m.gold }
func (m Modifier) EnvHealth() int    { return m.envHealth }

// IsZero reports whether applying m would change nothing.
func (m Modifier) IsZero() bool {
	return m.popHappiness == 0 && m.gold == 0 && m.envHealth == 0
}

// Scale multiplies every delta by n.
func (m Modifier) Scale(n int) Modifier {
	return Modifier{popHappiness: m.popHappiness * n, gold: m.gold * n, envHealth: m.envHealth * n}
}

// Apply forwards the deltas to u. Every call applies them again.
func (m Modifier) Apply(u Updater) {
	u.UpdateGold(m.gold)
	u.UpdateEnvHealth(m.envHealth)
	u.UpdatePopHappiness(m.popHappiness)
}

func (m Modifier) String() string {
	return fmt.Sprintf("pop: %d gold: %d envHealth: %d", m.popHappiness, m.gold, m.envHealth)
}

// Deltas is the YAML form of a Modifier.
type Deltas struct {
	PopHappiness int `yaml:"pop_happiness"`
	Gold         int `yaml:"gold"`
	EnvHealth    int `yaml:"env_health"`
}

func (d Deltas) Modifier() Modifier {
	return NewModifier(d.PopHappiness, d.Gold, d.EnvHealth)
}
