package metrics

// Metric bounds and the starting value of every metric.
const (
	Min     = 0
	Max     = 100
	Initial = 50
)

// Metric names a tracked town score.
type Metric string

const (
	Gold         Metric = "gold"
	PopHappiness Metric = "pop_happiness"
	EnvHealth    Metric = "env_health"
)

// Snapshot is a read-only copy of the current and previous metric values.
type Snapshot struct {
	Gold             int
	PopHappiness     int
	EnvHealth        int
	PrevGold         int
	PrevPopHappiness int
	PrevEnvHealth    int
}

// Renderer draws the metrics panel.
type Renderer interface {
	RenderMetrics(Snapshot)
}

// Manager holds the town metrics. Values are clamped to [Min, Max].
type Manager struct {
	gold, popHappiness, envHealth             int
	prevGold, prevPopHappiness, prevEnvHealth int

	lowScore  int
	renderer  Renderer
	depleted  bool
	onDeplete func(Metric)
}

// NewManager returns a manager with every metric at start.
func NewManager(start int) *Manager {
	start = clamp(start)
	return &Manager{
		gold: start, popHappiness: start, envHealth: start,
		prevGold: start, prevPopHappiness: start, prevEnvHealth: start,
		lowScore: 3 * Initial,
	}
}

// SetRenderer sets the panel Render draws to.
func (m *Manager) SetRenderer(r Renderer) { m.renderer = r }

// OnDepleted registers fn to run the first time any metric reaches Min.
func (m *Manager) OnDepleted(fn func(Metric)) { m.onDeplete = fn }

// SetLowScore sets the score under which ScoreLow reports true.
func (m *Manager) SetLowScore(n int) { m.lowScore = n }

func (m *Manager) UpdateGold(delta int) {
	m.prevGold = m.gold
	m.gold = clamp(m.gold + delta)
	m.checkDepleted(Gold, m.gold)
}

func (m *Manager) UpdateEnvHealth(delta int) {
	m.prevEnvHealth = m.envHealth
	m.envHealth = clamp(m.envHealth + delta)
	m.checkDepleted(EnvHealth, m.envHealth)
}

func (m *Manager) UpdatePopHappiness(delta int) {
	m.prevPopHappiness = m.popHappiness
	m.popHappiness = clamp(m.popHappiness + delta)
	m.checkDepleted(PopHappiness, m.popHappiness)
}

func (m *Manager) Gold() int         { return m.gold }
func (m *Manager) EnvHealth() int    { return m.envHealth }
func (m *Manager) PopHappiness() int { return m.popHappiness }

// Snapshot returns the current and previous values.
func (m *Manager) Snapshot() Snapshot {
	return Snapshot{
		Gold:             m.gold,
		PopHappiness:     m.popHappiness,
		EnvHealth:        m.envHealth,
		PrevGold:         m.prevGold,
		PrevPopHappiness: m.prevPopHappiness,
		PrevEnvHealth:    m.prevEnvHealth,
	}
}

// Render pushes the current values to the renderer, if any.
func (m *Manager) Render() {
	if m.renderer != nil {
		m.renderer.RenderMetrics(m.Snapshot())
	}
}

// Score is the sum of the three metrics.
func (m *Manager) Score() int {
	return m.gold + m.popHappiness + m.envHealth
}

// ScoreLow reports whether the town finished in poor shape.
func (m *Manager) ScoreLow() bool {
	return m.Score() < m.lowScore
}

func (m *Manager) checkDepleted(metric Metric, value int) {
	if value > Min || m.depleted {
		return
	}
	m.depleted = true
	if m.onDeplete != nil {
		m.onDeplete(metric)
	}
}

func clamp(v int) int {
	return max(Min, min(Max, v))
}
