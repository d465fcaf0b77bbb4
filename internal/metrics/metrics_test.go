package metrics

import "testing"

func TestModifierApplyAddsExactDeltas(t *testing.T) {
	m := NewManager(Initial)
	mod := NewModifier(5, -3, 7)

	mod.Apply(m)
	if m.PopHappiness() != 55 || m.Gold() != 47 || m.EnvHealth() != 57 {
		t.Fatalf("Expected (55, 47, 57), got (%d, %d, %d)", m.PopHappiness(), m.Gold(), m.EnvHealth())
	}

	mod.Apply(m)
	if m.PopHappiness() != 60 || m.Gold() != 44 || m.EnvHealth() != 64 {
		t.Errorf("Expected second apply to double the effect, got (%d, %d, %d)", m.PopHappiness(), m.Gold(), m.EnvHealth())
	}
}

func TestModifierScale(t *testing.T) {
	mod := NewModifier(1, -2, 3).Scale(4)
	if mod.PopHappiness() != 4 || mod.Gold() != -8 || mod.EnvHealth() != 12 {
		t.Errorf("Expected (4, -8, 12), got %s", mod)
	}
	if !NewModifier(0, 0, 0).IsZero() {
		t.Errorf("Expected zero modifier to report IsZero")
	}
}

func TestManagerClampsAndTracksPrevious(t *testing.T) {
	m := NewManager(90)
	m.UpdateEnvHealth(30)
	s := m.Snapshot()
	if s.EnvHealth != Max {
		t.Errorf("Expected env health clamped to %d, got %d", Max, s.EnvHealth)
	}
	if s.PrevEnvHealth != 90 {
		t.Errorf("Expected previous env health 90, got %d", s.PrevEnvHealth)
	}
	m.UpdateGold(-500)
	if m.Gold() != Min {
		t.Errorf("Expected gold clamped to %d, got %d", Min, m.Gold())
	}
}

func TestManagerDepletionFiresOnce(t *testing.T) {
	m := NewManager(10)
	var fired []Metric
	m.OnDepleted(func(metric Metric) { fired = append(fired, metric) })

	m.UpdatePopHappiness(-20)
	m.UpdateGold(-20)
	if len(fired) != 1 || fired[0] != PopHappiness {
		t.Errorf("Expected a single depletion of %s, got %v", PopHappiness, fired)
	}
}

type recordingRenderer struct{ last *Snapshot }

func (r *recordingRenderer) RenderMetrics(s Snapshot) { r.last = &s }

func TestManagerScoreAndRender(t *testing.T) {
	m := NewManager(Initial)
	r := &recordingRenderer{}
	m.SetRenderer(r)
	m.Render()
	if r.last == nil || r.last.Gold != Initial {
		t.Fatalf("Expected renderer to receive the snapshot")
	}
	if m.Score() != 150 {
		t.Errorf("Expected score 150, got %d", m.Score())
	}
	if m.ScoreLow() {
		t.Errorf("Expected starting score not to be low")
	}
	m.UpdateGold(-1)
	if !m.ScoreLow() {
		t.Errorf("Expected score 149 to be low")
	}
}
