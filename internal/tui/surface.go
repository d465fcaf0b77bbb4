package tui

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/tatianab/sunnytown/internal/cards"
	"github.com/tatianab/sunnytown/internal/engine"
	"github.com/tatianab/sunnytown/internal/metrics"
	"github.com/tatianab/sunnytown/internal/models"
	"go.uber.org/zap"
)

var ErrUnknownBuilding = errors.New("unknown building")

// maxLog is how many log entries the surface keeps.
const maxLog = 200

type prompt struct {
	card   cards.Card
	slider *cards.SliderCard
	choose func(int) error
}

type notice struct {
	dialogue cards.Dialogue
	dismiss  func() error
}

type cutscene struct {
	scene    engine.Cutscene
	dialogue cards.Dialogue
	done     func() error
}

type animation struct {
	building  string
	total     time.Duration
	remaining time.Duration
}

// Surface is everything the engine draws on. The bubbletea model reads it
// each frame; the engine writes it from inside Update, so both sides run on
// the program goroutine.
type Surface struct {
	logger    *zap.Logger
	buildings map[string]bool

	entries []string
	state   engine.GameState
	metrics metrics.Snapshot
	level   int
	percent float64

	prompt    *prompt
	notice    *notice
	cutscene  *cutscene
	animation *animation
	result    *engine.Result

	sound string
}

// NewSurface returns a surface that can animate the given buildings.
func NewSurface(buildings []string, logger *zap.Logger) *Surface {
	s := &Surface{
		logger:    logger,
		buildings: make(map[string]bool, len(buildings)),
		level:     1,
	}
	for _, b := range buildings {
		s.buildings[b] = true
	}
	return s
}

func (s *Surface) log(format string, args ...any) {
	s.entries = append(s.entries, fmt.Sprintf(format, args...))
	if len(s.entries) > maxLog {
		s.entries = slices.Delete(s.entries, 0, len(s.entries)-maxLog)
	}
}

func (s *Surface) ShowBinaryChoice(card cards.Card, onChoice func(int) error) {
	s.notice = nil
	s.prompt = &prompt{card: card, choose: onChoice}
}

func (s *Surface) ShowSliderChoice(card *cards.SliderCard, onChoice func(int) error) {
	s.notice = nil
	s.prompt = &prompt{card: card, slider: card, choose: onChoice}
}

func (s *Surface) ShowNotice(n cards.Dialogue, onDismiss func() error) {
	s.prompt = nil
	s.notice = &notice{dialogue: n, dismiss: onDismiss}
}

func (s *Surface) ShowAnimationProgress(d time.Duration) {
	s.animation = &animation{total: d, remaining: d}
}

func (s *Surface) ShowCutscene(scene engine.Cutscene, dialogue cards.Dialogue, onDone func() error) {
	s.prompt, s.notice = nil, nil
	s.cutscene = &cutscene{scene: scene, dialogue: dialogue, done: onDone}
}

// PlayAnimation starts the construction of building.
func (s *Surface) PlayAnimation(building string, d time.Duration) error {
	if !s.buildings[building] {
		return fmt.Errorf("%q: %w", building, ErrUnknownBuilding)
	}
	if s.animation == nil {
		s.animation = &animation{total: d, remaining: d}
	}
	s.animation.building = building
	s.log("Construction of the %s has started.", building)
	return nil
}

func (s *Surface) PlayConstructionSound() { s.ring("hammering") }
func (s *Surface) PlayWinMusic()          { s.ring("a victory fanfare") }
func (s *Surface) PlayLoseMusic()         { s.ring("a sad trombone") }

func (s *Surface) ring(sound string) {
	s.sound = sound
	s.logger.Debug("playing sound", zap.String("sound", sound))
}

func (s *Surface) RenderMetrics(snap metrics.Snapshot) { s.metrics = snap }

func (s *Surface) NextLevel(level int) {
	s.level = level
	s.log("Level %d reached!", level)
}

func (s *Surface) ProgressChanged(level int, fraction float64) {
	s.level, s.percent = level, fraction
}

func (s *Surface) AchievementUnlocked(a models.Achievement) {
	s.log("Achievement unlocked: %s. %s", a.Name, a.Description)
}

func (s *Surface) StateChanged(from, to engine.GameState) {
	s.logger.Debug("state changed", zap.Stringer("from", from), zap.Stringer("to", to))
	s.state = to
}

func (s *Surface) Advance(r engine.Result) {
	s.cutscene = nil
	s.result = &r
}

// advance counts the running animation down by dt.
func (s *Surface) advance(dt time.Duration) {
	if s.animation == nil {
		return
	}
	s.animation.remaining -= dt
	if s.animation.remaining <= 0 {
		if s.animation.building != "" {
			s.log("The %s is open.", s.animation.building)
		}
		s.animation = nil
	}
}

// choose resolves the active prompt with decision and logs the answer.
func (s *Surface) choose(decision int) error {
	if s.prompt == nil {
		return nil
	}
	p := s.prompt
	opt, err := p.card.Resolve(decision)
	if err != nil {
		return err
	}
	if err := p.choose(decision); err != nil {
		return err
	}
	s.log("%s You chose: %s", p.card.Prompt().Question, opt.Text)
	if s.prompt == p {
		s.prompt = nil
	}
	return nil
}

// dismiss closes the active notice or cutscene.
func (s *Surface) dismiss() error {
	switch {
	case s.notice != nil:
		n := s.notice
		s.log("%s: %s", n.dialogue.Speaker, joinLines(n.dialogue.Lines))
		if err := n.dismiss(); err != nil {
			return err
		}
		if s.notice == n {
			s.notice = nil
		}
	case s.cutscene != nil:
		return s.cutscene.done()
	}
	return nil
}
