// Package achievements evaluates achievement unlocks and keeps the
// high-score table.
package achievements

import (
	"context"
	_ "embed"
	"fmt"
	"slices"
	"time"

	"github.com/tatianab/sunnytown/internal/metrics"
	"github.com/tatianab/sunnytown/internal/models"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	Winner        = "Winner"
	ClutchGamer   = "Clutch Gamer"
	TreeHugger    = "Tree Hugger"
	HappyTown     = "Happy Town"
	GoldDigger    = "Gold Digger"
	CaptainPlanet = "Captain Planet"
	AllRounder    = "All Rounder"
	CrowdPleaser1 = "Crowd Pleaser 1"
	CrowdPleaser2 = "Crowd Pleaser 2"
	CrowdPleaser3 = "Crowd Pleaser 3"
)

const (
	HighScoreSize = 5
	NotHighScore  = -1

	treeHuggerRun = 5
	clutchCeiling = 30
	allRounderBar = 75
	dateLayout    = "2006-01-02"
)

var crowdPleasers = []struct {
	name   string
	clicks int
}{
	{CrowdPleaser1, 5},
	{CrowdPleaser2, 10},
	{CrowdPleaser3, 15},
}

//go:embed catalog.yaml
var catalogYAML []byte

// Repository loads and saves the persisted profile.
type Repository interface {
	Load(ctx context.Context) (*models.Profile, error)
	Save(ctx context.Context, p *models.Profile) error
}

// Notifier is told about every new unlock.
type Notifier interface {
	AchievementUnlocked(models.Achievement)
}

// Snapshot is the game state the rules look at.
type Snapshot struct {
	metrics.Snapshot
	GameWon      bool
	Interactions int
}

// Manager evaluates achievement rules against a persisted profile.
type Manager struct {
	repo     Repository
	catalog  []models.Achievement
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time

	envInARow int
}

// DefaultCatalog returns the built-in achievement definitions.
func DefaultCatalog() ([]models.Achievement, error) {
	var catalog []models.Achievement
	if err := yaml.Unmarshal(catalogYAML, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse achievement catalog: %w", err)
	}
	return catalog, nil
}

// New returns a manager. A nil notifier drops notifications.
func New(repo Repository, catalog []models.Achievement, notifier Notifier, logger *zap.Logger) *Manager {
	return &Manager{
		repo:     repo,
		catalog:  catalog,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Catalog returns every known achievement.
func (m *Manager) Catalog() []models.Achievement { return m.catalog }

// Evaluate checks every rule against s and persists new unlocks. It returns
// the names unlocked by this call. Winner is always checked before Clutch
// Gamer.
func (m *Manager) Evaluate(ctx context.Context, s Snapshot) ([]string, error) {
	if s.EnvHealth >= s.PrevEnvHealth {
		m.envInARow++
	} else {
		m.envInARow = 0
	}

	profile, err := m.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	var unlocked []string
	unlock := func(name string) {
		if profile.Earned(name) {
			return
		}
		profile.Achievements = append(profile.Achievements, models.AchievementRecord{
			Name:   name,
			Earned: m.now().Format(dateLayout),
		})
		unlocked = append(unlocked, name)
	}

	if s.GameWon {
		unlock(Winner)
		if s.PopHappiness < clutchCeiling && s.Gold < clutchCeiling && s.EnvHealth < clutchCeiling {
			unlock(ClutchGamer)
		}
	}
	if m.envInARow >= treeHuggerRun {
		unlock(TreeHugger)
	}
	if s.PopHappiness == metrics.Max {
		unlock(HappyTown)
	}
	if s.Gold == metrics.Max {
		unlock(GoldDigger)
	}
	if s.EnvHealth == metrics.Max {
		unlock(CaptainPlanet)
	}
	if s.EnvHealth >= allRounderBar && s.Gold >= allRounderBar && s.PopHappiness >= allRounderBar {
		unlock(AllRounder)
	}
	for _, cp := range crowdPleasers {
		if s.Interactions >= cp.clicks {
			unlock(cp.name)
		}
	}

	if len(unlocked) == 0 {
		return nil, nil
	}
	if err := m.repo.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	for _, name := range unlocked {
		m.logger.Info("achievement unlocked", zap.String("achievement", name))
		if m.notifier != nil {
			m.notifier.AchievementUnlocked(m.lookup(name))
		}
	}
	return unlocked, nil
}

// Streak returns the current run of non-decreasing env health evaluations.
func (m *Manager) Streak() int { return m.envInARow }

// RecordScore inserts score into the high-score table and returns the
// 1-based rank it reached, or NotHighScore.
func (m *Manager) RecordScore(ctx context.Context, score int, player, runID string) (int, error) {
	profile, err := m.repo.Load(ctx)
	if err != nil {
		return NotHighScore, fmt.Errorf("load profile: %w", err)
	}
	table, rank := InsertHighScore(profile.HighScores, models.HighScoreEntry{Score: score, Player: player, RunID: runID})
	if rank == NotHighScore {
		return NotHighScore, nil
	}
	profile.HighScores = table
	if err := m.repo.Save(ctx, profile); err != nil {
		return NotHighScore, fmt.Errorf("save profile: %w", err)
	}
	m.logger.Info("high score recorded", zap.Int("score", score), zap.Int("rank", rank), zap.String("player", player))
	return rank, nil
}

// InsertHighScore places e before the first entry it beats, evicting
// anything past HighScoreSize. Ties rank below the existing entry.
func InsertHighScore(table []models.HighScoreEntry, e models.HighScoreEntry) ([]models.HighScoreEntry, int) {
	pos := len(table)
	for i, row := range table {
		if e.Score > row.Score {
			pos = i
			break
		}
	}
	if pos >= HighScoreSize {
		return table, NotHighScore
	}
	table = slices.Insert(slices.Clone(table), pos, e)
	if len(table) > HighScoreSize {
		table = table[:HighScoreSize]
	}
	for i := range table {
		table[i].Rank = i + 1
	}
	return table, pos + 1
}

// HighScores returns the table, best first.
func (m *Manager) HighScores(ctx context.Context) ([]models.HighScoreEntry, error) {
	profile, err := m.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return profile.HighScores, nil
}

// Unlocked returns the earned achievements in unlock order with their
// catalog details and earned date.
func (m *Manager) Unlocked(ctx context.Context) ([]models.Achievement, error) {
	profile, err := m.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Achievement, 0, len(profile.Achievements))
	for _, rec := range profile.Achievements {
		a := m.lookup(rec.Name)
		a.Earned = rec.Earned
		out = append(out, a)
	}
	return out, nil
}

func (m *Manager) lookup(name string) models.Achievement {
	for _, a := range m.catalog {
		if a.Name == name {
			return a
		}
	}
	return models.Achievement{Name: name}
}
