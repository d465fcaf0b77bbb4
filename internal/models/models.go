package models

// Achievement is a static achievement definition.
type Achievement struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
	Earned      string `yaml:"-"` // set when listed from a profile
}

// AchievementRecord is an unlocked achievement as persisted.
type AchievementRecord struct {
	Name   string `yaml:"name"`
	Earned string `yaml:"earned"`
}

// HighScoreEntry is one row of the high-score table.
type HighScoreEntry struct {
	Score  int    `yaml:"score"`
	Player string `yaml:"player"`
	Rank   int    `yaml:"rank"`
	RunID  string `yaml:"run_id,omitempty"`
}

// Profile is everything persisted across play sessions.
type Profile struct {
	AchievementCount int                 `yaml:"achievement_count"`
	Achievements     []AchievementRecord `yaml:"achievements"` // in unlock order
	ScoreCount       int                 `yaml:"score_count"`
	HighScores       []HighScoreEntry    `yaml:"high_scores"` // best first
}

// Earned reports whether the named achievement has been unlocked.
func (p *Profile) Earned(name string) bool {
	for _, a := range p.Achievements {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Normalize rebuilds the counts and ranks from the stored rows, so missing
// or corrupt counts never fail a load.
func (p *Profile) Normalize() {
	p.AchievementCount = len(p.Achievements)
	p.ScoreCount = len(p.HighScores)
	for i := range p.HighScores {
		p.HighScores[i].Rank = i + 1
	}
}
