package repository

import (
	"testing"

	"github.com/tatianab/sunnytown/internal/models"
	"go.uber.org/zap"
)

func TestProfileEncoding(t *testing.T) {
	p := &models.Profile{
		Achievements: []models.AchievementRecord{{Name: "Winner", Earned: "today"}},
		HighScores:   []models.HighScoreEntry{{Score: 180, Player: "ana", RunID: "r1"}},
	}
	ach, scores := encodeProfile(p)

	toStrings := func(in map[string]interface{}) map[string]string {
		out := make(map[string]string, len(in))
		for k, v := range in {
			out[k] = v.(string)
		}
		return out
	}
	got := decodeProfile(toStrings(ach), toStrings(scores), zap.NewNop())
	if !got.Earned("Winner") || got.Achievements[0].Earned != "today" {
		t.Errorf("Expected Winner earned today, got %+v", got.Achievements)
	}
	if len(got.HighScores) != 1 || got.HighScores[0].Score != 180 || got.HighScores[0].Rank != 1 {
		t.Errorf("Unexpected high scores %+v", got.HighScores)
	}
}

func TestDecodeMissingOrCorruptCounts(t *testing.T) {
	got := decodeProfile(
		map[string]string{"name:0": "Winner"},
		map[string]string{countField: "bogus", "score:0": "10"},
		zap.NewNop(),
	)
	if got.AchievementCount != 0 || got.ScoreCount != 0 {
		t.Errorf("Expected zero counts, got (%d, %d)", got.AchievementCount, got.ScoreCount)
	}
}

func TestDecodeSkipsCorruptRows(t *testing.T) {
	got := decodeProfile(nil, map[string]string{
		countField: "2",
		"score:0":  "x",
		"score:1":  "90",
		"player:1": "bob",
	}, zap.NewNop())
	if len(got.HighScores) != 1 || got.HighScores[0].Player != "bob" {
		t.Errorf("Expected only bob's row, got %+v", got.HighScores)
	}
}

func TestKeys(t *testing.T) {
	if k := achievementsKey("mayor"); k != "sunnytown:mayor:achievements" {
		t.Errorf("Unexpected key %s", k)
	}
	if k := scoresKey("mayor"); k != "sunnytown:mayor:scores" {
		t.Errorf("Unexpected key %s", k)
	}
}
