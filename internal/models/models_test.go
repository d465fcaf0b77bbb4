package models

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir(), "mayor")

	profile := &Profile{
		Achievements: []AchievementRecord{{Name: "Winner", Earned: "2026-10-19"}},
		HighScores: []HighScoreEntry{
			{Score: 200, Player: "ana"},
			{Score: 150, Player: "bob"},
		},
	}
	if err := store.Save(ctx, profile); err != nil {
		t.Fatalf("Failed to save profile: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Failed to load profile: %v", err)
	}
	if !loaded.Earned("Winner") {
		t.Errorf("Expected Winner to be earned")
	}
	if loaded.ScoreCount != 2 || loaded.HighScores[1].Rank != 2 {
		t.Errorf("Expected 2 ranked scores, got %+v", loaded.HighScores)
	}
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	store := NewFileStore(t.TempDir(), "nobody")
	p, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if p.AchievementCount != 0 || p.ScoreCount != 0 {
		t.Errorf("Expected empty profile, got %+v", p)
	}
}

func TestFileStoreMissingCountsDefault(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "mayor"), 0755); err != nil {
		t.Fatal(err)
	}
	data := []byte("achievements:\n  - name: Happy Town\n    earned: today\n")
	if err := os.WriteFile(filepath.Join(dir, "mayor", profileFile), data, 0644); err != nil {
		t.Fatal(err)
	}

	p, err := NewFileStore(dir, "mayor").Load(context.Background())
	if err != nil {
		t.Fatalf("Failed to load profile: %v", err)
	}
	if p.AchievementCount != 1 || p.ScoreCount != 0 {
		t.Errorf("Expected counts (1, 0), got (%d, %d)", p.AchievementCount, p.ScoreCount)
	}
}

func TestListProfiles(t *testing.T) {
	dir := t.TempDir()
	if err := NewFileStore(dir, "one").Save(context.Background(), &Profile{}); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "empty"), 0755); err != nil {
		t.Fatal(err)
	}
	names, err := ListProfiles(dir)
	if err != nil {
		t.Fatalf("ListProfiles failed: %v", err)
	}
	if len(names) != 1 || names[0] != "one" {
		t.Errorf("Expected [one], got %v", names)
	}
}
