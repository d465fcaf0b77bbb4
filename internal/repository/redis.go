// Package repository stores player profiles in Redis.
package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
	"github.com/tatianab/sunnytown/internal/models"
	"go.uber.org/zap"
)

const (
	countField = "count"
	keyPrefix  = "sunnytown"
)

// Redis keeps a profile in two hashes, one for achievements and one for
// high scores. Rows are numbered fields; a missing count reads as zero.
type Redis struct {
	rdb    *redis.Client
	name   string
	logger *zap.Logger
}

// NewRedis connects to addr and checks the connection.
func NewRedis(ctx context.Context, addr, password string, db int, name string, logger *zap.Logger) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis connect %s: %w", addr, err)
	}
	logger.Info("redis connected", zap.String("addr", addr), zap.String("profile", name))
	return &Redis{rdb: rdb, name: name, logger: logger}, nil
}

func (r *Redis) Close() error { return r.rdb.Close() }

func achievementsKey(name string) string { return fmt.Sprintf("%s:%s:achievements", keyPrefix, name) }
func scoresKey(name string) string       { return fmt.Sprintf("%s:%s:scores", keyPrefix, name) }

func (r *Redis) Load(ctx context.Context) (*models.Profile, error) {
	pipe := r.rdb.Pipeline()
	achCmd := pipe.HGetAll(ctx, achievementsKey(r.name))
	scoreCmd := pipe.HGetAll(ctx, scoresKey(r.name))
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("load profile %s: %w", r.name, err)
	}
	return decodeProfile(achCmd.Val(), scoreCmd.Val(), r.logger), nil
}

func (r *Redis) Save(ctx context.Context, p *models.Profile) error {
	p.Normalize()
	ach, scores := encodeProfile(p)
	pipe := r.rdb.TxPipeline()
	pipe.Del(ctx, achievementsKey(r.name), scoresKey(r.name))
	pipe.HSet(ctx, achievementsKey(r.name), ach)
	pipe.HSet(ctx, scoresKey(r.name), scores)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save profile %s: %w", r.name, err)
	}
	return nil
}

func encodeProfile(p *models.Profile) (ach, scores map[string]interface{}) {
	ach = map[string]interface{}{countField: strconv.Itoa(len(p.Achievements))}
	for i, a := range p.Achievements {
		ach[fmt.Sprintf("name:%d", i)] = a.Name
		ach[fmt.Sprintf("date:%d", i)] = a.Earned
	}
	scores = map[string]interface{}{countField: strconv.Itoa(len(p.HighScores))}
	for i, s := range p.HighScores {
		scores[fmt.Sprintf("score:%d", i)] = strconv.Itoa(s.Score)
		scores[fmt.Sprintf("player:%d", i)] = s.Player
		scores[fmt.Sprintf("run:%d", i)] = s.RunID
	}
	return ach, scores
}

func decodeProfile(ach, scores map[string]string, logger *zap.Logger) *models.Profile {
	p := &models.Profile{}
	for i := range readCount(ach, logger) {
		name, ok := ach[fmt.Sprintf("name:%d", i)]
		if !ok {
			continue
		}
		p.Achievements = append(p.Achievements, models.AchievementRecord{
			Name:   name,
			Earned: ach[fmt.Sprintf("date:%d", i)],
		})
	}
	for i := range readCount(scores, logger) {
		score, err := strconv.Atoi(scores[fmt.Sprintf("score:%d", i)])
		if err != nil {
			logger.Warn("skipping corrupt high score", zap.Int("row", i), zap.Error(err))
			continue
		}
		p.HighScores = append(p.HighScores, models.HighScoreEntry{
			Score:  score,
			Player: scores[fmt.Sprintf("player:%d", i)],
			RunID:  scores[fmt.Sprintf("run:%d", i)],
		})
	}
	p.Normalize()
	return p
}

func readCount(fields map[string]string, logger *zap.Logger) int {
	raw, ok := fields[countField]
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		logger.Warn("corrupt count, defaulting to zero", zap.String("value", raw))
		return 0
	}
	return n
}
