package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/tatianab/sunnytown/internal/achievements"
	"github.com/tatianab/sunnytown/internal/cards"
	"github.com/tatianab/sunnytown/internal/config"
	"github.com/tatianab/sunnytown/internal/engine"
	"github.com/tatianab/sunnytown/internal/level"
	"github.com/tatianab/sunnytown/internal/metrics"
	"github.com/tatianab/sunnytown/internal/models"
	"github.com/tatianab/sunnytown/internal/narrator"
	"github.com/tatianab/sunnytown/internal/repository"
	"github.com/tatianab/sunnytown/internal/tui"
	"github.com/tatianab/sunnytown/internal/weather"
	"go.uber.org/zap"
)

var depletedLines = map[metrics.Metric]string{
	metrics.Gold:         "The treasury is empty. The council has voted you out of office.",
	metrics.PopHappiness: "The townspeople have had enough. They have voted you out of office.",
	metrics.EnvHealth:    "The land can no longer sustain the town. Everyone is moving away.",
}

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogFile)
	if err != nil {
		fmt.Printf("Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("game stopped", zap.Error(err))
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	runID := uuid.NewString()
	logger = logger.With(zap.String("run", runID))

	deck, err := loadDeck(cfg.DeckPath)
	if err != nil {
		return err
	}
	factory := cards.NewFactory(deck, cfg.Seed)

	m := metrics.NewManager(metrics.Initial)

	if cfg.GeminiAPIKey != "" {
		addGeneratedCards(ctx, cfg, factory, m.Snapshot(), logger)
	}

	repo, closeRepo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	catalog, err := achievements.DefaultCatalog()
	if err != nil {
		return err
	}

	surface := tui.NewSurface(deck.Buildings(), logger)
	m.SetRenderer(surface)
	achieve := achievements.New(repo, catalog, surface, logger)

	engCfg := engine.DefaultConfig()
	engCfg.WaitingForEvents = cfg.WaitingForEvents
	engCfg.FeedbackWait = cfg.FeedbackWait
	engCfg.AnimationWait = cfg.AnimationWait
	engCfg.MinorPerPlot = cfg.MinorPerPlot
	engCfg.CardsPerDay = cfg.CardsPerDay
	engCfg.Player = cfg.Player
	engCfg.RunID = runID

	eng := engine.New(ctx, engine.Deps{
		Deck:         deck,
		Cards:        factory,
		Display:      surface,
		Metrics:      m,
		Achievements: achieve,
		Animator:     surface,
		Audio:        surface,
		Progress:     level.NewTracker(surface, logger),
		Weather:      weather.NewController(cfg.WeatherThreshold, cfg.WeatherStep, cfg.Seed, logger),
		Scenes:       surface,
		Observer:     surface,
	}, engCfg, logger)

	m.OnDepleted(func(metric metrics.Metric) {
		logger.Info("metric depleted", zap.String("metric", string(metric)))
		eng.QueueGameLost(cards.Dialogue{
			Speaker: deck.Endings.Lost.Speaker,
			Lines:   []string{depletedLines[metric]},
		})
	})
	m.Render()

	logger.Info("starting game", zap.String("player", cfg.Player), zap.String("store", cfg.Store))
	return tui.Run(ctx, eng, surface, achieve)
}

func newLogger(path string) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	zcfg.OutputPaths = []string{path}
	zcfg.ErrorOutputPaths = []string{path}
	return zcfg.Build()
}

func loadDeck(path string) (*cards.Deck, error) {
	if path == "" {
		return cards.DefaultDeck()
	}
	return cards.LoadDeck(path)
}

func openRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (achievements.Repository, func(), error) {
	if cfg.Store == config.StoreRedis {
		r, err := repository.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.Player, logger)
		if err != nil {
			return nil, nil, err
		}
		return r, func() { r.Close() }, nil
	}
	if names, err := models.ListProfiles(cfg.SaveDir); err == nil {
		logger.Debug("saved profiles", zap.Strings("players", names))
	}
	return models.NewFileStore(cfg.SaveDir, cfg.Player), func() {}, nil
}

// addGeneratedCards extends the minor pool with cards from Gemini. The
// built-in deck is used on its own if generation fails.
func addGeneratedCards(ctx context.Context, cfg *config.Config, factory *cards.Factory, town metrics.Snapshot, logger *zap.Logger) {
	n, err := narrator.New(ctx, cfg.GeminiAPIKey, logger)
	if err != nil {
		logger.Warn("narrator unavailable", zap.Error(err))
		return
	}
	defer n.Close()

	var existing []string
	for _, doc := range factory.Deck().Minor {
		existing = append(existing, doc.ID)
	}
	docs, err := n.GenerateMinorCards(ctx, narrator.Request{
		Count:    cfg.GeneratedCards,
		Town:     town,
		Existing: existing,
	})
	if err != nil {
		logger.Warn("minor card generation failed", zap.Error(err))
		return
	}
	factory.AddMinor(docs...)
}
