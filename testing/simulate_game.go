package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tatianab/sunnytown/internal/achievements"
	"github.com/tatianab/sunnytown/internal/cards"
	"github.com/tatianab/sunnytown/internal/config"
	"github.com/tatianab/sunnytown/internal/engine"
	"github.com/tatianab/sunnytown/internal/level"
	"github.com/tatianab/sunnytown/internal/metrics"
	"github.com/tatianab/sunnytown/internal/models"
	"github.com/tatianab/sunnytown/internal/weather"
	"go.uber.org/zap"
)

const (
	step     = 100 * time.Millisecond
	maxTicks = 20000
	// Every mailEvery ticks the player checks the mailbox.
	mailEvery = 150
	// Every chatEvery ticks the player chats with a townsperson.
	chatEvery = 90
)

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	dir, err := os.MkdirTemp("", "sunnytown-sim")
	if err != nil {
		log.Fatalf("Failed to create save dir: %v", err)
	}
	defer os.RemoveAll(dir)

	deck, err := cards.DefaultDeck()
	if err != nil {
		log.Fatalf("Failed to load deck: %v", err)
	}
	catalog, err := achievements.DefaultCatalog()
	if err != nil {
		log.Fatalf("Failed to load achievements: %v", err)
	}

	m := metrics.NewManager(metrics.Initial)
	p := &player{metrics: m}
	m.SetRenderer(p)
	achieve := achievements.New(models.NewFileStore(dir, "simulator"), catalog, p, logger)

	engCfg := engine.DefaultConfig()
	engCfg.MinorPerPlot = cfg.MinorPerPlot
	engCfg.CardsPerDay = cfg.CardsPerDay
	engCfg.Player = "Simulator"
	engCfg.RunID = uuid.NewString()

	eng := engine.New(ctx, engine.Deps{
		Deck:         deck,
		Cards:        cards.NewFactory(deck, cfg.Seed),
		Display:      p,
		Metrics:      m,
		Achievements: achieve,
		Progress:     level.NewTracker(p, logger),
		Weather:      weather.NewController(cfg.WeatherThreshold, cfg.WeatherStep, cfg.Seed, logger),
		Scenes:       p,
	}, engCfg, logger)
	m.OnDepleted(func(metrics.Metric) { eng.QueueGameLost(cards.Dialogue{}) })

	fmt.Println("--- Playing Sunny Town ---")
	eng.Start()
	for tick := 1; tick <= maxTicks && p.result == nil; tick++ {
		if err := eng.Tick(step); err != nil {
			log.Fatalf("Game loop failed: %v", err)
		}
		if next := p.next; next != nil {
			p.next = nil
			if err := next(); err != nil && !errors.Is(err, engine.ErrStaleCallback) {
				log.Fatalf("Player action failed: %v", err)
			}
		}
		if tick%chatEvery == 0 {
			eng.RecordInteraction()
		}
		if tick%mailEvery == 0 && eng.QueueMinorCard() == nil {
			fmt.Println("Player checks the mailbox.")
		}
	}

	if p.result == nil {
		log.Fatalf("Game did not finish within %d ticks (state %s)", maxTicks, eng.State())
	}
	fmt.Printf("\nGame Ended: won=%v score=%d rank=%d tokens=%v\n", p.result.Won, p.result.Score, p.result.Rank, p.result.Tokens)

	unlocked, err := achieve.Unlocked(ctx)
	if err != nil {
		log.Fatalf("Failed to list achievements: %v", err)
	}
	for _, a := range unlocked {
		fmt.Printf("Achievement: %s (%s)\n", a.Name, a.Earned)
	}
}

// player is a headless display that answers every card by keeping the
// weakest metric as high as possible.
type player struct {
	metrics *metrics.Manager
	next    func() error
	result  *engine.Result
}

func (p *player) ShowBinaryChoice(card cards.Card, onChoice func(int) error) {
	d := p.pick(card)
	opt, _ := card.Resolve(d)
	fmt.Printf("[%s] %s -> %s\n", card.ID(), card.Prompt().Question, opt.Text)
	p.next = func() error { return onChoice(d) }
}

func (p *player) ShowSliderChoice(card *cards.SliderCard, onChoice func(int) error) {
	d := p.pick(card)
	fmt.Printf("[%s] %s -> %d\n", card.ID(), card.Prompt().Question, d)
	p.next = func() error { return onChoice(d) }
}

func (p *player) ShowNotice(n cards.Dialogue, onDismiss func() error) {
	fmt.Printf("%s: %s\n", n.Speaker, strings.Join(n.Lines, " "))
	p.next = onDismiss
}

func (p *player) ShowAnimationProgress(d time.Duration) {
	fmt.Printf("Construction takes %v.\n", d)
}

func (p *player) ShowCutscene(scene engine.Cutscene, dialogue cards.Dialogue, onDone func() error) {
	fmt.Printf("--- Cutscene %s ---\n%s\n", scene, strings.Join(dialogue.Lines, "\n"))
	p.next = onDone
}

func (p *player) RenderMetrics(s metrics.Snapshot) {
	fmt.Printf("Stats: Gold=%d, Happiness=%d, Environment=%d\n", s.Gold, s.PopHappiness, s.EnvHealth)
}

func (p *player) NextLevel(level int) { fmt.Printf("LEVEL %d\n", level) }

func (p *player) ProgressChanged(int, float64) {}

func (p *player) AchievementUnlocked(a models.Achievement) {
	fmt.Printf("Achievement unlocked: %s\n", a.Name)
}

func (p *player) Advance(r engine.Result) { p.result = &r }

// pick returns the decision that leaves the lowest metric highest.
func (p *player) pick(card cards.Card) int {
	lo, hi := card.DecisionRange()
	best, bestFloor := lo, -1
	for d := lo; d < hi; d++ {
		opt, err := card.Resolve(d)
		if err != nil {
			continue
		}
		mod := opt.Modifier
		floor := min(
			p.metrics.Gold()+mod.Gold(),
			p.metrics.PopHappiness()+mod.PopHappiness(),
			p.metrics.EnvHealth()+mod.EnvHealth(),
		)
		if floor > bestFloor {
			best, bestFloor = d, floor
		}
	}
	return best
}
