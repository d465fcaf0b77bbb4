package engine

import (
	"errors"
	"slices"
	"testing"

	"github.com/tatianab/sunnytown/internal/cards"
	"github.com/tatianab/sunnytown/internal/metrics"
	"github.com/tatianab/sunnytown/internal/weather"
)

func TestWeatherStrikeOnWaitingForEvents(t *testing.T) {
	h := newHarness(t, testConfig(), nil)
	h.weather.strikes = 1
	h.tick(t, 0)

	h.expectState(t, WeatherEvent)
	if !slices.Contains(h.observer.transitions, tr(WaitingForEvents, WeatherEvent)) {
		t.Errorf("Expected WaitingForEvents->WeatherEvent, got %v", h.observer.transitions)
	}
	dismiss := h.display.dismiss
	if err := dismiss(); err != nil {
		t.Fatalf("dismiss failed: %v", err)
	}
	h.expectState(t, WaitingForEvents)
	if h.weather.resets != 1 {
		t.Errorf("Expected one reset, got %d", h.weather.resets)
	}
	want := metrics.Snapshot{PopHappiness: 46, Gold: 47, EnvHealth: 50}
	assertMetrics(t, h.metrics.Snapshot(), want)

	if err := dismiss(); !errors.Is(err, ErrStaleCallback) {
		t.Errorf("Expected ErrStaleCallback, got %v", err)
	}
	assertMetrics(t, h.metrics.Snapshot(), want)
}

func TestNoWeatherOnceGameLost(t *testing.T) {
	h := newHarness(t, testConfig(), nil)
	h.engine.QueueGameLost(cards.Dialogue{})
	h.weather.strikes = 1
	h.tick(t, 0)
	h.expectState(t, WaitingForEvents)
	h.tick(t, 0)
	h.expectState(t, GameEnding)
	if h.weather.checks != 0 || h.weather.strikes != 1 {
		t.Errorf("Expected no weather roll after losing, got %d checks", h.weather.checks)
	}
}

func TestNoWeatherOnceGameWon(t *testing.T) {
	h := newHarness(t, testConfig(), nil)
	h.toCard(t)
	h.decide(t, 0)
	h.toCard(t)
	h.decide(t, 0)
	h.toCard(t)
	checks := h.weather.checks
	h.weather.strikes = 1

	h.decide(t, 0)
	if !h.engine.GameWon() {
		t.Fatal("Expected game to be won")
	}
	if h.weather.checks != checks || h.weather.strikes != 1 {
		t.Errorf("Expected no weather roll after winning, got %d new checks", h.weather.checks-checks)
	}
	h.tick(t, 0)
	h.expectState(t, GameEnding)
}

func TestWeatherDuringFeedbackShowsFeedbackAfter(t *testing.T) {
	for _, state := range []GameState{WaitingForFeedback, ViewingFeedback} {
		t.Run(state.String(), func(t *testing.T) {
			h := newHarness(t, testConfig(), nil)
			h.toCard(t)
			if err := h.display.choose(0); err != nil {
				t.Fatalf("choose failed: %v", err)
			}
			if state == ViewingFeedback {
				h.tick(t, h.engine.Remaining())
			}
			h.expectState(t, state)

			if err := h.engine.TriggerWeather(weather.AcidRain); err != nil {
				t.Fatalf("TriggerWeather failed: %v", err)
			}
			if err := h.display.dismiss(); err != nil {
				t.Fatalf("dismiss failed: %v", err)
			}
			h.expectState(t, ViewingFeedback)
			if got := h.display.lastNotice().Speaker; got != "Sam" {
				t.Errorf("Expected Sam's feedback after the weather, got %q", got)
			}
			if err := h.display.dismiss(); err != nil {
				t.Fatalf("dismiss failed: %v", err)
			}
			h.expectState(t, WaitingForEvents)
		})
	}
}

func TestWeatherDuringDayEndingKeepsDay(t *testing.T) {
	cfg := testConfig()
	cfg.CardsPerDay = 1
	h := newHarness(t, cfg, nil)
	h.toCard(t)
	h.decide(t, 0)
	h.tick(t, h.engine.Remaining())
	h.expectState(t, DayEnding)

	if err := h.engine.TriggerWeather(weather.Hurricane); err != nil {
		t.Fatalf("TriggerWeather failed: %v", err)
	}
	if err := h.display.dismiss(); err != nil {
		t.Fatalf("dismiss failed: %v", err)
	}
	h.expectState(t, DayEnding)
	if err := h.display.dismiss(); err != nil {
		t.Fatalf("dismiss failed: %v", err)
	}
	h.expectState(t, WaitingForEvents)
	if h.engine.Day() != 2 {
		t.Errorf("Expected day 2, got %d", h.engine.Day())
	}
}

func TestWeatherDuringCampaignKeepsCampaign(t *testing.T) {
	h := newHarness(t, testConfig(), func(d *cards.Deck) {
		d.Campaign = &cards.Campaign{
			Trigger:  0,
			Dialogue: cards.Dialogue{Speaker: "Campaign manager", Lines: []string{"Vote for me."}},
		}
	})
	h.toCard(t)
	if got := h.display.lastNotice().Speaker; got != "Campaign manager" {
		t.Fatalf("Expected campaign notice, got %q", got)
	}

	if err := h.engine.TriggerWeather(weather.Smog); err != nil {
		t.Fatalf("TriggerWeather failed: %v", err)
	}
	if err := h.display.dismiss(); err != nil {
		t.Fatalf("dismiss failed: %v", err)
	}
	h.toCard(t)
	if got := h.display.lastNotice().Speaker; got != "Campaign manager" {
		t.Fatalf("Expected campaign notice again, got %q", got)
	}
	if err := h.display.dismiss(); err != nil {
		t.Fatalf("dismiss failed: %v", err)
	}
	if h.display.card.ID() != "s0" {
		t.Errorf("Expected s0 after the campaign, got %s", h.display.card.ID())
	}
}
