package engine

import "fmt"

// GameState is the phase of the game loop. Exactly one is active at a time.
type GameState int

const (
	GameStarting GameState = iota
	GamePaused
	WaitingForEvents
	SelectingPlotDecision
	SelectingMinorDecision
	WaitingForFeedback
	ViewingFeedback
	DayEnding
	GameEnding
	WeatherEvent
)

var stateNames = [...]string{
	GameStarting:           "GameStarting",
	GamePaused:             "GamePaused",
	WaitingForEvents:       "WaitingForEvents",
	SelectingPlotDecision:  "SelectingPlotDecision",
	SelectingMinorDecision: "SelectingMinorDecision",
	WaitingForFeedback:     "WaitingForFeedback",
	ViewingFeedback:        "ViewingFeedback",
	DayEnding:              "DayEnding",
	GameEnding:             "GameEnding",
	WeatherEvent:           "WeatherEvent",
}

func (s GameState) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("GameState(%d)", int(s))
}

// selecting reports whether s waits on a card decision.
func (s GameState) selecting() bool {
	return s == SelectingPlotDecision || s == SelectingMinorDecision
}
