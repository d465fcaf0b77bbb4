package cards

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/tatianab/sunnytown/internal/metrics"
	"gopkg.in/yaml.v3"
)

//go:embed content/deck.yaml
var defaultDeck []byte

var ErrInvalidDeck = errors.New("invalid deck")

// TokenDoc is a token recorded by an option.
type TokenDoc struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// OptionDoc is the YAML form of an Option.
type OptionDoc struct {
	Text            string            `yaml:"text"`
	Deltas          metrics.Deltas    `yaml:"deltas"`
	Feedback        string            `yaml:"feedback,omitempty"`
	FeedbackSpeaker string            `yaml:"feedback_speaker,omitempty"`
	Animate         bool              `yaml:"animate,omitempty"`
	Building        string            `yaml:"building,omitempty"`
	Token           *TokenDoc         `yaml:"token,omitempty"`
	AdditionalState string            `yaml:"additional_state,omitempty"`
	Next            string            `yaml:"next,omitempty"`
	Branches        map[string]string `yaml:"branches,omitempty"`
}

// CardDoc is the YAML form of a plot or minor card.
type CardDoc struct {
	ID        string      `yaml:"id"`
	Preceding []string    `yaml:"preceding,omitempty"`
	Speaker   string      `yaml:"speaker"`
	Question  string      `yaml:"question"`
	Options   []OptionDoc `yaml:"options"`
}

// SliderDoc is the YAML form of a slider card.
type SliderDoc struct {
	ID        string         `yaml:"id"`
	Preceding []string       `yaml:"preceding,omitempty"`
	Speaker   string         `yaml:"speaker"`
	Question  string         `yaml:"question"`
	Min       int            `yaml:"min"`
	Max       int            `yaml:"max"`
	PerUnit   metrics.Deltas `yaml:"per_unit"`
	Feedback  Dialogue       `yaml:"feedback,omitempty"`
}

// Campaign is a one-off dialogue shown instead of a card when the plot
// reaches Trigger.
type Campaign struct {
	Trigger  int `yaml:"trigger"`
	Dialogue `yaml:",inline"`
}

// LevelSkip describes the cheat path into a later level.
type LevelSkip struct {
	Level int    `yaml:"level"`
	Card  string `yaml:"card"`
	Next  string `yaml:"next"`
}

// Deck is the full card content of a game.
type Deck struct {
	Start      string      `yaml:"start"`
	FinalCard  string      `yaml:"final_card"`
	Campaign   *Campaign   `yaml:"campaign,omitempty"`
	LevelSkips []LevelSkip `yaml:"level_skips,omitempty"`
	Ideal      []TokenDoc  `yaml:"ideal_tokens,omitempty"`
	Plot       []CardDoc   `yaml:"plot"`
	Minor      []CardDoc   `yaml:"minor"`
	Slider     []SliderDoc `yaml:"slider,omitempty"`
	Endings    Endings     `yaml:"endings"`
}

// DefaultDeck returns the built-in deck.
func DefaultDeck() (*Deck, error) {
	return ParseDeck(defaultDeck)
}

// LoadDeck reads a deck from a YAML file.
func LoadDeck(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDeck(data)
}

// ParseDeck decodes and validates a deck.
func ParseDeck(data []byte) (*Deck, error) {
	var d Deck
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse deck: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks that the plot graph is well formed: every successor
// resolves, and the final card is the only card without one.
func (d *Deck) Validate() error {
	if len(d.Plot) == 0 {
		return fmt.Errorf("%w: no plot cards", ErrInvalidDeck)
	}
	ids := make(map[string]bool, len(d.Plot))
	for _, c := range d.Plot {
		if ids[c.ID] {
			return fmt.Errorf("%w: duplicate plot card %q", ErrInvalidDeck, c.ID)
		}
		ids[c.ID] = true
	}
	if d.Start == "" {
		d.Start = d.Plot[0].ID
	}
	if !ids[d.Start] {
		return fmt.Errorf("%w: start card %q not found", ErrInvalidDeck, d.Start)
	}
	if !ids[d.FinalCard] {
		return fmt.Errorf("%w: final card %q not found", ErrInvalidDeck, d.FinalCard)
	}
	for _, c := range d.Plot {
		if len(c.Options) == 0 {
			return fmt.Errorf("%w: plot card %q has no options", ErrInvalidDeck, c.ID)
		}
		for i, o := range c.Options {
			successors := []string{o.Next}
			for _, next := range o.Branches {
				successors = append(successors, next)
			}
			for _, next := range successors {
				if next == "" {
					if c.ID != d.FinalCard {
						return fmt.Errorf("%w: plot card %q option %d has no successor", ErrInvalidDeck, c.ID, i)
					}
					continue
				}
				if c.ID == d.FinalCard {
					return fmt.Errorf("%w: final card %q has successor %q", ErrInvalidDeck, c.ID, next)
				}
				if !ids[next] {
					return fmt.Errorf("%w: plot card %q option %d points at unknown card %q", ErrInvalidDeck, c.ID, i, next)
				}
			}
		}
	}
	for _, skip := range d.LevelSkips {
		if !ids[skip.Card] || !ids[skip.Next] {
			return fmt.Errorf("%w: level %d skip references unknown card", ErrInvalidDeck, skip.Level)
		}
	}
	for _, c := range d.Minor {
		if len(c.Options) == 0 {
			return fmt.Errorf("%w: minor card %q has no options", ErrInvalidDeck, c.ID)
		}
	}
	for _, s := range d.Slider {
		if s.Max < s.Min {
			return fmt.Errorf("%w: slider card %q has empty range", ErrInvalidDeck, s.ID)
		}
	}
	return nil
}

// Skip returns the cheat path for level, if the deck has one.
func (d *Deck) Skip(level int) (LevelSkip, bool) {
	for _, s := range d.LevelSkips {
		if s.Level == level {
			return s, true
		}
	}
	return LevelSkip{}, false
}

// IdealTokens returns the token set of the default ideal decision path.
func (d *Deck) IdealTokens() map[string]string {
	tokens := make(map[string]string, len(d.Ideal))
	for _, t := range d.Ideal {
		tokens[t.Key] = t.Value
	}
	return tokens
}

func (doc OptionDoc) option() Option {
	o := Option{
		Text:            doc.Text,
		Modifier:        doc.Deltas.Modifier(),
		Feedback:        doc.Feedback,
		FeedbackSpeaker: doc.FeedbackSpeaker,
		Animate:         doc.Animate,
		Building:        doc.Building,
		AdditionalState: doc.AdditionalState,
		Next:            doc.Next,
		Branches:        doc.Branches,
	}
	if doc.Token != nil {
		o.TokenKey = doc.Token.Key
		o.TokenValue = doc.Token.Value
	}
	return o
}

func (doc CardDoc) prompt() Prompt {
	return Prompt{Preceding: doc.Preceding, Speaker: doc.Speaker, Question: doc.Question}
}

func (doc CardDoc) options() []Option {
	opts := make([]Option, len(doc.Options))
	for i, o := range doc.Options {
		opts[i] = o.option()
	}
	return opts
}

// PlotCard builds a fresh instance of the card.
func (doc CardDoc) PlotCard() *PlotCard {
	return NewPlotCard(doc.ID, doc.prompt(), doc.options())
}

// MinorCard builds a fresh instance of the card.
func (doc CardDoc) MinorCard() *MinorCard {
	return NewMinorCard(doc.ID, doc.prompt(), doc.options())
}

// SliderCard builds a fresh instance of the card.
func (doc SliderDoc) SliderCard() *SliderCard {
	prompt := Prompt{Preceding: doc.Preceding, Speaker: doc.Speaker, Question: doc.Question}
	return NewSliderCard(doc.ID, prompt, doc.Min, doc.Max, doc.PerUnit.Modifier(), doc.Feedback)
}

// Buildings returns every building an option in the deck can animate.
func (d *Deck) Buildings() []string {
	seen := make(map[string]bool)
	var out []string
	for _, group := range [][]CardDoc{d.Plot, d.Minor} {
		for _, c := range group {
			for _, o := range c.Options {
				if o.Building != "" && !seen[o.Building] {
					seen[o.Building] = true
					out = append(out, o.Building)
				}
			}
		}
	}
	return out
}
