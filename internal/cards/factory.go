package cards

import (
	"fmt"
	"math/rand"
)

// Pool selects which kind of card a factory should produce.
type Pool string

const (
	PoolStory Pool = "story"
	PoolMinor Pool = "minor"
)

// Factory hands out card instances from a deck. It tracks the current plot
// card and moves to its successor once it has been decided.
type Factory struct {
	deck    *Deck
	plot    map[string]CardDoc
	current *PlotCard

	minor []func() Card
	bag   []int
	rng   *rand.Rand
}

// NewFactory returns a factory positioned at the deck's start card.
func NewFactory(deck *Deck, seed int64) *Factory {
	f := &Factory{
		deck: deck,
		plot: make(map[string]CardDoc, len(deck.Plot)),
		rng:  rand.New(rand.NewSource(seed)),
	}
	for _, doc := range deck.Plot {
		f.plot[doc.ID] = doc
	}
	for _, doc := range deck.Minor {
		f.minor = append(f.minor, func() Card { return doc.MinorCard() })
	}
	for _, doc := range deck.Slider {
		f.minor = append(f.minor, func() Card { return doc.SliderCard() })
	}
	f.current = f.plot[deck.Start].PlotCard()
	return f
}

// AddMinor extends the minor pool.
func (f *Factory) AddMinor(docs ...CardDoc) {
	for _, doc := range docs {
		f.minor = append(f.minor, func() Card { return doc.MinorCard() })
	}
	f.bag = nil
}

// Deck returns the deck the factory draws from.
func (f *Factory) Deck() *Deck { return f.deck }

// CurrentPlotCard returns the plot card the story is positioned at.
func (f *Factory) CurrentPlotCard() *PlotCard { return f.current }

// NewCard returns the next card from pool. A story request returns the
// current plot card, first moving past it if it has been decided. An
// exhausted story or an empty minor pool falls back to the other pool.
func (f *Factory) NewCard(pool Pool) (Card, error) {
	switch pool {
	case PoolStory:
		if f.current.Decided() {
			if f.current.Terminal() {
				return f.drawMinor()
			}
			if err := f.moveTo(f.current.NextStateID); err != nil {
				return nil, err
			}
		}
		return f.current, nil
	case PoolMinor:
		if len(f.minor) == 0 {
			return f.NewCard(PoolStory)
		}
		return f.drawMinor()
	}
	return nil, fmt.Errorf("unknown card pool %q", pool)
}

// LevelTwoCard positions the story at the level two entry card.
func (f *Factory) LevelTwoCard() (*PlotCard, error) { return f.levelCard(2) }

// LevelThreeCard positions the story at the level three entry card.
func (f *Factory) LevelThreeCard() (*PlotCard, error) { return f.levelCard(3) }

func (f *Factory) levelCard(level int) (*PlotCard, error) {
	skip, ok := f.deck.Skip(level)
	if !ok {
		return nil, fmt.Errorf("deck has no entry card for level %d", level)
	}
	if err := f.moveTo(skip.Card); err != nil {
		return nil, err
	}
	return f.current, nil
}

func (f *Factory) moveTo(id string) error {
	doc, ok := f.plot[id]
	if !ok {
		return fmt.Errorf("plot card %q: %w", id, ErrInvalidDeck)
	}
	f.current = doc.PlotCard()
	return nil
}

// drawMinor walks a shuffled bag of the minor pool, refilling it when empty.
func (f *Factory) drawMinor() (Card, error) {
	if len(f.minor) == 0 {
		return nil, fmt.Errorf("minor pool is empty: %w", ErrInvalidDeck)
	}
	if len(f.bag) == 0 {
		f.bag = f.rng.Perm(len(f.minor))
	}
	i := f.bag[0]
	f.bag = f.bag[1:]
	return f.minor[i](), nil
}
