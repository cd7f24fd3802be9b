// Package deck groups catalog cards into fixed-size blocks and free-form
// scenes, and computes learned/total progress for each block.
package deck

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/vytor/phrasecards/internal/models"
)

// BlockSize is the number of consecutive card numbers in one block.
const BlockSize = 30

// BlockOf returns the 1-indexed block of a card number.
func BlockOf(no int) int {
	q := (no - 1) / BlockSize
	if (no-1)%BlockSize < 0 {
		q--
	}
	return q + 1
}

// BlockLabel is the card-number range a block covers, e.g. "31-60".
func BlockLabel(b int) string {
	return fmt.Sprintf("%d-%d", (b-1)*BlockSize+1, b*BlockSize)
}

// Percent rounds part/total to a whole percentage, 0 when total is 0.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// LearnedFunc reports whether the card with the given number is learned.
type LearnedFunc func(no int) bool

// Deck is a read-only view over a loaded catalog.
type Deck struct {
	cards []models.Card
}

func New(cards []models.Card) *Deck {
	return &Deck{cards: slices.Clone(cards)}
}

func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards returns the catalog in source order.
func (d *Deck) Cards() []models.Card {
	return slices.Clone(d.cards)
}

// Select returns the cards matching keep, ascending by number.
func (d *Deck) Select(keep func(models.Card) bool) []models.Card {
	var out []models.Card
	for _, c := range d.cards {
		if keep(c) {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Card) int { return cmp.Compare(a.No, b.No) })
	return out
}

// Sequential returns every card ascending by number.
func (d *Deck) Sequential() []models.Card {
	return d.Select(func(models.Card) bool { return true })
}

func (d *Deck) CardsInBlock(b int) []models.Card {
	return d.Select(func(c models.Card) bool { return BlockOf(c.No) == b })
}

// MaxBlock is the block of the highest card number, or 1 for an empty deck.
func (d *Deck) MaxBlock() int {
	if len(d.cards) == 0 {
		return 1
	}
	highest := slices.MaxFunc(d.cards, func(a, b models.Card) int { return cmp.Compare(a.No, b.No) }).No
	return (highest + BlockSize - 1) / BlockSize
}

func (d *Deck) BlockProgress(b int, learned LearnedFunc) models.BlockProgress {
	cards := d.CardsInBlock(b)
	p := models.BlockProgress{
		Block: b,
		Label: BlockLabel(b),
		Total: len(cards),
	}
	for _, c := range cards {
		if learned(c.No) {
			p.Learned++
		}
	}
	p.Percent = Percent(p.Learned, p.Total)
	return p
}

// BlockProgressAll reports every block from 1 to MaxBlock, including empty
// blocks left by gaps in the numbering.
func (d *Deck) BlockProgressAll(learned LearnedFunc) []models.BlockProgress {
	last := d.MaxBlock()
	out := make([]models.BlockProgress, 0, last)
	for b := 1; b <= last; b++ {
		out = append(out, d.BlockProgress(b, learned))
	}
	return out
}

// Scenes returns the distinct non-empty scene tags in first-seen order.
func (d *Deck) Scenes() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range d.cards {
		if c.Scene == "" || seen[c.Scene] {
			continue
		}
		seen[c.Scene] = true
		out = append(out, c.Scene)
	}
	return out
}

func (d *Deck) CardsInScene(scene string) []models.Card {
	if scene == "" {
		return nil
	}
	return d.Select(func(c models.Card) bool { return c.Scene == scene })
}
