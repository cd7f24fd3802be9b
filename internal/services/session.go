package services

import (
	"strings"

	"github.com/vytor/phrasecards/internal/errors"
	"github.com/vytor/phrasecards/internal/models"
)

// Mode selects how a study queue is built.
type Mode string

const (
	ModeSequential Mode = "sequential"
	ModeDue        Mode = "due"
	ModeScene      Mode = "scene"
	ModeBlock      Mode = "block"
)

var modes = []Mode{ModeSequential, ModeDue, ModeScene, ModeBlock}

func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range modes {
		if m == known {
			return m, nil
		}
	}
	return "", errors.NewValidationError("mode", "must be one of sequential, due, scene, block")
}

const (
	hiddenAnswer = "タップして答え"
	blankSlot    = "___"
	notePrefix   = "💡 "
)

// session is the active study queue. The slot for the current card is
// chosen when the card becomes current and kept until the next advance,
// so the prompt and its answer always come from the same slot.
type session struct {
	queue       []models.Card
	position    int
	revealed    bool
	noteVisible bool
	slot        int // -1 when the current card has no slots
}

func (s *session) empty() bool {
	return len(s.queue) == 0
}

func (s *session) current() (models.Card, bool) {
	if s.empty() {
		return models.Card{}, false
	}
	return s.queue[s.position], true
}

func (s *session) start(queue []models.Card, pick func(n int) int) {
	s.queue = queue
	s.position = 0
	s.enter(pick)
}

// advance moves to the next card, wrapping at the end of the queue.
func (s *session) advance(pick func(n int) int) bool {
	if s.empty() {
		return false
	}
	s.position = (s.position + 1) % len(s.queue)
	s.enter(pick)
	return true
}

func (s *session) enter(pick func(n int) int) {
	s.revealed = false
	s.noteVisible = false
	s.slot = -1
	if card, ok := s.current(); ok && card.HasSlots() {
		s.slot = pick(len(card.Slots))
	}
}

func (s *session) toggleReveal() bool {
	if s.empty() {
		return false
	}
	s.revealed = !s.revealed
	s.noteVisible = s.revealed
	return true
}

func (s *session) view() (models.CardView, bool) {
	card, ok := s.current()
	if !ok {
		return models.CardView{}, false
	}

	prompt, answer := card.JP, card.EN
	if s.slot >= 0 && s.slot < len(card.Slots) {
		prompt, answer = card.Fill(card.Slots[s.slot])
	}
	if !s.revealed {
		if card.HasSlots() {
			answer = strings.Replace(card.EN, models.Placeholder, blankSlot, 1)
		} else {
			answer = hiddenAnswer
		}
	}

	v := models.CardView{
		No:          card.No,
		Prompt:      prompt,
		Answer:      answer,
		Video:       card.Video,
		Lv:          card.Lv,
		Scene:       card.Scene,
		Revealed:    s.revealed,
		NoteVisible: s.noteVisible,
		Position:    s.position + 1,
		QueueLength: len(s.queue),
	}
	if s.noteVisible && card.Note != "" {
		v.Note = notePrefix + card.Note
	}
	return v, true
}
