package models

import (
	"strings"
	"time"
)

// Placeholder is the token in a card's prompt and answer that a slot fills in.
const Placeholder = "{x}"

// Slot is one fill-in-the-blank variant of a card.
type Slot struct {
	JP string `json:"jp"`
	EN string `json:"en"`
}

// Card is a single study item loaded from the catalog. Cards are never mutated
// after loading.
type Card struct {
	No    int    `json:"no"`
	JP    string `json:"jp"`
	EN    string `json:"en"`
	Slots []Slot `json:"slots"`
	Video string `json:"video"`
	Lv    int    `json:"lv"`
	Note  string `json:"note"`
	Scene string `json:"scene"`
}

func (c Card) HasSlots() bool {
	return len(c.Slots) > 0
}

// Fill substitutes the first placeholder in jp and en with the slot fragments.
func (c Card) Fill(s Slot) (prompt, answer string) {
	return strings.Replace(c.JP, Placeholder, s.JP, 1), strings.Replace(c.EN, Placeholder, s.EN, 1)
}

// RowError describes a catalog line that was skipped during loading.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// CatalogInfo summarizes the currently loaded catalog.
type CatalogInfo struct {
	Loaded   bool       `json:"loaded"`
	Source   string     `json:"source,omitempty"`
	Size     int        `json:"size"`
	Skipped  []RowError `json:"skipped"`
	LoadedAt time.Time  `json:"loaded_at"`
}
