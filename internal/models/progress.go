package models

import "time"

// ReviewState is the scheduling record of a graded card. The JSON shape is
// the persisted contract: milliseconds for both fields.
type ReviewState struct {
	IntervalMs int64 `json:"intervalMs"`
	DueAt      int64 `json:"dueAt"`
}

func (s ReviewState) Interval() time.Duration {
	return time.Duration(s.IntervalMs) * time.Millisecond
}

func (s ReviewState) DueTime() time.Time {
	return time.UnixMilli(s.DueAt)
}

// DailyQuota counts successful reviews for one local calendar day.
type DailyQuota struct {
	Day       string `json:"day"`
	GoodCount int    `json:"goodCount"`
	Goal      int    `json:"goal"`
}

type DailyProgress struct {
	Done    int `json:"done"`
	Goal    int `json:"goal"`
	Percent int `json:"percent"`
}

type BlockProgress struct {
	Block   int    `json:"block"`
	Label   string `json:"label"`
	Learned int    `json:"learned"`
	Total   int    `json:"total"`
	Percent int    `json:"percent"`
}

// CardView is what the presentation layer draws for the current card.
type CardView struct {
	No          int    `json:"no"`
	Prompt      string `json:"prompt"`
	Answer      string `json:"answer"`
	Note        string `json:"note"`
	Video       string `json:"video"`
	Lv          int    `json:"lv"`
	Scene       string `json:"scene"`
	Revealed    bool   `json:"revealed"`
	NoteVisible bool   `json:"note_visible"`
	Position    int    `json:"position"`
	QueueLength int    `json:"queue_length"`
}
