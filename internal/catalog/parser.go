package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/vytor/phrasecards/internal/models"
)

// Columns is the fixed header of the card table.
var Columns = []string{"no", "jp", "en", "slots", "video", "lv", "note", "scene"}

// ErrMalformedHeader is returned when the text has neither the expected header
// nor a single valid row, e.g. an HTML error page.
var ErrMalformedHeader = errors.New("catalog: malformed header")

// Result is a parsed catalog plus the rows that were rejected.
type Result struct {
	Cards   []models.Card
	Skipped []models.RowError
	// Header is the discarded first line; HeaderMismatch is set when it
	// differs from Columns.
	Header         []string
	HeaderMismatch bool
}

// HeaderMatches reports whether fields name Columns in order, ignoring case
// and surrounding space.
func HeaderMatches(fields []string) bool {
	if len(fields) != len(Columns) {
		return false
	}
	for i, f := range fields {
		if !strings.EqualFold(strings.TrimSpace(f), Columns[i]) {
			return false
		}
	}
	return true
}

// Parse reads the card table. Rows keep their source order. Rows with an
// invalid number or level, or a repeated number, are skipped and reported
// in Result.Skipped instead of failing the whole catalog.
func Parse(text string) (Result, error) {
	var res Result

	text = strings.TrimSpace(strings.TrimPrefix(text, "\ufeff"))
	if text == "" {
		return res, nil
	}

	lines := strings.Split(text, "\n")
	// The first line is always the header and never a card.
	res.Header = SplitLine(strings.TrimRight(lines[0], "\r"))
	res.HeaderMismatch = !HeaderMatches(res.Header)

	seen := make(map[int]int)
	for i, line := range lines[1:] {
		lineNo := i + 2
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		card, err := parseRow(SplitLine(line))
		if err != nil {
			res.Skipped = append(res.Skipped, models.RowError{Line: lineNo, Reason: err.Error()})
			continue
		}
		if first, dup := seen[card.No]; dup {
			res.Skipped = append(res.Skipped, models.RowError{
				Line:   lineNo,
				Reason: fmt.Sprintf("duplicate no %d (first on line %d)", card.No, first),
			})
			continue
		}
		seen[card.No] = lineNo
		res.Cards = append(res.Cards, card)
	}

	if res.HeaderMismatch && len(res.Cards) == 0 && len(res.Skipped) > 0 {
		return Result{}, errors.Wrapf(ErrMalformedHeader, "header %q and no valid rows", strings.Join(res.Header, ","))
	}
	return res, nil
}

func parseRow(cols []string) (models.Card, error) {
	col := func(i int) string {
		if i < len(cols) {
			return cols[i]
		}
		return ""
	}

	no, err := strconv.Atoi(strings.TrimSpace(col(0)))
	if err != nil {
		return models.Card{}, fmt.Errorf("invalid no %q", col(0))
	}
	if no < 1 {
		return models.Card{}, fmt.Errorf("no must be positive, got %d", no)
	}

	lv := 1
	if raw := strings.TrimSpace(col(5)); raw != "" {
		lv, err = strconv.Atoi(raw)
		if err != nil {
			return models.Card{}, fmt.Errorf("invalid lv %q", col(5))
		}
	}

	return models.Card{
		No:    no,
		JP:    col(1),
		EN:    col(2),
		Slots: ParseSlots(col(3)),
		Video: col(4),
		Lv:    lv,
		Note:  col(6),
		Scene: col(7),
	}, nil
}

// SplitLine splits one table line on commas. A double quote toggles quoted
// mode for the rest of the line and is dropped from the output; there is no
// escaped-quote form.
func SplitLine(line string) []string {
	var (
		out      []string
		cur      strings.Builder
		inQuotes bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	return append(out, cur.String())
}

// ParseSlots reads the slots column: "jp=en|jp=en". Only the first two
// "="-separated parts of an entry are used.
func ParseSlots(raw string) []models.Slot {
	if raw == "" {
		return nil
	}
	entries := strings.Split(raw, "|")
	slots := make([]models.Slot, 0, len(entries))
	for _, e := range entries {
		parts := strings.Split(e, "=")
		s := models.Slot{JP: parts[0]}
		if len(parts) > 1 {
			s.EN = parts[1]
		}
		slots = append(slots, s)
	}
	return slots
}
