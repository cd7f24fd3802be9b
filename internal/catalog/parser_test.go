package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/phrasecards/internal/catalog"
	"github.com/vytor/phrasecards/internal/models"
)

const header = "no,jp,en,slots,video,lv,note,scene\n"

func TestParse_SingleRow(t *testing.T) {
	res, err := catalog.Parse(header + "5,こんにちは,hello,,video1,2,greeting note,intro")
	require.NoError(t, err)
	require.Len(t, res.Cards, 1)
	assert.Empty(t, res.Skipped)

	assert.Equal(t, models.Card{
		No:    5,
		JP:    "こんにちは",
		EN:    "hello",
		Slots: nil,
		Video: "video1",
		Lv:    2,
		Note:  "greeting note",
		Scene: "intro",
	}, res.Cards[0])
}

func TestParse_HeaderOnly(t *testing.T) {
	res, err := catalog.Parse(header)
	require.NoError(t, err)
	assert.Empty(t, res.Cards)
	assert.Empty(t, res.Skipped)
}

func TestParse_EmptyText(t *testing.T) {
	res, err := catalog.Parse("  \n ")
	require.NoError(t, err)
	assert.Empty(t, res.Cards)
}

func TestParse_MalformedHeader(t *testing.T) {
	_, err := catalog.Parse("<html>\n<body>not found</body>\n</html>")
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrMalformedHeader)
}

func TestParse_HeaderAlwaysDiscarded(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		mismatch bool
	}{
		{"expected", "no,jp,en,slots,video,lv,note,scene", false},
		{"capitalised", "No,JP,EN,slots,video,lv,note,scene", false},
		{"japanese", "番号,日本語,英語,スロット,動画,レベル,メモ,シーン", true},
		{"short", "no,jp,en", true},
		{"card-like", "1,a,A", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := catalog.Parse(tt.header + "\n5,こんにちは,hello,,video1,2,greeting note,intro\n")
			require.NoError(t, err)
			require.Len(t, res.Cards, 1)
			assert.Equal(t, 5, res.Cards[0].No)
			assert.Equal(t, "intro", res.Cards[0].Scene)
			assert.Equal(t, tt.mismatch, res.HeaderMismatch)
		})
	}
}

func TestParse_MismatchedHeaderOnly(t *testing.T) {
	res, err := catalog.Parse("番号,日本語,英語")
	require.NoError(t, err)
	assert.Empty(t, res.Cards)
	assert.True(t, res.HeaderMismatch)
}

func TestParse_PreservesSourceOrder(t *testing.T) {
	res, err := catalog.Parse(header + "31,c,C\n2,b,B\n1,a,A\n")
	require.NoError(t, err)
	require.Len(t, res.Cards, 3)

	assert.Equal(t, 31, res.Cards[0].No)
	assert.Equal(t, 2, res.Cards[1].No)
	assert.Equal(t, 1, res.Cards[2].No)
}

func TestParse_MissingColumnsDefault(t *testing.T) {
	res, err := catalog.Parse(header + "7,猫,cat")
	require.NoError(t, err)
	require.Len(t, res.Cards, 1)

	card := res.Cards[0]
	assert.Equal(t, 1, card.Lv, "blank lv defaults to 1")
	assert.Empty(t, card.Video)
	assert.Empty(t, card.Note)
	assert.Empty(t, card.Scene)
	assert.False(t, card.HasSlots())
}

func TestParse_CRLFAndBOM(t *testing.T) {
	res, err := catalog.Parse("\ufeffno,jp,en,slots,video,lv,note,scene\r\n1,a,A,,,,,s1\r\n2,b,B,,,,,s2\r\n")
	require.NoError(t, err)
	require.Len(t, res.Cards, 2)
	assert.Equal(t, "s1", res.Cards[0].Scene)
	assert.Equal(t, "s2", res.Cards[1].Scene)
}

func TestParse_MalformedRowsAreSkipped(t *testing.T) {
	text := header +
		"1,a,A\n" +
		"x,bad,BAD\n" +
		"3,c,C,,,high\n" +
		"0,zero,ZERO\n" +
		"\n" +
		"1,dup,DUP\n" +
		"6,f,F\n"

	res, err := catalog.Parse(text)
	require.NoError(t, err)

	require.Len(t, res.Cards, 2)
	assert.Equal(t, 1, res.Cards[0].No)
	assert.Equal(t, "a", res.Cards[0].JP)
	assert.Equal(t, 6, res.Cards[1].No)

	require.Len(t, res.Skipped, 4)
	assert.Equal(t, 3, res.Skipped[0].Line)
	assert.Contains(t, res.Skipped[0].Reason, "invalid no")
	assert.Equal(t, 4, res.Skipped[1].Line)
	assert.Contains(t, res.Skipped[1].Reason, "invalid lv")
	assert.Equal(t, 5, res.Skipped[2].Line)
	assert.Contains(t, res.Skipped[2].Reason, "positive")
	assert.Equal(t, 7, res.Skipped[3].Line)
	assert.Contains(t, res.Skipped[3].Reason, "duplicate no 1")
}

func TestParse_SlotsColumn(t *testing.T) {
	res, err := catalog.Parse(header + "9,私は{x}です,I am {x},学生=a student|先生=a teacher,v,1,,")
	require.NoError(t, err)
	require.Len(t, res.Cards, 1)

	assert.Equal(t, []models.Slot{
		{JP: "学生", EN: "a student"},
		{JP: "先生", EN: "a teacher"},
	}, res.Cards[0].Slots)
}

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected []string
	}{
		{
			name:     "plain fields",
			line:     "1,a,b",
			expected: []string{"1", "a", "b"},
		},
		{
			name:     "quoted comma",
			line:     `1,"a, b",c`,
			expected: []string{"1", "a, b", "c"},
		},
		{
			name:     "empty fields",
			line:     "1,,,",
			expected: []string{"1", "", "", ""},
		},
		{
			name:     "unbalanced quote swallows the rest of the line",
			line:     `1,"a,b,c`,
			expected: []string{"1", "a,b,c"},
		},
		{
			name:     "quote in the middle of a field is dropped",
			line:     `1,say "hi",x`,
			expected: []string{"1", "say hi", "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, catalog.SplitLine(tt.line))
		})
	}
}

func TestParseSlots(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []models.Slot
	}{
		{name: "empty", raw: "", expected: nil},
		{name: "single", raw: "犬=dog", expected: []models.Slot{{JP: "犬", EN: "dog"}}},
		{name: "missing answer", raw: "犬", expected: []models.Slot{{JP: "犬"}}},
		{name: "extra equals ignored", raw: "a=b=c", expected: []models.Slot{{JP: "a", EN: "b"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, catalog.ParseSlots(tt.raw))
		})
	}
}
