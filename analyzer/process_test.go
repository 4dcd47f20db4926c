package analyzer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func code128Hit(payload string, top, left int) DecodeHit {
	return DecodeHit{
		Payload:   []byte(payload),
		Symbology: SymbologyCode128,
		Box:       Rect{Left: left, Top: top, Width: 120, Height: 40},
	}
}

func TestProcessHitsCapsAtTen(t *testing.T) {
	hits := make([]DecodeHit, 0, 15)
	for i := 0; i < 15; i++ {
		hits = append(hits, code128Hit(fmt.Sprintf("CODE%02d", i), i*50, 10))
	}
	rows, boxes := ProcessHits(hits)
	require.Len(t, rows, MaxResults)
	require.Len(t, boxes, MaxResults)
	// The ten hits with the smallest top coordinates survive.
	for i, row := range rows {
		assert.Equal(t, i+1, row.Index)
		assert.Equal(t, fmt.Sprintf("CODE%02d", i), row.Code)
		assert.Equal(t, i*50, boxes[i].Top)
	}
}

func TestProcessHitsDropsOtherSymbologies(t *testing.T) {
	hits := []DecodeHit{
		{Payload: []byte("QR1"), Symbology: "QR_CODE", Box: Rect{Top: 0, Left: 0, Width: 50, Height: 50}},
		code128Hit("KEEP1", 10, 10),
		{Payload: []byte("EAN"), Symbology: "EAN_13", Box: Rect{Top: 20, Left: 0, Width: 50, Height: 20}},
		code128Hit("KEEP2", 30, 10),
	}
	rows, boxes := ProcessHits(hits)
	require.Len(t, rows, 2)
	require.Len(t, boxes, 2)
	assert.Equal(t, "KEEP1", rows[0].Code)
	assert.Equal(t, "KEEP2", rows[1].Code)
}

func TestProcessHitsSortOrder(t *testing.T) {
	hits := []DecodeHit{
		code128Hit("bottom", 200, 5),
		code128Hit("top-right", 10, 300),
		code128Hit("top-left", 10, 20),
		code128Hit("middle", 100, 50),
	}
	rows, _ := ProcessHits(hits)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"top-left", "top-right", "middle", "bottom"},
		[]string{rows[0].Code, rows[1].Code, rows[2].Code, rows[3].Code})
}

func TestProcessHitsStableTies(t *testing.T) {
	// Identical boxes keep their encounter order.
	hits := []DecodeHit{
		code128Hit("first", 10, 10),
		code128Hit("second", 10, 10),
		code128Hit("third", 10, 10),
	}
	rows, _ := ProcessHits(hits)
	require.Len(t, rows, 3)
	assert.Equal(t, "first", rows[0].Code)
	assert.Equal(t, "second", rows[1].Code)
	assert.Equal(t, "third", rows[2].Code)
}

func TestProcessHitsInvalidPayload(t *testing.T) {
	hits := []DecodeHit{
		{
			Payload:   append([]byte{0xff, 0xfe}, []byte("AB")...),
			Symbology: SymbologyCode128,
			Box:       Rect{Top: 0, Left: 0, Width: 10, Height: 10},
		},
	}
	rows, _ := ProcessHits(hits)
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0].Code, "�")
	assert.True(t, strings.HasSuffix(rows[0].Code, "AB"))
}

func TestProcessHitsSuggestionMatchesCode(t *testing.T) {
	hits := []DecodeHit{
		code128Hit("9123456A", 0, 0),
		code128Hit("9123456A", 50, 0),
	}
	rows, _ := ProcessHits(hits)
	require.Len(t, rows, 2)
	assert.Equal(t, SuggestStructure("9123456A"), rows[0].Suggestion)
	// Identical codes always carry identical suggestions.
	assert.Equal(t, rows[0].Suggestion, rows[1].Suggestion)
	assert.Empty(t, rows[0].Note)
}

func TestProcessHitsEmpty(t *testing.T) {
	rows, boxes := ProcessHits(nil)
	assert.Empty(t, rows)
	assert.Empty(t, boxes)

	rows, boxes = ProcessHits([]DecodeHit{{Payload: []byte("x"), Symbology: "AZTEC"}})
	assert.Empty(t, rows)
	assert.Empty(t, boxes)
}

func TestSummarize(t *testing.T) {
	hits := []DecodeHit{
		code128Hit("a", 0, 0),
		code128Hit("b", 10, 0),
		{Payload: []byte("c"), Symbology: "QR_CODE"},
	}
	rows, _ := ProcessHits(hits)
	rep := Summarize(hits, rows)
	assert.Equal(t, 3, rep.Total)
	assert.Equal(t, 2, rep.Accepted)
	assert.Equal(t, 2, rep.Shown)
}
