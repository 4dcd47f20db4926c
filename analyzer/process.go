package analyzer

import (
	"sort"
	"strings"
)

// ProcessHits turns raw decoder hits into the ordered, capped result set and
// the matching overlay rectangles. Hits of any symbology other than Code128
// are dropped silently; the survivors are stable-sorted by (top, left) and
// capped at MaxResults. boxes[i] always belongs to rows[i].
func ProcessHits(hits []DecodeHit) ([]ResultRow, []Rect) {
	accepted := make([]DecodeHit, 0, len(hits))
	for _, h := range hits {
		if h.Symbology == SymbologyCode128 {
			accepted = append(accepted, h)
		}
	}
	sort.SliceStable(accepted, func(i, j int) bool {
		if accepted[i].Box.Top != accepted[j].Box.Top {
			return accepted[i].Box.Top < accepted[j].Box.Top
		}
		return accepted[i].Box.Left < accepted[j].Box.Left
	})
	if len(accepted) > MaxResults {
		accepted = accepted[:MaxResults]
	}

	rows := make([]ResultRow, 0, len(accepted))
	boxes := make([]Rect, 0, len(accepted))
	for i, h := range accepted {
		code := decodePayload(h.Payload)
		rows = append(rows, ResultRow{
			Index:      i + 1,
			Code:       code,
			Suggestion: SuggestStructure(code),
		})
		boxes = append(boxes, h.Box)
	}
	return rows, boxes
}

// decodePayload interprets payload bytes as UTF-8, replacing invalid
// sequences with U+FFFD instead of failing.
func decodePayload(payload []byte) string {
	return strings.ToValidUTF8(string(payload), "�")
}

// Summarize counts one decode run for the status line.
func Summarize(hits []DecodeHit, rows []ResultRow) Report {
	rep := Report{Total: len(hits), Shown: len(rows)}
	for _, h := range hits {
		if h.Symbology == SymbologyCode128 {
			rep.Accepted++
		}
	}
	return rep
}
