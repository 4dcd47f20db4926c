package analyzer

import (
	"fmt"
	"strings"
	"unicode"
)

// SuggestStructure breaks a decoded code into digit/letter runs and renders
// a readable description: the runs joined with " + ", a compact pattern
// signature such as N{6}L{1}, and a few heuristic hints. It is a pure
// function of its input; empty input yields empty output.
func SuggestStructure(code string) string {
	if code == "" {
		return ""
	}
	runes := []rune(code)
	var parts [][]rune
	buf := []rune{runes[0]}
	for _, r := range runes[1:] {
		last := buf[len(buf)-1]
		if (unicode.IsDigit(r) && unicode.IsDigit(last)) || (unicode.IsLetter(r) && unicode.IsLetter(last)) {
			buf = append(buf, r)
			continue
		}
		parts = append(parts, buf)
		buf = []rune{r}
	}
	parts = append(parts, buf)

	var pattern strings.Builder
	groups := make([]string, len(parts))
	for i, part := range parts {
		fmt.Fprintf(&pattern, "%s{%d}", tokenKind(part), len(part))
		groups[i] = string(part)
	}

	var hints []string
	if runes[0] == '9' && len(runes) >= 2 {
		hints = append(hints, "starts with 9 (flag)")
	}
	if unicode.IsLetter(runes[len(runes)-1]) {
		hints = append(hints, "letter suffix")
	}
	for _, part := range parts {
		if tokenKind(part) == "N" && len(part) >= 5 && len(part) < 7 {
			hints = append(hints, "possible numeric serial")
			break
		}
	}

	out := fmt.Sprintf("%s  [%s]", strings.Join(groups, " + "), pattern.String())
	if len(hints) > 0 {
		out += " | " + strings.Join(hints, ", ")
	}
	return out
}

func tokenKind(part []rune) string {
	digits, letters := true, true
	for _, r := range part {
		if !unicode.IsDigit(r) {
			digits = false
		}
		if !unicode.IsLetter(r) {
			letters = false
		}
	}
	switch {
	case digits:
		return "N"
	case letters:
		return "L"
	default:
		return "X"
	}
}
