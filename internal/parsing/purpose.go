package parsing

import (
	"regexp"
	"unicode/utf8"
)

// Merchant names sit in the first few printed lines, above the item list.
// Lines that are only numbers and punctuation (receipt numbers, rulers,
// prices) are skipped when looking for one.
var purposeSymbols = regexp.MustCompile(`[0-9０-９\s\-/.,:;=*#+¥￥円]`)

const (
	purposeScanLines = 5
	purposeMaxLen    = 50
)

// extractPurpose returns a short merchant/purpose label, or "" when the
// transcript has no non-empty lines.
func extractPurpose(text string) string {
	lines := splitLines(text)
	if len(lines) == 0 {
		return ""
	}

	scan := lines
	if len(scan) > purposeScanLines {
		scan = scan[:purposeScanLines]
	}
	for _, line := range scan {
		residual := purposeSymbols.ReplaceAllString(line, "")
		if utf8.RuneCountInString(residual) >= 2 {
			return truncateRunes(line, purposeMaxLen)
		}
	}

	// Nothing looked like a name; the first line is still the best guess.
	return truncateRunes(lines[0], purposeMaxLen)
}
