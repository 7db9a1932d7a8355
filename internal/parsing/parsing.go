package parsing

import (
	"strings"
	"time"
)

// Fields holds the values extracted from a receipt transcript. An empty
// string means the extractor found nothing it could defend; callers must
// treat every field as an optional suggestion.
type Fields struct {
	Date    string `json:"date"`
	Amount  string `json:"amount"`
	Purpose string `json:"purpose"`
}

// Clock provides the current time
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Engine extracts date, amount and purpose from raw OCR text. It holds no
// state across calls and is safe for concurrent use.
type Engine struct {
	clock Clock
}

// New creates an Engine backed by the system clock
func New() *Engine {
	return &Engine{clock: systemClock{}}
}

// NewWithClock creates an Engine with a custom clock for testing
func NewWithClock(clock Clock) *Engine {
	return &Engine{clock: clock}
}

// Extract runs the three extractors over the transcript. The current year
// is read once up front so the bare month/day fallback sees a single
// snapshot for the whole call.
func (e *Engine) Extract(text string) Fields {
	year := e.clock.Now().Year()
	return Fields{
		Date:    extractDate(text, year),
		Amount:  extractAmount(text),
		Purpose: extractPurpose(text),
	}
}

// splitLines returns the trimmed, non-empty lines of the transcript in
// their original order.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// normalizeDigits maps full-width digits down to ASCII. OCR output mixes
// both widths freely, so every captured number passes through here before
// strconv sees it.
func normalizeDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '０' && r <= '９' {
			return r - '０' + '0'
		}
		return r
	}, s)
}

// truncateRunes caps a string at n characters, not bytes, since receipt
// text is mostly multi-byte.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
