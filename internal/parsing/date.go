package parsing

import (
	"fmt"
	"regexp"
	"strconv"
)

// Date patterns are tried in a fixed order: a full Gregorian date, then a
// Japanese era date, then a bare month/day that assumes the current year.
// Each tier searches the whole transcript once; the first pattern
// occurrence anywhere in the text is used. OCR emits digits in either
// width, so the digit class covers both.
const dd = `[0-9０-９]`

var (
	gregorianPattern = regexp.MustCompile(`(` + dd + `{4})\s*[/\-.年]\s*(` + dd + `{1,2})\s*[/\-.月]\s*(` + dd + `{1,2})\s*日?`)

	bareMonthDayPattern = regexp.MustCompile(`(` + dd + `{1,2})\s*[/\-月]\s*(` + dd + `{1,2})\s*日?`)
)

// eraPattern maps an imperial era spelling to its Gregorian year offset
// (era year 1 = offset + 1). Adding a future era is a new table row.
type eraPattern struct {
	re     *regexp.Regexp
	offset int
}

var eraPatterns = []eraPattern{
	// 令和8年2月8日
	{regexp.MustCompile(`令和\s*(` + dd + `{1,2})\s*[/\-.年]\s*(` + dd + `{1,2})\s*[/\-.月]\s*(` + dd + `{1,2})\s*日?`), 2018},
	// R8.2.8 / Ｒ8/2/8
	{regexp.MustCompile(`[RＲ]\s*(` + dd + `{1,2})\s*[/\-.年]\s*(` + dd + `{1,2})\s*[/\-.月]\s*(` + dd + `{1,2})\s*日?`), 2018},
}

const (
	minGregorianYear = 2000
	maxGregorianYear = 2100
)

// extractDate returns the first recognized calendar date as YYYY/MM/DD, or
// "" when no tier matches. currentYear backs the year-less fallback tier.
func extractDate(text string, currentYear int) string {
	if m := gregorianPattern.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(normalizeDigits(m[1]))
		if year >= minGregorianYear && year <= maxGregorianYear {
			return formatDate(year, m[2], m[3])
		}
		// Out-of-range year: fall through to the era tiers rather than
		// scanning for another Gregorian occurrence.
	}

	for _, era := range eraPatterns {
		if m := era.re.FindStringSubmatch(text); m != nil {
			eraYear, _ := strconv.Atoi(normalizeDigits(m[1]))
			return formatDate(era.offset+eraYear, m[2], m[3])
		}
	}

	if m := bareMonthDayPattern.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(normalizeDigits(m[1]))
		day, _ := strconv.Atoi(normalizeDigits(m[2]))
		// Day 31 is accepted for every month; receipts are suggestions,
		// not authoritative values.
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return fmt.Sprintf("%d/%02d/%02d", currentYear, month, day)
		}
	}

	return ""
}

func formatDate(year int, month, day string) string {
	m, _ := strconv.Atoi(normalizeDigits(month))
	d, _ := strconv.Atoi(normalizeDigits(day))
	return fmt.Sprintf("%d/%02d/%02d", year, m, d)
}
