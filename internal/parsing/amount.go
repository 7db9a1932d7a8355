package parsing

import (
	"regexp"
	"strconv"
	"strings"
)

// Receipts print several figures besides the total: subtotal, tax,
// tendered cash, change. Lines carrying tendered-cash, change,
// payment-method or register-metadata markers are dropped before any
// number is considered, so "お預り ¥10,000" can never shadow the total.
var exclusionKeywords = []string{
	"預り", "預かり", // tendered cash
	"お釣", "おつり", "釣銭", // change
	"現金",           // cash
	"クレジット", "カード", // payment method
	"レシート", "取引", // receipt / transaction number markers
	"TEL", "電話", // phone
	"レジ",        // register
	"担当", "係", // clerk
	"No.", // ID numbers
}

const totalKeywords = `合計|総合計|総計|税込合計|お買上げ|お買上|ご購入合計|TOTAL|Total|total`

const subtotalKeywords = `小計|SUBTOTAL|Subtotal`

// Amount tokens accept digits of either width and either comma.
const amountToken = `([0-9０-９][0-9０-９,，]*)`

var (
	// 合計 ¥1,500 / TOTAL: 1,500
	totalThenNumber = regexp.MustCompile(`(?:` + totalKeywords + `)\s*[::]?\s*[¥￥]?\s*` + amountToken)
	// ¥1,500 合計
	numberThenTotal = regexp.MustCompile(`[¥￥]\s*` + amountToken + `\s*(?:` + totalKeywords + `)`)

	subtotalThenNumber = regexp.MustCompile(`(?:` + subtotalKeywords + `)\s*[::]?\s*[¥￥]?\s*` + amountToken)
	numberThenSubtotal = regexp.MustCompile(`[¥￥]\s*` + amountToken + `\s*(?:` + subtotalKeywords + `)`)

	// 1,200円
	yenSuffixed = regexp.MustCompile(amountToken + `\s*円`)
	// ¥1,200
	yenPrefixed = regexp.MustCompile(`[¥￥]\s*` + amountToken)
)

// extractAmount returns the most plausible transaction total as a decimal
// string, or "" when no tier produces a positive value.
func extractAmount(text string) string {
	lines := candidateLines(text)

	// Labeled totals win in line order; unlabeled figures are only
	// consulted when no label matched anywhere.
	if v, ok := firstKeywordAmount(lines, totalThenNumber, numberThenTotal); ok {
		return strconv.Itoa(v)
	}
	if v, ok := firstKeywordAmount(lines, subtotalThenNumber, numberThenSubtotal); ok {
		return strconv.Itoa(v)
	}
	if v, ok := maxBareAmount(lines, yenSuffixed); ok {
		return strconv.Itoa(v)
	}
	if v, ok := maxBareAmount(lines, yenPrefixed); ok {
		return strconv.Itoa(v)
	}
	return ""
}

// candidateLines drops every line carrying an exclusion keyword.
func candidateLines(text string) []string {
	lines := splitLines(text)
	kept := lines[:0]
	for _, line := range lines {
		if !isExcludedLine(line) {
			kept = append(kept, line)
		}
	}
	return kept
}

func isExcludedLine(line string) bool {
	for _, kw := range exclusionKeywords {
		if strings.Contains(line, kw) {
			return true
		}
	}
	return false
}

// firstKeywordAmount scans lines in order and returns the first strictly
// positive value next to a keyword. A token that fails to parse does not
// abort the scan.
func firstKeywordAmount(lines []string, patterns ...*regexp.Regexp) (int, bool) {
	for _, line := range lines {
		for _, re := range patterns {
			for _, m := range re.FindAllStringSubmatch(line, -1) {
				if v, ok := parseAmountToken(m[1]); ok {
					return v, true
				}
			}
		}
	}
	return 0, false
}

// maxBareAmount collects every match across all lines and returns the
// largest. Unlabeled currency figures are usually line items, and the
// total is typically the largest of them.
func maxBareAmount(lines []string, re *regexp.Regexp) (int, bool) {
	max, found := 0, false
	for _, line := range lines {
		for _, m := range re.FindAllStringSubmatch(line, -1) {
			if v, ok := parseAmountToken(m[1]); ok && v > max {
				max = v
				found = true
			}
		}
	}
	return max, found
}

// parseAmountToken strips thousands separators and rejects anything that
// is not a strictly positive integer.
func parseAmountToken(token string) (int, bool) {
	token = strings.NewReplacer(",", "", "，", "").Replace(normalizeDigits(token))
	v, err := strconv.Atoi(token)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
