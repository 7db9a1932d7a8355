package bot

import (
	"fmt"
	"strings"

	"github.com/suiso11/kaikeisinsei/internal/expense"
)

const missingField = "（読み取れませんでした）"

func formatSuggestion(sub *expense.Submission) string {
	var sb strings.Builder
	sb.WriteString("レシートを解析しました。\n\n")
	fmt.Fprintf(&sb, "日付: %s\n", orMissing(sub.Suggested.Date))
	fmt.Fprintf(&sb, "金額: %s\n", formatAmount(sub.Suggested.Amount))
	fmt.Fprintf(&sb, "用途: %s\n", orMissing(sub.Suggested.Purpose))
	sb.WriteString("\nこの内容で記帳しますか？")
	return sb.String()
}

func formatRecorded(sub *expense.Submission) string {
	var sb strings.Builder
	sb.WriteString("記帳しました。\n\n")
	fmt.Fprintf(&sb, "日付: %s\n", sub.PaymentDate)
	fmt.Fprintf(&sb, "金額: %s円\n", groupDigits(sub.AmountYen))
	fmt.Fprintf(&sb, "用途: %s\n", sub.Purpose)
	if sub.DriveLink != "" {
		fmt.Fprintf(&sb, "レシート: %s\n", sub.DriveLink)
	}
	return sb.String()
}

func orMissing(s string) string {
	if s == "" {
		return missingField
	}
	return s
}

func formatAmount(s string) string {
	if s == "" {
		return missingField
	}
	return s + "円"
}

// groupDigits renders 1234567 as 1,234,567
func groupDigits(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var sb strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		sb.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}
