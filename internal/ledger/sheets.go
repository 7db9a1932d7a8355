package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"
)

// Entry is one ledger row. Amounts are yen; exactly one of Income and
// Expense is normally set.
type Entry struct {
	EntryDate   string // date the row was recorded
	PaymentDate string // date printed on the receipt
	RecordedBy  string
	Category    string
	Payer       string
	Purpose     string
	Income      int
	Expense     int
}

// Sheets appends expense rows to a Google Sheets ledger and keeps the
// running balance column up to date.
//
// Column layout (A through K): entry date, payment date, recorder,
// account category, payer, purpose, income, expense, running balance,
// audit check, settlement.
type Sheets struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
}

const balanceColumn = 8 // column I, zero-indexed

// NewSheets creates a ledger writer for one spreadsheet. When sheetName is
// empty the sheet is resolved from gid, falling back to the first sheet of
// the document.
func NewSheets(credentialsFile, spreadsheetID string, gid int64, sheetName string) (*Sheets, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}

	ctx := context.Background()
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets client: %w", err)
	}

	s := &Sheets{
		service:       service,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}
	if s.sheetName == "" {
		s.sheetName = s.resolveSheetName(gid)
	}
	return s, nil
}

// resolveSheetName looks the sheet title up by its numeric GID. Uploaded
// xlsx documents keep their original tab names, so the title cannot be
// assumed.
func (s *Sheets) resolveSheetName(gid int64) string {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	meta, err := s.service.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil || len(meta.Sheets) == 0 {
		slog.Warn("Failed to resolve sheet name, using default", "gid", gid, "error", err)
		return "Sheet1"
	}
	for _, sheet := range meta.Sheets {
		if sheet.Properties != nil && sheet.Properties.SheetId == gid {
			return sheet.Properties.Title
		}
	}
	first := meta.Sheets[0].Properties.Title
	slog.Warn("Sheet GID not found, using first sheet", "gid", gid, "sheet", first)
	return first
}

func (s *Sheets) rangeFor(colRange string) string {
	base := fmt.Sprintf("'%s'", s.sheetName)
	if colRange == "" {
		return base
	}
	return base + "!" + colRange
}

// LastBalance returns the running balance of the last filled row, or zero
// when the ledger is empty.
func (s *Sheets) LastBalance() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, s.rangeFor("")).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("reading ledger values: %w", err)
	}
	return lastBalance(resp.Values), nil
}

// lastBalance scans the sheet values bottom-up for the newest parseable
// balance cell. The header row never counts; rows too short to reach the
// balance column and cells that do not parse are skipped, since hand
// edits leave both behind.
func lastBalance(values [][]any) int {
	for i := len(values) - 1; i >= 1; i-- {
		row := values[i]
		if len(row) <= balanceColumn {
			continue
		}
		cell, ok := row[balanceColumn].(string)
		if !ok {
			continue
		}
		if v, ok := parseBalanceCell(cell); ok {
			return v
		}
	}
	return 0
}

// parseBalanceCell strips currency decoration from a balance cell.
// Cells formatted with decimals are truncated toward zero.
func parseBalanceCell(cell string) (int, bool) {
	cell = strings.NewReplacer(",", "", "¥", "", "￥", "", " ", "", "　", "").Replace(strings.TrimSpace(cell))
	if cell == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(cell); err == nil {
		return v, true
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return int(f), true
	}
	return 0, false
}

// nextBalance carries the running balance forward by one entry
func nextBalance(last int, entry Entry) int {
	return last + entry.Income - entry.Expense
}

// row renders the entry as one sheet row, columns A through K. Zero
// amounts become blank cells so the sheet stays readable.
func (e Entry) row(balance int) []any {
	income := any("")
	if e.Income != 0 {
		income = e.Income
	}
	expense := any("")
	if e.Expense != 0 {
		expense = e.Expense
	}

	return []any{
		e.EntryDate,
		e.PaymentDate,
		e.RecordedBy,
		e.Category,
		e.Payer,
		e.Purpose,
		income,
		expense,
		balance,
		"", // audit check, filled by the accountant
		"", // settlement
	}
}

// Append writes one ledger row, carrying the running balance forward.
func (s *Sheets) Append(entry Entry) error {
	last, err := s.LastBalance()
	if err != nil {
		return err
	}
	balance := nextBalance(last, entry)
	row := entry.row(balance)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	_, err = s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, s.rangeFor("A:K"), &sheets.ValueRange{Values: [][]any{row}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("appending ledger row: %w", err)
	}

	slog.Info("Ledger row appended",
		"payment_date", entry.PaymentDate,
		"expense", entry.Expense,
		"balance", balance,
	)
	return nil
}
