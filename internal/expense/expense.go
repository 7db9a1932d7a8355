package expense

import (
	"time"

	"github.com/suiso11/kaikeisinsei/internal/parsing"
)

// Submission statuses. A submission is created pending when a receipt is
// taken in and becomes recorded once the user-confirmed values have been
// written to the ledger.
const (
	StatusPending  = "pending"
	StatusRecorded = "recorded"
)

// Submission is one reimbursement request moving through intake. The
// Suggested fields come from the parsing engine and are never written to
// the ledger directly; only the confirmed fields are.
type Submission struct {
	ID        string         `json:"id"`
	Status    string         `json:"status"`
	OCRText   string         `json:"ocr_text,omitempty"`
	Suggested parsing.Fields `json:"suggested"`

	// Confirmed by the user
	PaymentDate string `json:"payment_date,omitempty"`
	Category    string `json:"category,omitempty"`
	Payer       string `json:"payer,omitempty"`
	Purpose     string `json:"purpose,omitempty"`
	AmountYen   int    `json:"amount_yen,omitempty"`
	RecordedBy  string `json:"recorded_by,omitempty"`

	ReceiptFile string `json:"receipt_file,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	DriveLink   string `json:"drive_link,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
