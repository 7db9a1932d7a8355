package expense

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/suiso11/kaikeisinsei/internal/ledger"
	"github.com/suiso11/kaikeisinsei/internal/parsing"
	"github.com/suiso11/kaikeisinsei/internal/scanning"
)

// Ledger appends confirmed submissions to the accounting ledger
type Ledger interface {
	Append(entry ledger.Entry) error
}

// Uploader archives receipt files and returns a shareable link
type Uploader interface {
	Upload(filename, mimeType string, data []byte) (string, error)
}

// IDGenerator generates unique IDs for submissions
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (uuidGenerator) Generate() string {
	return uuid.NewString()
}

type systemTimeSource struct{}

func (systemTimeSource) Now() time.Time {
	return time.Now()
}

// Service drives a submission from receipt intake to a recorded ledger
// row.
type Service struct {
	db          DB
	scanner     scanning.Scanner
	storage     Storage
	engine      *parsing.Engine
	ledger      Ledger
	uploader    Uploader
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a Service with the default ID generator and clock
func NewService(db DB, scanner scanning.Scanner, storage Storage, engine *parsing.Engine, ldg Ledger, uploader Uploader) *Service {
	return NewServiceWithDeps(db, scanner, storage, engine, ldg, uploader, uuidGenerator{}, systemTimeSource{})
}

// NewServiceWithDeps creates a Service with custom dependencies for testing
func NewServiceWithDeps(db DB, scanner scanning.Scanner, storage Storage, engine *parsing.Engine, ldg Ledger, uploader Uploader, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		scanner:     scanner,
		storage:     storage,
		engine:      engine,
		ledger:      ldg,
		uploader:    uploader,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

var (
	filenameJunk   = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	filenameSpaces = regexp.MustCompile(`\s+`)
)

// sanitizeFilename flattens phone-generated filenames down to something
// safe to place on disk, keeping the extension.
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	base = filenameJunk.ReplaceAllString(base, "")
	base = filenameSpaces.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = "receipt"
	}
	return base + ext
}

// ParseAmountInput turns user-entered amount text into yen. Thousands
// separators, yen signs and spaces (half and full width) are tolerated;
// the result must be a strictly positive integer.
func ParseAmountInput(input string) (int, error) {
	cleaned := strings.NewReplacer(",", "", "¥", "", "￥", "", " ", "", "　", "").Replace(input)
	v, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, fmt.Errorf("amount %q is not a number", input)
	}
	if v <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}
	return v, nil
}

// Intake stores the receipt file, runs OCR and the extraction engine, and
// persists a pending submission carrying the suggested fields.
func (s *Service) Intake(filename string, data []byte, contentType string) (*Submission, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, sanitizeFilename(filename)), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	text, err := s.scanner.ScanReceipt(data, contentType)
	if err != nil {
		slog.Error("Failed to scan receipt",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("scanning receipt: %w", err)
	}

	sub := &Submission{
		ID:          id,
		Status:      StatusPending,
		OCRText:     text,
		Suggested:   s.engine.Extract(text),
		ReceiptFile: savedPath,
		ContentType: contentType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.db.SaveSubmission(sub); err != nil {
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("saving submission: %w", err)
	}

	return sub, nil
}

// ConfirmForm carries the user-corrected values for a pending submission.
// Every field started as an engine suggestion the user was free to edit.
type ConfirmForm struct {
	PaymentDate string `json:"payment_date"`
	Category    string `json:"category"`
	Payer       string `json:"payer"`
	Purpose     string `json:"purpose"`
	Amount      string `json:"amount"`
	RecordedBy  string `json:"recorded_by"`
}

// Confirm validates the corrected form, archives the receipt image,
// appends the ledger row and marks the submission recorded. A failed
// archive upload is logged and leaves the link empty; a failed ledger
// append fails the whole confirmation.
func (s *Service) Confirm(id string, form ConfirmForm) (*Submission, error) {
	sub, err := s.db.GetSubmission(id)
	if err != nil {
		return nil, fmt.Errorf("getting submission: %w", err)
	}
	if sub.Status == StatusRecorded {
		return nil, fmt.Errorf("submission %s is already recorded", id)
	}

	amount, err := ParseAmountInput(form.Amount)
	if err != nil {
		return nil, err
	}

	now := s.timeSource.Now()

	var driveLink string
	if s.uploader != nil && sub.ReceiptFile != "" {
		if data, getErr := s.storage.Get(sub.ReceiptFile); getErr == nil {
			name := fmt.Sprintf("receipt_%s_%s%s",
				now.Format("20060102_150405"),
				form.RecordedBy,
				filepath.Ext(sub.ReceiptFile),
			)
			driveLink, err = s.uploader.Upload(name, sub.ContentType, data)
			if err != nil {
				slog.Warn("Failed to archive receipt", "submission", id, "error", err)
				driveLink = ""
			}
		}
	}

	entry := ledger.Entry{
		EntryDate:   now.Format("2006/01/02"),
		PaymentDate: form.PaymentDate,
		RecordedBy:  form.RecordedBy,
		Category:    form.Category,
		Payer:       form.Payer,
		Purpose:     form.Purpose,
		Expense:     amount,
	}
	if err := s.ledger.Append(entry); err != nil {
		return nil, fmt.Errorf("appending ledger row: %w", err)
	}

	sub.Status = StatusRecorded
	sub.PaymentDate = form.PaymentDate
	sub.Category = form.Category
	sub.Payer = form.Payer
	sub.Purpose = form.Purpose
	sub.AmountYen = amount
	sub.RecordedBy = form.RecordedBy
	sub.DriveLink = driveLink
	sub.UpdatedAt = now

	if err := s.db.SaveSubmission(sub); err != nil {
		return nil, fmt.Errorf("saving submission: %w", err)
	}
	return sub, nil
}

// GetSubmission retrieves a submission by ID
func (s *Service) GetSubmission(id string) (*Submission, error) {
	sub, err := s.db.GetSubmission(id)
	if err != nil {
		return nil, fmt.Errorf("getting submission: %w", err)
	}
	return sub, nil
}

// ListSubmissions returns all submissions
func (s *Service) ListSubmissions() ([]*Submission, error) {
	subs, err := s.db.ListSubmissions()
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	return subs, nil
}

// DeleteSubmission removes a submission and its stored receipt file
func (s *Service) DeleteSubmission(id string) error {
	sub, err := s.db.GetSubmission(id)
	if err != nil {
		return fmt.Errorf("getting submission for deletion: %w", err)
	}

	if sub.ReceiptFile != "" {
		if err := s.storage.Delete(sub.ReceiptFile); err != nil {
			slog.Warn("Failed to delete file", "filename", sub.ReceiptFile, "error", err)
		}
	}

	if err := s.db.DeleteSubmission(id); err != nil {
		return fmt.Errorf("deleting submission: %w", err)
	}
	return nil
}

// GetReceiptFile retrieves the stored receipt bytes for a submission
func (s *Service) GetReceiptFile(id string) ([]byte, string, error) {
	sub, err := s.db.GetSubmission(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting submission: %w", err)
	}

	data, err := s.storage.Get(sub.ReceiptFile)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt file: %w", err)
	}
	return data, sub.ContentType, nil
}
