package scanning

// Scanner produces the raw OCR transcript of a receipt image or PDF.
// Interpreting the transcript is the parsing engine's job; a scanner only
// reads text off the page.
type Scanner interface {
	// ScanReceipt runs OCR over the document and returns the recognized
	// text. An empty transcript is not an error.
	ScanReceipt(imageData []byte, contentType string) (string, error)
	// Close releases the backend client
	Close() error
}
