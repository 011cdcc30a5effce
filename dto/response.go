package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// InvoiceScanResponse is the final response structure for an invoice scan.
// OCRText is the raw joined per-page OCR output, before any normalization,
// kept verbatim for display and audit. BannedDrugs is sorted and
// duplicate-free.
type InvoiceScanResponse struct {
	FileName      string   `json:"file_name"`
	InvoiceID     string   `json:"invoice_id,omitempty"`
	PageCount     int      `json:"page_count"`
	OCRText       string   `json:"ocr_text"`
	OCRConfidence float64  `json:"ocr_confidence"`
	BannedDrugs   []string `json:"banned_drugs"`
	ProcessedAt   string   `json:"processed_at"`
}
