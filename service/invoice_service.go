package service

import (
	"context"
	"fmt"
	"image"
	"log"
	"strings"
	"time"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"

	"github.com/rxinspect/ocr-drug-inspector/dataset"
	"github.com/rxinspect/ocr-drug-inspector/dto"
	"github.com/rxinspect/ocr-drug-inspector/matcher"
)

// minTextLayerLength is the cutoff below which a PDF text layer is treated
// as absent and the document as a scan needing OCR.
const minTextLayerLength = 20

// OCREngine extracts raw text and a confidence score from one page image.
type OCREngine interface {
	ExtractTextFromImage(img image.Image) (string, float64, error)
}

// InvoiceService runs the full scan: page text via the OCR collaborators,
// a fresh dataset load, then the banned-drug matcher. Dataset rows are
// re-read on every call so a changed source file is picked up immediately.
type InvoiceService struct {
	ocr          OCREngine
	remoteOCR    OCREngine // optional, tried before local OCR
	pdfProcessor PDFProcessor
	matcher      *matcher.Matcher
	datasetPaths []string
}

func NewInvoiceService(
	ocr OCREngine,
	remoteOCR OCREngine,
	pdfProcessor PDFProcessor,
	m *matcher.Matcher,
	datasetPaths []string,
) *InvoiceService {
	return &InvoiceService{
		ocr:          ocr,
		remoteOCR:    remoteOCR,
		pdfProcessor: pdfProcessor,
		matcher:      m,
		datasetPaths: datasetPaths,
	}
}

// ScanInvoice OCRs one uploaded document and reports which banned generics
// appear in it. The returned OCRText is the raw per-page output joined with
// newlines; normalization happens inside the matcher only. OCR and document
// failures propagate to the caller; missing dataset sources do not.
func (s *InvoiceService) ScanInvoice(ctx context.Context, filename string, data []byte) (*dto.InvoiceScanResponse, error) {
	pageTexts, confidence, firstPage, err := s.extractPages(filename, data)
	if err != nil {
		return nil, err
	}

	fullText := strings.Join(pageTexts, "\n")
	if strings.TrimSpace(fullText) == "" {
		return nil, fmt.Errorf("no text could be extracted from %s", filename)
	}

	invoiceID := ""
	if firstPage != nil {
		if id, err := decodeInvoiceBarcode(firstPage); err == nil {
			invoiceID = id
		}
	}

	// Re-read reference rows every scan so banned-status edits to the
	// source files are never served stale.
	result := dataset.LoadCSV(s.datasetPaths)
	if len(result.FailedSources) > 0 {
		log.Printf("Proceeding with %d dataset rows; %d source(s) unavailable: %v",
			len(result.Rows), len(result.FailedSources), result.FailedSources)
	}

	banned := s.matcher.FindBanned(fullText, result.Rows)

	return &dto.InvoiceScanResponse{
		FileName:      filename,
		InvoiceID:     invoiceID,
		PageCount:     len(pageTexts),
		OCRText:       fullText,
		OCRConfidence: confidence,
		BannedDrugs:   banned,
		ProcessedAt:   time.Now().Format(time.RFC3339),
	}, nil
}

// extractPages produces ordered per-page raw text for the document, plus the
// first page image when one was rendered (used for barcode decoding).
func (s *InvoiceService) extractPages(filename string, data []byte) ([]string, float64, image.Image, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return s.extractPDFPages(filename, data)
	}

	img, err := decodeImage(data)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("failed to decode image %s: %w", filename, err)
	}

	text, conf, err := s.runOCR(img)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("image OCR failed: %w", err)
	}

	return []string{text}, conf, img, nil
}

func (s *InvoiceService) extractPDFPages(filename string, data []byte) ([]string, float64, image.Image, error) {
	// Digital PDFs carry a usable text layer; only scans need OCR.
	text, err := s.pdfProcessor.ExtractText(data)
	if err != nil {
		log.Printf("PDF text extraction failed for %s: %v", filename, err)
	}
	if len(strings.TrimSpace(text)) >= minTextLayerLength {
		return []string{text}, 100.0, nil, nil
	}

	log.Printf("PDF %s has minimal text layer, falling back to image-based OCR", filename)

	images, err := s.pdfProcessor.ExtractImages(data)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("failed to extract images from PDF: %w", err)
	}
	if len(images) == 0 {
		return nil, 0, nil, fmt.Errorf("no pages found in PDF %s", filename)
	}

	var pageTexts []string
	var totalConf float64

	for idx, img := range images {
		pageText, conf, err := s.runOCR(img)
		if err != nil {
			return nil, 0, nil, fmt.Errorf("OCR failed on page %d: %w", idx+1, err)
		}
		pageTexts = append(pageTexts, pageText)
		totalConf += conf
	}

	return pageTexts, totalConf / float64(len(pageTexts)), images[0], nil
}

// runOCR tries the remote engine first when configured, then local Tesseract.
func (s *InvoiceService) runOCR(img image.Image) (string, float64, error) {
	if s.remoteOCR != nil {
		text, conf, err := s.remoteOCR.ExtractTextFromImage(img)
		if err == nil && len(strings.TrimSpace(text)) > 5 {
			return text, conf, nil
		}
		if err != nil {
			log.Printf("Remote OCR failed, falling back to Tesseract: %v", err)
		}
	}
	return s.ocr.ExtractTextFromImage(img)
}

// decodeInvoiceBarcode reads the Code128 invoice-ID barcode printed on
// generated invoices. Absence of a barcode is not an error for the caller.
func decodeInvoiceBarcode(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("failed to create binary bitmap: %w", err)
	}

	reader := oned.NewCode128Reader()
	result, err := reader.Decode(bmp, map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to decode barcode: %w", err)
	}

	return result.GetText(), nil
}
