package client

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"

	"github.com/otiai10/gosseract/v2"
)

// TesseractClient wraps Tesseract OCR for extracting English text from
// invoice page images.
type TesseractClient struct {
	dataPath string
}

func NewTesseractClient(dataPath string) *TesseractClient {
	return &TesseractClient{
		dataPath: dataPath,
	}
}

// ExtractTextFromImage runs OCR on a single page image and returns the raw
// text plus the average word-level confidence (0-100).
func (tc *TesseractClient) ExtractTextFromImage(img image.Image) (string, float64, error) {
	tempFile, err := saveImageToTempFile(img)
	if err != nil {
		return "", 0, fmt.Errorf("failed to save temp image: %w", err)
	}
	defer os.Remove(tempFile)

	return tc.ExtractTextAndQuality(tempFile)
}

// ExtractTextAndQuality runs OCR on an image file and returns the text plus
// the average word confidence.
func (tc *TesseractClient) ExtractTextAndQuality(filePath string) (string, float64, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if tc.dataPath != "" {
		client.SetTessdataPrefix(tc.dataPath)
	}

	// Invoices are assumed to be English text
	if err := client.SetLanguage("eng"); err != nil {
		return "", 0, fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetImage(filePath); err != nil {
		return "", 0, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", 0, fmt.Errorf("failed to extract text: %w", err)
	}

	// Word bounding boxes carry per-word confidence
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return text, 0, nil
	}

	var totalConf float64
	var count int
	for _, box := range boxes {
		totalConf += box.Confidence
		count++
	}

	avgConf := 0.0
	if count > 0 {
		avgConf = totalConf / float64(count)
	}

	return text, avgConf, nil
}

// saveImageToTempFile saves an image.Image to a temporary PNG file.
func saveImageToTempFile(img image.Image) (string, error) {
	tempFile, err := os.CreateTemp("", "ocr-img-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp image file: %w", err)
	}
	defer tempFile.Close()

	if err := png.Encode(tempFile, img); err != nil {
		os.Remove(tempFile.Name())
		return "", fmt.Errorf("failed to encode image to PNG: %w", err)
	}

	return tempFile.Name(), nil
}

// Close performs cleanup
func (tc *TesseractClient) Close() {
	log.Println("Tesseract client closed")
}
