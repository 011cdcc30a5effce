package client

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"net/http"
	"strings"
)

// RemoteOCRClient talks to an optional PaddleOCR-compatible HTTP service
// (POST {"images": [base64...]} to a /predict/ocr_system style endpoint).
// When configured it is tried before local Tesseract; any failure just
// falls through to the local engine.
type RemoteOCRClient struct {
	apiURL string
}

// NewRemoteOCRClient returns nil when no URL is configured, which disables
// the remote engine entirely.
func NewRemoteOCRClient(apiURL string) *RemoteOCRClient {
	if apiURL == "" {
		return nil
	}
	log.Printf("Remote OCR engine configured: %s", apiURL)
	return &RemoteOCRClient{apiURL: apiURL}
}

// ExtractTextFromImage sends a single page image to the remote OCR service
// and returns the recognized text plus the mean line confidence (0-100).
func (rc *RemoteOCRClient) ExtractTextFromImage(img image.Image) (string, float64, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", 0, fmt.Errorf("failed to encode image: %w", err)
	}

	payload := map[string]interface{}{
		"images": []string{base64.StdEncoding.EncodeToString(buf.Bytes())},
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", 0, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := http.Post(rc.apiURL, "application/json", bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", 0, fmt.Errorf("failed to call remote OCR API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", 0, fmt.Errorf("remote OCR API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Results [][]struct {
			Text       string  `json:"text"`
			Confidence float64 `json:"confidence"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", 0, fmt.Errorf("failed to decode remote OCR response: %w", err)
	}

	var textBuilder strings.Builder
	var totalConf float64
	var lines int
	if len(result.Results) > 0 {
		for _, line := range result.Results[0] {
			textBuilder.WriteString(line.Text)
			textBuilder.WriteString("\n")
			totalConf += line.Confidence
			lines++
		}
	}

	text := textBuilder.String()
	if strings.TrimSpace(text) == "" {
		return "", 0, fmt.Errorf("remote OCR extracted no text from image")
	}

	avgConf := 0.0
	if lines > 0 {
		// Services report confidence in [0,1]; scale to match Tesseract.
		avgConf = totalConf / float64(lines) * 100
	}

	return text, avgConf, nil
}
