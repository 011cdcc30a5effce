package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxinspect/ocr-drug-inspector/matcher"
)

// fakeOCR hands out queued page texts in order.
type fakeOCR struct {
	texts []string
	conf  float64
	err   error
	calls int
}

func (f *fakeOCR) ExtractTextFromImage(img image.Image) (string, float64, error) {
	f.calls++
	if f.err != nil {
		return "", 0, f.err
	}
	text := ""
	if f.calls-1 < len(f.texts) {
		text = f.texts[f.calls-1]
	}
	return text, f.conf, nil
}

type fakePDF struct {
	text      string
	textErr   error
	images    []image.Image
	imagesErr error
}

func (f *fakePDF) ExtractText(pdfData []byte) (string, error) {
	return f.text, f.textErr
}

func (f *fakePDF) ExtractImages(pdfData []byte) ([]image.Image, error) {
	return f.images, f.imagesErr
}

func blankImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScanInvoiceDigitalPDF(t *testing.T) {
	datasetPath := writeDataset(t,
		"brand,generic,is_banned,batch\n"+
			"Cefixime 200,Cefixime,true,AB12CD34\n"+
			"Dolo 650,Paracetamol,false,ZZ99YY88\n")

	pdf := &fakePDF{text: "Invoice No: TRAIN-0001\nItem: CEFIXIME-200mg tablet, qty 2\n"}
	svc := NewInvoiceService(&fakeOCR{}, nil, pdf, matcher.New(), []string{datasetPath})

	resp, err := svc.ScanInvoice(context.Background(), "invoice.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)

	assert.Equal(t, "invoice.pdf", resp.FileName)
	assert.Equal(t, 1, resp.PageCount)
	assert.Equal(t, pdf.text, resp.OCRText, "OCR text must stay un-normalized")
	assert.Equal(t, 100.0, resp.OCRConfidence)
	assert.Equal(t, []string{"Cefixime"}, resp.BannedDrugs)
	assert.NotEmpty(t, resp.ProcessedAt)
}

func TestScanInvoiceScannedPDFUsesOCRPerPage(t *testing.T) {
	datasetPath := writeDataset(t,
		"brand,generic,is_banned,batch\n"+
			"Analgin,Metamizole,true,B1\n")

	pdf := &fakePDF{
		text:   "", // no text layer: treat as a scan
		images: []image.Image{blankImage(), blankImage()},
	}
	ocr := &fakeOCR{
		texts: []string{"page one metamizole 500mg", "page two nothing here"},
		conf:  88,
	}
	svc := NewInvoiceService(ocr, nil, pdf, matcher.New(), []string{datasetPath})

	resp, err := svc.ScanInvoice(context.Background(), "scan.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)

	assert.Equal(t, 2, resp.PageCount)
	assert.Equal(t, "page one metamizole 500mg\npage two nothing here", resp.OCRText)
	assert.Equal(t, 88.0, resp.OCRConfidence)
	assert.Equal(t, []string{"Metamizole"}, resp.BannedDrugs)
	assert.Equal(t, 2, ocr.calls)
}

func TestScanInvoiceImageUpload(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, blankImage()))

	ocr := &fakeOCR{texts: []string{"item nimesulide 100mg"}, conf: 72}
	svc := NewInvoiceService(ocr, nil, &fakePDF{}, matcher.New(), nil)

	resp, err := svc.ScanInvoice(context.Background(), "photo.png", buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, 1, resp.PageCount)
	assert.Equal(t, 72.0, resp.OCRConfidence)
	// Empty dataset: the safety net alone still flags nimesulide.
	assert.Equal(t, []string{"Nimesulide"}, resp.BannedDrugs)
	assert.Empty(t, resp.InvoiceID, "blank page carries no barcode")
}

func TestScanInvoiceMissingDatasetSourceDegrades(t *testing.T) {
	goodPath := writeDataset(t,
		"brand,generic,is_banned,batch\n"+
			"Corex,Codeine + CPM,true,B2\n")
	missingPath := filepath.Join(t.TempDir(), "nope.csv")

	pdf := &fakePDF{text: "prescription includes codeine cpm syrup and more text"}
	svc := NewInvoiceService(&fakeOCR{}, nil, pdf, matcher.New(), []string{missingPath, goodPath})

	resp, err := svc.ScanInvoice(context.Background(), "invoice.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Codeine + CPM"}, resp.BannedDrugs)
}

func TestScanInvoiceRemoteEngineFallsBackToLocal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, blankImage()))

	remote := &fakeOCR{err: errors.New("remote unavailable")}
	local := &fakeOCR{texts: []string{"plain invoice text with nimesulide"}, conf: 64}
	svc := NewInvoiceService(local, remote, &fakePDF{}, matcher.New(), nil)

	resp, err := svc.ScanInvoice(context.Background(), "photo.png", buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, 1, remote.calls, "remote engine tried first")
	assert.Equal(t, 1, local.calls, "local engine used as fallback")
	assert.Equal(t, []string{"Nimesulide"}, resp.BannedDrugs)
	assert.Equal(t, 64.0, resp.OCRConfidence)
}

func TestScanInvoiceOCRFailurePropagates(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, blankImage()))

	svc := NewInvoiceService(&fakeOCR{err: errors.New("tesseract exploded")}, nil, &fakePDF{}, matcher.New(), nil)

	_, err := svc.ScanInvoice(context.Background(), "photo.png", buf.Bytes())
	assert.Error(t, err)
}

func TestScanInvoiceCorruptImageFails(t *testing.T) {
	svc := NewInvoiceService(&fakeOCR{}, nil, &fakePDF{}, matcher.New(), nil)

	_, err := svc.ScanInvoice(context.Background(), "photo.png", []byte("not an image"))
	assert.Error(t, err)
}

func TestScanInvoiceEmptyPDFFails(t *testing.T) {
	pdf := &fakePDF{text: "", imagesErr: errors.New("corrupt document")}
	svc := NewInvoiceService(&fakeOCR{}, nil, pdf, matcher.New(), nil)

	_, err := svc.ScanInvoice(context.Background(), "broken.pdf", []byte("%PDF-1.4"))
	assert.Error(t, err)
}
