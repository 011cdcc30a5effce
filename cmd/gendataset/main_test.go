package main

import (
	"image"
	_ "image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxinspect/ocr-drug-inspector/dataset"
)

func TestGenerateSplitProducesLoadableDataset(t *testing.T) {
	dir := t.TempDir()
	rng := rand.New(rand.NewSource(42))

	require.NoError(t, generateSplit(rng, dir, "TEST", "test_dataset", 3))

	csvPath := filepath.Join(dir, "test_dataset.csv")
	require.FileExists(t, csvPath)
	require.FileExists(t, filepath.Join(dir, "test_dataset.json"))

	result := dataset.LoadCSV([]string{csvPath})
	assert.Empty(t, result.FailedSources)
	// 3 invoices with 2-4 items each
	assert.GreaterOrEqual(t, len(result.Rows), 6)
	assert.LessOrEqual(t, len(result.Rows), 12)

	for _, row := range result.Rows {
		assert.NotEmpty(t, row.Generic)
		assert.NotEmpty(t, row.Brand)
		assert.Len(t, row.Batch, 8)
	}
}

func TestRenderedInvoiceBarcodeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rng := rand.New(rand.NewSource(7))

	rec, err := generateInvoice(rng, "TEST-0001", dir)
	require.NoError(t, err)
	require.FileExists(t, rec.Image)

	f, err := os.Open(rec.Image)
	require.NoError(t, err)
	defer f.Close()

	img, _, err := image.Decode(f)
	require.NoError(t, err)

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	require.NoError(t, err)

	decoded, err := oned.NewCode128Reader().Decode(bmp, map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "TEST-0001", decoded.GetText())
}
