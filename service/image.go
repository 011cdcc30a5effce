package service

import (
	"bytes"
	"fmt"
	"image"

	// Register decoders for the upload formats and pdfcpu page extracts.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"
)

func decodeImage(data []byte) (image.Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, fmt.Errorf("decoded empty %s image", format)
	}
	return img, nil
}
