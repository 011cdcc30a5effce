package dto

import (
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// Custom errors
var (
	ErrNoFile          = errors.New("no file provided")
	ErrUnsupportedType = errors.New("unsupported file type: expected pdf, png, jpg, jpeg or tiff")
)

// allowedExtensions are the upload types the scanner accepts.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tiff": true,
}

// InvoiceScanRequest represents the incoming upload request
type InvoiceScanRequest struct {
	File *multipart.FileHeader `form:"file" binding:"required"`
}

// Validate performs basic validation on the request
func (r *InvoiceScanRequest) Validate() error {
	if r.File == nil || r.File.Filename == "" {
		return ErrNoFile
	}
	ext := strings.ToLower(filepath.Ext(r.File.Filename))
	if !allowedExtensions[ext] {
		return ErrUnsupportedType
	}
	return nil
}
