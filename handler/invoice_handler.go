package handler

import (
	"context"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rxinspect/ocr-drug-inspector/dto"
)

// InvoiceScanner is implemented by service.InvoiceService.
type InvoiceScanner interface {
	ScanInvoice(ctx context.Context, filename string, data []byte) (*dto.InvoiceScanResponse, error)
}

type InvoiceHandler struct {
	invoiceService InvoiceScanner
}

func NewInvoiceHandler(invoiceService InvoiceScanner) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
	}
}

// ScanInvoice handles the POST /invoice/scan endpoint
func (h *InvoiceHandler) ScanInvoice(c *gin.Context) {
	log.Println("Received invoice scan request")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "No file provided", err)
		return
	}

	request := &dto.InvoiceScanRequest{File: fileHeader}
	if err := request.Validate(); err != nil {
		h.sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to open uploaded file", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to read uploaded file", err)
		return
	}

	log.Printf("Scanning %s (%d bytes)", fileHeader.Filename, len(data))

	response, err := h.invoiceService.ScanInvoice(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to scan invoice", err)
		return
	}

	log.Printf("Invoice scan completed: %d banned drug(s) flagged", len(response.BannedDrugs))
	c.JSON(http.StatusOK, response)
}

// sendError sends a structured error response
func (h *InvoiceHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		log.Printf("Error: %s - %v", message, err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   "SCAN_FAILED",
		Message: errorMsg,
		Code:    statusCode,
	})
}
