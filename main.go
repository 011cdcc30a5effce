package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/rxinspect/ocr-drug-inspector/client"
	"github.com/rxinspect/ocr-drug-inspector/config"
	"github.com/rxinspect/ocr-drug-inspector/handler"
	"github.com/rxinspect/ocr-drug-inspector/matcher"
	"github.com/rxinspect/ocr-drug-inspector/service"
)

func main() {
	// Optional .env for local runs; real deployments set the environment.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	// Initialize configuration
	cfg := config.LoadConfig()
	log.Printf("Dataset sources: %v", cfg.DatasetPaths)

	// Initialize Tesseract client
	tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath)
	defer tesseractClient.Close()

	// Optional remote OCR engine, tried before Tesseract when configured
	var remoteOCR service.OCREngine
	if rc := client.NewRemoteOCRClient(cfg.RemoteOCRURL); rc != nil {
		remoteOCR = rc
	}

	// Initialize PDF processor
	pdfProcessor := service.NewPDFProcessor()

	// Core matching engine
	drugMatcher := matcher.New(matcher.WithThreshold(cfg.FuzzyThreshold))

	// Initialize service layer
	invoiceService := service.NewInvoiceService(
		tesseractClient,
		remoteOCR,
		pdfProcessor,
		drugMatcher,
		cfg.DatasetPaths,
	)

	// Initialize handler layer
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)

	// Setup Gin router
	router := gin.Default()

	// Configure max multipart memory (32 MB)
	router.MaxMultipartMemory = 32 << 20

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "OCR Drug Inspector",
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		invoice := api.Group("/invoice")
		{
			invoice.POST("/scan", invoiceHandler.ScanInvoice)
		}
	}

	// Start server
	log.Printf("Starting OCR Drug Inspector on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
