package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	ServerPort        string
	TesseractDataPath string
	DatasetPaths      []string
	FuzzyThreshold    int
	RemoteOCRURL      string
	MaxFileSize       int64
}

func LoadConfig() *Config {
	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	tesseractDataPath := os.Getenv("TESSDATA_PREFIX")
	if tesseractDataPath == "" {
		tesseractDataPath = "/usr/share/tesseract-ocr/5/tessdata/"
	}

	datasetPaths := splitPaths(os.Getenv("DATASET_CSV_PATHS"))
	if len(datasetPaths) == 0 {
		datasetPaths = []string{
			"data/train_dataset.csv",
			"data/test_dataset.csv",
		}
	}

	fuzzyThreshold := 85
	if v := os.Getenv("FUZZY_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			fuzzyThreshold = n
		}
	}

	return &Config{
		ServerPort:        serverPort,
		TesseractDataPath: tesseractDataPath,
		DatasetPaths:      datasetPaths,
		FuzzyThreshold:    fuzzyThreshold,
		RemoteOCRURL:      os.Getenv("REMOTE_OCR_URL"),
		MaxFileSize:       10 * 1024 * 1024, // 10 MB
	}
}

func splitPaths(raw string) []string {
	var paths []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
