package dataset

import (
	"encoding/csv"
	"io"
	"log"
	"os"
	"strings"

	"github.com/rxinspect/ocr-drug-inspector/matcher"
)

// Result collects the rows that loaded successfully plus the sources that
// did not. FailedSources exists for observability only; a missing or
// unreadable source is never an error, the scan just proceeds with less
// reference data.
type Result struct {
	Rows          []matcher.Row
	FailedSources []string
}

// LoadCSV reads reference drug rows from every path, in order. Each file is
// UTF-8 CSV with a header row; columns are mapped by name (brand, generic,
// is_banned, batch), extra columns are ignored and missing columns default
// to the empty string. Field values are trimmed.
//
// is_banned is true only when the raw value equals "true" case-insensitively.
// Every other spelling ("1", "yes", empty, missing) is false.
func LoadCSV(paths []string) Result {
	var result Result

	for _, path := range paths {
		if path == "" {
			continue
		}

		rows, err := loadOne(path)
		if err != nil {
			log.Printf("Warning: dataset source %s skipped: %v", path, err)
			result.FailedSources = append(result.FailedSources, path)
			continue
		}
		result.Rows = append(result.Rows, rows...)
	}

	return result
}

func loadOne(path string) ([]matcher.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var rows []matcher.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed record; the rest of the source is still usable.
			log.Printf("Warning: skipping malformed record in %s: %v", path, err)
			continue
		}

		rows = append(rows, matcher.Row{
			Brand:    field(record, columns, "brand"),
			Generic:  field(record, columns, "generic"),
			IsBanned: strings.EqualFold(field(record, columns, "is_banned"), "true"),
			Batch:    field(record, columns, "batch"),
		})
	}

	return rows, nil
}

func field(record []string, columns map[string]int, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
