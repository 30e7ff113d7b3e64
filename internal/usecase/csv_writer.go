package usecase

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode"

	"adspilot/internal/domain"
)

// WriteCampaignCSV writes the assembled rows as a comma-delimited UTF-8 table
// with the contract column order. The write is atomic from the caller's
// perspective: rows go to a temp file in the target directory which is renamed
// into place only after a clean flush; any failure removes the temp file.
func WriteCampaignCSV(path string, rows []domain.CampaignRow) error {
	columns := OrderColumns(rows)

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	w := csv.NewWriter(tmp)
	if err := w.Write(columns); err != nil {
		cleanup()
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = row[col] // absent columns serialize as empty cells
		}
		if err := w.Write(record); err != nil {
			cleanup()
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		cleanup()
		return fmt.Errorf("failed to flush output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close output: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to finalize output: %w", err)
	}

	return nil
}

// CampaignFilename builds the output filename for a generated campaign:
// ads_<sanitized business name>_<timestamp>.csv.
func CampaignFilename(businessName string, now time.Time) string {
	safe := make([]rune, 0, len(businessName))
	for _, r := range businessName {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			safe = append(safe, r)
		} else {
			safe = append(safe, '_')
		}
	}
	return fmt.Sprintf("ads_%s_%s.csv", string(safe), now.Format("20060102_150405"))
}
