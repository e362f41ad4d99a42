// Package output serializes the merged staff table to disk.
package output

import (
	"encoding/csv"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/wbb-stats/scrape/pkg/models"
)

// SaveCSV writes the table to a CSV file with a header row built from
// the union of field names. An empty table writes nothing: that is a
// logged no-op, not an error.
func SaveCSV(table models.Table, path string) error {
	if table.Empty() {
		log.Warn().Msg("No results to save")
		return nil
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := table.Columns()
	if err := writer.Write(headers); err != nil {
		return err
	}

	for _, rec := range table.Rows {
		row := make([]string, len(headers))
		for i, h := range headers {
			row[i] = rec[h] // absent fields render as empty cells
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	log.Info().
		Int("rows", table.Len()).
		Str("path", path).
		Msg("Saved CSV")

	return writer.Error()
}
