package output

import (
	"encoding/json"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/wbb-stats/scrape/pkg/models"
)

// SaveJSON writes the table as an indented JSON array of records.
// Absent fields are omitted from each object rather than emitted empty.
func SaveJSON(table models.Table, path string) error {
	if table.Empty() {
		log.Warn().Msg("No results to save")
		return nil
	}

	content, err := json.MarshalIndent(table.Rows, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return err
	}

	log.Info().
		Int("rows", table.Len()).
		Str("path", path).
		Msg("Saved JSON")

	return nil
}
