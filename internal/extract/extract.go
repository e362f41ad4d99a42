// Package extract projects repeated page elements into uniform records
// using only a declarative table configuration: a container selector, a
// row selector scoped to the chosen container, and per-field selectors.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/wbb-stats/scrape/pkg/models"
)

// Records extracts one record per row element from doc according to cfg.
//
// Structural misses are non-fatal: a container selector that matches
// nothing, or a wrapper index past the last match, logs and yields an
// empty slice. A field selector that matches nothing inside a row leaves
// that field absent from the record; the row is still emitted.
func Records(doc *goquery.Document, cfg models.TableConfig) []models.Record {
	containers := doc.Find(cfg.ContainerSelector)
	if containers.Length() == 0 || cfg.WrapperIndex >= containers.Length() || cfg.WrapperIndex < 0 {
		log.Warn().
			Str("selector", cfg.ContainerSelector).
			Int("wrapper_index", cfg.WrapperIndex).
			Int("matches", containers.Length()).
			Msg("Table container not found")
		return nil
	}

	container := containers.Eq(cfg.WrapperIndex)

	var records []models.Record
	container.Find(cfg.RowSelector).Each(func(_ int, row *goquery.Selection) {
		records = append(records, extractRow(row, cfg.FieldSelectors))
	})

	return records
}

// extractRow resolves every configured field against one row element.
func extractRow(row *goquery.Selection, fields map[string]models.FieldSelector) models.Record {
	record := make(models.Record, len(fields))

	for name, fs := range fields {
		key := strings.ToLower(name)

		el := row.Find(fs.Selector).First()
		if el.Length() == 0 {
			continue
		}

		switch {
		case fs.IsAttribute():
			if val, ok := el.Attr(fs.Attribute); ok {
				record[key] = val
			}
		case key == models.FieldEmail && hasHref(el):
			href, _ := el.Attr("href")
			record[key] = strings.TrimSpace(strings.TrimPrefix(href, "mailto:"))
		default:
			record[key] = normalizeText(el.Text())
		}
	}

	return record
}

func hasHref(el *goquery.Selection) bool {
	_, ok := el.Attr("href")
	return ok
}

// normalizeText collapses runs of whitespace (including the newlines and
// indentation goquery keeps from nested markup) into single spaces and
// trims the ends.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
