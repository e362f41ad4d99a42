// Package engine runs the fetch-parse-extract pipeline for configured
// sites and merges the per-site tables into one result.
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/wbb-stats/scrape/internal/extract"
	"github.com/wbb-stats/scrape/internal/fetch"
	"github.com/wbb-stats/scrape/pkg/models"
)

// Engine scrapes staff directories site by site.
type Engine struct {
	fetcher *fetch.Fetcher
}

// New creates an Engine around the given fetcher.
func New(fetcher *fetch.Fetcher) *Engine {
	return &Engine{fetcher: fetcher}
}

// ParseSite produces one school's staff table: it fetches the configured
// URL once, then runs the record extractor over every table block,
// stamping each record with its staff type and the school name.
//
// Sites marked for a custom handler are not processed by the generic
// engine; they yield an empty table. A failed fetch returns an error and
// an empty table; the caller decides what to do with the failure.
func (e *Engine) ParseSite(ctx context.Context, school string, site models.SiteConfig) (models.Table, error) {
	var table models.Table

	if site.NeedsCustomHandler() {
		log.Info().
			Str("school", school).
			Str("handler", site.Handler).
			Msg("Site needs a custom handler, skipping generic extraction")
		return table, nil
	}

	body, err := e.fetcher.Fetch(ctx, site.URL)
	if err != nil {
		return table, fmt.Errorf("fetch %s: %w", school, err)
	}
	if body == "" {
		return table, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return table, fmt.Errorf("parse %s: %w", school, err)
	}

	for _, block := range site.Tables {
		records := extract.Records(doc, block.Config)
		for _, rec := range records {
			rec[models.FieldStaffType] = block.Label
			rec[models.FieldSchool] = school
		}
		table.Append(records...)

		log.Debug().
			Str("school", school).
			Str("block", block.Key).
			Int("records", len(records)).
			Msg("Table block extracted")
	}

	if len(site.Tables) == 0 {
		log.Warn().
			Str("school", school).
			Msg("Site config has no table blocks")
	}

	return table, nil
}
