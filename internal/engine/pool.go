// internal/engine/pool.go
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wbb-stats/scrape/pkg/models"
)

// DefaultConcurrency is the worker pool width when none is configured.
const DefaultConcurrency = 8

type siteJob struct {
	school string
	site   models.SiteConfig
}

type siteResult struct {
	school string
	table  models.Table
	err    error
}

// ScrapeAll runs ParseSite for every configured school on a bounded
// worker pool and folds the per-site tables into one merged table as
// results arrive (completion order; row order within a site is stable).
//
// One site's failure never aborts the others: errors and panics are
// caught at the per-site boundary, logged, and counted as a miss. The
// optional onDone callback fires once per finished site, for progress
// reporting.
func (e *Engine) ScrapeAll(ctx context.Context, sites map[string]models.SiteConfig, concurrency int, onDone func(school string)) models.Table {
	var merged models.Table
	if len(sites) == 0 {
		return merged
	}

	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if concurrency > len(sites) {
		concurrency = len(sites)
	}

	start := time.Now()

	jobs := make(chan siteJob, len(sites))
	results := make(chan siteResult, len(sites))

	var wg sync.WaitGroup
	for w := 1; w <= concurrency; w++ {
		wg.Add(1)
		go e.worker(ctx, w, jobs, results, &wg)
	}

	for school, site := range sites {
		jobs <- siteJob{school: school, site: site}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	// Single-threaded fold: the merged table is only touched here
	scraped := 0
	for res := range results {
		switch {
		case res.err != nil:
			log.Error().
				Err(res.err).
				Str("school", res.school).
				Msg("Site scrape failed")
		case res.table.Empty():
			log.Warn().
				Str("school", res.school).
				Msg("No data for site")
		default:
			merged.Merge(res.table)
			scraped++
			log.Info().
				Str("school", res.school).
				Int("rows", res.table.Len()).
				Msg("Site completed")
		}
		if onDone != nil {
			onDone(res.school)
		}
	}

	log.Info().
		Int("sites", len(sites)).
		Int("with_data", scraped).
		Int("rows", merged.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("Scrape run finished")

	return merged
}

// worker processes site jobs until the jobs channel is drained or the
// context is cancelled.
func (e *Engine) worker(ctx context.Context, id int, jobs <-chan siteJob, results chan<- siteResult, wg *sync.WaitGroup) {
	defer wg.Done()

	log.Debug().Int("worker_id", id).Msg("Worker started")

	for job := range jobs {
		select {
		case <-ctx.Done():
			log.Debug().Int("worker_id", id).Msg("Worker cancelled")
			return
		default:
		}

		table, err := e.scrapeSite(ctx, job.school, job.site)

		select {
		case results <- siteResult{school: job.school, table: table, err: err}:
		case <-ctx.Done():
			return
		}
	}

	log.Debug().Int("worker_id", id).Msg("Worker finished")
}

// scrapeSite is the per-site failure boundary: a panic anywhere in the
// fetch-parse-extract path becomes an error for that site only.
func (e *Engine) scrapeSite(ctx context.Context, school string, site models.SiteConfig) (table models.Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			table = models.Table{}
			err = fmt.Errorf("panic while scraping %s: %v", school, r)
		}
	}()

	return e.ParseSite(ctx, school, site)
}
