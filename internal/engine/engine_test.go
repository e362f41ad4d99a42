package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wbb-stats/scrape/internal/fetch"
	"github.com/wbb-stats/scrape/internal/retry"
	"github.com/wbb-stats/scrape/pkg/models"
)

const staffPage = `<!DOCTYPE html>
<html>
<body>
  <table class="coaches">
    <tr><td class="name">Jane Doe</td><td><a href="mailto:jane@doe.edu">email</a></td></tr>
    <tr><td class="name">Amy Smith</td><td><a href="mailto:amy@smith.edu">email</a></td></tr>
  </table>
  <table class="support">
    <tr><td class="name">Pat Jones</td></tr>
  </table>
</body>
</html>`

func newTestEngine() *Engine {
	return New(fetch.New(
		&http.Client{Timeout: 5 * time.Second},
		"TestScraper/1.0",
		retry.Config{MaxAttempts: 1, InitialBackoff: time.Millisecond, Multiplier: 1.0},
	))
}

func staffSiteConfig(url string) models.SiteConfig {
	return models.SiteConfig{
		URL: url,
		Tables: []models.TableBlock{
			{
				Key:   "COACHES_TABLE",
				Label: models.StaffLabel("COACHES_TABLE"),
				Config: models.TableConfig{
					ContainerSelector: "table.coaches",
					RowSelector:       "tr",
					FieldSelectors: map[string]models.FieldSelector{
						"Name":  {Selector: "td.name"},
						"Email": {Selector: "a"},
					},
				},
			},
			{
				Key:   "SUPPORT_TABLE",
				Label: models.StaffLabel("SUPPORT_TABLE"),
				Config: models.TableConfig{
					ContainerSelector: "table.support",
					RowSelector:       "tr",
					FieldSelectors: map[string]models.FieldSelector{
						"Name": {Selector: "td.name"},
					},
				},
			},
		},
	}
}

func TestParseSite_MergesBlocksInOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(staffPage))
	}))
	defer server.Close()

	eng := newTestEngine()
	table, err := eng.ParseSite(context.Background(), "State University", staffSiteConfig(server.URL))

	if err != nil {
		t.Fatalf("ParseSite failed: %v", err)
	}
	if table.Len() != 3 {
		t.Fatalf("Expected 3 rows, got %d", table.Len())
	}

	// Block order first, then row order within the block
	if table.Rows[0]["name"] != "Jane Doe" || table.Rows[1]["name"] != "Amy Smith" {
		t.Errorf("Coaches block rows out of order: %v", table.Rows[:2])
	}
	if table.Rows[2]["name"] != "Pat Jones" {
		t.Errorf("Support block should come last, got %v", table.Rows[2])
	}

	// Every record is stamped with staff_type and school
	if table.Rows[0][models.FieldStaffType] != "Coaches" {
		t.Errorf("Expected staff_type Coaches, got %q", table.Rows[0][models.FieldStaffType])
	}
	if table.Rows[2][models.FieldStaffType] != "Support" {
		t.Errorf("Expected staff_type Support, got %q", table.Rows[2][models.FieldStaffType])
	}
	for i, row := range table.Rows {
		if row[models.FieldSchool] != "State University" {
			t.Errorf("Row %d missing school stamp: %v", i, row)
		}
	}

	if table.Rows[0]["email"] != "jane@doe.edu" {
		t.Errorf("Expected stripped mailto, got %q", table.Rows[0]["email"])
	}
}

func TestParseSite_CustomHandlerIsSkipped(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	site := staffSiteConfig(server.URL)
	site.Handler = "special"

	eng := newTestEngine()
	table, err := eng.ParseSite(context.Background(), "Tech College", site)

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !table.Empty() {
		t.Errorf("Expected empty table for custom-handler site, got %d rows", table.Len())
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Error("Custom-handler site must not be fetched")
	}
}

func TestParseSite_EmptyURLYieldsEmptyTable(t *testing.T) {
	site := staffSiteConfig("")

	eng := newTestEngine()
	table, err := eng.ParseSite(context.Background(), "Nowhere U", site)

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !table.Empty() {
		t.Errorf("Expected empty table, got %d rows", table.Len())
	}
}

func TestParseSite_FetchFailureReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	eng := newTestEngine()
	table, err := eng.ParseSite(context.Background(), "Gone State", staffSiteConfig(server.URL))

	if err == nil {
		t.Fatal("Expected an error for a 404 site")
	}
	if !table.Empty() {
		t.Errorf("Expected empty table on fetch failure, got %d rows", table.Len())
	}
}

func TestParseSite_MissingTableOnPageIsNonFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>redesigned page</p></body></html>`))
	}))
	defer server.Close()

	eng := newTestEngine()
	table, err := eng.ParseSite(context.Background(), "Redesigned U", staffSiteConfig(server.URL))

	if err != nil {
		t.Fatalf("Structural miss must not error: %v", err)
	}
	if !table.Empty() {
		t.Errorf("Expected empty table, got %d rows", table.Len())
	}
}
