package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/wbb-stats/scrape/pkg/models"
)

// Sites maps school name to its scraping configuration.
type Sites map[string]models.SiteConfig

// LoadSites reads and parses the YAML site map. A missing or malformed
// file is fatal to the run; nothing is scraped on a broken config.
func LoadSites(path string) (Sites, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site config %s: %w", path, err)
	}

	var sites Sites
	if err := yaml.Unmarshal(data, &sites); err != nil {
		return nil, fmt.Errorf("failed to parse site config %s: %w", path, err)
	}

	return sites, nil
}

// Names returns the configured school names in sorted order.
func (s Sites) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Problems checks one site config without fetching anything and returns
// a human-readable list of issues. Sites with a custom handler are
// exempt from the generic-engine requirements.
func Problems(site models.SiteConfig) []string {
	if site.NeedsCustomHandler() {
		return nil
	}

	var problems []string
	if site.URL == "" {
		problems = append(problems, "missing url")
	}
	if len(site.Tables) == 0 {
		problems = append(problems, "no *_TABLE blocks")
	}
	for _, block := range site.Tables {
		if block.Config.ContainerSelector == "" {
			problems = append(problems, fmt.Sprintf("%s: missing table_container_selector", block.Key))
		}
		if block.Config.RowSelector == "" {
			problems = append(problems, fmt.Sprintf("%s: missing row_selector", block.Key))
		}
		if block.Config.WrapperIndex < 0 {
			problems = append(problems, fmt.Sprintf("%s: negative wrapper_index", block.Key))
		}
		if len(block.Config.FieldSelectors) == 0 {
			problems = append(problems, fmt.Sprintf("%s: no field_selectors", block.Key))
		}
	}
	return problems
}
