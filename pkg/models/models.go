package models

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Reserved configuration keys and injected record fields.
const (
	TableKeySuffix = "_TABLE"

	FieldEmail     = "email"
	FieldStaffType = "staff_type"
	FieldSchool    = "school"
)

// FieldSelector describes how one output field is pulled out of a row.
// In YAML it is either a bare selector string (text extraction) or a
// mapping {selector, attribute} (attribute extraction).
type FieldSelector struct {
	Selector  string `yaml:"selector"`
	Attribute string `yaml:"attribute"`
}

// UnmarshalYAML accepts both the scalar and the mapping form, so the
// string-vs-struct branch is resolved once at load time instead of on
// every row.
func (f *FieldSelector) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		f.Selector = node.Value
		f.Attribute = ""
		return nil
	}

	type plain FieldSelector
	var p plain
	if err := node.Decode(&p); err != nil {
		return fmt.Errorf("field selector must be a string or {selector, attribute}: %w", err)
	}
	*f = FieldSelector(p)
	return nil
}

// IsAttribute reports whether the field is extracted from an element
// attribute rather than its text.
func (f FieldSelector) IsAttribute() bool {
	return f.Attribute != ""
}

// TableConfig describes one repeated-record region on a page.
type TableConfig struct {
	ContainerSelector string                   `yaml:"table_container_selector"`
	WrapperIndex      int                      `yaml:"wrapper_index"`
	RowSelector       string                   `yaml:"row_selector"`
	FieldSelectors    map[string]FieldSelector `yaml:"field_selectors"`
}

// TableBlock is a TableConfig together with the config key it was
// registered under and the staff-type label derived from that key.
type TableBlock struct {
	Key    string
	Label  string
	Config TableConfig
}

// SiteConfig is the per-school scraping configuration. A site either
// carries a URL plus one or more *_TABLE blocks, or names a custom
// handler, in which case the generic engine skips it.
type SiteConfig struct {
	URL     string
	Handler string
	Tables  []TableBlock
}

// NeedsCustomHandler reports whether the site is excluded from generic
// extraction and must be scraped by dedicated code.
func (s SiteConfig) NeedsCustomHandler() bool {
	return s.Handler != ""
}

// UnmarshalYAML walks the site mapping by hand: the url and handler keys
// are fixed, and every key ending in _TABLE declares a table block.
// Block order follows document order. Unknown keys are ignored.
func (s *SiteConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("site config must be a mapping")
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		key := keyNode.Value

		switch {
		case key == "url":
			if err := valNode.Decode(&s.URL); err != nil {
				return fmt.Errorf("url: %w", err)
			}
		case key == "handler":
			if err := valNode.Decode(&s.Handler); err != nil {
				return fmt.Errorf("handler: %w", err)
			}
		case strings.HasSuffix(key, TableKeySuffix):
			var tc TableConfig
			if err := valNode.Decode(&tc); err != nil {
				return fmt.Errorf("table block %q: %w", key, err)
			}
			s.Tables = append(s.Tables, TableBlock{
				Key:    key,
				Label:  StaffLabel(key),
				Config: tc,
			})
		}
	}

	return nil
}

// StaffLabel derives the human-readable staff type from a table key:
// the _TABLE suffix is stripped, the first letter upper-cased and the
// rest lower-cased, so COACHES_TABLE becomes "Coaches".
func StaffLabel(tableKey string) string {
	name := strings.TrimSuffix(tableKey, TableKeySuffix)
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + strings.ToLower(name[1:])
}

// Record is one extracted staff entry. Keys are lower-cased field names;
// a field whose selector matched nothing is simply not present.
type Record map[string]string

// Table is an ordered collection of records, used both for a single
// site's result and for the merged global result.
type Table struct {
	Rows []Record
}

// Append adds rows to the end of the table.
func (t *Table) Append(rows ...Record) {
	t.Rows = append(t.Rows, rows...)
}

// Merge appends all rows of other, preserving their order.
func (t *Table) Merge(other Table) {
	t.Rows = append(t.Rows, other.Rows...)
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Columns returns the union of field names across all rows: data fields
// sorted alphabetically, with staff_type and school pinned to the end.
func (t Table) Columns() []string {
	seen := make(map[string]bool)
	var cols []string
	var hasType, hasSchool bool
	for _, row := range t.Rows {
		for k := range row {
			switch k {
			case FieldStaffType:
				hasType = true
			case FieldSchool:
				hasSchool = true
			default:
				if !seen[k] {
					seen[k] = true
					cols = append(cols, k)
				}
			}
		}
	}
	sort.Strings(cols)

	if hasType {
		cols = append(cols, FieldStaffType)
	}
	if hasSchool {
		cols = append(cols, FieldSchool)
	}
	return cols
}
