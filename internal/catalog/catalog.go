// Package catalog holds the benchmark sections handled by the enumerated
// rewriter and loads replacement lists from YAML.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"ora-cte-fix/internal/model"

	"github.com/goccy/go-yaml"
)

// DefaultFile is the benchmark script rewritten when no file is given.
const DefaultFile = "cis_benchmark_11g_through_19c.sql"

// ErrInvalidCatalog is returned when a descriptor list fails validation
var ErrInvalidCatalog = errors.New("invalid section catalog")

var sectionNumber = regexp.MustCompile(`^\d+\.\d+$`)

// File is the on-disk YAML layout of a catalog
type File struct {
	Sections []model.SectionDescriptor `yaml:"sections"`
}

// Default returns sections 5.15 through 5.22 of the 11g-19c benchmark.
func Default() []model.SectionDescriptor {
	entries := []struct {
		section string
		option  string
		table   model.AuditTable
	}{
		{"5.15", "GRANT ANY OBJECT PRIVILEGE", model.PrivAuditTable},
		{"5.16", "ALTER SYSTEM", model.StmtAuditTable},
		{"5.17", "ALTER DATABASE", model.StmtAuditTable},
		{"5.18", "ALTER USER", model.StmtAuditTable},
		{"5.19", "CREATE USER", model.StmtAuditTable},
		{"5.20", "DROP USER", model.StmtAuditTable},
		{"5.21", "CREATE ROLE", model.StmtAuditTable},
		{"5.22", "DROP ROLE", model.StmtAuditTable},
	}

	descs := make([]model.SectionDescriptor, 0, len(entries))
	for _, e := range entries {
		descs = append(descs, model.SectionDescriptor{
			Section:     e.section,
			AuditOption: e.option,
			Table:       e.table,
			Column:      e.table.Column(),
			Remediation: "AUDIT " + e.option + ";",
		})
	}
	return descs
}

// Load reads a YAML catalog, fills defaulted fields and validates it.
func Load(path string) ([]model.SectionDescriptor, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(content)
}

// Parse decodes a YAML catalog document.
func Parse(content []byte) ([]model.SectionDescriptor, error) {
	var f File
	if err := yaml.Unmarshal(content, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	descs := make([]model.SectionDescriptor, len(f.Sections))
	for i, d := range f.Sections {
		d.Table = model.AuditTable(strings.ToUpper(string(d.Table)))
		d.Column = strings.ToUpper(d.Column)
		if d.Column == "" {
			d.Column = d.Table.Column()
		}
		if d.Remediation == "" {
			d.Remediation = "AUDIT " + d.AuditOption + ";"
		}
		descs[i] = d
	}

	if err := Validate(descs); err != nil {
		return nil, err
	}
	return descs, nil
}

// Validate checks that every descriptor can be rendered into valid SQL.
func Validate(descs []model.SectionDescriptor) error {
	if len(descs) == 0 {
		return fmt.Errorf("%w: no sections", ErrInvalidCatalog)
	}

	seen := make(map[string]struct{}, len(descs))
	for i, d := range descs {
		if !sectionNumber.MatchString(d.Section) {
			return fmt.Errorf("%w: entry %d: bad section number %q", ErrInvalidCatalog, i, d.Section)
		}
		if _, dup := seen[d.Section]; dup {
			return fmt.Errorf("%w: duplicate section %s", ErrInvalidCatalog, d.Section)
		}
		seen[d.Section] = struct{}{}

		if strings.TrimSpace(d.AuditOption) == "" || strings.ContainsRune(d.AuditOption, '\'') {
			return fmt.Errorf("%w: section %s: bad audit option %q", ErrInvalidCatalog, d.Section, d.AuditOption)
		}
		if !d.Table.Valid() {
			return fmt.Errorf("%w: section %s: unknown table %q", ErrInvalidCatalog, d.Section, d.Table)
		}
		if d.Column != d.Table.Column() {
			return fmt.Errorf("%w: section %s: column %s does not belong to %s", ErrInvalidCatalog, d.Section, d.Column, d.Table)
		}
		if strings.ContainsRune(d.Remediation, '\'') {
			return fmt.Errorf("%w: section %s: remediation must not contain quotes", ErrInvalidCatalog, d.Section)
		}
	}
	return nil
}
