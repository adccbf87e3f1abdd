package model

import "fmt"

// Location represents the physical location of a rewritten statement
type Location struct {
	FilePath string
	Line     int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.FilePath, l.Line)
}

// AuditTable names the dictionary view a benchmark check aggregates from
type AuditTable string

const (
	PrivAuditTable AuditTable = "DBA_PRIV_AUDIT_OPTS"
	StmtAuditTable AuditTable = "DBA_STMT_AUDIT_OPTS"
)

// Column returns the column holding the audit option name in the table.
func (t AuditTable) Column() string {
	switch t {
	case PrivAuditTable:
		return "PRIVILEGE"
	case StmtAuditTable:
		return "AUDIT_OPTION"
	}
	return ""
}

func (t AuditTable) Valid() bool {
	return t.Column() != ""
}

// HeaderSuffix is the fixed tail of every anchor comment targeted by the rewriters.
const HeaderSuffix = " Audit Option - Oracle 12c+ Non-multitenant OR when running from PDB"

// SectionDescriptor describes one benchmark check whose statement gets rewritten
type SectionDescriptor struct {
	Section     string     `yaml:"section"`      // e.g., "5.16"
	AuditOption string     `yaml:"audit_option"` // e.g., "ALTER SYSTEM"
	Table       AuditTable `yaml:"table"`
	Column      string     `yaml:"column"`
	Remediation string     `yaml:"remediation"` // e.g., "AUDIT ALTER SYSTEM;"
}

// Header returns the anchor comment line (without newline) that starts the section.
func (d SectionDescriptor) Header() string {
	return fmt.Sprintf("-- %s Enable '%s'%s", d.Section, d.AuditOption, HeaderSuffix)
}

// Span is a [Start, End) byte range in the source text.
// End is one past the terminating semicolon.
type Span struct {
	Start int
	End   int
}

// Match is one statement located by the pattern rewriter
type Match struct {
	Span        Span
	Header      string
	Section     string
	AuditOption string
	Remediation string
}

// Status is the per-section result of a rewrite attempt
type Status string

const (
	StatusRewritten        Status = "rewritten"
	StatusNotFound         Status = "not_found"
	StatusUnterminated     Status = "unterminated"
	StatusAlreadyRewritten Status = "already_rewritten"
	StatusMalformedHeader  Status = "malformed_header"
)

// Skipped reports whether the status means the section was left untouched
// because something was wrong with the input.
func (s Status) Skipped() bool {
	switch s {
	case StatusNotFound, StatusUnterminated, StatusMalformedHeader:
		return true
	}
	return false
}

// Outcome records what happened to one section or match
type Outcome struct {
	Rewriter    string
	Section     string
	AuditOption string
	Status      Status
	Location    Location
	Message     string
}

// FileResult collects the outcomes for one processed file
type FileResult struct {
	Path     string
	Outcomes []Outcome
	Changed  bool
	Written  bool
	Diff     string // unified diff, only populated on dry runs
	Err      error
}

// Rewritten counts the sections that were replaced.
func (r FileResult) Rewritten() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == StatusRewritten {
			n++
		}
	}
	return n
}

// Skipped counts the sections left untouched because of a problem.
func (r FileResult) Skipped() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status.Skipped() {
			n++
		}
	}
	return n
}
