package model

// Rewriter transforms the full text of one SQL file
type Rewriter interface {
	// Name returns the unique identifier of the rewriter
	Name() string
	// Rewrite returns the transformed content together with one Outcome per
	// section or match it considered. It must not perform any I/O.
	Rewrite(path string, content string) (string, []Outcome)
}

// Reporter defines how to output results
type Reporter interface {
	Report(results []FileResult) error
}
