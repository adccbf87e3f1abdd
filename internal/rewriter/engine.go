package rewriter

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"ora-cte-fix/internal/model"

	"github.com/pmezard/go-difflib/difflib"
)

var (
	// ErrInvalidEncoding is returned when the target file is not valid UTF-8.
	ErrInvalidEncoding = errors.New("file is not valid UTF-8")
	// ErrSectionsSkipped is returned in strict mode when some section could not be rewritten.
	ErrSectionsSkipped = errors.New("some sections were skipped")
	// ErrNothingRewritten is returned in strict mode when no statement was rewritten at all.
	ErrNothingRewritten = errors.New("no statements rewritten")
)

// Options controls how FixFile persists its result
type Options struct {
	DryRun bool // compute a diff instead of writing
	Backup bool // keep the original as <path>.bak
}

// Engine runs registered rewriters over file contents
type Engine struct {
	rewriters []model.Rewriter
}

func NewEngine() *Engine {
	return &Engine{
		rewriters: make([]model.Rewriter, 0),
	}
}

func (e *Engine) Register(r model.Rewriter) {
	e.rewriters = append(e.rewriters, r)
}

// Apply runs every rewriter in registration order over content.
func (e *Engine) Apply(path string, content string) (string, []model.Outcome) {
	var all []model.Outcome
	for _, r := range e.rewriters {
		var outcomes []model.Outcome
		content, outcomes = r.Rewrite(path, content)
		all = append(all, outcomes...)
	}
	return content, all
}

// FixFile reads path, applies the rewriters and writes the result back in
// place. The file is rewritten even when nothing changed. Failures are
// reported through FileResult.Err so results can be streamed by a pool.
func (e *Engine) FixFile(path string, opts Options) model.FileResult {
	res := model.FileResult{Path: path}

	info, err := os.Stat(path)
	if err != nil {
		res.Err = err
		return res
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		res.Err = err
		return res
	}
	if !utf8.Valid(raw) {
		res.Err = fmt.Errorf("%s: %w", path, ErrInvalidEncoding)
		return res
	}

	original := string(raw)
	rewritten, outcomes := e.Apply(path, original)
	res.Outcomes = outcomes
	res.Changed = rewritten != original

	if opts.DryRun {
		if res.Changed {
			res.Diff, res.Err = unifiedDiff(path, original, rewritten)
		}
		return res
	}

	if opts.Backup {
		if err := os.WriteFile(path+".bak", raw, info.Mode().Perm()); err != nil {
			res.Err = fmt.Errorf("backup failed: %w", err)
			return res
		}
	}
	if err := os.WriteFile(path, []byte(rewritten), info.Mode().Perm()); err != nil {
		res.Err = err
		return res
	}
	res.Written = true
	return res
}

// Verify returns the first file error. When strict is set it also fails on
// skipped sections and on runs where no statement is in CTE form.
func Verify(results []model.FileResult, strict bool) error {
	var done, skipped int
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
		skipped += r.Skipped()
		for _, o := range r.Outcomes {
			if o.Status == model.StatusRewritten || o.Status == model.StatusAlreadyRewritten {
				done++
			}
		}
	}
	if !strict {
		return nil
	}
	if skipped > 0 {
		return fmt.Errorf("%w: %d", ErrSectionsSkipped, skipped)
	}
	if done == 0 {
		return ErrNothingRewritten
	}
	return nil
}

func unifiedDiff(path, before, after string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: path,
		ToFile:   path + " (rewritten)",
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}
