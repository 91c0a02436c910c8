package interfaces

import "context"

// Severity grades lint findings. Errors fail a lint run, warnings do not.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// LintIssue captures a single content hygiene finding.
type LintIssue struct {
	Path     string
	Line     int
	Rule     string
	Severity Severity
	Message  string
}

// LintReport aggregates findings across one or more documents.
type LintReport struct {
	Checked int
	Issues  []LintIssue
}

// HasErrors reports whether any issue carries the error severity.
func (r *LintReport) HasErrors() bool {
	if r == nil {
		return false
	}
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Linter validates front-mattered content files without mutating them.
type Linter interface {
	LintFile(ctx context.Context, path string) (*LintReport, error)
	LintDirectory(ctx context.Context, dir string) (*LintReport, error)
	LintSource(ctx context.Context, path string, source []byte) *LintReport
}
