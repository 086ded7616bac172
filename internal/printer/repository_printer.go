package printer

import (
	"fmt"
	"io"
	"time"

	"github.com/repotrack/repotrack/internal/cmd/output"
)

var _ output.Printer[RepositoryResult] = (*RepositoryPrinter)(nil)

// RepositoryPrinter writes a repository as an indented block.
type RepositoryPrinter struct {
	headerFunc output.WriteFunc[RepositoryResult]
	footerFunc output.WriteFunc[RepositoryResult]
	indent     string
}

// NewRepositoryPrinter returns a printer prefixing every line with indent.
func NewRepositoryPrinter(indent string) *RepositoryPrinter {
	return &RepositoryPrinter{indent: indent}
}

func (p *RepositoryPrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

func (p *RepositoryPrinter) SetHeader(fn output.WriteFunc[RepositoryResult]) {
	p.headerFunc = fn
}

func (p *RepositoryPrinter) Item(w io.Writer, r RepositoryResult) error {
	title := fmt.Sprintf("%s/%s (%s)", r.Owner, r.Name, r.Provider)
	if r.Stale {
		title += " [stale]"
	}

	if _, err := fmt.Fprintf(w, "%s%s\n", p.indent, title); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s  ID: %s\n", p.indent, r.ID); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s  Last commit: %s\n", p.indent, formatTime(r.LastCommitAt)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s  Last release: %s\n", p.indent, formatTime(r.LastReleaseAt)); err != nil {
		return err
	}

	return nil
}

func (p *RepositoryPrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

func (p *RepositoryPrinter) SetFooter(fn output.WriteFunc[RepositoryResult]) {
	p.footerFunc = fn
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "unknown"
	}
	return t.UTC().Format(time.RFC3339)
}
