package printer

import (
	"fmt"
	"io"
	"slices"

	"github.com/repotrack/repotrack/internal/cmd/output"
)

var _ output.Printer[RefreshResult] = (*RefreshPrinter)(nil)

// RefreshPrinter writes a refresh summary, listing every failure with its cause.
type RefreshPrinter struct {
	headerFunc output.WriteFunc[RefreshResult]
	footerFunc output.WriteFunc[RefreshResult]
}

func (p *RefreshPrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

func (p *RefreshPrinter) SetHeader(fn output.WriteFunc[RefreshResult]) {
	p.headerFunc = fn
}

func (p *RefreshPrinter) Item(w io.Writer, r RefreshResult) error {
	total := len(r.Updated) + len(r.Unchanged) + len(r.Removed) + len(r.Failed)

	if _, err := fmt.Fprintf(w, "Refreshed %d repositor%s\n", total, map[bool]string{true: "y", false: "ies"}[total == 1]); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(
		w,
		"  updated: %d, unchanged: %d, removed: %d, failed: %d\n",
		len(r.Updated), len(r.Unchanged), len(r.Removed), len(r.Failed),
	); err != nil {
		return err
	}

	ids := make([]string, 0, len(r.Failed))
	for id := range r.Failed {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		if _, err := fmt.Fprintf(w, "  ✗ %s: %s\n", id, r.Failed[id]); err != nil {
			return err
		}
	}

	return nil
}

func (p *RefreshPrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

func (p *RefreshPrinter) SetFooter(fn output.WriteFunc[RefreshResult]) {
	p.footerFunc = fn
}
