package printer

import (
	"fmt"
	"io"
	"time"

	"github.com/repotrack/repotrack/internal/cmd/output"
)

var _ output.Printer[CollectionResult] = (*CollectionPrinter)(nil)

// CollectionPrinter writes a collection and any repositories it was loaded with.
type CollectionPrinter struct {
	headerFunc output.WriteFunc[CollectionResult]
	footerFunc output.WriteFunc[CollectionResult]

	// Repositories prints each tracked repository.
	Repositories output.Printer[RepositoryResult]
}

// NewCollectionPrinter returns a printer nesting repositories under their collection.
func NewCollectionPrinter() *CollectionPrinter {
	return &CollectionPrinter{
		Repositories: NewRepositoryPrinter("    "),
	}
}

// NewCollectionListPrinter returns a CollectionPrinter framed by a count header and footer.
func NewCollectionListPrinter() *CollectionPrinter {
	p := NewCollectionPrinter()
	p.SetHeader(func(w io.Writer, _ int) {
		_, _ = fmt.Fprintln(w, "Collections")
		_, _ = fmt.Fprintln(w, "")
	})
	p.SetFooter(func(w io.Writer, count int) {
		_, _ = fmt.Fprintln(w, "")
		_, _ = fmt.Fprintf(w, "%d collection%s\n", count, plural(count))
	})

	return p
}

func (p *CollectionPrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

func (p *CollectionPrinter) SetHeader(fn output.WriteFunc[CollectionResult]) {
	p.headerFunc = fn
}

// Item writes the collection summary followed by its repositories.
func (p *CollectionPrinter) Item(w io.Writer, c CollectionResult) error {
	protection := "open"
	if c.Protected {
		protection = "protected"
	}

	if _, err := fmt.Fprintf(w, "%s (%s)\n", c.Name, protection); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  ID: %s\n", c.ID); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  Created: %s\n", c.CreatedAt.UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	if len(c.Repositories) == 0 || p.Repositories == nil {
		return nil
	}

	if _, err := fmt.Fprintf(w, "  Repositories (%d):\n", len(c.Repositories)); err != nil {
		return err
	}
	for _, r := range c.Repositories {
		if err := p.Repositories.Item(w, r); err != nil {
			return err
		}
	}

	return nil
}

func (p *CollectionPrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

func (p *CollectionPrinter) SetFooter(fn output.WriteFunc[CollectionResult]) {
	p.footerFunc = fn
}

func plural(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
