package cmd

import (
	stdErrors "errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/repotrack/repotrack/internal/cmd/output"
)

// FlagNameFormat is the name of the flag selecting the output format.
const FlagNameFormat = "format"

type OutputFormat string

type OutputFormats []OutputFormat

const (
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
	FormatText OutputFormat = "text"
)

const indentSpaces = 2

func AllowedOutputFormats() OutputFormats {
	formats := []OutputFormat{
		FormatJSON,
		FormatText,
		FormatYAML,
	}

	slices.Sort(formats)

	return formats
}

// String joins the formats with commas.
func (f *OutputFormats) String() string {
	out := make([]string, 0, len(*f))
	for _, format := range *f {
		out = append(out, format.String())
	}
	return strings.Join(out, ", ")
}

// String implements fmt.Stringer and pflag.Value.
func (f *OutputFormat) String() string {
	return strings.ToLower(string(*f))
}

// Set implements pflag.Value.
func (f *OutputFormat) Set(v string) error {
	v = strings.ToLower(strings.TrimSpace(v))
	allowed := AllowedOutputFormats()

	if !slices.Contains(allowed, OutputFormat(v)) {
		return fmt.Errorf("invalid format '%s', must be one of %v", v, allowed.String())
	}

	*f = OutputFormat(v)
	return nil
}

// Type implements pflag.Value.
func (f *OutputFormat) Type() string {
	return "format"
}

// FormatHandler returns the handler rendering values of type T to w in the given format.
// The printer is only used for text output.
func FormatHandler[T any](w io.Writer, format OutputFormat, printer output.Printer[T]) (output.Handler[T], error) {
	switch format {
	case FormatJSON:
		return output.NewJSONHandler[T](w, indentSpaces), nil
	case FormatYAML:
		return output.NewYAMLHandler[T](w, indentSpaces), nil
	case FormatText:
		if printer == nil {
			return nil, fmt.Errorf("text output requires a printer")
		}
		return output.NewTextHandler[T](w, printer), nil
	default:
		return nil, fmt.Errorf("unsupported output format '%s'", format)
	}
}

// HandleError renders err through the handler and returns it, so structured output
// carries the error while the command still fails.
func HandleError[T any](h output.Handler[T], err error) error {
	if herr := h.HandleError(err); herr != nil && !stdErrors.Is(herr, err) {
		return stdErrors.Join(err, herr)
	}
	return err
}
