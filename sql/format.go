package sql

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vippsas/chunkfmt/sql/sqltoken"
	"github.com/vippsas/chunkfmt/writer"
)

// Options configures one Format call. The zero value is usable: it fills in
// DefaultPageWidth and "\n" line endings.
type Options struct {
	PageWidth  int
	LineEnding string
	File       sqltoken.FileRef

	// DisablePreemption forwards to writer.LineWriter, for tests and the
	// CLI's debug tooling.
	DisablePreemption bool

	// Logger forwards to writer.LineWriter. Nil means the writer's own
	// default (logrus.StandardLogger()) is used, so batch-cut and
	// preemption logging is gated by the global logrus level rather than
	// silenced here — callers that want silence should pass a logger with
	// its output discarded, not rely on this field being nil.
	Logger logrus.FieldLogger
}

// DefaultPageWidth is used when Options.PageWidth is zero.
const DefaultPageWidth = 80

func (o Options) withDefaults() Options {
	if o.PageWidth == 0 {
		o.PageWidth = DefaultPageWidth
	}
	if o.LineEnding == "" {
		o.LineEnding = "\n"
	}
	return o
}

// FormatError reports every scan/build error found in a source, collected
// rather than stopping at the first one: a formatter that refuses to touch
// a file over one bad comment is worse than one that tells you everything
// wrong with it at once.
type FormatError struct {
	Errors []sqltoken.Error
}

func (e *FormatError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, er := range e.Errors {
		msgs[i] = er.Error()
	}
	return strings.Join(msgs, "\n")
}

// Format tokenizes and reformats src. It returns a *FormatError (not a bare
// error) when scanning failed, so callers can inspect individual
// sqltoken.Error entries.
func Format(src string, opts Options) (string, error) {
	opts = opts.withDefaults()

	chunks, errs := Build(src, opts.File)
	if len(errs) > 0 {
		return "", &FormatError{Errors: errs}
	}
	if len(chunks) == 0 {
		return "", nil
	}

	w := writer.New(opts.PageWidth)
	w.LineEnding = opts.LineEnding
	w.DisablePreemption = opts.DisablePreemption
	if opts.Logger != nil {
		w.Logger = opts.Logger
	}

	out, _ := w.Format(chunks, 0)
	return out, nil
}
