package annotate

import (
	"fmt"
	"io"
)

// Annotator emits GitHub Actions workflow commands so each finding surfaces
// as a per-file annotation in the CI run. Plain informational lines go
// through Infof.
type Annotator struct {
	out io.Writer
}

// New returns an Annotator writing to out (stdout in production).
func New(out io.Writer) *Annotator {
	return &Annotator{out: out}
}

// Error emits an error annotation attributed to file.
func (a *Annotator) Error(file, message string) {
	fmt.Fprintf(a.out, "::error file=%s::%s\n", file, message)
}

// Warning emits a warning annotation attributed to file.
func (a *Annotator) Warning(file, message string) {
	fmt.Fprintf(a.out, "::warning file=%s::%s\n", file, message)
}

// Group opens a collapsible log group.
func (a *Annotator) Group(title string) {
	fmt.Fprintf(a.out, "::group::%s\n", title)
}

// EndGroup closes the current log group.
func (a *Annotator) EndGroup() {
	fmt.Fprintln(a.out, "::endgroup::")
}

// Infof writes one plain line.
func (a *Annotator) Infof(format string, args ...any) {
	fmt.Fprintf(a.out, format+"\n", args...)
}
