package annotate

import (
	"fmt"
	"os"
)

// Summary is the append-only markdown run summary (the GITHUB_STEP_SUMMARY
// sink). A Summary with an empty path discards writes; absence of the sink
// is never an error.
type Summary struct {
	path string
}

// NewSummary returns a Summary appending to the file at path.
func NewSummary(path string) *Summary {
	return &Summary{path: path}
}

// WriteLine appends one line to the summary file. The file is opened per
// line so partial runs still leave a readable summary behind.
func (s *Summary) WriteLine(line string) error {
	if s.path == "" {
		return nil
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening step summary: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("appending step summary: %w", err)
	}
	return nil
}
