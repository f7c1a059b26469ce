package workflow

import (
	"fmt"
	"os"
	"strings"
)

// OutputDelimiter terminates heredoc step outputs.
const OutputDelimiter = "BADGESORT_EOF"

// OutputFile appends step outputs to the runner's GITHUB_OUTPUT file.
type OutputFile struct {
	Path string
}

// NewOutputFile returns an OutputFile for path, or nil when path is empty.
func NewOutputFile(path string) *OutputFile {
	if path == "" {
		return nil
	}
	return &OutputFile{Path: path}
}

// Set appends name=value using heredoc syntax so multi-line values survive.
func (o *OutputFile) Set(name, value string) error {
	if strings.Contains(value, OutputDelimiter) {
		return fmt.Errorf("output %s contains the delimiter %s", name, OutputDelimiter)
	}

	f, err := os.OpenFile(o.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	b.WriteString(name)
	b.WriteString("<<")
	b.WriteString(OutputDelimiter)
	b.WriteString("\n")
	b.WriteString(value)
	if !strings.HasSuffix(value, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(OutputDelimiter)
	b.WriteString("\n")

	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("failed to write output %s: %w", name, err)
	}
	return nil
}
