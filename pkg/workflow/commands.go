// Package workflow speaks the pipeline runner's file and stdout protocols:
// "::command::message" lines and the GITHUB_OUTPUT step output file.
package workflow

import (
	"fmt"
	"io"
	"strings"
)

// Command names understood by the runner.
const (
	CommandError   = "error"
	CommandWarning = "warning"
	CommandDebug   = "debug"
)

// EscapeData escapes a command message.
func EscapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}

// Issue writes a single workflow command line to w.
func Issue(w io.Writer, command, message string) error {
	_, err := fmt.Fprintf(w, "::%s::%s\n", command, EscapeData(message))
	return err
}

// Error writes an ::error:: command.
func Error(w io.Writer, message string) error {
	return Issue(w, CommandError, message)
}

// Warning writes a ::warning:: command.
func Warning(w io.Writer, message string) error {
	return Issue(w, CommandWarning, message)
}

// Debug writes a ::debug:: command.
func Debug(w io.Writer, message string) error {
	return Issue(w, CommandDebug, message)
}
