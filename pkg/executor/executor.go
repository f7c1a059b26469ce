// Package executor runs child processes for the badge step.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Command describes one child process invocation.
type Command struct {
	// Name is the program to run, resolved through PATH.
	Name string

	// Args are passed to the program as-is, one token each.
	Args []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Env entries are appended to the parent environment.
	Env []string

	// Stdout and Stderr override the executor's writers when set.
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line for logs.
func (c *Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result describes a finished process.
type Result struct {
	ExitCode int
	Duration time.Duration
}

// ExecutionError reports a process that could not start or exited nonzero.
type ExecutionError struct {
	// Command is the program name.
	Command string

	// ExitCode is the process exit code, or -1 when it never ran.
	ExitCode int

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("The process '%s' failed with exit code %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("failed to execute %s: %v", e.Command, e.Err)
}

// Unwrap returns the underlying error.
func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Executor runs commands to completion.
type Executor interface {
	Run(ctx context.Context, cmd *Command) (*Result, error)
}

// ProcessExecutor runs commands as local child processes and forwards their
// output streams untouched.
type ProcessExecutor struct {
	Stdout io.Writer
	Stderr io.Writer

	// Echo prints "[command]<line>" to Stdout before each run.
	Echo bool
}

// NewProcessExecutor creates an executor bound to the process's own streams.
func NewProcessExecutor() *ProcessExecutor {
	return &ProcessExecutor{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Echo:   true,
	}
}

// Run starts cmd and blocks until it exits.
func (p *ProcessExecutor) Run(ctx context.Context, cmd *Command) (*Result, error) {
	if cmd == nil || cmd.Name == "" {
		return nil, &ExecutionError{Command: "", ExitCode: -1, Err: fmt.Errorf("command is required")}
	}

	stdout := firstWriter(cmd.Stdout, p.Stdout)
	stderr := firstWriter(cmd.Stderr, p.Stderr)

	if p.Echo && p.Stdout != nil {
		fmt.Fprintf(p.Stdout, "[command]%s\n", cmd.String())
	}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	if cmd.Dir != "" {
		c.Dir = cmd.Dir
	}
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	c.Stdout = stdout
	c.Stderr = stderr

	log.Debug().
		Str("command", cmd.Name).
		Strs("args", cmd.Args).
		Str("dir", cmd.Dir).
		Msg("executing command")

	start := time.Now()
	err := c.Run()
	result := &Result{Duration: time.Since(start)}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			log.Debug().
				Str("command", cmd.Name).
				Int("exit_code", result.ExitCode).
				Dur("duration", result.Duration).
				Msg("command failed")
			return result, &ExecutionError{Command: cmd.Name, ExitCode: result.ExitCode, Err: err}
		}
		return nil, &ExecutionError{Command: cmd.Name, ExitCode: -1, Err: err}
	}

	log.Debug().
		Str("command", cmd.Name).
		Dur("duration", result.Duration).
		Msg("command completed")

	return result, nil
}

func firstWriter(ws ...io.Writer) io.Writer {
	for _, w := range ws {
		if w != nil {
			return w
		}
	}
	return io.Discard
}
