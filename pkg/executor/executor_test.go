package executor

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func newTestExecutor() (*ProcessExecutor, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &ProcessExecutor{Stdout: &stdout, Stderr: &stderr}, &stdout, &stderr
}

func TestRunForwardsOutput(t *testing.T) {
	p, stdout, stderr := newTestExecutor()

	result, err := p.Run(context.Background(), &Command{
		Name: "sh",
		Args: []string{"-c", "echo out; echo err >&2"},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.ExitCode != 0 {
		t.Errorf("exit code = %d, want 0", result.ExitCode)
	}
	if stdout.String() != "out\n" {
		t.Errorf("stdout = %q", stdout.String())
	}
	if stderr.String() != "err\n" {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRunNonzeroExit(t *testing.T) {
	p, _, _ := newTestExecutor()

	result, err := p.Run(context.Background(), &Command{Name: "sh", Args: []string{"-c", "exit 3"}})

	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ExecutionError, got %v", err)
	}
	if execErr.ExitCode != 3 || result.ExitCode != 3 {
		t.Errorf("exit code = %d/%d, want 3", execErr.ExitCode, result.ExitCode)
	}
	if err.Error() != "The process 'sh' failed with exit code 3" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestRunMissingProgram(t *testing.T) {
	p, _, _ := newTestExecutor()

	_, err := p.Run(context.Background(), &Command{Name: "definitely-not-a-real-program-xyz"})

	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ExecutionError, got %v", err)
	}
	if execErr.ExitCode != -1 {
		t.Errorf("exit code = %d, want -1", execErr.ExitCode)
	}
	if !strings.HasPrefix(err.Error(), "failed to execute") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestRunArgumentsAreNotSplit(t *testing.T) {
	p, stdout, _ := newTestExecutor()

	_, err := p.Run(context.Background(), &Command{
		Name: "sh",
		Args: []string{"-c", `printf '%s|' "$@"`, "sh", "a b", "$(echo x)", "c\nd"},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stdout.String() != "a b|$(echo x)|c\nd|" {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRunCommandWritersAndEnv(t *testing.T) {
	p, base, _ := newTestExecutor()
	p.Echo = true
	var own bytes.Buffer

	_, err := p.Run(context.Background(), &Command{
		Name:   "sh",
		Args:   []string{"-c", "echo $BADGE_TEST"},
		Env:    []string{"BADGE_TEST=hello"},
		Stdout: &own,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if own.String() != "hello\n" {
		t.Errorf("command stdout = %q", own.String())
	}
	if !strings.HasPrefix(base.String(), "[command]sh -c") {
		t.Errorf("echo line = %q", base.String())
	}
}

func TestRunRejectsEmptyCommand(t *testing.T) {
	p, _, _ := newTestExecutor()
	if _, err := p.Run(context.Background(), &Command{}); err == nil {
		t.Fatal("expected error for empty command")
	}
}
