package workflow

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestEscapeData(t *testing.T) {
	got := EscapeData("100% done\r\nnext line")
	want := "100%25 done%0D%0Anext line"
	if got != want {
		t.Errorf("EscapeData = %q, want %q", got, want)
	}
}

func TestIssue(t *testing.T) {
	var buf bytes.Buffer

	if err := Error(&buf, "pip failed\nexit 1"); err != nil {
		t.Fatal(err)
	}
	if err := Warning(&buf, "legacy"); err != nil {
		t.Fatal(err)
	}
	if err := Debug(&buf, "args"); err != nil {
		t.Fatal(err)
	}

	want := "::error::pip failed%0Aexit 1\n::warning::legacy\n::debug::args\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestOutputFileSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	out := NewOutputFile(path)

	if err := out.Set("badges", "![react](a)\n![vue](b)"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := out.Set("count", "2\n"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "badges<<BADGESORT_EOF\n![react](a)\n![vue](b)\nBADGESORT_EOF\n" +
		"count<<BADGESORT_EOF\n2\nBADGESORT_EOF\n"
	if string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}
}

func TestOutputFileRejectsDelimiter(t *testing.T) {
	out := NewOutputFile(filepath.Join(t.TempDir(), "output"))
	if err := out.Set("badges", "x\nBADGESORT_EOF\ny"); err == nil {
		t.Fatal("expected delimiter collision error")
	}
}

func TestNewOutputFileEmpty(t *testing.T) {
	if NewOutputFile("") != nil {
		t.Error("expected nil for empty path")
	}
}
