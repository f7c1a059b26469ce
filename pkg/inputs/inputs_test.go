package inputs

import (
	"errors"
	"reflect"
	"testing"
)

func TestLines(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []string
		present bool
	}{
		{name: "empty", in: "", present: false},
		{name: "whitespace only", in: "  \n\t\n ", present: false},
		{name: "two slugs", in: "react\nvue", want: []string{"react", "vue"}, present: true},
		{name: "trims and drops blanks", in: "  react \n\n  vue\n", want: []string{"react", "vue"}, present: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Lines(tt.in).Get()
			if ok != tt.present {
				t.Fatalf("present = %v, want %v", ok, tt.present)
			}
			if ok && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("lines = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNonBlank(t *testing.T) {
	if NonBlank("").IsPresent() {
		t.Error("empty string should be absent")
	}
	if NonBlank(" \t ").IsPresent() {
		t.Error("whitespace should be absent")
	}
	if v := NonBlank("out.md").OrZero(); v != "out.md" {
		t.Errorf("value = %q, want out.md", v)
	}
	if v := None[string]().OrElse("fallback"); v != "fallback" {
		t.Errorf("OrElse = %q, want fallback", v)
	}
}

func TestEnvName(t *testing.T) {
	if got := EnvName("badge style"); got != "INPUT_BADGE_STYLE" {
		t.Errorf("EnvName = %q", got)
	}
	if got := EnvName("slugs"); got != "INPUT_SLUGS" {
		t.Errorf("EnvName = %q", got)
	}
}

func TestReaderRead(t *testing.T) {
	r := &Reader{Environ: []string{
		"INPUT_SLUGS=react\nvue\n",
		"INPUT_FORMAT= svg ",
		"INPUT_OUTPUT=   ",
		"INPUT_ID=x1",
		"INPUT_SORT=True",
		"INPUT_RANDOM=42",
		"INPUT_STYLE=flat",
		"INPUT_VERIFY=FALSE",
	}}

	in, err := r.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	slugs, ok := in.Slugs.Get()
	if !ok || !reflect.DeepEqual(slugs, []string{"react", "vue"}) {
		t.Errorf("slugs = %q (present=%v)", slugs, ok)
	}
	if in.JoinedSlugs().OrZero() != "react\nvue" {
		t.Errorf("joined slugs = %q", in.JoinedSlugs().OrZero())
	}
	if in.Format != "svg" {
		t.Errorf("format = %q, want svg", in.Format)
	}
	if in.Output.IsPresent() {
		t.Error("whitespace output should be absent")
	}
	if in.ID != "x1" || in.Random != "42" {
		t.Errorf("id/random = %q/%q", in.ID, in.Random)
	}
	if !in.Sort || in.Verify {
		t.Errorf("sort/verify = %v/%v, want true/false", in.Sort, in.Verify)
	}
	if in.Style.OrZero() != "flat" {
		t.Errorf("style = %q, want flat", in.Style.OrZero())
	}
}

func TestReaderRejectsMalformedBoolean(t *testing.T) {
	r := &Reader{Environ: []string{"INPUT_SORT=yes", "INPUT_VERIFY=false"}}

	_, err := r.Read()
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected InputError, got %v", err)
	}
	if inputErr.Input != "sort" {
		t.Errorf("input = %q, want sort", inputErr.Input)
	}
}

func TestReaderAppliesManifestDefaults(t *testing.T) {
	m, err := DefaultManifest()
	if err != nil {
		t.Fatalf("DefaultManifest failed: %v", err)
	}

	r := &Reader{Manifest: m, Environ: []string{"INPUT_SLUGS=github"}}
	in, err := r.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if in.Format != "markdown" {
		t.Errorf("format = %q, want markdown", in.Format)
	}
	if in.ID != "default" {
		t.Errorf("id = %q, want default", in.ID)
	}
	if !in.Sort {
		t.Error("sort should default to true")
	}
	if in.Verify {
		t.Error("verify should default to false")
	}
	if in.Style.OrZero() != "for-the-badge" {
		t.Errorf("style = %q", in.Style.OrZero())
	}
	if in.Random != "1" {
		t.Errorf("random = %q, want 1", in.Random)
	}
}

func TestReaderKeepsExplicitBlankInputs(t *testing.T) {
	m, err := DefaultManifest()
	if err != nil {
		t.Fatalf("DefaultManifest failed: %v", err)
	}

	r := &Reader{Manifest: m, Environ: []string{"INPUT_SLUGS=github", "INPUT_STYLE="}}
	in, err := r.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if in.Style.IsPresent() {
		t.Errorf("blank style should stay absent, got %q", in.Style.OrZero())
	}

	for _, value := range []string{"", "  "} {
		r := &Reader{Manifest: m, Environ: []string{"INPUT_SLUGS=github", "INPUT_SORT=" + value}}
		_, err := r.Read()
		var inputErr *InputError
		if !errors.As(err, &inputErr) || inputErr.Input != "sort" {
			t.Errorf("sort=%q: expected a sort input error, got %v", value, err)
		}
	}
}

func TestReaderRequiredInput(t *testing.T) {
	m, err := ParseManifest([]byte(`
inputs:
  slugs:
    required: true
  sort:
    default: "true"
  verify:
    default: "false"
`))
	if err != nil {
		t.Fatalf("ParseManifest failed: %v", err)
	}

	r := &Reader{Manifest: m, Environ: []string{}}
	_, err = r.Read()
	var inputErr *InputError
	if !errors.As(err, &inputErr) || inputErr.Input != "slugs" {
		t.Fatalf("expected missing slugs error, got %v", err)
	}
}

func TestManifestInputNames(t *testing.T) {
	m, err := DefaultManifest()
	if err != nil {
		t.Fatalf("DefaultManifest failed: %v", err)
	}
	want := []string{"format", "id", "output", "random", "slugs", "sort", "style", "verify"}
	if got := m.InputNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("InputNames = %v, want %v", got, want)
	}
	if _, ok := m.Outputs["badges"]; !ok {
		t.Error("expected badges output")
	}
}
