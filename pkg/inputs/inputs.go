// Package inputs reads the pipeline's declared inputs for the badge step.
//
// Inputs arrive as INPUT_* environment variables set by the pipeline runner.
// They are read exactly once per process into an immutable PipelineInputs
// value; blank strings become absent Optionals at this boundary.
package inputs

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// PipelineInputs is the configuration surface consumed from the pipeline.
type PipelineInputs struct {
	Slugs  Optional[[]string]
	Format string
	Output Optional[string]
	ID     string
	Sort   bool
	Random string
	Style  Optional[string]
	Verify bool
}

// JoinedSlugs returns the slugs joined by newlines, absent when there are none.
func (p PipelineInputs) JoinedSlugs() Optional[string] {
	slugs, ok := p.Slugs.Get()
	if !ok {
		return None[string]()
	}
	return Some(strings.Join(slugs, "\n"))
}

// InputError reports an input that is missing or malformed.
type InputError struct {
	Input   string
	Message string
}

// Error implements the error interface.
func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Input)
}

// rawInputs holds the input variables as the runner sets them.
type rawInputs struct {
	Slugs  string `env:"INPUT_SLUGS"`
	Format string `env:"INPUT_FORMAT"`
	Output string `env:"INPUT_OUTPUT"`
	ID     string `env:"INPUT_ID"`
	Sort   string `env:"INPUT_SORT"`
	Random string `env:"INPUT_RANDOM"`
	Style  string `env:"INPUT_STYLE"`
	Verify string `env:"INPUT_VERIFY"`
}

// Reader reads PipelineInputs from a process environment.
type Reader struct {
	// Manifest supplies defaults and required flags. Optional.
	Manifest *Manifest

	// Environ is the environment in os.Environ form. Defaults to os.Environ().
	Environ []string
}

// NewReader creates a reader over the current process environment.
func NewReader(manifest *Manifest) *Reader {
	return &Reader{Manifest: manifest}
}

// EnvName returns the environment variable the runner uses for an input.
func EnvName(input string) string {
	return "INPUT_" + strings.ToUpper(strings.ReplaceAll(input, " ", "_"))
}

// Read resolves defaults, checks required inputs and parses every input once.
func (r *Reader) Read() (PipelineInputs, error) {
	environ := r.Environ
	if environ == nil {
		environ = os.Environ()
	}
	vars := toMap(environ)

	if r.Manifest != nil {
		for _, name := range r.Manifest.InputNames() {
			spec := r.Manifest.Inputs[name]
			key := EnvName(name)
			if _, set := vars[key]; !set && spec.Default != "" {
				vars[key] = spec.Default
			}
			if spec.Required && strings.TrimSpace(vars[key]) == "" {
				return PipelineInputs{}, &InputError{Input: name, Message: "Input required and not supplied"}
			}
		}
	}

	var raw rawInputs
	if err := env.ParseWithOptions(&raw, env.Options{Environment: vars}); err != nil {
		return PipelineInputs{}, fmt.Errorf("parse inputs: %w", err)
	}

	sortInput, err := parseBool("sort", raw.Sort)
	if err != nil {
		return PipelineInputs{}, err
	}
	verify, err := parseBool("verify", raw.Verify)
	if err != nil {
		return PipelineInputs{}, err
	}

	return PipelineInputs{
		Slugs:  Lines(raw.Slugs),
		Format: strings.TrimSpace(raw.Format),
		Output: NonBlank(strings.TrimSpace(raw.Output)),
		ID:     strings.TrimSpace(raw.ID),
		Sort:   sortInput,
		Random: strings.TrimSpace(raw.Random),
		Style:  NonBlank(strings.TrimSpace(raw.Style)),
		Verify: verify,
	}, nil
}

// parseBool accepts the YAML 1.2 core schema booleans the runner documents.
func parseBool(name, value string) (bool, error) {
	switch strings.TrimSpace(value) {
	case "true", "True", "TRUE":
		return true, nil
	case "false", "False", "FALSE":
		return false, nil
	}
	return false, &InputError{
		Input:   name,
		Message: "Input does not meet YAML 1.2 \"Core Schema\" specification (true | True | TRUE | false | False | FALSE)",
	}
}

func toMap(environ []string) map[string]string {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		vars[k] = v
	}
	return vars
}
