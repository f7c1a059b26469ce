// Package translate maps pipeline inputs onto the icon script's command line.
//
// Two grammars exist and are selected by an explicit schema version:
//
//	v1  -s <slugs> -f <format> -o <output> -i <id> -r <random> -v <verify> -s <sort>
//	v2  [--slugs=<v>] [--output=<v>] --format=<v> --id=<v> --random=<v> --badge-style=<v> [--verify] [--no-hilbert]
//
// v1 is kept for steps pinned to the legacy invocation; its reused -s flag
// makes the sort value shadow the slugs, so new pipelines should use v2.
package translate

import (
	"fmt"
	"strconv"

	"github.com/badgesort/badgesort-action/pkg/inputs"
)

// SchemaVersion selects the argument grammar.
type SchemaVersion string

const (
	// SchemaShortFlags is the legacy positional short-flag grammar.
	SchemaShortFlags SchemaVersion = "v1"

	// SchemaLongFlags is the long-flag grammar with blank suppression.
	SchemaLongFlags SchemaVersion = "v2"

	// DefaultSchema is used when no version is configured.
	DefaultSchema = SchemaLongFlags
)

// Validate checks if the schema version is known.
func (v SchemaVersion) Validate() error {
	switch v {
	case SchemaShortFlags, SchemaLongFlags:
		return nil
	default:
		return &TranslationError{Schema: v, Message: "unknown schema version"}
	}
}

// IsDeprecated reports whether the grammar is only kept for compatibility.
func (v SchemaVersion) IsDeprecated() bool {
	return v == SchemaShortFlags
}

// ArgumentVector is the ordered list of tokens passed to the script.
// Every element is one argument; nothing is re-split or shell-interpreted.
type ArgumentVector []string

// Translator turns PipelineInputs into an ArgumentVector.
type Translator interface {
	Schema() SchemaVersion
	Translate(in inputs.PipelineInputs) (ArgumentVector, error)
}

// TranslationError reports inputs that cannot be rendered for a schema.
type TranslationError struct {
	Schema  SchemaVersion
	Field   string
	Message string
}

// Error implements the error interface.
func (e *TranslationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("translate %s: %s: %s", e.Schema, e.Field, e.Message)
	}
	return fmt.Sprintf("translate %s: %s", e.Schema, e.Message)
}

// ForSchema returns the translator for a schema version.
func ForSchema(v SchemaVersion) (Translator, error) {
	switch v {
	case SchemaLongFlags:
		return LongFlags{}, nil
	case SchemaShortFlags:
		return ShortFlags{}, nil
	}
	return nil, &TranslationError{Schema: v, Message: "unknown schema version"}
}

// LongFlags renders the v2 grammar.
type LongFlags struct{}

// Schema returns SchemaLongFlags.
func (LongFlags) Schema() SchemaVersion { return SchemaLongFlags }

// Translate emits --flag=value tokens. Absent slugs and output are omitted;
// --no-hilbert is emitted when sorting is disabled.
func (LongFlags) Translate(in inputs.PipelineInputs) (ArgumentVector, error) {
	args := make(ArgumentVector, 0, 8)

	if slugs, ok := in.JoinedSlugs().Get(); ok {
		args = append(args, "--slugs="+slugs)
	}
	if output, ok := in.Output.Get(); ok {
		args = append(args, "--output="+output)
	}
	args = append(args,
		"--format="+in.Format,
		"--id="+in.ID,
		"--random="+in.Random,
		"--badge-style="+in.Style.OrZero(),
	)
	if in.Verify {
		args = append(args, "--verify")
	}
	if !in.Sort {
		args = append(args, "--no-hilbert")
	}

	return args, nil
}

// ShortFlags renders the v1 grammar: seven flag/value pairs, always.
type ShortFlags struct{}

// Schema returns SchemaShortFlags.
func (ShortFlags) Schema() SchemaVersion { return SchemaShortFlags }

// Translate emits every pair even when the value is empty.
func (ShortFlags) Translate(in inputs.PipelineInputs) (ArgumentVector, error) {
	return ArgumentVector{
		"-s", in.JoinedSlugs().OrZero(),
		"-f", in.Format,
		"-o", in.Output.OrZero(),
		"-i", in.ID,
		"-r", in.Random,
		"-v", strconv.FormatBool(in.Verify),
		"-s", strconv.FormatBool(in.Sort),
	}, nil
}
