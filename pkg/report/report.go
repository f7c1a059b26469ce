// Package report turns the outcome of a run into the pipeline-visible
// result: an ::error:: line and a process exit status.
package report

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/badgesort/badgesort-action/pkg/workflow"
)

// Exit statuses.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Reporter is the single failure boundary of the step.
type Reporter struct {
	Out io.Writer
}

// New creates a Reporter writing workflow commands to out.
func New(out io.Writer) *Reporter {
	if out == nil {
		out = os.Stdout
	}
	return &Reporter{Out: out}
}

// Report marks the run failed when err is non-nil and returns the exit
// status the process should terminate with.
func (r *Reporter) Report(err error) int {
	if err == nil {
		return ExitSuccess
	}

	message := err.Error()
	if errors.Is(err, context.Canceled) {
		message = "run cancelled: " + message
	}

	log.Error().Err(err).Msg("run failed")

	if werr := workflow.Error(r.Out, message); werr != nil {
		log.Error().Err(werr).Msg("failed to write failure to the runner")
	}
	return ExitFailure
}
