package engine

import (
	"context"

	"github.com/badgesort/badgesort-action/pkg/inputs"
	"github.com/badgesort/badgesort-action/pkg/installer"
	"github.com/badgesort/badgesort-action/pkg/runtime"
)

// Provisioner makes the script's runtime available.
type Provisioner interface {
	Provision(ctx context.Context) (*runtime.Installation, error)
}

// Installer installs the script's dependencies into the runtime.
type Installer interface {
	Install(ctx context.Context, opts installer.Options) error
}

// InputSource yields the pipeline inputs for the run.
type InputSource interface {
	Read() (inputs.PipelineInputs, error)
}

// InputSourceFunc adapts a function to InputSource.
type InputSourceFunc func() (inputs.PipelineInputs, error)

// Read calls f.
func (f InputSourceFunc) Read() (inputs.PipelineInputs, error) {
	return f()
}
