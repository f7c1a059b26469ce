// Package installer installs the icon script's vendored Python dependencies.
package installer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/badgesort/badgesort-action/pkg/executor"
)

// InstallError reports a failed dependency installation.
type InstallError struct {
	Manager string
	Err     error
}

// Error implements the error interface.
func (e *InstallError) Error() string {
	return fmt.Sprintf("%s install failed: %v", e.Manager, e.Err)
}

// Unwrap returns the underlying error.
func (e *InstallError) Unwrap() error {
	return e.Err
}

// Options configures an install run.
type Options struct {
	// Program overrides the package manager executable, e.g. an absolute
	// path inside a provisioned runtime.
	Program string

	// Env entries are added to the package manager's environment.
	Env []string
}

// PipInstaller installs a requirements manifest from a local vendor
// directory with the network disabled.
type PipInstaller struct {
	Executor     executor.Executor
	Requirements string
	VendorDir    string
}

// NewPipInstaller creates an installer for the given manifest and vendor directory.
func NewPipInstaller(exec executor.Executor, requirements, vendorDir string) *PipInstaller {
	return &PipInstaller{
		Executor:     exec,
		Requirements: requirements,
		VendorDir:    vendorDir,
	}
}

// Args returns the pip arguments: install from the manifest, no index,
// vendor directory as the only source.
func (i *PipInstaller) Args() []string {
	return []string{
		"install",
		"--requirement",
		i.Requirements,
		"--no-index",
		"--find-links=" + i.VendorDir,
	}
}

// Install runs pip and waits for it. A nonzero exit is an InstallError.
func (i *PipInstaller) Install(ctx context.Context, opts Options) error {
	if i.Requirements == "" {
		return &InstallError{Manager: "pip", Err: fmt.Errorf("requirements manifest is required")}
	}
	if i.VendorDir == "" {
		return &InstallError{Manager: "pip", Err: fmt.Errorf("vendor directory is required")}
	}

	program := opts.Program
	if program == "" {
		program = "pip"
	}

	log.Debug().
		Str("requirements", i.Requirements).
		Str("vendor_dir", i.VendorDir).
		Msg("installing vendored dependencies")

	_, err := i.Executor.Run(ctx, &executor.Command{
		Name: program,
		Args: i.Args(),
		Env:  opts.Env,
	})
	if err != nil {
		return &InstallError{Manager: "pip", Err: err}
	}
	return nil
}
