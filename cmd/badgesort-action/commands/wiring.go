package commands

import (
	"fmt"
	"io"

	"github.com/badgesort/badgesort-action/pkg/config"
	"github.com/badgesort/badgesort-action/pkg/engine"
	"github.com/badgesort/badgesort-action/pkg/executor"
	"github.com/badgesort/badgesort-action/pkg/inputs"
	"github.com/badgesort/badgesort-action/pkg/installer"
	"github.com/badgesort/badgesort-action/pkg/runtime"
	"github.com/badgesort/badgesort-action/pkg/telemetry"
	"github.com/badgesort/badgesort-action/pkg/translate"
	"github.com/badgesort/badgesort-action/pkg/workflow"
)

// cachedPythonTool is the tool name hosted runners use in their tool cache.
const cachedPythonTool = "Python"

func loadManifest(cfg *config.StepConfig) (*inputs.Manifest, error) {
	if cfg.Manifest == "" {
		return inputs.DefaultManifest()
	}
	return inputs.LoadManifest(cfg.Manifest)
}

// newTranslator returns the translator for the configured schema.
func newTranslator(cfg *config.StepConfig) (translate.Translator, error) {
	tr, err := translate.ForSchema(translate.SchemaVersion(cfg.Schema))
	if err != nil {
		return nil, err
	}
	if cfg.Strict {
		return translate.NewStrict(tr), nil
	}
	return tr, nil
}

// newOrchestrator wires the production collaborators for one run.
func newOrchestrator(cfg *config.StepConfig, tel *telemetry.Telemetry, stdout io.Writer) (*engine.Orchestrator, error) {
	manifest, err := loadManifest(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}

	tr, err := newTranslator(cfg)
	if err != nil {
		return nil, err
	}

	exec := executor.NewProcessExecutor()

	var prov engine.Provisioner
	if cfg.SkipProvision {
		prov = &runtime.SystemProvisioner{Tool: cfg.Interpreter}
	} else {
		cache := runtime.NewToolCache(cfg.ToolCache)
		prov = runtime.NewCacheProvisioner(cache, cachedPythonTool, cfg.PythonVersion, cfg.PythonArch)
	}

	orch := &engine.Orchestrator{
		Provisioner:    prov,
		Inputs:         inputs.NewReader(manifest),
		Translator:     tr,
		Executor:       exec,
		Interpreter:    cfg.Interpreter,
		PackageManager: cfg.PackageManager,
		Script:         cfg.Script,
		Outputs:        workflow.NewOutputFile(cfg.OutputFile),
		Stdout:         stdout,
		Telemetry:      tel,
		RunnerDebug:    cfg.RunnerDebug,
	}
	if !cfg.SkipInstall {
		orch.Installer = installer.NewPipInstaller(exec, cfg.Requirements, cfg.VendorDir)
	}
	return orch, nil
}
