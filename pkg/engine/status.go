package engine

// RunStatus represents the overall status of a run.
type RunStatus string

const (
	// RunStatusPending indicates the run has not started.
	RunStatusPending RunStatus = "pending"

	// RunStatusRunning indicates the run is executing its stages.
	RunStatusRunning RunStatus = "running"

	// RunStatusSucceeded indicates every stage completed.
	RunStatusSucceeded RunStatus = "succeeded"

	// RunStatusFailed indicates a stage failed and the run stopped.
	RunStatusFailed RunStatus = "failed"
)

// Stage names one step of the fixed run sequence.
type Stage string

const (
	// StageProvision resolves the language runtime.
	StageProvision Stage = "provision"

	// StageInstall installs the vendored dependencies.
	StageInstall Stage = "install"

	// StageTranslate reads the inputs and builds the argument vector.
	StageTranslate Stage = "translate"

	// StageExecute runs the icon script.
	StageExecute Stage = "execute"
)

// Stages returns every stage in execution order.
func Stages() []Stage {
	return []Stage{StageProvision, StageInstall, StageTranslate, StageExecute}
}

// StageStatus is the outcome of a single stage.
type StageStatus string

const (
	// StageStatusSucceeded indicates the stage completed.
	StageStatusSucceeded StageStatus = "succeeded"

	// StageStatusFailed indicates the stage failed.
	StageStatusFailed StageStatus = "failed"

	// StageStatusSkipped indicates the stage was disabled by configuration.
	StageStatusSkipped StageStatus = "skipped"
)
