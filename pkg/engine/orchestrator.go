package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/badgesort/badgesort-action/pkg/executor"
	"github.com/badgesort/badgesort-action/pkg/inputs"
	"github.com/badgesort/badgesort-action/pkg/installer"
	"github.com/badgesort/badgesort-action/pkg/runtime"
	"github.com/badgesort/badgesort-action/pkg/telemetry"
	"github.com/badgesort/badgesort-action/pkg/translate"
	"github.com/badgesort/badgesort-action/pkg/workflow"
)

// BadgesOutput is the step output that receives the script's stdout when no
// output file input was given.
const BadgesOutput = "badges"

// Orchestrator runs the stages of one step invocation.
type Orchestrator struct {
	Provisioner Provisioner

	// Installer installs dependencies. Nil skips the install stage.
	Installer Installer

	Inputs     InputSource
	Translator translate.Translator
	Executor   executor.Executor

	// Interpreter runs Script, e.g. "python".
	Interpreter string

	// PackageManager is handed to the Installer, e.g. "pip".
	PackageManager string

	// Script is the icon script path.
	Script string

	// Outputs receives the badges output. Nil disables capture.
	Outputs *workflow.OutputFile

	// Stdout receives the script's stdout while it is being captured.
	// Defaults to os.Stdout.
	Stdout io.Writer

	// Telemetry instruments the run. Defaults to a no-op instance.
	Telemetry *telemetry.Telemetry

	// RunnerDebug writes the resolved inputs and arguments as ::debug::
	// lines to Stdout.
	RunnerDebug bool
}

// StageResult is the outcome of one stage.
type StageResult struct {
	Stage    Stage         `json:"stage"`
	Status   StageStatus   `json:"status"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// Run records one invocation of the step.
type Run struct {
	ID          string                  `json:"id"`
	Status      RunStatus               `json:"status"`
	Schema      translate.SchemaVersion `json:"schema"`
	StartedAt   time.Time               `json:"started_at"`
	CompletedAt time.Time               `json:"completed_at"`

	Installation *runtime.Installation    `json:"-"`
	Inputs       inputs.PipelineInputs    `json:"-"`
	Args         translate.ArgumentVector `json:"args,omitempty"`
	Stages       []StageResult            `json:"stages"`
	Err          error                    `json:"-"`
}

// Duration returns how long the run took.
func (r *Run) Duration() time.Duration {
	if r.CompletedAt.IsZero() {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// Validate checks that every collaborator the run needs is set.
func (o *Orchestrator) Validate() error {
	var missing []string
	if o.Provisioner == nil {
		missing = append(missing, "provisioner")
	}
	if o.Inputs == nil {
		missing = append(missing, "inputs")
	}
	if o.Translator == nil {
		missing = append(missing, "translator")
	}
	if o.Executor == nil {
		missing = append(missing, "executor")
	}
	if o.Interpreter == "" {
		missing = append(missing, "interpreter")
	}
	if o.Script == "" {
		missing = append(missing, "script")
	}
	if len(missing) > 0 {
		return fmt.Errorf("orchestrator is missing: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Translate reads the pipeline inputs and renders them as script arguments.
func (o *Orchestrator) Translate() (inputs.PipelineInputs, translate.ArgumentVector, error) {
	in, err := o.Inputs.Read()
	if err != nil {
		return in, nil, NewInputError("failed to read inputs", err)
	}

	args, err := o.Translator.Translate(in)
	if err != nil {
		return in, nil, NewTranslationError("failed to translate inputs", err)
	}
	return in, args, nil
}

// Execute performs the run. The returned Run is never nil; on failure its
// Err is the same *StepError that is returned.
func (o *Orchestrator) Execute(ctx context.Context) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Status:    RunStatusPending,
		StartedAt: time.Now(),
	}
	if err := o.Validate(); err != nil {
		return o.fail(run, nil, NewExecutionError("invalid run setup", err))
	}
	run.Schema = o.Translator.Schema()

	tel := o.telemetry()
	logger := tel.Logger.WithRunID(run.ID)
	ctx, span := tel.Tracer.StartRunSpan(tel.WithContext(ctx), run.ID, string(run.Schema))
	defer span.End()

	tel.Events.PublishRunStarted(run.ID, string(run.Schema))
	logger.WithField("schema", run.Schema).Info("run started")
	if run.Schema.IsDeprecated() {
		msg := fmt.Sprintf("argument schema %s is deprecated, switch to %s", run.Schema, translate.DefaultSchema)
		logger.Warn(msg)
		if err := workflow.Warning(o.stdout(), msg); err != nil {
			logger.WithError(err).Debug("failed to write warning")
		}
	}

	run.Status = RunStatusRunning
	if err := o.runStages(ctx, run, tel); err != nil {
		telemetry.RecordFailure(span, err, string(KindOf(err)))
		return o.fail(run, tel, err)
	}

	run.Status = RunStatusSucceeded
	run.CompletedAt = time.Now()
	telemetry.RecordSuccess(span)
	tel.Metrics.RecordRunCompleted(string(run.Status), run.Duration())
	tel.Events.PublishRunCompleted(run.ID, run.Duration())
	logger.Infof("run completed in %s", run.Duration())
	return run, nil
}

func (o *Orchestrator) runStages(ctx context.Context, run *Run, tel *telemetry.Telemetry) error {
	for _, stage := range Stages() {
		if err := ctx.Err(); err != nil {
			return newStepError(stageKind(stage), stage, "run cancelled before "+string(stage), err)
		}

		if stage == StageInstall && o.Installer == nil {
			tel.Logger.WithRunID(run.ID).WithStage(string(stage)).Info("dependency installation skipped")
			run.Stages = append(run.Stages, StageResult{Stage: stage, Status: StageStatusSkipped})
			continue
		}

		scope := tel.StartStage(ctx, run.ID, string(stage))
		err := o.stageFunc(stage)(scope.Ctx, run)
		scope.End(err)

		result := StageResult{Stage: stage, Status: StageStatusSucceeded, Duration: scope.Duration()}
		if err != nil {
			result.Status = StageStatusFailed
			result.Err = err
		}
		run.Stages = append(run.Stages, result)

		if err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) stageFunc(stage Stage) func(context.Context, *Run) error {
	switch stage {
	case StageProvision:
		return o.provision
	case StageInstall:
		return o.install
	case StageTranslate:
		return o.translate
	default:
		return o.execute
	}
}

func (o *Orchestrator) provision(ctx context.Context, run *Run) error {
	inst, err := o.Provisioner.Provision(ctx)
	if err != nil {
		return NewProvisioningError("failed to provision runtime", err)
	}
	run.Installation = inst
	return nil
}

func (o *Orchestrator) install(ctx context.Context, run *Run) error {
	opts := installer.Options{Env: run.Installation.Env()}
	if o.PackageManager != "" {
		opts.Program = run.Installation.LookPath(o.PackageManager)
	}
	if err := o.Installer.Install(ctx, opts); err != nil {
		return NewInstallError("failed to install dependencies", err)
	}
	return nil
}

func (o *Orchestrator) translate(ctx context.Context, run *Run) error {
	in, args, err := o.Translate()
	run.Inputs = in
	if err != nil {
		return err
	}
	run.Args = args

	logger := telemetry.FromContext(ctx)
	logger.WithFields(describeInputs(in)).Debug("resolved inputs")
	logger.WithField("argv", strings.Join(args, " ")).Debugf("translated %d arguments", len(args))
	o.telemetry().Metrics.SetArgumentCount(len(args))

	if o.RunnerDebug {
		out := o.stdout()
		for _, line := range []string{
			fmt.Sprintf("inputs: %v", describeInputs(in)),
			fmt.Sprintf("argv: %q", []string(args)),
		} {
			if err := workflow.Debug(out, line); err != nil {
				logger.WithError(err).Debug("failed to write debug line")
			}
		}
	}
	return nil
}

func (o *Orchestrator) execute(ctx context.Context, run *Run) error {
	cmd := &executor.Command{
		Name: run.Installation.LookPath(o.Interpreter),
		Args: append([]string{o.Script}, run.Args...),
		Env:  run.Installation.Env(),
	}

	var captured bytes.Buffer
	capture := o.Outputs != nil && !run.Inputs.Output.IsPresent()
	if capture {
		cmd.Stdout = io.MultiWriter(o.stdout(), &captured)
	}

	if _, err := o.Executor.Run(ctx, cmd); err != nil {
		stepErr := NewExecutionError("icon script failed", err)
		var execErr *executor.ExecutionError
		if errors.As(err, &execErr) {
			stepErr.WithDetail("exit_code", execErr.ExitCode)
		}
		return stepErr
	}

	if capture {
		badges := strings.TrimSpace(captured.String())
		if badges == "" {
			return nil
		}
		if err := o.Outputs.Set(BadgesOutput, badges); err != nil {
			telemetry.FromContext(ctx).WithError(err).Warn("failed to write badges output")
		}
	}
	return nil
}

func (o *Orchestrator) fail(run *Run, tel *telemetry.Telemetry, err error) (*Run, error) {
	run.Status = RunStatusFailed
	run.CompletedAt = time.Now()
	run.Err = err

	if tel != nil {
		tel.Metrics.RecordError(string(KindOf(err)))
		tel.Metrics.RecordRunCompleted(string(run.Status), run.Duration())
		tel.Events.PublishRunFailed(run.ID, err.Error())
		tel.Logger.WithRunID(run.ID).WithError(err).Debug("run failed")
	}
	return run, err
}

func (o *Orchestrator) telemetry() *telemetry.Telemetry {
	if o.Telemetry == nil {
		o.Telemetry = telemetry.NewNoop()
	}
	return o.Telemetry
}

func (o *Orchestrator) stdout() io.Writer {
	if o.Stdout != nil {
		return o.Stdout
	}
	return os.Stdout
}

func stageKind(stage Stage) ErrorKind {
	switch stage {
	case StageProvision:
		return ErrorKindProvisioning
	case StageInstall:
		return ErrorKindInstall
	case StageTranslate:
		return ErrorKindTranslation
	default:
		return ErrorKindExecution
	}
}

func describeInputs(in inputs.PipelineInputs) map[string]interface{} {
	return map[string]interface{}{
		"slugs":  in.Slugs.OrZero(),
		"format": in.Format,
		"output": in.Output.OrZero(),
		"id":     in.ID,
		"sort":   in.Sort,
		"random": in.Random,
		"style":  in.Style.OrZero(),
		"verify": in.Verify,
	}
}
