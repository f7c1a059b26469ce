package engine

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a run failed.
type ErrorKind string

const (
	// ErrorKindProvisioning indicates the runtime could not be provided.
	ErrorKindProvisioning ErrorKind = "provisioning"

	// ErrorKindInstall indicates the package manager failed.
	ErrorKindInstall ErrorKind = "install"

	// ErrorKindInput indicates a missing or malformed pipeline input.
	ErrorKindInput ErrorKind = "input"

	// ErrorKindTranslation indicates inputs that cannot be rendered as arguments.
	ErrorKindTranslation ErrorKind = "translation"

	// ErrorKindExecution indicates the script could not run or exited nonzero.
	ErrorKindExecution ErrorKind = "execution"
)

// StepError represents a classified run failure.
// nolint:revive // StepError is intentionally named to distinguish from standard errors
type StepError struct {
	// Kind is the error classification.
	Kind ErrorKind `json:"kind"`

	// Stage is the stage that failed.
	Stage Stage `json:"stage"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Err is the underlying error that caused this error.
	Err error `json:"-"`

	// Details contains additional context-specific information.
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *StepError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Message, e.Err.Error())
}

// Unwrap returns the underlying error for error chain inspection.
func (e *StepError) Unwrap() error {
	return e.Err
}

// Is implements error equality checking for errors.Is.
func (e *StepError) Is(target error) bool {
	t, ok := target.(*StepError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Stage == "" || e.Stage == t.Stage)
}

func newStepError(kind ErrorKind, stage Stage, message string, err error) *StepError {
	return &StepError{
		Kind:    kind,
		Stage:   stage,
		Message: message,
		Err:     err,
	}
}

// NewProvisioningError creates a new provisioning error.
func NewProvisioningError(message string, err error) *StepError {
	return newStepError(ErrorKindProvisioning, StageProvision, message, err)
}

// NewInstallError creates a new install error.
func NewInstallError(message string, err error) *StepError {
	return newStepError(ErrorKindInstall, StageInstall, message, err)
}

// NewInputError creates a new input error.
func NewInputError(message string, err error) *StepError {
	return newStepError(ErrorKindInput, StageTranslate, message, err)
}

// NewTranslationError creates a new translation error.
func NewTranslationError(message string, err error) *StepError {
	return newStepError(ErrorKindTranslation, StageTranslate, message, err)
}

// NewExecutionError creates a new execution error.
func NewExecutionError(message string, err error) *StepError {
	return newStepError(ErrorKindExecution, StageExecute, message, err)
}

// WithDetail adds a detail field to the error context.
func (e *StepError) WithDetail(key string, value interface{}) *StepError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// KindOf returns the classification of err, or "" when it is not a StepError.
func KindOf(err error) ErrorKind {
	var e *StepError
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsProvisioning returns true if the error is classified as provisioning.
func IsProvisioning(err error) bool {
	return KindOf(err) == ErrorKindProvisioning
}

// IsInstall returns true if the error is classified as install.
func IsInstall(err error) bool {
	return KindOf(err) == ErrorKindInstall
}

// IsInput returns true if the error is classified as input.
func IsInput(err error) bool {
	return KindOf(err) == ErrorKindInput
}

// IsTranslation returns true if the error is classified as translation.
func IsTranslation(err error) bool {
	return KindOf(err) == ErrorKindTranslation
}

// IsExecution returns true if the error is classified as execution.
func IsExecution(err error) bool {
	return KindOf(err) == ErrorKindExecution
}
