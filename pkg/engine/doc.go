// Package engine drives one run of the badge step.
//
// A run is a fixed sequence of stages:
//
//	provision -> install -> translate -> execute
//
// Each stage starts only after the previous one succeeded, and no two stages
// overlap. The first failure stops the run and is returned to the caller as
// a *StepError classifying what went wrong; reporting it to the pipeline is
// left to the caller.
package engine
