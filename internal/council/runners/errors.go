// Package runners implements the composable runner tree — Sequential,
// Parallel, If, While, DoWhile, ParallelFor — and the RunnerBase
// execution discipline (stop-check, log scope, timeout/error wrapping,
// cancellation).
package runners

import (
	"errors"
	"fmt"
)

// RunnerError is the generic wrapper raised when a runner's body fails for
// a reason that isn't one of the more specific kinds below. It preserves
// the original cause for errors.Is/errors.As.
type RunnerError struct {
	Component string
	Cause     error
}

func (e *RunnerError) Error() string {
	return fmt.Sprintf("an unexpected error occurred in %s: %v", e.Component, e.Cause)
}

func (e *RunnerError) Unwrap() error { return e.Cause }

// RunnerTimeoutError is raised when a runner's wait on a suspension point
// (a skill, a Parallel/ParallelFor batch) exceeds the budget's remaining
// duration.
type RunnerTimeoutError struct {
	Component string
	Cause     error
}

func (e *RunnerTimeoutError) Error() string { return fmt.Sprintf("timeout running %s", e.Component) }
func (e *RunnerTimeoutError) Unwrap() error { return e.Cause }

// RunnerSkillError wraps the error returned by a skill's execute. Panics
// are not recovered.
type RunnerSkillError struct {
	Skill string
	Cause error
}

func (e *RunnerSkillError) Error() string {
	return fmt.Sprintf("skill '%s' raised exception: %v", e.Skill, e.Cause)
}
func (e *RunnerSkillError) Unwrap() error { return e.Cause }

// RunnerPredicateError wraps the error returned by an If/While/DoWhile
// predicate.
type RunnerPredicateError struct {
	Runner string
	Cause  error
}

func (e *RunnerPredicateError) Error() string {
	return fmt.Sprintf("%s predicate raised exception: %v", e.Runner, e.Cause)
}
func (e *RunnerPredicateError) Unwrap() error { return e.Cause }

// RunnerGeneratorError wraps the error returned by a ParallelFor
// generator.
type RunnerGeneratorError struct {
	Cause error
}

func (e *RunnerGeneratorError) Error() string {
	return fmt.Sprintf("generator raised exception: %v", e.Cause)
}
func (e *RunnerGeneratorError) Unwrap() error { return e.Cause }

// isRunnerError reports whether err is already one of this package's
// typed errors, in which case guard() rethrows it unchanged instead of
// wrapping it again in a generic RunnerError.
func isRunnerError(err error) bool {
	var re *RunnerError
	var rt *RunnerTimeoutError
	var rs *RunnerSkillError
	var rp *RunnerPredicateError
	var rg *RunnerGeneratorError
	return errors.As(err, &re) || errors.As(err, &rt) || errors.As(err, &rs) ||
		errors.As(err, &rp) || errors.As(err, &rg)
}
