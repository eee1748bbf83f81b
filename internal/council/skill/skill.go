// Package skill implements the leaf runner contract: a Skill is
// user-provided code that produces exactly one ChatMessage given a
// SkillContext.
package skill

import (
	"context"
	"fmt"
	"time"

	"github.com/chain-ml/council-sub000/internal/council/contexts"
	"github.com/chain-ml/council-sub000/internal/council/messages"
	"github.com/chain-ml/council-sub000/internal/council/monitor"
	"github.com/chain-ml/council-sub000/internal/council/runners"
)

// Func is the contract a skill author implements: produce exactly one
// ChatMessage from the current context, or return an error.
type Func func(ctx *contexts.SkillContext) (messages.ChatMessage, error)

// Skill adapts a Func into a Runner (for use anywhere in the runner tree)
// and into an IterationRunner (for use as a ParallelFor body).
type Skill struct {
	name string
	fn   Func
}

// New names fn as a Skill. name becomes the Source of every message the
// skill produces, including its error message on failure.
func New(name string, fn Func) *Skill {
	return &Skill{name: name, fn: fn}
}

func (s *Skill) Name() string { return s.name }

// Run implements runners.Runner: run fn on its own goroutine and await
// completion bounded by the context's remaining budget duration.
func (s *Skill) Run(ctx *contexts.ChainContext) error {
	return s.runWithMonitor(ctx, ctx.Monitor(), nil)
}

// RunIteration implements runners.IterationRunner: called by ParallelFor
// once per generated item, with the iteration's own forked ChainContext
// and IterationContext.
func (s *Skill) RunIteration(ctx *contexts.ChainContext, iter *contexts.IterationContext) error {
	childMonitor := ctx.Monitor().Child(fmt.Sprintf("skill[%s].iteration[%d]", s.name, iter.Index()), "Skill.iteration")
	return s.runWithMonitor(ctx, childMonitor, iter)
}

func (s *Skill) runWithMonitor(ctx *contexts.ChainContext, m *monitor.Node, iter *contexts.IterationContext) error {
	if ctx.ShouldStop() {
		return nil
	}

	_, end := m.Begin(context.Background())
	err := s.executeBounded(ctx, iter)
	cancelled := false
	if err != nil {
		ctx.CancellationToken().Cancel()
		cancelled = true
	}
	end(err, cancelled)
	return err
}

// executeBounded runs fn on its own goroutine and awaits it with a
// timeout equal to the context's remaining budget duration. On success it
// appends the one returned message, unless the context should stop by
// then; on failure it appends an error-kind message and returns a
// RunnerSkillError; on timeout it appends nothing and returns a
// RunnerTimeoutError.
func (s *Skill) executeBounded(ctx *contexts.ChainContext, iter *contexts.IterationContext) error {
	type outcome struct {
		msg messages.ChatMessage
		err error
	}
	done := make(chan outcome, 1)

	go func() {
		skillCtx := contexts.NewSkillContext(ctx, iter)
		msg, err := s.fn(skillCtx)
		done <- outcome{msg: msg, err: err}
	}()

	select {
	case o := <-done:
		if o.err != nil {
			ctx.Current().Append(messages.NewSkillErrorMessage(s.name, fmt.Sprintf("skill '%s' raised exception: %v", s.name, o.err)))
			return &runners.RunnerSkillError{Skill: s.name, Cause: o.err}
		}
		if !ctx.ShouldStop() {
			ctx.Current().Append(o.msg)
		}
		return nil
	case <-time.After(ctx.Budget().RemainingDuration()):
		return &runners.RunnerTimeoutError{Component: fmt.Sprintf("skill[%s]", s.name), Cause: context.DeadlineExceeded}
	}
}
