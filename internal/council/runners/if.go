package runners

import (
	"github.com/chain-ml/council-sub000/internal/council/contexts"
	"github.com/chain-ml/council-sub000/internal/council/messages"
)

// Predicate evaluates a condition against the current chain context.
type Predicate func(ctx *contexts.ChainContext) (bool, error)

// If evaluates predicate and runs thenRunner when it's true, or
// elseRunner (if provided) when it's false. A predicate error is appended
// as an error Skill message named "If" and surfaces as RunnerPredicateError.
type If struct {
	predicate  Predicate
	thenRunner Runner
	elseRunner Runner
}

// NewIf builds an If with no else branch.
func NewIf(predicate Predicate, thenRunner Runner) *If {
	return &If{predicate: predicate, thenRunner: thenRunner}
}

// WithElse attaches an else branch, run when the predicate is false.
func (r *If) WithElse(elseRunner Runner) *If {
	r.elseRunner = elseRunner
	return r
}

func (r *If) Run(ctx *contexts.ChainContext) error {
	return guard(ctx, func() error {
		ok, err := r.predicate(ctx)
		if err != nil {
			ctx.Current().Append(messages.NewSkillErrorMessage("If", "predicate raised exception: "+err.Error()))
			return &RunnerPredicateError{Runner: "If", Cause: err}
		}

		branch := r.thenRunner
		if !ok {
			branch = r.elseRunner
		}
		if branch == nil {
			return nil
		}

		childCtx := ctx.ForkFor(ctx.Monitor().Child("if.branch", "If.child"), nil)
		branchErr := branch.Run(childCtx)
		ctx.Merge(childCtx)
		return branchErr
	})
}
