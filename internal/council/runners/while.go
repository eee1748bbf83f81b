package runners

import (
	"strconv"

	"github.com/chain-ml/council-sub000/internal/council/contexts"
	"github.com/chain-ml/council-sub000/internal/council/messages"
)

// While runs body repeatedly, via fork/merge, for as long as predicate
// returns true and ctx.ShouldStop() is false. The predicate is checked
// before every iteration, including the first.
type While struct {
	predicate Predicate
	body      Runner
	name      string
}

// NewWhile builds a While runner.
func NewWhile(predicate Predicate, body Runner) *While {
	return &While{predicate: predicate, body: body, name: "While"}
}

func (w *While) checkPredicate(ctx *contexts.ChainContext) (bool, error) {
	ok, err := w.predicate(ctx)
	if err != nil {
		ctx.Current().Append(messages.NewSkillErrorMessage(w.name, "predicate raised exception: "+err.Error()))
		return false, &RunnerPredicateError{Runner: w.name, Cause: err}
	}
	return ok, nil
}

func (w *While) Run(ctx *contexts.ChainContext) error {
	return guard(ctx, func() error {
		i := 0
		for {
			if ctx.ShouldStop() {
				return nil
			}
			ok, err := w.checkPredicate(ctx)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			childCtx := ctx.ForkFor(ctx.Monitor().Child(loopChildName(w.name, i), "While.child"), nil)
			err = w.body.Run(childCtx)
			ctx.Merge(childCtx)
			if err != nil {
				return err
			}
			i++
		}
	})
}

// DoWhile runs body once, then repeats for as long as predicate returns
// true. The predicate is checked at the end of the loop, so the body
// always executes at least once.
type DoWhile struct {
	predicate Predicate
	body      Runner
	name      string
}

// NewDoWhile builds a DoWhile runner.
func NewDoWhile(predicate Predicate, body Runner) *DoWhile {
	return &DoWhile{predicate: predicate, body: body, name: "DoWhile"}
}

func (w *DoWhile) checkPredicate(ctx *contexts.ChainContext) (bool, error) {
	ok, err := w.predicate(ctx)
	if err != nil {
		ctx.Current().Append(messages.NewSkillErrorMessage(w.name, "predicate raised exception: "+err.Error()))
		return false, &RunnerPredicateError{Runner: w.name, Cause: err}
	}
	return ok, nil
}

func (w *DoWhile) Run(ctx *contexts.ChainContext) error {
	return guard(ctx, func() error {
		i := 0
		for {
			childCtx := ctx.ForkFor(ctx.Monitor().Child(loopChildName(w.name, i), "DoWhile.child"), nil)
			err := w.body.Run(childCtx)
			ctx.Merge(childCtx)
			if err != nil {
				return err
			}
			if ctx.ShouldStop() {
				return nil
			}
			ok, err := w.checkPredicate(ctx)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			i++
		}
	})
}

func loopChildName(name string, i int) string {
	return name + ".body[" + strconv.Itoa(i) + "]"
}
