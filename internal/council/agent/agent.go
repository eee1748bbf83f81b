// Package agent implements the agent control loop: on each iteration the
// controller plans a set of ExecutionUnits, same-rank units run
// concurrently, an evaluator scores the results, and a filter selects
// the final subset.
package agent

import (
	"context"
	"fmt"

	"github.com/chain-ml/council-sub000/internal/council/budget"
	"github.com/chain-ml/council-sub000/internal/council/contexts"
	"github.com/chain-ml/council-sub000/internal/council/controller"
	"github.com/chain-ml/council-sub000/internal/council/evaluator"
	"github.com/chain-ml/council-sub000/internal/council/filter"
	"github.com/chain-ml/council-sub000/internal/council/messages"
	"github.com/chain-ml/council-sub000/internal/council/monitor"
	"golang.org/x/sync/errgroup"
)

// Result is what Execute returns: the selected scored messages for the
// iteration that terminated the loop, or an empty Result if the loop ran
// out of budget, the controller produced an empty plan, or nothing was
// ever selected.
type Result struct {
	Messages []messages.ScoredChatMessage
}

// Best returns the highest-scored message, if any.
func (r Result) Best() (messages.ScoredChatMessage, bool) {
	if len(r.Messages) == 0 {
		return messages.ScoredChatMessage{}, false
	}
	best := r.Messages[0]
	for _, m := range r.Messages[1:] {
		if m.Score > best.Score {
			best = m
		}
	}
	return best, true
}

// Agent owns a Controller and a registered list of Chains; each
// iteration it plans, executes, evaluates, and filters until a
// selection is made or the budget runs out.
type Agent struct {
	Controller controller.Controller
	Chains     []controller.Chain
	Evaluator  evaluator.Evaluator
	Filter     filter.Filter
	Monitor    *monitor.Node
}

// New builds an Agent.
func New(c controller.Controller, chains []controller.Chain, e evaluator.Evaluator, f filter.Filter, m *monitor.Node) *Agent {
	return &Agent{Controller: c, Chains: chains, Evaluator: e, Filter: f, Monitor: m}
}

func (a *Agent) chainNames() []string {
	names := make([]string, len(a.Chains))
	for i, c := range a.Chains {
		names[i] = c.Name
	}
	return names
}

func (a *Agent) findChain(name string) (controller.Chain, bool) {
	for _, c := range a.Chains {
		if c.Name == name {
			return c, true
		}
	}
	return controller.Chain{}, false
}

// Execute runs the agent loop until a non-empty selection is produced or
// b expires.
func (a *Agent) Execute(agentCtx *contexts.AgentContext, b *budget.Budget) (Result, error) {
	for !b.IsExpired() {
		iteration := agentCtx.NewIteration()

		controllerCtx := agentCtx.ForkForController(a.Monitor.Child(fmt.Sprintf("iteration[%d].controller", iteration), "Controller"))
		plan, err := a.Controller.Execute(controllerCtx, a.Chains)
		if err != nil {
			return Result{}, err
		}
		if len(plan) == 0 {
			return Result{}, nil
		}

		for _, group := range controller.Grouped(plan) {
			if err := a.runGroup(agentCtx, group, iteration); err != nil {
				return Result{}, err
			}
		}

		evalCtx := agentCtx.ForkForEvaluator(a.Monitor.Child(fmt.Sprintf("iteration[%d].evaluator", iteration), "Evaluator"), b)
		scored, err := a.Evaluator.Execute(evalCtx, b, a.chainNames(), agentCtx)
		if err != nil {
			return Result{}, err
		}
		agentCtx.SetEvaluation(scored)

		selected, err := a.Filter.Execute(evalCtx, scored)
		if err != nil {
			return Result{}, err
		}
		if len(selected) > 0 {
			return Result{Messages: selected}, nil
		}
	}
	return Result{}, nil
}

func (a *Agent) runGroup(agentCtx *contexts.AgentContext, group []controller.ExecutionUnit, iteration int) error {
	g, _ := errgroup.WithContext(context.Background())
	for _, unit := range group {
		unit := unit
		g.Go(func() error {
			chain, ok := a.findChain(unit.ChainName)
			if !ok {
				return fmt.Errorf("agent: no registered chain named %q", unit.ChainName)
			}
			childMonitor := a.Monitor.Child(fmt.Sprintf("iteration[%d].chain[%s]", iteration, unit.ChainName), "Chain")
			chainCtx := agentCtx.NewChainContext(unit.ChainName, unit.Budget, childMonitor)
			if unit.InitialState != nil {
				chainCtx.Current().Append(*unit.InitialState)
			}
			return chain.Runner.Run(chainCtx)
		})
	}
	return g.Wait()
}
