package runners

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	budgetpkg "github.com/chain-ml/council-sub000/internal/council/budget"
	"github.com/chain-ml/council-sub000/internal/council/contexts"
	"github.com/chain-ml/council-sub000/internal/council/messages"
	"github.com/chain-ml/council-sub000/internal/council/monitor"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMonitor(name string) *monitor.Node {
	return monitor.Root(name, "Test", zerolog.Nop())
}

// fakeSkill is a minimal leaf Runner used to exercise the composite
// runners without depending on the skill package (which itself depends on
// this one).
type fakeSkill struct {
	name  string
	delay time.Duration
	fail  bool
}

func (f *fakeSkill) Run(ctx *contexts.ChainContext) error {
	if ctx.ShouldStop() {
		return nil
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.fail {
		ctx.Current().Append(messages.NewSkillErrorMessage(f.name, "boom"))
		return &RunnerSkillError{Skill: f.name, Cause: errors.New("boom")}
	}
	ctx.Current().Append(messages.NewSkillMessage(f.name, nil, f.name, false))
	return nil
}

func TestSequential_S1(t *testing.T) {
	b := budgetpkg.New(time.Second)
	root := contexts.NewRootChainContext(nil, b, testMonitor("root"))

	seq := NewSequential(&fakeSkill{name: "A"}, &fakeSkill{name: "B"})
	err := seq.Run(root)
	require.NoError(t, err)

	msgs := root.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "A", msgs[0].Content())
	assert.Equal(t, "B", msgs[1].Content())
	assert.False(t, root.CancellationToken().Cancelled())
}

func TestParallel_S2_FailurePropagatesAndCancels(t *testing.T) {
	b := budgetpkg.New(time.Second)
	root := contexts.NewRootChainContext(nil, b, testMonitor("root"))

	par := NewParallel(
		&fakeSkill{name: "first", delay: 50 * time.Millisecond},
		&fakeSkill{name: "second", fail: true},
		&fakeSkill{name: "third", delay: 10 * time.Millisecond},
	)
	err := par.Run(root)

	require.Error(t, err)
	var skillErr *RunnerSkillError
	assert.True(t, errors.As(err, &skillErr))
	assert.True(t, root.CancellationToken().Cancelled())
}

func TestDoWhile_S3_StopsWhenBudgetExhausted(t *testing.T) {
	b := budgetpkg.New(time.Minute).WithLimit("unit", "retry", 10)
	root := contexts.NewRootChainContext(nil, b, testMonitor("root"))

	count := 0
	body := RunnerFunc(func(ctx *contexts.ChainContext) error {
		count++
		ctx.Current().Append(messages.NewSkillMessage(fmt.Sprintf("iter-%d", count), nil, "counter", false))
		ctx.Budget().AddConsumption(1, "unit", "retry")
		return nil
	})
	predicate := func(ctx *contexts.ChainContext) (bool, error) {
		return !ctx.Budget().IsExpired(), nil
	}

	dw := NewDoWhile(predicate, body)
	err := dw.Run(root)
	require.NoError(t, err)

	assert.Len(t, root.Messages(), 11)
}

func TestWhile_ChecksPredicateBeforeFirstRun(t *testing.T) {
	b := budgetpkg.New(time.Minute)
	root := contexts.NewRootChainContext(nil, b, testMonitor("root"))

	ran := false
	body := RunnerFunc(func(ctx *contexts.ChainContext) error {
		ran = true
		return nil
	})
	w := NewWhile(func(ctx *contexts.ChainContext) (bool, error) { return false, nil }, body)
	err := w.Run(root)
	require.NoError(t, err)
	assert.False(t, ran)
}

func TestIf_PredicateErrorAppendsMessageAndRaises(t *testing.T) {
	b := budgetpkg.New(time.Minute)
	root := contexts.NewRootChainContext(nil, b, testMonitor("root"))

	boom := errors.New("predicate boom")
	ifRunner := NewIf(func(ctx *contexts.ChainContext) (bool, error) { return false, boom }, &fakeSkill{name: "then"})
	err := ifRunner.Run(root)

	require.Error(t, err)
	var predErr *RunnerPredicateError
	require.True(t, errors.As(err, &predErr))
	assert.ErrorIs(t, err, boom)

	msgs := root.Messages()
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].IsError())
}

// fakeIterationSkill implements IterationRunner for ParallelFor tests.
type fakeIterationSkill struct {
	mu      sync.Mutex
	seen    []int
	failOn  int
}

func (f *fakeIterationSkill) RunIteration(ctx *contexts.ChainContext, iter *contexts.IterationContext) error {
	f.mu.Lock()
	f.seen = append(f.seen, iter.Index())
	f.mu.Unlock()

	if iter.Index() == f.failOn {
		return &RunnerSkillError{Skill: "iterationSkill", Cause: errors.New("boom")}
	}
	ctx.Current().Append(messages.NewSkillMessage(fmt.Sprintf("item-%d", iter.Index()), iter.Value(), "iterationSkill", false))
	return nil
}

func TestParallelFor_S4_CoversAllIndicesInSubmissionOrder(t *testing.T) {
	b := budgetpkg.New(time.Second)
	root := contexts.NewRootChainContext(nil, b, testMonitor("root"))

	gen := func(ctx *contexts.ChainContext) ([]any, error) {
		return []any{"a", "b", "c", "d", "e"}, nil
	}
	fs := &fakeIterationSkill{failOn: -1}
	pf := NewParallelFor(gen, fs, 2)

	err := pf.Run(root)
	require.NoError(t, err)

	msgs := root.Messages()
	require.Len(t, msgs, 5)
	for i, m := range msgs {
		assert.Equal(t, fmt.Sprintf("item-%d", i), m.Content())
	}
}

func TestParallelFor_GeneratorErrorSurfacesAsRunnerGeneratorError(t *testing.T) {
	b := budgetpkg.New(time.Second)
	root := contexts.NewRootChainContext(nil, b, testMonitor("root"))

	boom := errors.New("generator boom")
	gen := func(ctx *contexts.ChainContext) ([]any, error) { return nil, boom }
	pf := NewParallelFor(gen, &fakeIterationSkill{}, 2)

	err := pf.Run(root)
	require.Error(t, err)
	var genErr *RunnerGeneratorError
	assert.True(t, errors.As(err, &genErr))
}
