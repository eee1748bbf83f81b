package contexts

// IterationContext carries the loop index and current value into a skill
// running as part of a ParallelFor batch.
type IterationContext struct {
	index int
	value any
}

// NewIterationContext builds an IterationContext for generator item
// (index, value).
func NewIterationContext(index int, value any) *IterationContext {
	return &IterationContext{index: index, value: value}
}

func (i *IterationContext) Index() int { return i.index }
func (i *IterationContext) Value() any { return i.value }

// SkillContext is a ChainContext specialized with an optional
// IterationContext, present only when the skill runs as one iteration of
// a ParallelFor. A skill running outside of ParallelFor sees a nil
// iteration.
type SkillContext struct {
	*ChainContext
	iteration *IterationContext
}

// NewSkillContext wraps chainCtx with the given iteration (nil when the
// skill is not running inside a ParallelFor).
func NewSkillContext(chainCtx *ChainContext, iteration *IterationContext) *SkillContext {
	return &SkillContext{ChainContext: chainCtx, iteration: iteration}
}

// Iteration returns the iteration context and whether one is present.
func (s *SkillContext) Iteration() (*IterationContext, bool) {
	return s.iteration, s.iteration != nil
}
