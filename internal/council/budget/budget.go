// Package budget implements the engine's time deadline and
// multi-dimensional resource ledger.
package budget

import (
	"sync"
	"time"
)

// Consumption is a single typed unit of resource usage, e.g.
// {Value: 1, Unit: "call", Kind: "llm"} or {Value: 820, Unit: "token", Kind: "prompt_tokens"}.
type Consumption struct {
	Value float64
	Unit  string
	Kind  string
}

// Event is a recorded consumption, stamped with the time it was added.
type Event struct {
	Consumption
	At time.Time
}

// limit tracks a remaining amount for one {unit, kind} pair.
type limit struct {
	unit      string
	kind      string
	remaining float64
}

// Budget represents the resources available for one execution: a monotonic
// deadline plus an append-only ledger of remaining consumption limits.
//
// A Budget created via Remaining shares the parent's consumption log (by
// reference) so consumption events recorded by any descendant are
// visible to the whole tree.
type Budget struct {
	duration time.Duration
	deadline time.Time

	mu     *sync.Mutex
	limits []*limit
	log    *[]Event
}

// New creates a Budget with the given duration and no consumption limits.
func New(duration time.Duration) *Budget {
	log := make([]Event, 0)
	return &Budget{
		duration: duration,
		deadline: time.Now().Add(duration),
		mu:       &sync.Mutex{},
		limits:   nil,
		log:      &log,
	}
}

// WithLimit attaches a consumption limit {unit, kind, value} and returns the
// same Budget for chaining construction.
func (b *Budget) WithLimit(unit, kind string, value float64) *Budget {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.limits = append(b.limits, &limit{unit: unit, kind: kind, remaining: value})
	return b
}

// Duration returns the budget's original duration.
func (b *Budget) Duration() time.Duration { return b.duration }

// RemainingDuration returns the time left until the deadline. Never negative.
func (b *Budget) RemainingDuration() time.Duration {
	d := time.Until(b.deadline)
	if d < 0 {
		return 0
	}
	return d
}

// Deadline returns the monotonic instant this budget expires.
func (b *Budget) Deadline() time.Time { return b.deadline }

// IsExpired reports whether the deadline has passed, or any remaining
// consumption limit has reached zero or below.
func (b *Budget) IsExpired() bool {
	if !time.Now().Before(b.deadline) {
		return true
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, l := range b.limits {
		if l.remaining <= 0 {
			return true
		}
	}
	return false
}

// CanConsume reports whether the matching limit (if any) has at least v
// remaining. A Consumption with no matching limit is always consumable.
func (b *Budget) CanConsume(v float64, unit, kind string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, l := range b.limits {
		if l.unit == unit && l.kind == kind {
			return l.remaining >= v
		}
	}
	return true
}

// AddConsumption decrements any matching limit and appends an event to the
// shared consumption log. Remaining values are monotonically non-increasing.
func (b *Budget) AddConsumption(v float64, unit, kind string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, l := range b.limits {
		if l.unit == unit && l.kind == kind {
			l.remaining -= v
		}
	}
	*b.log = append(*b.log, Event{Consumption: Consumption{Value: v, Unit: unit, Kind: kind}, At: time.Now()})
}

// AddConsumptions records a batch of consumptions in order.
func (b *Budget) AddConsumptions(cs []Consumption) {
	for _, c := range cs {
		b.AddConsumption(c.Value, c.Unit, c.Kind)
	}
}

// ConsumptionLog returns a snapshot of all consumption events recorded
// against this budget or any budget it was derived from.
func (b *Budget) ConsumptionLog() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Event, len(*b.log))
	copy(out, *b.log)
	return out
}

// Remaining returns a new Budget inheriting this budget's deadline and
// limits (a snapshot of current remaining values, independently
// decremented from here on) while continuing to append to the same
// consumption log: children observe the same deadline as their parent
// and contribute to one shared accounting trail.
func (b *Budget) Remaining() *Budget {
	b.mu.Lock()
	defer b.mu.Unlock()
	newLimits := make([]*limit, len(b.limits))
	for i, l := range b.limits {
		newLimits[i] = &limit{unit: l.unit, kind: l.kind, remaining: l.remaining}
	}
	return &Budget{
		duration: time.Until(b.deadline),
		deadline: b.deadline,
		mu:       &sync.Mutex{},
		limits:   newLimits,
		log:      b.log,
	}
}

// Infinite returns a Budget that never expires and has no consumption
// limits.
func Infinite() *Budget {
	log := make([]Event, 0)
	return &Budget{
		duration: infiniteDuration,
		deadline: time.Now().Add(infiniteDuration),
		mu:       &sync.Mutex{},
		log:      &log,
	}
}

const infiniteDuration = 10000 * time.Hour
