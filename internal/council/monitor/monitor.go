// Package monitor implements the monitor tree: every composable component
// (Agent, Controller, Evaluator, Chain, Runner, Skill, LLM wrapper) is
// monitorable, with a stable name, a type tag, and a map of named children.
// Execution recording attaches ExecutionLogEntry instances to nodes of this
// tree, and each node emits a span plus execution-count/duration metrics.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// nodeMetrics holds the counter-plus-histogram instruments shared by
// every node in one monitor tree.
type nodeMetrics struct {
	executions metric.Int64Counter
	duration   metric.Float64Histogram
}

func newNodeMetrics() *nodeMetrics {
	meter := otel.Meter("council")
	executions, _ := meter.Int64Counter("council.node.executions",
		metric.WithDescription("count of monitor node executions by component type"))
	duration, _ := meter.Float64Histogram("council.node.duration_seconds",
		metric.WithDescription("wall time of monitor node executions by component type"))
	return &nodeMetrics{executions: executions, duration: duration}
}

// Node is one entry in the monitor tree. Parents own their children in a
// name-keyed map. Each child also keeps a pointer to its parent, which
// Path walks to build the dotted path from the root.
type Node struct {
	name     string
	typeTag  string
	log      *zerolog.Logger
	tracer   trace.Tracer
	parent   *Node
	mu       sync.Mutex
	children map[string]*Node
	entries  []*Entry
	metrics  *nodeMetrics
}

// Root constructs the root of a monitor tree bound to a base logger.
func Root(name, typeTag string, base zerolog.Logger) *Node {
	child := base.With().Str("component", name).Str("component_type", typeTag).Logger()
	return &Node{
		name:     name,
		typeTag:  typeTag,
		log:      &child,
		tracer:   otel.Tracer("council"),
		children: make(map[string]*Node),
		metrics:  newNodeMetrics(),
	}
}

// Child registers (or returns the existing) named child node.
func (n *Node) Child(name, typeTag string) *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	if existing, ok := n.children[name]; ok {
		return existing
	}
	childLog := n.log.With().Str("component", name).Str("component_type", typeTag).Logger()
	child := &Node{
		name:     name,
		typeTag:  typeTag,
		log:      &childLog,
		tracer:   n.tracer,
		parent:   n,
		children: make(map[string]*Node),
		metrics:  n.metrics,
	}
	n.children[name] = child
	return child
}

// Path returns the dotted path from the root to this node, e.g.
// "agent.chain[research].sequential[0]".
func (n *Node) Path() string {
	if n.parent == nil {
		return n.name
	}
	return n.parent.Path() + "." + n.name
}

func (n *Node) Name() string          { return n.name }
func (n *Node) Type() string          { return n.typeTag }
func (n *Node) Logger() *zerolog.Logger { return n.log }

// Entry is one recorded execution span on a monitor node: a start/end pair
// plus outcome metadata, the monitor-tree analogue of ExecutionLogEntry.
type Entry struct {
	ID        string
	Path      string
	Start     time.Time
	End       time.Time
	Err       error
	Cancelled bool
}

// Duration returns End.Sub(Start); zero if the entry has not ended yet.
func (e *Entry) Duration() time.Duration {
	if e.End.IsZero() {
		return 0
	}
	return e.End.Sub(e.Start)
}

// Begin starts recording an execution scope on this node: an OTel span plus
// a "start running" debug log line. The returned func must be called
// exactly once on every exit path (including panics recovered upstream)
// to close out the span and append the Entry.
func (n *Node) Begin(ctx context.Context) (context.Context, func(err error, cancelled bool)) {
	spanCtx, span := n.tracer.Start(ctx, n.Path())
	span.SetAttributes(attribute.String("council.component", n.name), attribute.String("council.type", n.typeTag))
	entry := &Entry{ID: uuid.NewString(), Path: n.Path(), Start: time.Now()}
	n.log.Debug().Str("entry_id", entry.ID).Msg("start running")

	return spanCtx, func(err error, cancelled bool) {
		entry.End = time.Now()
		entry.Err = err
		entry.Cancelled = cancelled
		n.mu.Lock()
		n.entries = append(n.entries, entry)
		n.mu.Unlock()

		ev := n.log.Debug()
		if err != nil {
			ev = n.log.Error().Err(err)
		}
		ev.Str("entry_id", entry.ID).Dur("duration", entry.Duration()).Bool("cancelled", cancelled).Msg("done running")

		attrs := metric.WithAttributes(attribute.String("council.type", n.typeTag))
		n.metrics.executions.Add(ctx, 1, attrs)
		n.metrics.duration.Record(ctx, entry.Duration().Seconds(), attrs)

		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}
}

// Entries returns a snapshot of the execution log recorded directly on
// this node (not including descendants).
func (n *Node) Entries() []*Entry {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]*Entry, len(n.entries))
	copy(out, n.entries)
	return out
}

// Children returns the names of this node's registered children.
func (n *Node) Children() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.children))
	for name := range n.children {
		out = append(out, name)
	}
	return out
}
