// Package render turns a node tree into text for a target dialect.
//
// A pass walks the tree children first. Every node is resolved by the render
// rule registered for its kind and the active dialect; the rule sees the
// already resolved values of the node's children. Results are memoized per
// pass, keyed by node ID.
package render

import (
	"errors"

	"go.uber.org/zap"

	"github.com/chriserin/ftgen/internal/nodes"
	"github.com/chriserin/ftgen/internal/walker"
)

// Config is the read-only configuration of a render pass.
type Config struct {
	// Dialect selects the rule set.
	Dialect string
	// Only restricts the emitted artifacts to one section, e.g.
	// "step_definitions". Empty renders everything. Filtering is done by
	// the Registry.
	Only string
	// Options are dialect specific and passed through to rules.
	Options  map[string]any
	Registry Registry
}

// Option returns the named dialect option, or "" when unset.
func (c *Config) Option(name string) any {
	if c == nil || c.Options == nil {
		return ""
	}
	if v, ok := c.Options[name]; ok {
		return v
	}
	return ""
}

// Context is what a rule receives for one node.
type Context struct {
	Node *nodes.Node
	// Rendered maps each slot name to the slot's resolved value, plus the
	// extra entries added by the kind's preprocessor.
	Rendered map[string]any
	Config   *Config
	// Vars holds the fields computed for this kind. Never nil.
	Vars map[string]any
}

// Rule produces the resolved value of a node.
type Rule interface {
	Render(ctx *Context) (any, error)
}

// RuleFunc adapts a function to Rule.
type RuleFunc func(ctx *Context) (any, error)

func (f RuleFunc) Render(ctx *Context) (any, error) { return f(ctx) }

// Registry finds the rule for a node kind in a dialect. Lookups must be pure
// and safe for concurrent use.
type Registry interface {
	Lookup(kind nodes.Kind, dialect string) (Rule, bool)
}

// ErrNoRegistry is returned when a pass has no rule registry to render with.
var ErrNoRegistry = errors.New("render: config has no registry")

// Render resolves root with a fresh Renderer and returns its value.
func Render(root nodes.Value, cfg *Config) (any, error) {
	r := New(cfg)
	if err := r.Walk(root); err != nil {
		return nil, err
	}
	return r.Resolve(root), nil
}

// Renderer holds the memo table of one render pass. It is not safe for
// concurrent use; run one Renderer per pass.
type Renderer struct {
	cfg      *Config
	rendered map[nodes.ID]any
	log      *zap.Logger
}

// New returns a Renderer bound to cfg with an empty memo table. A nil cfg
// is an empty Config.
func New(cfg *Config) *Renderer {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Renderer{
		cfg:      cfg,
		rendered: make(map[nodes.ID]any),
		log:      Logger().With(zap.String("dialect", cfg.Dialect), zap.String("only", cfg.Only)),
	}
}

// Walk resolves every value reachable from root. Nodes already resolved by
// an earlier Walk on r keep their value.
func (r *Renderer) Walk(root nodes.Value) error {
	if r.cfg.Registry == nil {
		return ErrNoRegistry
	}
	return walker.Walk(root, r.visit)
}

// Resolve returns the resolved value of v: scalars resolve to their Go
// value, lists to the slice of their elements' values, nodes to their memo
// entry (nil when not rendered yet).
func (r *Renderer) Resolve(v nodes.Value) any {
	switch t := v.(type) {
	case nil:
		return nil
	case *nodes.Node:
		return r.rendered[t.ID()]
	case nodes.List:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = r.Resolve(item)
		}
		return out
	case nodes.String:
		return string(t)
	case nodes.Number:
		return float64(t)
	case nodes.Bool:
		return bool(t)
	}
	return nil
}

// Rendered reports the memoized value of n.
func (r *Renderer) Rendered(n *nodes.Node) (any, bool) {
	v, ok := r.rendered[n.ID()]
	return v, ok
}

func (r *Renderer) visit(v nodes.Value) error {
	n, ok := v.(*nodes.Node)
	if !ok {
		// scalars and lists resolve on demand from the memo table
		return nil
	}
	if _, done := r.rendered[n.ID()]; done {
		return nil
	}

	rendered := make(map[string]any, len(n.Slots())+1)
	for _, s := range n.Slots() {
		rendered[s.Name] = r.Resolve(s.Value)
	}
	if hook := preprocessorFor(n.Kind()); hook != nil {
		hook(r, n, rendered)
	}

	vars := map[string]any{}
	if maker := makerFor(n.Kind()); maker != nil {
		if computed := maker(r, n, rendered); computed != nil {
			vars = computed
		}
	}

	rule, ok := r.cfg.Registry.Lookup(n.Kind(), r.cfg.Dialect)
	if !ok || rule == nil {
		return &MissingRuleError{Kind: n.Kind(), Dialect: r.cfg.Dialect}
	}

	out, err := rule.Render(&Context{
		Node:     n,
		Rendered: rendered,
		Config:   r.cfg,
		Vars:     vars,
	})
	if err != nil {
		return &RuleError{Node: n, Dialect: r.cfg.Dialect, Err: err}
	}
	if ce := r.log.Check(zap.DebugLevel, "rendered node"); ce != nil {
		ce.Write(zap.Stringer("node", n))
	}
	r.rendered[n.ID()] = out
	return nil
}
