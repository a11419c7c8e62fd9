package render

import (
	"fmt"

	"github.com/chriserin/ftgen/internal/nodes"
)

// MissingRuleError reports that no rule exists for a kind in a dialect.
type MissingRuleError struct {
	Kind    nodes.Kind
	Dialect string
}

func (e *MissingRuleError) Error() string {
	return fmt.Sprintf("no render rule for %s in dialect %q", e.Kind, e.Dialect)
}

// RuleError wraps an error returned by a rule with the node it was
// rendering.
type RuleError struct {
	Node    *nodes.Node
	Dialect string
	Err     error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rendering %s in dialect %q: %v", e.Node, e.Dialect, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}
