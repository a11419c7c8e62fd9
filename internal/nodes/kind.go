package nodes

import "fmt"

// Kind tags a node. The set of kinds is closed.
type Kind string

const (
	KindProject        Kind = "project"
	KindFolder         Kind = "folder"
	KindScenarios      Kind = "scenarios"
	KindScenario       Kind = "scenario"
	KindActionwords    Kind = "actionwords"
	KindActionword     Kind = "actionword"
	KindCall           Kind = "call"
	KindArgument       Kind = "argument"
	KindParameter      Kind = "parameter"
	KindTag            Kind = "tag"
	KindDatatable      Kind = "datatable"
	KindDataset        Kind = "dataset"
	KindStringLiteral  Kind = "string_literal"
	KindNumericLiteral Kind = "numeric_literal"
	KindVariable       Kind = "variable"
)

var kinds = []Kind{
	KindProject,
	KindFolder,
	KindScenarios,
	KindScenario,
	KindActionwords,
	KindActionword,
	KindCall,
	KindArgument,
	KindParameter,
	KindTag,
	KindDatatable,
	KindDataset,
	KindStringLiteral,
	KindNumericLiteral,
	KindVariable,
}

// Kinds returns every known kind.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	for _, known := range kinds {
		if k == known {
			return true
		}
	}
	return false
}

// ParseKind converts s into a Kind, rejecting unknown names.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("unknown node kind %q", s)
	}
	return k, nil
}
