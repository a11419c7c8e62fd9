package render

import (
	"fmt"
	"sync"

	"github.com/chriserin/ftgen/internal/nodes"
)

// Preprocessor adds entries to the rendered-children map of a node before
// its rule runs. It must not change anything else.
type Preprocessor func(r *Renderer, n *nodes.Node, rendered map[string]any)

// Maker computes the Vars of a node's render context.
type Maker func(r *Renderer, n *nodes.Node, rendered map[string]any) map[string]any

var (
	hooksMu       sync.RWMutex
	preprocessors = map[nodes.Kind]Preprocessor{
		nodes.KindCall:      exposeFreeText,
		nodes.KindScenarios: splitScenarios,
		nodes.KindFolder:    splitScenarios,
	}
	makers = map[nodes.Kind]Maker{
		nodes.KindProject:     projectVars,
		nodes.KindFolder:      folderVars,
		nodes.KindScenarios:   scenariosVars,
		nodes.KindScenario:    scenarioVars,
		nodes.KindActionwords: actionwordsVars,
		nodes.KindActionword:  actionwordVars,
		nodes.KindCall:        callVars,
		nodes.KindParameter:   parameterVars,
		nodes.KindDatatable:   datatableVars,
	}
)

// RegisterPreprocessor installs the preprocessor for kind.
// It panics if the kind already has one or if p is nil.
func RegisterPreprocessor(kind nodes.Kind, p Preprocessor) {
	hooksMu.Lock()
	defer hooksMu.Unlock()

	if p == nil {
		panic(fmt.Sprintf("render: RegisterPreprocessor is nil for %q", kind))
	}
	if _, exists := preprocessors[kind]; exists {
		panic(fmt.Sprintf("render: RegisterPreprocessor called twice for %q", kind))
	}
	preprocessors[kind] = p
}

// UnregisterPreprocessor removes the preprocessor of kind.
// This is primarily useful for testing.
func UnregisterPreprocessor(kind nodes.Kind) {
	hooksMu.Lock()
	defer hooksMu.Unlock()

	delete(preprocessors, kind)
}

func preprocessorFor(kind nodes.Kind) Preprocessor {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return preprocessors[kind]
}

func makerFor(kind nodes.Kind) Maker {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return makers[kind]
}

// exposeFreeText re-exposes the resolved value of the first free text
// argument of a call under "free_text_arg". A call carries at most one.
func exposeFreeText(r *Renderer, call *nodes.Node, rendered map[string]any) {
	for _, arg := range call.ChildNodes("arguments") {
		if arg.Text("name") == nodes.FreeTextArg {
			rendered["free_text_arg"] = r.Resolve(arg.Child("value"))
			return
		}
	}
}

// SplitScenario is the flattened view of one scenario of a container.
type SplitScenario struct {
	Name       any
	Tags       []any
	UID        any
	Datatable  any
	Datasets   []SplitDataset
	Parameters any
	Body       any
}

// SplitDataset is one dataset of a SplitScenario, carrying the name of its
// scenario.
type SplitDataset struct {
	ScenarioName any
	Name         any
	UID          any
	Arguments    any
}

// splitScenarios exposes "splitted_scenarios": one SplitScenario per
// scenario of a scenarios or folder node, so dialects emitting one test per
// dataset get a scenario x dataset view.
func splitScenarios(r *Renderer, container *nodes.Node, rendered map[string]any) {
	scenarios := container.ChildNodes("scenarios")
	split := make([]SplitScenario, 0, len(scenarios))
	for _, sc := range scenarios {
		name := r.Resolve(sc.Child("name"))
		tags := make([]any, 0)
		for _, tag := range sc.ChildList("tags") {
			tags = append(tags, r.Resolve(tag))
		}
		datasets := make([]SplitDataset, 0)
		if dt := sc.ChildNode("datatable"); dt != nil {
			for _, ds := range dt.ChildNodes("datasets") {
				datasets = append(datasets, SplitDataset{
					ScenarioName: name,
					Name:         r.Resolve(ds.Child("name")),
					UID:          r.Resolve(ds.Child("uid")),
					Arguments:    r.Resolve(ds.Child("arguments")),
				})
			}
		}
		split = append(split, SplitScenario{
			Name:       name,
			Tags:       tags,
			UID:        r.Resolve(sc.Child("uid")),
			Datatable:  r.Resolve(sc.Child("datatable")),
			Datasets:   datasets,
			Parameters: r.Resolve(sc.Child("parameters")),
			Body:       r.Resolve(sc.Child("body")),
		})
	}
	rendered["splitted_scenarios"] = split
}
