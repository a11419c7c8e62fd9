package nodes

// Constructors fixing the slot layout of every kind.

func listOf[T Value](items []T) List {
	l := make(List, len(items))
	for i, it := range items {
		l[i] = it
	}
	return l
}

func optional(n *Node) Value {
	if n == nil {
		return nil
	}
	return n
}

// ProjectOptions holds the children of a project node.
type ProjectOptions struct {
	Description string
	TestPlan    *Node
	Scenarios   []*Node
	Actionwords []*Node
}

func NewProject(name string, o ProjectOptions) *Node {
	return New(KindProject,
		Slot{"name", String(name)},
		Slot{"description", String(o.Description)},
		Slot{"test_plan", optional(o.TestPlan)},
		Slot{"scenarios", NewScenarios(o.Scenarios...)},
		Slot{"actionwords", NewActionwords(o.Actionwords...)},
	)
}

// FolderOptions holds the children of a folder node.
type FolderOptions struct {
	UID         string
	Description string
	Tags        []*Node
	Folders     []*Node
	Scenarios   []*Node
}

func NewFolder(name string, o FolderOptions) *Node {
	return New(KindFolder,
		Slot{"uid", String(o.UID)},
		Slot{"name", String(name)},
		Slot{"description", String(o.Description)},
		Slot{"tags", listOf(o.Tags)},
		Slot{"folders", listOf(o.Folders)},
		Slot{"scenarios", listOf(o.Scenarios)},
	)
}

func NewScenarios(scenarios ...*Node) *Node {
	return New(KindScenarios, Slot{"scenarios", listOf(scenarios)})
}

// ScenarioOptions holds the children of a scenario node.
type ScenarioOptions struct {
	UID         string
	Description string
	Tags        []*Node
	Parameters  []*Node
	Body        []*Node
	Datatable   *Node
}

// NewScenario builds a scenario. A nil datatable is replaced by an empty one
// so every scenario exposes a datatable child.
func NewScenario(name string, o ScenarioOptions) *Node {
	dt := o.Datatable
	if dt == nil {
		dt = NewDatatable()
	}
	return New(KindScenario,
		Slot{"uid", String(o.UID)},
		Slot{"name", String(name)},
		Slot{"description", String(o.Description)},
		Slot{"tags", listOf(o.Tags)},
		Slot{"parameters", listOf(o.Parameters)},
		Slot{"body", listOf(o.Body)},
		Slot{"datatable", dt},
	)
}

func NewActionwords(actionwords ...*Node) *Node {
	return New(KindActionwords, Slot{"actionwords", listOf(actionwords)})
}

// ActionwordOptions holds the children of an actionword node.
type ActionwordOptions struct {
	UID         string
	Description string
	Tags        []*Node
	Parameters  []*Node
	Body        []*Node
	Annotations []string
}

func NewActionword(name string, o ActionwordOptions) *Node {
	annotations := make(List, len(o.Annotations))
	for i, a := range o.Annotations {
		annotations[i] = String(a)
	}
	return New(KindActionword,
		Slot{"uid", String(o.UID)},
		Slot{"name", String(name)},
		Slot{"description", String(o.Description)},
		Slot{"tags", listOf(o.Tags)},
		Slot{"parameters", listOf(o.Parameters)},
		Slot{"body", listOf(o.Body)},
		Slot{"annotations", annotations},
	)
}

// NewCall builds a call to the named actionword. annotation is the Gherkin
// keyword in lower case ("given", "and", ...), or "" for none.
func NewCall(actionword, annotation string, arguments ...*Node) *Node {
	return New(KindCall,
		Slot{"actionword", String(actionword)},
		Slot{"annotation", String(annotation)},
		Slot{"arguments", listOf(arguments)},
	)
}

func NewArgument(name string, value *Node) *Node {
	return New(KindArgument,
		Slot{"name", String(name)},
		Slot{"value", optional(value)},
	)
}

func NewParameter(name string, def *Node) *Node {
	return New(KindParameter,
		Slot{"name", String(name)},
		Slot{"default", optional(def)},
	)
}

func NewTag(key, value string) *Node {
	return New(KindTag,
		Slot{"key", String(key)},
		Slot{"value", String(value)},
	)
}

func NewDatatable(datasets ...*Node) *Node {
	return New(KindDatatable, Slot{"datasets", listOf(datasets)})
}

func NewDataset(name, uid string, arguments ...*Node) *Node {
	return New(KindDataset,
		Slot{"uid", String(uid)},
		Slot{"name", String(name)},
		Slot{"arguments", listOf(arguments)},
	)
}

func NewStringLiteral(value string) *Node {
	return New(KindStringLiteral, Slot{"value", String(value)})
}

func NewNumericLiteral(value string) *Node {
	return New(KindNumericLiteral, Slot{"value", String(value)})
}

func NewVariable(name string) *Node {
	return New(KindVariable, Slot{"name", String(name)})
}
