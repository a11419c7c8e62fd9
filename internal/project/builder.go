// Package project assembles node trees from scenario descriptions.
//
// Callers describe scenarios as plain steps; the Builder turns every step
// into a call, derives one actionword per distinct step template and wires
// the project node together.
package project

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/chriserin/ftgen/internal/nodes"
)

// Step is one line of a scenario.
type Step struct {
	Keyword string // given, when, then, and, but or *
	Text    string // e.g. `I login as "root"`

	DocString    string
	HasDocString bool
	// DataTable rows; the first row holds the column names.
	DataTable [][]string
}

// Examples is a table of datasets: one dataset per row.
type Examples struct {
	Name   string
	Header []string
	Rows   []Row
}

// Row is one dataset row of an Examples table.
type Row struct {
	UID    string
	Values []string
}

// Scenario describes a scenario before it becomes a node.
type Scenario struct {
	UID         string
	Name        string
	Description string
	Tags        []string // "smoke" or "priority:high", an optional leading @ is dropped
	Steps       []Step
	Examples    []Examples
}

// Folder groups scenarios in the test plan.
type Folder struct {
	UID         string
	Name        string
	Description string
	Tags        []string
	Scenarios   []Scenario
	Folders     []Folder
}

// Builder collects scenarios and folders. It is not safe for concurrent use.
type Builder struct {
	name        string
	description string

	scenarios []*nodes.Node
	folders   []*nodes.Node

	actionwords map[string]*actionword
	order       []string
}

type actionword struct {
	name        string
	params      []string
	freeText    bool
	datatable   bool
	annotations map[string]bool
}

// New returns a Builder for a project.
func New(name string) *Builder {
	return &Builder{name: name, actionwords: make(map[string]*actionword)}
}

// Describe sets the project description.
func (b *Builder) Describe(description string) {
	b.description = description
}

// AddScenario records a scenario at the top level of the project.
func (b *Builder) AddScenario(sc Scenario) (*nodes.Node, error) {
	n, err := b.scenario(sc)
	if err != nil {
		return nil, err
	}
	b.scenarios = append(b.scenarios, n)
	return n, nil
}

// AddFolder records a folder of the test plan. Its scenarios, nested ones
// included, are project scenarios too.
func (b *Builder) AddFolder(f Folder) (*nodes.Node, error) {
	n, err := b.folder(f)
	if err != nil {
		return nil, err
	}
	b.folders = append(b.folders, n)
	return n, nil
}

func (b *Builder) folder(f Folder) (*nodes.Node, error) {
	var scenarios, folders []*nodes.Node
	for _, sc := range f.Scenarios {
		n, err := b.AddScenario(sc)
		if err != nil {
			return nil, fmt.Errorf("folder %q: %w", f.Name, err)
		}
		scenarios = append(scenarios, n)
	}
	for _, sub := range f.Folders {
		n, err := b.folder(sub)
		if err != nil {
			return nil, fmt.Errorf("folder %q: %w", f.Name, err)
		}
		folders = append(folders, n)
	}
	return nodes.NewFolder(f.Name, nodes.FolderOptions{
		UID:         f.UID,
		Description: f.Description,
		Tags:        tags(f.Tags),
		Folders:     folders,
		Scenarios:   scenarios,
	}), nil
}

func (b *Builder) scenario(sc Scenario) (*nodes.Node, error) {
	var body []*nodes.Node
	previous := ""
	for _, st := range sc.Steps {
		keyword := strings.ToLower(strings.TrimSpace(st.Keyword))
		switch keyword {
		case "given", "when", "then":
			previous = keyword
		}
		body = append(body, b.call(keyword, previous, st))
	}

	var params []*nodes.Node
	var datasets []*nodes.Node
	seen := map[string]bool{}
	for _, ex := range sc.Examples {
		for _, h := range ex.Header {
			if !seen[h] {
				seen[h] = true
				params = append(params, nodes.NewParameter(h, nil))
			}
		}
		for i, row := range ex.Rows {
			if len(row.Values) != len(ex.Header) {
				return nil, fmt.Errorf("scenario %q: examples row %d has %d values for %d columns",
					sc.Name, i+1, len(row.Values), len(ex.Header))
			}
			args := make([]*nodes.Node, len(row.Values))
			for j, v := range row.Values {
				args[j] = nodes.NewArgument(ex.Header[j], literal(v))
			}
			datasets = append(datasets, nodes.NewDataset(datasetName(ex.Name, i), row.UID, args...))
		}
	}

	return nodes.NewScenario(sc.Name, nodes.ScenarioOptions{
		UID:         sc.UID,
		Description: sc.Description,
		Tags:        tags(sc.Tags),
		Parameters:  params,
		Body:        body,
		Datatable:   nodes.NewDatatable(datasets...),
	}), nil
}

func datasetName(examples string, i int) string {
	if examples == "" {
		return "Example #" + strconv.Itoa(i+1)
	}
	return fmt.Sprintf("%s #%d", examples, i+1)
}

// stepArg matches a quoted value or an unquoted <placeholder>.
var (
	stepArg     = regexp.MustCompile(`"([^"]*)"|<([^<>\s]+)>`)
	placeholder = regexp.MustCompile(`^<([^<>\s]+)>$`)
)

// call turns a step into a call node and records its actionword. Quoted
// values become parameters p0, p1, ...; placeholders become parameters
// named after them.
func (b *Builder) call(keyword, effective string, st Step) *nodes.Node {
	var tmpl strings.Builder
	var params []string
	var args []*nodes.Node
	used := map[string]int{}
	next := 0

	last := 0
	for _, loc := range stepArg.FindAllStringSubmatchIndex(st.Text, -1) {
		tmpl.WriteString(st.Text[last:loc[0]])
		last = loc[1]

		var name string
		var value *nodes.Node
		switch {
		case loc[2] >= 0:
			raw := st.Text[loc[2]:loc[3]]
			if m := placeholder.FindStringSubmatch(raw); m != nil {
				name, value = m[1], nodes.NewVariable(m[1])
			} else {
				name, value = "p"+strconv.Itoa(next), literal(raw)
				next++
			}
		default:
			name = st.Text[loc[4]:loc[5]]
			value = nodes.NewVariable(name)
		}
		if n := used[name]; n > 0 {
			used[name]++
			name = name + strconv.Itoa(n)
		} else {
			used[name] = 1
		}

		tmpl.WriteString(`"` + name + `"`)
		params = append(params, name)
		args = append(args, nodes.NewArgument(name, value))
	}
	tmpl.WriteString(st.Text[last:])

	if st.HasDocString {
		args = append(args, nodes.NewArgument(nodes.FreeTextArg, nodes.NewStringLiteral(st.DocString)))
	}
	if len(st.DataTable) > 0 {
		args = append(args, nodes.NewArgument(nodes.DatatableArg, table(st.DataTable)))
	}

	name := tmpl.String()
	b.record(name, params, st.HasDocString, len(st.DataTable) > 0, effective)
	return nodes.NewCall(name, keyword, args...)
}

func (b *Builder) record(name string, params []string, freeText, datatable bool, annotation string) {
	aw, ok := b.actionwords[name]
	if !ok {
		aw = &actionword{name: name, annotations: map[string]bool{}}
		b.actionwords[name] = aw
		b.order = append(b.order, name)
	}
	for _, p := range params {
		if !contains(aw.params, p) {
			aw.params = append(aw.params, p)
		}
	}
	aw.freeText = aw.freeText || freeText
	aw.datatable = aw.datatable || datatable
	if annotation != "" {
		aw.annotations[annotation] = true
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// literal is a numeric literal when v parses as a number, a variable when
// it is a <placeholder> and a string literal otherwise.
func literal(v string) *nodes.Node {
	if m := placeholder.FindStringSubmatch(v); m != nil {
		return nodes.NewVariable(m[1])
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return nodes.NewNumericLiteral(v)
	}
	return nodes.NewStringLiteral(v)
}

func table(rows [][]string) *nodes.Node {
	header := rows[0]
	var datasets []*nodes.Node
	for _, row := range rows[1:] {
		var args []*nodes.Node
		for i, v := range row {
			if i < len(header) {
				args = append(args, nodes.NewArgument(header[i], literal(v)))
			}
		}
		datasets = append(datasets, nodes.NewDataset("", "", args...))
	}
	if len(datasets) == 0 {
		// a header only table still shows its columns
		var args []*nodes.Node
		for _, h := range header {
			args = append(args, nodes.NewArgument(h, nodes.NewStringLiteral(h)))
		}
		datasets = append(datasets, nodes.NewDataset("", "", args...))
	}
	return nodes.NewDatatable(datasets...)
}

func tags(raw []string) []*nodes.Node {
	var out []*nodes.Node
	for _, t := range raw {
		t = strings.TrimPrefix(strings.TrimSpace(t), "@")
		if t == "" {
			continue
		}
		key, value, _ := strings.Cut(t, ":")
		out = append(out, nodes.NewTag(key, value))
	}
	return out
}

var annotationOrder = map[string]int{"given": 0, "when": 1, "then": 2}

// Actionwords returns the actionwords derived so far, in order of first
// use.
func (b *Builder) Actionwords() []*nodes.Node {
	out := make([]*nodes.Node, 0, len(b.order))
	for _, name := range b.order {
		aw := b.actionwords[name]
		var params []*nodes.Node
		for _, p := range aw.params {
			params = append(params, nodes.NewParameter(p, nil))
		}
		if aw.freeText {
			params = append(params, nodes.NewParameter(nodes.FreeTextArg, nodes.NewStringLiteral("")))
		}
		if aw.datatable {
			params = append(params, nodes.NewParameter(nodes.DatatableArg, nodes.NewStringLiteral("")))
		}

		var annotations []string
		for a := range aw.annotations {
			annotations = append(annotations, a)
		}
		sort.Slice(annotations, func(i, j int) bool {
			return annotationOrder[annotations[i]] < annotationOrder[annotations[j]]
		})

		out = append(out, nodes.NewActionword(name, nodes.ActionwordOptions{
			Parameters:  params,
			Annotations: annotations,
		}))
	}
	return out
}

// Build returns the project node. When folders were added, the test plan
// is a root folder named after the project holding them.
func (b *Builder) Build() *nodes.Node {
	var plan *nodes.Node
	if len(b.folders) > 0 {
		plan = nodes.NewFolder(b.name, nodes.FolderOptions{Folders: b.folders})
	}
	return nodes.NewProject(b.name, nodes.ProjectOptions{
		Description: b.description,
		TestPlan:    plan,
		Scenarios:   b.scenarios,
		Actionwords: b.Actionwords(),
	})
}
