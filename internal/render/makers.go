package render

import (
	"regexp"
	"sort"
	"strings"

	"github.com/chriserin/ftgen/internal/nodes"
)

var quotedWord = regexp.MustCompile(`"([^"]*)"`)

// StepPattern turns an actionword name into a step matching regexp. Every
// quoted word naming one of params becomes a "(.*)" capture; the rest is
// matched literally. It also returns the captured parameters in order of
// appearance.
func StepPattern(name string, params []string) (string, []string) {
	known := make(map[string]bool, len(params))
	for _, p := range params {
		known[p] = true
	}

	var b strings.Builder
	var ordered []string
	last := 0
	for _, loc := range quotedWord.FindAllStringSubmatchIndex(name, -1) {
		word := name[loc[2]:loc[3]]
		if !known[word] {
			continue
		}
		b.WriteString(regexp.QuoteMeta(name[last:loc[0]]))
		b.WriteString(`"(.*)"`)
		ordered = append(ordered, word)
		last = loc[1]
	}
	b.WriteString(regexp.QuoteMeta(name[last:]))
	return b.String(), ordered
}

// StepText replaces every quoted parameter of an actionword name with the
// matching argument value.
func StepText(name string, values map[string]string) string {
	return quotedWord.ReplaceAllStringFunc(name, func(m string) string {
		word := m[1 : len(m)-1]
		if v, ok := values[word]; ok {
			return `"` + v + `"`
		}
		return m
	})
}

func isSpecial(name string) bool {
	return name == nodes.FreeTextArg || name == nodes.DatatableArg
}

func parameterNames(n *nodes.Node) []string {
	var names []string
	for _, p := range n.ChildNodes("parameters") {
		names = append(names, p.Text("name"))
	}
	return names
}

func projectVars(r *Renderer, n *nodes.Node, rendered map[string]any) map[string]any {
	return map[string]any{
		"has_test_plan":   n.ChildNode("test_plan") != nil,
		"has_scenarios":   len(n.ChildNode("scenarios").ChildNodes("scenarios")) > 0,
		"has_actionwords": len(n.ChildNode("actionwords").ChildNodes("actionwords")) > 0,
	}
}

func folderVars(r *Renderer, n *nodes.Node, rendered map[string]any) map[string]any {
	return map[string]any{
		"has_tags":        len(n.ChildList("tags")) > 0,
		"has_folders":     len(n.ChildList("folders")) > 0,
		"has_scenarios":   len(n.ChildList("scenarios")) > 0,
		"has_description": n.Text("description") != "",
	}
}

func scenariosVars(r *Renderer, n *nodes.Node, rendered map[string]any) map[string]any {
	return map[string]any{
		"has_scenarios": len(n.ChildList("scenarios")) > 0,
	}
}

func scenarioVars(r *Renderer, n *nodes.Node, rendered map[string]any) map[string]any {
	datasets := 0
	if dt := n.ChildNode("datatable"); dt != nil {
		datasets = len(dt.ChildList("datasets"))
	}
	return map[string]any{
		"has_parameters":  len(n.ChildList("parameters")) > 0,
		"has_tags":        len(n.ChildList("tags")) > 0,
		"has_description": n.Text("description") != "",
		"has_datasets":    datasets > 0,
		"is_empty":        len(n.ChildList("body")) == 0,
		"parameter_names": parameterNames(n),
	}
}

func actionwordVars(r *Renderer, n *nodes.Node, rendered map[string]any) map[string]any {
	var plain []string
	var plainRendered []any
	hasFreeText, hasDatatable := false, false
	for _, p := range n.ChildNodes("parameters") {
		switch p.Text("name") {
		case nodes.FreeTextArg:
			hasFreeText = true
		case nodes.DatatableArg:
			hasDatatable = true
		default:
			plain = append(plain, p.Text("name"))
			plainRendered = append(plainRendered, r.Resolve(p))
		}
	}

	pattern, ordered := StepPattern(n.Text("name"), plain)

	var annotations []string
	for _, a := range n.ChildList("annotations") {
		if s, ok := a.(nodes.String); ok && s != "" {
			annotations = append(annotations, string(s))
		}
	}
	if len(annotations) == 0 {
		annotations = []string{"given"}
	}

	return map[string]any{
		"pattern":                 pattern,
		"pattern_params":          ordered,
		"plain_parameters":        plain,
		"rendered_parameters":     plainRendered,
		"has_parameters":          len(plain) > 0,
		"has_free_text_parameter": hasFreeText,
		"has_datatable_parameter": hasDatatable,
		"has_tags":                len(n.ChildList("tags")) > 0,
		"annotations":             annotations,
		"is_empty":                len(n.ChildList("body")) == 0,
	}
}

// actionwordsVars sorts the rendered actionwords by decreasing pattern
// length so longer steps are declared first and shorter ones cannot shadow
// them. Ties keep their declaration order.
func actionwordsVars(r *Renderer, n *nodes.Node, rendered map[string]any) map[string]any {
	type entry struct {
		length   int
		rendered any
	}
	actionwords := n.ChildNodes("actionwords")
	entries := make([]entry, len(actionwords))
	for i, aw := range actionwords {
		var plain []string
		for _, name := range parameterNames(aw) {
			if !isSpecial(name) {
				plain = append(plain, name)
			}
		}
		pattern, _ := StepPattern(aw.Text("name"), plain)
		entries[i] = entry{length: len(pattern), rendered: r.Resolve(aw)}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].length > entries[j].length
	})

	sorted := make([]any, len(entries))
	for i, e := range entries {
		sorted[i] = e.rendered
	}
	return map[string]any{
		"has_actionwords":   len(actionwords) > 0,
		"by_pattern_length": sorted,
	}
}

func callVars(r *Renderer, n *nodes.Node, rendered map[string]any) map[string]any {
	values := map[string]string{}
	var plain []any
	hasFreeText, hasDatatable := false, false
	var datatable any
	for _, arg := range n.ChildNodes("arguments") {
		name := arg.Text("name")
		switch name {
		case nodes.FreeTextArg:
			hasFreeText = true
		case nodes.DatatableArg:
			hasDatatable = true
			datatable = r.Resolve(arg.Child("value"))
		default:
			values[name] = nodes.RawText(arg.Child("value"))
			plain = append(plain, r.Resolve(arg))
		}
	}

	return map[string]any{
		"annotation":        n.Text("annotation"),
		"has_annotation":    n.Text("annotation") != "",
		"has_arguments":     len(plain) > 0,
		"plain_arguments":   plain,
		"has_free_text_arg": hasFreeText,
		"has_datatable_arg": hasDatatable,
		"datatable_arg":     datatable,
		"step_text":         StepText(n.Text("actionword"), values),
	}
}

func parameterVars(r *Renderer, n *nodes.Node, rendered map[string]any) map[string]any {
	return map[string]any{
		"has_default":  n.Child("default") != nil,
		"is_free_text": n.Text("name") == nodes.FreeTextArg,
		"is_datatable": n.Text("name") == nodes.DatatableArg,
	}
}

func datatableVars(r *Renderer, n *nodes.Node, rendered map[string]any) map[string]any {
	var headers []string
	datasets := n.ChildNodes("datasets")
	if len(datasets) > 0 {
		for _, arg := range datasets[0].ChildNodes("arguments") {
			headers = append(headers, arg.Text("name"))
		}
	}
	return map[string]any{
		"has_datasets": len(datasets) > 0,
		"headers":      headers,
	}
}
