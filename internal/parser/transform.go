package parser

import (
	"path/filepath"
	"strconv"
	"strings"

	messages "github.com/cucumber/messages/go/v21"

	"github.com/chriserin/ftgen/internal/project"
)

// ParsedFile is the application model extracted from a Gherkin document:
// one feature becomes one folder of the test plan.
type ParsedFile struct {
	Name   string
	Folder project.Folder
	Errors []ParseError
}

// Transform converts a Gherkin document into a ParsedFile. Rules are
// flattened into the feature and background steps are prepended to every
// scenario they apply to.
func Transform(doc *messages.GherkinDocument, filename string, errors []ParseError) *ParsedFile {
	pf := &ParsedFile{
		Errors: errors,
	}

	if doc == nil || doc.Feature == nil {
		pf.Name = filenameWithoutExt(filename)
		pf.Folder = project.Folder{Name: pf.Name}
		return pf
	}

	feature := doc.Feature
	pf.Name = feature.Name
	if pf.Name == "" {
		pf.Name = filenameWithoutExt(filename)
	}
	pf.Folder = project.Folder{
		UID:         featureUID(feature),
		Name:        pf.Name,
		Description: strings.TrimSpace(feature.Description),
		Tags:        tagNames(feature.Tags),
	}

	var background []*messages.Step
	for _, child := range feature.Children {
		switch {
		case child.Background != nil:
			background = child.Background.Steps
		case child.Scenario != nil:
			pf.Folder.Scenarios = append(pf.Folder.Scenarios, scenario(child.Scenario, background, nil))
		case child.Rule != nil:
			// rule backgrounds run after the feature background
			ruleBackground := background
			for _, rc := range child.Rule.Children {
				switch {
				case rc.Background != nil:
					ruleBackground = append(append([]*messages.Step{}, background...), rc.Background.Steps...)
				case rc.Scenario != nil:
					pf.Folder.Scenarios = append(pf.Folder.Scenarios, scenario(rc.Scenario, ruleBackground, child.Rule.Tags))
				}
			}
		}
	}
	return pf
}

func featureUID(f *messages.Feature) string {
	if f.Location == nil {
		return ""
	}
	return "feature-" + strconv.FormatInt(f.Location.Line, 10)
}

func scenario(sc *messages.Scenario, background []*messages.Step, inherited []*messages.Tag) project.Scenario {
	out := project.Scenario{
		UID:         sc.Id,
		Name:        sc.Name,
		Description: strings.TrimSpace(sc.Description),
		Tags:        append(tagNames(inherited), tagNames(sc.Tags)...),
	}
	for _, st := range background {
		out.Steps = append(out.Steps, step(st))
	}
	for _, st := range sc.Steps {
		out.Steps = append(out.Steps, step(st))
	}
	for _, ex := range sc.Examples {
		if ex.TableHeader == nil {
			continue
		}
		e := project.Examples{Name: ex.Name, Header: cells(ex.TableHeader)}
		for _, row := range ex.TableBody {
			e.Rows = append(e.Rows, project.Row{UID: row.Id, Values: cells(row)})
		}
		out.Examples = append(out.Examples, e)
	}
	return out
}

func step(st *messages.Step) project.Step {
	out := project.Step{
		Keyword: keyword(st),
		Text:    st.Text,
	}
	if st.DocString != nil {
		out.DocString = st.DocString.Content
		out.HasDocString = true
	}
	if st.DataTable != nil {
		for _, row := range st.DataTable.Rows {
			out.DataTable = append(out.DataTable, cells(row))
		}
	}
	return out
}

// keyword returns the english keyword of a step. Keywords of other
// languages are mapped through their keyword type.
func keyword(st *messages.Step) string {
	k := strings.ToLower(strings.TrimSpace(st.Keyword))
	switch k {
	case "given", "when", "then", "and", "but", "*":
		return k
	}
	switch st.KeywordType {
	case messages.StepKeywordType_CONTEXT:
		return "given"
	case messages.StepKeywordType_ACTION:
		return "when"
	case messages.StepKeywordType_OUTCOME:
		return "then"
	case messages.StepKeywordType_CONJUNCTION:
		return "and"
	}
	return "*"
}

func cells(row *messages.TableRow) []string {
	out := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		out[i] = c.Value
	}
	return out
}

func tagNames(tags []*messages.Tag) []string {
	var out []string
	for _, t := range tags {
		out = append(out, t.Name)
	}
	return out
}

func filenameWithoutExt(filename string) string {
	name := filepath.Base(filename)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
