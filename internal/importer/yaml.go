package importer

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chriserin/ftgen/internal/nodes"
	"github.com/chriserin/ftgen/internal/project"
)

// File is the YAML project description.
type File struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Scenarios   []yamlScenario `yaml:"scenarios"`
	Folders     []yamlFolder   `yaml:"folders"`
}

type yamlFolder struct {
	UID         string         `yaml:"uid"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Tags        []string       `yaml:"tags"`
	Scenarios   []yamlScenario `yaml:"scenarios"`
	Folders     []yamlFolder   `yaml:"folders"`
}

type yamlScenario struct {
	UID         string         `yaml:"uid"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Tags        []string       `yaml:"tags"`
	Steps       []yamlStep     `yaml:"steps"`
	Examples    []yamlExamples `yaml:"examples"`
}

type yamlExamples struct {
	Name   string     `yaml:"name"`
	Header []string   `yaml:"header"`
	Rows   [][]string `yaml:"rows"`
}

// yamlStep accepts the long form {keyword: given, text: ...} and the short
// form {given: ...}.
type yamlStep struct {
	Keyword   string     `yaml:"keyword"`
	Text      string     `yaml:"text"`
	DocString *string    `yaml:"doc_string"`
	Table     [][]string `yaml:"table"`
}

var stepKeywords = map[string]bool{"given": true, "when": true, "then": true, "and": true, "but": true, "*": true}

func (s *yamlStep) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		s.Keyword, s.Text = "*", value.Value
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: a step is a mapping or a string", value.Line)
	}

	type plain yamlStep
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		if stepKeywords[key.Value] && val.Kind == yaml.ScalarNode {
			p.Keyword, p.Text = key.Value, val.Value
		}
	}
	if p.Keyword == "" {
		return fmt.Errorf("line %d: step has no keyword", value.Line)
	}
	*s = yamlStep(p)
	return nil
}

func loadYAML(path string) (*nodes.Node, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	n, err := f.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

// Build converts the description into a project node.
func (f *File) Build() (*nodes.Node, error) {
	if f.Name == "" {
		return nil, errors.New("project has no name")
	}
	b := project.New(f.Name)
	b.Describe(f.Description)
	for _, sc := range f.Scenarios {
		if _, err := b.AddScenario(sc.scenario()); err != nil {
			return nil, err
		}
	}
	for _, fo := range f.Folders {
		if _, err := b.AddFolder(fo.folder()); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

func (f yamlFolder) folder() project.Folder {
	out := project.Folder{
		UID:         f.UID,
		Name:        f.Name,
		Description: f.Description,
		Tags:        f.Tags,
	}
	for _, sc := range f.Scenarios {
		out.Scenarios = append(out.Scenarios, sc.scenario())
	}
	for _, sub := range f.Folders {
		out.Folders = append(out.Folders, sub.folder())
	}
	return out
}

func (s yamlScenario) scenario() project.Scenario {
	out := project.Scenario{
		UID:         s.UID,
		Name:        s.Name,
		Description: s.Description,
		Tags:        s.Tags,
	}
	for _, st := range s.Steps {
		step := project.Step{Keyword: st.Keyword, Text: st.Text, DataTable: st.Table}
		if st.DocString != nil {
			step.DocString, step.HasDocString = *st.DocString, true
		}
		out.Steps = append(out.Steps, step)
	}
	for _, ex := range s.Examples {
		e := project.Examples{Name: ex.Name, Header: ex.Header}
		for _, row := range ex.Rows {
			e.Rows = append(e.Rows, project.Row{Values: row})
		}
		out.Examples = append(out.Examples, e)
	}
	return out
}
