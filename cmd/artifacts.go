package cmd

import (
	"fmt"
	"strings"

	"github.com/chriserin/ftgen/internal/nodes"
	"github.com/chriserin/ftgen/internal/render"
	"github.com/chriserin/ftgen/internal/templates"
	"github.com/chriserin/ftgen/internal/walker"
)

// artifact is one rendered file, its path relative to the dialect output
// directory.
type artifact struct {
	Dialect string
	Section string
	Path    string
	Content string
}

// sectionsOf returns the sections of d to render: every section, or the one
// named only.
func sectionsOf(d *templates.Dialect, only string) ([]*templates.Section, error) {
	all := d.AllSections()
	if only == "" {
		return all, nil
	}
	for _, s := range all {
		if s.Name == only {
			return []*templates.Section{s}, nil
		}
	}
	return nil, fmt.Errorf("dialect %s has no section %q", d.Name, only)
}

// renderSection renders one section of a dialect. Project sections give one
// artifact; folder sections give one per folder holding scenarios. Every
// artifact is its own render pass.
func renderSection(lib *templates.Library, project *nodes.Node, d *templates.Dialect, s *templates.Section, options map[string]any) ([]artifact, error) {
	cfg := &render.Config{
		Dialect:  d.Name,
		Only:     s.Name,
		Options:  options,
		Registry: lib.Registry(s.Name),
	}

	roots := []*nodes.Node{project}
	if s.Kind() == nodes.KindFolder {
		var err error
		if roots, err = foldersWithScenarios(project); err != nil {
			return nil, err
		}
	}

	var out []artifact
	for _, root := range roots {
		folder := ""
		if root.Kind() == nodes.KindFolder {
			folder = root.Text("name")
		}
		path, err := s.OutputPath(project.Text("name"), folder)
		if err != nil {
			return nil, err
		}
		v, err := render.Render(root, cfg)
		if err != nil {
			return nil, fmt.Errorf("rendering %s/%s: %w", d.Name, path, err)
		}
		content, ok := v.(string)
		if !ok {
			content = fmt.Sprint(v)
		}
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		out = append(out, artifact{Dialect: d.Name, Section: s.Name, Path: path, Content: content})
	}
	return out, nil
}

func foldersWithScenarios(project *nodes.Node) ([]*nodes.Node, error) {
	plan := project.ChildNode("test_plan")
	if plan == nil {
		return nil, nil
	}
	var folders []*nodes.Node
	err := walker.Walk(plan, func(v nodes.Value) error {
		if n, ok := v.(*nodes.Node); ok && n.Kind() == nodes.KindFolder && len(n.ChildList("scenarios")) > 0 {
			folders = append(folders, n)
		}
		return nil
	})
	return folders, err
}

// mergeOptions overlays flag options on the configured ones.
func mergeOptions(configured map[string]any, flags map[string]string) map[string]any {
	out := make(map[string]any, len(configured)+len(flags))
	for k, v := range configured {
		out[k] = v
	}
	for k, v := range flags {
		out[k] = v
	}
	return out
}
