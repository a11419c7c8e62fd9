// Package templates provides render rules backed by text/template files.
//
// Each dialect is a directory holding a dialect.yaml manifest and one
// <kind>.tmpl file per node kind it overrides. Section directories
// (<dialect>/<section>/) override templates further when that section is
// rendered. Files named _<name>.tmpl are partials shared by every template
// of their dialect.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/chriserin/ftgen/internal/nodes"
	"github.com/chriserin/ftgen/internal/render"
)

//go:embed all:dialects
var embedded embed.FS

const manifestName = "dialect.yaml"

// Section is one artifact a dialect emits.
type Section struct {
	Name string `yaml:"name"`
	// Node is the kind of the nodes rendered for the section: project, or
	// folder for one artifact per folder of the test plan.
	Node string `yaml:"node"`
	// Path is a template for the artifact path. It sees .Project and
	// .Folder, both underscored.
	Path string `yaml:"path"`
	// Skip lists kinds rendered as "" in this section.
	Skip []string `yaml:"skip"`

	kind nodes.Kind
	path *template.Template
	skip map[nodes.Kind]bool
}

// Kind returns the kind of the section's root nodes.
func (s *Section) Kind() nodes.Kind { return s.kind }

// OutputPath expands the section path for a project and folder name.
func (s *Section) OutputPath(project, folder string) (string, error) {
	var buf bytes.Buffer
	err := s.path.Execute(&buf, map[string]string{
		"Project": underscore(project),
		"Folder":  underscore(folder),
	})
	if err != nil {
		return "", fmt.Errorf("expanding path of section %s: %w", s.Name, err)
	}
	return buf.String(), nil
}

// Dialect is a compiled rule set.
type Dialect struct {
	Name        string    `yaml:"-"`
	Description string    `yaml:"description"`
	Extends     string    `yaml:"extends"`
	Sections    []Section `yaml:"sections"`

	parent *Dialect
	// rules by section name; "" holds the dialect wide rules
	rules map[string]map[nodes.Kind]*template.Template
}

// Section returns the named section, searching parent dialects too.
func (d *Dialect) Section(name string) (*Section, bool) {
	for cur := d; cur != nil; cur = cur.parent {
		for i := range cur.Sections {
			if cur.Sections[i].Name == name {
				return &cur.Sections[i], true
			}
		}
	}
	return nil, false
}

// AllSections returns the sections of d followed by those inherited from
// its parents and not redefined.
func (d *Dialect) AllSections() []*Section {
	var out []*Section
	seen := map[string]bool{}
	for cur := d; cur != nil; cur = cur.parent {
		for i := range cur.Sections {
			s := &cur.Sections[i]
			if !seen[s.Name] {
				seen[s.Name] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// Library holds every compiled dialect. It is read-only once compiled and
// safe for concurrent use.
type Library struct {
	dialects map[string]*Dialect
}

var (
	defaultOnce sync.Once
	defaultLib  *Library
	defaultErr  error
)

// Default returns the library of the dialects shipped with the binary.
func Default() (*Library, error) {
	defaultOnce.Do(func() {
		sub, err := fs.Sub(embedded, "dialects")
		if err != nil {
			defaultErr = err
			return
		}
		defaultLib, defaultErr = Compile(sub)
	})
	return defaultLib, defaultErr
}

// Compile reads every dialect directory at the root of fsys and compiles
// its templates. Unknown kinds, unknown parent dialects and template syntax
// errors are reported here rather than at render time.
func Compile(fsys fs.FS) (*Library, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading dialects: %w", err)
	}

	lib := &Library{dialects: make(map[string]*Dialect)}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		d, err := compileDialect(fsys, e.Name())
		if err != nil {
			return nil, err
		}
		lib.dialects[d.Name] = d
	}

	for _, d := range lib.dialects {
		if d.Extends == "" {
			continue
		}
		parent, ok := lib.dialects[d.Extends]
		if !ok {
			return nil, fmt.Errorf("dialect %s extends unknown dialect %q", d.Name, d.Extends)
		}
		d.parent = parent
	}
	for _, d := range lib.dialects {
		seen := map[string]bool{}
		for cur := d; cur != nil; cur = cur.parent {
			if seen[cur.Name] {
				return nil, fmt.Errorf("dialect %s: circular extends", d.Name)
			}
			seen[cur.Name] = true
		}
	}
	return lib, nil
}

func compileDialect(fsys fs.FS, name string) (*Dialect, error) {
	d := &Dialect{Name: name, rules: make(map[string]map[nodes.Kind]*template.Template)}

	raw, err := fs.ReadFile(fsys, path.Join(name, manifestName))
	if err != nil {
		return nil, fmt.Errorf("dialect %s: reading manifest: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, d); err != nil {
		return nil, fmt.Errorf("dialect %s: parsing manifest: %w", name, err)
	}

	for i := range d.Sections {
		s := &d.Sections[i]
		if s.Node == "" {
			s.Node = string(nodes.KindProject)
		}
		if s.kind, err = nodes.ParseKind(s.Node); err != nil {
			return nil, fmt.Errorf("dialect %s: section %s: %w", name, s.Name, err)
		}
		if s.kind != nodes.KindProject && s.kind != nodes.KindFolder {
			return nil, fmt.Errorf("dialect %s: section %s: cannot render %s nodes", name, s.Name, s.kind)
		}
		if s.path, err = template.New(s.Name).Option("missingkey=error").Parse(s.Path); err != nil {
			return nil, fmt.Errorf("dialect %s: section %s: path: %w", name, s.Name, err)
		}
		s.skip = make(map[nodes.Kind]bool, len(s.Skip))
		for _, k := range s.Skip {
			kind, err := nodes.ParseKind(k)
			if err != nil {
				return nil, fmt.Errorf("dialect %s: section %s: skip: %w", name, s.Name, err)
			}
			s.skip[kind] = true
		}
	}

	partials, err := readPartials(fsys, name)
	if err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("dialect %s: %w", name, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			rules, err := compileDir(fsys, path.Join(name, e.Name()), partials)
			if err != nil {
				return nil, fmt.Errorf("dialect %s: %w", name, err)
			}
			d.rules[e.Name()] = rules
		}
	}
	rules, err := compileDir(fsys, name, partials)
	if err != nil {
		return nil, fmt.Errorf("dialect %s: %w", name, err)
	}
	d.rules[""] = rules
	return d, nil
}

type partial struct {
	name string
	text string
}

func readPartials(fsys fs.FS, dir string) ([]partial, error) {
	matches, err := fs.Glob(fsys, path.Join(dir, "_*.tmpl"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	var out []partial
	for _, m := range matches {
		text, err := fs.ReadFile(fsys, m)
		if err != nil {
			return nil, err
		}
		out = append(out, partial{name: path.Base(m), text: string(text)})
	}
	return out, nil
}

func compileDir(fsys fs.FS, dir string, partials []partial) (map[nodes.Kind]*template.Template, error) {
	matches, err := fs.Glob(fsys, path.Join(dir, "*.tmpl"))
	if err != nil {
		return nil, err
	}
	rules := make(map[nodes.Kind]*template.Template)
	for _, m := range matches {
		base := path.Base(m)
		if strings.HasPrefix(base, "_") {
			continue
		}
		kind, err := nodes.ParseKind(strings.TrimSuffix(base, ".tmpl"))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", m, err)
		}
		text, err := fs.ReadFile(fsys, m)
		if err != nil {
			return nil, err
		}
		t := template.New(string(kind)).Funcs(funcs).Option("missingkey=zero")
		for _, p := range partials {
			if _, err := t.New(p.name).Parse(p.text); err != nil {
				return nil, fmt.Errorf("%s: partial %s: %w", m, p.name, err)
			}
		}
		if _, err := t.Parse(string(text)); err != nil {
			return nil, fmt.Errorf("%s: %w", m, err)
		}
		rules[kind] = t
	}
	return rules, nil
}

// Dialects returns the dialects that emit at least one section, sorted by
// name.
func (l *Library) Dialects() []*Dialect {
	var out []*Dialect
	for _, d := range l.dialects {
		if len(d.Sections) > 0 {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Dialect returns the named dialect.
func (l *Library) Dialect(name string) (*Dialect, bool) {
	d, ok := l.dialects[name]
	return d, ok
}

// Registry returns a view of the library rendering the given section, or
// every section when only is empty.
func (l *Library) Registry(only string) render.Registry {
	return &registry{lib: l, only: only}
}

type registry struct {
	lib  *Library
	only string
}

var skipped = render.RuleFunc(func(*render.Context) (any, error) { return "", nil })

// Lookup searches <dialect>/<only>/ then <dialect>/, then the same in each
// parent dialect. Kinds skipped by the section resolve to "".
func (r *registry) Lookup(kind nodes.Kind, dialect string) (render.Rule, bool) {
	d, ok := r.lib.dialects[dialect]
	if !ok {
		return nil, false
	}
	if r.only != "" {
		if s, ok := d.Section(r.only); ok && s.skip[kind] {
			return skipped, true
		}
	}
	for cur := d; cur != nil; cur = cur.parent {
		if r.only != "" {
			if t, ok := cur.rules[r.only][kind]; ok {
				return templateRule{t}, true
			}
		}
		if t, ok := cur.rules[""][kind]; ok {
			return templateRule{t}, true
		}
	}
	return nil, false
}

type templateRule struct {
	t *template.Template
}

func (r templateRule) Render(ctx *render.Context) (any, error) {
	var buf bytes.Buffer
	if err := r.t.Execute(&buf, ctx); err != nil {
		return nil, err
	}
	return buf.String(), nil
}
