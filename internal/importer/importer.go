// Package importer loads project trees from files on disk.
package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chriserin/ftgen/internal/nodes"
	"github.com/chriserin/ftgen/internal/parser"
	"github.com/chriserin/ftgen/internal/project"
)

// ErrUnsupported is returned for files of an unknown format.
var ErrUnsupported = errors.New("unsupported project file")

// Load reads a project from path: a .feature file, a .yaml/.yml project
// description, or a directory of .feature files (one folder per file).
func Load(path string) (*nodes.Node, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return loadDir(path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".feature":
		pf, err := parseFeature(path)
		if err != nil {
			return nil, err
		}
		b := project.New(pf.Name)
		b.Describe(pf.Folder.Description)
		if _, err := b.AddFolder(pf.Folder); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return b.Build(), nil
	case ".yaml", ".yml":
		return loadYAML(path)
	}
	return nil, fmt.Errorf("%s: %w", path, ErrUnsupported)
}

func parseFeature(path string) (*parser.ParsedFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, errs := parser.Parse(path, content)
	if len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", path, errs[0])
	}
	return parser.Transform(doc, path, nil), nil
}

func loadDir(dir string) (*nodes.Node, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".feature") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	b := project.New(filepath.Base(filepath.Clean(dir)))
	for _, f := range files {
		pf, err := parseFeature(f)
		if err != nil {
			return nil, err
		}
		if _, err := b.AddFolder(pf.Folder); err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
	}
	return b.Build(), nil
}
