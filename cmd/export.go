package cmd

import (
	"bytes"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chriserin/ftgen/internal/config"
	"github.com/chriserin/ftgen/internal/db"
	"github.com/chriserin/ftgen/internal/importer"
	"github.com/chriserin/ftgen/internal/render"
	"github.com/chriserin/ftgen/internal/templates"
	"github.com/chriserin/ftgen/internal/ui"
)

// ExportOptions selects what an export writes.
type ExportOptions struct {
	Dialects  []string
	Only      string
	OutputDir string
	Options   map[string]any
}

var (
	exportDialects []string
	exportOnly     string
	exportOutput   string
	exportOptions  map[string]string
)

var exportCmd = &cobra.Command{
	Use:   "export <project>",
	Short: "Render every configured dialect and write the files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		opts := ExportOptions{
			Dialects:  cfg.Dialects,
			Only:      cfg.Only,
			OutputDir: cfg.OutputDir,
			Options:   mergeOptions(cfg.Options, exportOptions),
		}
		if cmd.Flags().Changed("dialect") {
			opts.Dialects = exportDialects
		}
		if cmd.Flags().Changed("only") {
			opts.Only = exportOnly
		}
		if cmd.Flags().Changed("output") {
			opts.OutputDir = exportOutput
		}
		return RunExport(cmd.OutOrStdout(), args[0], opts)
	},
}

func init() {
	exportCmd.Flags().StringSliceVarP(&exportDialects, "dialect", "d", nil, "dialects to export (default: configured dialects)")
	exportCmd.Flags().StringVar(&exportOnly, "only", "", "export a single section of each dialect")
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "output directory (default: configured output_dir)")
	exportCmd.Flags().StringToStringVarP(&exportOptions, "option", "o", nil, "dialect option key=value")
	rootCmd.AddCommand(exportCmd)
}

func RunExport(w io.Writer, projectPath string, opts ExportOptions) error {
	if _, err := os.Stat("ftgen"); os.IsNotExist(err) {
		return fmt.Errorf("run `ftgen init` first")
	}

	lib, err := templates.Default()
	if err != nil {
		return err
	}

	type job struct {
		dialect *templates.Dialect
		section *templates.Section
	}
	var jobs []job
	for _, name := range opts.Dialects {
		d, ok := lib.Dialect(name)
		if !ok || len(d.AllSections()) == 0 {
			return fmt.Errorf("unknown dialect %q", name)
		}
		sections, err := sectionsOf(d, opts.Only)
		if err != nil {
			return err
		}
		for _, s := range sections {
			jobs = append(jobs, job{dialect: d, section: s})
		}
	}

	project, err := importer.Load(projectPath)
	if err != nil {
		return err
	}

	p := pool.NewWithResults[[]artifact]().WithErrors().WithMaxGoroutines(runtime.GOMAXPROCS(0))
	for _, j := range jobs {
		p.Go(func() ([]artifact, error) {
			return renderSection(lib, project, j.dialect, j.section, opts.Options)
		})
	}
	results, err := p.Wait()
	if err != nil {
		return err
	}

	sqlDB, err := db.Open(db.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	seen := map[string]string{}
	count := 0
	for _, artifacts := range results {
		for _, a := range artifacts {
			path := filepath.Join(opts.OutputDir, a.Dialect, filepath.FromSlash(a.Path))
			if prev, dup := seen[path]; dup {
				return fmt.Errorf("%s written by sections %s and %s", path, prev, a.Section)
			}
			seen[path] = a.Section

			state, err := writeArtifact(sqlDB, path, a)
			if err != nil {
				return err
			}
			ui.ArtifactLine(w, state.String(), path)
			count++
		}
	}

	if _, err := sqlDB.Exec(`INSERT INTO exports (project, artifacts) VALUES (?, ?)`, project.Text("name"), count); err != nil {
		return fmt.Errorf("recording export: %w", err)
	}
	render.Logger().Debug("export done", zap.String("project", project.Text("name")), zap.Int("artifacts", count))

	ui.SummaryLine(w, count)
	return nil
}

// writeArtifact writes a unless the file already holds its content, then
// records it. A failed write leaves the manifest untouched.
func writeArtifact(sqlDB *sql.DB, path string, a artifact) (db.State, error) {
	existing, err := os.ReadFile(path)
	if err != nil || !bytes.Equal(existing, []byte(a.Content)) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return 0, fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(a.Content), 0o644); err != nil {
			return 0, fmt.Errorf("writing %s: %w", path, err)
		}
	}

	sum := sha256.Sum256([]byte(a.Content))
	return db.Record(sqlDB, db.Artifact{
		Path:     filepath.ToSlash(path),
		Dialect:  a.Dialect,
		Section:  a.Section,
		Checksum: hex.EncodeToString(sum[:]),
	})
}
