package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftgen/internal/config"
	"github.com/chriserin/ftgen/internal/importer"
	"github.com/chriserin/ftgen/internal/templates"
)

var (
	renderDialect string
	renderOnly    string
	renderOptions map[string]string
)

var renderCmd = &cobra.Command{
	Use:   "render <project>",
	Short: "Render a project in one dialect to stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		dialect := renderDialect
		if dialect == "" {
			dialect = cfg.Dialects[0]
		}
		only := renderOnly
		if !cmd.Flags().Changed("only") {
			only = cfg.Only
		}
		return RunRender(cmd.OutOrStdout(), args[0], dialect, only, mergeOptions(cfg.Options, renderOptions))
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderDialect, "dialect", "d", "", "dialect to render (default: first configured dialect)")
	renderCmd.Flags().StringVar(&renderOnly, "only", "", "render a single section")
	renderCmd.Flags().StringToStringVarP(&renderOptions, "option", "o", nil, "dialect option key=value")
	rootCmd.AddCommand(renderCmd)
}

func RunRender(w io.Writer, projectPath, dialect, only string, options map[string]any) error {
	lib, err := templates.Default()
	if err != nil {
		return err
	}
	d, ok := lib.Dialect(dialect)
	if !ok || len(d.AllSections()) == 0 {
		return fmt.Errorf("unknown dialect %q", dialect)
	}
	sections, err := sectionsOf(d, only)
	if err != nil {
		return err
	}

	project, err := importer.Load(projectPath)
	if err != nil {
		return err
	}

	var artifacts []artifact
	for _, s := range sections {
		out, err := renderSection(lib, project, d, s, options)
		if err != nil {
			return err
		}
		artifacts = append(artifacts, out...)
	}

	for i, a := range artifacts {
		if len(artifacts) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "==> %s <==\n", a.Path)
		}
		fmt.Fprint(w, a.Content)
	}
	return nil
}
