package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftgen/internal/templates"
	"github.com/chriserin/ftgen/internal/ui"
)

var dialectsCmd = &cobra.Command{
	Use:   "dialects",
	Short: "List the dialects and the files they emit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunDialects(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(dialectsCmd)
}

func RunDialects(w io.Writer) error {
	lib, err := templates.Default()
	if err != nil {
		return err
	}
	for _, d := range lib.Dialects() {
		ui.DialectLine(w, d.Name, d.Description)
		for _, s := range d.AllSections() {
			ui.PathRow(w, s.Name, s.Path)
		}
	}
	return nil
}
