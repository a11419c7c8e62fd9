package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftgen/internal/db"
	"github.com/chriserin/ftgen/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the artifacts written by previous exports",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunStatus(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func RunStatus(w io.Writer) error {
	if _, err := os.Stat("ftgen"); os.IsNotExist(err) {
		return fmt.Errorf("run `ftgen init` first")
	}

	sqlDB, err := db.Open(db.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	var count int
	if err := sqlDB.QueryRow(`SELECT COUNT(*) FROM artifacts`).Scan(&count); err != nil {
		return fmt.Errorf("counting artifacts: %w", err)
	}
	fmt.Fprintf(w, "Artifacts: %d\n", count)

	counts, err := db.CountBySection(sqlDB)
	if err != nil {
		return err
	}
	dialect := ""
	for _, c := range counts {
		if c.Dialect != dialect {
			dialect = c.Dialect
			ui.DialectLine(w, dialect, "")
		}
		ui.SectionRow(w, c.Section, strconv.Itoa(c.Count))
	}

	var project, at string
	var n int
	err = sqlDB.QueryRow(`SELECT project, artifacts, exported_at FROM exports ORDER BY id DESC LIMIT 1`).Scan(&project, &n, &at)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		fmt.Fprintln(w, "Last export: never")
	case err != nil:
		return fmt.Errorf("querying last export: %w", err)
	default:
		fmt.Fprintf(w, "Last export: %s, %d files at %s\n", project, n, at)
	}
	return nil
}
