package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	newStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	updStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	trkStyle     = lipgloss.NewStyle().Faint(true)
	dialectStyle = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().PaddingLeft(2).Width(22)
	countStyle   = lipgloss.NewStyle().Width(4).Align(lipgloss.Right)
)

func NewLine(w io.Writer, path string) {
	fmt.Fprintln(w, newStyle.Render("new")+"  "+path)
}

func UpdLine(w io.Writer, path string) {
	fmt.Fprintln(w, updStyle.Render("upd")+"  "+path)
}

func TrkLine(w io.Writer, path string) {
	fmt.Fprintln(w, trkStyle.Render("trk")+"  "+path)
}

// ArtifactLine prints path with its new, upd or trk marker.
func ArtifactLine(w io.Writer, state, path string) {
	switch state {
	case "new":
		NewLine(w, path)
	case "upd":
		UpdLine(w, path)
	default:
		TrkLine(w, path)
	}
}

func SummaryLine(w io.Writer, count int) {
	fmt.Fprintf(w, "exported %d files\n", count)
}

func DialectLine(w io.Writer, name, description string) {
	if description == "" {
		fmt.Fprintln(w, dialectStyle.Render(name))
		return
	}
	fmt.Fprintln(w, dialectStyle.Render(name)+"  "+description)
}

// SectionRow prints one indented section line with a right aligned value.
func SectionRow(w io.Writer, section, value string) {
	fmt.Fprintln(w, sectionStyle.Render(section)+countStyle.Render(value))
}

// PathRow prints one indented section line followed by its output path.
func PathRow(w io.Writer, section, path string) {
	fmt.Fprintln(w, sectionStyle.Render(section)+path)
}
