package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// ReleaseRow is one line of ls output.
type ReleaseRow struct {
	Product    string
	Version    string
	Branch     string
	Location   string
	Date       string
	Buildnum   int // 0 before the first build
	Unresolved int // unresolved preflight prerequisites
	Broken     bool
}

// BrokenStatus is shown in the BUILD column for unreadable documents.
const BrokenStatus = "<broken>"

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	inflightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))
	brokenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

// WriteLS writes the release table. Styled output adds color and bold
// headers; columns are padded before styling so alignment holds either way.
func WriteLS(w io.Writer, rows []ReleaseRow, styled bool) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "no tracked releases")
		return err
	}

	cells := make([][]string, 0, len(rows)+1)
	cells = append(cells, []string{"PRODUCT", "VERSION", "BRANCH", "LOCATION", "DATE", "BUILD", "PREREQS"})
	for _, row := range rows {
		cells = append(cells, formatRow(row))
	}

	widths := make([]int, len(cells[0]))
	for _, line := range cells {
		for i, cell := range line {
			if n := len([]rune(cell)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	for li, line := range cells {
		out := ""
		for i, cell := range line {
			padded := cell
			if i < len(line)-1 {
				padded = fmt.Sprintf("%-*s  ", widths[i], cell)
			}
			if styled {
				padded = styleCell(li, i, rows, padded)
			}
			out += padded
		}
		if _, err := fmt.Fprintln(w, out); err != nil {
			return err
		}
	}
	return nil
}

func formatRow(row ReleaseRow) []string {
	build := "-"
	prereqs := strconv.Itoa(row.Unresolved)
	if row.Broken {
		build = BrokenStatus
		prereqs = "-"
	} else if row.Buildnum > 0 {
		build = strconv.Itoa(row.Buildnum)
	}
	date := row.Date
	if date == "" {
		date = "-"
	}
	return []string{row.Product, row.Version, row.Branch, row.Location, date, build, prereqs}
}

func styleCell(line, col int, rows []ReleaseRow, s string) string {
	if line == 0 {
		return headerStyle.Render(s)
	}
	row := rows[line-1]
	switch {
	case row.Broken && col == 5:
		return brokenStyle.Render(s)
	case col == 3 && row.Location == "inflight":
		return inflightStyle.Render(s)
	}
	return s
}
