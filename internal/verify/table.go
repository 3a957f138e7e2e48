package verify

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var headers = []string{"Folder", "RTPLAN PatientID", "Centroid PatientID", "Isocenter (cm)", "Centroid (cm)", "Match"}

func matchLabel(ok bool) string {
	if ok {
		return "YES"
	}
	return "NO"
}

// WriteTable writes rows as the fixed-width comparison table.
func WriteTable(w io.Writer, rows []Row) error {
	var b strings.Builder
	b.WriteString("DETAILED COMPARISON TABLE\n")
	b.WriteString(strings.Repeat("=", 120) + "\n")
	fmt.Fprintf(&b, "%-10s %-16s %-17s %-25s %-25s %-6s\n", headers[0], headers[1], headers[2], headers[3], headers[4], headers[5])
	b.WriteString(strings.Repeat("-", 120) + "\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%-10s %-16s %-17s %-25s %-25s %-6s\n",
			r.Folder, r.PlanPatientID, r.ReportPatientID, r.PlanIsocenter, r.ReportIsocenter, matchLabel(r.Match))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// SaveTable writes the comparison table into dir and returns its path.
func SaveTable(dir string, rows []Row) (string, error) {
	path := filepath.Join(dir, OutputFile)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := WriteTable(f, rows); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	yesStyle    = cellStyle.Foreground(lipgloss.Color("10"))
	noStyle     = cellStyle.Foreground(lipgloss.Color("9"))
)

// Render returns the rows as a bordered terminal table.
func Render(rows []Row) string {
	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = []string{r.Folder, r.PlanPatientID, r.ReportPatientID, r.PlanIsocenter, r.ReportIsocenter, matchLabel(r.Match)}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == len(headers)-1 && data[row][col] == "YES":
				return yesStyle
			case col == len(headers)-1:
				return noStyle
			default:
				return cellStyle
			}
		})
	return t.String()
}

// Summary counts matching rows.
func Summary(rows []Row) (matched, total int) {
	for _, r := range rows {
		if r.Match {
			matched++
		}
	}
	return matched, len(rows)
}
