// Package report renders and persists per-patient centroid reports.
//
// A report is plain text:
//
//	<patient id>
//	<patient name, with ^ replaced by ,>
//	Seed 1, X= 0.50, Y= 0.00, Z= 0.00
//	...
//	Isocenter (cm), X= 5.00, Y= 0.00, Z= 0.00
//
// The last line is "No isocenter data found." when the plan has none.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mrsinham/centroidwatch/internal/geometry"
	"github.com/mrsinham/centroidwatch/internal/structures"
)

// NoIsocenterLine closes a report whose plan carries no isocenter.
const NoIsocenterLine = "No isocenter data found."

const isocenterLabel = "Isocenter (cm)"

// Report is the content of one centroid report, in centimeters.
type Report struct {
	PatientID   string
	PatientName string
	Structures  []structures.Resolved
	Isocenter   *geometry.Point
	BeamIDs     []string
}

// Name is the folder name and file stem: the patient ID followed by up to
// two beam IDs.
func (r *Report) Name() string {
	parts := []string{sanitize(r.PatientID)}
	if len(r.BeamIDs) > 0 {
		parts = append(parts, "BeamID")
		for i, id := range r.BeamIDs {
			if i == 2 {
				break
			}
			parts = append(parts, sanitize(id))
		}
	}
	return strings.Join(parts, "_")
}

// FileName is the report file name inside its folder.
func (r *Report) FileName() string {
	return "Centroid_" + r.Name() + ".txt"
}

// Render writes the report text to w.
func (r *Report) Render(w io.Writer) error {
	var b strings.Builder
	b.WriteString(r.PatientID + "\n")
	b.WriteString(FormatPatientName(r.PatientName) + "\n")
	for _, s := range r.Structures {
		b.WriteString(formatLine(s.Label, s.Centroid) + "\n")
	}
	if r.Isocenter != nil {
		b.WriteString(formatLine(isocenterLabel, *r.Isocenter) + "\n")
	} else {
		b.WriteString(NoIsocenterLine + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// String returns the rendered report.
func (r *Report) String() string {
	var b strings.Builder
	_ = r.Render(&b)
	return b.String()
}

// FormatPatientName converts the DICOM person name separator to commas.
func FormatPatientName(name string) string {
	return strings.ReplaceAll(name, "^", ",")
}

func formatLine(label string, p geometry.Point) string {
	return fmt.Sprintf("%s, X= %.2f, Y= %.2f, Z= %.2f", label, p.X, p.Y, p.Z)
}

// sanitize replaces path separators and characters Windows refuses in file
// names.
func sanitize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(`<>:"/\|?*`, r) {
			return '_'
		}
		return r
	}, s)
}
