package report

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mrsinham/centroidwatch/internal/geometry"
	"github.com/mrsinham/centroidwatch/internal/structures"
)

func seed(label string, x, y, z float64) structures.Resolved {
	return structures.Resolved{Label: label, Centroid: geometry.Point{X: x, Y: y, Z: z}}
}

func TestReport_Name(t *testing.T) {
	tests := []struct {
		name     string
		pid      string
		beams    []string
		wantName string
	}{
		{"two beams", "P1", []string{"Arc1", "Arc2"}, "P1_BeamID_Arc1_Arc2"},
		{"one beam", "P1", []string{"Arc1"}, "P1_BeamID_Arc1"},
		{"no beams", "P1", nil, "P1"},
		{"extra beams ignored", "P1", []string{"A", "B", "C"}, "P1_BeamID_A_B"},
		{"separators replaced", "P/1", []string{`G:0\1`}, "P_1_BeamID_G_0_1"},
		{"spaces kept", "P1", []string{"Arc 1"}, "P1_BeamID_Arc 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Report{PatientID: tt.pid, BeamIDs: tt.beams}
			if got := r.Name(); got != tt.wantName {
				t.Errorf("Name() = %q, want %q", got, tt.wantName)
			}
			if got, want := r.FileName(), "Centroid_"+tt.wantName+".txt"; got != want {
				t.Errorf("FileName() = %q, want %q", got, want)
			}
		})
	}
}

func TestReport_Render(t *testing.T) {
	r := &Report{
		PatientID:   "P1",
		PatientName: "DOE^JANE",
		Structures:  []structures.Resolved{seed("Seed 1", 0.5, 0, 0), seed("Seed 2", -1.234, 2.005, 10)},
		Isocenter:   &geometry.Point{X: 5},
		BeamIDs:     []string{"Arc1"},
	}

	want := strings.Join([]string{
		"P1",
		"DOE,JANE",
		"Seed 1, X= 0.50, Y= 0.00, Z= 0.00",
		"Seed 2, X= -1.23, Y= 2.00, Z= 10.00",
		"Isocenter (cm), X= 5.00, Y= 0.00, Z= 0.00",
		"",
	}, "\n")
	if got := r.String(); got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestReport_RenderNoIsocenter(t *testing.T) {
	r := &Report{PatientID: "P2", PatientName: "X", Structures: []structures.Resolved{seed("Seed 1", 1, 1, 1)}}
	lines := strings.Split(strings.TrimSuffix(r.String(), "\n"), "\n")
	if last := lines[len(lines)-1]; last != "No isocenter data found." {
		t.Errorf("last line = %q", last)
	}
}

func TestFormatPatientName(t *testing.T) {
	tests := map[string]string{
		"DOE^JANE":      "DOE,JANE",
		"DOE^JANE^^DR^": "DOE,JANE,,DR,",
		"":              "",
		"No Separator":  "No Separator",
		"O'Connor^Zoë":  "O'Connor,Zoë",
	}
	for in, want := range tests {
		if got := FormatPatientName(in); got != want {
			t.Errorf("FormatPatientName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParse_RoundTrip(t *testing.T) {
	orig := &Report{
		PatientID:   "KIM000001",
		PatientName: "Smith^John",
		Structures:  []structures.Resolved{seed("Seed 1", 1.23456, -7.891, 0.004), seed("Seed 2", 3, 4, 5)},
		Isocenter:   &geometry.Point{X: 1.5, Y: -2.25, Z: 3.1},
	}

	got, err := Parse(strings.NewReader(orig.String()))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got.PatientID != orig.PatientID || got.PatientName != "Smith,John" {
		t.Errorf("header = %q / %q", got.PatientID, got.PatientName)
	}
	if len(got.Structures) != 2 {
		t.Fatalf("got %d structures, want 2", len(got.Structures))
	}
	for i, s := range got.Structures {
		want := orig.Structures[i]
		if s.Label != want.Label {
			t.Errorf("label %d = %q, want %q", i, s.Label, want.Label)
		}
		if !within(s.Centroid, want.Centroid, 0.005) {
			t.Errorf("centroid %d = %v, want %v at 2 decimals", i, s.Centroid, want.Centroid)
		}
	}
	if got.Isocenter == nil || !within(*got.Isocenter, *orig.Isocenter, 0.005) {
		t.Errorf("isocenter = %v, want %v", got.Isocenter, orig.Isocenter)
	}
}

func TestParse_NoIsocenter(t *testing.T) {
	got, err := Parse(strings.NewReader("P1\nName\nSeed 1, X= 1.00, Y= 2.00, Z= 3.00\r\nNo isocenter data found.\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got.Isocenter != nil || len(got.Structures) != 1 {
		t.Errorf("Parse() = %+v", got)
	}
}

func TestParse_Malformed(t *testing.T) {
	inputs := []string{
		"",
		"P1\nName\n",
		"P1\nName\nSeed 1 X=1\nNo isocenter data found.\n",
		"P1\nName\nSeed 1, X= 1.00, Y= 2.00, Z= 3.00\nSeed 2, X= 1.00, Y= 2.00, Z= 3.00\n",
	}
	for _, in := range inputs {
		if _, err := Parse(strings.NewReader(in)); err == nil {
			t.Errorf("Parse(%q) expected error", in)
		}
	}
}

func TestWriter_WriteAndOverwrite(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root)
	r := &Report{PatientID: "P1", PatientName: "A^B", Structures: []structures.Resolved{seed("Seed 1", 1, 2, 3)}, BeamIDs: []string{"Arc1", "Arc2"}}

	path, err := w.Write(r)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	want := filepath.Join(root, "P1_BeamID_Arc1_Arc2", "Centroid_P1_BeamID_Arc1_Arc2.txt")
	if path != want || w.Path(r) != want {
		t.Errorf("path = %s, want %s", path, want)
	}

	r.Structures = []structures.Resolved{seed("Seed 1", 9, 9, 9)}
	if _, err := w.Write(r); err != nil {
		t.Fatalf("second Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Seed 1, X= 9.00") {
		t.Errorf("report not overwritten:\n%s", data)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("report folder holds %d entries, want only the report", len(entries))
	}
}

func within(a, b geometry.Point, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

func TestParse_BlankPatientName(t *testing.T) {
	r := &Report{PatientID: "P1", Structures: []structures.Resolved{seed("Seed 1", 1, 2, 3)}}
	got, err := Parse(strings.NewReader(r.String() + "\n\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got.PatientName != "" || len(got.Structures) != 1 || got.Isocenter != nil {
		t.Errorf("Parse() = %+v", got)
	}
}
