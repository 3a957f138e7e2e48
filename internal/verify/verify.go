// Package verify compares the isocenter written in centroid reports with
// the isocenter of the plan each report was produced from.
//
// A test set is a folder with one subfolder per patient, each holding the
// RTPLAN and the Centroid_*.txt report.
package verify

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mrsinham/centroidwatch/internal/dicom"
	"github.com/mrsinham/centroidwatch/internal/geometry"
	"github.com/mrsinham/centroidwatch/internal/plan"
	"github.com/mrsinham/centroidwatch/internal/report"
)

// Unknown stands in for any value that could not be read.
const Unknown = "Unknown"

// OutputFile is written into the test set folder.
const OutputFile = "detailed_comparison.txt"

var errNoPlan = errors.New("no RTPLAN file found")

// Row is the comparison for one patient folder.
type Row struct {
	Folder          string
	PlanPatientID   string
	ReportPatientID string
	PlanIsocenter   string
	ReportIsocenter string
	Match           bool
	// Err is the first problem met in this folder, if any.
	Err error
}

// Run compares every patient folder of dir, in name order.
func Run(dir string, logger *log.Logger) ([]Row, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read test set: %w", err)
	}

	var folders []string
	for _, e := range entries {
		if e.IsDir() {
			folders = append(folders, e.Name())
		}
	}
	if len(folders) == 0 {
		return nil, fmt.Errorf("no patient folders in %s", dir)
	}
	sort.Strings(folders)

	rows := make([]Row, 0, len(folders))
	for _, name := range folders {
		row := checkFolder(filepath.Join(dir, name))
		row.Folder = name
		if row.Err != nil {
			logger.Warn("folder incomplete", "folder", name, "err", row.Err)
		} else {
			logger.Debug("folder checked", "folder", name, "match", row.Match)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func checkFolder(folder string) Row {
	row := Row{
		PlanPatientID:   Unknown,
		ReportPatientID: Unknown,
		PlanIsocenter:   Unknown,
		ReportIsocenter: Unknown,
	}

	if planPath, err := findPlan(folder); err != nil {
		row.Err = err
	} else if p, err := dicom.LoadPlan(planPath); err != nil {
		row.Err = err
	} else {
		row.PlanPatientID = p.PatientID
		if iso := plan.FirstIsocenter(p); iso != nil {
			row.PlanIsocenter = FormatCoords(*iso)
		} else {
			row.Err = fmt.Errorf("%s: no isocenter", filepath.Base(planPath))
		}
	}

	if reportPath, ok := findReport(folder); !ok {
		row.Err = errors.Join(row.Err, errors.New("no centroid report found"))
	} else if r, err := report.ParseFile(reportPath); err != nil {
		row.Err = errors.Join(row.Err, err)
	} else {
		row.ReportPatientID = r.PatientID
		if r.Isocenter != nil {
			row.ReportIsocenter = FormatCoords(*r.Isocenter)
		}
	}

	row.Match = row.PlanIsocenter != Unknown && row.PlanIsocenter == row.ReportIsocenter
	return row
}

// FormatCoords renders a point in centimeters the way both sides are
// compared.
func FormatCoords(p geometry.Point) string {
	return fmt.Sprintf("X=%.2f, Y=%.2f, Z=%.2f", p.X, p.Y, p.Z)
}

// findPlan prefers a file whose Modality is RTPLAN, then falls back to
// naming conventions.
func findPlan(folder string) (string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return "", err
	}
	var dcm []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".dcm") {
			dcm = append(dcm, e.Name())
		}
	}
	sort.Strings(dcm)

	for _, name := range dcm {
		id, err := dicom.Identify(filepath.Join(folder, name))
		if err == nil && id.Modality == dicom.ModalityPlan {
			return filepath.Join(folder, name), nil
		}
	}
	for _, name := range dcm {
		lower := strings.ToLower(name)
		if lower == "rp.dcm" || strings.Contains(lower, "plan") {
			return filepath.Join(folder, name), nil
		}
	}
	return "", errNoPlan
}

func findReport(folder string) (string, bool) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		lower := strings.ToLower(e.Name())
		if !e.IsDir() && strings.HasSuffix(lower, ".txt") && strings.Contains(lower, "centroid") {
			return filepath.Join(folder, e.Name()), true
		}
	}
	return "", false
}
