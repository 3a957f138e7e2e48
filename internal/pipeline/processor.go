// Package pipeline runs a complete structure-set/plan pair through loading,
// structure resolution, report writing and archiving.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/charmbracelet/log"
	"github.com/mrsinham/centroidwatch/internal/dicom"
	"github.com/mrsinham/centroidwatch/internal/pairing"
	"github.com/mrsinham/centroidwatch/internal/plan"
	"github.com/mrsinham/centroidwatch/internal/report"
	"github.com/mrsinham/centroidwatch/internal/structures"
)

var (
	// ErrLoad wraps a failure to parse either document of a pair.
	ErrLoad = errors.New("load failed")
	// ErrPatientMismatch is returned when the two documents name different
	// patients.
	ErrPatientMismatch = errors.New("patient ID mismatch")
	// ErrNoStructures is returned when nothing is reportable; no report is
	// written and the sources stay in place.
	ErrNoStructures = errors.New("no structures to report")
	// ErrWriteReport is returned when the report could not be written; the
	// sources stay in place.
	ErrWriteReport = errors.New("write report")
	// ErrArchive is returned when the report was written but the sources
	// could not be moved to the backup folder.
	ErrArchive = errors.New("archive sources")
)

// Result describes a processed pair.
type Result struct {
	Report     *report.Report
	ReportPath string
	Archived   []string
}

// Processor handles one pair at a time.
type Processor struct {
	resolver  *structures.Resolver
	writer    *report.Writer
	backupDir string
	log       *log.Logger
}

// NewProcessor returns a processor writing reports with writer and moving
// sources into backupDir.
func NewProcessor(resolver *structures.Resolver, writer *report.Writer, backupDir string, logger *log.Logger) *Processor {
	return &Processor{resolver: resolver, writer: writer, backupDir: backupDir, log: logger}
}

// Process runs the pair to completion. On a nil error the report was written
// and both sources archived.
func (p *Processor) Process(ctx context.Context, pair pairing.Pair) (*Result, error) {
	logger := p.log.With("patient", pair.PatientID)

	ss, err := dicom.LoadStructureSet(pair.StructureSetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	pl, err := dicom.LoadPlan(pair.PlanPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	if ss.PatientID != pl.PatientID {
		return nil, fmt.Errorf("%w: structure set %q, plan %q", ErrPatientMismatch, ss.PatientID, pl.PatientID)
	}

	resolved, err := p.resolver.Resolve(ctx, ss)
	if err != nil {
		return nil, err
	}
	if len(resolved) == 0 {
		return nil, ErrNoStructures
	}

	extracted := plan.Extract(pl)
	if extracted.Skipped > 0 {
		logger.Warn("skipped malformed isocenter values", "rtplan", pair.PlanPath, "count", extracted.Skipped)
	}
	if extracted.Isocenter == nil {
		logger.Warn("plan has no isocenter", "rtplan", pair.PlanPath)
	}

	rep := &report.Report{
		PatientID:   ss.PatientID,
		PatientName: ss.PatientName,
		Structures:  resolved,
		Isocenter:   extracted.Isocenter,
		BeamIDs:     extracted.BeamIDs,
	}
	path, err := p.writer.Write(rep)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteReport, err)
	}
	logger.Info("report written", "path", path, "structures", len(resolved), "beams", extracted.BeamIDs)

	res := &Result{Report: rep, ReportPath: path}
	for _, src := range []string{pair.StructureSetPath, pair.PlanPath} {
		dst, err := MoveFile(src, p.backupDir)
		if err != nil {
			return res, fmt.Errorf("%w: %w", ErrArchive, err)
		}
		res.Archived = append(res.Archived, dst)
	}
	logger.Info("sources archived", "backup", p.backupDir)
	return res, nil
}

// Dispatch implements pairing.Dispatcher. Errors and panics are logged and
// contained to the pair.
func (p *Processor) Dispatch(ctx context.Context, pair pairing.Pair) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic processing %s: %v", pair.PatientID, r)
			p.log.Error("processing panicked", "patient", pair.PatientID, "panic", r, "stack", string(debug.Stack()))
		}
	}()

	_, err = p.Process(ctx, pair)
	switch {
	case err == nil:
	case errors.Is(err, ErrNoStructures):
		p.log.Warn("no structures to report, files left in place", "patient", pair.PatientID)
	case errors.Is(err, ErrArchive):
		p.log.Error("report written but archiving failed", "patient", pair.PatientID, "err", err)
	default:
		p.log.Error("processing failed", "patient", pair.PatientID, "err", err)
	}
	return err
}
