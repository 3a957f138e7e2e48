package structures

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mrsinham/centroidwatch/internal/dicom"
	"github.com/mrsinham/centroidwatch/internal/geometry"
)

// Resolved is a reported structure with its centroid in centimeters.
type Resolved struct {
	// Label is the report label, "Seed 1", "Seed 2", ... in output order.
	Label     string
	ROIName   string
	ROINumber int
	// Target is the matched target name; empty for operator selections.
	Target   string
	Centroid geometry.Point
}

// Resolver turns a structure set into the ordered list of reported
// structures.
type Resolver struct {
	targets  []Target
	selector Selector
	log      *log.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTargets replaces DefaultTargets.
func WithTargets(targets []Target) Option {
	return func(r *Resolver) { r.targets = targets }
}

// WithSelector enables interactive mode: when no target matches, the
// selector is asked to pick structures.
func WithSelector(s Selector) Option {
	return func(r *Resolver) { r.selector = s }
}

// NewResolver creates a resolver logging to logger.
func NewResolver(logger *log.Logger, opts ...Option) *Resolver {
	r := &Resolver{targets: DefaultTargets, log: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Interactive reports whether the resolver falls back to operator selection.
func (r *Resolver) Interactive() bool {
	return r.selector != nil
}

type pick struct {
	index  int
	target string
}

// Resolve returns the reported structures of ss, in target order or in the
// operator's selection order. ROIs without contour points are skipped. An
// empty result with a nil error means nothing should be reported.
func (r *Resolver) Resolve(ctx context.Context, ss *dicom.StructureSet) ([]Resolved, error) {
	names := ss.Names()

	var picks []pick
	bindings := Match(r.targets, names)
	for _, b := range bindings {
		picks = append(picks, pick{index: b.Index, target: b.Target.Name})
	}

	if len(bindings) == 0 {
		if r.selector == nil || len(names) == 0 {
			r.log.Warn("no target structures matched", "patient", ss.PatientID, "structures", names)
			return nil, nil
		}
		r.log.Info("no target structures matched, asking operator", "patient", ss.PatientID, "structures", len(names))
		sel, err := r.selector.Select(ctx, names)
		if err != nil {
			return nil, fmt.Errorf("select structures: %w", err)
		}
		if sel.Skip {
			r.log.Info("operator skipped structure selection", "patient", ss.PatientID)
		}
		for _, i := range sel.Resolve(len(names)) {
			picks = append(picks, pick{index: i})
		}
	}

	out := make([]Resolved, 0, len(picks))
	for _, p := range picks {
		roi := ss.ROIs[p.index]
		c, err := geometry.Centroid(roi.Contours)
		if errors.Is(err, geometry.ErrNoContourData) {
			r.log.Warn("structure has no contour points, skipping", "patient", ss.PatientID, "roi", roi.Name)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("centroid of %s: %w", roi.Name, err)
		}
		out = append(out, Resolved{
			Label:     fmt.Sprintf("Seed %d", len(out)+1),
			ROIName:   roi.Name,
			ROINumber: roi.Number,
			Target:    p.target,
			Centroid:  c.ToCM(),
		})
		r.log.Debug("resolved structure", "patient", ss.PatientID, "roi", roi.Name, "target", p.target, "centroid_cm", c.ToCM())
	}
	return out, nil
}
