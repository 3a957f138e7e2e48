package dicom

import (
	"fmt"
	"math"
	randv2 "math/rand/v2"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/mrsinham/centroidwatch/internal/dicom/edgecases"
	"github.com/mrsinham/centroidwatch/internal/geometry"
	"github.com/mrsinham/centroidwatch/internal/util"
)

// SynthOptions configures synthetic RTSTRUCT/RTPLAN generation.
type SynthOptions struct {
	OutputDir   string
	NumPatients int
	// Seed makes the output reproducible. 0 picks a time-based seed.
	Seed int64
	// NumFiducials is the number of implanted markers per patient (1-3).
	NumFiducials int
	// GoldMarkers names fiducials "Au N" instead of "Seed N".
	GoldMarkers bool
	// NumBeams is the number of beams in each plan.
	NumBeams int
	// OmitIsocenter writes plans without any IsocenterPosition.
	OmitIsocenter bool
	// EdgeCases perturbs a share of the patients. Edge cases draw from their
	// own RNG, so enabling them does not move the geometry of a seeded run.
	EdgeCases edgecases.Config
}

// Validate checks if options are valid
func (o *SynthOptions) Validate() error {
	if o.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if o.NumPatients <= 0 {
		return fmt.Errorf("number of patients must be > 0, got %d", o.NumPatients)
	}
	if o.NumFiducials < 1 || o.NumFiducials > 3 {
		return fmt.Errorf("number of fiducials must be between 1 and 3, got %d", o.NumFiducials)
	}
	if o.NumBeams < 0 {
		return fmt.Errorf("number of beams must be >= 0, got %d", o.NumBeams)
	}
	return o.EdgeCases.Validate()
}

// GeneratedPair describes one synthetic patient written to disk.
type GeneratedPair struct {
	PatientID        string
	PatientName      string
	StructureSetPath string
	PlanPath         string
	// EdgeCase is the edge case applied to this patient, "" for none.
	EdgeCase edgecases.EdgeCaseType
	// FiducialNames are the ROI names given to the fiducials.
	FiducialNames []string
	// Fiducials holds the expected centroid of each fiducial ROI in mm.
	Fiducials []geometry.Point
	// Isocenter is nil when the plan was written without one.
	Isocenter *geometry.Point
	BeamNames []string
}

// fiducialRadius and fiducialSlices shape the small contour drawn around
// each marker center.
const (
	fiducialRadius = 1.5
	fiducialSlices = 3
	circlePoints   = 8
)

// GenerateRTPairs writes one RTSTRUCT and one RTPLAN per synthetic patient.
func GenerateRTPairs(opts SynthOptions) ([]GeneratedPair, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := randv2.New(randv2.NewPCG(uint64(seed), uint64(seed)))
	edges := edgecases.NewApplicator(opts.EdgeCases, randv2.New(randv2.NewPCG(uint64(seed), uint64(seed)+1)))

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	pairs := make([]GeneratedPair, 0, opts.NumPatients)
	for i := 0; i < opts.NumPatients; i++ {
		sex := "F"
		if rng.IntN(2) == 0 {
			sex = "M"
		}
		pair := GeneratedPair{
			PatientID:   util.GeneratePatientID(rng),
			PatientName: util.GeneratePatientName(sex, rng),
			EdgeCase:    edges.Next(),
		}
		pair.PatientID = edges.PatientID(pair.EdgeCase, pair.PatientID)
		pair.PatientName = edges.PatientName(pair.EdgeCase, sex, pair.PatientName)

		naming := func(prefix string, n int) string { return edges.FiducialName(pair.EdgeCase, prefix, n) }
		ss, fiducials := synthStructureSet(pair.PatientID, pair.PatientName, opts, naming, rng)
		pair.Fiducials = fiducials
		for _, roi := range ss.ROIs[1 : 1+len(fiducials)] {
			pair.FiducialNames = append(pair.FiducialNames, roi.Name)
		}

		plan := synthPlan(pair.PatientID, pair.PatientName, fiducials, opts)
		for _, b := range plan.Beams {
			pair.BeamNames = append(pair.BeamNames, b.Name)
		}
		if !opts.OmitIsocenter && len(plan.Beams) > 0 {
			pair.Isocenter = plan.Beams[0].ControlPoints[0].Isocenter
		}

		pair.StructureSetPath = filepath.Join(opts.OutputDir, fmt.Sprintf("RS.%s.dcm", fileSafe(pair.PatientID)))
		pair.PlanPath = filepath.Join(opts.OutputDir, fmt.Sprintf("RP.%s.dcm", fileSafe(pair.PatientID)))
		if err := WriteStructureSet(pair.StructureSetPath, ss); err != nil {
			return pairs, err
		}
		if err := WritePlan(pair.PlanPath, plan); err != nil {
			return pairs, err
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// fileSafe maps a patient ID onto a portable file name component.
func fileSafe(id string) string {
	return unsafeFileChars.ReplaceAllString(id, "_")
}

func synthStructureSet(patientID, patientName string, opts SynthOptions, naming func(string, int) string, rng *randv2.Rand) (*StructureSet, []geometry.Point) {
	ss := &StructureSet{PatientID: patientID, PatientName: patientName}

	// A body outline comes first, the way planning systems order ROIs.
	ss.ROIs = append(ss.ROIs, ROI{
		Number:   1,
		Name:     "BODY",
		Contours: [][]geometry.Point{square(0, 0, -20, 150), square(0, 0, 0, 150), square(0, 0, 20, 150)},
	})

	prefix := "Seed"
	if opts.GoldMarkers {
		prefix = "Au"
	}

	fiducials := make([]geometry.Point, 0, opts.NumFiducials)
	for i := 1; i <= opts.NumFiducials; i++ {
		center := geometry.Point{
			X: roundTo(rng.Float64()*60-30, 1),
			Y: roundTo(rng.Float64()*60-30, 1),
			Z: roundTo(rng.Float64()*40-20, 1),
		}
		fiducials = append(fiducials, center)
		ss.ROIs = append(ss.ROIs, ROI{
			Number:   len(ss.ROIs) + 1,
			Name:     naming(prefix, i),
			Contours: marker(center),
		})
	}

	// Defined but never drawn.
	ss.ROIs = append(ss.ROIs, ROI{Number: len(ss.ROIs) + 1, Name: "PTV"})
	return ss, fiducials
}

func synthPlan(patientID, patientName string, fiducials []geometry.Point, opts SynthOptions) *Plan {
	var iso *geometry.Point
	if !opts.OmitIsocenter {
		c, _ := geometry.Centroid([][]geometry.Point{fiducials})
		iso = &geometry.Point{X: roundTo(c.X, 1), Y: roundTo(c.Y, 1), Z: roundTo(c.Z, 1)}
	}

	p := &Plan{PatientID: patientID, PatientName: patientName}
	for b := 1; b <= opts.NumBeams; b++ {
		beam := Beam{Number: b, Name: fmt.Sprintf("Arc%d", b)}
		// Only the first control point carries the isocenter; later ones
		// inherit it, as in exported plans.
		beam.ControlPoints = []ControlPoint{{Index: 0, Isocenter: iso}, {Index: 1}}
		p.Beams = append(p.Beams, beam)
	}
	return p
}

// marker draws circles of fiducialRadius on fiducialSlices slices centered
// on c. The point cloud is symmetric, so its centroid is c.
func marker(c geometry.Point) [][]geometry.Point {
	slices := make([][]geometry.Point, 0, fiducialSlices)
	for s := 0; s < fiducialSlices; s++ {
		z := c.Z + float64(s-fiducialSlices/2)*fiducialRadius
		contour := make([]geometry.Point, 0, circlePoints)
		for k := 0; k < circlePoints; k++ {
			angle := 2 * math.Pi * float64(k) / circlePoints
			contour = append(contour, geometry.Point{
				X: c.X + fiducialRadius*math.Cos(angle),
				Y: c.Y + fiducialRadius*math.Sin(angle),
				Z: z,
			})
		}
		slices = append(slices, contour)
	}
	return slices
}

func square(cx, cy, z, side float64) []geometry.Point {
	h := side / 2
	return []geometry.Point{
		{X: cx - h, Y: cy - h, Z: z},
		{X: cx + h, Y: cy - h, Z: z},
		{X: cx + h, Y: cy + h, Z: z},
		{X: cx - h, Y: cy + h, Z: z},
	}
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
