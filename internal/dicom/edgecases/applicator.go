package edgecases

import "math/rand/v2"

// Applicator decides, patient by patient, which edge case to apply and
// produces the perturbed values.
type Applicator struct {
	config Config
	rng    *rand.Rand
}

// NewApplicator creates a new edge case applicator
func NewApplicator(config Config, rng *rand.Rand) *Applicator {
	return &Applicator{config: config, rng: rng}
}

// Next draws the edge case for the next patient. It returns "" when the
// patient is left untouched. A disabled config never consumes the RNG.
func (a *Applicator) Next() EdgeCaseType {
	if !a.config.IsEnabled() {
		return ""
	}
	if a.rng.IntN(100) >= a.config.Percentage {
		return ""
	}
	return a.config.Types[a.rng.IntN(len(a.config.Types))]
}

// PatientName returns the name to use for a patient drawn with t.
func (a *Applicator) PatientName(t EdgeCaseType, sex, original string) string {
	switch t {
	case SpecialChars:
		return GenerateSpecialCharName(sex, a.rng)
	case LongNames:
		return GenerateLongPatientName(a.rng)
	default:
		return original
	}
}

// PatientID returns the identifier to use for a patient drawn with t.
func (a *Applicator) PatientID(t EdgeCaseType, original string) string {
	switch t {
	case VariedIDs:
		return GenerateRandomVariedPatientID(a.rng)
	case LongNames:
		return GenerateLongPatientID(a.rng)
	default:
		return original
	}
}

// FiducialName returns the ROI name of the n-th fiducial (1-based). prefix
// is the canonical keyword ("Seed" or "Au").
func (a *Applicator) FiducialName(t EdgeCaseType, prefix string, n int) string {
	switch t {
	case ROISpellings:
		return GenerateFiducialSpelling(prefix, n, a.rng)
	case UnlabelledMarkers:
		return GenerateUnlabelledMarker(n, a.rng)
	default:
		return CanonicalFiducialName(prefix, n)
	}
}
