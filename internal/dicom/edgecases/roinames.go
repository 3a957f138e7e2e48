package edgecases

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// fiducialSpellings keep the keyword directly followed by the number, with
// at most one space, so the default target table still binds them.
var fiducialSpellings = []string{
	"%s%d",
	"%s %d",
	"%s%d_final",
	"Prostate %s %d",
	"%s %d (fid)",
}

var unlabelledFormats = []string{
	"Marker %c",
	"Clip %c",
	"FM_%c",
}

// CanonicalFiducialName is the name the generator uses without edge cases.
func CanonicalFiducialName(prefix string, n int) string {
	return fmt.Sprintf("%s %d", prefix, n)
}

// GenerateFiducialSpelling returns a recognizable but non-canonical spelling
// of the n-th fiducial, in upper, lower or original case.
func GenerateFiducialSpelling(prefix string, n int, rng *rand.Rand) string {
	name := fmt.Sprintf(fiducialSpellings[rng.IntN(len(fiducialSpellings))], prefix, n)
	switch rng.IntN(3) {
	case 0:
		return strings.ToUpper(name)
	case 1:
		return strings.ToLower(name)
	default:
		return name
	}
}

// GenerateUnlabelledMarker returns a marker name carrying neither keyword.
// Markers are lettered so their numbers cannot be mistaken for target ones.
func GenerateUnlabelledMarker(n int, rng *rand.Rand) string {
	return fmt.Sprintf(unlabelledFormats[rng.IntN(len(unlabelledFormats))], 'A'+rune(n-1))
}
