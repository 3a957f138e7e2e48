package edgecases

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// LOMaxLength is the value limit of the LO and PN components that carry
// patient names and IDs.
const LOMaxLength = 64

var (
	accentedGivenNamesM = []string{
		"Jean-Pierre", "François", "André", "José", "Ángel",
		"Søren", "Björn", "Łukasz", "Jürgen", "Seán",
	}
	accentedGivenNamesF = []string{
		"Marie-Claire", "Françoise", "Éléonore", "María", "Ángela",
		"Siân", "Zoë", "Renée", "Hélène", "Núria",
	}
	accentedFamilyNames = []string{
		"Müller-Schmidt", "O'Connor", "D'Agostino", "García-López",
		"Björnsson", "Østergaard", "Çelik", "Škvorecký",
		"N'Diaye", "Pérez-Rodríguez",
	}

	longFamilyNames = []string{
		"ALEXANDROPOULOSWILLIAMSONBERG",
		"VANDENBERGHEMONTGOMERYSMITH",
		"CHRISTODOULOPOULOSSMITHBAUER",
		"MCCARTHYWILKINSONTHOMPSON",
	}
	longGivenNames = []string{
		"ALEXANDERMAXIMILIANWILLIAM",
		"ELIZABETHCATHERINEANNAMARIE",
		"MARGARETISABELLAVICTORIAJANE",
		"BENJAMINFREDERICKNATHANJOHN",
	}
)

func pick(pool []string, rng *rand.Rand) string {
	return pool[rng.IntN(len(pool))]
}

// GenerateSpecialCharName returns a "Family^Given" name with accents,
// apostrophes or hyphens. These reach the second line of the report as is.
func GenerateSpecialCharName(sex string, rng *rand.Rand) string {
	given := accentedGivenNamesF
	if sex == "M" {
		given = accentedGivenNamesM
	}
	family := pick(accentedFamilyNames, rng)
	return family + "^" + pick(given, rng)
}

// GenerateLongPatientName returns a name of at least 50 and at most
// LOMaxLength characters.
func GenerateLongPatientName(rng *rand.Rand) string {
	name := pick(longFamilyNames, rng) + "^" + pick(longGivenNames, rng)
	if len(name) > LOMaxLength {
		name = name[:LOMaxLength]
	}
	return name
}

// GenerateLongPatientID returns an alphanumeric ID of exactly LOMaxLength
// characters. The report folder and file names embed it twice.
func GenerateLongPatientID(rng *rand.Rand) string {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	var sb strings.Builder
	sb.Grow(LOMaxLength)
	for sb.Len() < LOMaxLength {
		sb.WriteByte(alphabet[rng.IntN(len(alphabet))])
	}
	return sb.String()
}

// IDFormat is a site convention for patient identifiers.
type IDFormat int

const (
	IDDashed     IDFormat = iota // 123-456-789
	IDAlternated                 // A1B2C3D4E5
	IDSpaced                     // PAT 12345 67
	IDSlashed                    // RT/2024/0042
	IDMixed                      // PT-2024-ABC 123

	idFormatCount = 5
)

// GenerateVariedPatientID formats an identifier in the given convention.
// Slashes and spaces are the interesting ones: both end up in file names.
func GenerateVariedPatientID(format IDFormat, rng *rand.Rand) string {
	letter := func() byte { return 'A' + byte(rng.IntN(26)) }

	switch format {
	case IDDashed:
		return fmt.Sprintf("%03d-%03d-%03d", rng.IntN(1000), rng.IntN(1000), rng.IntN(1000))
	case IDAlternated:
		b := make([]byte, 10)
		for i := range b {
			if i%2 == 0 {
				b[i] = letter()
			} else {
				b[i] = '0' + byte(rng.IntN(10))
			}
		}
		return string(b)
	case IDSpaced:
		return fmt.Sprintf("PAT %05d %02d", rng.IntN(100000), rng.IntN(100))
	case IDSlashed:
		return fmt.Sprintf("RT/%04d/%04d", 2000+rng.IntN(30), rng.IntN(10000))
	case IDMixed:
		return fmt.Sprintf("PT-%04d-%c%c%c %03d", rng.IntN(10000), letter(), letter(), letter(), rng.IntN(1000))
	default:
		return fmt.Sprintf("PAT%06d", rng.IntN(1000000))
	}
}

// GenerateRandomVariedPatientID picks a convention at random.
func GenerateRandomVariedPatientID(rng *rand.Rand) string {
	return GenerateVariedPatientID(IDFormat(rng.IntN(idFormatCount)), rng)
}
