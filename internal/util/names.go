// Package util provides helpers shared by the synthetic RT data generator and
// the DICOM writer.
package util

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"time"
)

// Package-level default RNG to avoid allocations when rng is nil
var defaultRNG = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))

var (
	// MaleFirstNames is the pool of male first names used for synthetic patients.
	MaleFirstNames = []string{
		"James", "John", "Robert", "Michael", "William", "David", "Richard", "Thomas",
		"Daniel", "Matthew", "Anthony", "Mark", "Paul", "Andrew", "Kevin", "George",
		"Pierre", "Jean", "Louis", "Antoine", "Nicolas", "Julien",
	}

	// FemaleFirstNames is the pool of female first names used for synthetic patients.
	FemaleFirstNames = []string{
		"Mary", "Patricia", "Jennifer", "Linda", "Elizabeth", "Susan", "Sarah", "Karen",
		"Emily", "Margaret", "Laura", "Rachel", "Helen", "Anna",
		"Marie", "Camille", "Chloe", "Manon", "Juliette", "Claire",
	}

	// LastNames is the pool of last names used for synthetic patients.
	LastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Miller", "Davis", "Wilson",
		"Taylor", "Anderson", "Thomas", "Moore", "Martin", "Clark", "Lewis", "Walker",
		"Bernard", "Dubois", "Durand", "Lefebvre", "Moreau", "Laurent", "Fournier",
	}
)

// GeneratePatientName generates a patient name based on sex.
//
// Sex should be "M" or "F". Invalid values default to "F".
// If rng is nil, uses shared default RNG.
// Returns name in DICOM format: "LASTNAME^FIRSTNAME"
func GeneratePatientName(sex string, rng *rand.Rand) string {
	if rng == nil {
		rng = defaultRNG
	}

	var firstName string
	if sex == "M" {
		firstName = MaleFirstNames[rng.IntN(len(MaleFirstNames))]
	} else {
		firstName = FemaleFirstNames[rng.IntN(len(FemaleFirstNames))]
	}
	lastName := LastNames[rng.IntN(len(LastNames))]

	// DICOM format: LASTNAME^FIRSTNAME
	return lastName + "^" + firstName
}

// GeneratePatientID returns a hospital-style numeric identifier such as
// "KIM004512".
func GeneratePatientID(rng *rand.Rand) string {
	if rng == nil {
		rng = defaultRNG
	}
	return fmt.Sprintf("KIM%06d", rng.IntN(1_000_000))
}

// DeterministicUID derives a DICOM UID from seed under the 2.25 root, so the
// same input always yields the same UID.
func DeterministicUID(seed string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	return fmt.Sprintf("2.25.%d", h.Sum64())
}
