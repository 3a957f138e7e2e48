package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/mrsinham/centroidwatch/internal/geometry"
	"github.com/mrsinham/centroidwatch/internal/structures"
)

// ErrMalformed is returned when a report does not follow the line format.
var ErrMalformed = errors.New("malformed report")

var lineRe = regexp.MustCompile(`^(.+), X= (-?[0-9.]+), Y= (-?[0-9.]+), Z= (-?[0-9.]+)$`)

// Parse reads a rendered report back. Coordinates keep the two decimals they
// were written with; ROI names and targets are not part of the format.
func Parse(rd io.Reader) (*Report, error) {
	sc := bufio.NewScanner(rd)
	var lines []string
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	// The patient name line may be blank; trailing blank lines are not part
	// of the format.
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) < 3 {
		return nil, fmt.Errorf("%w: %d lines", ErrMalformed, len(lines))
	}

	r := &Report{PatientID: lines[0], PatientName: lines[1]}
	body, last := lines[2:len(lines)-1], lines[len(lines)-1]

	for _, line := range body {
		label, p, err := parseLine(line)
		if err != nil {
			return nil, err
		}
		r.Structures = append(r.Structures, structures.Resolved{Label: label, Centroid: p})
	}

	if last != NoIsocenterLine {
		label, p, err := parseLine(last)
		if err != nil {
			return nil, err
		}
		if label != isocenterLabel {
			return nil, fmt.Errorf("%w: last line %q", ErrMalformed, last)
		}
		r.Isocenter = &p
	}
	return r, nil
}

// ParseFile parses the report at path.
func ParseFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func parseLine(line string) (string, geometry.Point, error) {
	m := lineRe.FindStringSubmatch(line)
	if m == nil {
		return "", geometry.Point{}, fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	var v [3]float64
	for i := range v {
		f, err := strconv.ParseFloat(m[i+2], 64)
		if err != nil {
			return "", geometry.Point{}, fmt.Errorf("%w: %q: %v", ErrMalformed, line, err)
		}
		v[i] = f
	}
	return m[1], geometry.Point{X: v[0], Y: v[1], Z: v[2]}, nil
}
