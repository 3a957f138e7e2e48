// Package geometry computes centroids of contour point clouds in patient coordinates.
package geometry

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// ErrNoContourData is returned when a structure has no contour points at all.
var ErrNoContourData = errors.New("no contour data")

// Point is a position in DICOM patient coordinates.
type Point struct {
	X, Y, Z float64
}

// String formats the point with two decimals per axis.
func (p Point) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", p.X, p.Y, p.Z)
}

// ToCM converts a point expressed in millimeters to centimeters.
func (p Point) ToCM() Point {
	return Point{X: p.X / 10.0, Y: p.Y / 10.0, Z: p.Z / 10.0}
}

// Centroid returns the per-axis arithmetic mean of every point across all
// slices. Slices are flattened first, so the result is the centroid of the
// point cloud and not of the enclosed volume.
func Centroid(slices [][]Point) (Point, error) {
	n := 0
	for _, s := range slices {
		n += len(s)
	}
	if n == 0 {
		return Point{}, ErrNoContourData
	}

	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	zs := make([]float64, 0, n)
	for _, s := range slices {
		for _, p := range s {
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
			zs = append(zs, p.Z)
		}
	}

	return Point{
		X: stat.Mean(xs, nil),
		Y: stat.Mean(ys, nil),
		Z: stat.Mean(zs, nil),
	}, nil
}

// PointsFromFlat converts a flat x,y,z,x,y,z... list (the ContourData layout)
// into points.
func PointsFromFlat(values []float64) ([]Point, error) {
	if len(values)%3 != 0 {
		return nil, fmt.Errorf("coordinate count %d is not a multiple of 3", len(values))
	}
	points := make([]Point, 0, len(values)/3)
	for i := 0; i < len(values); i += 3 {
		points = append(points, Point{X: values[i], Y: values[i+1], Z: values[i+2]})
	}
	return points, nil
}

// Flatten is the inverse of PointsFromFlat.
func Flatten(points []Point) []float64 {
	out := make([]float64, 0, len(points)*3)
	for _, p := range points {
		out = append(out, p.X, p.Y, p.Z)
	}
	return out
}
