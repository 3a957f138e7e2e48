package geometry

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func pointsEqual(a, b Point) bool {
	return almostEqual(a.X, b.X) && almostEqual(a.Y, b.Y) && almostEqual(a.Z, b.Z)
}

func TestCentroid(t *testing.T) {
	tests := []struct {
		name   string
		slices [][]Point
		want   Point
	}{
		{
			name:   "single point",
			slices: [][]Point{{{X: 1.5, Y: -2, Z: 7}}},
			want:   Point{X: 1.5, Y: -2, Z: 7},
		},
		{
			name:   "two points on x axis",
			slices: [][]Point{{{X: 0}, {X: 10}}},
			want:   Point{X: 5},
		},
		{
			name: "unequal slices are not weighted",
			slices: [][]Point{
				{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 0}},
				{{X: 4, Y: 4, Z: 4}},
			},
			want: Point{X: 1, Y: 1, Z: 1},
		},
		{
			name: "empty slice among populated ones",
			slices: [][]Point{
				{},
				{{X: 2, Y: 4, Z: 6}, {X: 4, Y: 8, Z: 12}},
			},
			want: Point{X: 3, Y: 6, Z: 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Centroid(tt.slices)
			if err != nil {
				t.Fatalf("Centroid() error = %v", err)
			}
			if !pointsEqual(got, tt.want) {
				t.Errorf("Centroid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCentroid_NoData(t *testing.T) {
	for _, slices := range [][][]Point{nil, {}, {{}, {}}} {
		if _, err := Centroid(slices); !errors.Is(err, ErrNoContourData) {
			t.Errorf("Centroid(%v) error = %v, want ErrNoContourData", slices, err)
		}
	}
}

func TestCentroid_SliceOrderInvariant(t *testing.T) {
	a := []Point{{X: 1, Y: 2, Z: 3}, {X: -4, Y: 5, Z: 0.5}}
	b := []Point{{X: 10, Y: -1, Z: 2}}
	c := []Point{{X: 0.25, Y: 0.75, Z: -8}, {X: 3, Y: 3, Z: 3}, {X: 7, Y: 1, Z: 9}}

	want, err := Centroid([][]Point{a, b, c})
	if err != nil {
		t.Fatal(err)
	}
	for _, order := range [][][]Point{{c, b, a}, {b, a, c}, {c, a, b}} {
		got, err := Centroid(order)
		if err != nil {
			t.Fatal(err)
		}
		if !pointsEqual(got, want) {
			t.Errorf("Centroid() = %v after reordering, want %v", got, want)
		}
	}
}

func TestPoint_ToCM(t *testing.T) {
	got := Point{X: 50, Y: -12.5, Z: 0}.ToCM()
	want := Point{X: 5, Y: -1.25, Z: 0}
	if !pointsEqual(got, want) {
		t.Errorf("ToCM() = %v, want %v", got, want)
	}
}

func TestPointsFromFlat(t *testing.T) {
	points, err := PointsFromFlat([]float64{0, 0, 0, 10, 0, 0})
	if err != nil {
		t.Fatalf("PointsFromFlat() error = %v", err)
	}
	if len(points) != 2 || points[1].X != 10 {
		t.Errorf("PointsFromFlat() = %v", points)
	}

	if _, err := PointsFromFlat([]float64{1, 2}); err == nil {
		t.Error("PointsFromFlat() with 2 values should fail")
	}

	round := Flatten(points)
	if len(round) != 6 || round[3] != 10 {
		t.Errorf("Flatten() = %v", round)
	}
}
