package gshape

import (
	"math"
	"testing"
)

func TestSegmentCount(t *testing.T) {
	tests := []struct {
		name       string
		rx, ry     float32
		minSeg     int
		segmentLen float32
		want       int
	}{
		{"small circle uses minimum", 4, 4, 16, 6, 16},
		{"default circle", 40, 40, 16, 6, 42},
		{"larger radius wins", 10, 40, 16, 6, 42},
		{"negative radius", -40, 10, 16, 6, 42},
		{"zero segment length", 100, 100, 16, 0, 16},
		{"zero radius", 0, 0, 8, 6, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SegmentCount(tt.rx, tt.ry, tt.minSeg, tt.segmentLen); got != tt.want {
				t.Errorf("SegmentCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEllipsePoints(t *testing.T) {
	tests := []struct {
		name   string
		rx, ry float32
	}{
		{"circle", 40, 40},
		{"wide", 120, 30},
		{"tall", 15, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := Ellipse(tt.rx, tt.ry, DefaultMinSegments, DefaultSegmentLength)

			want := SegmentCount(tt.rx, tt.ry, DefaultMinSegments, DefaultSegmentLength)
			if len(points) != want {
				t.Fatalf("len(points) = %d, want %d", len(points), want)
			}

			first := points[0]
			if math.Abs(float64(first[0]-tt.rx)) > 1e-3 || math.Abs(float64(first[1])) > 1e-3 {
				t.Errorf("first point = %v, want (%v, 0)", first, tt.rx)
			}

			var area float64
			for i, p := range points {
				x := float64(p[0] / tt.rx)
				y := float64(p[1] / tt.ry)
				if r := x*x + y*y; math.Abs(r-1) > 1e-3 {
					t.Errorf("point %d = %v is off the ellipse (r=%v)", i, p, r)
				}

				q := points[(i+1)%len(points)]
				area += float64(p[0]*q[1] - q[0]*p[1])
			}

			if area <= 0 {
				t.Errorf("points wind clockwise, signed area = %v", area/2)
			}
		})
	}
}
