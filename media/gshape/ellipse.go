package gshape

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultMinSegments   = 16
	DefaultSegmentLength = 6.0
)

// SegmentCount is the number of outline points for an ellipse: one per
// segmentLen of the circumference of the circle on the larger radius, never
// fewer than minSegments.
func SegmentCount(rx float32, ry float32, minSegments int, segmentLen float32) int {

	maxLen := float64(mgl32.Abs(rx))
	if r := float64(mgl32.Abs(ry)); r > maxLen {
		maxLen = r
	}
	maxLen *= 2 * math.Pi

	n := minSegments
	if segmentLen > 0 {
		if m := int(math.Ceil(maxLen / float64(segmentLen))); m > n {
			n = m
		}
	}

	return n
}

// Ellipse returns the outline points of an ellipse with radii rx, ry centred on
// the origin, counter-clockwise starting at (rx, 0). The points are the
// perimeter of a triangle fan.
func Ellipse(rx float32, ry float32, minSegments int, segmentLen float32) []mgl32.Vec2 {

	n := SegmentCount(rx, ry, minSegments, segmentLen)
	if n < 1 {
		return nil
	}

	step := 2 * math.Pi / float64(n)
	scos := math.Cos(step)
	ssin := math.Sin(step)

	// rotate (cos, sin) by one step per point instead of calling trig n times
	pcos := scos
	psin := -ssin

	points := make([]mgl32.Vec2, n)
	for i := range points {
		x := pcos*scos - psin*ssin
		y := psin*scos + pcos*ssin
		pcos = x
		psin = y
		points[i] = mgl32.Vec2{float32(x) * rx, float32(y) * ry}
	}

	return points
}
