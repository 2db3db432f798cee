package wheel

import (
	"math"
)

// Geometry describes the wheel's fixed layout: equal segments indexed
// 0..SegmentCount-1 clockwise, pointer fixed at the top. Segment 0's
// leading edge starts at the pointer, so with zero rotation the pointer
// sits on segment 0's edge, not its center.
type Geometry struct {
	SegmentCount int
}

func DefaultGeometry() Geometry {
	return Geometry{SegmentCount: len(Segments())}
}

func (g Geometry) SegmentAngle() float64 {
	return 360 / float64(g.SegmentCount)
}

// TargetAngle returns the absolute rotation (mod 360) that aligns
// segment i's center with the pointer. Pure: depends only on geometry.
//
// Segment i's midpoint sits at (i*seg - 90 + seg/2) degrees in wheel
// coordinates; rotating by R moves it to (midpoint + R). The pointer is
// at the top (0 degrees), so R = -(midpoint) = 90 - seg/2 - i*seg.
func (g Geometry) TargetAngle(i int) float64 {
	seg := g.SegmentAngle()
	return mod360(90 - seg/2 - float64(i)*seg)
}

// ForwardDelta returns the clockwise travel from the cumulative
// rotation's mod-360 position to target. Travel below two segment
// widths gets a full extra turn so a spin is never imperceptibly short.
func (g Geometry) ForwardDelta(cumulative, target float64) float64 {
	delta := mod360(target - mod360(cumulative))
	if delta < 2*g.SegmentAngle() {
		delta += 360
	}
	return delta
}

func mod360(v float64) float64 {
	m := math.Mod(v, 360)
	if m < 0 {
		m += 360
	}
	return m
}
