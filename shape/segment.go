package shape

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Segment is the bounded line between Start and End.
type Segment struct {
	Start mgl64.Vec3
	End   mgl64.Vec3
}

// NewSegment returns the segment from start to end.
func NewSegment(start, end mgl64.Vec3) Segment {
	return Segment{Start: start, End: end}
}

// Center returns the midpoint of the segment.
func (s Segment) Center() mgl64.Vec3 {
	return s.Start.Add(s.End).Mul(0.5)
}

// Delta returns End - Start.
func (s Segment) Delta() mgl64.Vec3 {
	return s.End.Sub(s.Start)
}

// DistanceSq returns the squared length of the segment.
func (s Segment) DistanceSq() float64 {
	return s.Delta().LenSqr()
}

// Distance returns the length of the segment.
func (s Segment) Distance() float64 {
	return s.Delta().Len()
}

// At returns Start + t*(End-Start).
func (s Segment) At(t float64) mgl64.Vec3 {
	return s.Start.Add(s.Delta().Mul(t))
}

// ClosestPointToPointParameter returns the parameter t of the point of the line closest
// to point, clamped to [0,1] when clamp is set. A zero-length segment returns 0.
func (s Segment) ClosestPointToPointParameter(point mgl64.Vec3, clamp bool) float64 {
	delta := s.Delta()
	lenSq := delta.LenSqr()
	if lenSq == 0 {
		return 0
	}

	t := point.Sub(s.Start).Dot(delta) / lenSq
	if clamp {
		t = mgl64.Clamp(t, 0, 1)
	}
	return t
}

// ClosestPointToPoint returns the point of the line closest to point, restricted to the
// segment when clamp is set.
func (s Segment) ClosestPointToPoint(point mgl64.Vec3, clamp bool) mgl64.Vec3 {
	return s.At(s.ClosestPointToPointParameter(point, clamp))
}

// ApplyMatrix4 transforms both endpoints by m.
func (s *Segment) ApplyMatrix4(m mgl64.Mat4) {
	s.Start = mgl64.TransformCoordinate(s.Start, m)
	s.End = mgl64.TransformCoordinate(s.End, m)
}

// Equals reports whether both endpoints match exactly.
func (s Segment) Equals(other Segment) bool {
	return s.Start == other.Start && s.End == other.End
}
