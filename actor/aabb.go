package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y() &&
		point.Z() >= a.Min.Z() && point.Z() <= a.Max.Z()
}

// Overlaps checks if two AABBs overlap. Touching boxes overlap.
func (a AABB) Overlaps(other AABB) bool {
	for k := range 3 {
		if !a.Axis(k).Overlaps(other.Axis(k)) {
			return false
		}
	}
	return true
}

// Axis returns the extent of the box along world axis k (0, 1 or 2).
func (a AABB) Axis(k int) Interval {
	return Interval{Min: a.Min[k], Max: a.Max[k]}
}

// Interval is a closed range of scalar projections on an axis.
type Interval struct {
	Min, Max float64
}

// Overlaps reports whether two closed intervals share at least one point.
// It is symmetric.
func (i Interval) Overlaps(other Interval) bool {
	return !(i.Max < other.Min || other.Max < i.Min)
}

// Depth is the penetration of two overlapping intervals: the distance the
// lower one has to move down to stop overlapping the other.
func (i Interval) Depth(other Interval) float64 {
	if i.Min < other.Min {
		return math.Abs(i.Max - other.Min)
	}
	return math.Abs(other.Max - i.Min)
}
