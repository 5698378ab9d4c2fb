package actor

import (
	"errors"
	"fmt"
	"math"

	"github.com/akmonengine/rigid/hull"
	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType represents the type of collision shape
type ShapeType int

const (
	ShapeTypeSphere ShapeType = iota
	ShapeTypeHull
	ShapeTypePlane
)

func (t ShapeType) String() string {
	switch t {
	case ShapeTypeSphere:
		return "sphere"
	case ShapeTypeHull:
		return "hull"
	case ShapeTypePlane:
		return "plane"
	default:
		return fmt.Sprintf("ShapeType(%d)", int(t))
	}
}

var (
	ErrInvalidRadius = errors.New("actor: sphere radius must be positive and finite")
	ErrNilHull       = errors.New("actor: nil hull")
	ErrOpenHull      = errors.New("actor: hull is not finalized")
)

// Shape is the collision geometry of a body. It is a closed set of variants:
// a sphere uses Radius, a convex hull and a bounded plane use Hull. A bounded
// plane is a hull whose dominant face, PlaneFace, is the walkable surface.
//
// Shapes are immutable and shared: many bodies may reference one Shape.
type Shape struct {
	Type      ShapeType
	Radius    float64
	Hull      *hull.Hull
	PlaneFace hull.FaceID
}

func NewSphere(radius float64) (*Shape, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRadius, radius)
	}
	return &Shape{Type: ShapeTypeSphere, Radius: radius, PlaneFace: hull.NoFace}, nil
}

func NewConvexHull(h *hull.Hull) (*Shape, error) {
	if err := checkHull(h); err != nil {
		return nil, err
	}
	return &Shape{Type: ShapeTypeHull, Hull: h, PlaneFace: hull.NoFace}, nil
}

// NewBoundedPlane wraps a hull whose largest face becomes the plane surface.
func NewBoundedPlane(h *hull.Hull) (*Shape, error) {
	if err := checkHull(h); err != nil {
		return nil, err
	}

	dominant := hull.FaceID(0)
	for f := 1; f < h.FaceCount(); f++ {
		if h.FaceArea(hull.FaceID(f)) > h.FaceArea(dominant) {
			dominant = hull.FaceID(f)
		}
	}

	return &Shape{Type: ShapeTypePlane, Hull: h, PlaneFace: dominant}, nil
}

func checkHull(h *hull.Hull) error {
	if h == nil {
		return ErrNilHull
	}
	if !h.Finalized() {
		return ErrOpenHull
	}
	return nil
}

// Support returns the world space point of the shape farthest along
// direction. Sphere directions are expected to be unit length.
func (s *Shape) Support(direction mgl64.Vec3, transform Transform) mgl64.Vec3 {
	if s.Type == ShapeTypeSphere {
		return transform.Position.Add(direction.Mul(s.Radius))
	}
	return s.Hull.Support(direction, transform.Position, transform.Rotation)
}

// ProjectionInterval projects the placed shape onto axis.
func (s *Shape) ProjectionInterval(axis mgl64.Vec3, transform Transform) Interval {
	if s.Type == ShapeTypeSphere {
		center := axis.Dot(transform.Position)
		return Interval{Min: center - s.Radius, Max: center + s.Radius}
	}
	lo, hi := s.Hull.ProjectionInterval(axis, transform.Position, transform.Rotation)
	return Interval{Min: lo, Max: hi}
}

// ComputeAABB calculates the axis-aligned bounding box for the shape at the
// given transform
func (s *Shape) ComputeAABB(transform Transform) AABB {
	if s.Type == ShapeTypeSphere {
		r := mgl64.Vec3{s.Radius, s.Radius, s.Radius}
		return AABB{Min: transform.Position.Sub(r), Max: transform.Position.Add(r)}
	}
	lo, hi := s.Hull.Bounds(transform.Position, transform.Rotation)
	return AABB{Min: lo, Max: hi}
}

// MassProperties returns mass, center of mass and body space inertia for the
// given density. A bounded plane encloses no volume and fails unless it is
// made immovable.
func (s *Shape) MassProperties(density float64) (hull.MassProperties, error) {
	if s.Type == ShapeTypeSphere {
		volume := 4.0 / 3.0 * math.Pi * s.Radius * s.Radius * s.Radius
		mass := volume * density
		return hull.MassProperties{
			Mass:    mass,
			Volume:  volume,
			Inertia: mgl64.Ident3().Mul(2.0 / 5.0 * mass * s.Radius * s.Radius),
		}, nil
	}
	return s.Hull.MassProperties(density)
}
