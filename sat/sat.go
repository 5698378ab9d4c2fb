// Package sat is the narrow phase: exact collision tests between pairs of
// placed shapes using the separating axis theorem.
//
// A test that reports a collision has already pushed the two bodies apart
// along the contact normal, so the returned contact describes the resolved
// configuration.
package sat

import (
	"github.com/akmonengine/rigid/actor"
	"github.com/akmonengine/rigid/constraint"
	"github.com/akmonengine/rigid/hull"
	"github.com/go-gl/mathgl/mgl64"
)

// axisEpsilon is the shortest direction still usable as a separating axis.
const axisEpsilon = 1e-9

// Plane is the set of points x with Normal . (x - Point) = 0.
type Plane struct {
	Point  mgl64.Vec3
	Normal mgl64.Vec3
}

func NewPlane(point, normal mgl64.Vec3) Plane {
	return Plane{Point: point, Normal: normal}
}

// Distance is the signed distance of p, positive on the side Normal points to.
func (p Plane) Distance(point mgl64.Vec3) float64 {
	return p.Normal.Dot(point.Sub(p.Point))
}

// Collide runs the narrow phase test matching the shape pair of a and b.
// On collision both bodies have been moved out of penetration and the contact
// normal points from contact.BodyB toward contact.BodyA.
func Collide(a, b *actor.RigidBody) (constraint.Contact, bool) {
	typeA := a.Shape.Type
	typeB := b.Shape.Type

	switch {
	case typeA == actor.ShapeTypeSphere && typeB == actor.ShapeTypeSphere:
		return collideSpheres(a, b)
	case typeA == actor.ShapeTypeSphere && typeB == actor.ShapeTypePlane:
		return collidePlaneSphere(b, a)
	case typeA == actor.ShapeTypeSphere:
		return collideHullSphere(b, a)
	case typeB == actor.ShapeTypeSphere && typeA == actor.ShapeTypePlane:
		return collidePlaneSphere(a, b)
	case typeB == actor.ShapeTypeSphere:
		return collideHullSphere(a, b)
	default:
		return collideHulls(a, b)
	}
}

// pushOut separates two bodies by depth along normal, which points toward a.
// The push is shared when both bodies can move.
func pushOut(a, b *actor.RigidBody, normal mgl64.Vec3, depth float64) {
	push := normal.Mul(depth)
	if !a.IsStatic() && !b.IsStatic() {
		push = push.Mul(0.5)
	}

	if !a.IsStatic() {
		a.Translate(push)
		a.UpdateAABB()
	}
	if !b.IsStatic() {
		b.Translate(push.Mul(-1))
		b.UpdateAABB()
	}
}

// facePlane returns the world space plane of a hull face.
func facePlane(h *hull.Hull, f hull.FaceID, transform actor.Transform) Plane {
	face := h.Face(f)
	anchor := h.Vertex(h.Edge(face.Edge).Tail).Position
	return NewPlane(transform.Apply(anchor), transform.Rotation.Mul3x1(face.Normal))
}
