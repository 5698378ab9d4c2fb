package sat

import (
	"math"

	"github.com/akmonengine/rigid/actor"
	"github.com/akmonengine/rigid/constraint"
	"github.com/akmonengine/rigid/hull"
	"github.com/go-gl/mathgl/mgl64"
)

func collideSpheres(a, b *actor.RigidBody) (constraint.Contact, bool) {
	positionA := a.Transform.Position
	positionB := b.Transform.Position

	separation := positionB.Sub(positionA).Len() - (a.Shape.Radius + b.Shape.Radius)
	if separation > 0 {
		return constraint.Contact{}, false
	}

	normal := mgl64.Vec3{0, 1, 0}
	if positionA != positionB {
		normal = positionA.Sub(positionB).Normalize()
	}

	depth := math.Abs(separation)
	pushOut(a, b, normal, depth)

	return constraint.Contact{
		BodyA:       a,
		BodyB:       b,
		Point:       b.Transform.Position.Add(normal.Mul(b.Shape.Radius)),
		Normal:      normal,
		Penetration: depth,
	}, true
}

// collideHullSphere tests every hull face plane, then the axes joining the
// sphere center to each edge midpoint, and keeps the axis of least overlap.
func collideHullSphere(hullBody, sphereBody *actor.RigidBody) (constraint.Contact, bool) {
	h := hullBody.Shape.Hull
	transform := hullBody.Transform
	center := sphereBody.Transform.Position
	radius := sphereBody.Shape.Radius

	bestDistance := math.Inf(-1)
	var normal mgl64.Vec3
	for f := range h.FaceCount() {
		plane := facePlane(h, hull.FaceID(f), transform)
		support := center.Sub(plane.Normal.Mul(radius))

		distance := plane.Distance(support)
		if distance > 0 {
			return constraint.Contact{}, false
		}
		if distance > bestDistance {
			bestDistance = distance
			normal = plane.Normal
		}
	}
	if math.IsInf(bestDistance, -1) {
		return constraint.Contact{}, false
	}

	depth := math.Abs(bestDistance)
	for _, id := range h.UniqueEdges() {
		edge := h.Edge(id)
		midpoint := h.Vertex(edge.Tail).Position.Add(h.Vertex(edge.Head).Position).Mul(0.5)
		axis := transform.Apply(midpoint).Sub(center)
		if axis.Len() < axisEpsilon {
			continue
		}
		axis = axis.Normalize()

		hullInterval := hullBody.Shape.ProjectionInterval(axis, transform)
		sphereInterval := sphereBody.Shape.ProjectionInterval(axis, sphereBody.Transform)
		if !hullInterval.Overlaps(sphereInterval) {
			return constraint.Contact{}, false
		}

		if overlap := hullInterval.Depth(sphereInterval); overlap < depth {
			depth = overlap
			normal = axis
		}
	}

	if transform.Position.Sub(center).Dot(normal) < 0 {
		normal = normal.Mul(-1)
	}

	pushOut(hullBody, sphereBody, normal, depth)

	return constraint.Contact{
		BodyA:       hullBody,
		BodyB:       sphereBody,
		Point:       sphereBody.Transform.Position.Add(normal.Mul(radius)),
		Normal:      normal,
		Penetration: depth,
	}, true
}

// collidePlaneSphere rejects spheres lying beyond the border of the plane
// surface, then falls back to the hull test.
func collidePlaneSphere(planeBody, sphereBody *actor.RigidBody) (constraint.Contact, bool) {
	h := planeBody.Shape.Hull
	transform := planeBody.Transform
	center := sphereBody.Transform.Position
	radius := sphereBody.Shape.Radius

	for _, id := range h.FaceEdges(planeBody.Shape.PlaneFace) {
		edge := h.Edge(id)
		previous := h.Edge(edge.Prev)

		// on a rectangular surface the previous edge is perpendicular to
		// this one and points out across it
		side := NewPlane(
			transform.Apply(h.Vertex(edge.Head).Position),
			transform.Rotation.Mul3x1(previous.Direction),
		)
		support := center.Sub(side.Normal.Mul(radius))
		if side.Distance(support) > 0 {
			return constraint.Contact{}, false
		}
	}

	return collideHullSphere(planeBody, sphereBody)
}
