package rigid

import (
	"github.com/akmonengine/rigid/actor"
	"github.com/akmonengine/rigid/constraint"
	"github.com/akmonengine/rigid/sat"
)

// BroadPhase tests every dynamic body against the bodies sharing a grid cell
// with it. Bodies outside the grid are skipped for this tick. The grid's
// dynamic membership is cleared before returning.
func BroadPhase(spatialGrid *SpatialGrid, bodies []*actor.RigidBody) []constraint.Contact {
	var contacts []constraint.Contact

	for _, body := range bodies {
		if body.IsStatic() {
			continue
		}

		candidates, ok := spatialGrid.Check(body)
		if !ok {
			continue
		}

		for _, other := range candidates {
			// sphere tests are cheaper than the AABB test itself
			if !isSphere(body) && !isSphere(other) && !body.AABB.Overlaps(other.AABB) {
				continue
			}
			if contact, ok := sat.Collide(body, other); ok {
				contacts = append(contacts, contact)
			}
		}
	}

	spatialGrid.Clear()

	return contacts
}

// NarrowPhase runs the exact test on every pair of bodies, skipping pairs of
// static bodies.
func NarrowPhase(bodies []*actor.RigidBody) []constraint.Contact {
	var contacts []constraint.Contact

	for i := 0; i < len(bodies); i++ {
		bodyA := bodies[i]
		for j := i + 1; j < len(bodies); j++ {
			bodyB := bodies[j]
			if bodyA.IsStatic() && bodyB.IsStatic() {
				continue
			}

			if contact, ok := sat.Collide(bodyA, bodyB); ok {
				contacts = append(contacts, contact)
			}
		}
	}

	return contacts
}

func isSphere(body *actor.RigidBody) bool {
	return body.Shape.Type == actor.ShapeTypeSphere
}
