package constraint

import (
	"github.com/akmonengine/rigid/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// minEffectiveMass guards the impulse denominator against degenerate contacts.
const minEffectiveMass = 1e-12

// Contact is a single collision between two bodies, valid for one tick.
// Normal points from BodyB toward BodyA.
type Contact struct {
	BodyA       *actor.RigidBody
	BodyB       *actor.RigidBody
	Point       mgl64.Vec3
	Normal      mgl64.Vec3
	Penetration float64
}

// Resolve computes the collision impulse for the contact. Linear changes go
// to each body's VelocityAccumulator and are committed by ApplyImpulses;
// angular changes go straight to the angular momentum.
func (c *Contact) Resolve(restitution float64) {
	staticA := c.BodyA.IsStatic()
	staticB := c.BodyB.IsStatic()

	switch {
	case staticA && staticB:
		return
	case staticA:
		c.resolveStatic(c.BodyB, c.Normal.Mul(-1), restitution)
	case staticB:
		c.resolveStatic(c.BodyA, c.Normal, restitution)
	default:
		c.resolveDynamic(restitution)
	}
}

// resolveStatic bounces body off an immovable one. normal points toward body.
func (c *Contact) resolveStatic(body *actor.RigidBody, normal mgl64.Vec3, restitution float64) {
	r := c.Point.Sub(body.CenterOfMassWorld())
	pointVelocity := body.Velocity.Add(body.AngularVelocity.Cross(r))

	effectiveMass := body.Material.GetInverseMass() + angularTerm(body, r, normal)
	if effectiveMass < minEffectiveMass {
		return
	}

	j := -(1 + restitution) * pointVelocity.Dot(normal) / effectiveMass
	impulse := normal.Mul(j)

	body.AngularMomentum = body.AngularMomentum.Add(r.Cross(impulse))
	body.VelocityAccumulator = body.VelocityAccumulator.Add(impulse.Mul(body.Material.GetInverseMass()))

	ApplyRestingDamping(body)
}

func (c *Contact) resolveDynamic(restitution float64) {
	bodyA := c.BodyA
	bodyB := c.BodyB
	normal := c.Normal

	rA := c.Point.Sub(bodyA.CenterOfMassWorld())
	rB := c.Point.Sub(bodyB.CenterOfMassWorld())

	vA := bodyA.Velocity.Add(bodyA.AngularVelocity.Cross(rA))
	vB := bodyB.Velocity.Add(bodyB.AngularVelocity.Cross(rB))
	relativeVelocity := vA.Sub(vB).Dot(normal)

	effectiveMass := bodyA.Material.GetInverseMass() + bodyB.Material.GetInverseMass() +
		angularTerm(bodyA, rA, normal) + angularTerm(bodyB, rB, normal)
	if effectiveMass < minEffectiveMass {
		return
	}

	j := -(1 + restitution) * relativeVelocity / effectiveMass
	impulse := normal.Mul(j)

	bodyA.AngularMomentum = bodyA.AngularMomentum.Add(rA.Cross(impulse))
	bodyB.AngularMomentum = bodyB.AngularMomentum.Sub(rB.Cross(impulse))

	bodyA.VelocityAccumulator = bodyA.VelocityAccumulator.Add(impulse.Mul(bodyA.Material.GetInverseMass()))
	bodyB.VelocityAccumulator = bodyB.VelocityAccumulator.Sub(impulse.Mul(bodyB.Material.GetInverseMass()))

	ApplyRestingDamping(bodyA)
	ApplyRestingDamping(bodyB)
}

// angularTerm is (I_world^-1 (r x n) x r) . n
func angularTerm(body *actor.RigidBody, r, normal mgl64.Vec3) float64 {
	return body.InverseInertiaWorld.Mul3x1(r.Cross(normal)).Cross(r).Dot(normal)
}
