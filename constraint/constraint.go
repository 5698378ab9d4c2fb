package constraint

import (
	"github.com/akmonengine/rigid/actor"
)

const (
	// RestingContactLimit is the squared speed under which a touching body is
	// considered at rest and damped hard.
	RestingContactLimit = 0.3
	// RestingContactLimitHigher is the squared speed under which a touching
	// body is damped lightly.
	RestingContactLimitHigher = 0.7

	RestingDampingLinear        = 0.9
	RestingDampingAngular       = 0.7
	RestingDampingLinearHigher  = 0.95
	RestingDampingAngularHigher = 0.85
)

func ComputeRestitution(matA, matB actor.Material) float64 {
	return (matA.Restitution + matB.Restitution) / 2.0
}

// ApplyRestingDamping bleeds energy from a slow body that is in contact.
// Static bodies are left untouched.
func ApplyRestingDamping(rb *actor.RigidBody) {
	if rb.IsStatic() {
		return
	}

	linear := rb.Velocity.LenSqr()
	angular := rb.AngularVelocity.LenSqr()

	switch {
	case linear < RestingContactLimit && angular < RestingContactLimit:
		rb.Velocity = rb.Velocity.Mul(RestingDampingLinear)
		rb.AngularMomentum = rb.AngularMomentum.Mul(RestingDampingAngular)
	case linear < RestingContactLimitHigher && angular < RestingContactLimitHigher:
		rb.Velocity = rb.Velocity.Mul(RestingDampingLinearHigher)
		rb.AngularMomentum = rb.AngularMomentum.Mul(RestingDampingAngularHigher)
	}
}
