package constraint

import (
	"testing"

	"github.com/akmonengine/rigid/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// =============================================================================
// Dynamic-Dynamic Tests
// =============================================================================

func TestResolve_ElasticEqualMassSwap(t *testing.T) {
	a := newSphere(t, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{2, 0, 0}, 0.5, 1)
	b := newSphere(t, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{-2, 0, 0}, 0.5, 1)
	a.Material.Restitution = 1
	b.Material.Restitution = 1

	contact := Contact{
		BodyA:       a,
		BodyB:       b,
		Point:       mgl64.Vec3{0.5, 0, 0},
		Normal:      mgl64.Vec3{-1, 0, 0},
		Penetration: 0,
	}
	contact.Resolve(ComputeRestitution(a.Material, b.Material))
	a.ApplyImpulses()
	b.ApplyImpulses()

	if !vec3AlmostEqual(a.Velocity, mgl64.Vec3{-2, 0, 0}, 1e-9) {
		t.Errorf("a.Velocity = %v, want (-2, 0, 0)", a.Velocity)
	}
	if !vec3AlmostEqual(b.Velocity, mgl64.Vec3{2, 0, 0}, 1e-9) {
		t.Errorf("b.Velocity = %v, want (2, 0, 0)", b.Velocity)
	}
	if a.AngularMomentum != (mgl64.Vec3{}) || b.AngularMomentum != (mgl64.Vec3{}) {
		t.Errorf("head-on contact spun the bodies: %v %v", a.AngularMomentum, b.AngularMomentum)
	}
}

func TestResolve_ConservesMomentum(t *testing.T) {
	a := newSphere(t, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{3, 0, 0}, 0.5, 4)
	b := newSphere(t, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{-1, 0, 0}, 0.5, 1)

	before := a.Velocity.Mul(a.Material.GetMass()).Add(b.Velocity.Mul(b.Material.GetMass()))

	contact := Contact{BodyA: a, BodyB: b, Point: mgl64.Vec3{0.5, 0, 0}, Normal: mgl64.Vec3{-1, 0, 0}}
	contact.Resolve(0.5)
	a.ApplyImpulses()
	b.ApplyImpulses()

	after := a.Velocity.Mul(a.Material.GetMass()).Add(b.Velocity.Mul(b.Material.GetMass()))
	if !vec3AlmostEqual(before, after, 1e-9) {
		t.Errorf("momentum before %v, after %v", before, after)
	}

	// the bodies separate with half their approach speed
	separation := b.Velocity.X() - a.Velocity.X()
	if !almostEqual(separation, 2, 1e-9) {
		t.Errorf("separation speed = %v, want 2", separation)
	}
}

func TestResolve_Deferred(t *testing.T) {
	a := newSphere(t, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{2, 0, 0}, 0.5, 1)
	b := newSphere(t, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{-2, 0, 0}, 0.5, 1)

	contact := Contact{BodyA: a, BodyB: b, Point: mgl64.Vec3{0.5, 0, 0}, Normal: mgl64.Vec3{-1, 0, 0}}
	contact.Resolve(1)

	if a.Velocity != (mgl64.Vec3{2, 0, 0}) {
		t.Errorf("velocity changed before ApplyImpulses: %v", a.Velocity)
	}
	if a.VelocityAccumulator == (mgl64.Vec3{}) {
		t.Error("VelocityAccumulator not filled")
	}
}

// =============================================================================
// Static-Dynamic Tests
// =============================================================================

func TestResolve_StaticBounce(t *testing.T) {
	tests := []struct {
		name         string
		restitution  float64
		staticIsA    bool
		wantVelocity float64
	}{
		{name: "half restitution, static B", restitution: 0.5, wantVelocity: 1},
		{name: "half restitution, static A", restitution: 0.5, staticIsA: true, wantVelocity: 1},
		{name: "inelastic", restitution: 0, wantVelocity: 0},
		{name: "elastic", restitution: 1, wantVelocity: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ball := newSphere(t, mgl64.Vec3{0, 0.5, 0}, mgl64.Vec3{0, -2, 0}, 0.5, 1)
			floor := newBox(t, mgl64.Vec3{0, -1, 0}, mgl64.Vec3{5, 1, 5}, actor.Immovable)

			contact := Contact{BodyA: ball, BodyB: floor, Point: mgl64.Vec3{}, Normal: mgl64.Vec3{0, 1, 0}}
			if tt.staticIsA {
				contact = Contact{BodyA: floor, BodyB: ball, Point: mgl64.Vec3{}, Normal: mgl64.Vec3{0, -1, 0}}
			}

			contact.Resolve(tt.restitution)
			ball.ApplyImpulses()
			floor.ApplyImpulses()

			if !vec3AlmostEqual(ball.Velocity, mgl64.Vec3{0, tt.wantVelocity, 0}, 1e-9) {
				t.Errorf("ball.Velocity = %v, want (0, %v, 0)", ball.Velocity, tt.wantVelocity)
			}
			if floor.Velocity != (mgl64.Vec3{}) || floor.AngularMomentum != (mgl64.Vec3{}) {
				t.Errorf("static body moved: v=%v L=%v", floor.Velocity, floor.AngularMomentum)
			}
		})
	}
}

func TestResolve_OffCenterContactSpins(t *testing.T) {
	box := newBox(t, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}, 1)
	box.Velocity = mgl64.Vec3{0, -1, 0}
	floor := newBox(t, mgl64.Vec3{0, -2, 0}, mgl64.Vec3{5, 1, 5}, actor.Immovable)

	contact := Contact{BodyA: box, BodyB: floor, Point: mgl64.Vec3{1, -1, 0}, Normal: mgl64.Vec3{0, 1, 0}}
	contact.Resolve(0.5)

	L := box.AngularMomentum
	if !(L.Z() > 0) || !almostEqual(L.X(), 0, 1e-12) || !almostEqual(L.Y(), 0, 1e-12) {
		t.Errorf("AngularMomentum = %v, want positive Z only", L)
	}
	if !(box.VelocityAccumulator.Y() > 0) {
		t.Errorf("VelocityAccumulator = %v, want an upward change", box.VelocityAccumulator)
	}
}

func TestResolve_BothStatic(t *testing.T) {
	a := newBox(t, mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}, actor.Immovable)
	b := newBox(t, mgl64.Vec3{0, 1.5, 0}, mgl64.Vec3{1, 1, 1}, actor.Immovable)

	contact := Contact{BodyA: a, BodyB: b, Point: mgl64.Vec3{0, 1, 0}, Normal: mgl64.Vec3{0, -1, 0}}
	contact.Resolve(0.5)

	if a.VelocityAccumulator != (mgl64.Vec3{}) || b.VelocityAccumulator != (mgl64.Vec3{}) {
		t.Error("static pair produced an impulse")
	}
}
