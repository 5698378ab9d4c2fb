package actor

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces, gravity, and collisions
	// They have finite mass and can move freely
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and have infinite mass
	// They are not affected by forces or gravity (e.g., ground, walls)
	BodyTypeStatic
)

const (
	// LinearAngularDamping is the implicit damping coefficient applied to
	// velocity and angular momentum every integration step.
	LinearAngularDamping = 0.25

	// DefaultRestitution is the coefficient of restitution given to new bodies.
	DefaultRestitution = 0.5
)

// Immovable is the density of static bodies.
var Immovable = math.Inf(1)

var (
	ErrInvalidDensity = errors.New("actor: density must be positive, or Immovable")
	ErrNilShape       = errors.New("actor: nil shape")
)

type Material struct {
	Density     float64
	Restitution float64 // 0= no rebound, 1= perfect restitution

	mass        float64
	inverseMass float64
}

func (material Material) GetMass() float64 {
	return material.mass
}

// GetInverseMass is zero for static bodies.
func (material Material) GetInverseMass() float64 {
	return material.inverseMass
}

// RigidBody represents a rigid body in the physics simulation
type RigidBody struct {
	Id   int
	Name string

	// Spatial properties
	Transform Transform
	AABB      AABB

	// Linear motion
	Velocity mgl64.Vec3 // Linear velocity (m/s)
	// VelocityAccumulator collects impulse velocity changes until every
	// contact of the tick has been resolved.
	VelocityAccumulator mgl64.Vec3

	// Angular motion. AngularMomentum is the state, AngularVelocity is
	// derived from it.
	AngularMomentum mgl64.Vec3
	AngularVelocity mgl64.Vec3

	// Mass distribution, in body space
	CenterOfMass        mgl64.Vec3
	InverseInertiaLocal mgl64.Mat3
	InverseInertiaWorld mgl64.Mat3

	accumulatedForce  mgl64.Vec3
	accumulatedTorque mgl64.Vec3

	// Physical properties
	Material Material
	BodyType BodyType // Dynamic or Static

	// Collision shape, shared between bodies
	Shape *Shape
}

// NewRigidBody creates a rigid body. A density of Immovable creates a static
// body; any other density must be positive and finite.
func NewRigidBody(transform Transform, shape *Shape, density float64) (*RigidBody, error) {
	if shape == nil {
		return nil, ErrNilShape
	}
	if math.IsNaN(density) || density <= 0 || math.IsInf(density, -1) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDensity, density)
	}

	rb := &RigidBody{
		Transform: transform,
		Shape:     shape,
		Material: Material{
			Density:     density,
			Restitution: DefaultRestitution,
		},
	}

	if math.IsInf(density, 1) {
		rb.BodyType = BodyTypeStatic
		rb.Material.mass = math.Inf(1)
	} else {
		props, err := shape.MassProperties(density)
		if err != nil {
			return nil, fmt.Errorf("actor: %s mass properties: %w", shape.Type, err)
		}
		if det := props.Inertia.Det(); math.Abs(det) < 1e-18 {
			return nil, fmt.Errorf("%w: singular inertia tensor", ErrInvalidDensity)
		}

		rb.BodyType = BodyTypeDynamic
		rb.Material.mass = props.Mass
		rb.Material.inverseMass = 1.0 / props.Mass
		rb.CenterOfMass = props.CenterOfMass
		rb.InverseInertiaLocal = props.Inertia.Inv()
	}

	rb.UpdateInertiaWorld()
	rb.UpdateAABB()

	return rb, nil
}

func (rb *RigidBody) IsStatic() bool {
	return rb.BodyType == BodyTypeStatic
}

// ComputeForces rebuilds the accumulated force and torque for this tick.
// Gravity is the only force generator.
func (rb *RigidBody) ComputeForces(gravity mgl64.Vec3) {
	rb.ClearForces()
	if rb.IsStatic() {
		return
	}

	rb.accumulatedForce = gravity.Mul(rb.Material.mass)
}

func (rb *RigidBody) ClearForces() {
	rb.accumulatedForce = mgl64.Vec3{0, 0, 0}
	rb.accumulatedTorque = mgl64.Vec3{0, 0, 0}
}

// Integrate advances the body by one step of dt seconds.
func (rb *RigidBody) Integrate(dt float64) {
	if rb.IsStatic() {
		return
	}

	rb.Velocity = rb.Velocity.Add(rb.accumulatedForce.Mul(dt * rb.Material.inverseMass))
	rb.AngularMomentum = rb.AngularMomentum.Add(rb.accumulatedTorque.Mul(dt))
	rb.AngularVelocity = rb.InverseInertiaWorld.Mul3x1(rb.AngularMomentum)

	damping := 1.0 / (1.0 + dt*LinearAngularDamping)
	rb.Velocity = rb.Velocity.Mul(damping)
	rb.AngularMomentum = rb.AngularMomentum.Mul(damping)

	rb.Transform.Position = rb.Transform.Position.Add(rb.Velocity.Mul(dt))
	spin := skewSymmetric(rb.AngularVelocity).Mul3(rb.Transform.Rotation)
	rb.Transform.Rotation = rb.Transform.Rotation.Add(spin.Mul(dt))
	rb.Transform.Orthonormalize()

	rb.UpdateInertiaWorld()
	rb.UpdateAABB()
}

// ApplyImpulses commits the velocity accumulated by collision response and
// refreshes the angular velocity from the angular momentum.
func (rb *RigidBody) ApplyImpulses() {
	rb.AngularVelocity = rb.InverseInertiaWorld.Mul3x1(rb.AngularMomentum)
	rb.Velocity = rb.Velocity.Add(rb.VelocityAccumulator)
	rb.VelocityAccumulator = mgl64.Vec3{0, 0, 0}
}

// Translate moves the body without touching its velocity.
func (rb *RigidBody) Translate(delta mgl64.Vec3) {
	rb.Transform.Position = rb.Transform.Position.Add(delta)
}

// UpdateInertiaWorld recomputes I_world^(-1) = R * I_local^(-1) * R^T
func (rb *RigidBody) UpdateInertiaWorld() {
	if rb.IsStatic() {
		rb.InverseInertiaWorld = mgl64.Mat3{}
		return
	}

	R := rb.Transform.Rotation
	rb.InverseInertiaWorld = R.Mul3(rb.InverseInertiaLocal).Mul3(R.Transpose())
}

func (rb *RigidBody) UpdateAABB() {
	rb.AABB = rb.Shape.ComputeAABB(rb.Transform)
}

// CenterOfMassWorld returns the center of mass in world space.
func (rb *RigidBody) CenterOfMassWorld() mgl64.Vec3 {
	return rb.Transform.Apply(rb.CenterOfMass)
}

func (rb *RigidBody) SupportWorld(direction mgl64.Vec3) mgl64.Vec3 {
	return rb.Shape.Support(direction, rb.Transform)
}

func (rb *RigidBody) ModelMatrix() mgl64.Mat4 {
	return rb.Transform.ModelMatrix()
}

func (rb *RigidBody) NormalMatrix() mgl64.Mat3 {
	return rb.Transform.NormalMatrix()
}

// skewSymmetric returns the matrix S with S*u = v x u.
func skewSymmetric(v mgl64.Vec3) mgl64.Mat3 {
	return mgl64.Mat3{
		0, v.Z(), -v.Y(),
		-v.Z(), 0, v.X(),
		v.Y(), -v.X(), 0,
	}
}
