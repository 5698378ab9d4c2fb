package rigid

import (
	"fmt"

	"github.com/akmonengine/rigid/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// BodyDescriptor is the scene-level description of one body.
type BodyDescriptor struct {
	Name  string
	Shape *actor.Shape
	// Density in kg/m³, or actor.Immovable for a static body
	Density  float64
	Position mgl64.Vec3
	// Rotation holds Euler angles in degrees, applied about X, then Y, then Z
	Rotation mgl64.Vec3
	Velocity mgl64.Vec3
}

func (desc BodyDescriptor) build() (*actor.RigidBody, error) {
	transform := actor.Transform{
		Position: desc.Position,
		Rotation: actor.EulerToMatrix(desc.Rotation.X(), desc.Rotation.Y(), desc.Rotation.Z()),
	}

	body, err := actor.NewRigidBody(transform, desc.Shape, desc.Density)
	if err != nil {
		return nil, err
	}

	body.Name = desc.Name
	body.Material.Restitution = COEFFICIENT_OF_RESTITUTION
	if !body.IsStatic() {
		body.Velocity = desc.Velocity
	}

	return body, nil
}

// Load creates and adds one body per descriptor. Either every body is added
// or, on error, none is.
func (w *World) Load(descriptors []BodyDescriptor) error {
	bodies := make([]*actor.RigidBody, 0, len(descriptors))
	for i, desc := range descriptors {
		body, err := desc.build()
		if err != nil {
			return fmt.Errorf("rigid: body %d (%q): %w", i, desc.Name, err)
		}
		bodies = append(bodies, body)
	}

	for i, body := range bodies {
		if err := w.AddBody(body); err != nil {
			for _, added := range bodies[:i] {
				_ = w.RemoveBody(added)
			}
			return fmt.Errorf("rigid: body %d (%q): %w", i, body.Name, err)
		}
	}

	return nil
}
