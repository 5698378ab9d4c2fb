package rigid

import (
	"errors"
	"fmt"
	"slices"

	"github.com/akmonengine/rigid/actor"
	"github.com/akmonengine/rigid/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

// TICK_DURATION is the simulated time of one Step, in seconds.
const TICK_DURATION = 0.01

// COEFFICIENT_OF_RESTITUTION is given to every body created by Load.
const COEFFICIENT_OF_RESTITUTION = actor.DefaultRestitution

var DefaultGravity = mgl64.Vec3{0, -9.8, 0}

var (
	ErrDuplicateBody = errors.New("rigid: body already in world")
	ErrUnknownBody   = errors.New("rigid: body not in world")
)

type World struct {
	// List of all rigid bodies in the world
	Bodies []*actor.RigidBody
	// Gravity acceleration (m/s², or N/kg)
	Gravity mgl64.Vec3
	// Tick is the duration of one Step
	Tick float64
	// UseBroadPhase selects the grid; otherwise every pair is tested
	UseBroadPhase bool
	SpatialGrid   *SpatialGrid

	Events Events

	nextID int
}

// NewWorld creates an empty world whose broad phase covers config.
func NewWorld(config GridConfig) (*World, error) {
	grid, err := NewSpatialGrid(config)
	if err != nil {
		return nil, err
	}

	return &World{
		Gravity:       DefaultGravity,
		Tick:          TICK_DURATION,
		UseBroadPhase: true,
		SpatialGrid:   grid,
		Events:        NewEvents(),
	}, nil
}

// AddBody adds a rigid body to the world and gives it an Id. Static bodies
// are inserted into the grid and must lie inside it.
func (w *World) AddBody(body *actor.RigidBody) error {
	if slices.Contains(w.Bodies, body) {
		return fmt.Errorf("%w: %q", ErrDuplicateBody, body.Name)
	}

	if body.IsStatic() && w.SpatialGrid != nil {
		if err := w.SpatialGrid.InsertStatic(body); err != nil {
			return err
		}
	}

	body.Id = w.nextID
	w.nextID++
	w.Bodies = append(w.Bodies, body)

	return nil
}

// RemoveBody removes a rigid body from the world
func (w *World) RemoveBody(body *actor.RigidBody) error {
	k := slices.Index(w.Bodies, body)
	if k == -1 {
		return fmt.Errorf("%w: %q", ErrUnknownBody, body.Name)
	}

	w.Bodies = slices.Delete(w.Bodies, k, k+1)
	if body.IsStatic() && w.SpatialGrid != nil {
		w.SpatialGrid.RemoveStatic(body)
	}
	w.Events.forget(body)

	return nil
}

// Step advances the simulation by one tick.
func (w *World) Step() {
	w.computeForces()
	w.integrate(w.Tick)

	contacts := w.detectCollision()
	w.Events.recordCollisions(contacts)

	w.resolve(contacts)
	w.applyImpulses()

	w.Events.flush()
}

func (w *World) computeForces() {
	for _, body := range w.Bodies {
		body.ComputeForces(w.Gravity)
	}
}

func (w *World) integrate(h float64) {
	for _, body := range w.Bodies {
		body.Integrate(h)
	}
}

func (w *World) detectCollision() []constraint.Contact {
	if w.UseBroadPhase && w.SpatialGrid != nil {
		return BroadPhase(w.SpatialGrid, w.Bodies)
	}
	return NarrowPhase(w.Bodies)
}

func (w *World) resolve(contacts []constraint.Contact) {
	for i := range contacts {
		contact := &contacts[i]
		contact.Resolve(constraint.ComputeRestitution(contact.BodyA.Material, contact.BodyB.Material))
	}
}

func (w *World) applyImpulses() {
	for _, body := range w.Bodies {
		body.ApplyImpulses()
	}
}

// Pose is the render state of a body between two ticks.
type Pose struct {
	Name   string
	Model  mgl64.Mat4
	Normal mgl64.Mat3
}

// Poses returns the model and normal matrix of every body, in body order.
func (w *World) Poses() []Pose {
	poses := make([]Pose, len(w.Bodies))
	for i, body := range w.Bodies {
		poses[i] = Pose{
			Name:   body.Name,
			Model:  body.ModelMatrix(),
			Normal: body.NormalMatrix(),
		}
	}
	return poses
}

// Body returns the first body with the given name.
func (w *World) Body(name string) (*actor.RigidBody, bool) {
	for _, body := range w.Bodies {
		if body.Name == name {
			return body, true
		}
	}
	return nil, false
}
