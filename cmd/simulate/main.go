package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/akmonengine/rigid"
	"github.com/akmonengine/rigid/actor"
	"github.com/akmonengine/rigid/hull"
	"github.com/go-gl/mathgl/mgl64"
)

// SetupScene creates a floor, a static block, and a few falling bodies
func SetupScene(world *rigid.World) (*hull.Hull, error) {
	floorHull, err := hull.NewQuad(40, 40)
	if err != nil {
		return nil, err
	}
	floorShape, err := actor.NewBoundedPlane(floorHull)
	if err != nil {
		return nil, err
	}

	crateHull, err := hull.NewBox(mgl64.Vec3{0.5, 0.5, 0.5})
	if err != nil {
		return nil, err
	}
	crateShape, err := actor.NewConvexHull(crateHull)
	if err != nil {
		return nil, err
	}

	blockHull, err := hull.NewBox(mgl64.Vec3{2, 1, 2})
	if err != nil {
		return nil, err
	}
	blockShape, err := actor.NewConvexHull(blockHull)
	if err != nil {
		return nil, err
	}

	ballShape, err := actor.NewSphere(0.5)
	if err != nil {
		return nil, err
	}

	descriptors := []rigid.BodyDescriptor{
		{Name: "floor", Shape: floorShape, Density: actor.Immovable, Position: mgl64.Vec3{0, 1, 0}},
		{Name: "block", Shape: blockShape, Density: actor.Immovable, Position: mgl64.Vec3{6, 2, 0}},
		{Name: "crate-flat", Shape: crateShape, Density: 1, Position: mgl64.Vec3{0, 5, 0}},
		{Name: "crate-tilted", Shape: crateShape, Density: 1, Position: mgl64.Vec3{-3, 6, 0}, Rotation: mgl64.Vec3{30, 0, 45}},
		{Name: "crate-on-block", Shape: crateShape, Density: 1, Position: mgl64.Vec3{6, 6, 0}, Rotation: mgl64.Vec3{0, 20, 0}},
		{Name: "ball-a", Shape: ballShape, Density: 1, Position: mgl64.Vec3{-2, 4, 3}, Velocity: mgl64.Vec3{3, 0, 0}},
		{Name: "ball-b", Shape: ballShape, Density: 1, Position: mgl64.Vec3{2, 4, 3}, Velocity: mgl64.Vec3{-3, 0, 0}},
	}

	if err := world.Load(descriptors); err != nil {
		return nil, err
	}

	return crateHull, nil
}

func writeSnapshot(path string, h *hull.Hull) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := h.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Config holds the run options
type Config struct {
	Duration   float64
	FrameRate  float64
	BroadPhase bool
	Verbose    bool
	Snapshot   string
}

func parseFlags() Config {
	var config Config
	flag.Float64Var(&config.Duration, "duration", 5, "simulated time in seconds")
	flag.Float64Var(&config.FrameRate, "fps", 60, "frames per second driving the fixed step")
	flag.BoolVar(&config.BroadPhase, "broadphase", true, "use the uniform grid broad phase")
	flag.BoolVar(&config.Verbose, "verbose", false, "log collision events")
	flag.StringVar(&config.Snapshot, "snapshot", "", "write the crate hull to this file")
	flag.Parse()
	return config
}

func main() {
	config := parseFlags()
	if !(config.FrameRate > 0) {
		log.Fatalf("fps must be positive, got %v", config.FrameRate)
	}

	world, err := rigid.NewWorld(rigid.DefaultGridConfig())
	if err != nil {
		log.Fatal(err)
	}
	world.UseBroadPhase = config.BroadPhase

	crateHull, err := SetupScene(world)
	if err != nil {
		log.Fatalf("scene: %v", err)
	}

	if config.Snapshot != "" {
		if err := writeSnapshot(config.Snapshot, crateHull); err != nil {
			log.Fatalf("snapshot: %v", err)
		}
	}

	enters := 0
	world.Events.Subscribe(rigid.COLLISION_ENTER, func(event rigid.Event) {
		enters++
		if !config.Verbose {
			return
		}
		e := event.(rigid.CollisionEnterEvent)
		log.Printf("enter %s / %s at %v (depth %.4f)", e.BodyA.Name, e.BodyB.Name, e.Contact.Point, e.Contact.Penetration)
	})
	world.Events.Subscribe(rigid.COLLISION_EXIT, func(event rigid.Event) {
		if config.Verbose {
			e := event.(rigid.CollisionExitEvent)
			log.Printf("exit %s / %s", e.BodyA.Name, e.BodyB.Name)
		}
	})

	stepper := rigid.NewFixedStep(world.Tick)
	frameTime := 1.0 / config.FrameRate
	ticks := 0
	for elapsed := 0.0; elapsed < config.Duration; elapsed += frameTime {
		ticks += stepper.Advance(frameTime, world.Step)
	}

	fmt.Printf("%d ticks, %d collisions\n", ticks, enters)
	for _, pose := range world.Poses() {
		body, _ := world.Body(pose.Name)
		fmt.Printf("  %-15s position %v velocity %v\n", pose.Name, pose.Model.Col(3).Vec3(), body.Velocity)
	}
}
