package rigid

// MaxStepsPerAdvance bounds the ticks run by one Advance. Time left over
// past the bound is dropped.
const MaxStepsPerAdvance = 250

// FixedStep converts variable frame times into whole simulation ticks.
type FixedStep struct {
	Tick        float64
	accumulator float64
}

func NewFixedStep(tick float64) *FixedStep {
	return &FixedStep{Tick: tick}
}

// Advance adds frameTime seconds and calls step once per whole tick
// available. It returns the number of ticks run. Time that does not fill a
// tick is carried to the next call.
func (fs *FixedStep) Advance(frameTime float64, step func()) int {
	if !(frameTime > 0) || !(fs.Tick > 0) {
		return 0
	}

	fs.accumulator += frameTime

	steps := 0
	for fs.accumulator >= fs.Tick {
		if steps == MaxStepsPerAdvance {
			fs.accumulator = 0
			break
		}
		step()
		fs.accumulator -= fs.Tick
		steps++
	}

	return steps
}

// Alpha is the fraction of a tick left in the accumulator, for
// interpolating poses between two ticks.
func (fs *FixedStep) Alpha() float64 {
	if !(fs.Tick > 0) {
		return 0
	}
	return fs.accumulator / fs.Tick
}
