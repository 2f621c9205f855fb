package plot

import (
	"errors"
	"fmt"
	"math"

	"calculator-brain/internal/brain"
)

var (
	// ErrInvalidRange is returned when the sampled interval or count is unusable.
	ErrInvalidRange = errors.New("invalid sample range")
	// ErrTooManySamples is returned when more samples are requested than allowed.
	ErrTooManySamples = errors.New("too many samples")
	// ErrPartialProgram is returned when the program ends with a pending
	// binary operation and so does not describe a complete function.
	ErrPartialProgram = errors.New("program has a pending operation")
)

// Point is one sample of the plotted function. Y is nil where the function is
// not finite, leaving a gap in the curve.
type Point struct {
	X float64  `json:"x"`
	Y *float64 `json:"y"`
}

// Request describes a sampling run.
type Request struct {
	Variable string
	From     float64
	To       float64
	Samples  int
	// MaxSamples bounds Samples when positive.
	MaxSamples int
}

func (r Request) validate() error {
	switch {
	case r.Variable == "":
		return fmt.Errorf("%w: variable name is empty", ErrInvalidRange)
	case math.IsNaN(r.From) || math.IsInf(r.From, 0) || math.IsNaN(r.To) || math.IsInf(r.To, 0):
		return fmt.Errorf("%w: bounds must be finite", ErrInvalidRange)
	case r.From >= r.To:
		return fmt.Errorf("%w: from %g must be below to %g", ErrInvalidRange, r.From, r.To)
	case r.Samples < 2:
		return fmt.Errorf("%w: need at least 2 samples, got %d", ErrInvalidRange, r.Samples)
	case r.MaxSamples > 0 && r.Samples > r.MaxSamples:
		return fmt.Errorf("%w: %d requested, limit %d", ErrTooManySamples, r.Samples, r.MaxSamples)
	}
	return nil
}

// Sample evaluates the engine's current program as a function of
// req.Variable at evenly spaced points of [req.From, req.To]. A variable named
// like an operation is refused with brain.ErrInvalidVariable. Each sample binds
// the variable and replays the program. The variable's previous binding and
// the engine's visible state are restored before returning.
func Sample(b *brain.Brain, req Request) ([]Point, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if err := b.CheckVariable(req.Variable); err != nil {
		return nil, err
	}
	if b.IsPartialResult() {
		return nil, ErrPartialProgram
	}

	program := b.Program()
	previous, bound := b.Variables[req.Variable]
	defer func() {
		if bound {
			b.Variables[req.Variable] = previous
		} else {
			delete(b.Variables, req.Variable)
		}
		b.SetProgram(program)
	}()

	step := (req.To - req.From) / float64(req.Samples-1)
	points := make([]Point, 0, req.Samples)
	for i := 0; i < req.Samples; i++ {
		x := req.From + float64(i)*step
		if i == req.Samples-1 {
			x = req.To
		}
		b.Variables[req.Variable] = x
		b.SetProgram(program)

		p := Point{X: x}
		if y := b.Result(); !math.IsNaN(y) && !math.IsInf(y, 0) {
			p.Y = &y
		}
		points = append(points, p)
	}
	return points, nil
}
