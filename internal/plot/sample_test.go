package plot

import (
	"errors"
	"testing"

	"calculator-brain/internal/brain"
)

func squarePlusOne() *brain.Brain {
	b := brain.New()
	b.SetVariableOperand("M")
	b.PerformOperation("x²")
	b.PerformOperation("+")
	b.SetOperand(1)
	b.PerformOperation("=")
	return b
}

func TestSampleEvaluatesProgramAcrossRange(t *testing.T) {
	b := squarePlusOne()

	points, err := Sample(b, Request{Variable: "M", From: -2, To: 2, Samples: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []struct{ x, y float64 }{{-2, 5}, {-1, 2}, {0, 1}, {1, 2}, {2, 5}}
	if len(points) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(points))
	}
	for i, w := range want {
		p := points[i]
		if p.X != w.x || p.Y == nil || *p.Y != w.y {
			t.Fatalf("point %d: expected (%v, %v), got (%v, %v)", i, w.x, w.y, p.X, p.Y)
		}
	}
}

func TestSampleRestoresEngineState(t *testing.T) {
	b := squarePlusOne()
	b.Variables["M"] = 3
	b.Replay()
	description := b.Description()

	if _, err := Sample(b, Request{Variable: "M", From: 0, To: 1, Samples: 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := b.Variables["M"]; got != 3 {
		t.Fatalf("expected M restored to 3, got %v", got)
	}
	if got := b.Result(); got != 10 {
		t.Fatalf("expected result 10, got %v", got)
	}
	if got := b.Description(); got != description {
		t.Fatalf("expected description %q, got %q", description, got)
	}

	fresh := squarePlusOne()
	if _, err := Sample(fresh, Request{Variable: "M", From: 0, To: 1, Samples: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, bound := fresh.Variables["M"]; bound {
		t.Fatal("expected M to stay unbound")
	}
}

func TestSampleLeavesGapsForNonFiniteValues(t *testing.T) {
	b := brain.New()
	b.SetOperand(1)
	b.PerformOperation("÷")
	b.SetVariableOperand("M")
	b.PerformOperation("=")

	points, err := Sample(b, Request{Variable: "M", From: -1, To: 1, Samples: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if points[1].Y != nil {
		t.Fatalf("expected gap at x=0, got %v", *points[1].Y)
	}
	if points[2].Y == nil || *points[2].Y != 1 {
		t.Fatalf("expected 1 at x=1, got %v", points[2].Y)
	}
}

func TestSampleRejectsBadRequests(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"no variable", Request{From: 0, To: 1, Samples: 2}, ErrInvalidRange},
		{"reversed", Request{Variable: "M", From: 1, To: 0, Samples: 2}, ErrInvalidRange},
		{"one sample", Request{Variable: "M", From: 0, To: 1, Samples: 1}, ErrInvalidRange},
		{"over limit", Request{Variable: "M", From: 0, To: 1, Samples: 11, MaxSamples: 10}, ErrTooManySamples},
		{"operation variable", Request{Variable: "x²", From: 0, To: 1, Samples: 2}, brain.ErrInvalidVariable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Sample(squarePlusOne(), tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	pending := brain.New()
	pending.SetOperand(1)
	pending.PerformOperation("+")
	if _, err := Sample(pending, Request{Variable: "M", From: 0, To: 1, Samples: 2}); !errors.Is(err, ErrPartialProgram) {
		t.Fatalf("expected ErrPartialProgram, got %v", err)
	}
}
