package session

import (
	"errors"
	"sync"
	"time"

	"calculator-brain/internal/brain"
	"calculator-brain/internal/plot"

	"github.com/google/uuid"
)

// ErrEmptyProgram is returned by Undo when there is nothing to undo.
var ErrEmptyProgram = errors.New("program is empty")

// State is a point-in-time copy of an engine's visible state.
type State struct {
	ID          string             `json:"id"`
	Result      brain.Value            `json:"result"`
	Description string                 `json:"description"`
	Partial     bool                   `json:"partial"`
	Program     []brain.Token          `json:"program"`
	Variables   map[string]brain.Value `json:"variables"`
}

// Session owns one engine and serialises every access to it.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu       sync.Mutex
	brain    *brain.Brain
	lastUsed time.Time
	now      func() time.Time
}

func newSession(now func() time.Time, opts ...brain.Option) *Session {
	t := now()
	return &Session{
		ID:        uuid.New(),
		CreatedAt: t,
		brain:     brain.New(opts...),
		lastUsed:  t,
		now:       now,
	}
}

// do runs fn with the engine locked and returns the resulting state.
func (s *Session) do(fn func(b *brain.Brain)) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fn != nil {
		fn(s.brain)
	}
	s.lastUsed = s.now()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	program := s.brain.Program()
	if program == nil {
		program = []brain.Token{}
	}
	return State{
		ID:          s.ID.String(),
		Result:      brain.Value(s.brain.Result()),
		Description: s.brain.Description(),
		Partial:     s.brain.IsPartialResult(),
		Program:     program,
		Variables:   brain.Values(s.brain.Variables),
	}
}

// State returns the current state.
func (s *Session) State() State {
	return s.do(nil)
}

// SetOperand feeds a numeric operand.
func (s *Session) SetOperand(v float64) State {
	return s.do(func(b *brain.Brain) { b.SetOperand(v) })
}

// SetVariableOperand feeds a variable reference. Names that spell an
// operation are refused with brain.ErrInvalidVariable.
func (s *Session) SetVariableOperand(name string) (State, error) {
	var err error
	st := s.do(func(b *brain.Brain) {
		if err = b.CheckVariable(name); err != nil {
			return
		}
		b.SetVariableOperand(name)
	})
	return st, err
}

// PerformOperation feeds an operation symbol. Aliases such as "*" are
// resolved to table symbols first.
func (s *Session) PerformOperation(symbol string) State {
	return s.do(func(b *brain.Brain) { b.PerformOperation(b.CanonicalSymbol(symbol)) })
}

// Undo drops the last token of the program and replays the rest.
func (s *Session) Undo() (State, error) {
	var err error
	st := s.do(func(b *brain.Brain) {
		program := b.Program()
		if len(program) == 0 {
			err = ErrEmptyProgram
			return
		}
		b.SetProgram(program[:len(program)-1])
	})
	return st, err
}

// Clear resets the engine and forgets every variable.
func (s *Session) Clear() State {
	return s.do(func(b *brain.Brain) {
		b.Clear()
		clear(b.Variables)
	})
}

// Reset resets the engine but keeps variable bindings.
func (s *Session) Reset() State {
	return s.do(func(b *brain.Brain) { b.Clear() })
}

// SetVariable binds name and re-evaluates the current program with it. Names
// that spell an operation are refused with brain.ErrInvalidVariable.
func (s *Session) SetVariable(name string, v float64) (State, error) {
	var err error
	st := s.do(func(b *brain.Brain) {
		if err = b.CheckVariable(name); err != nil {
			return
		}
		b.Variables[name] = v
		b.Replay()
	})
	return st, err
}

// DeleteVariable unbinds name and re-evaluates the current program.
func (s *Session) DeleteVariable(name string) State {
	return s.do(func(b *brain.Brain) {
		delete(b.Variables, name)
		b.Replay()
	})
}

// SetProgram replaces the program and replays it.
func (s *Session) SetProgram(tokens []brain.Token) State {
	return s.do(func(b *brain.Brain) { b.SetProgram(tokens) })
}

// Load binds variables and then replaces the program, replaying it once.
// Nothing changes when a variable name is refused.
func (s *Session) Load(variables map[string]float64, tokens []brain.Token) (State, error) {
	var err error
	st := s.do(func(b *brain.Brain) {
		if err = b.BindVariables(variables); err != nil {
			return
		}
		b.SetProgram(tokens)
	})
	return st, err
}

// Symbols lists the engine's operation table.
func (s *Session) Symbols() []brain.SymbolInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.brain.Symbols()
}

// Plot samples the current program as a function of req.Variable.
func (s *Session) Plot(req plot.Request) ([]plot.Point, error) {
	var (
		points []plot.Point
		err    error
	)
	s.do(func(b *brain.Brain) {
		points, err = plot.Sample(b, req)
	})
	return points, err
}

// LastUsed returns when the session was last touched.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}
