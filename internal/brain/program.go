package brain

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidVariable is returned for names that cannot be bound as variables.
var ErrInvalidVariable = errors.New("invalid variable name")

// Program returns a copy of every token accepted since the last Clear.
func (b *Brain) Program() []Token {
	return slices.Clone(b.program)
}

// SetProgram clears the engine and feeds each token through the same entry
// points used for live input. Variables are kept, so rebinding a variable and
// setting the same program again re-evaluates it. A symbol token naming a
// bound variable is treated as a reference to that variable, unless the
// symbol is in the operation table.
//
// Random draws are not reproduced: replaying rnd draws a new value.
func (b *Brain) SetProgram(tokens []Token) {
	tokens = slices.Clone(tokens)
	b.Clear()
	for _, t := range tokens {
		b.Feed(t)
	}
}

// Feed routes one token to SetOperand, SetVariableOperand or PerformOperation.
func (b *Brain) Feed(t Token) {
	switch t.Kind {
	case NumberToken:
		b.SetOperand(t.Value)
	case VariableToken:
		b.SetVariableOperand(t.Name)
	case SymbolToken:
		if _, bound := b.Variables[t.Name]; bound && !b.IsOperation(t.Name) {
			b.SetVariableOperand(t.Name)
			return
		}
		b.PerformOperation(t.Name)
	}
}

// Replay sets the current program again, re-evaluating it against the
// current variable bindings.
func (b *Brain) Replay() {
	b.SetProgram(b.program)
}

// CheckVariable returns ErrInvalidVariable when name is empty or spells an
// operation, directly or through an alias such as "*" or "sqrt".
func (b *Brain) CheckVariable(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidVariable)
	}
	if b.IsOperation(b.CanonicalSymbol(name)) {
		return fmt.Errorf("%w: %q names an operation", ErrInvalidVariable, name)
	}
	return nil
}

// BindVariables checks every name in vars and then binds them all. Nothing is
// bound when a name is refused.
func (b *Brain) BindVariables(vars map[string]float64) error {
	for name := range vars {
		if err := b.CheckVariable(name); err != nil {
			return err
		}
	}
	for name, v := range vars {
		b.Variables[name] = v
	}
	return nil
}
