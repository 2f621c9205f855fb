package brain

import (
	"math/rand/v2"
	"strings"
)

// pendingBinaryOperation is a binary operation waiting for its second operand.
type pendingBinaryOperation struct {
	fn           func(float64, float64) float64
	firstOperand float64
}

// Brain is a calculator engine. It accepts operands and operation symbols one
// at a time, keeps a running accumulator and a human readable description, and
// records every accepted input in a replayable program.
//
// A Brain is not safe for concurrent use.
type Brain struct {
	// Variables holds the values consulted when a variable operand is
	// evaluated. Callers read and write it directly; Clear leaves it alone.
	Variables map[string]float64

	operations map[string]Operation
	random     func() float64

	accumulator     float64
	pending         *pendingBinaryOperation
	program         []Token
	description     string
	noNewOperand    bool
	previousOperand string
	resolved        bool
}

// Option configures a Brain at construction.
type Option func(*Brain)

// WithRandom replaces the source used by the random operation. The function
// must return values in [0, 1).
func WithRandom(fn func() float64) Option {
	return func(b *Brain) {
		b.random = fn
	}
}

// New returns a cleared Brain with the default operation table.
func New(opts ...Option) *Brain {
	b := &Brain{
		Variables:  make(map[string]float64),
		operations: defaultOperations(),
		random:     rand.Float64,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.Clear()
	return b
}

// Clear resets the accumulator, description, pending operation and program.
// Variables are kept.
func (b *Brain) Clear() {
	b.accumulator = 0
	b.description = ""
	b.pending = nil
	b.noNewOperand = true
	b.previousOperand = ""
	b.resolved = false
	b.program = nil
}

// Result returns the accumulator.
func (b *Brain) Result() float64 {
	return b.accumulator
}

// IsPartialResult reports whether a binary operation is waiting for its
// second operand.
func (b *Brain) IsPartialResult() bool {
	return b.pending != nil
}

// Description returns the trace of the computation so far. A trace whose last
// accepted operation was equals ends with "=".
func (b *Brain) Description() string {
	if b.resolved {
		return b.description + SymbolEquals
	}
	return b.description
}

// SetOperand makes v the accumulator and appends it to the program.
func (b *Brain) SetOperand(v float64) {
	b.accumulator = v
	b.addOperand(Number(v), FormatOperand(v))
}

// SetVariableOperand makes the value bound to name the accumulator and
// appends a reference to it to the program. Unbound names evaluate to 0.
func (b *Brain) SetVariableOperand(name string) {
	b.accumulator = b.Variables[name]
	b.addOperand(Variable(name), name)
}

func (b *Brain) addOperand(t Token, text string) {
	b.noNewOperand = false
	b.resolved = false
	if b.pending == nil {
		b.description = ""
	}
	b.previousOperand = text
	b.description += text
	b.program = append(b.program, t)
}

// PerformOperation applies the operation bound to symbol. The symbol is
// appended to the program even when the table has no entry for it; such
// symbols change nothing else.
func (b *Brain) PerformOperation(symbol string) {
	b.program = append(b.program, Symbol(symbol))

	op, ok := b.operations[symbol]
	if !ok {
		return
	}

	switch op.Kind {
	case ConstantOperation:
		b.accumulator = op.Value
		b.appendOperandGlyph(symbol)

	case RandomOperation:
		b.accumulator = b.random()
		b.appendOperandGlyph(randomMarker)

	case UnaryOperation:
		b.accumulator = op.Unary(b.accumulator)
		b.wrapUnary(symbol)
		b.noNewOperand = false
		b.resolved = false

	case BinaryOperation:
		b.description += symbol
		b.executePending()
		b.pending = &pendingBinaryOperation{fn: op.Binary, firstOperand: b.accumulator}
		b.noNewOperand = true
		b.resolved = false

	case EqualsOperation:
		if b.pending != nil && b.noNewOperand {
			// "7 + =" uses 7 as both operands.
			b.description += b.previousOperand
		}
		b.executePending()
		b.resolved = true
	}
}

func (b *Brain) appendOperandGlyph(glyph string) {
	b.description += glyph
	b.previousOperand = glyph
	b.noNewOperand = false
	b.resolved = false
}

// wrapUnary rewrites the description for a unary operation. Without a pending
// binary operation it applies to the whole trace, otherwise only to the most
// recent operand.
func (b *Brain) wrapUnary(symbol string) {
	if b.pending == nil {
		b.description = symbol + "(" + b.description + ")"
		return
	}
	if !b.noNewOperand {
		b.description = strings.TrimSuffix(b.description, b.previousOperand)
	}
	b.previousOperand = symbol + "(" + b.previousOperand + ")"
	b.description += b.previousOperand
}

func (b *Brain) executePending() {
	if b.pending == nil {
		return
	}
	b.accumulator = b.pending.fn(b.pending.firstOperand, b.accumulator)
	b.pending = nil
}
