package brain

import (
	"math"
	"sort"
)

// OperationKind tags the variant held by an Operation.
type OperationKind int

const (
	ConstantOperation OperationKind = iota
	RandomOperation
	UnaryOperation
	BinaryOperation
	EqualsOperation
)

func (k OperationKind) String() string {
	switch k {
	case ConstantOperation:
		return "constant"
	case RandomOperation:
		return "random"
	case UnaryOperation:
		return "unary"
	case BinaryOperation:
		return "binary"
	case EqualsOperation:
		return "equals"
	default:
		return "unknown"
	}
}

// Operation is the meaning bound to a symbol. Value is used by constants,
// Unary and Binary by their respective kinds.
type Operation struct {
	Kind   OperationKind
	Value  float64
	Unary  func(float64) float64
	Binary func(float64, float64) float64
}

// Symbol names understood by the default operation table.
const (
	SymbolPi         = "π"
	SymbolE          = "e"
	SymbolRandom     = "rnd"
	SymbolSqrt       = "√"
	SymbolNegate     = "±"
	SymbolSin        = "sin"
	SymbolCos        = "cos"
	SymbolTan        = "tan"
	SymbolLog        = "log"
	SymbolLn         = "ln"
	SymbolSquare     = "x²"
	SymbolReciprocal = "x⁻¹"
	SymbolMultiply   = "×"
	SymbolDivide     = "÷"
	SymbolAdd        = "+"
	SymbolSubtract   = "−"
	SymbolEquals     = "="
)

// randomMarker is written to the description for a random draw.
const randomMarker = "R"

// defaultOperations builds a fresh operation table.
func defaultOperations() map[string]Operation {
	constant := func(v float64) Operation { return Operation{Kind: ConstantOperation, Value: v} }
	unary := func(fn func(float64) float64) Operation { return Operation{Kind: UnaryOperation, Unary: fn} }
	binary := func(fn func(float64, float64) float64) Operation {
		return Operation{Kind: BinaryOperation, Binary: fn}
	}

	return map[string]Operation{
		SymbolPi:     constant(math.Pi),
		SymbolE:      constant(math.E),
		SymbolRandom: {Kind: RandomOperation},
		SymbolSqrt:   unary(math.Sqrt),
		SymbolNegate: unary(func(x float64) float64 { return -x }),
		SymbolSin:    unary(math.Sin),
		SymbolCos:    unary(math.Cos),
		SymbolTan:    unary(math.Tan),
		SymbolLog:    unary(math.Log10),
		SymbolLn:     unary(math.Log),
		SymbolSquare: unary(func(x float64) float64 { return x * x }),
		// The reciprocal of zero is zero, not +Inf.
		SymbolReciprocal: unary(func(x float64) float64 {
			if x == 0 {
				return 0
			}
			return 1 / x
		}),
		SymbolMultiply: binary(func(a, b float64) float64 { return a * b }),
		SymbolDivide:   binary(func(a, b float64) float64 { return a / b }),
		SymbolAdd:      binary(func(a, b float64) float64 { return a + b }),
		SymbolSubtract: binary(func(a, b float64) float64 { return a - b }),
		SymbolEquals:   {Kind: EqualsOperation},
	}
}

// SymbolInfo describes one entry of the operation table.
type SymbolInfo struct {
	Symbol string `json:"symbol" yaml:"symbol"`
	Kind   string `json:"kind" yaml:"kind"`
}

// Symbols lists the operation table, ordered by kind then symbol.
func (b *Brain) Symbols() []SymbolInfo {
	out := make([]SymbolInfo, 0, len(b.operations))
	kinds := make(map[string]OperationKind, len(b.operations))
	for sym, op := range b.operations {
		out = append(out, SymbolInfo{Symbol: sym, Kind: op.Kind.String()})
		kinds[sym] = op.Kind
	}
	sort.Slice(out, func(i, j int) bool {
		ki, kj := kinds[out[i].Symbol], kinds[out[j].Symbol]
		if ki != kj {
			return ki < kj
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

// IsOperation reports whether symbol is bound in the operation table.
func (b *Brain) IsOperation(symbol string) bool {
	_, ok := b.operations[symbol]
	return ok
}
