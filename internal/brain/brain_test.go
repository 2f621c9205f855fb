package brain

import (
	"math"
	"testing"
)

func run(b *Brain, tokens ...Token) *Brain {
	for _, t := range tokens {
		b.Feed(t)
	}
	return b
}

func TestChainedBinaryOperatorsFoldLeftToRight(t *testing.T) {
	b := run(New(), Number(3), Symbol("+"), Number(4), Symbol("×"))

	if got := b.Result(); got != 7 {
		t.Fatalf("expected pending 3+4 to fold to 7, got %v", got)
	}
	if got := b.Description(); got != "3+4×" {
		t.Fatalf("expected description %q, got %q", "3+4×", got)
	}
	if !b.IsPartialResult() {
		t.Fatal("expected partial result while × is pending")
	}

	run(b, Number(2), Symbol("="))

	if got := b.Result(); got != 14 {
		t.Fatalf("expected result 14, got %v", got)
	}
	if got := b.Description(); got != "3+4×2=" {
		t.Fatalf("expected description %q, got %q", "3+4×2=", got)
	}
	if b.IsPartialResult() {
		t.Fatal("did not expect partial result after =")
	}
}

func TestEqualsReusesOperandWhenNoneFollowsOperator(t *testing.T) {
	b := run(New(), Number(7), Symbol("+"), Symbol("="))

	if got := b.Result(); got != 14 {
		t.Fatalf("expected result 14, got %v", got)
	}
	if got := b.Description(); got != "7+7=" {
		t.Fatalf("expected description %q, got %q", "7+7=", got)
	}
}

func TestRepeatedEqualsDoesNotRepeatOperand(t *testing.T) {
	b := run(New(), Number(7), Symbol("+"), Symbol("="), Symbol("="))

	if got := b.Result(); got != 14 {
		t.Fatalf("expected result 14, got %v", got)
	}
	if got := b.Description(); got != "7+7=" {
		t.Fatalf("expected description %q, got %q", "7+7=", got)
	}
}

func TestUnaryAppliesToLastOperandWhilePending(t *testing.T) {
	b := run(New(), Number(4), Symbol("+"), Number(4), Symbol("√"))

	if got := b.Description(); got != "4+√(4)" {
		t.Fatalf("expected description %q, got %q", "4+√(4)", got)
	}
	if got := b.Result(); got != 2 {
		t.Fatalf("expected accumulator 2 before =, got %v", got)
	}

	run(b, Symbol("="))
	if got := b.Result(); got != 6 {
		t.Fatalf("expected result 6, got %v", got)
	}
	if got := b.Description(); got != "4+√(4)=" {
		t.Fatalf("expected description %q, got %q", "4+√(4)=", got)
	}
}

func TestUnaryChainsOnLastOperand(t *testing.T) {
	b := run(New(), Number(4), Symbol("+"), Number(16), Symbol("√"), Symbol("√"))

	if got := b.Description(); got != "4+√(√(16))" {
		t.Fatalf("expected description %q, got %q", "4+√(√(16))", got)
	}
	if got := b.Result(); got != 2 {
		t.Fatalf("expected accumulator 2, got %v", got)
	}
}

func TestUnaryRightAfterOperatorUsesPreviousOperand(t *testing.T) {
	b := run(New(), Number(4), Symbol("+"), Symbol("√"), Symbol("="))

	if got := b.Description(); got != "4+√(4)=" {
		t.Fatalf("expected description %q, got %q", "4+√(4)=", got)
	}
	if got := b.Result(); got != 6 {
		t.Fatalf("expected result 6, got %v", got)
	}
}

func TestUnaryWithoutPendingWrapsWholeTrace(t *testing.T) {
	b := run(New(), Number(3), Symbol("+"), Number(6), Symbol("="), Symbol("√"))

	if got := b.Description(); got != "√(3+6)" {
		t.Fatalf("expected description %q, got %q", "√(3+6)", got)
	}
	if got := b.Result(); got != 3 {
		t.Fatalf("expected result 3, got %v", got)
	}
}

func TestOperandAfterEqualsStartsNewTrace(t *testing.T) {
	b := run(New(), Number(1), Symbol("+"), Number(2), Symbol("="), Number(9))

	if got := b.Description(); got != "9" {
		t.Fatalf("expected description %q, got %q", "9", got)
	}
	if got := b.Result(); got != 9 {
		t.Fatalf("expected result 9, got %v", got)
	}
}

func TestOperatorAfterEqualsContinuesTrace(t *testing.T) {
	b := run(New(), Number(1), Symbol("+"), Number(2), Symbol("="), Symbol("×"), Number(5), Symbol("="))

	if got := b.Description(); got != "1+2×5=" {
		t.Fatalf("expected description %q, got %q", "1+2×5=", got)
	}
	if got := b.Result(); got != 15 {
		t.Fatalf("expected result 15, got %v", got)
	}
}

func TestReciprocalOfZeroIsZero(t *testing.T) {
	b := run(New(), Number(0), Symbol("x⁻¹"))

	if got := b.Result(); got != 0 {
		t.Fatalf("expected result 0, got %v", got)
	}
	if got := b.Description(); got != "x⁻¹(0)" {
		t.Fatalf("expected description %q, got %q", "x⁻¹(0)", got)
	}
}

func TestFloatEdgeCasesPropagate(t *testing.T) {
	tests := []struct {
		name   string
		tokens []Token
		check  func(float64) bool
	}{
		{
			name:   "divide by zero",
			tokens: []Token{Number(1), Symbol("÷"), Number(0), Symbol("=")},
			check:  func(v float64) bool { return math.IsInf(v, 1) },
		},
		{
			name:   "log of negative",
			tokens: []Token{Number(-1), Symbol("log")},
			check:  math.IsNaN,
		},
		{
			name:   "ln of zero",
			tokens: []Token{Number(0), Symbol("ln")},
			check:  func(v float64) bool { return math.IsInf(v, -1) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := run(New(), tc.tokens...)
			if !tc.check(b.Result()) {
				t.Fatalf("unexpected result %v", b.Result())
			}
		})
	}
}

func TestUnknownSymbolIsLoggedAndIgnored(t *testing.T) {
	b := run(New(), Number(5), Symbol("+"), Number(2))
	before := b.Description()

	b.PerformOperation("frobnicate")

	if got := b.Result(); got != 2 {
		t.Fatalf("expected result 2, got %v", got)
	}
	if got := b.Description(); got != before {
		t.Fatalf("expected description %q, got %q", before, got)
	}
	if !b.IsPartialResult() {
		t.Fatal("expected pending + to survive an unknown symbol")
	}

	program := b.Program()
	if last := program[len(program)-1]; last != Symbol("frobnicate") {
		t.Fatalf("expected unknown symbol to be logged, got %#v", last)
	}
}

func TestEqualsWithoutPendingIsNoOp(t *testing.T) {
	b := run(New(), Number(5), Symbol("="))

	if got := b.Result(); got != 5 {
		t.Fatalf("expected result 5, got %v", got)
	}
	if got := b.Description(); got != "5=" {
		t.Fatalf("expected description %q, got %q", "5=", got)
	}
}

func TestConstantsAndRandom(t *testing.T) {
	b := New(WithRandom(func() float64 { return 0.25 }))

	b.PerformOperation("π")
	if got := b.Result(); got != math.Pi {
		t.Fatalf("expected π, got %v", got)
	}

	b.PerformOperation("×")
	b.PerformOperation("rnd")
	b.PerformOperation("=")

	if got := b.Result(); got != math.Pi*0.25 {
		t.Fatalf("expected π×0.25, got %v", got)
	}
	if got := b.Description(); got != "π×R=" {
		t.Fatalf("expected description %q, got %q", "π×R=", got)
	}
}

func TestUnaryOnConstantWhilePending(t *testing.T) {
	b := run(New(), Number(1), Symbol("+"), Symbol("π"), Symbol("±"))

	if got := b.Description(); got != "1+±(π)" {
		t.Fatalf("expected description %q, got %q", "1+±(π)", got)
	}
	if got := b.Result(); got != -math.Pi {
		t.Fatalf("expected -π, got %v", got)
	}
}

func TestUnboundVariableEvaluatesToZero(t *testing.T) {
	b := New()
	b.SetVariableOperand("M")

	if got := b.Result(); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := b.Description(); got != "M" {
		t.Fatalf("expected description %q, got %q", "M", got)
	}
}

func TestClearKeepsVariables(t *testing.T) {
	b := New()
	b.Variables["M"] = 3
	run(b, Variable("M"), Symbol("+"), Number(1))

	b.Clear()

	if got := b.Result(); got != 0 {
		t.Fatalf("expected result 0, got %v", got)
	}
	if got := b.Description(); got != "" {
		t.Fatalf("expected empty description, got %q", got)
	}
	if b.IsPartialResult() {
		t.Fatal("did not expect partial result after Clear")
	}
	if got := len(b.Program()); got != 0 {
		t.Fatalf("expected empty program, got %d tokens", got)
	}
	if got, ok := b.Variables["M"]; !ok || got != 3 {
		t.Fatalf("expected M=3 to survive Clear, got %v (bound=%t)", got, ok)
	}
}

func TestSymbolsListsTable(t *testing.T) {
	symbols := New().Symbols()
	if len(symbols) != 17 {
		t.Fatalf("expected 17 symbols, got %d", len(symbols))
	}
	if symbols[0].Kind != "constant" {
		t.Fatalf("expected constants first, got %#v", symbols[0])
	}
	if last := symbols[len(symbols)-1]; last.Symbol != "=" || last.Kind != "equals" {
		t.Fatalf("expected = last, got %#v", last)
	}
}
