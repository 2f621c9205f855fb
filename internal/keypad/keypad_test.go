package keypad

import (
	"testing"

	"calculator-brain/internal/brain"
)

func press(c *Controller, keys ...string) {
	for _, k := range keys {
		c.Press(k)
	}
}

func check(t *testing.T, c *Controller, display, description string) {
	t.Helper()
	if got := c.Display(); got != display {
		t.Fatalf("wrong display\n  got: %q\n want: %q", got, display)
	}
	if got := c.Description(); got != description {
		t.Fatalf("wrong description\n  got: %q\n want: %q", got, description)
	}
}

func TestDigitEntry(t *testing.T) {
	c := New(brain.New())

	press(c, "1", "2", "3")
	check(t, c, "123", "")

	c.Undo()
	press(c, "4")
	check(t, c, "124", "")

	press(c, ".", "6", "7")
	check(t, c, "124.67", "")

	if c.Press(".") {
		t.Fatal("expected a second decimal point to be rejected")
	}
	check(t, c, "124.67", "")
}

func TestLeadingPointAndZeros(t *testing.T) {
	c := New(brain.New())

	press(c, ".", "5")
	check(t, c, "0.5", "")

	c = New(brain.New())
	press(c, "0", "0", "7")
	check(t, c, "7", "")
}

func TestOperationCommitsTypedNumber(t *testing.T) {
	c := New(brain.New())

	press(c, "3", "+", "4", "×")
	check(t, c, "7", "3+4× ...")

	press(c, "2", "=")
	check(t, c, "14", "3+4×2=")

	if c.Typing() {
		t.Fatal("did not expect typing after =")
	}
}

func TestAliasesReachTheEngine(t *testing.T) {
	c := New(brain.New())

	press(c, "9", "sqrt")
	check(t, c, "3", "√(9) =")

	press(c, "*", "2", "=")
	check(t, c, "6", "√(9)×2=")
}

func TestUndoBackspacesThenDropsTokens(t *testing.T) {
	c := New(brain.New())

	press(c, "1", "+", "2", "3")
	c.Undo()
	check(t, c, "2", "1+ ...")

	c.Undo()
	if c.Typing() {
		t.Fatal("expected backspacing the last digit to end typing")
	}

	// Nothing typed now, so undo drops the pending +.
	c.Undo()
	check(t, c, "1", "1 =")

	c.Undo()
	c.Undo()
	check(t, c, "0", "")
}

func TestStoreAndRecallMemory(t *testing.T) {
	c := New(brain.New())

	press(c, "M", "×", "2", "=")
	check(t, c, "0", "M×2=")

	press(c, "5", "→M")
	check(t, c, "10", "M×2=")

	if got := c.Brain().Variables["M"]; got != 5 {
		t.Fatalf("expected M=5, got %v", got)
	}
	if got := len(c.Brain().Program()); got != 4 {
		t.Fatalf("expected the stored digits to stay out of the program, got %d tokens", got)
	}
}

func TestCustomMemoryVariable(t *testing.T) {
	c := New(brain.New(), WithMemory("X"))

	press(c, "4", "sto", "X", "x²")
	check(t, c, "16", "x²(X) =")
}

func TestClearForgetsVariables(t *testing.T) {
	c := New(brain.New())

	press(c, "3", "→M", "M", "+", "1", "clear")
	check(t, c, "0", "")

	if len(c.Brain().Variables) != 0 {
		t.Fatalf("expected variables to be cleared, got %v", c.Brain().Variables)
	}
}

func TestDisplayRoundsToSixSignificantDigits(t *testing.T) {
	c := New(brain.New())

	press(c, "2", "÷", "3", "=")
	check(t, c, "0.666667", "2÷3=")
}

func TestFinishCommitsTypedNumber(t *testing.T) {
	c := New(brain.New())

	press(c, "4", "2")
	c.Finish()

	if got := c.Brain().Program(); len(got) != 1 || got[0] != brain.Number(42) {
		t.Fatalf("expected program [42], got %v", got)
	}
	check(t, c, "42", "42 =")
}

func TestPressNumeral(t *testing.T) {
	c := New(brain.New())

	if !c.Press("12.5") {
		t.Fatal("expected numeral to be accepted")
	}
	press(c, "×", "2", "=")
	check(t, c, "25", "12.5×2=")

	if c.Press("1.2.3") {
		t.Fatal("expected numeral with two points to be rejected")
	}
	check(t, c, "1.23", "12.5×2=")
}
