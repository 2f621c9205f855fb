// Package keypad turns calculator key presses into engine calls and keeps the
// display and description lines a keypad front end shows.
package keypad

import (
	"strconv"
	"strings"

	"calculator-brain/internal/brain"
)

// Keys with a meaning of their own. Any other key that is not a digit is
// handed to the engine as an operation symbol.
const (
	KeyPoint  = "."
	KeyUndo   = "⌫"
	KeyClear  = "C"
	KeyStore  = "→M"
	KeyRecall = "M"
)

var keyAliases = map[string]string{
	"undo":  KeyUndo,
	"bs":    KeyUndo,
	"clear": KeyClear,
	"c":     KeyClear,
	"->m":   KeyStore,
	"sto":   KeyStore,
	"m":     KeyRecall,
	"rcl":   KeyRecall,
}

// Controller holds the digit entry buffer in front of an engine.
type Controller struct {
	brain  *brain.Brain
	memory string

	input  string
	typing bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithMemory names the variable used by the store and recall keys.
func WithMemory(name string) Option {
	return func(c *Controller) { c.memory = name }
}

// New returns a controller driving b.
func New(b *brain.Brain, opts ...Option) *Controller {
	c := &Controller{brain: b, memory: "M"}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Brain returns the engine behind the keypad.
func (c *Controller) Brain() *brain.Brain {
	return c.brain
}

// Press handles one key and reports whether it was accepted. A run of digits
// such as "12.5" is pressed one character at a time.
func (c *Controller) Press(key string) bool {
	if alias, ok := keyAliases[strings.ToLower(key)]; ok {
		key = alias
	}

	switch {
	case key == KeyPoint || isDigit(key):
		return c.Digit(key)
	case isNumeral(key):
		ok := true
		for _, r := range key {
			ok = c.Digit(string(r)) && ok
		}
		return ok
	case key == KeyUndo:
		c.Undo()
	case key == KeyClear:
		c.Clear()
	case key == KeyStore:
		c.Store()
	case key == KeyRecall || key == c.memory:
		c.Recall()
	default:
		c.Operation(key)
	}
	return true
}

// Digit appends a digit or the decimal point to the entry buffer.
func (c *Controller) Digit(in string) bool {
	if !c.typing {
		c.input = ""
	}

	switch {
	case in == KeyPoint:
		if strings.Contains(c.input, KeyPoint) {
			return false
		}
		if c.input == "" {
			c.input = "0"
		}
		c.input += in
	case isDigit(in):
		if c.input == "0" {
			c.input = ""
		}
		c.input += in
	default:
		return false
	}
	c.typing = true
	return true
}

// Undo is backspace while a number is being typed. Otherwise it drops the
// last token of the program and replays the rest.
func (c *Controller) Undo() {
	if c.typing {
		c.input = c.input[:len(c.input)-1]
		if c.input == "" {
			c.typing = false
		}
		return
	}

	program := c.brain.Program()
	if len(program) == 0 {
		return
	}
	c.brain.SetProgram(program[:len(program)-1])
}

// Clear resets the engine, its variables and the entry buffer.
func (c *Controller) Clear() {
	c.brain.Clear()
	clear(c.brain.Variables)
	c.input = ""
	c.typing = false
}

// Store binds the displayed value to the memory variable and re-evaluates
// the program with it. A number being typed is consumed by the binding.
func (c *Controller) Store() {
	c.brain.Variables[c.memory] = c.displayValue()
	c.brain.Replay()
	c.input = ""
	c.typing = false
}

// Recall enters the memory variable as an operand.
func (c *Controller) Recall() {
	c.brain.SetVariableOperand(c.memory)
	c.input = ""
	c.typing = false
}

// Operation commits any typed number and performs symbol.
func (c *Controller) Operation(symbol string) {
	c.commit()
	c.brain.PerformOperation(c.brain.CanonicalSymbol(symbol))
}

// Typing reports whether a number is being entered.
func (c *Controller) Typing() bool {
	return c.typing
}

// Display is the main display line: the typed digits, or the engine's
// accumulator to six significant digits.
func (c *Controller) Display() string {
	if c.typing {
		return c.input
	}
	return brain.FormatOperand(c.brain.Result())
}

// Description is the trace line: the engine description followed by " ..."
// while an operation is pending or " =" once resolved. It is empty after a
// clear.
func (c *Controller) Description() string {
	desc := c.brain.Description()
	if desc == "" {
		return ""
	}
	if c.brain.IsPartialResult() {
		return desc + " ..."
	}
	if strings.HasSuffix(desc, brain.SymbolEquals) {
		return desc
	}
	return desc + " ="
}

// Finish commits a number still being typed, so a session ending with
// digits leaves them in the program.
func (c *Controller) Finish() {
	c.commit()
}

func (c *Controller) commit() {
	if !c.typing {
		return
	}
	c.brain.SetOperand(c.displayValue())
	c.input = ""
	c.typing = false
}

func (c *Controller) displayValue() float64 {
	if !c.typing {
		return c.brain.Result()
	}
	v, err := strconv.ParseFloat(c.input, 64)
	if err != nil {
		return 0
	}
	return v
}

func isDigit(s string) bool {
	return len(s) == 1 && s[0] >= '0' && s[0] <= '9'
}

func isNumeral(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '.' && (s[i] < '0' || s[i] > '9') {
			return false
		}
	}
	return true
}
