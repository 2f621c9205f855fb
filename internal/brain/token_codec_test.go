package brain

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestTokenJSONShapes(t *testing.T) {
	program := []Token{Number(3), Symbol("+"), Variable("M"), Symbol("=")}

	data, err := json.Marshal(program)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if want := `[3,"+",{"variable":"M"},"="]`; string(data) != want {
		t.Fatalf("expected %s, got %s", want, data)
	}

	var decoded []Token
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for i := range program {
		if decoded[i] != program[i] {
			t.Fatalf("token %d: expected %#v, got %#v", i, program[i], decoded[i])
		}
	}
}

func TestTokenJSONRejectsBadInput(t *testing.T) {
	if _, err := json.Marshal(Number(math.Inf(1))); err == nil {
		t.Fatal("expected error for non-finite operand")
	}

	var tok Token
	for _, in := range []string{`{"variable":""}`, `true`, `null`} {
		if err := json.Unmarshal([]byte(in), &tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", in, err)
		}
	}
}

func TestTokenYAML(t *testing.T) {
	src := `
- 3
- "+"
- variable: M
- 2.5
- "="
`
	var program []Token
	if err := yaml.Unmarshal([]byte(src), &program); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := []Token{Number(3), Symbol("+"), Variable("M"), Number(2.5), Symbol("=")}
	if len(program) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(program))
	}
	for i := range want {
		if program[i] != want[i] {
			t.Fatalf("token %d: expected %#v, got %#v", i, want[i], program[i])
		}
	}

	out, err := yaml.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var again []Token
	if err := yaml.Unmarshal(out, &again); err != nil {
		t.Fatalf("unmarshal encoded program: %v", err)
	}
	for i := range want {
		if again[i] != want[i] {
			t.Fatalf("token %d after re-encoding: expected %#v, got %#v", i, want[i], again[i])
		}
	}
}
