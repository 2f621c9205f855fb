package brain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// variableRef is the wire shape of a variable token in JSON and YAML.
type variableRef struct {
	Variable string `json:"variable" yaml:"variable"`
}

// MarshalJSON encodes numbers as JSON numbers, symbols as strings and
// variables as {"variable": name}.
func (t Token) MarshalJSON() ([]byte, error) {
	switch t.Kind {
	case NumberToken:
		if math.IsNaN(t.Value) || math.IsInf(t.Value, 0) {
			return nil, fmt.Errorf("%w: non-finite operand %v", ErrInvalidToken, t.Value)
		}
		return json.Marshal(t.Value)
	case VariableToken:
		return json.Marshal(variableRef{Variable: t.Name})
	case SymbolToken:
		return json.Marshal(t.Name)
	default:
		return nil, fmt.Errorf("%w: kind %s", ErrInvalidToken, t.Kind)
	}
}

// UnmarshalJSON accepts the shapes written by MarshalJSON.
func (t *Token) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("%w: empty", ErrInvalidToken)
	}

	switch data[0] {
	case '"':
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*t = Symbol(name)
	case '{':
		var ref variableRef
		if err := json.Unmarshal(data, &ref); err != nil {
			return err
		}
		if ref.Variable == "" {
			return fmt.Errorf("%w: variable name is empty", ErrInvalidToken)
		}
		*t = Variable(ref.Variable)
	default:
		var v float64
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidToken, data)
		}
		*t = Number(v)
	}
	return nil
}

// MarshalYAML uses the same three shapes as MarshalJSON.
func (t Token) MarshalYAML() (interface{}, error) {
	switch t.Kind {
	case NumberToken:
		if math.IsNaN(t.Value) || math.IsInf(t.Value, 0) {
			return nil, fmt.Errorf("%w: non-finite operand %v", ErrInvalidToken, t.Value)
		}
		return t.Value, nil
	case VariableToken:
		return variableRef{Variable: t.Name}, nil
	case SymbolToken:
		return t.Name, nil
	default:
		return nil, fmt.Errorf("%w: kind %s", ErrInvalidToken, t.Kind)
	}
}

// UnmarshalYAML accepts a number, a string, or a {variable: name} mapping.
func (t *Token) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		var ref variableRef
		if err := node.Decode(&ref); err != nil {
			return err
		}
		if ref.Variable == "" {
			return fmt.Errorf("%w: line %d: variable name is empty", ErrInvalidToken, node.Line)
		}
		*t = Variable(ref.Variable)
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!int", "!!float":
			var v float64
			if err := node.Decode(&v); err != nil {
				return err
			}
			*t = Number(v)
		default:
			*t = Symbol(node.Value)
		}
	default:
		return fmt.Errorf("%w: line %d: unexpected YAML node", ErrInvalidToken, node.Line)
	}
	return nil
}
