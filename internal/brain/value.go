package brain

import (
	"encoding/json"
	"fmt"
	"math"
)

// Value is an engine result as it crosses an encoding boundary. Finite values
// encode as JSON numbers; +Inf, -Inf and NaN encode as the strings "+Inf",
// "-Inf" and "NaN", which encoding/json cannot represent as numbers.
type Value float64

const (
	posInfText = "+Inf"
	negInfText = "-Inf"
	nanText    = "NaN"
)

// Float64 returns v as a float64.
func (v Value) Float64() float64 {
	return float64(v)
}

// IsFinite reports whether v is neither infinite nor NaN.
func (v Value) IsFinite() bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (v Value) MarshalJSON() ([]byte, error) {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return json.Marshal(nanText)
	case math.IsInf(f, 1):
		return json.Marshal(posInfText)
	case math.IsInf(f, -1):
		return json.Marshal(negInfText)
	}
	return json.Marshal(f)
}

// UnmarshalJSON accepts a JSON number or one of the strings written by
// MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		switch s {
		case nanText:
			*v = Value(math.NaN())
		case posInfText, "Inf":
			*v = Value(math.Inf(1))
		case negInfText:
			*v = Value(math.Inf(-1))
		default:
			return fmt.Errorf("%w: %q is not a value", ErrInvalidToken, s)
		}
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Value(f)
	return nil
}

// Values copies a variable table into its encodable form. A nil table
// becomes an empty one.
func Values(vars map[string]float64) map[string]Value {
	out := make(map[string]Value, len(vars))
	for name, f := range vars {
		out[name] = Value(f)
	}
	return out
}
