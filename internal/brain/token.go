package brain

import "fmt"

// TokenKind tags the variant held by a Token.
type TokenKind int

const (
	NumberToken TokenKind = iota
	VariableToken
	SymbolToken
)

func (k TokenKind) String() string {
	switch k {
	case NumberToken:
		return "number"
	case VariableToken:
		return "variable"
	case SymbolToken:
		return "symbol"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// Token is one entry of a program: a numeric operand, a reference to a
// variable, or an operation symbol. Only the field matching Kind is set,
// so tokens compare with ==.
type Token struct {
	Kind  TokenKind
	Value float64
	Name  string
}

// Number returns an operand token.
func Number(v float64) Token {
	return Token{Kind: NumberToken, Value: v}
}

// Variable returns a variable reference token.
func Variable(name string) Token {
	return Token{Kind: VariableToken, Name: name}
}

// Symbol returns an operation token. The symbol does not have to exist in
// the operation table.
func Symbol(name string) Token {
	return Token{Kind: SymbolToken, Name: name}
}

// String renders the token the way it appears in a description.
func (t Token) String() string {
	if t.Kind == NumberToken {
		return FormatOperand(t.Value)
	}
	return t.Name
}
