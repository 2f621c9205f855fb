package brain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// ErrInvalidToken is returned for text that cannot become a token.
var ErrInvalidToken = errors.New("invalid token")

// symbolAliases maps keyboard friendly spellings onto table symbols.
var symbolAliases = map[string]string{
	"*":    SymbolMultiply,
	"/":    SymbolDivide,
	"-":    SymbolSubtract,
	"sqrt": SymbolSqrt,
	"pi":   SymbolPi,
	"+/-":  SymbolNegate,
	"neg":  SymbolNegate,
	"x^2":  SymbolSquare,
	"sq":   SymbolSquare,
	"1/x":  SymbolReciprocal,
	"inv":  SymbolReciprocal,
	"x^-1": SymbolReciprocal,
	"rand": SymbolRandom,
}

// ParseToken turns user text into a token. Decimal numbers become operands,
// identifiers starting with an upper-case letter become variable references
// and everything else becomes a symbol, after NFC normalisation and alias
// resolution. Unknown symbols are returned as is; the engine ignores them.
func (b *Brain) ParseToken(text string) (Token, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Token{}, fmt.Errorf("%w: empty", ErrInvalidToken)
	}

	v, err := strconv.ParseFloat(text, 64)
	switch {
	case err == nil && !math.IsNaN(v) && !math.IsInf(v, 0):
		return Number(v), nil
	case err == nil, errors.Is(err, strconv.ErrRange):
		return Token{}, fmt.Errorf("%w: %q is not a finite number", ErrInvalidToken, text)
	}

	symbol := b.CanonicalSymbol(text)
	if !b.IsOperation(symbol) && isVariableName(symbol) {
		return Variable(symbol), nil
	}
	return Symbol(symbol), nil
}

// ParseProgram parses each field with ParseToken.
func (b *Brain) ParseProgram(fields []string) ([]Token, error) {
	tokens := make([]Token, 0, len(fields))
	for i, f := range fields {
		t, err := b.ParseToken(f)
		if err != nil {
			return nil, fmt.Errorf("token %d: %w", i, err)
		}
		tokens = append(tokens, t)
	}
	return tokens, nil
}

// CanonicalSymbol normalises symbol text to the spelling used by the
// operation table. Text without a known spelling is returned normalised.
func (b *Brain) CanonicalSymbol(text string) string {
	text = norm.NFC.String(strings.TrimSpace(text))
	if b.IsOperation(text) {
		return text
	}
	if alias, ok := symbolAliases[strings.ToLower(text)]; ok {
		return alias
	}
	return text
}

func isVariableName(s string) bool {
	for i, r := range s {
		switch {
		case i == 0 && (r > unicode.MaxASCII || !unicode.IsUpper(r)):
			return false
		case r > unicode.MaxASCII:
			return false
		case !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_':
			return false
		}
	}
	return s != ""
}
