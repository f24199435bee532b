package dna

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownSymbol is returned by Encode for a character outside AllBases.
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrUnknownCode is returned by Decode for a code >= NumAllBases.
	ErrUnknownCode = errors.New("unknown code")
)

// SymbolError reports the first offending character of an Encode call.
type SymbolError struct {
	Pos    int
	Symbol byte
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("%v %q at position %d", ErrUnknownSymbol, e.Symbol, e.Pos)
}

func (e *SymbolError) Unwrap() error {
	return ErrUnknownSymbol
}

// Encode maps each character of seq to its alphabet code.
// Matching is case-sensitive.
func Encode(seq string) ([]uint8, error) {
	out := make([]uint8, len(seq))
	for i := 0; i < len(seq); i++ {
		c := symbolCode[seq[i]]
		if c == 0 {
			return nil, &SymbolError{Pos: i, Symbol: seq[i]}
		}
		out[i] = c - 1
	}
	return out, nil
}

// Decode maps codes back to their alphabet symbols.
func Decode(codes []uint8) (string, error) {
	var sb strings.Builder
	sb.Grow(len(codes))
	for i, c := range codes {
		if int(c) >= NumAllBases {
			return "", fmt.Errorf("%w %d at position %d", ErrUnknownCode, c, i)
		}
		sb.WriteByte(AllBases[c])
	}
	return sb.String(), nil
}

// ToRNA replaces every T with U.
func ToRNA(dna string) string {
	return strings.ReplaceAll(dna, "T", "U")
}

// ToDNA replaces every U with T.
func ToDNA(rna string) string {
	return strings.ReplaceAll(rna, "U", "T")
}
