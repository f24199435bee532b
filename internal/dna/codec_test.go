package dna

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEncodeDecodeSingleSymbols(t *testing.T) {
	for i := 0; i < NumAllBases; i++ {
		s := AllBases[i : i+1]
		codes, err := Encode(s)
		if err != nil {
			t.Fatalf("Encode(%q): %v", s, err)
		}
		if len(codes) != 1 || codes[0] != uint8(i) {
			t.Errorf("Encode(%q) = %v, want [%d]", s, codes, i)
		}
		got, err := Decode(codes)
		if err != nil {
			t.Fatalf("Decode(%v): %v", codes, err)
		}
		if got != s {
			t.Errorf("Decode(Encode(%q)) = %q", s, got)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	seqs := []string{
		"",
		"ACGT",
		"NNNNACGTRYKM",
		"GATTACAVHDBSW",
		AllBases + AllBases,
	}
	for _, seq := range seqs {
		codes, err := Encode(seq)
		if err != nil {
			t.Fatalf("Encode(%q): %v", seq, err)
		}
		got, err := Decode(codes)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if got != seq {
			t.Errorf("round trip %q = %q", seq, got)
		}
	}
}

func TestEncodeUnknownSymbol(t *testing.T) {
	tests := []struct {
		seq string
		pos int
	}{
		{"ACGX", 3},
		{"acgt", 0},
		{"ACGU", 3},
		{"AC GT", 2},
	}
	for _, tt := range tests {
		_, err := Encode(tt.seq)
		if !errors.Is(err, ErrUnknownSymbol) {
			t.Errorf("Encode(%q) err = %v, want ErrUnknownSymbol", tt.seq, err)
			continue
		}
		var se *SymbolError
		if !errors.As(err, &se) {
			t.Fatalf("Encode(%q) err is not *SymbolError", tt.seq)
		}
		if se.Pos != tt.pos {
			t.Errorf("Encode(%q) pos = %d, want %d", tt.seq, se.Pos, tt.pos)
		}
	}
}

func TestDecodeUnknownCode(t *testing.T) {
	_, err := Decode([]uint8{0, 1, 15})
	if !errors.Is(err, ErrUnknownCode) {
		t.Errorf("Decode err = %v, want ErrUnknownCode", err)
	}
}

func TestExpand(t *testing.T) {
	want := map[byte]string{
		'A': "A", 'C': "C", 'G': "G", 'T': "T",
		'M': "AC", 'R': "AG", 'W': "AT", 'S': "CG", 'Y': "CT", 'K': "GT",
		'V': "ACG", 'H': "ACT", 'D': "AGT", 'B': "CGT",
		'N': "ACGT",
	}
	for sym, bases := range want {
		code, ok := CodeOf(sym)
		if !ok {
			t.Fatalf("CodeOf(%q) not found", sym)
		}
		got, err := Decode(Expand(code))
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if got != bases {
			t.Errorf("Expand(%q) = %q, want %q", sym, got, bases)
		}
		if IsAmbiguous(code) != (len(bases) > 1) {
			t.Errorf("IsAmbiguous(%q) = %v", sym, IsAmbiguous(code))
		}
	}
	if Expand(uint8(NumAllBases)) != nil {
		t.Errorf("Expand(out of range) should be nil")
	}
}

func TestRNAConversion(t *testing.T) {
	if got := ToRNA("GATTACA"); got != "GAUUACA" {
		t.Errorf("ToRNA = %q, want GAUUACA", got)
	}
	if got := ToDNA("GAUUACA"); got != "GATTACA" {
		t.Errorf("ToDNA = %q, want GATTACA", got)
	}
	if got := ToRNA("NNtT"); got != "NNtU" {
		t.Errorf("ToRNA leaves other characters alone, got %q", got)
	}
	for _, seq := range []string{"", "ACGT", "TTTT", "GCGCATAT"} {
		if got := ToDNA(ToRNA(seq)); got != seq {
			t.Errorf("ToDNA(ToRNA(%q)) = %q", seq, got)
		}
	}
}

func TestCombinations(t *testing.T) {
	got := combinations(4, 2)
	want := [][]uint8{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("combinations(4, 2) mismatch (-want +got):\n%s", diff)
	}
}
