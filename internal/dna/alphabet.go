// Package dna encodes nucleotide sequences into small integer codes and
// packs runs of codes into k-mer integers.
//
// Code assignment is part of the on-disk format: stores written by the
// ingest tool hold Encode output, so the order of AllBases and of the
// ambiguity table must never change.
package dna

const (
	// Bases are the unambiguous nucleotides, codes 0..3.
	Bases = "ACGT"
	// AmbiguousBases are the IUPAC degenerate symbols, codes 4..14.
	AmbiguousBases = "MRWSYKVHDBN"
	// AllBases is the full alphabet indexed by code.
	AllBases = Bases + AmbiguousBases

	NumBases    = len(Bases)
	NumAllBases = len(AllBases)
)

var (
	// symbolCode maps an alphabet byte to code+1 so the zero value means "not in alphabet".
	symbolCode [256]uint8

	// expansions[code] lists the unambiguous codes the symbol stands for.
	expansions [NumAllBases][]uint8
)

func init() {
	for i := 0; i < NumAllBases; i++ {
		symbolCode[AllBases[i]] = uint8(i + 1)
	}

	for i := 0; i < NumBases; i++ {
		expansions[i] = []uint8{uint8(i)}
	}

	// Ambiguity codes take the base combinations of size 2, 3, then 4,
	// each size in lexicographic order: M=AC R=AG W=AT S=CG Y=CT K=GT
	// V=ACG H=ACT D=AGT B=CGT N=ACGT.
	code := NumBases
	for size := 2; size <= NumBases; size++ {
		for _, combo := range combinations(NumBases, size) {
			expansions[code] = combo
			code++
		}
	}
}

// combinations returns all size-r subsets of 0..n-1 in lexicographic order.
func combinations(n, r int) [][]uint8 {
	var out [][]uint8
	idx := make([]uint8, r)
	for i := range idx {
		idx[i] = uint8(i)
	}
	for {
		out = append(out, append([]uint8(nil), idx...))

		// Find the rightmost index that can still move forward.
		i := r - 1
		for i >= 0 && int(idx[i]) == n-r+i {
			i--
		}
		if i < 0 {
			return out
		}
		idx[i]++
		for j := i + 1; j < r; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// CodeOf returns the code for a single alphabet symbol.
func CodeOf(symbol byte) (uint8, bool) {
	c := symbolCode[symbol]
	if c == 0 {
		return 0, false
	}
	return c - 1, true
}

// IsAmbiguous reports whether code is one of the IUPAC degenerate symbols.
func IsAmbiguous(code uint8) bool {
	return int(code) >= NumBases && int(code) < NumAllBases
}

// Expand returns the unambiguous base codes represented by code.
// Unambiguous codes expand to themselves; out-of-range codes return nil.
func Expand(code uint8) []uint8 {
	if int(code) >= NumAllBases {
		return nil
	}
	return append([]uint8(nil), expansions[code]...)
}
