package dna

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidKmer is returned for a k-mer size that is not positive or whose
// packed values would not fit in an int64.
var ErrInvalidKmer = errors.New("invalid k-mer size")

// kmerBase returns the radix used to pack codes.
func kmerBase(ambiguous bool) int64 {
	if ambiguous {
		return int64(NumAllBases)
	}
	return int64(NumBases)
}

// kmerWeights returns base^(k-1), base^(k-2), ..., base^0.
func kmerWeights(k int, ambiguous bool) ([]int64, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidKmer, k)
	}
	base := kmerBase(ambiguous)
	w := make([]int64, k)
	w[k-1] = 1
	for j := k - 2; j >= 0; j-- {
		if w[j+1] > math.MaxInt64/base {
			return nil, fmt.Errorf("%w: %d overflows int64 with base %d", ErrInvalidKmer, k, base)
		}
		w[j] = w[j+1] * base
	}
	// The largest packed value is base^k - 1.
	if w[0] > math.MaxInt64/base {
		return nil, fmt.Errorf("%w: %d overflows int64 with base %d", ErrInvalidKmer, k, base)
	}
	return w, nil
}

// EncodeKmers packs every complete window of k codes into one integer.
//
// The result has len(codes)-k+1 entries (none when the sequence is shorter
// than k). Entry p packs codes[p:p+k] with the leading code in the most
// significant position:
//
//	out[p] = codes[p]*base^(k-1) + codes[p+1]*base^(k-2) + ... + codes[p+k-1]
//
// where base is 4, or 15 when ambiguous codes are allowed. This is the
// centred convolution of the sequence with the kernel base^0..base^(k-1),
// trimmed by (k-1)/2 entries at the start and the rest at the end, so no
// edge-padded values survive.
func EncodeKmers(codes []uint8, k int, ambiguous bool) ([]int64, error) {
	w, err := kmerWeights(k, ambiguous)
	if err != nil {
		return nil, err
	}
	base := kmerBase(ambiguous)
	for i, c := range codes {
		if int64(c) >= base {
			return nil, fmt.Errorf("%w %d at position %d for base %d", ErrUnknownCode, c, i, base)
		}
	}

	n := len(codes) - k + 1
	if n <= 0 {
		return []int64{}, nil
	}
	out := make([]int64, n)
	for p := range out {
		var v int64
		for j, wj := range w {
			v += int64(codes[p+j]) * wj
		}
		out[p] = v
	}
	return out, nil
}

// DecodeKmers reverses EncodeKmers.
//
// Each packed value contributes its leading code; the final value also
// contributes its k-1 trailing codes, giving len(packed)+k-1 codes. Only
// output of EncodeKmers with the same k and alphabet decodes meaningfully.
func DecodeKmers(packed []int64, k int, ambiguous bool) ([]uint8, error) {
	w, err := kmerWeights(k, ambiguous)
	if err != nil {
		return nil, err
	}
	if len(packed) == 0 {
		return []uint8{}, nil
	}

	out := make([]uint8, 0, len(packed)+k-1)
	for _, v := range packed {
		out = append(out, uint8(v/w[0]))
	}
	last := packed[len(packed)-1]
	for j := 1; j < k; j++ {
		out = append(out, uint8((last%w[j-1])/w[j]))
	}
	return out, nil
}

// EncodeKmersBatch applies EncodeKmers to each sequence independently.
func EncodeKmersBatch(seqs [][]uint8, k int, ambiguous bool) ([][]int64, error) {
	out := make([][]int64, len(seqs))
	for i, seq := range seqs {
		packed, err := EncodeKmers(seq, k, ambiguous)
		if err != nil {
			return nil, fmt.Errorf("sequence %d: %w", i, err)
		}
		out[i] = packed
	}
	return out, nil
}

// DecodeKmersBatch applies DecodeKmers to each packed sequence independently.
func DecodeKmersBatch(packed [][]int64, k int, ambiguous bool) ([][]uint8, error) {
	out := make([][]uint8, len(packed))
	for i, p := range packed {
		codes, err := DecodeKmers(p, k, ambiguous)
		if err != nil {
			return nil, fmt.Errorf("sequence %d: %w", i, err)
		}
		out[i] = codes
	}
	return out, nil
}
