package store

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"genomes", "genomes.db"},
		{"genomes.db", "genomes.db"},
		{"data/genomes.fasta", "data/genomes.fasta.db"},
		{"data/genomes.DB", "data/genomes.DB.db"},
	}
	for _, tt := range tests {
		if got := NormalizePath(tt.in); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
