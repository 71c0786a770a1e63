package pipeline

import (
	"slices"
	"testing"
)

// TestNormalizeURLs tests trimming and deduplication.
func TestNormalizeURLs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "keeps first occurrence",
			in:   []string{"https://b.example", "https://a.example", "https://b.example"},
			want: []string{"https://b.example", "https://a.example"},
		},
		{
			name: "trims before comparing",
			in:   []string{"  https://a.example\t", "https://a.example"},
			want: []string{"https://a.example"},
		},
		{
			name: "case sensitive",
			in:   []string{"https://a.example/X", "https://a.example/x"},
			want: []string{"https://a.example/X", "https://a.example/x"},
		},
		{
			name: "drops blanks",
			in:   []string{"", " ", "\n"},
			want: []string{},
		},
		{
			name: "nil input",
			in:   nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NormalizeURLs(tt.in)
			if !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
