package input

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"testing"
)

// TestReadURLs tests both accepted layouts.
func TestReadURLs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "csv with url header",
			in:   "name,url\nhome,https://a.example\nblog,https://b.example/blog\n",
			want: []string{"https://a.example", "https://b.example/blog"},
		},
		{
			name: "header is case insensitive and may carry a BOM",
			in:   "\ufeffURL\nhttps://a.example\n",
			want: []string{"https://a.example"},
		},
		{
			name: "plain lines",
			in:   "https://a.example\n\nhttps://b.example\n",
			want: []string{"https://a.example", "https://b.example"},
		},
		{
			name: "comments are skipped",
			in:   "# staging\nhttps://a.example\n",
			want: []string{"https://a.example"},
		},
		{
			name: "blank cells are dropped",
			in:   "url,note\n,missing\nhttps://a.example,ok\n",
			want: []string{"https://a.example"},
		},
		{
			name: "duplicates are preserved",
			in:   "https://a.example\nhttps://a.example\n",
			want: []string{"https://a.example", "https://a.example"},
		},
		{
			name: "plain lines keep commas in the url",
			in:   "https://a.example/?ids=1,2\n  https://b.example/a,b  \n",
			want: []string{"https://a.example/?ids=1,2", "https://b.example/a,b"},
		},
		{
			name: "plain lines may carry a BOM",
			in:   "\ufeffhttps://a.example\n",
			want: []string{"https://a.example"},
		},
		{
			name: "quoted url cell keeps its comma",
			in:   "url,note\n\"https://a.example/?ids=1,2\",ok\n",
			want: []string{"https://a.example/?ids=1,2"},
		},
		{
			name: "short rows are skipped",
			in:   "id,url\n1\n2,https://a.example\n",
			want: []string{"https://a.example"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ReadURLs(strings.NewReader(tt.in))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	for _, in := range []string{"", "\n\n", "# only a comment\n"} {
		t.Run("empty input "+strconv.Quote(in), func(t *testing.T) {
			t.Parallel()

			_, err := ReadURLs(strings.NewReader(in))
			if !errors.Is(err, ErrEmptyInput) {
				t.Errorf("expected ErrEmptyInput, got %v", err)
			}
		})
	}
}

// TestReadFile tests reading from disk.
func TestReadFile(t *testing.T) {
	t.Parallel()

	t.Run("reads file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "urls.csv")
		if err := os.WriteFile(path, []byte("url\nhttps://a.example\n"), 0o600); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		got, err := ReadFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(got, []string{"https://a.example"}) {
			t.Errorf("unexpected urls %v", got)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
		if err == nil || !strings.Contains(err.Error(), "not found") {
			t.Errorf("expected not found error, got %v", err)
		}
	})
}
