package input

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// URLColumn is the header name that marks a CSV URL column.
const URLColumn = "url"

const byteOrderMark = "\ufeff"

// ReadURLs reads a URL list from r. A first row carrying a "url" cell marks a
// CSV file and that column is read; otherwise every trimmed line is one URL,
// commas included. Lines starting with '#' are comments. The result is not
// deduplicated; blank entries are dropped.
func ReadURLs(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read url list: %w", err)
	}
	text := strings.TrimPrefix(string(data), byteOrderMark)

	lines, err := contentLines(text)
	if err != nil {
		return nil, fmt.Errorf("failed to read url list: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyInput
	}
	if header, err := parseRow(lines[0]); err == nil {
		if col := headerIndex(header); col >= 0 {
			return readColumn(text, col)
		}
	}
	return lines, nil
}

// contentLines returns the trimmed lines of text that are neither blank nor
// comments.
func contentLines(text string) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, sc.Err()
}

// readColumn reads column col of every CSV record after the header.
func readColumn(text string, col int) ([]string, error) {
	records, err := newCSVReader(strings.NewReader(text)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read url list: %w", err)
	}

	urls := make([]string, 0, len(records))
	header := false
	for _, rec := range records {
		if !header {
			header = headerIndex(rec) >= 0
			continue
		}
		if col >= len(rec) {
			continue
		}
		if u := strings.TrimSpace(rec[col]); u != "" {
			urls = append(urls, u)
		}
	}
	return urls, nil
}

func parseRow(line string) ([]string, error) {
	return newCSVReader(strings.NewReader(line)).Read()
}

func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	return cr
}

// ReadFile reads a URL list from path.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided list path is intentional
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("url list not found: %s", path)
		}
		return nil, err
	}
	defer f.Close()

	return ReadURLs(f)
}

// headerIndex returns the position of the url column in a header row, or -1.
func headerIndex(row []string) int {
	for i, cell := range row {
		if strings.EqualFold(strings.TrimSpace(cell), URLColumn) {
			return i
		}
	}
	return -1
}
