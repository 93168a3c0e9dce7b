// Package cloc reads `cloc --by-file --csv` reports and joins them onto parsed commits.
package cloc

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/huangsam/gitmine/schema"
)

// minFields is language,filename,blank,comment,code. cloc appends a version column to the header.
const minFields = 5

// ParseTable builds a lookup table from the lines of a cloc by-file report.
// The first line is the header and the last line starting with SUM closes the data rows.
func ParseTable(lines []string) (schema.ClocTable, error) {
	nonEmpty := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			nonEmpty = append(nonEmpty, line)
		}
	}

	sumIdx := -1
	for i := len(nonEmpty) - 1; i >= 0; i-- {
		if strings.HasPrefix(nonEmpty[i], "SUM") {
			sumIdx = i
			break
		}
	}
	if sumIdx < 0 {
		return nil, ErrNoSumRow
	}

	table := make(schema.ClocTable, max(sumIdx-1, 0))
	for i := 1; i < sumIdx; i++ {
		entry, err := parseRow(i, nonEmpty[i])
		if err != nil {
			return nil, err
		}
		if _, exists := table[entry.Filename]; exists {
			return nil, &DuplicateEntryError{Filename: entry.Filename}
		}
		table[entry.Filename] = entry
	}
	return table, nil
}

// ParseReader reads a whole cloc report from r.
func ParseReader(r io.Reader) (schema.ClocTable, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cloc report: %w", err)
	}
	return ParseTable(lines)
}

// LoadTable parses the cloc report at path. A missing file yields an empty table.
func LoadTable(path string) (schema.ClocTable, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return schema.ClocTable{}, nil
		}
		return nil, fmt.Errorf("failed to open cloc report: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ParseReader(f)
}

// parseRow decodes one CSV data row. Filenames may be quoted when they contain commas.
func parseRow(row int, line string) (schema.ClocEntry, error) {
	reader := csv.NewReader(strings.NewReader(line))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	record, err := reader.Read()
	if err != nil {
		return schema.ClocEntry{}, &MalformedRowError{Row: row, Line: line, Err: err}
	}
	if len(record) < minFields {
		return schema.ClocEntry{}, &MalformedRowError{
			Row: row, Line: line, Err: fmt.Errorf("expected %d fields, got %d", minFields, len(record)),
		}
	}

	filename := strings.TrimPrefix(strings.TrimSpace(record[1]), "./")
	if filename == "" {
		return schema.ClocEntry{}, &EmptyFilenameError{Row: row}
	}

	var counts [3]int
	for i, raw := range record[2:5] {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return schema.ClocEntry{}, &MalformedRowError{Row: row, Line: line, Err: err}
		}
		counts[i] = n
	}

	return schema.ClocEntry{
		Language: record[0],
		Filename: filename,
		Blank:    counts[0],
		Comment:  counts[1],
		Code:     counts[2],
	}, nil
}
