// Package dataset loads numeric columns from CSV files.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/raykavin/miniplot/pkg/numeric"
	"github.com/schollz/progressbar/v3"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrEmpty         = errors.New("dataset has no rows")
	ErrUnknownColumn = errors.New("unknown column")
)

// Table holds the columns of a CSV file
type Table struct {
	names   []string
	index   map[string]int
	columns [][]float64
}

// Load reads CSV data. The first row is a header when its first cell is not a
// number, otherwise the columns are named c0, c1 and so on. Empty cells are
// read as NaN.
func Load(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	lines, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmpty
	}

	names, hasHeader := parseHeaders(lines[0])
	if hasHeader {
		lines = lines[1:]
	}

	table := &Table{
		names:   names,
		index:   make(map[string]int, len(names)),
		columns: make([][]float64, len(names)),
	}
	for i, name := range names {
		table.index[name] = i
		table.columns[i] = make([]float64, 0, len(lines))
	}

	for row, line := range lines {
		for col, cell := range line {
			value, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", row+1, names[col], err)
			}
			table.columns[col] = append(table.columns[col], value)
		}
	}

	return table, nil
}

// LoadFile reads the CSV file at path, showing a byte progress bar when progress is set
func LoadFile(path string, progress bool) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if !progress {
		return Load(file)
	}

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	bar := progressbar.DefaultBytes(info.Size(), "loading "+path)
	reader := progressbar.NewReader(file, bar)
	table, err := Load(&reader)
	if err != nil {
		return nil, err
	}

	return table, bar.Finish()
}

// parseHeaders returns the column names and whether the first line is a header
func parseHeaders(first []string) ([]string, bool) {
	if _, err := parseCell(first[0]); err == nil {
		names := make([]string, len(first))
		for i := range first {
			names[i] = fmt.Sprintf("c%d", i)
		}
		return names, false
	}

	names := make([]string, len(first))
	for i, header := range first {
		names[i] = strings.TrimSpace(header)
	}
	return names, true
}

func parseCell(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(cell, 64)
}

// Names returns the column names in file order
func (t *Table) Names() []string {
	return append([]string{}, t.names...)
}

// Rows returns the number of data rows
func (t *Table) Rows() int {
	if len(t.columns) == 0 {
		return 0
	}
	return len(t.columns[0])
}

// Column returns the values of the named column
func (t *Table) Column(name string) (numeric.Values, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownColumn, name)
	}
	return numeric.Values(t.columns[i]), nil
}

// Matrix stacks the named columns as the rows of a matrix
func (t *Table) Matrix(names ...string) (*mat.Dense, error) {
	if len(names) == 0 || t.Rows() == 0 {
		return nil, ErrEmpty
	}

	data := make([]float64, 0, len(names)*t.Rows())
	for _, name := range names {
		column, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		data = append(data, column...)
	}

	return mat.NewDense(len(names), t.Rows(), data), nil
}
