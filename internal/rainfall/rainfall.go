// Package rainfall loads daily rainfall series.
package rainfall

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// DefaultColumn is the header of the rainfall column.
const DefaultColumn = "Rainfall"

var (
	// ErrDataSourceNotFound is returned when the rainfall file does not exist.
	ErrDataSourceNotFound = errors.New("rainfall data source not found")
	// ErrColumnNotFound is returned when the header lacks the rainfall column.
	ErrColumnNotFound = errors.New("rainfall column not found")
)

// LoadSeries reads the named column of a CSV file as daily rainfall in mm.
func LoadSeries(path, column string) ([]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDataSourceNotFound, path)
		}
		return nil, fmt.Errorf("failed to open rainfall data: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only input.
			_ = cerr
		}
	}()

	series, err := ReadSeries(file, column)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return series, nil
}

// ReadSeries reads the named column from CSV data. Every data row must
// hold a finite, nonnegative number in that column.
func ReadSeries(r io.Reader, column string) ([]float64, error) {
	if column == "" {
		column = DefaultColumn
	}
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %q (empty file)", ErrColumnNotFound, column)
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	idx := columnIndex(header, column)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q (have %s)", ErrColumnNotFound, column, strings.Join(header, ", "))
	}

	var series []float64
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", row, err)
		}
		if idx >= len(record) {
			return nil, fmt.Errorf("row %d: missing %q value", row, column)
		}
		value, err := parseDepth(record[idx])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		series = append(series, value)
	}
	return series, nil
}

func columnIndex(header []string, column string) int {
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if name == column {
			return i
		}
	}
	return -1
}

func parseDepth(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, fmt.Errorf("empty rainfall value")
	}
	value, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid rainfall value %q", cell)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("invalid rainfall value %q", cell)
	}
	if value < 0 {
		return 0, fmt.Errorf("negative rainfall value %q", cell)
	}
	return value, nil
}
