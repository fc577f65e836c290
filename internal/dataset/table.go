package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ReadRawSamples reads a whole sensor log table into memory. The header is
// matched by name (trimmed, case-insensitive) so column order and extra
// columns do not matter. A missing required column fails before any row is
// read; a non-numeric cell fails the whole read.
func ReadRawSamples(r io.Reader, v Variant) ([]RawSample, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing header", ErrSchema)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := indexHeader(header)
	for _, col := range RequiredInputColumns(v) {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: no column named %q", ErrSchema, col)
		}
	}
	collisionIdx, hasCollision := idx[ColCollisionFlag]
	if v != V2 {
		hasCollision = false
	}

	var out []RawSample
	rowNum := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", rowNum, err)
		}

		var s RawSample
		if s.LidarMin, err = parseDistance(row, idx, ColLidarMin, rowNum); err != nil {
			return nil, err
		}
		if v == V2 {
			if s.LidarMax, err = parseDistance(row, idx, ColLidarMax, rowNum); err != nil {
				return nil, err
			}
		}
		if s.UltrasonicLeft, err = parseDistance(row, idx, ColUltrasonicLeft, rowNum); err != nil {
			return nil, err
		}
		if s.UltrasonicRight, err = parseDistance(row, idx, ColUltrasonicRight, rowNum); err != nil {
			return nil, err
		}
		if hasCollision {
			if s.CollisionFlag, err = parseFlag(row[collisionIdx], rowNum); err != nil {
				return nil, err
			}
		}
		out = append(out, s)
	}
	return out, nil
}

func indexHeader(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		name := strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		for _, known := range InputColumns(V2) {
			if strings.EqualFold(name, known) {
				if _, dup := idx[known]; !dup {
					idx[known] = i
				}
			}
		}
	}
	return idx
}

func parseDistance(row []string, idx map[string]int, col string, rowNum int) (float64, error) {
	cell := strings.TrimSpace(row[idx[col]])
	if cell == "" {
		return 0, fmt.Errorf("row %d column %q: %w: empty cell", rowNum, col, ErrMalformedValue)
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("row %d column %q: %w: %v", rowNum, col, ErrMalformedValue, err)
	}
	if math.IsNaN(v) {
		return 0, fmt.Errorf("row %d column %q: %w: NaN", rowNum, col, ErrMalformedValue)
	}
	return v, nil
}

// parseFlag reads the collision flag, truncated to 0 or 1. Empty and NaN
// cells mean no collision; anything truncating outside {0, 1} is malformed.
func parseFlag(cell string, rowNum int) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("row %d column %q: %w: %v", rowNum, ColCollisionFlag, ErrMalformedValue, err)
	}
	if math.IsNaN(v) {
		return 0, nil
	}
	if t := math.Trunc(v); t == 0 || t == 1 {
		return math.Abs(t), nil
	}
	return 0, fmt.Errorf("row %d column %q: %w: %q is not 0 or 1", rowNum, ColCollisionFlag, ErrMalformedValue, cell)
}

// WriteLabeledSamples writes samples as an integer CSV table with the
// variant's output header. An empty slice yields a header-only table.
func WriteLabeledSamples(w io.Writer, v Variant, samples []LabeledSample) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(OutputColumns(v)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(OutputColumns(v)))
	for i, s := range samples {
		for j, val := range outputRow(v, s) {
			record[j] = strconv.Itoa(val)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteRawSamples writes a sensor log table in the variant's input layout.
func WriteRawSamples(w io.Writer, v Variant, samples []RawSample) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(InputColumns(v)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, s := range samples {
		record := []string{formatMetres(s.LidarMin)}
		if v == V2 {
			record = append(record, formatMetres(s.LidarMax))
		}
		record = append(record, formatMetres(s.UltrasonicLeft), formatMetres(s.UltrasonicRight))
		if v == V2 {
			record = append(record, strconv.Itoa(int(s.CollisionFlag)))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatMetres(m float64) string {
	return strconv.FormatFloat(m, 'f', 4, 64)
}
