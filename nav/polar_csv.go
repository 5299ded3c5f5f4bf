package nav

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// LoadPolarCSV reads a polar performance grid from a CSV file. The first
// row holds the TWS values after a corner label cell ("TWA/TWS"), and each
// following row holds a TWA and the boat speed at that angle per wind
// speed. The grid melts into one PolarPoint per cell:
//
//	TWA/TWS,10,20
//	45,28.5,39.0
//	90,35.0,52.5
func LoadPolarCSV(path string) (*PolarTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open polar file: %w", err)
	}
	defer f.Close()

	table, err := readPolarGrid(f)
	if err != nil {
		return nil, fmt.Errorf("polar file %s: %w", path, err)
	}
	return table, nil
}

func readPolarGrid(r io.Reader) (*PolarTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("header needs at least one TWS column")
	}

	speeds := make([]float64, 0, len(header)-1)
	for _, cell := range header[1:] {
		tws, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("TWS column %q: %w", cell, err)
		}
		speeds = append(speeds, tws)
	}

	var points []PolarPoint
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		twa, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: TWA %q: %w", line, record[0], err)
		}
		for i, cell := range record[1:] {
			bsp, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: BSP %q: %w", line, cell, err)
			}
			points = append(points, PolarPoint{TWA: twa, TWS: speeds[i], BSP: bsp})
		}
	}
	return NewPolarTable(points)
}
