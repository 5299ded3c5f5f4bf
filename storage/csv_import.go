package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"f50-race-telemetry/telemetry"
)

// Fields kept as strings even when they happen to parse as numbers.
var stringFields = map[string]bool{
	telemetry.FieldBoat: true,
	"TRK_RACE_NUM_unk":  true,
	"TIME_LOCAL_unk":    true,
}

// ImportBoatLog reads one boat-log CSV and returns its telemetry rows. The
// boat identifier comes from the filename ("data_GER.csv" carries boat
// "GER"). Rows get their tack flag stamped from TWA where available; rows
// without a TWA sample are imported without a flag and rejected later by
// normalization.
func ImportBoatLog(path string) ([]telemetry.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open boat log: %w", err)
	}
	defer f.Close()

	boat := boatIDFromFilename(path)
	rows, err := readBoatLog(f, boat)
	if err != nil {
		return nil, fmt.Errorf("boat log %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// ImportBoatLogs imports every *.csv boat log under dir, combined and sorted
// by timestamp then boat.
func ImportBoatLogs(dir string) ([]telemetry.Row, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no CSV files found in %s", dir)
	}

	var all []telemetry.Row
	for _, path := range paths {
		rows, err := ImportBoatLog(path)
		if err != nil {
			return nil, err
		}
		log.Printf("[Import] %s: %d rows (boat %s)", filepath.Base(path), len(rows), boatIDFromFilename(path))
		all = append(all, rows...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		ti, tj := all[i].Timestamp(), all[j].Timestamp()
		if ti.Equal(tj) {
			return all[i].Boat() < all[j].Boat()
		}
		return ti.Before(tj)
	})
	return all, nil
}

// boatIDFromFilename extracts the boat id from a log filename: the last
// underscore-separated token of the stem.
func boatIDFromFilename(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	parts := strings.Split(stem, "_")
	return parts[len(parts)-1]
}

func readBoatLog(r io.Reader, boat string) ([]telemetry.Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows []telemetry.Row
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

		row := telemetry.Row{telemetry.FieldBoat: boat}
		for i, name := range header {
			if i >= len(record) || record[i] == "" {
				continue
			}
			row[name] = parseValue(name, record[i])
		}

		if port, err := telemetry.DerivePortTack(row); err == nil {
			row[telemetry.FieldPortTack] = port
		}

		rows = append(rows, row)
	}
	return rows, nil
}

// parseValue converts one CSV cell: timestamps to time.Time, numerics to
// float64, everything else stays a string.
func parseValue(field, raw string) interface{} {
	if field == telemetry.FieldDateTime {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t.UTC()
		}
		return raw
	}
	if stringFields[field] {
		return raw
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v
	}
	return raw
}
