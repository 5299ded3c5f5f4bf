package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"f50-race-telemetry/telemetry"
)

// RowWriter appends normalized telemetry rows to a wide-format CSV: the
// identifier columns followed by a fixed field column order. The header is
// written once, only when the file starts empty, so restarted sessions keep
// appending to the same log.
type RowWriter struct {
	file   *os.File
	writer *csv.Writer
	fields []string
}

// NewRowWriter opens (or creates) the CSV at path with the given field
// column order. Identifier fields are dropped from the list: they always
// occupy the leading columns, so a full catalog can be passed as-is without
// duplicating them.
func NewRowWriter(path string, fields []string) (*RowWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	cols := make([]string, 0, len(fields))
	for _, field := range fields {
		switch field {
		case telemetry.FieldBoat, telemetry.FieldDateTime, telemetry.FieldPortTack:
			continue
		}
		cols = append(cols, field)
	}

	w := &RowWriter{
		file:   f,
		writer: csv.NewWriter(f),
		fields: cols,
	}
	if err := w.writeHeader(); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

func (w *RowWriter) writeHeader() error {
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	if info.Size() != 0 {
		return nil
	}

	header := append([]string{telemetry.FieldBoat, telemetry.FieldDateTime, telemetry.FieldPortTack}, w.fields...)
	if err := w.writer.Write(header); err != nil {
		return err
	}
	w.writer.Flush()
	return w.writer.Error()
}

// WriteRow appends one row. Fields missing from the row are left as empty
// cells.
func (w *RowWriter) WriteRow(row telemetry.Row) error {
	record := make([]string, 0, len(w.fields)+3)
	record = append(record, row.Boat())
	record = append(record, row.Timestamp().Format(time.RFC3339))

	port, err := row.PortTack()
	if err != nil {
		return err
	}
	record = append(record, fmt.Sprintf("%t", port))

	for _, field := range w.fields {
		v, ok := row[field]
		if !ok {
			record = append(record, "")
			continue
		}
		record = append(record, fmt.Sprintf("%v", v))
	}

	if err := w.writer.Write(record); err != nil {
		return err
	}
	w.writer.Flush()
	return w.writer.Error()
}

// Close flushes and closes the underlying file.
func (w *RowWriter) Close() error {
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
