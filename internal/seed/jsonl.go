package seed

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/mesh-intelligence/tabula/pkg/types"
)

// ErrNoSchema is returned when a JSONL baseline has no schema record.
var ErrNoSchema = errors.New("baseline has no schema record")

// jsonlRecord is one parseable line of a JSONL file.
type jsonlRecord struct {
	line int
	data json.RawMessage
}

// schemaRecord is the first record of a JSONL baseline.
type schemaRecord struct {
	Columns []struct {
		Name    string `json:"name"`
		Type    string `json:"type"`
		Default any    `json:"default"`
	} `json:"columns"`
}

// LoadJSONL reads a baseline from a JSONL file. The first record declares the
// columns:
//
//	{"columns":[{"name":"Name","type":"text","default":"New Employee"},{"name":"Age","type":"integer"}]}
//
// Every following record is a row object keyed by column name. Keys not in
// the schema are ignored, and missing keys or null values take the column
// default. Malformed lines and lines that are not JSON objects are skipped
// with a warning; a value of the wrong type is an error.
func LoadJSONL(path string, logger *slog.Logger) (types.Snapshot, error) {
	records, err := readJSONL(path, logger)
	if err != nil {
		return types.Snapshot{}, err
	}
	if len(records) == 0 {
		return types.Snapshot{}, ErrNoSchema
	}

	schema, err := decodeSchema(records[0])
	if err != nil {
		return types.Snapshot{}, err
	}

	rows := make([]types.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row, err := decodeRow(schema, rec)
		if err != nil {
			return types.Snapshot{}, err
		}
		rows = append(rows, row)
	}
	return types.NewSnapshot(schema, rows)
}

// readJSONL reads a JSONL file and returns each non-empty line that holds a
// JSON object. Other lines are skipped and logged.
func readJSONL(path string, logger *slog.Logger) ([]jsonlRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []jsonlRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			logger.Warn("skipping malformed baseline line", "path", path, "line", lineNo)
			continue
		}
		if line[0] != '{' {
			logger.Warn("skipping non-object baseline line", "path", path, "line", lineNo)
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, jsonlRecord{line: lineNo, data: cp})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

func decodeSchema(rec jsonlRecord) (types.Schema, error) {
	var sr schemaRecord
	dec := json.NewDecoder(bytes.NewReader(rec.data))
	dec.UseNumber()
	if err := dec.Decode(&sr); err != nil {
		return types.Schema{}, fmt.Errorf("line %d: schema record: %w", rec.line, err)
	}
	if len(sr.Columns) == 0 {
		return types.Schema{}, fmt.Errorf("line %d: %w", rec.line, ErrNoSchema)
	}

	columns := make([]types.Column, len(sr.Columns))
	for i, c := range sr.Columns {
		ct, err := types.ParseColumnType(c.Type)
		if err != nil {
			return types.Schema{}, fmt.Errorf("line %d: column %q: %w %q", rec.line, c.Name, err, c.Type)
		}
		columns[i] = types.Column{Name: c.Name, Type: ct}
		if c.Default != nil {
			v, err := types.ValueFromAny(ct, c.Default)
			if err != nil {
				return types.Schema{}, fmt.Errorf("line %d: column %q default: %w", rec.line, c.Name, err)
			}
			columns[i].Default = v
		}
	}
	schema, err := types.NewSchema(columns...)
	if err != nil {
		return types.Schema{}, fmt.Errorf("line %d: %w", rec.line, err)
	}
	return schema, nil
}

func decodeRow(schema types.Schema, rec jsonlRecord) (types.Row, error) {
	var obj map[string]any
	dec := json.NewDecoder(bytes.NewReader(rec.data))
	dec.UseNumber()
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("line %d: row record: %w", rec.line, err)
	}

	row := schema.DefaultRow()
	for i, col := range schema.Columns() {
		raw, ok := obj[col.Name]
		if !ok || raw == nil {
			continue
		}
		v, err := types.ValueFromAny(col.Type, raw)
		if err != nil {
			return nil, fmt.Errorf("line %d: column %q: %w", rec.line, col.Name, err)
		}
		row[i] = v
	}
	return row, nil
}
