package gtfs

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"io"
	"os"
)

// SerializeTables encodes Tables to bytes using gob encoding.
// The schedule index is rebuilt from Tables on load, so only the raw rows
// are cached.
func SerializeTables(t Tables) ([]byte, error) {
	var buf bytes.Buffer
	if err := SerializeTablesToWriter(t, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DeserializeTables decodes Tables previously written by SerializeTables
func DeserializeTables(data []byte) (Tables, error) {
	return DeserializeTablesFromReader(bytes.NewReader(data))
}

func SerializeTablesToWriter(t Tables, w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(t); err != nil {
		return fmt.Errorf("failed to encode GTFS tables: %w", err)
	}
	return nil
}

func DeserializeTablesFromReader(r io.Reader) (Tables, error) {
	var t Tables
	if err := gob.NewDecoder(r).Decode(&t); err != nil {
		return Tables{}, fmt.Errorf("failed to decode GTFS tables: %w", err)
	}
	return t, nil
}

// SerializeTablesToFile writes Tables to path using gob encoding
func SerializeTablesToFile(t Tables, path string) error {
	data, err := SerializeTables(t)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DeserializeTablesFromFile reads Tables from a gob cache file
func DeserializeTablesFromFile(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("failed to read cache file: %w", err)
	}
	return DeserializeTables(data)
}

// LoadCached returns the tables from cachePath when it decodes, otherwise
// calls load and writes the result back to cachePath. An empty cachePath
// disables caching. fromCache reports which branch served the tables.
func LoadCached(ctx context.Context, cachePath string, load func(context.Context) (Tables, error)) (t Tables, fromCache bool, err error) {
	if cachePath != "" {
		if t, err := DeserializeTablesFromFile(cachePath); err == nil && t.RowCount() > 0 {
			return t, true, nil
		}
	}
	t, err = load(ctx)
	if err != nil {
		return Tables{}, false, err
	}
	if cachePath != "" {
		if err := SerializeTablesToFile(t, cachePath); err != nil {
			return t, false, fmt.Errorf("write GTFS cache: %w", err)
		}
	}
	return t, false, nil
}
