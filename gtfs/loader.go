package gtfs

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gocarina/gocsv"
)

// ErrMissingTable is returned when one of the four required tables is absent
var ErrMissingTable = errors.New("missing GTFS table")

const (
	tableRoutes    = "routes"
	tableStops     = "stops"
	tableTrips     = "trips"
	tableStopTimes = "stop_times"
)

var requiredTables = []string{tableRoutes, tableStops, tableTrips, tableStopTimes}

// DownloadAttempts bounds the retries of a remote static zip download
var DownloadAttempts uint64 = 3

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadFromZip loads the static tables from a GTFS zip at an http(s) URL or a
// local path. Remote downloads are retried with exponential backoff.
func LoadFromZip(ctx context.Context, urlOrPath string) (Tables, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(urlOrPath, "http://") || strings.HasPrefix(urlOrPath, "https://") {
		data, err = download(ctx, urlOrPath)
	} else {
		data, err = os.ReadFile(urlOrPath)
	}
	if err != nil {
		return Tables{}, err
	}
	return LoadFromZipBytes(data)
}

func download(ctx context.Context, url string) ([]byte, error) {
	client := &http.Client{Timeout: 2 * time.Minute}
	var data []byte
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to fetch %s: %w", url, err)
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			return err
		}
		data, err = io.ReadAll(resp.Body)
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), DownloadAttempts-1), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return data, nil
}

// LoadFromZipBytes decodes the four CSV tables from raw GTFS zip bytes
func LoadFromZipBytes(data []byte) (Tables, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Tables{}, fmt.Errorf("open GTFS zip: %w", err)
	}
	files := map[string]*zip.File{}
	for _, f := range zr.File {
		name := strings.ToLower(path.Base(f.Name))
		files[strings.TrimSuffix(name, ".txt")] = f
	}
	var t Tables
	for _, table := range requiredTables {
		f, ok := files[table]
		if !ok {
			return Tables{}, fmt.Errorf("%w: %s.txt", ErrMissingTable, table)
		}
		r, err := f.Open()
		if err != nil {
			return Tables{}, err
		}
		raw, err := io.ReadAll(r)
		_ = r.Close()
		if err != nil {
			return Tables{}, err
		}
		if err := t.consumeCSV(table, raw); err != nil {
			return Tables{}, fmt.Errorf("%s.txt: %w", table, err)
		}
	}
	return t, nil
}

// LoadFromDir loads each table from <dir>/<table>.json, falling back to
// <dir>/<table>.txt.
func LoadFromDir(dir string) (Tables, error) {
	var t Tables
	for _, table := range requiredTables {
		jsonPath := filepath.Join(dir, table+".json")
		if raw, err := os.ReadFile(jsonPath); err == nil {
			if err := t.consumeJSON(table, raw); err != nil {
				return Tables{}, fmt.Errorf("%s: %w", jsonPath, err)
			}
			continue
		}
		csvPath := filepath.Join(dir, table+".txt")
		raw, err := os.ReadFile(csvPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return Tables{}, fmt.Errorf("%w: %s in %s", ErrMissingTable, table, dir)
			}
			return Tables{}, err
		}
		if err := t.consumeCSV(table, raw); err != nil {
			return Tables{}, fmt.Errorf("%s: %w", csvPath, err)
		}
	}
	return t, nil
}

func (t *Tables) consumeCSV(table string, raw []byte) error {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	switch table {
	case tableRoutes:
		return gocsv.UnmarshalBytes(raw, &t.Routes)
	case tableStops:
		return gocsv.UnmarshalBytes(raw, &t.Stops)
	case tableTrips:
		return gocsv.UnmarshalBytes(raw, &t.Trips)
	case tableStopTimes:
		return gocsv.UnmarshalBytes(raw, &t.StopTimes)
	}
	return nil
}

// consumeJSON reads an array of row objects. Values may be JSON strings or
// numbers, as produced by common CSV-to-JSON converters.
func (t *Tables) consumeJSON(table string, raw []byte) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return err
	}
	switch table {
	case tableRoutes:
		for _, row := range rows {
			t.Routes = append(t.Routes, Route{
				ID:        toStringFallback(row["route_id"], ""),
				ShortName: toStringFallback(row["route_short_name"], ""),
				LongName:  toStringFallback(row["route_long_name"], ""),
			})
		}
	case tableStops:
		for _, row := range rows {
			lat, _ := toFloat(row["stop_lat"])
			lon, _ := toFloat(row["stop_lon"])
			t.Stops = append(t.Stops, Stop{
				ID:        toStringFallback(row["stop_id"], ""),
				Name:      toStringFallback(row["stop_name"], ""),
				Latitude:  lat,
				Longitude: lon,
			})
		}
	case tableTrips:
		for _, row := range rows {
			t.Trips = append(t.Trips, Trip{
				ID:      toStringFallback(row["trip_id"], ""),
				RouteID: toStringFallback(row["route_id"], ""),
			})
		}
	case tableStopTimes:
		for _, row := range rows {
			seq, _ := toInt(row["stop_sequence"])
			t.StopTimes = append(t.StopTimes, StopTime{
				TripID:        toStringFallback(row["trip_id"], ""),
				StopID:        toStringFallback(row["stop_id"], ""),
				StopSequence:  seq,
				DepartureTime: toStringFallback(row["departure_time"], ""),
			})
		}
	}
	return nil
}

// Utility converters for flexible JSON values
func toStringFallback(v any, fallback string) string {
	switch t := v.(type) {
	case string:
		if t != "" {
			return t
		}
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	}
	return fallback
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(t), 64)
	case json.Number:
		return t.Float64()
	default:
		return 0, errors.New("not a float")
	}
}

func toInt(v any) (int, error) {
	switch t := v.(type) {
	case float64:
		return int(t), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(t))
	case json.Number:
		i64, err := t.Int64()
		return int(i64), err
	default:
		return 0, errors.New("not an int")
	}
}
