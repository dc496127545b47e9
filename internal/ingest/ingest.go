// Package ingest reads polar moment grids from the plain-text matrix format
// the surrounding radar tooling exchanges: one azimuth row per line,
// whitespace-separated range-gate values, "nan" (any case) for missing gates.
// Files ending in .gz are transparently decompressed.
//
// This is a boundary adapter. It produces polar.Grid values; everything
// downstream is format-agnostic.
package ingest

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/banshee-data/echo.report/internal/polar"
)

// ScanMeta carries attribute metadata alongside an ingested grid. The
// classifier ignores it; visualization and persistence use it.
type ScanMeta struct {
	Source      string
	AzimuthBins int
	RangeBins   int
}

// Read parses a polar grid from r. Every row must have the same number of
// gates. NaN values (literal "nan" or an IEEE NaN produced upstream) become
// missing gates.
func Read(r io.Reader) (*polar.Grid, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)

	var rows [][]float64
	var valids [][]bool
	rangeBins := -1

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if rangeBins == -1 {
			rangeBins = len(fields)
		} else if len(fields) != rangeBins {
			return nil, fmt.Errorf("ragged grid: row %d has %d gates, want %d",
				len(rows), len(fields), rangeBins)
		}

		vals := make([]float64, len(fields))
		valid := make([]bool, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d gate %d: %w", len(rows), i, err)
			}
			if math.IsNaN(v) {
				continue
			}
			vals[i] = v
			valid[i] = true
		}
		rows = append(rows, vals)
		valids = append(valids, valid)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read grid: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty grid")
	}

	g := polar.NewGrid(len(rows), rangeBins)
	for az, vals := range rows {
		for r, v := range vals {
			if valids[az][r] {
				g.Set(az, r, v)
			}
		}
	}
	return g, nil
}

// ReadFile reads a moment grid from a text file, decompressing .gz files.
func ReadFile(path string) (*polar.Grid, ScanMeta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ScanMeta{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, ScanMeta{}, fmt.Errorf("gzip %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	g, err := Read(r)
	if err != nil {
		return nil, ScanMeta{}, fmt.Errorf("parse %s: %w", path, err)
	}
	meta := ScanMeta{Source: path, AzimuthBins: g.AzimuthBins, RangeBins: g.RangeBins}
	return g, meta, nil
}

// ReadClutterMap reads a static clutter map, clamping values into [0,1].
// The map is external data, not configuration, so out-of-range confidence is
// clamped rather than rejected.
func ReadClutterMap(path string) (*polar.Grid, ScanMeta, error) {
	g, meta, err := ReadFile(path)
	if err != nil {
		return nil, ScanMeta{}, err
	}
	for i, ok := range g.Valid {
		if !ok {
			continue
		}
		if g.Values[i] < 0 {
			g.Values[i] = 0
		} else if g.Values[i] > 1 {
			g.Values[i] = 1
		}
	}
	return g, meta, nil
}
