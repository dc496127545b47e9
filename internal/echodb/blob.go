package echodb

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"fmt"

	"github.com/banshee-data/echo.report/internal/polar"
)

// serializeGrid compresses a grid using gob encoding and gzip compression.
func serializeGrid(g *polar.Grid) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	enc := gob.NewEncoder(gz)
	if err := enc.Encode(g); err != nil {
		gz.Close()
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// deserializeGrid decompresses and decodes a grid from a gob+gzip blob.
func deserializeGrid(blob []byte) (*polar.Grid, error) {
	if len(blob) == 0 {
		return nil, fmt.Errorf("empty grid blob")
	}
	gz, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	var g polar.Grid
	if err := gob.NewDecoder(gz).Decode(&g); err != nil {
		return nil, fmt.Errorf("failed to decode grid: %w", err)
	}
	return &g, nil
}

// serializeClasses compresses a classification grid.
func serializeClasses(cg *polar.ClassGrid) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	enc := gob.NewEncoder(gz)
	if err := enc.Encode(cg); err != nil {
		gz.Close()
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deserializeClasses(blob []byte) (*polar.ClassGrid, error) {
	if len(blob) == 0 {
		return nil, fmt.Errorf("empty class blob")
	}
	gz, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	var cg polar.ClassGrid
	if err := gob.NewDecoder(gz).Decode(&cg); err != nil {
		return nil, fmt.Errorf("failed to decode class grid: %w", err)
	}
	return &cg, nil
}

// serializeMask compresses a mask.
func serializeMask(m *polar.Mask) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	enc := gob.NewEncoder(gz)
	if err := enc.Encode(m); err != nil {
		gz.Close()
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deserializeMask(blob []byte) (*polar.Mask, error) {
	if len(blob) == 0 {
		return nil, fmt.Errorf("empty mask blob")
	}
	gz, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	var m polar.Mask
	if err := gob.NewDecoder(gz).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode mask: %w", err)
	}
	return &m, nil
}
