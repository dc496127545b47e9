package echodb

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/banshee-data/echo.report/internal/polar"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("echodb: not found")

// SaveClutterMap stores a clutter map for a site. Maps are append-only:
// LoadClutterMap returns the latest for the site, so re-surveying a site is
// a plain insert.
func (db *DB) SaveClutterMap(siteID string, g *polar.Grid) (int64, error) {
	if siteID == "" {
		return 0, fmt.Errorf("empty site ID")
	}
	if g == nil {
		return 0, fmt.Errorf("nil clutter map grid")
	}

	blob, err := serializeGrid(g)
	if err != nil {
		return 0, fmt.Errorf("serialize clutter map: %w", err)
	}

	res, err := db.Exec(
		`INSERT INTO clutter_maps (site_id, azimuth_bins, range_bins, grid_blob, created_unix_nanos)
		 VALUES (?, ?, ?, ?, ?)`,
		siteID, g.AzimuthBins, g.RangeBins, blob, time.Now().UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert clutter map: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	logf("saved clutter map for site=%s shape=%s blob=%d bytes", siteID, g.ShapeString(), len(blob))
	return id, nil
}

// LoadClutterMap returns the most recent clutter map for a site, or
// ErrNotFound when the site has none.
func (db *DB) LoadClutterMap(siteID string) (*polar.Grid, error) {
	var blob []byte
	var azBins, rangeBins int
	err := db.QueryRow(
		`SELECT azimuth_bins, range_bins, grid_blob FROM clutter_maps
		 WHERE site_id = ? ORDER BY created_unix_nanos DESC LIMIT 1`,
		siteID,
	).Scan(&azBins, &rangeBins, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load clutter map: %w", err)
	}

	g, err := deserializeGrid(blob)
	if err != nil {
		return nil, err
	}
	if g.AzimuthBins != azBins || g.RangeBins != rangeBins {
		return nil, fmt.Errorf("clutter map blob shape %s does not match row shape %dx%d",
			g.ShapeString(), azBins, rangeBins)
	}
	return g, nil
}
