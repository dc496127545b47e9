package echodb

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/echo.report/internal/echo"
	"github.com/banshee-data/echo.report/internal/polar"
)

// RunRecord is one persisted classification run: the three output grids plus
// the parameters and summary counts needed to list and re-render it.
type RunRecord struct {
	RunID          string
	SiteID         string
	TakenUnixNanos int64
	AzimuthBins    int
	RangeBins      int
	Threshold      float64
	ParamsJSON     string
	GatesTotal     int
	GatesNonMet    int
	GatesMasked    int

	// Grids are populated by GetRun, nil in ListRuns summaries.
	Score   *polar.Grid
	Classes *polar.ClassGrid
	Mask    *polar.Mask
}

// InsertRun persists a classification result and returns its generated run ID.
func (db *DB) InsertRun(siteID string, res *echo.Result, threshold float64, paramsJSON string) (string, error) {
	if siteID == "" {
		return "", fmt.Errorf("empty site ID")
	}
	if res == nil || res.Score == nil || res.Classes == nil || res.Mask == nil {
		return "", fmt.Errorf("incomplete result")
	}
	if paramsJSON == "" {
		paramsJSON = "{}"
	}

	scoreBlob, err := serializeGrid(res.Score)
	if err != nil {
		return "", fmt.Errorf("serialize score: %w", err)
	}
	classBlob, err := serializeClasses(res.Classes)
	if err != nil {
		return "", fmt.Errorf("serialize classes: %w", err)
	}
	maskBlob, err := serializeMask(res.Mask)
	if err != nil {
		return "", fmt.Errorf("serialize mask: %w", err)
	}

	runID := uuid.NewString()
	_, err = db.Exec(
		`INSERT INTO classification_runs (
			run_id, site_id, taken_unix_nanos, azimuth_bins, range_bins,
			threshold, params_json, score_blob, class_blob, mask_blob,
			gates_total, gates_non_met, gates_masked
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, siteID, time.Now().UnixNano(),
		res.Score.AzimuthBins, res.Score.RangeBins,
		threshold, paramsJSON, scoreBlob, classBlob, maskBlob,
		res.Score.Gates(), res.Classes.Count(polar.ClassNonMet), res.Mask.CountSet(),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	logf("saved run %s for site=%s: %d gates, %d non-met, %d masked",
		runID, siteID, res.Score.Gates(), res.Classes.Count(polar.ClassNonMet), res.Mask.CountSet())
	return runID, nil
}

// GetRun loads a full run, grids included.
func (db *DB) GetRun(runID string) (*RunRecord, error) {
	var rec RunRecord
	var scoreBlob, classBlob, maskBlob []byte
	err := db.QueryRow(
		`SELECT run_id, site_id, taken_unix_nanos, azimuth_bins, range_bins,
		        threshold, params_json, score_blob, class_blob, mask_blob,
		        gates_total, gates_non_met, gates_masked
		 FROM classification_runs WHERE run_id = ?`, runID,
	).Scan(&rec.RunID, &rec.SiteID, &rec.TakenUnixNanos, &rec.AzimuthBins, &rec.RangeBins,
		&rec.Threshold, &rec.ParamsJSON, &scoreBlob, &classBlob, &maskBlob,
		&rec.GatesTotal, &rec.GatesNonMet, &rec.GatesMasked)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}

	if rec.Score, err = deserializeGrid(scoreBlob); err != nil {
		return nil, err
	}
	if rec.Classes, err = deserializeClasses(classBlob); err != nil {
		return nil, err
	}
	if rec.Mask, err = deserializeMask(maskBlob); err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetLatestRun loads the most recent run for a site.
func (db *DB) GetLatestRun(siteID string) (*RunRecord, error) {
	var runID string
	err := db.QueryRow(
		`SELECT run_id FROM classification_runs
		 WHERE site_id = ? ORDER BY taken_unix_nanos DESC LIMIT 1`, siteID,
	).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest run for %s: %w", siteID, err)
	}
	return db.GetRun(runID)
}

// ListRuns returns run summaries for a site, newest first, without grid
// blobs.
func (db *DB) ListRuns(siteID string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(
		`SELECT run_id, site_id, taken_unix_nanos, azimuth_bins, range_bins,
		        threshold, params_json, gates_total, gates_non_met, gates_masked
		 FROM classification_runs
		 WHERE site_id = ? ORDER BY taken_unix_nanos DESC LIMIT ?`,
		siteID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs for %s: %w", siteID, err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(&rec.RunID, &rec.SiteID, &rec.TakenUnixNanos,
			&rec.AzimuthBins, &rec.RangeBins, &rec.Threshold, &rec.ParamsJSON,
			&rec.GatesTotal, &rec.GatesNonMet, &rec.GatesMasked); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
