package echo

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/echo.report/internal/polar"
)

// Scan is one classification unit in a batch: a scan identifier and its
// co-registered moment grids.
type Scan struct {
	ID      string
	Moments map[Moment]*polar.Grid
}

// ScanResult pairs a scan ID with its classification outcome. Exactly one of
// Result and Err is set.
type ScanResult struct {
	ID     string
	Result *Result
	Err    error
}

// ClassifyBatch classifies many scans with bounded concurrency. Cancellation
// is coarse: scans not yet started when ctx is cancelled report ctx.Err(),
// while in-flight scans run to completion (a single scan is a bounded,
// non-blocking computation). Results are returned in input order.
func (c *Classifier) ClassifyBatch(ctx context.Context, scans []Scan, workers int) []ScanResult {
	if workers <= 0 {
		workers = c.workers()
	}
	results := make([]ScanResult, len(scans))

	var eg errgroup.Group
	eg.SetLimit(workers)
	for i, s := range scans {
		results[i].ID = s.ID
		eg.Go(func() error {
			// Checked once per scan, on start: an in-flight scan finishes.
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Result, results[i].Err = c.Classify(s.Moments)
			return nil
		})
	}
	_ = eg.Wait()
	return results
}
