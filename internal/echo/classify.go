package echo

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/echo.report/internal/polar"
)

// Threshold converts a fused score grid into a binary classification grid and
// the companion insufficient-data mask. The comparison is inclusive on the
// non-meteorological side: a score exactly at the threshold classifies as
// clutter, biasing ties toward suppression. Gates with a missing score are
// masked and left ClassUndefined.
func Threshold(score *polar.Grid, threshold float64) (*polar.ClassGrid, *polar.Mask, error) {
	if score == nil {
		return nil, nil, configErrorf("nil score grid")
	}
	if threshold < 0 || threshold > 1 {
		return nil, nil, configErrorf("threshold must be in [0,1], got %g", threshold)
	}

	classes := polar.NewClassGrid(score.AzimuthBins, score.RangeBins)
	mask := polar.NewMask(score.AzimuthBins, score.RangeBins)
	for i := 0; i < score.Gates(); i++ {
		if !score.Valid[i] {
			mask.Bits[i] = true
			continue
		}
		if score.Values[i] >= threshold {
			classes.Classes[i] = polar.ClassNonMet
		} else {
			classes.Classes[i] = polar.ClassMet
		}
	}
	return classes, mask, nil
}

// Result bundles the outputs of one scan classification. All grids are
// freshly allocated and share the input shape.
type Result struct {
	Score   *polar.Grid
	Classes *polar.ClassGrid
	Mask    *polar.Mask
}

// Classifier composes the membership, fusion, and thresholding stages behind
// a single call. It is stateless between calls and safe for concurrent use.
type Classifier struct {
	Params    MembershipParams
	Weights   WeightTable
	Threshold float64

	// Workers bounds row-parallelism inside one scan. Zero means GOMAXPROCS.
	Workers int
}

// NewClassifier returns a classifier with default transfer constants,
// weights, and a 0.5 threshold.
func NewClassifier() *Classifier {
	return &Classifier{
		Params:    DefaultMembershipParams(),
		Weights:   DefaultWeights(),
		Threshold: 0.5,
	}
}

// Validate checks the classifier configuration without processing anything.
func (c *Classifier) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return configErrorf("threshold must be in [0,1], got %g", c.Threshold)
	}
	if c.Workers < 0 {
		return configErrorf("workers must be non-negative, got %d", c.Workers)
	}
	return nil
}

func (c *Classifier) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Classify runs the full pipeline over one scan. The moments map supplies raw
// grids keyed by moment; the clutter map, if available, is passed as
// MomentMap like any other channel. All grids must share one shape.
// Configuration problems (including shape mismatches) abort before any gate
// is processed; missing data surfaces only in the result mask.
//
// Gates are independent, so rows are fanned out across workers; outputs land
// in disjoint row ranges and need no locking.
func (c *Classifier) Classify(moments map[Moment]*polar.Grid) (*Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if len(moments) == 0 {
		return nil, configErrorf("no moment grids supplied")
	}

	// Shape check across every supplied grid before touching a gate.
	var shape *polar.Grid
	for _, m := range AllMoments {
		g, ok := moments[m]
		if !ok {
			continue
		}
		if shape == nil {
			shape = g
		} else if !shape.SameShape(g) {
			return nil, configErrorf("moment grid shape mismatch: %s is %s, want %s",
				m, g.ShapeString(), shape.ShapeString())
		}
	}
	if shape == nil {
		return nil, configErrorf("no recognized moment grids supplied")
	}

	// Stage 1: membership per moment. Skip unweighted moments entirely so
	// their values (even garbage) cannot influence anything downstream.
	members := make(map[Moment]*polar.Grid, len(moments))
	for _, m := range AllMoments {
		g, ok := moments[m]
		if !ok || c.Weights[m] <= 0 {
			continue
		}
		mg, err := c.membershipParallel(m, g)
		if err != nil {
			return nil, err
		}
		members[m] = mg
	}
	if len(members) == 0 {
		return nil, configErrorf("no supplied moment carries a nonzero weight")
	}

	// Stages 2+3.
	score, err := Fuse(members, c.Weights)
	if err != nil {
		return nil, err
	}
	classes, mask, err := Threshold(score, c.Threshold)
	if err != nil {
		return nil, err
	}
	return &Result{Score: score, Classes: classes, Mask: mask}, nil
}

// membershipParallel applies the membership transfer with rows split across
// workers. Semantics are identical to MembershipParams.Membership.
func (c *Classifier) membershipParallel(m Moment, g *polar.Grid) (*polar.Grid, error) {
	if m >= momentCount {
		return nil, configErrorf("unrecognized moment %v", m)
	}
	out := polar.NewGrid(g.AzimuthBins, g.RangeBins)

	var eg errgroup.Group
	eg.SetLimit(c.workers())
	for az := 0; az < g.AzimuthBins; az++ {
		start := az * g.RangeBins
		end := start + g.RangeBins
		eg.Go(func() error {
			for i := start; i < end; i++ {
				if !g.Valid[i] {
					continue
				}
				out.Values[i] = c.Params.transfer(m, g.Values[i])
				out.Valid[i] = true
			}
			return nil
		})
	}
	// Workers never fail; the group only bounds concurrency.
	_ = eg.Wait()
	return out, nil
}
