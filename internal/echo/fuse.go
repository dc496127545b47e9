package echo

import "github.com/banshee-data/echo.report/internal/polar"

// WeightTable maps each moment to its fusion weight. Weights need not sum to
// one: normalization happens per gate over the moments actually contributing
// there. A zero or absent entry disables the moment entirely.
type WeightTable map[Moment]float64

// DefaultWeights returns the default per-moment weights. The clutter map
// carries the largest single weight; the correlation family dominates the
// polarimetric evidence.
func DefaultWeights() WeightTable {
	return WeightTable{
		MomentRho:  0.4,
		MomentRho2: 0.4,
		MomentPhi:  0.1,
		MomentZdr:  0.4,
		MomentDop:  0.1,
		MomentMap:  0.5,
	}
}

// Validate rejects negative weights and unrecognized moments.
func (w WeightTable) Validate() error {
	for m, weight := range w {
		if m >= momentCount {
			return configErrorf("weight for unrecognized moment %v", m)
		}
		if weight < 0 {
			return configErrorf("weight for %s must be non-negative, got %g", m, weight)
		}
	}
	return nil
}

// WeightsFromNames builds a WeightTable from a name-keyed map, as read from a
// tuning file. Unrecognized names and negative weights are configuration
// errors.
func WeightsFromNames(byName map[string]float64) (WeightTable, error) {
	w := make(WeightTable, len(byName))
	for name, weight := range byName {
		m, err := ParseMoment(name)
		if err != nil {
			return nil, err
		}
		w[m] = weight
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// active returns the moments with a nonzero weight, in declaration order.
// Iterating a fixed order keeps fusion bit-reproducible across calls;
// float64 addition is not associative, so map-order iteration would not be.
func (w WeightTable) active() []Moment {
	out := make([]Moment, 0, len(w))
	for _, m := range AllMoments {
		if w[m] > 0 {
			out = append(out, m)
		}
	}
	return out
}

// Fuse combines per-moment membership grids into one score grid by per-gate
// weighted averaging. At each gate the weights are renormalized over the
// moments that are both weighted and observed there, so a moment missing at a
// gate neither drags the score down nor inflates the others. Gates where no
// weighted moment is observed come out missing.
//
// Moments absent from weights (or weighted zero) may be omitted from members
// entirely. Every supplied grid must share one shape.
func Fuse(members map[Moment]*polar.Grid, weights WeightTable) (*polar.Grid, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	act := weights.active()
	var shape *polar.Grid
	for _, m := range act {
		g, ok := members[m]
		if !ok {
			// A weighted moment with no grid contributes nowhere, same as a
			// grid that is missing at every gate.
			continue
		}
		if shape == nil {
			shape = g
		} else if !shape.SameShape(g) {
			return nil, configErrorf("membership grid shape mismatch: %s is %s, want %s",
				m, g.ShapeString(), shape.ShapeString())
		}
	}
	if shape == nil {
		return nil, configErrorf("no weighted membership grids supplied")
	}

	score := polar.NewGrid(shape.AzimuthBins, shape.RangeBins)
	for i := 0; i < shape.Gates(); i++ {
		var sum, wsum float64
		for _, m := range act {
			g, ok := members[m]
			if !ok || !g.Valid[i] {
				continue
			}
			w := weights[m]
			sum += w * g.Values[i]
			wsum += w
		}
		if wsum > 0 {
			score.Values[i] = sum / wsum
			score.Valid[i] = true
		}
	}
	return score, nil
}
