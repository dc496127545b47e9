package echo

import (
	"math"

	"github.com/banshee-data/echo.report/internal/polar"
)

// MembershipParams holds the transfer-function constants for every moment.
// The constants fix the shape of each monotonic transfer; they are tuning
// configuration, not runtime input. The defaults are uncalibrated starting
// points chosen for shape only and should be tuned against site data.
type MembershipParams struct {
	// Descending sigmoid for the correlation coefficient: membership falls
	// from 1 toward 0 as rho rises through RhoCenter.
	RhoCenter float64
	RhoSlope  float64

	// Ascending sigmoid for correlation-coefficient texture.
	Rho2Center float64
	Rho2Slope  float64

	// Ascending sigmoid for differential-phase texture (degrees).
	PhiCenter float64
	PhiSlope  float64

	// Ascending sigmoid for differential-reflectivity texture (dB).
	ZdrCenter float64
	ZdrSlope  float64

	// Gaussian bell for Doppler velocity: membership peaks at zero velocity
	// and falls off with |v|, reaching 1/e at DopHalfWidthMPS.
	DopHalfWidthMPS float64
}

// DefaultMembershipParams returns the default transfer constants.
func DefaultMembershipParams() MembershipParams {
	return MembershipParams{
		RhoCenter:       0.85,
		RhoSlope:        25.0,
		Rho2Center:      0.1,
		Rho2Slope:       40.0,
		PhiCenter:       5.0,
		PhiSlope:        1.5,
		ZdrCenter:       1.2,
		ZdrSlope:        4.0,
		DopHalfWidthMPS: 1.0,
	}
}

// Validate rejects transfer constants that would break monotonicity.
func (p MembershipParams) Validate() error {
	if p.RhoSlope <= 0 || p.Rho2Slope <= 0 || p.PhiSlope <= 0 || p.ZdrSlope <= 0 {
		return configErrorf("membership slopes must be positive")
	}
	if p.DopHalfWidthMPS <= 0 {
		return configErrorf("dop half-width must be positive, got %g", p.DopHalfWidthMPS)
	}
	return nil
}

// descending maps v through a sigmoid falling from 1 to 0 around center.
func descending(v, center, slope float64) float64 {
	return 1.0 / (1.0 + math.Exp(slope*(v-center)))
}

// ascending maps v through a sigmoid rising from 0 to 1 around center.
func ascending(v, center, slope float64) float64 {
	return 1.0 / (1.0 + math.Exp(-slope*(v-center)))
}

// bell maps v through a Gaussian centered at zero with the given half-width.
func bell(v, halfWidth float64) float64 {
	x := v / halfWidth
	return math.Exp(-x * x)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// transfer converts one raw gate value into a membership degree for the
// given moment.
func (p MembershipParams) transfer(m Moment, v float64) float64 {
	switch m {
	case MomentRho:
		return descending(v, p.RhoCenter, p.RhoSlope)
	case MomentRho2:
		return ascending(v, p.Rho2Center, p.Rho2Slope)
	case MomentPhi:
		return ascending(v, p.PhiCenter, p.PhiSlope)
	case MomentZdr:
		return ascending(v, p.ZdrCenter, p.ZdrSlope)
	case MomentDop:
		return bell(v, p.DopHalfWidthMPS)
	case MomentMap:
		// The clutter map is already a confidence; clamp stray values.
		return clamp01(v)
	}
	// Unreachable for recognized moments; Membership rejects others first.
	return 0
}

// Membership converts a raw moment grid into a per-gate membership grid in
// [0,1]. Missing gates stay missing. An unrecognized moment is a
// configuration error.
func (p MembershipParams) Membership(m Moment, g *polar.Grid) (*polar.Grid, error) {
	if m >= momentCount {
		return nil, configErrorf("unrecognized moment %v", m)
	}
	if g == nil {
		return nil, configErrorf("nil grid for moment %s", m)
	}
	out := polar.NewGrid(g.AzimuthBins, g.RangeBins)
	for i, v := range g.Values {
		if !g.Valid[i] {
			continue
		}
		out.Values[i] = p.transfer(m, v)
		out.Valid[i] = true
	}
	return out, nil
}
