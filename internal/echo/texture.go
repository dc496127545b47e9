package echo

import (
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/echo.report/internal/polar"
)

// Texture computes the local standard deviation of a moment grid over a
// square window of the given odd size, producing the texture channels
// (phi, zdr, rho2) from their raw moments when the caller does not already
// have them. The azimuth axis wraps (a polar scan is circular); the range
// axis clamps at the edges.
//
// A gate's texture is missing where the gate itself is missing or where
// fewer than two window neighbours are observed, since a deviation of a
// single sample says nothing about local variability.
func Texture(g *polar.Grid, window int) (*polar.Grid, error) {
	if g == nil {
		return nil, configErrorf("nil grid for texture")
	}
	if window < 3 || window%2 == 0 {
		return nil, configErrorf("texture window must be odd and >= 3, got %d", window)
	}

	half := window / 2
	out := polar.NewGrid(g.AzimuthBins, g.RangeBins)
	buf := make([]float64, 0, window*window)

	for az := 0; az < g.AzimuthBins; az++ {
		for r := 0; r < g.RangeBins; r++ {
			if _, ok := g.At(az, r); !ok {
				continue
			}
			buf = buf[:0]
			for da := -half; da <= half; da++ {
				wrapAz := ((az+da)%g.AzimuthBins + g.AzimuthBins) % g.AzimuthBins
				for dr := -half; dr <= half; dr++ {
					rr := r + dr
					if rr < 0 || rr >= g.RangeBins {
						continue
					}
					if v, ok := g.At(wrapAz, rr); ok {
						buf = append(buf, v)
					}
				}
			}
			if len(buf) < 2 {
				continue
			}
			out.Set(az, r, stat.StdDev(buf, nil))
		}
	}
	return out, nil
}
