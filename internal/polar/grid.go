// Package polar owns the polar-grid data model shared by the echo
// classification pipeline: moment grids, classification grids, and masks.
//
// All grids are flat buffers indexed azimuth-major (azBin*RangeBins+rangeBin)
// so per-gate operations can run over a single index space.
package polar

import "fmt"

// Grid is a 2-D polar grid of float64 gate values. Missing gates are tracked
// explicitly via the Valid bitset rather than with NaN sentinels, so arithmetic
// on an unobserved gate is a programming error that tests can catch, not a
// silent NaN propagation.
type Grid struct {
	AzimuthBins int
	RangeBins   int
	Values      []float64
	Valid       []bool
}

// NewGrid allocates a grid of the given shape with every gate missing.
func NewGrid(azimuthBins, rangeBins int) *Grid {
	n := azimuthBins * rangeBins
	return &Grid{
		AzimuthBins: azimuthBins,
		RangeBins:   rangeBins,
		Values:      make([]float64, n),
		Valid:       make([]bool, n),
	}
}

// Idx maps (azimuth bin, range bin) to a flat buffer index.
func (g *Grid) Idx(azBin, rangeBin int) int {
	return azBin*g.RangeBins + rangeBin
}

// Gates returns the total gate count.
func (g *Grid) Gates() int { return g.AzimuthBins * g.RangeBins }

// At returns the gate value and whether it is valid.
func (g *Grid) At(azBin, rangeBin int) (float64, bool) {
	i := g.Idx(azBin, rangeBin)
	return g.Values[i], g.Valid[i]
}

// Set stores a valid value at the gate.
func (g *Grid) Set(azBin, rangeBin int, v float64) {
	i := g.Idx(azBin, rangeBin)
	g.Values[i] = v
	g.Valid[i] = true
}

// SetMissing marks the gate as unobserved.
func (g *Grid) SetMissing(azBin, rangeBin int) {
	i := g.Idx(azBin, rangeBin)
	g.Values[i] = 0
	g.Valid[i] = false
}

// SameShape reports whether two grids share dimensions.
func (g *Grid) SameShape(o *Grid) bool {
	return o != nil && g.AzimuthBins == o.AzimuthBins && g.RangeBins == o.RangeBins
}

// ShapeString renders the grid shape for error messages.
func (g *Grid) ShapeString() string {
	return fmt.Sprintf("%dx%d", g.AzimuthBins, g.RangeBins)
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := NewGrid(g.AzimuthBins, g.RangeBins)
	copy(c.Values, g.Values)
	copy(c.Valid, g.Valid)
	return c
}

// CountValid returns the number of observed gates.
func (g *Grid) CountValid() int {
	n := 0
	for _, ok := range g.Valid {
		if ok {
			n++
		}
	}
	return n
}

// Class is the per-gate classification outcome. ClassUndefined marks gates
// where the fused score was missing; it is deliberately distinguishable from
// ClassMet so a masked gate can never be read as "meteorological".
type Class uint8

const (
	ClassMet       Class = 0
	ClassNonMet    Class = 1
	ClassUndefined Class = 255
)

// ClassGrid is a 2-D polar grid of classification outcomes.
type ClassGrid struct {
	AzimuthBins int
	RangeBins   int
	Classes     []Class
}

// NewClassGrid allocates a classification grid with every gate undefined.
func NewClassGrid(azimuthBins, rangeBins int) *ClassGrid {
	n := azimuthBins * rangeBins
	cg := &ClassGrid{
		AzimuthBins: azimuthBins,
		RangeBins:   rangeBins,
		Classes:     make([]Class, n),
	}
	for i := range cg.Classes {
		cg.Classes[i] = ClassUndefined
	}
	return cg
}

// Idx maps (azimuth bin, range bin) to a flat buffer index.
func (cg *ClassGrid) Idx(azBin, rangeBin int) int {
	return azBin*cg.RangeBins + rangeBin
}

// At returns the class at the gate.
func (cg *ClassGrid) At(azBin, rangeBin int) Class {
	return cg.Classes[cg.Idx(azBin, rangeBin)]
}

// Count returns the number of gates holding the given class.
func (cg *ClassGrid) Count(c Class) int {
	n := 0
	for _, v := range cg.Classes {
		if v == c {
			n++
		}
	}
	return n
}

// Mask is a 2-D polar grid of booleans. True means the gate had insufficient
// data to classify.
type Mask struct {
	AzimuthBins int
	RangeBins   int
	Bits        []bool
}

// NewMask allocates an all-false mask.
func NewMask(azimuthBins, rangeBins int) *Mask {
	return &Mask{
		AzimuthBins: azimuthBins,
		RangeBins:   rangeBins,
		Bits:        make([]bool, azimuthBins*rangeBins),
	}
}

// Idx maps (azimuth bin, range bin) to a flat buffer index.
func (m *Mask) Idx(azBin, rangeBin int) int {
	return azBin*m.RangeBins + rangeBin
}

// At returns the mask bit at the gate.
func (m *Mask) At(azBin, rangeBin int) bool {
	return m.Bits[m.Idx(azBin, rangeBin)]
}

// CountSet returns the number of masked gates.
func (m *Mask) CountSet() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}
