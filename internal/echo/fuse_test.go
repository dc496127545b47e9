package echo

import (
	"errors"
	"math"
	"testing"

	"github.com/banshee-data/echo.report/internal/polar"
)

func TestFuseRenormalizesOverActiveSet(t *testing.T) {
	// Two moments, equal membership m and equal weight. One is missing at the
	// gate: the fused score must be m, not w*m/(2w).
	const m = 0.8
	a := polar.NewGrid(1, 1)
	a.Set(0, 0, m)
	b := polar.NewGrid(1, 1) // missing at the only gate

	score, err := Fuse(map[Moment]*polar.Grid{MomentRho: a, MomentPhi: b},
		WeightTable{MomentRho: 0.3, MomentPhi: 0.3})
	if err != nil {
		t.Fatalf("Fuse: %v", err)
	}
	got, ok := score.At(0, 0)
	if !ok {
		t.Fatalf("gate with one observed moment should have a score")
	}
	if math.Abs(got-m) > 1e-12 {
		t.Fatalf("renormalization: want %v, got %v", m, got)
	}
}

func TestFuseZeroWeightMomentNeverInfluences(t *testing.T) {
	base := polar.NewGrid(1, 2)
	base.Set(0, 0, 0.5)
	base.Set(0, 1, 0.5)

	// Vary the zero-weighted moment wildly, including a missing gate.
	noisy1 := polar.NewGrid(1, 2)
	noisy1.Set(0, 0, 0.0)
	noisy2 := polar.NewGrid(1, 2)
	noisy2.Set(0, 0, 1.0)
	noisy2.Set(0, 1, 1.0)

	weights := WeightTable{MomentRho: 0.4, MomentDop: 0}

	s1, err := Fuse(map[Moment]*polar.Grid{MomentRho: base, MomentDop: noisy1}, weights)
	if err != nil {
		t.Fatalf("Fuse: %v", err)
	}
	s2, err := Fuse(map[Moment]*polar.Grid{MomentRho: base, MomentDop: noisy2}, weights)
	if err != nil {
		t.Fatalf("Fuse: %v", err)
	}
	// Absent from the table entirely behaves the same as weight zero.
	s3, err := Fuse(map[Moment]*polar.Grid{MomentRho: base}, WeightTable{MomentRho: 0.4})
	if err != nil {
		t.Fatalf("Fuse: %v", err)
	}

	for i := range s1.Values {
		if s1.Values[i] != s2.Values[i] || s1.Values[i] != s3.Values[i] ||
			s1.Valid[i] != s2.Valid[i] || s1.Valid[i] != s3.Valid[i] {
			t.Fatalf("zero-weight moment influenced gate %d", i)
		}
	}
}

func TestFuseEmptyActiveSetYieldsMissing(t *testing.T) {
	a := polar.NewGrid(1, 2)
	a.Set(0, 0, 0.9) // gate 1 missing in every moment
	b := polar.NewGrid(1, 2)
	b.Set(0, 0, 0.1)

	score, err := Fuse(map[Moment]*polar.Grid{MomentRho: a, MomentMap: b},
		WeightTable{MomentRho: 0.4, MomentMap: 0.5})
	if err != nil {
		t.Fatalf("Fuse: %v", err)
	}
	if _, ok := score.At(0, 0); !ok {
		t.Fatalf("gate 0 has observed moments and should score")
	}
	if _, ok := score.At(0, 1); ok {
		t.Fatalf("gate with no observed weighted moment must be missing")
	}
}

func TestFuseWeightedMean(t *testing.T) {
	a := polar.NewGrid(1, 1)
	a.Set(0, 0, 1.0)
	b := polar.NewGrid(1, 1)
	b.Set(0, 0, 0.0)

	// weights 3:1 -> score 0.75
	score, err := Fuse(map[Moment]*polar.Grid{MomentMap: a, MomentRho: b},
		WeightTable{MomentMap: 0.3, MomentRho: 0.1})
	if err != nil {
		t.Fatalf("Fuse: %v", err)
	}
	got, _ := score.At(0, 0)
	if math.Abs(got-0.75) > 1e-12 {
		t.Fatalf("weighted mean: want 0.75, got %v", got)
	}
}

func TestFuseRejectsNegativeWeight(t *testing.T) {
	a := polar.NewGrid(1, 1)
	a.Set(0, 0, 0.5)
	_, err := Fuse(map[Moment]*polar.Grid{MomentRho: a}, WeightTable{MomentRho: -0.1})
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("negative weight should be a ConfigError, got %v", err)
	}
}

func TestFuseRejectsShapeMismatch(t *testing.T) {
	a := polar.NewGrid(2, 4)
	b := polar.NewGrid(4, 2)
	_, err := Fuse(map[Moment]*polar.Grid{MomentRho: a, MomentMap: b},
		WeightTable{MomentRho: 0.4, MomentMap: 0.5})
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("shape mismatch should be a ConfigError, got %v", err)
	}
}

func TestWeightsFromNames(t *testing.T) {
	w, err := WeightsFromNames(map[string]float64{"rho": 0.4, "map": 0.5})
	if err != nil {
		t.Fatalf("WeightsFromNames: %v", err)
	}
	if w[MomentRho] != 0.4 || w[MomentMap] != 0.5 {
		t.Fatalf("weights not carried over: %v", w)
	}

	if _, err := WeightsFromNames(map[string]float64{"bogus": 1}); err == nil {
		t.Fatalf("unrecognized name should fail")
	}
	if _, err := WeightsFromNames(map[string]float64{"rho": -1}); err == nil {
		t.Fatalf("negative weight should fail")
	}
}
