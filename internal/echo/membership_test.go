package echo

import (
	"errors"
	"testing"

	"github.com/banshee-data/echo.report/internal/polar"
)

func gridOf(t *testing.T, azBins, rangeBins int, fill float64) *polar.Grid {
	t.Helper()
	g := polar.NewGrid(azBins, rangeBins)
	for az := 0; az < azBins; az++ {
		for r := 0; r < rangeBins; r++ {
			g.Set(az, r, fill)
		}
	}
	return g
}

func TestParseMoment(t *testing.T) {
	for _, m := range AllMoments {
		got, err := ParseMoment(m.String())
		if err != nil {
			t.Fatalf("ParseMoment(%q): %v", m.String(), err)
		}
		if got != m {
			t.Fatalf("ParseMoment(%q) = %v, want %v", m.String(), got, m)
		}
	}

	_, err := ParseMoment("reflectivity")
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("unrecognized name should yield ConfigError, got %v", err)
	}
}

func TestMembershipRhoDescending(t *testing.T) {
	p := DefaultMembershipParams()
	// rho low (clutter-like) must score higher than rho high (rain-like)
	lo := p.transfer(MomentRho, 0.70)
	hi := p.transfer(MomentRho, 0.99)
	if lo <= hi {
		t.Fatalf("rho membership must descend: f(0.70)=%v f(0.99)=%v", lo, hi)
	}
	if lo < 0 || lo > 1 || hi < 0 || hi > 1 {
		t.Fatalf("membership out of [0,1]: %v, %v", lo, hi)
	}
}

func TestMembershipTextureAscending(t *testing.T) {
	p := DefaultMembershipParams()
	for _, m := range []Moment{MomentRho2, MomentPhi, MomentZdr} {
		lo := p.transfer(m, 0.0)
		hi := p.transfer(m, 50.0)
		if hi <= lo {
			t.Fatalf("%s membership must ascend with texture: f(0)=%v f(50)=%v", m, lo, hi)
		}
	}
}

func TestMembershipDopBell(t *testing.T) {
	p := DefaultMembershipParams()
	zero := p.transfer(MomentDop, 0.0)
	slow := p.transfer(MomentDop, 0.5)
	fast := p.transfer(MomentDop, 5.0)
	if zero != 1.0 {
		t.Fatalf("dop membership at v=0 should be 1, got %v", zero)
	}
	if !(zero > slow && slow > fast) {
		t.Fatalf("dop membership must fall with |v|: %v, %v, %v", zero, slow, fast)
	}
	// symmetric
	if p.transfer(MomentDop, -0.5) != slow {
		t.Fatalf("dop membership must be symmetric in v")
	}
}

func TestMembershipMapClamped(t *testing.T) {
	p := DefaultMembershipParams()
	if got := p.transfer(MomentMap, 0.7); got != 0.7 {
		t.Fatalf("map membership should pass confidence through, got %v", got)
	}
	if got := p.transfer(MomentMap, 1.4); got != 1.0 {
		t.Fatalf("map membership should clamp above 1, got %v", got)
	}
	if got := p.transfer(MomentMap, -0.2); got != 0.0 {
		t.Fatalf("map membership should clamp below 0, got %v", got)
	}
}

func TestMembershipPropagatesMissing(t *testing.T) {
	p := DefaultMembershipParams()
	g := gridOf(t, 2, 3, 0.9)
	g.SetMissing(1, 2)

	out, err := p.Membership(MomentRho, g)
	if err != nil {
		t.Fatalf("Membership: %v", err)
	}
	if !out.SameShape(g) {
		t.Fatalf("membership grid shape changed")
	}
	if _, ok := out.At(1, 2); ok {
		t.Fatalf("missing input gate must yield missing membership, never 0")
	}
	if v, ok := out.At(0, 0); !ok || v < 0 || v > 1 {
		t.Fatalf("valid gate should have membership in [0,1], got (%v,%v)", v, ok)
	}
}

func TestMembershipRejectsUnknownMoment(t *testing.T) {
	p := DefaultMembershipParams()
	g := gridOf(t, 1, 1, 0.5)
	_, err := p.Membership(Moment(42), g)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for unknown moment, got %v", err)
	}
}

func TestMembershipParamsValidate(t *testing.T) {
	p := DefaultMembershipParams()
	if err := p.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	p.DopHalfWidthMPS = 0
	if err := p.Validate(); err == nil {
		t.Fatalf("zero dop half-width should fail validation")
	}
}
