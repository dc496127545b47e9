package polar

import "testing"

func TestGridSetAndAt(t *testing.T) {
	g := NewGrid(4, 8)

	if g.Gates() != 32 {
		t.Fatalf("expected 32 gates, got %d", g.Gates())
	}

	// fresh grid is all missing
	if _, ok := g.At(0, 0); ok {
		t.Fatalf("fresh grid gate should be missing")
	}

	g.Set(2, 5, 1.5)
	v, ok := g.At(2, 5)
	if !ok || v != 1.5 {
		t.Fatalf("expected (1.5,true) got (%v,%v)", v, ok)
	}

	g.SetMissing(2, 5)
	if _, ok := g.At(2, 5); ok {
		t.Fatalf("gate should be missing after SetMissing")
	}
}

func TestGridIdxAzimuthMajor(t *testing.T) {
	g := NewGrid(3, 10)
	if got := g.Idx(2, 7); got != 27 {
		t.Fatalf("expected flat index 27, got %d", got)
	}
}

func TestGridSameShape(t *testing.T) {
	a := NewGrid(5, 6)
	b := NewGrid(5, 6)
	c := NewGrid(6, 5)

	if !a.SameShape(b) {
		t.Fatalf("grids with equal dims should match")
	}
	if a.SameShape(c) {
		t.Fatalf("transposed dims should not match")
	}
	if a.SameShape(nil) {
		t.Fatalf("nil grid should not match")
	}
}

func TestGridCloneIsDeep(t *testing.T) {
	a := NewGrid(2, 2)
	a.Set(0, 0, 3.0)

	b := a.Clone()
	b.Set(0, 0, 9.0)
	b.Set(1, 1, 1.0)

	if v, _ := a.At(0, 0); v != 3.0 {
		t.Fatalf("clone mutation leaked into original: %v", v)
	}
	if _, ok := a.At(1, 1); ok {
		t.Fatalf("clone validity mutation leaked into original")
	}
	if a.CountValid() != 1 || b.CountValid() != 2 {
		t.Fatalf("unexpected valid counts: %d, %d", a.CountValid(), b.CountValid())
	}
}

func TestClassGridDefaultsUndefined(t *testing.T) {
	cg := NewClassGrid(2, 3)
	for az := 0; az < 2; az++ {
		for r := 0; r < 3; r++ {
			if cg.At(az, r) != ClassUndefined {
				t.Fatalf("gate (%d,%d) should start undefined", az, r)
			}
		}
	}
	cg.Classes[cg.Idx(1, 2)] = ClassNonMet
	if cg.Count(ClassNonMet) != 1 || cg.Count(ClassUndefined) != 5 {
		t.Fatalf("unexpected counts: nonmet=%d undefined=%d",
			cg.Count(ClassNonMet), cg.Count(ClassUndefined))
	}
}

func TestMaskCountSet(t *testing.T) {
	m := NewMask(2, 2)
	if m.CountSet() != 0 {
		t.Fatalf("fresh mask should be empty")
	}
	m.Bits[m.Idx(0, 1)] = true
	m.Bits[m.Idx(1, 0)] = true
	if m.CountSet() != 2 {
		t.Fatalf("expected 2 set bits, got %d", m.CountSet())
	}
	if !m.At(0, 1) || m.At(0, 0) {
		t.Fatalf("mask bits misplaced")
	}
}
