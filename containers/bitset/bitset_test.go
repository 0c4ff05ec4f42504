package bitset

import "testing"

func TestFillAndPopCount(t *testing.T) {
	m := New(6)
	if err := m.Fill(1, 2, true); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if m.PopCount() != 2 {
		t.Fatalf("PopCount() = %d, want 2", m.PopCount())
	}
	if !m.Get(1) || !m.Get(2) {
		t.Fatalf("expected bits 1 and 2 set")
	}
	if m.Get(0) || m.Get(3) {
		t.Fatalf("unexpected bits set outside fill range")
	}
}

func TestFillOutOfRange(t *testing.T) {
	m := New(6)
	if err := m.Fill(4, 4, true); err == nil {
		t.Fatalf("Fill(4,4) on a 6-bit mask: want error, got nil")
	}
}

func TestUnionIntersectAny(t *testing.T) {
	a := New(8)
	_ = a.Fill(0, 2, true)
	b := New(8)
	_ = b.Fill(1, 2, true)

	u := a.Union(b)
	if u.PopCount() != 3 {
		t.Fatalf("Union PopCount() = %d, want 3", u.PopCount())
	}

	i := a.Intersect(b)
	if !i.Any() || i.PopCount() != 1 {
		t.Fatalf("Intersect PopCount() = %d, want 1", i.PopCount())
	}

	c := New(8)
	_ = c.Fill(4, 2, true)
	if a.Intersect(c).Any() {
		t.Fatalf("disjoint masks should not intersect")
	}
}

func TestCopyIsValueSemantics(t *testing.T) {
	a := New(8)
	_ = a.Fill(0, 1, true)
	b := a
	_ = b.Fill(1, 1, true)

	if a.PopCount() != 1 {
		t.Fatalf("copying a CceMask aliased storage: a.PopCount() = %d, want 1", a.PopCount())
	}
	if b.PopCount() != 2 {
		t.Fatalf("b.PopCount() = %d, want 2", b.PopCount())
	}
}

func TestEqual(t *testing.T) {
	a := New(8)
	_ = a.Fill(2, 3, true)
	b := New(8)
	_ = b.Fill(2, 3, true)
	if !a.Equal(b) {
		t.Fatalf("expected equal masks")
	}
	b.Set(7, true)
	if a.Equal(b) {
		t.Fatalf("expected unequal masks after mutating b")
	}
}
