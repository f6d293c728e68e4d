package rng

import "testing"

func TestFirstValue(t *testing.T) {
	g := New()
	if v := g.Gen(); v != 0 {
		t.Errorf("first Gen() = %d, expected 0", v)
	}
	if v := g.Gen(); v != 8 {
		t.Errorf("second Gen() = %d, expected 8", v)
	}
}

func TestPeriodicity(t *testing.T) {
	g := New()
	period := g.Period()
	if period != 256 {
		t.Fatalf("Period() = %d, expected 256", period)
	}

	first := make([]byte, period)
	for i := range first {
		first[i] = g.Gen()
	}
	for i := range first {
		if v := g.Gen(); v != first[i] {
			t.Fatalf("value %d of second period = %d, expected %d", i, v, first[i])
		}
	}
}

func TestInstancesAgree(t *testing.T) {
	a, b := New(), New()
	for i := 0; i < 1000; i++ {
		if va, vb := a.Gen(), b.Gen(); va != vb {
			t.Fatalf("instances diverged at %d: %d != %d", i, va, vb)
		}
	}
}

func TestReset(t *testing.T) {
	g := New()
	g.Gen()
	g.Gen()
	g.Reset()
	if v := g.Gen(); v != 0 {
		t.Errorf("Gen() after Reset = %d, expected 0", v)
	}
}
