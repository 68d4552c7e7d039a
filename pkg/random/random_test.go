//go:build !integration

package random

import "testing"

func TestSeededSourceIsReproducible(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 20; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("draw %d differs for equal seeds", i)
		}
	}
}

func TestIntBetweenStaysInRange(t *testing.T) {
	src := New(7)
	for i := 0; i < 1000; i++ {
		v := IntBetween(src, 100, 500)
		if v < 100 || v > 500 {
			t.Fatalf("IntBetween() = %d, out of [100, 500]", v)
		}
	}

	if got := IntBetween(src, 5, 5); got != 5 {
		t.Errorf("IntBetween(5, 5) = %d", got)
	}
}

func TestUniformStaysInRange(t *testing.T) {
	src := New(11)
	for i := 0; i < 1000; i++ {
		v := Uniform(src, 0.92, 0.98)
		if v < 0.92 || v > 0.98 {
			t.Fatalf("Uniform() = %v, out of [0.92, 0.98]", v)
		}
	}
}
