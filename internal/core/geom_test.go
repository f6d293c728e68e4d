package core

import "testing"

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Rect
		expected bool
	}{
		{
			name:     "overlapping rects",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(5, 5, 10, 10),
			expected: true,
		},
		{
			name:     "non-overlapping horizontal",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(15, 0, 10, 10),
			expected: false,
		},
		{
			name:     "adjacent vertical (no overlap)",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(0, 10, 10, 10),
			expected: false,
		},
		{
			name:     "single unit overlap",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(9, 9, 10, 10),
			expected: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Intersects(tc.b); got != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", got, tc.expected)
			}
			if got := tc.b.Intersects(tc.a); got != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestRectAt(t *testing.T) {
	box := NewRect(1, -2, 3, 4)
	r := box.At(Point{X: 10, Y: 20})

	if r.X != 11 || r.Y != 18 || r.W != 3 || r.H != 4 {
		t.Errorf("At() = %+v, expected {11 18 3 4}", r)
	}
	if r.Right() != 14 || r.Bottom() != 22 {
		t.Errorf("edges = (%d, %d), expected (14, 22)", r.Right(), r.Bottom())
	}
}

func TestVecRounded(t *testing.T) {
	tests := []struct {
		in       Vec2f
		expected Point
	}{
		{Vec2f{4, 0}, Point{4, 0}},
		{Vec2f{0.5, -0.5}, Point{1, -1}},
		{Vec2f{1.49, 2}, Point{1, 2}},
		{Vec2f{-1.5, 0.4}, Point{-2, 0}},
	}

	for _, tc := range tests {
		if got := tc.in.Rounded(); got != tc.expected {
			t.Errorf("Rounded(%v) = %v, expected %v", tc.in, got, tc.expected)
		}
	}
}

func TestClampAndSign(t *testing.T) {
	if Clamp(15, 0, 10) != 10 || Clamp(-5, 0, 10) != 0 || Clamp(5, 0, 10) != 5 {
		t.Error("Clamp returned unexpected values")
	}
	if ClampF(2.5, 0, 2) != 2 {
		t.Error("ClampF(2.5, 0, 2) should be 2")
	}
	if Sign(-7) != -1 || Sign(0) != 0 || Sign(3) != 1 {
		t.Error("Sign returned unexpected values")
	}
	if Abs(-5) != 5 || Abs(5) != 5 {
		t.Error("Abs returned unexpected values")
	}
}
