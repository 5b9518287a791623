package pdfreflow

import "testing"

func TestRectsOverlap(t *testing.T) {
	tests := []struct {
		name string
		r1   Rect
		r2   Rect
		want bool
	}{
		{
			name: "disjoint horizontally",
			r1:   Rect{X0: 0, Y0: 0, X1: 10, Y1: 10},
			r2:   Rect{X0: 20, Y0: 0, X1: 30, Y1: 10},
			want: false,
		},
		{
			name: "disjoint vertically",
			r1:   Rect{X0: 0, Y0: 0, X1: 10, Y1: 10},
			r2:   Rect{X0: 0, Y0: 20, X1: 10, Y1: 30},
			want: false,
		},
		{
			name: "touching edges do not overlap",
			r1:   Rect{X0: 0, Y0: 0, X1: 10, Y1: 10},
			r2:   Rect{X0: 10, Y0: 0, X1: 20, Y1: 10},
			want: false,
		},
		{
			name: "partial overlap",
			r1:   Rect{X0: 0, Y0: 0, X1: 10, Y1: 10},
			r2:   Rect{X0: 5, Y0: 5, X1: 15, Y1: 15},
			want: true,
		},
		{
			name: "containment",
			r1:   Rect{X0: 0, Y0: 0, X1: 20, Y1: 20},
			r2:   Rect{X0: 5, Y0: 5, X1: 10, Y1: 10},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rectsOverlap(tt.r1, tt.r2); got != tt.want {
				t.Errorf("rectsOverlap() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpandRect(t *testing.T) {
	r := expandRect(Rect{X0: 10, Y0: 20, X1: 30, Y1: 40}, 10)
	want := Rect{X0: 0, Y0: 10, X1: 40, Y1: 50}
	if r != want {
		t.Errorf("expandRect() = %+v, want %+v", r, want)
	}
}

func TestIsListMarker(t *testing.T) {
	tests := []struct {
		word string
		want bool
	}{
		{"-", true},
		{"•", true},
		{"*", true},
		{"1.", true},
		{"12)", true},
		{"3.2", false},
		{"word", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isListMarker(tt.word); got != tt.want {
			t.Errorf("isListMarker(%q) = %v, want %v", tt.word, got, tt.want)
		}
	}
}
