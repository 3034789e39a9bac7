package source

import "testing"

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Line: 2, Col: 4, EndLine: 2, EndCol: 10}
	b := Span{File: 1, Line: 1, Col: 0, EndLine: 2, EndCol: 6}

	got := a.Cover(b)
	want := Span{File: 1, Line: 1, Col: 0, EndLine: 2, EndCol: 10}
	if got != want {
		t.Fatalf("Cover: want %v, got %v", want, got)
	}

	other := Span{File: 2, Line: 1}
	if a.Cover(other) != a {
		t.Fatalf("spans from different files must not merge")
	}
}

func TestSpanBefore(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want bool
	}{
		{"earlier line", At(0, 1, 5), At(0, 2, 0), true},
		{"same line earlier col", At(0, 2, 0), At(0, 2, 3), true},
		{"same position", At(0, 2, 3), At(0, 2, 3), false},
		{"later line", At(0, 3, 0), At(0, 2, 9), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Before(tt.b); got != tt.want {
				t.Fatalf("Before: want %v, got %v", tt.want, got)
			}
		})
	}
	if !At(0, 1, 1).Empty() {
		t.Fatalf("single-position span should be empty")
	}
}
