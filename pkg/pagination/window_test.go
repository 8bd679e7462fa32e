package pagination

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWindow(t *testing.T) {
	D := Dots
	tests := []struct {
		name     string
		total    int
		size     int
		siblings int
		current  int
		want     []Marker
	}{
		{name: "fits entirely", total: 5, size: 1, siblings: 1, current: 1, want: []Marker{1, 2, 3, 4, 5}},
		{name: "near start", total: 100, size: 10, siblings: 1, current: 2, want: []Marker{1, 2, 3, 4, 5, D, 10}},
		{name: "near end", total: 100, size: 10, siblings: 1, current: 9, want: []Marker{1, D, 6, 7, 8, 9, 10}},
		{name: "middle", total: 200, size: 10, siblings: 1, current: 10, want: []Marker{1, D, 9, 10, 11, D, 20}},
		{name: "middle wider siblings", total: 200, size: 10, siblings: 2, current: 10, want: []Marker{1, D, 8, 9, 10, 11, 12, D, 20}},
		{name: "no items", total: 0, size: 12, siblings: 1, current: 1, want: []Marker{}},
		{name: "partial last page", total: 25, size: 12, siblings: 1, current: 1, want: []Marker{1, 2, 3}},
		{name: "exactly slot count", total: 6, size: 1, siblings: 1, current: 3, want: []Marker{1, 2, 3, 4, 5, 6}},
		{name: "single hidden page on the left is shown", total: 8, size: 1, siblings: 1, current: 4, want: []Marker{1, 2, 3, 4, 5, D, 8}},
		{name: "single hidden page on the right is shown", total: 8, size: 1, siblings: 1, current: 5, want: []Marker{1, D, 4, 5, 6, 7, 8}},
		{name: "both gaps single pages", total: 7, size: 1, siblings: 1, current: 4, want: []Marker{1, 2, 3, 4, 5, 6, 7}},
		{name: "near end of seven", total: 7, size: 1, siblings: 1, current: 6, want: []Marker{1, 2, 3, 4, 5, 6, 7}},
		{name: "no siblings", total: 6, size: 1, siblings: 0, current: 3, want: []Marker{1, 2, 3, D, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Window(tt.total, tt.size, tt.siblings, tt.current)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Window(%d, %d, %d, %d) mismatch (-want +got):\n%s", tt.total, tt.size, tt.siblings, tt.current, diff)
			}
		})
	}
}

func TestMarkerIsDots(t *testing.T) {
	if !Dots.IsDots() || Marker(3).IsDots() {
		t.Fatal("unexpected IsDots result")
	}
}
