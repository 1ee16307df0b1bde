package results

import (
	"reflect"
	"testing"
)

func TestPageNumbers(t *testing.T) {
	const E = Ellipsis
	tests := []struct {
		page, total int
		want        []int
	}{
		{1, 0, nil},
		{1, 1, []int{1}},
		{2, 5, []int{1, 2, 3, 4, 5}},
		{5, 10, []int{1, E, 4, 5, 6, E, 10}},
		{1, 10, []int{1, 2, E, 10}},
		{2, 10, []int{1, 2, 3, E, 10}},
		{3, 10, []int{1, 2, 3, 4, E, 10}},
		{4, 10, []int{1, E, 3, 4, 5, E, 10}},
		{9, 10, []int{1, E, 8, 9, 10}},
		{10, 10, []int{1, E, 9, 10}},
		{3, 6, []int{1, 2, 3, 4, E, 6}},
	}

	for _, tt := range tests {
		got := PageNumbers(tt.page, tt.total)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("PageNumbers(%d, %d) = %v; want %v", tt.page, tt.total, got, tt.want)
		}
	}
}

func TestPageNumbersSmallIsSequence(t *testing.T) {
	for total := 1; total <= MaxVisiblePages; total++ {
		for page := 1; page <= total; page++ {
			got := PageNumbers(page, total)
			if len(got) != total {
				t.Fatalf("PageNumbers(%d, %d) = %v", page, total, got)
			}
			for i, n := range got {
				if n != i+1 {
					t.Errorf("PageNumbers(%d, %d)[%d] = %d", page, total, i, n)
				}
			}
		}
	}
}

func TestPageNumbersMiddleWindow(t *testing.T) {
	for total := 8; total <= 30; total++ {
		for p := 4; p <= total-3; p++ {
			want := []int{1, Ellipsis, p - 1, p, p + 1, Ellipsis, total}
			if got := PageNumbers(p, total); !reflect.DeepEqual(got, want) {
				t.Errorf("PageNumbers(%d, %d) = %v; want %v", p, total, got, want)
			}
		}
	}
}
