package services

import "testing"

func TestPageNormalize(t *testing.T) {
	tests := []struct {
		name       string
		in         Page
		want       Page
		wantOffset int
	}{
		{"defaults", Page{}, Page{Page: 1, PageSize: 10}, 0},
		{"negative", Page{Page: -3, PageSize: -1}, Page{Page: 1, PageSize: 10}, 0},
		{"second page", Page{Page: 2, PageSize: 20}, Page{Page: 2, PageSize: 20}, 20},
		{"size capped", Page{Page: 3, PageSize: 500}, Page{Page: 3, PageSize: 100}, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			if got != tt.want {
				t.Fatalf("Normalize() = %+v, want %+v", got, tt.want)
			}
			if got.Offset() != tt.wantOffset {
				t.Errorf("Offset() = %d, want %d", got.Offset(), tt.wantOffset)
			}
		})
	}
}
