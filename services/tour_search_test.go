package services

import (
	"testing"
	"time"

	"bookingtour/dto"
	"bookingtour/models"

	"github.com/lib/pq"
)

func sampleTours() []models.Tour {
	return []models.Tour{
		{ID: 1, TourName: "Tour Hạ Long 2 ngày", Destination: "Hạ Long", Duration: 2, Price: dec("2500000"),
			StartDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), Tags: pq.StringArray{"biển", "du thuyền"}},
		{ID: 2, TourName: "Khám phá Đà Lạt", Destination: "Đà Lạt", Duration: 3, Price: dec("3200000"),
			StartDate: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), Tags: pq.StringArray{"núi"}},
		{ID: 3, TourName: "Phú Quốc nghỉ dưỡng", Destination: "Phú Quốc", Duration: 4, Price: dec("6900000"),
			StartDate: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), Tags: pq.StringArray{"biển"}},
		{ID: 4, TourName: "Đà Lạt mộng mơ", Destination: "Đà Lạt", Duration: 2, Price: dec("1900000"),
			StartDate: time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)},
	}
}

func resultIDs(results []dto.TourSearchResult) []uint {
	ids := make([]uint, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	return ids
}

func equalIDs(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNormalizeInput(t *testing.T) {
	tests := map[string]string{
		"  Đà Lạt ":  "da lat",
		"HẠ LONG":    "ha long",
		"Phú Quốc":   "phu quoc",
		"":           "",
	}
	for in, want := range tests {
		if got := normalizeInput(in); got != want {
			t.Errorf("normalizeInput(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCalculateSimilarity(t *testing.T) {
	if got := calculateSimilarity("da lat", "da lat"); got != 1 {
		t.Errorf("identical = %v, want 1", got)
	}
	if got := calculateSimilarity("", ""); got != 1 {
		t.Errorf("empty = %v, want 1", got)
	}
	if got := calculateSimilarity("dalat", "da lat"); got <= similarityCutoff {
		t.Errorf("typo similarity = %v, want > %v", got, similarityCutoff)
	}
	if got := calculateSimilarity("ha long", "phu quoc"); got > similarityCutoff {
		t.Errorf("unrelated similarity = %v, want <= %v", got, similarityCutoff)
	}
}

func TestRankTours(t *testing.T) {
	priceMax := dec("3000000")
	maxDuration := 2
	fromDate := time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		filters dto.TourSearchFilters
		want    []uint
	}{
		{
			name:    "query by destination without accents",
			filters: dto.TourSearchFilters{Query: "da lat"},
			want:    []uint{2, 4},
		},
		{
			name:    "empty query keeps every tour ordered by id",
			filters: dto.TourSearchFilters{},
			want:    []uint{1, 2, 3, 4},
		},
		{
			name:    "price ceiling",
			filters: dto.TourSearchFilters{PriceMax: &priceMax},
			want:    []uint{1, 4},
		},
		{
			name:    "tag filter ignores accents",
			filters: dto.TourSearchFilters{Tags: []string{"bien"}},
			want:    []uint{1, 3},
		},
		{
			name:    "duration and departure date",
			filters: dto.TourSearchFilters{MaxDuration: &maxDuration, FromDate: &fromDate},
			want:    []uint{4},
		},
		{
			name:    "limit",
			filters: dto.TourSearchFilters{Limit: 2},
			want:    []uint{1, 2},
		},
		{
			name:    "no match",
			filters: dto.TourSearchFilters{Query: "sapa"},
			want:    []uint{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resultIDs(RankTours(sampleTours(), &tt.filters))
			if !equalIDs(got, tt.want) {
				t.Fatalf("RankTours = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeFilters(t *testing.T) {
	oldMin, oldMax := dec("1000000"), dec("3000000")
	duration := 3

	t.Run("nil old returns new", func(t *testing.T) {
		next := &dto.TourSearchFilters{Query: "ha long"}
		if got := MergeFilters(nil, next); got != next {
			t.Fatalf("expected the same pointer back")
		}
	})

	t.Run("missing fields inherit old values", func(t *testing.T) {
		old := &dto.TourSearchFilters{Query: "da lat", Tags: []string{"nui"}, PriceMin: &oldMin, PriceMax: &oldMax, MaxDuration: &duration, Limit: 5}
		got := MergeFilters(old, &dto.TourSearchFilters{Tags: []string{"nui", "bien"}})
		if got.Query != "da lat" || got.Limit != 5 || got.MaxDuration != &duration {
			t.Errorf("merged = %+v", got)
		}
		if len(got.Tags) != 2 || got.Tags[0] != "nui" || got.Tags[1] != "bien" {
			t.Errorf("tags = %v, want [nui bien]", got.Tags)
		}
		if got.PriceMin == nil || !got.PriceMin.Equal(oldMin) || got.PriceMax == nil || !got.PriceMax.Equal(oldMax) {
			t.Errorf("price range = %v..%v", got.PriceMin, got.PriceMax)
		}
	})

	t.Run("new min above old max drops old max", func(t *testing.T) {
		newMin := dec("5000000")
		old := &dto.TourSearchFilters{PriceMin: &oldMin, PriceMax: &oldMax}
		got := MergeFilters(old, &dto.TourSearchFilters{PriceMin: &newMin})
		if got.PriceMax != nil {
			t.Errorf("PriceMax = %v, want nil", got.PriceMax)
		}
		if !got.PriceMin.Equal(newMin) {
			t.Errorf("PriceMin = %v, want %v", got.PriceMin, newMin)
		}
	})

	t.Run("new max below old min drops old min", func(t *testing.T) {
		newMax := dec("500000")
		old := &dto.TourSearchFilters{PriceMin: &oldMin, PriceMax: &oldMax}
		got := MergeFilters(old, &dto.TourSearchFilters{PriceMax: &newMax})
		if got.PriceMin != nil {
			t.Errorf("PriceMin = %v, want nil", got.PriceMin)
		}
		if !got.PriceMax.Equal(newMax) {
			t.Errorf("PriceMax = %v, want %v", got.PriceMax, newMax)
		}
	})
}
