package services

import (
	"sort"
	"strings"
	"sync"

	"bookingtour/dto"
	"bookingtour/models"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/schollz/closestmatch"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

const (
	scoreDestination = 10.0
	scoreName        = 8.0
	scoreTag         = 3.0
	scoreDescription = 1.0
	similarityCutoff = 0.7
)

// Hàm chuẩn hóa chuỗi: bỏ dấu, chữ thường
func normalizeInput(input string) string {
	input = strings.TrimSpace(input)
	return strings.ToLower(unidecode.Unidecode(input))
}

// Tạo đối tượng closestmatch cho danh sách từ khóa
func createMatcher(keywords []string) *closestmatch.ClosestMatch {
	return closestmatch.New(keywords, []int{2, 3})
}

// Tính độ tương đồng giữa hai chuỗi (0..1)
func calculateSimilarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 1.0
	}
	distance := levenshtein.DistanceForStrings(ra, rb, levenshtein.DefaultOptions)
	return 1.0 - float64(distance)/float64(maxLen)
}

func uniqueDestinations(tours []models.Tour) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(tours))
	for _, t := range tours {
		d := normalizeInput(t.Destination)
		if d != "" && !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}

// scoreTour tính điểm phù hợp của tour với câu truy vấn đã chuẩn hóa
func scoreTour(query string, tour models.Tour, destinationMatch string) float64 {
	if query == "" {
		return 1
	}
	score := 0.0

	destination := normalizeInput(tour.Destination)
	if destinationMatch != "" && destinationMatch == destination {
		score += scoreDestination
	} else if strings.Contains(destination, query) || strings.Contains(query, destination) {
		score += scoreDestination
	}

	name := normalizeInput(tour.TourName)
	if strings.Contains(name, query) {
		score += scoreName
	} else if sim := calculateSimilarity(query, name); sim > similarityCutoff {
		score += scoreName * sim
	} else {
		for _, word := range strings.Fields(name) {
			if calculateSimilarity(query, word) > similarityCutoff {
				score += scoreName / 2
				break
			}
		}
	}

	for _, tag := range tour.Tags {
		t := normalizeInput(tag)
		if t != "" && (strings.Contains(query, t) || calculateSimilarity(query, t) > similarityCutoff) {
			score += scoreTag
		}
	}

	if strings.Contains(normalizeInput(tour.Description), query) {
		score += scoreDescription
	}
	return score
}

// matchFilters kiểm tra các điều kiện lọc cứng (giá, số ngày, ngày khởi hành, tag)
func matchFilters(tour models.Tour, f *dto.TourSearchFilters) bool {
	if f.Destination != "" && !strings.Contains(normalizeInput(tour.Destination), normalizeInput(f.Destination)) {
		return false
	}
	if f.PriceMin != nil && tour.Price.LessThan(*f.PriceMin) {
		return false
	}
	if f.PriceMax != nil && tour.Price.GreaterThan(*f.PriceMax) {
		return false
	}
	if f.MaxDuration != nil && tour.Duration > *f.MaxDuration {
		return false
	}
	if f.FromDate != nil && tour.StartDate.Before(*f.FromDate) {
		return false
	}
	for _, want := range f.Tags {
		found := false
		for _, tag := range tour.Tags {
			if normalizeInput(tag) == normalizeInput(want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// RankTours lọc và xếp hạng tour theo bộ lọc, điểm cao đứng trước
func RankTours(tours []models.Tour, f *dto.TourSearchFilters) []dto.TourSearchResult {
	query := normalizeInput(f.Query)
	var destinationMatch string
	if query != "" {
		if keywords := uniqueDestinations(tours); len(keywords) > 0 {
			destinationMatch = createMatcher(keywords).Closest(query)
		}
		// closestmatch luôn trả về một từ khóa, chỉ giữ khi đủ gần
		if !strings.Contains(query, destinationMatch) && calculateSimilarity(query, destinationMatch) <= similarityCutoff {
			destinationMatch = ""
		}
	}

	resultCh := make(chan dto.TourSearchResult, len(tours))
	var wg sync.WaitGroup
	for _, tour := range tours {
		wg.Add(1)
		go func(tour models.Tour) {
			defer wg.Done()
			if !matchFilters(tour, f) {
				return
			}
			if score := scoreTour(query, tour, destinationMatch); score > 0 {
				resultCh <- dto.TourSearchResult{Tour: tour, Score: score}
			}
		}(tour)
	}
	wg.Wait()
	close(resultCh)

	results := make([]dto.TourSearchResult, 0, len(resultCh))
	for r := range resultCh {
		results = append(results, r)
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score == results[j].Score {
			return results[i].ID < results[j].ID
		}
		return results[i].Score > results[j].Score
	})
	if f.Limit > 0 && len(results) > f.Limit {
		results = results[:f.Limit]
	}
	return results
}
