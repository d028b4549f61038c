// Package stats reduces sets of exam scores into dashboard figures.
// Every function is order independent and safe on empty input.
package stats

import (
	"math"
	"sort"
)

// DefaultPassThreshold is the percentage at or above which a score passes.
const DefaultPassThreshold = 60.0

// Entry is a scored row eligible for a leaderboard.
type Entry struct {
	ID    int64   `json:"id"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Summary bundles the figures shown next to a list of scores.
type Summary struct {
	Count         int     `json:"count"`
	Average       float64 `json:"average"`
	PassRate      float64 `json:"pass_rate"`
	PassingCount  int     `json:"passing_count"`
	Highest       float64 `json:"highest"`
	TopPerformers []Entry `json:"top_performers"`
}

// Round1 rounds to one decimal place, half away from zero.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// Average returns the mean rounded to one decimal, or 0 for no scores.
func Average(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	// Sum in sorted order so float rounding cannot depend on input order.
	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)

	var sum float64
	for _, s := range sorted {
		sum += s
	}
	return Round1(sum / float64(len(sorted)))
}

// PassingCount counts scores at or above threshold.
func PassingCount(scores []float64, threshold float64) int {
	n := 0
	for _, s := range scores {
		if s >= threshold {
			n++
		}
	}
	return n
}

// PassRate returns the percentage of scores at or above threshold, or 0 for no scores.
func PassRate(scores []float64, threshold float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	return float64(PassingCount(scores, threshold)) / float64(len(scores)) * 100
}

// Highest returns the maximum score, or 0 for no scores.
func Highest(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	highest := scores[0]
	for _, s := range scores[1:] {
		if s > highest {
			highest = s
		}
	}
	return highest
}

// TopN returns up to n entries by descending score. Ties keep their input order.
func TopN(entries []Entry, n int) []Entry {
	if n <= 0 || len(entries) == 0 {
		return []Entry{}
	}
	ranked := append([]Entry(nil), entries...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Scores extracts the score column of entries.
func Scores(entries []Entry) []float64 {
	out := make([]float64, len(entries))
	for i, e := range entries {
		out[i] = e.Score
	}
	return out
}

// Summarize computes every figure of a Summary in one pass over entries.
func Summarize(entries []Entry, threshold float64, top int) Summary {
	scores := Scores(entries)
	return Summary{
		Count:         len(scores),
		Average:       Average(scores),
		PassRate:      Round1(PassRate(scores, threshold)),
		PassingCount:  PassingCount(scores, threshold),
		Highest:       Highest(scores),
		TopPerformers: TopN(entries, top),
	}
}
