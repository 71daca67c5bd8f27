package stats

import (
	"fmt"
	"math"
	"sort"
)

// Avg returns the arithmetic mean of a non-empty series.
func Avg(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("average of empty series")
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values)), nil
}

// Std returns the population standard deviation of a non-empty series.
func Std(values []float64) (float64, error) {
	mean, err := Avg(values)
	if err != nil {
		return 0, err
	}
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values))), nil
}

// KindSummary aggregates one kind's totals across sweep points.
type KindSummary struct {
	Kind  string  `json:"kind"`
	Total float64 `json:"total"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
}

// SummarizeByKind reduces per-point score maps into per-kind summary
// rows sorted by kind.
func SummarizeByKind(perPoint []map[string]float64) []KindSummary {
	series := make(map[string][]float64)
	for _, scores := range perPoint {
		for kind, score := range scores {
			series[kind] = append(series[kind], score)
		}
	}

	kinds := make([]string, 0, len(series))
	for kind := range series {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	out := make([]KindSummary, 0, len(kinds))
	for _, kind := range kinds {
		values := series[kind]
		mean, _ := Avg(values)
		std, _ := Std(values)
		total := 0.0
		for _, v := range values {
			total += v
		}
		out = append(out, KindSummary{Kind: kind, Total: total, Mean: mean, Std: std})
	}
	return out
}
