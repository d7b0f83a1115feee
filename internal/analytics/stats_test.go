package analytics

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Stats
	}{
		{
			name:   "empty",
			values: nil,
			want:   Stats{},
		},
		{
			name:   "single value",
			values: []float64{21.5},
			want:   Stats{Mean: 21.5, Min: 21.5, Max: 21.5, Median: 21.5, Count: 1},
		},
		{
			name:   "odd count",
			values: []float64{3, 1, 2},
			want:   Stats{Mean: 2, Min: 1, Max: 3, Median: 2, Count: 3},
		},
		{
			name:   "even count median averages middle pair",
			values: []float64{4, 1, 3, 2},
			want:   Stats{Mean: 2.5, Min: 1, Max: 4, Median: 2.5, Count: 4},
		},
		{
			name:   "negative values",
			values: []float64{-10, 0, 10},
			want:   Stats{Mean: 0, Min: -10, Max: 10, Median: 0, Count: 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.values)
			if !almostEqual(got.Mean, tt.want.Mean) || !almostEqual(got.Median, tt.want.Median) ||
				got.Min != tt.want.Min || got.Max != tt.want.Max || got.Count != tt.want.Count {
				t.Errorf("Summarize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSummarize_DoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Summarize(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input mutated: %v", values)
	}
}

func TestSampleStdDev(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"fewer than two values", []float64{5}, 0},
		{"identical values", []float64{4, 4, 4, 4}, 0},
		{"known deviation", []float64{2, 4, 4, 4, 5, 5, 7, 9}, 2.13808993529939},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sampleStdDev(tt.values); !almostEqual(got, tt.want) {
				t.Errorf("sampleStdDev() = %v, want %v", got, tt.want)
			}
		})
	}
}
