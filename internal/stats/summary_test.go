package stats

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestSummarizeUint64Empty(t *testing.T) {
	_, err := SummarizeUint64(nil)
	if !errors.Is(err, ErrNoSamples) {
		t.Fatalf("expected ErrNoSamples, got %v", err)
	}
	_, err = SummarizeUint64([]uint64{})
	if !errors.Is(err, ErrNoSamples) {
		t.Fatalf("expected ErrNoSamples for empty slice, got %v", err)
	}
}

func TestSummarizeUint64Cases(t *testing.T) {
	tests := []struct {
		name   string
		values []uint64
		want   Uint64Summary
	}{
		{
			name:   "single value",
			values: []uint64{42},
			want:   Uint64Summary{Median: 42, Min: 42, Max: 42},
		},
		{
			name:   "odd length takes middle element",
			values: []uint64{30, 10, 20},
			want:   Uint64Summary{Median: 20, Min: 10, Max: 30},
		},
		{
			name:   "even length averages the two middle elements",
			values: []uint64{10, 20, 30, 40},
			want:   Uint64Summary{Median: 25, Min: 10, Max: 40},
		},
		{
			name:   "even average floors",
			values: []uint64{10, 11},
			want:   Uint64Summary{Median: 10, Min: 10, Max: 11},
		},
		{
			name:   "even average near uint64 max does not wrap",
			values: []uint64{math.MaxUint64, math.MaxUint64 - 2},
			want:   Uint64Summary{Median: math.MaxUint64 - 1, Min: math.MaxUint64 - 2, Max: math.MaxUint64},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SummarizeUint64(tt.values)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSummarizeUint64DoesNotMutateInput(t *testing.T) {
	values := []uint64{5, 1, 3}
	if _, err := SummarizeUint64(values); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if values[0] != 5 || values[1] != 1 || values[2] != 3 {
		t.Fatalf("input was mutated: %v", values)
	}
}

func TestSummarizeUint64_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	nonEmpty := gen.SliceOf(gen.UInt64()).SuchThat(func(values []uint64) bool {
		return len(values) > 0
	})

	properties.Property("min <= median <= max", prop.ForAll(
		func(values []uint64) bool {
			s, err := SummarizeUint64(values)
			if err != nil {
				return false
			}
			return s.Min <= s.Median && s.Median <= s.Max
		},
		nonEmpty,
	))

	properties.Property("summary is permutation invariant", prop.ForAll(
		func(values []uint64, seed int64) bool {
			s1, err := SummarizeUint64(values)
			if err != nil {
				return false
			}
			shuffled := append([]uint64(nil), values...)
			rand.New(rand.NewSource(seed)).Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})
			s2, err := SummarizeUint64(shuffled)
			if err != nil {
				return false
			}
			return s1 == s2
		},
		nonEmpty,
		gen.Int64(),
	))

	properties.Property("odd-length median is an input element", prop.ForAll(
		func(values []uint64) bool {
			if len(values)%2 == 0 {
				values = append(values, 0)
			}
			s, err := SummarizeUint64(values)
			if err != nil {
				return false
			}
			for _, v := range values {
				if v == s.Median {
					return true
				}
			}
			return false
		},
		nonEmpty,
	))

	properties.TestingRun(t)
}

func TestSummarizeFloat64Empty(t *testing.T) {
	_, err := SummarizeFloat64(nil)
	if !errors.Is(err, ErrNoSamples) {
		t.Fatalf("expected ErrNoSamples, got %v", err)
	}
}

func TestSummarizeFloat64Cases(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Float64Summary
	}{
		{
			name:   "single value",
			values: []float64{1.5},
			want:   Float64Summary{Median: 1.5, Min: 1.5, Max: 1.5},
		},
		{
			name:   "odd length takes middle element",
			values: []float64{3.0, 1.0, 2.0},
			want:   Float64Summary{Median: 2.0, Min: 1.0, Max: 3.0},
		},
		{
			name:   "even length averages the middle pair",
			values: []float64{1.0, 2.0, 3.0, 4.0},
			want:   Float64Summary{Median: 2.5, Min: 1.0, Max: 4.0},
		},
		{
			name:   "negative infinity sorts below finite values",
			values: []float64{math.Inf(-1), 0, 1},
			want:   Float64Summary{Median: 0, Min: math.Inf(-1), Max: 1},
		},
		{
			name:   "positive infinity sorts above finite values",
			values: []float64{math.Inf(1), 0, 1},
			want:   Float64Summary{Median: 1, Min: 0, Max: math.Inf(1)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SummarizeFloat64(tt.values)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSummarizeFloat64NaNOrdersFirst(t *testing.T) {
	got, err := SummarizeFloat64([]float64{1.0, math.NaN(), 2.0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsNaN(got.Min) {
		t.Fatalf("NaN should sort first and become Min, got %v", got.Min)
	}
	if got.Median != 1.0 || got.Max != 2.0 {
		t.Fatalf("got median=%v max=%v, want 1 and 2", got.Median, got.Max)
	}
}

func TestSummarizeFloat64_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	nonEmptyFinite := gen.SliceOf(gen.Float64Range(-1e12, 1e12)).SuchThat(func(values []float64) bool {
		return len(values) > 0
	})

	properties.Property("min <= median <= max for finite inputs", prop.ForAll(
		func(values []float64) bool {
			s, err := SummarizeFloat64(values)
			if err != nil {
				return false
			}
			return s.Min <= s.Median && s.Median <= s.Max
		},
		nonEmptyFinite,
	))

	properties.Property("summary is permutation invariant", prop.ForAll(
		func(values []float64, seed int64) bool {
			s1, err := SummarizeFloat64(values)
			if err != nil {
				return false
			}
			shuffled := append([]float64(nil), values...)
			rand.New(rand.NewSource(seed)).Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})
			s2, err := SummarizeFloat64(shuffled)
			if err != nil {
				return false
			}
			return s1 == s2
		},
		nonEmptyFinite,
		gen.Int64(),
	))

	properties.TestingRun(t)
}
