package stats

import "testing"

func TestCalculateBasicStatistics(t *testing.T) {
	scores := []float64{1, 2, 3, 4, 5}
	got := Calculate(scores)

	if got.Min != 1 || got.Max != 5 {
		t.Fatalf("expected min=1 max=5, got min=%v max=%v", got.Min, got.Max)
	}
	if got.Mean != 3 {
		t.Fatalf("expected mean=3, got %v", got.Mean)
	}
	if got.Median != 3 {
		t.Fatalf("expected median=3, got %v", got.Median)
	}
}

func TestCalculateDoesNotMutateInput(t *testing.T) {
	scores := []float64{5, 1, 3}
	Calculate(scores)
	if scores[0] != 5 || scores[1] != 1 || scores[2] != 3 {
		t.Fatalf("expected input slice untouched, got %v", scores)
	}
}

func TestCalculatePanicsOnEmptyInput(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for an empty population")
		}
	}()
	Calculate(nil)
}

func TestCalculateSingleValue(t *testing.T) {
	got := Calculate([]float64{7})
	if got.Min != 7 || got.Max != 7 || got.Mean != 7 || got.Median != 7 {
		t.Fatalf("expected all statistics to equal the single value 7, got %+v", got)
	}
}

// TestCalculateEvenPopulationMatchesOriginalQuirk covers utils.cpp's
// nearest-rank indexing for an even-sized population, including the
// median formula's off-by-one (it averages sorted[n/2] and sorted[n/2+1]
// rather than the two true middle elements).
func TestCalculateEvenPopulationMatchesOriginalQuirk(t *testing.T) {
	scores := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	got := Calculate(scores)

	if got.Median != 5.5 {
		t.Fatalf("expected median=5.5 (sorted[4]+sorted[5])/2, got %v", got.Median)
	}
	if got.FirstQuartile != 3 {
		t.Fatalf("expected lower quartile=sorted[n/4]=3, got %v", got.FirstQuartile)
	}
	if got.ThirdQuartile != 7 {
		t.Fatalf("expected upper quartile=sorted[3n/4]=7, got %v", got.ThirdQuartile)
	}
}
