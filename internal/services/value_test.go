package services

import (
	"math"
	"testing"
)

func TestCalculateValue(t *testing.T) {
	vs := NewValueService(testLogger())

	testCases := []struct {
		name               string
		bookmakerOdd       float64
		yourProbability    float64
		wantImplied        float64
		wantTrueOdd        float64
		wantValue          float64
		wantRecommendation string
		wantIsValue        bool
	}{
		{
			name:               "break even is neutral and not a value bet",
			bookmakerOdd:       2,
			yourProbability:    50,
			wantImplied:        50,
			wantTrueOdd:        2,
			wantValue:          0,
			wantRecommendation: RecommendationNeutral,
			wantIsValue:        false,
		},
		{
			name:               "clear edge is recommended",
			bookmakerOdd:       3,
			yourProbability:    40,
			wantImplied:        33.33,
			wantTrueOdd:        2.5,
			wantValue:          0.2,
			wantRecommendation: RecommendationValueBet,
			wantIsValue:        true,
		},
		{
			name:               "clear negative edge has no value",
			bookmakerOdd:       1.5,
			yourProbability:    60,
			wantImplied:        66.67,
			wantTrueOdd:        1.67,
			wantValue:          -0.1,
			wantRecommendation: RecommendationNoValue,
			wantIsValue:        false,
		},
		{
			name:               "small positive edge is neutral yet still a value flag",
			bookmakerOdd:       2,
			yourProbability:    51,
			wantImplied:        50,
			wantTrueOdd:        1.96,
			wantValue:          0.02,
			wantRecommendation: RecommendationNeutral,
			wantIsValue:        true,
		},
		{
			name:               "just past the positive threshold is recommended",
			bookmakerOdd:       2,
			yourProbability:    53,
			wantImplied:        50,
			wantTrueOdd:        1.89,
			wantValue:          0.06,
			wantRecommendation: RecommendationValueBet,
			wantIsValue:        true,
		},
		{
			name:               "just past the negative threshold has no value",
			bookmakerOdd:       2,
			yourProbability:    47,
			wantImplied:        50,
			wantTrueOdd:        2.13,
			wantValue:          -0.06,
			wantRecommendation: RecommendationNoValue,
			wantIsValue:        false,
		},
		{
			name:               "longshot priced above fair value",
			bookmakerOdd:       11.03,
			yourProbability:    10,
			wantImplied:        9.07,
			wantTrueOdd:        10,
			wantValue:          0.103,
			wantRecommendation: RecommendationValueBet,
			wantIsValue:        true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := vs.CalculateValue(tc.bookmakerOdd, tc.yourProbability)

			if got.BookmakerOdd != tc.bookmakerOdd {
				t.Errorf("BookmakerOdd = %v, want %v", got.BookmakerOdd, tc.bookmakerOdd)
			}
			if got.YourProbability != tc.yourProbability {
				t.Errorf("YourProbability = %v, want %v", got.YourProbability, tc.yourProbability)
			}
			if got.ImpliedProbability != tc.wantImplied {
				t.Errorf("ImpliedProbability = %v, want %v", got.ImpliedProbability, tc.wantImplied)
			}
			if got.TrueOdd != tc.wantTrueOdd {
				t.Errorf("TrueOdd = %v, want %v", got.TrueOdd, tc.wantTrueOdd)
			}
			if got.Value != tc.wantValue {
				t.Errorf("Value = %v, want %v", got.Value, tc.wantValue)
			}
			if got.Recommendation != tc.wantRecommendation {
				t.Errorf("Recommendation = %q, want %q", got.Recommendation, tc.wantRecommendation)
			}
			if got.IsValue != tc.wantIsValue {
				t.Errorf("IsValue = %v, want %v", got.IsValue, tc.wantIsValue)
			}
		})
	}
}

func TestCalculateValueMonotonicity(t *testing.T) {
	vs := NewValueService(testLogger())

	// At a fixed price, value must grow with the caller's probability.
	prev := math.Inf(-1)
	for p := 10.0; p <= 100.0; p += 10 {
		got := vs.CalculateValue(2, p)
		if got.Value <= prev {
			t.Fatalf("value at probability %v is %v, not above %v", p, got.Value, prev)
		}
		prev = got.Value
	}

	// At a fixed probability, value must grow with the price.
	prev = math.Inf(-1)
	for b := 1.2; b <= 3.0; b += 0.2 {
		got := vs.CalculateValue(b, 40)
		if got.Value <= prev {
			t.Fatalf("value at odd %v is %v, not above %v", b, got.Value, prev)
		}
		prev = got.Value
	}
}

func TestCalculateValueRoundTripIdentities(t *testing.T) {
	vs := NewValueService(testLogger())

	// Implied probability inverts the price and the true odd inverts the
	// probability, both as percentages rounded to two places.
	got := vs.CalculateValue(2.56, 42)
	if want := math.Round((1/2.56)*100*100) / 100; got.ImpliedProbability != want {
		t.Errorf("ImpliedProbability = %v, want %v", got.ImpliedProbability, want)
	}
	if want := math.Round((100/42.0)*100) / 100; got.TrueOdd != want {
		t.Errorf("TrueOdd = %v, want %v", got.TrueOdd, want)
	}
}
