package ambiguity

import "testing"

func TestClarity_NoFindingsIsPerfect(t *testing.T) {
	r := Clarity(Detect("Parse the config file and print the result."), DefaultClarityThreshold)

	if r.OverallScore != 100 {
		t.Errorf("OverallScore = %d, want 100", r.OverallScore)
	}
	if !r.GatePassed {
		t.Error("expected gate to pass")
	}
	if n := len(UncoveredDimensions(r.Dimensions)); n != 0 {
		t.Errorf("expected no uncovered dimensions, got %d", n)
	}
}

func TestClarity_WeightedByCategory(t *testing.T) {
	findings := []Finding{
		{Category: CategoryVagueness, Message: "a", Score: 0.6},
		{Category: CategoryVagueness, Message: "b", Score: 0.6},
	}

	r := Clarity(findings, DefaultClarityThreshold)

	// vagueness scores 40 with weight 8; the other 26 weight units score 100.
	if want := (40*8 + 100*26) / 34; r.OverallScore != want {
		t.Errorf("OverallScore = %d, want %d", r.OverallScore, want)
	}
	uncovered := UncoveredDimensions(r.Dimensions)
	if len(uncovered) != 1 || uncovered[0].Category != CategoryVagueness {
		t.Errorf("uncovered = %+v", uncovered)
	}
}

func TestClarity_Gate(t *testing.T) {
	findings := Detect("Make it fast, retry on failure, support Python and set a timeout.")
	r := Clarity(findings, DefaultClarityThreshold)

	if r.GatePassed {
		t.Errorf("expected gate to fail at score %d", r.OverallScore)
	}
	if r2 := Clarity(findings, 0); !r2.GatePassed {
		t.Error("threshold 0 should always pass")
	}
}

func TestCalculateScore_ZeroWeight(t *testing.T) {
	if got := CalculateScore(nil); got != 0 {
		t.Errorf("CalculateScore(nil) = %d, want 0", got)
	}
}
