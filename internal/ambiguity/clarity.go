package ambiguity

// DefaultClarityThreshold is the score at which a text is clear enough to
// generate code from.
const DefaultClarityThreshold = 80

// ClarityDimension is one category of ambiguity scored 0-100.
type ClarityDimension struct {
	Category Category `json:"category"`
	Weight   int      `json:"weight"`  // relative importance (1-10)
	Covered  bool     `json:"covered"` // no finding in this category
	Score    int      `json:"score"`
}

// ClarityReport is the clarity of one text across all dimensions.
type ClarityReport struct {
	Dimensions   []ClarityDimension `json:"dimensions"`
	OverallScore int                `json:"overall_score"`
	GatePassed   bool               `json:"gate_passed"`
}

// DefaultDimensions returns the clarity dimensions, one per real category.
func DefaultDimensions() []ClarityDimension {
	return []ClarityDimension{
		{Category: CategoryVagueness, Weight: 8},
		{Category: CategoryUnspecifiedConstraint, Weight: 7},
		{Category: CategoryNonFunctional, Weight: 5},
		{Category: CategoryCompatibility, Weight: 6},
		{Category: CategoryErrorHandling, Weight: 8},
	}
}

// Clarity scores findings against DefaultDimensions. A dimension without
// findings scores 100; otherwise it loses its strongest finding's score.
func Clarity(findings []Finding, threshold int) ClarityReport {
	worst := make(map[Category]float64)
	for _, f := range findings {
		if f.Score > worst[f.Category] {
			worst[f.Category] = f.Score
		}
	}

	dims := DefaultDimensions()
	for i := range dims {
		s, hit := worst[dims[i].Category]
		dims[i].Covered = !hit
		dims[i].Score = 100 - int(s*100+0.5)
	}

	score := CalculateScore(dims)
	return ClarityReport{
		Dimensions:   dims,
		OverallScore: score,
		GatePassed:   score >= threshold,
	}
}

// CalculateScore computes the weighted overall score from dimensions.
func CalculateScore(dimensions []ClarityDimension) int {
	totalWeight := 0
	weightedSum := 0

	for _, d := range dimensions {
		totalWeight += d.Weight
		weightedSum += d.Score * d.Weight
	}

	if totalWeight == 0 {
		return 0
	}

	return weightedSum / totalWeight
}

// UncoveredDimensions returns dimensions that still have findings.
func UncoveredDimensions(dimensions []ClarityDimension) []ClarityDimension {
	var uncovered []ClarityDimension
	for _, d := range dimensions {
		if !d.Covered {
			uncovered = append(uncovered, d)
		}
	}
	return uncovered
}
