// Package screening scans binary-classification features for tail and
// interior separability and recommends a model family from the result.
package screening

import (
	"context"

	domain "edakit/domain/screening"
	"edakit/internal"

	"gonum.org/v1/gonum/mat"
)

// ScoreFeatureDistributions scans x against y with the default policy.
func ScoreFeatureDistributions(ctx context.Context, x mat.Matrix, y []float64) (domain.ScanResult, error) {
	scanner, err := NewScanner(domain.DefaultPolicy(), nil)
	if err != nil {
		return domain.ScanResult{}, err
	}
	result, _, err := scanner.Scan(ctx, x, y)
	return result, err
}

// ScoreSampleFeatureRatio scores n samples over f features with the default policy.
func ScoreSampleFeatureRatio(n, f int) (float64, error) {
	return domain.DefaultPolicy().RatioScore(n, f)
}

// RecommendModel returns the recommended model family for x and y. When
// verbose is set the category lists are logged through the default logger.
func RecommendModel(ctx context.Context, x mat.Matrix, y []float64, verbose bool) (domain.Recommendation, error) {
	r, err := NewRecommender(domain.DefaultPolicy(), WithVerbose(verbose), WithLogger(internal.DefaultLogger))
	if err != nil {
		return "", err
	}
	decision, err := r.Recommend(ctx, x, y)
	if err != nil {
		return "", err
	}
	return decision.Recommendation, nil
}
