package screening

import (
	"context"
	"fmt"

	domain "edakit/domain/screening"
	"edakit/internal"

	"gonum.org/v1/gonum/mat"
)

// Recommender weighs feature separability and the sample/feature ratio to
// choose between Random Forest and Logistic Regression.
type Recommender struct {
	policy  domain.Policy
	scanner *Scanner
	logger  *internal.Logger
	verbose bool
}

// Option configures a Recommender
type Option func(*Recommender)

// WithVerbose logs the per-category feature lists of every decision
func WithVerbose(verbose bool) Option {
	return func(r *Recommender) { r.verbose = verbose }
}

// WithLogger sets the logger used for diagnostics
func WithLogger(logger *internal.Logger) Option {
	return func(r *Recommender) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRecommender creates a recommender for the given policy
func NewRecommender(policy domain.Policy, opts ...Option) (*Recommender, error) {
	r := &Recommender{policy: policy, logger: internal.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	scanner, err := NewScanner(policy, r.logger)
	if err != nil {
		return nil, err
	}
	r.scanner = scanner
	return r, nil
}

// Recommend scores x and y and returns the full decision.
func (r *Recommender) Recommend(ctx context.Context, x mat.Matrix, y []float64) (*domain.Decision, error) {
	n, f := x.Dims()

	ratioScore, err := r.policy.RatioScore(n, f)
	if err != nil {
		return nil, err
	}

	scan, verdicts, err := r.scanner.Scan(ctx, x, y)
	if err != nil {
		return nil, fmt.Errorf("scan feature distributions: %w", err)
	}

	bonus := r.distributionBonus(scan, f)
	score := -r.policy.RatioWeight*(1-ratioScore) + r.policy.DistributionWeight*bonus
	threshold := r.policy.DecisionFraction * float64(f)

	recommendation := domain.LogisticRegression
	if score > threshold {
		recommendation = domain.RandomForest
	}

	decision := &domain.Decision{
		Recommendation:    recommendation,
		Score:             score,
		Threshold:         threshold,
		RatioScore:        ratioScore,
		DistributionBonus: bonus,
		Samples:           n,
		Features:          f,
		Scan:              scan,
		Verdicts:          verdicts,
	}

	if r.verbose {
		r.logger.Info("feature distribution summary: lr=%v rf=%v half=%v internal=%v",
			scan.LR, scan.RF, scan.Half, scan.Internal)
		r.logger.Info("%s is the better option (score %.3f vs threshold %.3f)",
			recommendation.Label(), score, threshold)
	} else {
		r.logger.Debug("recommendation=%s score=%.3f threshold=%.3f", recommendation, score, threshold)
	}
	return decision, nil
}

// distributionBonus rewards non-linear-only signal and a scarcity of linear signal.
func (r *Recommender) distributionBonus(scan domain.ScanResult, features int) float64 {
	bonus := r.policy.NonLinearBonus * float64(len(scan.NonLinearOnly()))

	linear := r.policy.LRWeight*float64(len(scan.LR)) + r.policy.HalfWeight*float64(len(scan.Half))
	if linear < r.policy.SparseLinearFraction*float64(features) {
		bonus += r.policy.SparseLinearBonus
	}
	return bonus
}
