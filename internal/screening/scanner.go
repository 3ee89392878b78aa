package screening

import (
	"context"
	"errors"
	"runtime"

	"edakit/adapters/stats/separability"
	"edakit/domain/core"
	domain "edakit/domain/screening"
	"edakit/internal"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Scanner applies both separability tests to every feature column.
type Scanner struct {
	policy   domain.Policy
	external *separability.ExternalTest
	internal *separability.InternalTest
	logger   *internal.Logger
}

// NewScanner creates a scanner for the given policy
func NewScanner(policy domain.Policy, logger *internal.Logger) (*Scanner, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = internal.Nop()
	}
	return &Scanner{
		policy:   policy,
		external: separability.NewExternalTest(policy),
		internal: separability.NewInternalTest(policy),
		logger:   logger,
	}, nil
}

// Scan partitions the columns of x by the model family that can exploit them.
// Columns are tested concurrently; the result does not depend on scheduling.
func (s *Scanner) Scan(ctx context.Context, x mat.Matrix, y []float64) (domain.ScanResult, []domain.FeatureVerdict, error) {
	rows, cols := x.Dims()
	if rows != len(y) {
		return domain.ScanResult{}, nil, core.NewDimensionError("label rows", rows, len(y))
	}

	verdicts := make([]domain.FeatureVerdict, cols)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())

	for j := 0; j < cols; j++ {
		j := j
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := s.scanFeature(j, mat.Col(nil, j, x), y)
			if err != nil {
				return core.NewFeatureError(j, err)
			}
			verdicts[j] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.ScanResult{}, nil, err
	}

	return partition(verdicts), verdicts, nil
}

func (s *Scanner) scanFeature(j int, x, y []float64) (domain.FeatureVerdict, error) {
	verdict := domain.FeatureVerdict{Feature: j}

	ext, err := s.external.Test(x, y)
	if err != nil {
		if !errors.Is(err, core.ErrEmptyTail) {
			return verdict, err
		}
		s.logger.Debug("feature %d: %v, treating as not separable", j, err)
	}
	verdict.External = ext

	if d := ext.Descriptor.Collapsed(); !ext.Separable && d != domain.ClassNone {
		in, err := s.internal.Test(x, y, d.Other())
		if err != nil {
			return verdict, err
		}
		verdict.Internal = &in
	}

	s.logger.Trace("feature %d: external=%v %s internal=%v", j, ext.Separable, ext.Descriptor, verdict.Internal != nil && verdict.Internal.Separable)
	return verdict, nil
}

func (s *Scanner) workers() int {
	if s.policy.Workers > 0 {
		return s.policy.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// partition builds the category sets in feature order.
func partition(verdicts []domain.FeatureVerdict) domain.ScanResult {
	result := domain.ScanResult{
		LR:       []int{},
		RF:       []int{},
		Half:     []int{},
		Internal: []int{},
	}
	for _, v := range verdicts {
		ext := v.External
		switch {
		case ext.Separable && ext.Descriptor.Full():
			result.LR = append(result.LR, v.Feature)
			result.RF = append(result.RF, v.Feature)
		case ext.Separable && ext.Descriptor.Half():
			result.Half = append(result.Half, v.Feature)
			result.RF = append(result.RF, v.Feature)
		case v.Internal != nil && v.Internal.Separable:
			result.Internal = append(result.Internal, v.Feature)
			result.RF = append(result.RF, v.Feature)
		}
	}
	return result
}
