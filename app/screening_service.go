package app

import (
	"context"
	"fmt"
	"io"
	"math"

	"edakit/adapters/excel"
	"edakit/domain/core"
	"edakit/domain/dataset"
	"edakit/domain/screening"
	"edakit/internal"
	"edakit/internal/dataprep"
	"edakit/internal/errors"
	"edakit/internal/plot"
	"edakit/internal/profiling"
	"edakit/internal/report"
	screener "edakit/internal/screening"

	"gonum.org/v1/gonum/mat"
)

// ScreeningService turns tables into screening decisions and reports
type ScreeningService struct {
	policy        screening.Policy
	dropThreshold float64
	logger        *internal.Logger
}

// Prepared is an imputed dataset split into features and labels
type Prepared struct {
	Source     string
	Target     string
	X          *mat.Dense
	Y          []float64
	Features   []string
	Imputation *dataprep.ImputeResult
	Profiles   []profiling.ColumnProfile
	DataErrors []dataset.DataError
}

// ScanOutput is the per-feature screening result with feature names
type ScanOutput struct {
	Features []string                   `json:"features"`
	Result   screening.ScanResult       `json:"result"`
	Verdicts []screening.FeatureVerdict `json:"verdicts"`
}

// NewScreeningService creates a screening service
func NewScreeningService(policy screening.Policy, dropThreshold float64, logger *internal.Logger) (*ScreeningService, error) {
	if err := policy.Validate(); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if logger == nil {
		logger = internal.Nop()
	}
	return &ScreeningService{policy: policy, dropThreshold: dropThreshold, logger: logger}, nil
}

// Policy returns the policy the service screens with
func (s *ScreeningService) Policy() screening.Policy {
	return s.policy
}

// LoadFile reads an xlsx or csv file and prepares it for screening.
func (s *ScreeningService) LoadFile(path, sheet, target string) (*Prepared, error) {
	table, dataErrs, err := excel.LoadTable(path, sheet, target, s.logger)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}
	for _, de := range dataErrs {
		s.logger.Warn("%v", de)
	}

	prepared, err := s.Prepare(table, target)
	if err != nil {
		return nil, err
	}
	prepared.Source = path
	prepared.DataErrors = dataErrs
	return prepared, nil
}

// Prepare imputes missing feature cells and splits off the target column.
// Missing labels are rejected rather than imputed.
func (s *ScreeningService) Prepare(table *dataset.Table, target string) (*Prepared, error) {
	tj, err := table.ColumnIndex(target)
	if err != nil {
		return nil, errors.Wrap(err, "target column")
	}
	for i, row := range table.Rows {
		if math.IsNaN(row[tj]) {
			return nil, errors.Wrapf(core.NewLabelError(i, row[tj]), "target %s has a missing label", target)
		}
	}

	profiles, err := profiling.ProfileTable(table, s.policy.FenceK)
	if err != nil {
		return nil, errors.Wrap(err, "profiling failed")
	}

	imputed, err := dataprep.ImputeMissing(table, s.dropThreshold)
	if err != nil {
		return nil, errors.Wrap(err, "imputation failed")
	}
	if len(imputed.Dropped) > 0 {
		s.logger.Info("dropped %d sparse columns: %v", len(imputed.Dropped), imputed.Dropped)
	}

	x, y, names, err := imputed.Table.Split(target)
	if err != nil {
		return nil, errors.Wrap(err, "failed to split target")
	}
	return &Prepared{Target: target, X: x, Y: y, Features: names, Imputation: imputed, Profiles: profiles}, nil
}

// Impute fills or drops missing cells. A nil threshold uses the service default.
func (s *ScreeningService) Impute(table *dataset.Table, dropThreshold *float64) (*dataprep.ImputeResult, error) {
	threshold := s.dropThreshold
	if dropThreshold != nil {
		threshold = *dropThreshold
	}
	if threshold <= 0 || threshold > 1 {
		return nil, errors.InvalidInput(fmt.Sprintf("drop threshold must be in (0,1], got %v", threshold))
	}
	result, err := dataprep.ImputeMissing(table, threshold)
	if err != nil {
		return nil, errors.Wrap(err, "imputation failed")
	}
	return result, nil
}

// Recommend runs the model recommender and wraps the decision in a report.
func (s *ScreeningService) Recommend(ctx context.Context, p *Prepared, verbose bool) (*report.Report, error) {
	r, err := screener.NewRecommender(s.policy, screener.WithVerbose(verbose), screener.WithLogger(s.logger))
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	decision, err := r.Recommend(ctx, p.X, p.Y)
	if err != nil {
		return nil, errors.Wrap(err, "recommendation failed")
	}

	rep := report.New(decision, p.Features)
	rep.Fingerprint = core.DatasetHash(p.X, p.Y)
	rep.Source = p.Source
	rep.Target = p.Target
	rep.Imputation = p.Imputation
	rep.Profiles = p.Profiles
	rep.DataErrors = len(p.DataErrors)
	s.logger.Info("report %s: %s (score %.3f, threshold %.3f)", rep.ID, decision.Recommendation, decision.Score, decision.Threshold)
	return rep, nil
}

// Scan runs the feature distribution scanner.
func (s *ScreeningService) Scan(ctx context.Context, p *Prepared) (*ScanOutput, error) {
	scanner, err := screener.NewScanner(s.policy, s.logger)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	result, verdicts, err := scanner.Scan(ctx, p.X, p.Y)
	if err != nil {
		return nil, errors.Wrap(err, "scan failed")
	}
	return &ScanOutput{Features: p.Features, Result: result, Verdicts: verdicts}, nil
}

// Ratio scores n samples over f features.
func (s *ScreeningService) Ratio(n, f int) (float64, error) {
	score, err := s.policy.RatioScore(n, f)
	if err != nil {
		return 0, errors.Wrap(err, "ratio score")
	}
	return score, nil
}

// Plot renders the per-class strip of the named feature.
func (s *ScreeningService) Plot(w io.Writer, p *Prepared, feature string, bins int) error {
	j := -1
	for k, name := range p.Features {
		if name == feature {
			j = k
		}
	}
	if j < 0 {
		return errors.Wrap(core.NewColumnNotFoundError(feature), "plot")
	}
	return plot.RenderStrip(w, mat.Col(nil, j, p.X), p.Y, feature, bins)
}

// Describe summarises a prepared dataset in one line.
func (p *Prepared) Describe() string {
	n, f := p.X.Dims()
	return fmt.Sprintf("%d samples, %d features, %d dropped, %d imputed", n, f,
		len(p.Imputation.Dropped), len(p.Imputation.Medians))
}
