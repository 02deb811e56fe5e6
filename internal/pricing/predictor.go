package pricing

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/xaenox/flatprice-bot/internal/models"
)

// Predictor calls the scoring function once per record. Failures are not
// retried: scoring is deterministic, so a failure means a broken artifact.
type Predictor struct {
	scorer Scorer
}

func NewPredictor(scorer Scorer) *Predictor {
	return &Predictor{scorer: scorer}
}

func (p *Predictor) Predict(rec FeatureRecord) (float64, error) {
	v, err := p.scorer.Score(rec)
	if err != nil {
		if errors.Is(err, ErrScoring) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", ErrScoring, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: non-finite estimate %v", ErrScoring, v)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%w: non-positive estimate %v", ErrScoring, v)
	}
	return v, nil
}

// Options are the deployment constants the estimator needs besides the
// artifact.
type Options struct {
	KeyRate           float64
	DeviationFraction float64
}

// Estimator runs the whole pipeline: features, score, quote.
type Estimator struct {
	artifact  *Artifact
	builder   *Builder
	predictor *Predictor
	formatter Formatter
	logger    *zap.Logger
	failures  atomic.Int64
}

func NewEstimator(artifact *Artifact, opts Options, logger *zap.Logger) *Estimator {
	return &Estimator{
		artifact:  artifact,
		builder:   NewBuilder(artifact, opts.KeyRate),
		predictor: NewPredictor(artifact.Scorer),
		formatter: NewFormatter(opts.DeviationFraction),
		logger:    logger,
	}
}

func (e *Estimator) Estimate(apt models.Apartment) (Quote, error) {
	rec, err := e.builder.Build(apt)
	if err != nil {
		e.fail(err, apt)
		return Quote{}, err
	}
	raw, err := e.predictor.Predict(rec)
	if err != nil {
		e.fail(err, apt)
		return Quote{}, err
	}
	return e.formatter.Format(raw), nil
}

func (e *Estimator) fail(err error, apt models.Apartment) {
	e.failures.Add(1)
	e.logger.Error("Estimation failed",
		zap.Error(err),
		zap.String("model_version", e.artifact.Version),
		zap.Int("district_code", apt.DistrictCode),
		zap.Int("apartment_type", apt.ApartmentTypeCode))
}

// Degraded reports whether any estimate has failed on a schema or scoring
// error since startup.
func (e *Estimator) Degraded() bool { return e.failures.Load() > 0 }

func (e *Estimator) Version() string { return e.artifact.Version }

// MAPE returns the validation error recorded at training time, if any.
func (e *Estimator) MAPE() (float64, bool) {
	if e.artifact.MAPE == nil {
		return 0, false
	}
	return *e.artifact.MAPE, true
}
