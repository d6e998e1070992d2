// Package eval is the cross-validated evaluation harness. It drives the
// leakage filter and transform engine per fold, fits a fresh model per
// fold, and aggregates MAE/RMSE/R² into a Report with a stability
// verdict.
//
// Folds are independent by construction: each fold fits its own transform
// and model on its training partition only. Sharing fitted state across
// folds would leak training statistics and invalidate the generalization
// estimate, so the harness never caches a transform between folds.
package eval

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SLassalle/real-estate-price-prediction/internal/feature"
	"github.com/SLassalle/real-estate-price-prediction/internal/leakage"
	"github.com/SLassalle/real-estate-price-prediction/internal/model"
	"github.com/SLassalle/real-estate-price-prediction/internal/registry"
	"github.com/SLassalle/real-estate-price-prediction/internal/transform"
)

// Default evaluation configuration.
const (
	DefaultK                  = 5
	DefaultMinTrainRows       = 20
	DefaultStabilityTolerance = 0.05
)

// Options configures one evaluation run.
type Options struct {
	// K is the number of cross-validation folds. Default 5.
	K int

	// Seed drives the shuffle permutation. The same seed always produces
	// the same folds.
	Seed int64

	// Shuffle permutes rows before dealing folds. Default true; NoShuffle
	// disables it.
	NoShuffle bool

	// LogTarget trains in log1p space. Predictions are inverted with
	// expm1 before MAE/RMSE so those report in currency units; R² stays
	// in log space and is never mixed.
	LogTarget bool

	// MinTrainRows is the smallest acceptable training partition.
	// Default 20.
	MinTrainRows int

	// StabilityTolerance is the maximum relative spread (std/mean) of MAE
	// and RMSE across folds for the run to pass. Default 0.05.
	StabilityTolerance float64

	// Concurrency is the number of folds evaluated in parallel.
	// Default 1 (sequential). Each fold owns its transform and model
	// either way.
	Concurrency int
}

func (o Options) withDefaults() Options {
	if o.K == 0 {
		o.K = DefaultK
	}
	if o.MinTrainRows == 0 {
		o.MinTrainRows = DefaultMinTrainRows
	}
	if o.StabilityTolerance == 0 {
		o.StabilityTolerance = DefaultStabilityTolerance
	}
	if o.Concurrency < 1 {
		o.Concurrency = 1
	}
	return o
}

// Evaluate runs K-fold cross-validation over the dataset.
//
// Cancellation is cooperative between folds: a cancelled context stops
// before the next fold starts, never mid-fold, since fold boundaries are
// the natural checkpoint.
//
// Fails with *InsufficientDataError when the configuration cannot produce
// valid folds, and fails fast (listing every absent column) when the
// dataset does not carry all registry-declared columns.
func Evaluate(ctx context.Context, ds *feature.Dataset, reg *registry.Registry, factory model.Factory, opts Options) (*Report, error) {
	opts = opts.withDefaults()
	n := ds.Len()

	if opts.K < 2 {
		return nil, fmt.Errorf("evaluate: k must be at least 2, got %d", opts.K)
	}
	if opts.K > n {
		return nil, &InsufficientDataError{Rows: n, K: opts.K, MinTrain: opts.MinTrainRows,
			Detail: "more folds than rows"}
	}

	// Fail fast with the complete list of absent columns before touching
	// any row.
	if missingCols := reg.MissingColumns(ds.Columns, true); len(missingCols) > 0 {
		return nil, fmt.Errorf("evaluate: dataset is missing expected columns: %s", strings.Join(missingCols, ", "))
	}

	// The leakage filter has no fitted state; its output depends only on
	// the column set, which is identical for every fold.
	surviving, err := leakage.Filter(ds.Columns, reg)
	if err != nil {
		return nil, err
	}

	folds := kfoldIndices(n, opts.K, !opts.NoShuffle, opts.Seed)
	for f, fold := range folds {
		train := n - len(fold)
		if train < opts.MinTrainRows {
			return nil, &InsufficientDataError{Rows: n, K: opts.K, MinTrain: opts.MinTrainRows,
				Detail: fmt.Sprintf("fold %d training partition has %d rows, minimum is %d", f, train, opts.MinTrainRows)}
		}
	}

	regFP, err := reg.Fingerprint()
	if err != nil {
		return nil, fmt.Errorf("evaluate: registry fingerprint: %w", err)
	}

	report := &Report{
		RunID:               uuid.Must(uuid.NewV7()).String(),
		CreatedAt:           time.Now().UTC(),
		K:                   opts.K,
		Seed:                opts.Seed,
		Shuffle:             !opts.NoShuffle,
		LogTarget:           opts.LogTarget,
		Rows:                n,
		RegistryFingerprint: regFP,
		Folds:               make([]FoldResult, opts.K),
	}

	slog.Info("evaluation starting",
		"run_id", report.RunID,
		"rows", n,
		"k", opts.K,
		"seed", opts.Seed,
		"shuffle", report.Shuffle,
		"log_target", opts.LogTarget,
		"concurrency", opts.Concurrency,
	)

	features, err := runFolds(ctx, ds, reg, surviving, folds, factory, opts, report.Folds)
	if err != nil {
		return nil, err
	}
	report.Features = features
	report.summarize(opts.StabilityTolerance)

	slog.Info("evaluation finished",
		"run_id", report.RunID,
		"mae_mean", report.MAE.Mean,
		"rmse_mean", report.RMSE.Mean,
		"r2_mean", report.R2.Mean,
		"stable", report.Stability.Pass,
	)

	return report, nil
}

// runFolds evaluates every fold, sequentially or on a bounded worker
// pool, writing results into out. Returns the output feature count of the
// first fold's fitted transform.
func runFolds(ctx context.Context, ds *feature.Dataset, reg *registry.Registry, surviving []string, folds [][]int, factory model.Factory, opts Options, out []FoldResult) (int, error) {
	featureCount := 0

	if opts.Concurrency == 1 {
		for f := range folds {
			// Cooperative cancellation at the fold boundary.
			if err := ctx.Err(); err != nil {
				return 0, err
			}
			res, nf, err := evaluateFold(ds, reg, surviving, folds, f, factory, opts)
			if err != nil {
				return 0, fmt.Errorf("fold %d: %w", f, err)
			}
			out[f] = res
			if f == 0 {
				featureCount = nf
			}
		}
		return featureCount, nil
	}

	type foldErr struct {
		fold int
		err  error
	}
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		firstNF int
		errs    []foldErr
	)
	sem := make(chan struct{}, opts.Concurrency)

	for f := range folds {
		if err := ctx.Err(); err != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(f int) {
			defer wg.Done()
			defer func() { <-sem }()

			res, nf, err := evaluateFold(ds, reg, surviving, folds, f, factory, opts)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, foldErr{fold: f, err: err})
				return
			}
			out[f] = res
			if f == 0 {
				firstNF = nf
			}
		}(f)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(errs) > 0 {
		// Report the lowest-numbered failing fold for determinism.
		first := errs[0]
		for _, e := range errs[1:] {
			if e.fold < first.fold {
				first = e
			}
		}
		return 0, fmt.Errorf("fold %d: %w", first.fold, first.err)
	}
	return firstNF, nil
}

// evaluateFold fits and scores one fold. The transform and the model are
// created inside the fold and never escape it.
func evaluateFold(ds *feature.Dataset, reg *registry.Registry, surviving []string, folds [][]int, f int, factory model.Factory, opts Options) (FoldResult, int, error) {
	trainDS := ds.Subset(trainIndices(folds, f))
	testDS := ds.Subset(folds[f])

	ft, err := transform.Fit(trainDS, surviving, reg)
	if err != nil {
		return FoldResult{}, 0, err
	}

	trainX, err := toMatrix(ft, trainDS.Records)
	if err != nil {
		return FoldResult{}, 0, err
	}
	testX, err := toMatrix(ft, testDS.Records)
	if err != nil {
		return FoldResult{}, 0, err
	}

	trainY, err := ExtractTarget(trainDS, reg)
	if err != nil {
		return FoldResult{}, 0, err
	}
	testY, err := ExtractTarget(testDS, reg)
	if err != nil {
		return FoldResult{}, 0, err
	}

	fitY := trainY
	if opts.LogTarget {
		fitY = log1pAll(trainY)
	}

	m := factory()
	if err := m.Fit(trainX, fitY); err != nil {
		return FoldResult{}, 0, fmt.Errorf("model fit: %w", err)
	}
	preds, err := m.Predict(testX)
	if err != nil {
		return FoldResult{}, 0, fmt.Errorf("model predict: %w", err)
	}

	res := FoldResult{Fold: f}
	if opts.LogTarget {
		// R² in training (log) space; MAE/RMSE back in currency units.
		testYLog := log1pAll(testY)
		res.R2 = R2(testYLog, preds)
		predsRaw := expm1All(preds)
		res.MAE = MAE(testY, predsRaw)
		res.RMSE = RMSE(testY, predsRaw)
	} else {
		res.MAE = MAE(testY, preds)
		res.RMSE = RMSE(testY, preds)
		res.R2 = R2(testY, preds)
	}

	slog.Debug("fold evaluated",
		"fold", f,
		"train_rows", len(trainX),
		"test_rows", len(testX),
		"mae", res.MAE,
		"rmse", res.RMSE,
		"r2", res.R2,
	)

	return res, len(ft.FeatureNames), nil
}

// ExtractTarget pulls the target column as a float vector. The target is
// never transformed by the engine; the harness owns the optional log
// transform.
func ExtractTarget(ds *feature.Dataset, reg *registry.Registry) ([]float64, error) {
	target := reg.Target()
	out := make([]float64, len(ds.Records))
	for i, rec := range ds.Records {
		v, ok := rec[target]
		if !ok || feature.IsMissing(v) {
			return nil, fmt.Errorf("target %q missing in row %d", target, i)
		}
		f, err := feature.AsFloat(v)
		if err != nil {
			return nil, fmt.Errorf("target %q in row %d: %w", target, i, err)
		}
		out[i] = f
	}
	return out, nil
}

// toMatrix applies the fitted transform and flattens rows for the model.
func toMatrix(ft *transform.FittedTransform, records []feature.RawRecord) ([][]float64, error) {
	transformed, err := ft.Apply(records)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(transformed))
	for i, tr := range transformed {
		out[i] = tr.Values
	}
	return out, nil
}

func log1pAll(vals []float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = math.Log1p(v)
	}
	return out
}

func expm1All(vals []float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = math.Expm1(v)
	}
	return out
}
