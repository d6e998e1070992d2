package eval

import (
	"time"

	"github.com/SLassalle/real-estate-price-prediction/internal/feature"
)

// FoldResult holds the metrics for one cross-validation fold.
// MAE and RMSE are in original currency units even when the log-target
// option is enabled; R2 is in whichever space training occurred.
type FoldResult struct {
	Fold int     `json:"fold"`
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	R2   float64 `json:"r2"`
}

// MetricSummary is the mean and population standard deviation of one
// metric across folds.
type MetricSummary struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// Stability is the pass/fail verdict against the fold-to-fold stability
// criterion: the relative spread (std/mean) of MAE and RMSE must stay
// within the configured tolerance.
type Stability struct {
	Tolerance  float64 `json:"tolerance"`
	MAESpread  float64 `json:"mae_spread"`
	RMSESpread float64 `json:"rmse_spread"`
	Pass       bool    `json:"pass"`
}

// Report is the complete result of one cross-validated evaluation run.
type Report struct {
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`

	// Run configuration.
	K         int   `json:"k"`
	Seed      int64 `json:"seed"`
	Shuffle   bool  `json:"shuffle"`
	LogTarget bool  `json:"log_target"`

	// Dataset shape after leakage filtering and transformation.
	Rows     int `json:"rows"`
	Features int `json:"features"`

	// RegistryFingerprint ties the report to the exact feature table.
	RegistryFingerprint string `json:"registry_fingerprint"`

	Folds     []FoldResult  `json:"folds"`
	MAE       MetricSummary `json:"mae"`
	RMSE      MetricSummary `json:"rmse"`
	R2        MetricSummary `json:"r2"`
	Stability Stability     `json:"stability"`
}

// summarize fills the aggregate fields from the per-fold results.
func (r *Report) summarize(tolerance float64) {
	maes := make([]float64, len(r.Folds))
	rmses := make([]float64, len(r.Folds))
	r2s := make([]float64, len(r.Folds))
	for i, f := range r.Folds {
		maes[i] = f.MAE
		rmses[i] = f.RMSE
		r2s[i] = f.R2
	}
	r.MAE.Mean, r.MAE.Std = meanStd(maes)
	r.RMSE.Mean, r.RMSE.Std = meanStd(rmses)
	r.R2.Mean, r.R2.Std = meanStd(r2s)

	r.Stability.Tolerance = tolerance
	if r.MAE.Mean != 0 {
		r.Stability.MAESpread = r.MAE.Std / r.MAE.Mean
	}
	if r.RMSE.Mean != 0 {
		r.Stability.RMSESpread = r.RMSE.Std / r.RMSE.Mean
	}
	r.Stability.Pass = r.Stability.MAESpread <= tolerance && r.Stability.RMSESpread <= tolerance
}

// Fingerprint returns the content-addressed hash of the report body.
// RunID and CreatedAt are excluded: two runs over identical data and
// configuration fingerprint identically.
func (r *Report) Fingerprint() (string, error) {
	folds := make([]any, len(r.Folds))
	for i, f := range r.Folds {
		folds[i] = map[string]any{
			"fold": f.Fold,
			"mae":  f.MAE,
			"rmse": f.RMSE,
			"r2":   f.R2,
		}
	}
	return feature.Fingerprint(feature.DomainReport, map[string]any{
		"k":          r.K,
		"seed":       r.Seed,
		"shuffle":    r.Shuffle,
		"log_target": r.LogTarget,
		"rows":       r.Rows,
		"features":   r.Features,
		"registry":   r.RegistryFingerprint,
		"folds":      folds,
	})
}
