package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/SLassalle/real-estate-price-prediction/internal/eval"
	"github.com/SLassalle/real-estate-price-prediction/internal/registry"
	"github.com/SLassalle/real-estate-price-prediction/internal/transform"
)

// RunSummary is the list-view projection of a stored run.
type RunSummary struct {
	RunID     string  `json:"run_id"`
	CreatedAt string  `json:"created_at"`
	K         int     `json:"k"`
	Seed      int64   `json:"seed"`
	Rows      int     `json:"rows"`
	Features  int     `json:"features"`
	MAEMean   float64 `json:"mae_mean"`
	RMSEMean  float64 `json:"rmse_mean"`
	R2Mean    float64 `json:"r2_mean"`
	Stable    bool    `json:"stable"`
}

// ListRuns returns stored run summaries, newest first.
// Returns an empty slice (not nil) when the store holds no runs.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, created_at, k, seed, rows, features,
		       mae_mean, rmse_mean, r2_mean, stable
		FROM runs
		ORDER BY created_at DESC, run_id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	summaries := []RunSummary{}
	for rows.Next() {
		var rs RunSummary
		var stable int
		if err := rows.Scan(&rs.RunID, &rs.CreatedAt, &rs.K, &rs.Seed, &rs.Rows, &rs.Features,
			&rs.MAEMean, &rs.RMSEMean, &rs.R2Mean, &stable); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rs.Stable = stable != 0
		summaries = append(summaries, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return summaries, nil
}

// ReadReport loads the full report for a run ID.
// Returns sql.ErrNoRows wrapped when the run does not exist.
func (s *Store) ReadReport(ctx context.Context, runID string) (*eval.Report, error) {
	var reportJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT report_json FROM runs WHERE run_id = ?
	`, runID).Scan(&reportJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("run %q not found: %w", runID, err)
		}
		return nil, fmt.Errorf("read report: %w", err)
	}

	var report eval.Report
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("read report: unmarshal: %w", err)
	}
	return &report, nil
}

// ReadTransform loads a fitted transform by fingerprint and rebinds it to
// the given registry so it is ready to Apply.
func (s *Store) ReadTransform(ctx context.Context, fingerprint string, reg *registry.Registry) (*transform.FittedTransform, error) {
	var ftJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT transform_json FROM transforms WHERE fingerprint = ?
	`, fingerprint).Scan(&ftJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("transform %q not found: %w", fingerprint, err)
		}
		return nil, fmt.Errorf("read transform: %w", err)
	}

	var ft transform.FittedTransform
	if err := json.Unmarshal([]byte(ftJSON), &ft); err != nil {
		return nil, fmt.Errorf("read transform: unmarshal: %w", err)
	}
	ft.Rebind(reg)
	return &ft, nil
}
