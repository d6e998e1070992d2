package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SLassalle/real-estate-price-prediction/internal/eval"
	"github.com/SLassalle/real-estate-price-prediction/internal/transform"
)

// WriteReport inserts an evaluation report. The run ID is the primary
// key; writing the same run twice is silently ignored (idempotent via
// ON CONFLICT DO NOTHING).
func (s *Store) WriteReport(ctx context.Context, report *eval.Report) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("write report: marshal: %w", err)
	}
	fp, err := report.Fingerprint()
	if err != nil {
		return fmt.Errorf("write report: fingerprint: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs
		(run_id, created_at, k, seed, shuffle, log_target, rows, features,
		 registry_fingerprint, report_fingerprint,
		 mae_mean, rmse_mean, r2_mean, stable, report_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO NOTHING
	`,
		report.RunID,
		report.CreatedAt.UTC().Format(time.RFC3339Nano),
		report.K,
		report.Seed,
		boolToInt(report.Shuffle),
		boolToInt(report.LogTarget),
		report.Rows,
		report.Features,
		report.RegistryFingerprint,
		fp,
		report.MAE.Mean,
		report.RMSE.Mean,
		report.R2.Mean,
		boolToInt(report.Stability.Pass),
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// WriteTransform persists a fitted transform keyed by its content
// fingerprint. Writing the same fitted state twice is a no-op, so a
// transform shared by several runs is stored once.
func (s *Store) WriteTransform(ctx context.Context, ft *transform.FittedTransform, registryFingerprint string) (fingerprint string, err error) {
	fp, err := ft.Fingerprint()
	if err != nil {
		return "", fmt.Errorf("write transform: fingerprint: %w", err)
	}
	ftJSON, err := json.Marshal(ft)
	if err != nil {
		return "", fmt.Errorf("write transform: marshal: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO transforms
		(fingerprint, created_at, registry_fingerprint, feature_count, transform_json)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO NOTHING
	`,
		fp,
		time.Now().UTC().Format(time.RFC3339Nano),
		registryFingerprint,
		len(ft.FeatureNames),
		string(ftJSON),
	)
	if err != nil {
		return "", fmt.Errorf("write transform: %w", err)
	}

	return fp, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
