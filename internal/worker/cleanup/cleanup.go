// Package cleanup は古い未公開求人の自動削除ジョブを提供する。
// 保持期間（デフォルト90日）を超過した非アクティブな求人を
// 日次バッチで削除する。
package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/hitoshi/jobboard/internal/metrics"
)

// JobCleaner は古い求人の削除を抽象化するインターフェース。
// repository.JobRepositoryがそのまま満たす。
type JobCleaner interface {
	Cleanup(ctx context.Context, days int) (int64, error)
}

// CleanupJob は保持期間を超過した求人の自動削除ジョブ。
// 日次実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type CleanupJob struct {
	cleaner       JobCleaner
	logger        *slog.Logger
	collector     metrics.MetricsCollector
	RetentionDays int // 求人の保持日数（デフォルト: 90）
}

// NewCleanupJob は新しいCleanupJobを生成する。
// デフォルトの保持日数は90日。collectorはnilでもよい。
func NewCleanupJob(cleaner JobCleaner, logger *slog.Logger, collector metrics.MetricsCollector) *CleanupJob {
	return &CleanupJob{
		cleaner:       cleaner,
		logger:        logger,
		collector:     collector,
		RetentionDays: 90,
	}
}

// Run は保持期間を超過した非アクティブ求人を削除する。
// 冪等: 削除対象がない場合でもエラーにならない。
func (j *CleanupJob) Run(ctx context.Context) error {
	start := time.Now()

	deletedCount, err := j.cleaner.Cleanup(ctx, j.RetentionDays)
	if err != nil {
		j.logger.Error("求人クリーンアップジョブの実行に失敗しました",
			slog.String("error", err.Error()),
			slog.Int("retention_days", j.RetentionDays),
		)
		return err
	}

	if j.collector != nil {
		j.collector.RecordCleanupDeleted(deletedCount)
	}

	duration := time.Since(start)
	j.logger.Info("求人クリーンアップジョブが完了しました",
		slog.Int64("deleted_count", deletedCount),
		slog.Int("retention_days", j.RetentionDays),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}
