package services

import "github.com/sirupsen/logrus"

// NewActivityLogSubscriber returns an eventbus handler that records every completed import as
// one structured log entry.
func NewActivityLogSubscriber(logger *logrus.Logger) func(*ImportCompletedEvent) {
	return func(e *ImportCompletedEvent) {
		res := e.Result
		logger.WithFields(logrus.Fields{
			"component":                 "activity",
			"event":                     "registry.import.completed",
			"run_id":                    res.RunID.String(),
			"kind":                      string(res.Kind),
			"actor":                     e.Actor,
			"dry_run":                   res.DryRun,
			"total_rows":                res.TotalRows,
			"valid_count":               res.ValidCount,
			"invalid_count":             res.InvalidCount,
			"duplicate_count":           res.DuplicateCount,
			"skipped_count":             res.SkippedCount,
			"existing_count":            res.ExistingCount,
			"inserted_or_updated_count": res.InsertedOrUpdatedCount,
			"completed_at":              e.CompletedAt,
		}).Info("registry import completed")
	}
}
