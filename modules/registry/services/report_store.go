package services

import (
	"context"
	"encoding/json"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/civreg/modules/registry/domain/record"
)

const reportSaveTimeout = 5 * time.Second

// ReportService keeps finished import reports so they can be fetched by run ID after the
// upload request has returned.
type ReportService struct {
	repo record.ReportRepository
}

func NewReportService(repo record.ReportRepository) *ReportService {
	return &ReportService{repo: repo}
}

func (s *ReportService) Save(ctx context.Context, res Result) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return gerrors.Wrap(err, "marshal import report")
	}
	return s.repo.Save(ctx, res.RunID, payload)
}

func (s *ReportService) Get(ctx context.Context, runID uuid.UUID) (Result, error) {
	payload, err := s.repo.Load(ctx, runID)
	if err != nil {
		return Result{}, err
	}
	var res Result
	if err := json.Unmarshal(payload, &res); err != nil {
		return Result{}, gerrors.Wrapf(err, "decode import report %s", runID)
	}
	return res, nil
}

// NewReportRecorder returns an eventbus handler that saves every completed import. Save
// failures are logged and never affect the import itself.
func NewReportRecorder(reports *ReportService, logger *logrus.Logger) func(*ImportCompletedEvent) {
	return func(e *ImportCompletedEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), reportSaveTimeout)
		defer cancel()
		if err := reports.Save(ctx, e.Result); err != nil {
			logger.WithError(err).WithField("run_id", e.Result.RunID.String()).Error("failed to save import report")
		}
	}
}
