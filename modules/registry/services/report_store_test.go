package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/civreg/modules/registry/domain/record"
	"github.com/iota-uz/civreg/modules/registry/infrastructure/persistence"
)

type failingReportRepository struct{ err error }

func (f failingReportRepository) Save(context.Context, uuid.UUID, []byte) error { return f.err }

func (f failingReportRepository) Load(context.Context, uuid.UUID) ([]byte, error) {
	return nil, f.err
}

func TestReportService_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reports := NewReportService(persistence.NewMemoryReportStore())
	res := Result{
		RunID:        uuid.New(),
		Kind:         record.KindAktaKelahiran,
		State:        StateReported,
		TotalRows:    3,
		ValidCount:   2,
		InvalidCount: 1,
		Invalid:      []RowIssue{{Line: 3, Reason: ReasonEmptyKey, Field: "no_akta"}},
	}
	require.NoError(t, reports.Save(ctx, res))

	got, err := reports.Get(ctx, res.RunID)
	require.NoError(t, err)
	require.Equal(t, res, got)

	_, err = reports.Get(ctx, uuid.New())
	require.ErrorIs(t, err, record.ErrReportNotFound)
}

func TestReportRecorder_SavesCompletedImports(t *testing.T) {
	t.Parallel()

	svc, bus := newTestService(persistence.NewMemoryRepository())
	reports := NewReportService(persistence.NewMemoryReportStore())
	bus.Subscribe(NewReportRecorder(reports, logrus.New()))

	res, err := svc.Import(context.Background(), record.KindAktaKelahiran, kelahiranRows(), Options{})
	require.NoError(t, err)

	got, err := reports.Get(context.Background(), res.RunID)
	require.NoError(t, err)
	require.Equal(t, res.TotalRows, got.TotalRows)
	require.Equal(t, StateReported, got.State)
}

func TestReportRecorder_LogsSaveFailure(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)

	recorder := NewReportRecorder(NewReportService(failingReportRepository{err: errors.New("store down")}), logger)
	recorder(&ImportCompletedEvent{Result: Result{RunID: uuid.New()}})

	require.Contains(t, buf.String(), "failed to save import report")
	require.Contains(t, buf.String(), "store down")
}
