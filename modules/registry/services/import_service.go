package services

import (
	"context"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/civreg/modules/registry/domain/record"
	"github.com/iota-uz/civreg/pkg/composables"
	"github.com/iota-uz/civreg/pkg/eventbus"
)

var (
	ErrLookupFailed = gerrors.New("existing record lookup failed")
	ErrUpsertFailed = gerrors.New("batch upsert failed")
)

type Config struct {
	LookupChunkSize   int
	LookupConcurrency int
	// Zero leaves the upsert bound only by the caller's context.
	UpsertTimeout      time.Duration
	SampleHeadersLimit int
}

func DefaultConfig() Config {
	return Config{
		LookupChunkSize:    1000,
		LookupConcurrency:  4,
		UpsertTimeout:      2 * time.Minute,
		SampleHeadersLimit: 50,
	}
}

type Options struct {
	// DryRun runs every stage including the lookup and merge but skips the upsert.
	DryRun bool
	Actor  string
}

type ImportService struct {
	repo      record.Repository
	publisher eventbus.EventBus
	cfg       Config
}

func NewImportService(repo record.Repository, publisher eventbus.EventBus, cfg Config) *ImportService {
	def := DefaultConfig()
	if cfg.LookupChunkSize <= 0 {
		cfg.LookupChunkSize = def.LookupChunkSize
	}
	if cfg.LookupConcurrency <= 0 {
		cfg.LookupConcurrency = def.LookupConcurrency
	}
	if cfg.SampleHeadersLimit <= 0 {
		cfg.SampleHeadersLimit = def.SampleHeadersLimit
	}
	return &ImportService{repo: repo, publisher: publisher, cfg: cfg}
}

// Import reconciles one spreadsheet of the given kind against the store. Row-level problems
// are counted in the result; only store failures are returned as errors, in which case no
// result is produced.
func (s *ImportService) Import(ctx context.Context, kind record.Kind, rows []record.RawRow, opts Options) (Result, error) {
	schema, err := record.Lookup(kind)
	if err != nil {
		return Result{}, err
	}

	started := time.Now()
	rep := newReport(uuid.New(), kind, opts.DryRun)
	logger := composables.UseLogger(ctx).WithFields(logrus.Fields{
		"kind":    string(kind),
		"run_id":  rep.res.RunID.String(),
		"dry_run": opts.DryRun,
	})

	res, err := s.run(ctx, schema, rows, rep, logger)
	elapsed := time.Since(started)
	if err != nil {
		rep.transition(StateFailed)
		getMetrics().observe(rep.res, elapsed.Seconds())
		logger.WithError(err).WithField("state", StateFailed).Error("import failed")
		return Result{}, err
	}

	getMetrics().observe(res, elapsed.Seconds())
	logger.WithFields(logrus.Fields{
		"state":                     res.State,
		"total_rows":                res.TotalRows,
		"valid_count":               res.ValidCount,
		"invalid_count":             res.InvalidCount,
		"duplicate_count":           res.DuplicateCount,
		"existing_count":            res.ExistingCount,
		"inserted_or_updated_count": res.InsertedOrUpdatedCount,
		"elapsed":                   elapsed.String(),
	}).Info("import reported")

	if s.publisher != nil {
		s.publisher.Publish(&ImportCompletedEvent{Result: res, Actor: opts.Actor, CompletedAt: time.Now()})
	}
	return res, nil
}

func (s *ImportService) run(
	ctx context.Context,
	schema record.Schema,
	rows []record.RawRow,
	rep *report,
	logger *logrus.Entry,
) (Result, error) {
	rep.res.TotalRows = len(rows)

	rep.transition(StateValidating)
	valid := make([]record.Record, 0, len(rows))
	for i, raw := range rows {
		row := NormalizeRow(raw)
		rep.observeHeaders(row)
		line, ok := raw.SourceLine()
		if !ok {
			// Header on line 1, data from line 2.
			line = i + 2
		}
		rec := ResolveRecord(schema, row, line)
		if err := Validate(schema, rec); err != nil {
			var verr *ValidationError
			if gerrors.As(err, &verr) {
				rep.reject(rec.Line(), verr)
				continue
			}
			return Result{}, err
		}
		valid = append(valid, rec)
	}
	rep.res.ValidCount = len(valid)
	logger.WithFields(logrus.Fields{
		"state":         StateValidating,
		"valid_count":   rep.res.ValidCount,
		"invalid_count": rep.res.InvalidCount,
	}).Debug("rows validated")

	if len(valid) == 0 {
		return rep.emptyResult(s.cfg.SampleHeadersLimit), nil
	}

	rep.transition(StateDeduplicating)
	unique, dupKeys := Deduplicate(valid)
	rep.duplicates(len(valid), len(unique), dupKeys)
	logger.WithFields(logrus.Fields{
		"state":           StateDeduplicating,
		"unique_count":    len(unique),
		"duplicate_count": rep.res.DuplicateCount,
	}).Debug("rows deduplicated")

	if len(unique) == 0 {
		return rep.emptyResult(s.cfg.SampleHeadersLimit), nil
	}

	rep.transition(StateMerging)
	keys := make([]string, len(unique))
	for i, rec := range unique {
		keys[i] = rec.Key()
	}
	index, err := BuildExistingIndex(ctx, s.repo, schema, keys, s.cfg.LookupChunkSize, s.cfg.LookupConcurrency)
	if err != nil {
		return Result{}, gerrors.Join(ErrLookupFailed, gerrors.Wrapf(err, "lookup %s", schema.Table))
	}
	rep.res.ExistingCount = MergeProtected(schema, unique, index)
	logger.WithFields(logrus.Fields{
		"state":          StateMerging,
		"existing_count": rep.res.ExistingCount,
	}).Debug("protected fields merged")

	if rep.res.DryRun {
		return rep.finish(), nil
	}

	rep.transition(StatePersisting)
	upsertCtx := ctx
	if s.cfg.UpsertTimeout > 0 {
		var cancel context.CancelFunc
		upsertCtx, cancel = context.WithTimeout(ctx, s.cfg.UpsertTimeout)
		defer cancel()
	}
	affected, err := s.repo.Upsert(upsertCtx, schema, unique)
	if err != nil {
		return Result{}, gerrors.Join(ErrUpsertFailed, gerrors.Wrapf(err, "upsert %s", schema.Table))
	}
	rep.res.InsertedOrUpdatedCount = affected
	return rep.finish(), nil
}
