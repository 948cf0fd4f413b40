package persistence

import (
	"context"
	"errors"
	"sync"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/iota-uz/civreg/modules/registry/domain/record"
)

const reportKeyPrefix = "registry:import:reports:"

type MemoryReportStore struct {
	mu      sync.RWMutex
	reports map[uuid.UUID][]byte
}

func NewMemoryReportStore() *MemoryReportStore {
	return &MemoryReportStore{reports: map[uuid.UUID][]byte{}}
}

func (s *MemoryReportStore) Save(ctx context.Context, runID uuid.UUID, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[runID] = append([]byte(nil), payload...)
	return nil
}

func (s *MemoryReportStore) Load(ctx context.Context, runID uuid.UUID) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.reports[runID]
	if !ok {
		return nil, record.ErrReportNotFound
	}
	return append([]byte(nil), payload...), nil
}

// RedisReportStore keeps each report under its own key. A zero TTL keeps reports until
// they are evicted.
type RedisReportStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisReportStore(client *redis.Client, ttl time.Duration) *RedisReportStore {
	return &RedisReportStore{client: client, ttl: ttl}
}

func reportKey(runID uuid.UUID) string {
	return reportKeyPrefix + runID.String()
}

func (s *RedisReportStore) Save(ctx context.Context, runID uuid.UUID, payload []byte) error {
	if err := s.client.Set(ctx, reportKey(runID), payload, s.ttl).Err(); err != nil {
		return gerrors.Wrapf(err, "save import report %s", runID)
	}
	return nil
}

func (s *RedisReportStore) Load(ctx context.Context, runID uuid.UUID) ([]byte, error) {
	payload, err := s.client.Get(ctx, reportKey(runID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, record.ErrReportNotFound
	}
	if err != nil {
		return nil, gerrors.Wrapf(err, "load import report %s", runID)
	}
	return payload, nil
}
