package eventbus

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/civreg/pkg/logging"
)

type importDone struct {
	kind string
}

type otherEvent struct{}

func TestPublisher_NoMatchingSubscriberLogs(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetLevel(logrus.WarnLevel)

	publisher := NewEventPublisher(log)
	publisher.Subscribe(func(e *importDone) {
		t.Error("should not be called")
	})
	publisher.Publish(&otherEvent{})

	require.Contains(t, buf.String(), "eventbus.Publish: no matching subscribers")
}

func TestPublisher_Subscribe(t *testing.T) {
	publisher := NewEventPublisher(logging.ConsoleLogger(logrus.WarnLevel))
	var got string
	publisher.Subscribe(func(e *importDone) {
		got = e.kind
	})
	publisher.Publish(&importDone{kind: "ktp"})
	require.Equal(t, "ktp", got)
}

func TestPublisher_PublishE_CollectsErrorsAndPanics(t *testing.T) {
	publisher := NewEventPublisher(nil)
	boom := errors.New("boom")
	publisher.Subscribe(func(e *importDone) error { return boom })
	publisher.Subscribe(func(e *importDone) { panic("bad handler") })
	publisher.Subscribe(func(e *importDone) int { return 1 })

	err := publisher.PublishE(&importDone{})
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, err, ErrInvalidHandlerReturn)
	require.Contains(t, err.Error(), "panicked")
}

func TestPublisher_PublishE_NoSubscribers(t *testing.T) {
	publisher := NewEventPublisher(nil)
	require.ErrorIs(t, publisher.PublishE(&importDone{}), ErrNoSubscribers)
}

func TestPublisher_UnsubscribeAndClear(t *testing.T) {
	publisher := NewEventPublisher(nil)
	h := func(e *importDone) {}
	publisher.Subscribe(h)
	publisher.Subscribe(func(ctx context.Context) {})
	require.Equal(t, 2, publisher.SubscribersCount())

	publisher.Unsubscribe(h)
	require.Equal(t, 1, publisher.SubscribersCount())

	publisher.Clear()
	require.Equal(t, 0, publisher.SubscribersCount())
}

func TestPublisher_ConcurrentPublish(t *testing.T) {
	publisher := NewEventPublisher(nil)
	var mu sync.Mutex
	count := 0
	publisher.Subscribe(func(e *importDone) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			publisher.Publish(&importDone{})
		}()
	}
	wg.Wait()
	require.Equal(t, 20, count)
}

func TestMatchSignature(t *testing.T) {
	require.True(t, MatchSignature(func(e *importDone) {}, []interface{}{&importDone{}}))
	require.False(t, MatchSignature(func(e *importDone) {}, []interface{}{&otherEvent{}}))
	require.False(t, MatchSignature(func(e *importDone) {}, []interface{}{}))
	require.True(t, MatchSignature(func(ctx context.Context) {}, []interface{}{context.Background()}))
	require.True(t, MatchSignature(func(e *importDone) {}, []interface{}{nil}))
}
