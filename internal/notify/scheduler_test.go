package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arachnolog/broodkeeper/internal/domain"
)

type fakeRepo struct {
	mu    sync.Mutex
	items map[domain.AlertCategory][]domain.AlertItem
	err   error
	calls int
}

func (r *fakeRepo) ListDueAlerts(ctx context.Context, category domain.AlertCategory) ([]domain.AlertItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.items[category], nil
}

type delivery struct {
	chatID int64
	text   string
}

type fakeSender struct {
	mu      sync.Mutex
	failFor map[int64]error
	sent    []delivery
}

func (s *fakeSender) Send(ctx context.Context, chatID int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.failFor[chatID]; ok {
		return err
	}
	s.sent = append(s.sent, delivery{chatID: chatID, text: text})
	return nil
}

func (s *fakeSender) deliveries() []delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]delivery(nil), s.sent...)
}

func feedingItems() []domain.AlertItem {
	return []domain.AlertItem{
		{EntityID: 1, Name: "Rosie", Detail: "Never fed"},
		{EntityID: 2, Name: "Aragog", Detail: "Overdue", Quantity: 12},
		{EntityID: 3, Name: "Charlotte", Detail: "Due", Quantity: 8},
	}
}

func TestScheduler_TickFansOutToAllRecipients(t *testing.T) {
	ctx := context.Background()

	registry := NewRegistry(ctx, nil, testLogger())
	registry.Register(ctx, 1, 100)
	registry.Register(ctx, 2, 200)

	repo := &fakeRepo{items: map[domain.AlertCategory][]domain.AlertItem{
		domain.CategoryFeeding: feedingItems(),
	}}
	sender := &fakeSender{}

	s := NewScheduler(registry, repo, sender, Config{}, testLogger())
	s.tick(ctx, domain.CategoryFeeding)

	sent := sender.deliveries()
	require.Len(t, sent, 2)
	assert.Equal(t, 1, repo.calls, "alert set must be computed once per tick")
	assert.Equal(t, sent[0].text, sent[1].text, "every recipient gets the same rendered payload")
	assert.Contains(t, sent[0].text, "Rosie")
	assert.Contains(t, sent[0].text, "Aragog")
	assert.Contains(t, sent[0].text, "Charlotte")
}

func TestScheduler_DeliveryFailureDoesNotAbortFanOut(t *testing.T) {
	ctx := context.Background()

	registry := NewRegistry(ctx, nil, testLogger())
	registry.Register(ctx, 1, 100)
	registry.Register(ctx, 2, 200)

	repo := &fakeRepo{items: map[domain.AlertCategory][]domain.AlertItem{
		domain.CategoryFeeding: feedingItems(),
	}}
	sender := &fakeSender{failFor: map[int64]error{100: errors.New("blocked by user")}}

	s := NewScheduler(registry, repo, sender, Config{}, testLogger())
	s.tick(ctx, domain.CategoryFeeding)

	sent := sender.deliveries()
	require.Len(t, sent, 1)
	assert.Equal(t, int64(200), sent[0].chatID)
}

func TestScheduler_QueryFailureSkipsTick(t *testing.T) {
	ctx := context.Background()

	registry := NewRegistry(ctx, nil, testLogger())
	registry.Register(ctx, 1, 100)

	repo := &fakeRepo{err: errors.New("db down")}
	sender := &fakeSender{}

	s := NewScheduler(registry, repo, sender, Config{}, testLogger())
	s.tick(ctx, domain.CategoryFeeding)

	assert.Empty(t, sender.deliveries())
}

func TestScheduler_EmptyAlertSetSendsNothing(t *testing.T) {
	ctx := context.Background()

	registry := NewRegistry(ctx, nil, testLogger())
	registry.Register(ctx, 1, 100)

	s := NewScheduler(registry, &fakeRepo{}, &fakeSender{}, Config{}, testLogger())
	s.tick(ctx, domain.CategoryHealth)
}

type panickyRepo struct{}

func (panickyRepo) ListDueAlerts(context.Context, domain.AlertCategory) ([]domain.AlertItem, error) {
	panic("boom")
}

func TestScheduler_RunGuardedRecoversPanic(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := NewRegistry(ctx, nil, testLogger())
	registry.Register(ctx, 1, 100)

	s := NewScheduler(registry, panickyRepo{}, &fakeSender{}, Config{
		FeedingInterval: 5 * time.Millisecond,
	}, testLogger())

	done := make(chan error, 1)
	go func() {
		done <- s.runGuarded(ctx, domain.CategoryFeeding, 5*time.Millisecond)
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "panic")
	case <-time.After(time.Second):
		t.Fatal("runGuarded did not surface the panic")
	}
}

func TestScheduler_StartAndShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	registry := NewRegistry(ctx, nil, testLogger())
	registry.Register(ctx, 1, 100)

	repo := &fakeRepo{items: map[domain.AlertCategory][]domain.AlertItem{
		domain.CategoryHealth: {{EntityID: 5, Name: "Rosie", Detail: "Critical"}},
	}}
	sender := &fakeSender{}

	s := NewScheduler(registry, repo, sender, Config{
		FeedingInterval: 10 * time.Millisecond,
		HealthInterval:  10 * time.Millisecond,
		ColonyInterval:  10 * time.Millisecond,
	}, testLogger())

	s.Start(ctx)
	time.Sleep(60 * time.Millisecond)
	cancel()
	s.Wait()

	require.NotEmpty(t, sender.deliveries())
	for _, sent := range sender.deliveries() {
		assert.Contains(t, sent.text, "Rosie")
	}
}
