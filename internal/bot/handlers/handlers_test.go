package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/arachnolog/broodkeeper/internal/action"
	"github.com/arachnolog/broodkeeper/internal/bot/keyboard"
	"github.com/arachnolog/broodkeeper/internal/conversation"
	"github.com/arachnolog/broodkeeper/internal/domain"
	apperrors "github.com/arachnolog/broodkeeper/internal/errors"
)

type fakeContext struct {
	telebot.Context

	chat   *telebot.Chat
	sender *telebot.User
	args   []string

	sent  []string
	store map[string]any
}

func newFakeContext() *fakeContext {
	return &fakeContext{
		chat:   &telebot.Chat{ID: 7},
		sender: &telebot.User{ID: 7},
		store:  make(map[string]any),
	}
}

func (c *fakeContext) Chat() *telebot.Chat   { return c.chat }
func (c *fakeContext) Sender() *telebot.User { return c.sender }
func (c *fakeContext) Args() []string        { return c.args }

func (c *fakeContext) Send(what interface{}, opts ...interface{}) error {
	c.sent = append(c.sent, fmt.Sprint(what))
	return nil
}

func (c *fakeContext) EditOrSend(what interface{}, opts ...interface{}) error {
	return c.Send(what, opts...)
}

func (c *fakeContext) Set(key string, val interface{}) { c.store[key] = val }
func (c *fakeContext) Get(key string) interface{}      { return c.store[key] }

type fakeTarantulaRepo struct {
	tarantulas []domain.Tarantula
	feedings   []domain.FeedingEvent
	molts      []domain.MoltRecord
	checks     []domain.HealthCheckRecord
	remaining  int64
	feedErr    error
}

func (f *fakeTarantulaRepo) Create(ctx context.Context, t *domain.Tarantula) (int64, error) {
	id := int64(len(f.tarantulas) + 1)
	t.ID = id
	f.tarantulas = append(f.tarantulas, *t)
	return id, nil
}

func (f *fakeTarantulaRepo) Get(ctx context.Context, ownerID, id int64) (*domain.Tarantula, error) {
	for _, t := range f.tarantulas {
		if t.ID == id && t.OwnerID == ownerID {
			out := t
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeTarantulaRepo) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Tarantula, error) {
	var out []domain.Tarantula
	for _, t := range f.tarantulas {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTarantulaRepo) ListFeedingStatuses(ctx context.Context, ownerID int64) ([]domain.FeedingStatus, error) {
	return nil, nil
}

func (f *fakeTarantulaRepo) ListHealthAlerts(ctx context.Context, ownerID int64) ([]domain.HealthAlert, error) {
	return nil, nil
}

func (f *fakeTarantulaRepo) RecordFeeding(ctx context.Context, ownerID int64, event *domain.FeedingEvent) (int64, error) {
	if f.feedErr != nil {
		return 0, f.feedErr
	}
	f.feedings = append(f.feedings, *event)
	return f.remaining, nil
}

func (f *fakeTarantulaRepo) RecordMolt(ctx context.Context, ownerID, tarantulaID int64, sizeCM float64) error {
	f.molts = append(f.molts, domain.MoltRecord{TarantulaID: tarantulaID, SizeCM: sizeCM})
	return nil
}

func (f *fakeTarantulaRepo) RecordHealthCheck(ctx context.Context, ownerID, tarantulaID, statusID int64) error {
	f.checks = append(f.checks, domain.HealthCheckRecord{TarantulaID: tarantulaID, StatusID: statusID})
	return nil
}

func (f *fakeTarantulaRepo) ListRecentFeedings(ctx context.Context, ownerID int64, limit int) ([]domain.FeedingEvent, error) {
	return f.feedings, nil
}

func (f *fakeTarantulaRepo) ListRecentMolts(ctx context.Context, ownerID int64, limit int) ([]domain.MoltRecord, error) {
	return f.molts, nil
}

func (f *fakeTarantulaRepo) ListRecentHealthChecks(ctx context.Context, ownerID int64, limit int) ([]domain.HealthCheckRecord, error) {
	return f.checks, nil
}

type fakeColonyRepo struct {
	colonies  []domain.ColonyStatus
	adjusted  map[int64]int64
	adjustErr error
}

func (f *fakeColonyRepo) Create(ctx context.Context, ownerID int64, name, sizeType string, count int64) (int64, error) {
	id := int64(len(f.colonies) + 1)
	f.colonies = append(f.colonies, domain.ColonyStatus{
		ID: id, OwnerID: ownerID, ColonyName: name, SizeType: sizeType, CurrentCount: count,
	})
	return id, nil
}

func (f *fakeColonyRepo) Get(ctx context.Context, ownerID, id int64) (*domain.ColonyStatus, error) {
	for _, col := range f.colonies {
		if col.ID == id && col.OwnerID == ownerID {
			out := col
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeColonyRepo) ListStatuses(ctx context.Context, ownerID int64) ([]domain.ColonyStatus, error) {
	var out []domain.ColonyStatus
	for _, col := range f.colonies {
		if col.OwnerID == ownerID {
			out = append(out, col)
		}
	}
	return out, nil
}

func (f *fakeColonyRepo) AdjustCount(ctx context.Context, ownerID, id, delta int64) (int64, error) {
	if f.adjustErr != nil {
		return 0, f.adjustErr
	}
	if f.adjusted == nil {
		f.adjusted = make(map[int64]int64)
	}
	f.adjusted[id] += delta
	return f.adjusted[id], nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testKeyboard() *keyboard.Builder {
	return keyboard.NewBuilder(testLogger())
}

func authedContext(userID int64) *fakeContext {
	c := newFakeContext()
	WithUser(c, &domain.User{ID: userID, TelegramID: 700 + userID})
	return c
}

func TestFeedConfirmRecordsAndReportsStock(t *testing.T) {
	repo := &fakeTarantulaRepo{remaining: 37}
	h := HandleFeedConfirm(repo, testKeyboard(), testLogger())

	c := authedContext(1)
	err := h(c, action.FeedConfirm{TarantulaID: 5, ColonyID: 2, Count: 3})
	require.NoError(t, err)

	require.Len(t, repo.feedings, 1)
	require.Equal(t, int64(5), repo.feedings[0].TarantulaID)
	require.Equal(t, int64(2), repo.feedings[0].ColonyID)
	require.Equal(t, int64(3), repo.feedings[0].CricketCount)

	require.Len(t, c.sent, 1)
	require.Contains(t, c.sent[0], "37")
}

func TestFeedConfirmRejectsNonPositiveCount(t *testing.T) {
	repo := &fakeTarantulaRepo{}
	h := HandleFeedConfirm(repo, testKeyboard(), testLogger())

	c := authedContext(1)
	err := h(c, action.FeedConfirm{TarantulaID: 5, ColonyID: 2, Count: 0})
	require.Error(t, err)
	require.Empty(t, repo.feedings)
}

func TestHealthStatusRejectsUnknownStatus(t *testing.T) {
	repo := &fakeTarantulaRepo{}
	h := HandleHealthStatus(repo, testKeyboard())

	c := authedContext(1)
	err := h(c, action.HealthStatus{TarantulaID: 5, StatusID: 42})
	require.Error(t, err)
	require.Empty(t, repo.checks)
}

func TestHealthStatusRecordsCheck(t *testing.T) {
	repo := &fakeTarantulaRepo{}
	h := HandleHealthStatus(repo, testKeyboard())

	c := authedContext(1)
	err := h(c, action.HealthStatus{TarantulaID: 5, StatusID: domain.HealthStatusMonitor})
	require.NoError(t, err)

	require.Len(t, repo.checks, 1)
	require.Equal(t, domain.HealthStatusMonitor, repo.checks[0].StatusID)
	require.Contains(t, c.sent[0], "Monitor")
}

func TestMoltSizeCompletionRecordsMolt(t *testing.T) {
	repo := &fakeTarantulaRepo{}
	h := NewMoltSizeCompletion(repo, testKeyboard(), testLogger())

	c := authedContext(1)
	p := conversation.Pending{ChatID: 7, Kind: conversation.KindMoltSize, Ref: 3}
	v := conversation.Value{Kind: conversation.KindMoltSize, Decimal: 12.5}

	require.NoError(t, h(c, p, v))
	require.Len(t, repo.molts, 1)
	require.Equal(t, int64(3), repo.molts[0].TarantulaID)
	require.Equal(t, 12.5, repo.molts[0].SizeCM)
}

func TestMoltSizeCompletionRejectsNonPositive(t *testing.T) {
	repo := &fakeTarantulaRepo{}
	h := NewMoltSizeCompletion(repo, testKeyboard(), testLogger())

	c := authedContext(1)
	p := conversation.Pending{Kind: conversation.KindMoltSize, Ref: 3}
	v := conversation.Value{Kind: conversation.KindMoltSize, Decimal: -1}

	require.Error(t, h(c, p, v))
	require.Empty(t, repo.molts)
}

func TestColonyDeltaCompletionAdjustsCount(t *testing.T) {
	repo := &fakeColonyRepo{}
	h := NewColonyDeltaCompletion(repo, testKeyboard(), testLogger())

	c := authedContext(1)
	p := conversation.Pending{Kind: conversation.KindColonyDelta, Ref: 4}
	v := conversation.Value{Kind: conversation.KindColonyDelta, Delta: -3}

	require.NoError(t, h(c, p, v))
	require.Equal(t, int64(-3), repo.adjusted[4])
}

func TestColonyDeltaCompletionRejectsZero(t *testing.T) {
	repo := &fakeColonyRepo{}
	h := NewColonyDeltaCompletion(repo, testKeyboard(), testLogger())

	c := authedContext(1)
	err := h(c, conversation.Pending{Ref: 4}, conversation.Value{Delta: 0})
	require.Error(t, err)
	require.Empty(t, repo.adjusted)
}

func TestHandlersRequireAuthenticatedUser(t *testing.T) {
	repo := &fakeTarantulaRepo{}
	h := HandleFeedConfirm(repo, testKeyboard(), testLogger())

	c := newFakeContext() // no user attached
	err := h(c, action.FeedConfirm{TarantulaID: 1, ColonyID: 1, Count: 1})
	require.Error(t, err)
}

func TestAddTarantulaParsesArgs(t *testing.T) {
	repo := &fakeTarantulaRepo{}
	h := NewAddTarantulaHandler(repo, testKeyboard(), testLogger())

	c := authedContext(1)
	c.args = []string{"Rosie", "Grammostola", "rosea"}

	require.NoError(t, h(c))
	require.Len(t, repo.tarantulas, 1)
	require.Equal(t, "Rosie", repo.tarantulas[0].Name)
	require.Equal(t, "Grammostola rosea", repo.tarantulas[0].SpeciesName)
}

func TestAddTarantulaRequiresName(t *testing.T) {
	repo := &fakeTarantulaRepo{}
	h := NewAddTarantulaHandler(repo, testKeyboard(), testLogger())

	c := authedContext(1)
	require.Error(t, h(c))
	require.Empty(t, repo.tarantulas)
}

func TestAddColonyParsesCount(t *testing.T) {
	repo := &fakeColonyRepo{}
	h := NewAddColonyHandler(repo, testKeyboard(), testLogger())

	c := authedContext(1)
	c.args = []string{"Main", "120", "large"}

	require.NoError(t, h(c))
	require.Len(t, repo.colonies, 1)
	require.Equal(t, int64(120), repo.colonies[0].CurrentCount)
	require.Equal(t, "large", repo.colonies[0].SizeType)
}

func TestMoltSimpleBeginsConversation(t *testing.T) {
	manager := conversation.NewManager(conversation.NewMemoryStorage(), testLogger())
	h := HandleMoltSimple(manager)

	c := authedContext(1)
	require.NoError(t, h(c, action.MoltSimple{TarantulaID: 3}))

	outcome, err := manager.Resolve(context.Background(), c.chat.ID, "9.5")
	require.NoError(t, err)
	require.Equal(t, conversation.StatusCompleted, outcome.Status)
	require.Equal(t, int64(3), outcome.Pending.Ref)
}

func TestStaleButtonsReportNotFound(t *testing.T) {
	t.Run("colony menu", func(t *testing.T) {
		h := HandleColonyMaintenanceMenu(&fakeColonyRepo{}, testKeyboard())

		err := h(authedContext(1), action.ColonyMaintenanceMenu{ColonyID: 99})
		requireNotFound(t, err, "colony")
	})

	t.Run("colony count update", func(t *testing.T) {
		h := HandleColonyCountUpdate(&fakeColonyRepo{adjustErr: sql.ErrNoRows}, testKeyboard())

		err := h(authedContext(1), action.ColonyCountUpdate{ColonyID: 99, Delta: 5})
		requireNotFound(t, err, "colony")
	})

	t.Run("feed confirm", func(t *testing.T) {
		h := HandleFeedConfirm(&fakeTarantulaRepo{feedErr: sql.ErrNoRows}, testKeyboard(), testLogger())

		err := h(authedContext(1), action.FeedConfirm{TarantulaID: 99, ColonyID: 1, Count: 2})
		requireNotFound(t, err, "tarantula or colony")
	})
}

// requireNotFound asserts the error carries a corrective not-found message
// instead of the generic retry-later one.
func requireNotFound(t *testing.T, err error, subject string) {
	t.Helper()

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "E110", appErr.Code)
	require.Equal(t, apperrors.SeverityLow, appErr.Severity)
	require.Contains(t, appErr.UserMessage, subject)
	require.Contains(t, appErr.UserMessage, "/menu")
}
