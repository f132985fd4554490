package sendlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Exists(ctx context.Context, entityType, key string) (bool, error) {
	args := m.Called(ctx, entityType, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) Insert(ctx context.Context, entry Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockRepository) Update(ctx context.Context, entry Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockRepository) List(ctx context.Context, entityType string, limit int, afterKey string) ([]Entry, error) {
	args := m.Called(ctx, entityType, limit, afterKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Entry), args.Error(1)
}

var sentAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestTracker_Upsert(t *testing.T) {
	ctx := context.Background()
	entry := Entry{EntityType: "vendor", EntityKey: "V1", LastSentAt: sentAt}

	tests := []struct {
		name  string
		setup func(m *MockRepository)
	}{
		{
			name: "inserts when absent",
			setup: func(m *MockRepository) {
				m.On("Exists", ctx, "vendor", "V1").Return(false, nil)
				m.On("Insert", ctx, entry).Return(nil)
			},
		},
		{
			name: "updates when present",
			setup: func(m *MockRepository) {
				m.On("Exists", ctx, "vendor", "V1").Return(true, nil)
				m.On("Update", ctx, entry).Return(nil)
			},
		},
		{
			name: "lost insert race falls back to update",
			setup: func(m *MockRepository) {
				m.On("Exists", ctx, "vendor", "V1").Return(false, nil)
				m.On("Insert", ctx, entry).Return(ErrDuplicate)
				m.On("Update", ctx, entry).Return(nil)
			},
		},
		{
			name: "entry removed between check and update",
			setup: func(m *MockRepository) {
				m.On("Exists", ctx, "vendor", "V1").Return(true, nil)
				m.On("Update", ctx, entry).Return(ErrNotFound).Once()
				m.On("Insert", ctx, entry).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			tt.setup(repo)
			tracker := NewTracker(repo, "vendor", slog.Default())

			ok, err := tracker.Upsert(ctx, "V1", sentAt)
			require.NoError(t, err)
			assert.True(t, ok)
			repo.AssertExpectations(t)
		})
	}
}

func TestTracker_UpsertStoreError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("Exists", ctx, "invoice", "I1").Return(false, nil)
	repo.On("Insert", ctx, mock.Anything).Return(errors.New("connection reset"))

	tracker := NewTracker(repo, "invoice", slog.Default())
	ok, err := tracker.Upsert(ctx, "I1", sentAt)

	assert.Error(t, err)
	assert.False(t, ok)
}

func TestTracker_Exists(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("Exists", ctx, "purchase_order", "PO1").Return(true, nil)
	repo.On("Exists", ctx, "purchase_order", "PO2").Return(false, nil)

	tracker := NewTracker(repo, "purchase_order", slog.Default())

	ok, err := tracker.Exists(ctx, "PO1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tracker.Exists(ctx, "PO2")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = tracker.Exists(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestTracker_UpsertConvertsToUTC(t *testing.T) {
	ctx := context.Background()
	local := time.Date(2024, 3, 1, 15, 0, 0, 0, time.FixedZone("MSK", 3*3600))

	repo := new(MockRepository)
	repo.On("Exists", ctx, "vendor", "V1").Return(false, nil)
	repo.On("Insert", ctx, mock.MatchedBy(func(e Entry) bool {
		return e.LastSentAt.Equal(sentAt) && e.LastSentAt.Location() == time.UTC
	})).Return(nil)

	tracker := NewTracker(repo, "vendor", slog.Default())
	_, err := tracker.Upsert(ctx, "V1", local)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestTracker_List(t *testing.T) {
	ctx := context.Background()
	entries := []Entry{{EntityType: "vendor", EntityKey: "A"}, {EntityType: "vendor", EntityKey: "B"}}

	repo := new(MockRepository)
	repo.On("List", ctx, "vendor", 2, "").Return(entries, nil)

	tracker := NewTracker(repo, "vendor", slog.Default())
	got, err := tracker.List(ctx, 2, "")
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}
