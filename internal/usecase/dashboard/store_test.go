package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "user-dashboard/internal/domain/user"
	apperrors "user-dashboard/pkg/errors"
)

// MockSource is a mock implementation of the Source interface
type MockSource struct {
	mock.Mock
}

func (m *MockSource) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

// gatedSource blocks ListUsers until release is closed.
type gatedSource struct {
	release chan struct{}
	users   []domain.User
}

func (g *gatedSource) ListUsers(ctx context.Context) ([]domain.User, error) {
	<-g.release
	return g.users, nil
}

// panicSource panics from ListUsers.
type panicSource struct{}

func (panicSource) ListUsers(ctx context.Context) ([]domain.User, error) {
	panic("source exploded")
}

// recorder collects snapshots delivered to a subscriber.
type recorder struct {
	mu        sync.Mutex
	snapshots []Snapshot
}

func (r *recorder) record(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, s)
}

func (r *recorder) all() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Snapshot(nil), r.snapshots...)
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("load did not complete")
	}
}

func twoUsers() []domain.User {
	return []domain.User{
		{ID: 1, Name: "Chelsey Dietrich", Email: "Lucio_Hettinger@annie.ca", Company: domain.Company{Name: "Keebler LLC"}, Address: domain.Address{City: "Roscoeview"}},
		{ID: 2, Name: "Aaron Smith", Email: "aaron@example.com", Company: domain.Company{Name: "Acme"}, Address: domain.Address{City: "Springfield"}},
	}
}

func setupTestStore(t *testing.T) (*Store, *MockSource) {
	source := new(MockSource)
	store := NewStore(source, zaptest.NewLogger(t))
	t.Cleanup(store.Close)
	return store, source
}

func TestStore_InitialSnapshot(t *testing.T) {
	store, _ := setupTestStore(t)

	snap := store.Snapshot()

	assert.Equal(t, BranchLoading, snap.Branch)
	assert.Equal(t, LetterAll, snap.FilterLetter)
	assert.True(t, snap.SortAscending)
	assert.Empty(t, snap.Rows)
	assert.Empty(t, snap.Error)
}

func TestStore_Mount_Success(t *testing.T) {
	store, source := setupTestStore(t)
	source.On("ListUsers", mock.Anything).Return(twoUsers(), nil).Once()

	done, started := store.Mount(context.Background())
	require.True(t, started)
	waitDone(t, done)

	snap := store.Snapshot()
	assert.Equal(t, BranchReady, snap.Branch)
	assert.Equal(t, 2, snap.Total)
	assert.Equal(t, []string{"Aaron Smith", "Chelsey Dietrich"}, names(snap.Rows))
	source.AssertExpectations(t)
}

func TestStore_Mount_RunsOnce(t *testing.T) {
	store, source := setupTestStore(t)
	source.On("ListUsers", mock.Anything).Return(twoUsers(), nil).Once()

	done, started := store.Mount(context.Background())
	require.True(t, started)
	waitDone(t, done)

	again, startedAgain := store.Mount(context.Background())
	assert.False(t, startedAgain)
	waitDone(t, again)

	require.NoError(t, store.SelectLetter(LetterC))
	store.ToggleSort()

	source.AssertNumberOfCalls(t, "ListUsers", 1)
}

func TestStore_Mount_Failure(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{name: "network", err: apperrors.NewNetworkError("http://users", errors.New("connection refused")), message: apperrors.MsgNetworkFailure},
		{name: "bad status", err: apperrors.NewBadStatusError("http://users", 500), message: "Failed to fetch users."},
		{name: "malformed", err: apperrors.NewMalformedPayloadError("expected a JSON array", nil), message: "Invalid user data: expected a JSON array"},
		{name: "other", err: errors.New("something odd"), message: "something odd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, source := setupTestStore(t)
			source.On("ListUsers", mock.Anything).Return(nil, tt.err).Once()

			done, _ := store.Mount(context.Background())
			waitDone(t, done)

			snap := store.Snapshot()
			assert.Equal(t, BranchError, snap.Branch)
			assert.Equal(t, tt.message, snap.Error)
			assert.Empty(t, snap.Rows)
			assert.Zero(t, snap.Total)
		})
	}
}

func TestStore_Mount_PanicBecomesError(t *testing.T) {
	store := NewStore(panicSource{}, zaptest.NewLogger(t))
	defer store.Close()

	done, _ := store.Mount(context.Background())
	waitDone(t, done)

	snap := store.Snapshot()
	assert.Equal(t, BranchError, snap.Branch)
	assert.Equal(t, "source exploded", snap.Error)
}

func TestStore_LoadingWhileFetchOutstanding(t *testing.T) {
	source := &gatedSource{release: make(chan struct{}), users: twoUsers()}
	store := NewStore(source, zaptest.NewLogger(t))
	defer store.Close()

	done, _ := store.Mount(context.Background())

	snap := store.Snapshot()
	assert.Equal(t, BranchLoading, snap.Branch)
	assert.Empty(t, snap.Error)

	// Controls may change while loading without affecting the branch.
	store.ToggleSort()
	assert.Equal(t, BranchLoading, store.Snapshot().Branch)

	close(source.release)
	waitDone(t, done)

	snap = store.Snapshot()
	assert.Equal(t, BranchReady, snap.Branch)
	assert.Equal(t, []string{"Chelsey Dietrich", "Aaron Smith"}, names(snap.Rows))
}

func TestStore_LateCompletionAfterCloseIsNoop(t *testing.T) {
	source := &gatedSource{release: make(chan struct{}), users: twoUsers()}
	store := NewStore(source, zaptest.NewLogger(t))

	rec := &recorder{}
	store.Subscribe(rec.record)

	done, _ := store.Mount(context.Background())
	require.Len(t, rec.all(), 1)
	before := store.Snapshot()

	store.Close()
	close(source.release)
	waitDone(t, done)

	after := store.Snapshot()
	assert.Equal(t, before, after)
	assert.Equal(t, BranchLoading, after.Branch)
	assert.Len(t, rec.all(), 1)
}

func TestStore_CloseBeforeMount(t *testing.T) {
	store, source := setupTestStore(t)
	store.Close()

	done, started := store.Mount(context.Background())

	assert.False(t, started)
	waitDone(t, done)
	source.AssertNotCalled(t, "ListUsers", mock.Anything)
}

func TestStore_Scenarios(t *testing.T) {
	store, source := setupTestStore(t)
	source.On("ListUsers", mock.Anything).Return(twoUsers(), nil).Once()

	done, _ := store.Mount(context.Background())
	waitDone(t, done)

	assert.Equal(t, []string{"Aaron Smith", "Chelsey Dietrich"}, names(store.Snapshot().Rows))

	require.NoError(t, store.SelectLetter(LetterC))
	assert.Equal(t, []string{"Chelsey Dietrich"}, names(store.Snapshot().Rows))

	require.NoError(t, store.SelectLetter(LetterAll))
	store.ToggleSort()
	snap := store.Snapshot()
	assert.False(t, snap.SortAscending)
	assert.Equal(t, []string{"Chelsey Dietrich", "Aaron Smith"}, names(snap.Rows))

	store.ToggleSort()
	assert.Equal(t, []string{"Aaron Smith", "Chelsey Dietrich"}, names(store.Snapshot().Rows))
}

func TestStore_EmptySource(t *testing.T) {
	store, source := setupTestStore(t)
	source.On("ListUsers", mock.Anything).Return([]domain.User{}, nil).Once()

	done, _ := store.Mount(context.Background())
	waitDone(t, done)

	snap := store.Snapshot()
	assert.Equal(t, BranchReady, snap.Branch)
	assert.True(t, snap.Empty())
}

func TestStore_SelectLetter_Invalid(t *testing.T) {
	store, _ := setupTestStore(t)
	rec := &recorder{}
	store.Subscribe(rec.record)

	err := store.SelectLetter(Letter("E"))

	assert.Error(t, err)
	assert.Equal(t, LetterAll, store.Snapshot().FilterLetter)
	assert.Empty(t, rec.all())
}

func TestStore_OneNotificationPerBatch(t *testing.T) {
	store, source := setupTestStore(t)
	source.On("ListUsers", mock.Anything).Return(twoUsers(), nil).Once()

	rec := &recorder{}
	store.Subscribe(rec.record)

	done, _ := store.Mount(context.Background())
	waitDone(t, done)
	store.ToggleSort()
	require.NoError(t, store.SelectLetter(LetterA))

	snapshots := rec.all()
	require.Len(t, snapshots, 4)
	assert.Equal(t, BranchLoading, snapshots[0].Branch)
	assert.Equal(t, BranchReady, snapshots[1].Branch)
	assert.False(t, snapshots[2].SortAscending)
	assert.Equal(t, LetterA, snapshots[3].FilterLetter)
	assert.Equal(t, []string{"Aaron Smith"}, names(snapshots[3].Rows))

	for i := 1; i < len(snapshots); i++ {
		assert.Greater(t, snapshots[i].Revision, snapshots[i-1].Revision)
	}
}

func TestStore_Unsubscribe(t *testing.T) {
	store, _ := setupTestStore(t)
	rec := &recorder{}
	cancel := store.Subscribe(rec.record)

	store.ToggleSort()
	cancel()
	store.ToggleSort()

	assert.Len(t, rec.all(), 1)
}

func TestStore_SubscriberMayReadSnapshot(t *testing.T) {
	store, _ := setupTestStore(t)
	var seen Snapshot
	store.Subscribe(func(Snapshot) {
		seen = store.Snapshot()
	})

	store.ToggleSort()

	assert.False(t, seen.SortAscending)
}

func TestStore_MemoizesDerivedView(t *testing.T) {
	store, source := setupTestStore(t)
	source.On("ListUsers", mock.Anything).Return(twoUsers(), nil).Once()

	done, _ := store.Mount(context.Background())
	waitDone(t, done)

	base := store.computations
	_ = store.Snapshot()
	_ = store.Snapshot()
	assert.Equal(t, base, store.computations)

	// Re-selecting the active letter recomputes nothing.
	require.NoError(t, store.SelectLetter(LetterAll))
	assert.Equal(t, base, store.computations)

	store.ToggleSort()
	assert.Equal(t, base+1, store.computations)
}

func TestStore_SnapshotRowsAreCopies(t *testing.T) {
	store, source := setupTestStore(t)
	source.On("ListUsers", mock.Anything).Return(twoUsers(), nil).Once()

	done, _ := store.Mount(context.Background())
	waitDone(t, done)

	snap := store.Snapshot()
	snap.Rows[0].Name = "Mallory"

	assert.Equal(t, "Aaron Smith", store.Snapshot().Rows[0].Name)
}
