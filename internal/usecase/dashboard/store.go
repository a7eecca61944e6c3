package dashboard

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	domain "user-dashboard/internal/domain/user"
	apperrors "user-dashboard/pkg/errors"
)

// Source defines the interface for the remote user listing.
// It abstracts the transport so the store can be exercised with fakes.
type Source interface {
	ListUsers(ctx context.Context) ([]domain.User, error) // List every user in source order
}

// viewKey identifies the inputs of a derived view.
type viewKey struct {
	usersRevision uint64
	letter        Letter
	ascending     bool
}

// derivedView memoizes the last filtered and sorted rows.
type derivedView struct {
	key   viewKey
	rows  []domain.User
	valid bool
}

// Store owns the dashboard state for one mounted view. All writes go
// through apply, which recomputes the derived rows once per batch and
// notifies subscribers once per batch, in order.
type Store struct {
	source Source
	log    *zap.Logger

	mu            sync.Mutex
	state         State
	revision      uint64
	usersRevision uint64
	view          derivedView
	computations  int
	subscribers   map[uint64]func(Snapshot)
	nextID        uint64
	mounted       bool
	closed        bool
	done          chan struct{}

	// notifyMu serializes batches end to end so subscribers see
	// snapshots in revision order. Taken before mu.
	notifyMu sync.Mutex
}

// NewStore creates a store backed by the given user source.
func NewStore(source Source, log *zap.Logger) *Store {
	return &Store{
		source:      source,
		log:         log,
		state:       NewState(),
		subscribers: make(map[uint64]func(Snapshot)),
		done:        make(chan struct{}),
	}
}

// Mount runs the one-shot load. The first call marks the store as loading
// and starts the fetch in the background; it returns true together with a
// channel that is closed once the outcome has been applied. Later calls
// start nothing and return the same channel with false.
func (s *Store) Mount(ctx context.Context) (<-chan struct{}, bool) {
	s.mu.Lock()
	if s.mounted || s.closed {
		s.mu.Unlock()
		return s.done, false
	}
	s.mounted = true
	s.mu.Unlock()

	s.apply(func(st *State) {
		st.Loading = true
		st.Error = ""
	})

	go s.load(ctx)

	return s.done, true
}

// load fetches users once and applies the outcome.
func (s *Store) load(ctx context.Context) {
	defer close(s.done)

	s.log.Info("loading users")

	users, err := s.fetch(ctx)
	if err != nil {
		msg := apperrors.UserMessage(err)
		s.log.Error("failed to load users", zap.String("message", msg), zap.Error(err))
		if !s.apply(func(st *State) {
			st.Error = msg
			st.Loading = false
		}) {
			s.log.Debug("store closed, dropping load failure")
		}
		return
	}

	if !s.apply(func(st *State) {
		st.Users = users
		st.Loading = false
		s.usersRevision++
	}) {
		s.log.Debug("store closed, dropping loaded users", zap.Int("count", len(users)))
		return
	}

	s.log.Info("users loaded", zap.Int("count", len(users)))
}

// fetch calls the source, converting a panic into an error so a broken
// source cannot take the view down with it.
func (s *Store) fetch(ctx context.Context) (users []domain.User, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic recovered in user source", zap.Any("panic", r), zap.Stack("stack"))
			err = fmt.Errorf("%v", r)
		}
	}()

	users, err = s.source.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// SelectLetter sets the filter letter. Unknown letters are rejected.
func (s *Store) SelectLetter(letter Letter) error {
	if _, err := ParseLetter(string(letter)); err != nil {
		return err
	}

	s.apply(func(st *State) {
		st.FilterLetter = letter
	})
	return nil
}

// ToggleSort flips the sort direction.
func (s *Store) ToggleSort() {
	s.apply(func(st *State) {
		st.SortAscending = !st.SortAscending
	})
}

// Snapshot returns the current read model.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

// Subscribe registers fn to receive every snapshot produced from now on.
// fn runs on the goroutine that applied the change and must not write to
// the store. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return func() {}
	}

	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// Close tears the store down. Subscribers are dropped and a load that
// completes afterwards leaves the state untouched.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	clear(s.subscribers)

	if !s.mounted {
		close(s.done)
	}
}

// apply runs one batch of writes, recomputes the derived view and notifies
// subscribers. It returns false when the store has been closed.
func (s *Store) apply(mutate func(*State)) bool {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}

	mutate(&s.state)
	s.revision++
	snapshot := s.snapshotLocked()

	ids := make([]uint64, 0, len(s.subscribers))
	for id := range s.subscribers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	subscribers := make([]func(Snapshot), 0, len(ids))
	for _, id := range ids {
		subscribers = append(subscribers, s.subscribers[id])
	}
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(snapshot)
	}
	return true
}

// snapshotLocked builds the read model. Callers must hold mu.
func (s *Store) snapshotLocked() Snapshot {
	branch := s.state.Branch()
	if !s.mounted {
		branch = BranchLoading
	}

	return Snapshot{
		Revision:      s.revision,
		Branch:        branch,
		Error:         s.state.Error,
		FilterLetter:  s.state.FilterLetter,
		SortAscending: s.state.SortAscending,
		Total:         len(s.state.Users),
		Rows:          slices.Clone(s.deriveLocked()),
	}
}

// deriveLocked returns the memoized rows for the current state. Callers must hold mu.
func (s *Store) deriveLocked() []domain.User {
	key := viewKey{
		usersRevision: s.usersRevision,
		letter:        s.state.FilterLetter,
		ascending:     s.state.SortAscending,
	}
	if s.view.valid && s.view.key == key {
		return s.view.rows
	}

	s.view = derivedView{
		key:   key,
		rows:  Derive(s.state.Users, s.state.FilterLetter, s.state.SortAscending),
		valid: true,
	}
	s.computations++
	return s.view.rows
}
