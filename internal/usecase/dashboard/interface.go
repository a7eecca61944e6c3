package dashboard

import "context"

// Dashboard defines the operations presenters use on the dashboard state.
type Dashboard interface {
	Mount(ctx context.Context) (<-chan struct{}, bool)
	Snapshot() Snapshot
	SelectLetter(letter Letter) error
	ToggleSort()
	Subscribe(fn func(Snapshot)) func()
}

var _ Dashboard = (*Store)(nil)
