package toolbackend

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/tanpawarit/Chative-A2A-Customer-Support/pkg/database"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

var errBrokerDown = errors.New("broker down")

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open(context.Background(), database.Config{Driver: "sqlite", DSN: ":memory:"}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db)
}

func newSeededService(t *testing.T, opts ...Option) (*Service, *Store) {
	t.Helper()
	store := newTestStore(t)
	seeded, err := Seed(context.Background(), store)
	require.NoError(t, err)
	require.True(t, seeded)
	opts = append([]Option{WithLogger(zerolog.Nop())}, opts...)
	return NewService(store, opts...), store
}

func countTickets(t *testing.T, store *Store) int {
	t.Helper()
	n, err := store.db.NewSelect().Model((*Ticket)(nil)).Count(context.Background())
	require.NoError(t, err)
	return n
}
