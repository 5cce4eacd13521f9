package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"bandroom/internal/database"
	"bandroom/internal/model"
	"bandroom/internal/repository"

	"github.com/google/uuid"
)

// Snapshot is one consistent read of all three collections.
type Snapshot struct {
	Members      []model.Member       `json:"members"`
	Availability []model.Availability `json:"availability"`
	Rehearsals   []model.Rehearsal    `json:"rehearsals"`
}

// Store is the client-side projection of the remote collections: a
// read-mostly in-memory cache kept current by Postgres notifications. The
// database stays authoritative; the store never invents state, it only
// re-reads after a change signal.
type Store struct {
	logger *slog.Logger
	db     *database.Database
	repo   repository.Repository

	mu     sync.RWMutex
	snap   Snapshot
	subs   map[int]chan Snapshot
	nextID int
}

func New(logger *slog.Logger, db *database.Database, repo repository.Repository) *Store {
	return &Store{
		logger: logger,
		db:     db,
		repo:   repo,
		subs:   make(map[int]chan Snapshot),
	}
}

// Refresh reloads all collections from the repository and pushes the new
// snapshot to every subscriber.
func (s *Store) Refresh(ctx context.Context) error {
	members, err := s.repo.ListMembers(ctx)
	if err != nil {
		return err
	}
	availability, err := s.repo.ListAvailability(ctx)
	if err != nil {
		return err
	}
	rehearsals, err := s.repo.ListRehearsals(ctx)
	if err != nil {
		return err
	}

	// Delivery happens under the lock so a concurrent cancel cannot close a
	// channel mid-send; push never blocks, so the critical section stays
	// short.
	s.mu.Lock()
	s.snap = Snapshot{Members: members, Availability: availability, Rehearsals: rehearsals}
	for _, ch := range s.subs {
		push(ch, s.snap)
	}
	s.mu.Unlock()
	return nil
}

// push delivers without blocking; a slow subscriber keeps only the latest
// snapshot, intermediate ones are skipped.
func push(ch chan Snapshot, snap Snapshot) {
	for {
		select {
		case ch <- snap:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

// Snapshot returns the current projection.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// AvailabilityFor is the point lookup by (member, day).
func (s *Store) AvailabilityFor(memberID uuid.UUID, day string) (model.Availability, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, record := range s.snap.Availability {
		if record.MemberID == memberID && record.Day == day {
			return record, true
		}
	}
	return model.Availability{}, false
}

// Subscribe registers a snapshot stream. Each subscriber owns its own
// lifetime: the returned cancel detaches it without affecting the others.
// The current snapshot is delivered immediately.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	ch <- s.snap
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			// Close under the same lock that guards delivery: once the
			// entry is gone and the lock released, no Refresh can be
			// holding a reference to this channel.
			s.mu.Lock()
			delete(s.subs, id)
			close(ch)
			s.mu.Unlock()
		})
	}
	return ch, cancel
}

// Listen is the notification loop, run as a supervised daemon. It holds a
// dedicated connection subscribed to the collection channels and refreshes
// the projection on every notification. Returning an error hands control
// back to the supervisor, which restarts the loop.
func (s *Store) Listen(ctx context.Context, name string) error {
	conn, err := s.db.Listen(ctx,
		database.ChannelMembers,
		database.ChannelAvailability,
		database.ChannelRehearsals,
	)
	if err != nil {
		return err
	}
	defer conn.Release()

	if err := s.Refresh(ctx); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Change listener started", "daemon", name)

	for {
		channel, err := database.WaitForNotification(ctx, conn)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			return err
		}

		if err := s.Refresh(ctx); err != nil {
			s.logger.ErrorContext(ctx, "Failed to refresh projection", "channel", channel, "error", err)
		}
	}
}
