package memory

import (
	"context"
	"sync"

	"github.com/gget5897-gif/brainrot-bot/internal/domain"
)

// Store is an in-process domain.SessionStore. State is lost on restart.
type Store struct {
	mu         sync.RWMutex
	browse     map[int64]int
	forms      map[int64]domain.FormState
	moderation map[int64]domain.ModerationCursor
}

func NewStore() *Store {
	return &Store{
		browse:     make(map[int64]int),
		forms:      make(map[int64]domain.FormState),
		moderation: make(map[int64]domain.ModerationCursor),
	}
}

func (s *Store) BrowsePosition(_ context.Context, userID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.browse[userID], nil
}

func (s *Store) SetBrowsePosition(_ context.Context, userID int64, pos int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.browse[userID] = pos
	return nil
}

func (s *Store) Form(_ context.Context, userID int64) (*domain.FormState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.forms[userID]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (s *Store) SetForm(_ context.Context, userID int64, form domain.FormState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if form.Kind == domain.FormNone {
		delete(s.forms, userID)
		return nil
	}
	s.forms[userID] = form
	return nil
}

func (s *Store) ClearForm(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.forms, userID)
	return nil
}

// Moderation returns a copy; callers persist changes with SetModeration.
func (s *Store) Moderation(_ context.Context, adminID int64) (*domain.ModerationCursor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.moderation[adminID]
	if !ok {
		return nil, nil
	}
	return &domain.ModerationCursor{IDs: append([]int64(nil), c.IDs...), Index: c.Index}, nil
}

func (s *Store) SetModeration(_ context.Context, adminID int64, cursor *domain.ModerationCursor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cursor == nil {
		delete(s.moderation, adminID)
		return nil
	}
	s.moderation[adminID] = domain.ModerationCursor{IDs: append([]int64(nil), cursor.IDs...), Index: cursor.Index}
	return nil
}

// TrackedSessions counts users with a browse cursor.
func (s *Store) TrackedSessions(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.browse), nil
}
