package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gget5897-gif/brainrot-bot/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	browseKeyPrefix     = "session:browse:"
	formKeyPrefix       = "session:form:"
	moderationKeyPrefix = "session:moderation:"
)

// Store is a domain.SessionStore backed by redis, so cursors and forms
// survive bot restarts. Every write refreshes the key's TTL.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func key(prefix string, id int64) string { return prefix + strconv.FormatInt(id, 10) }

func (s *Store) BrowsePosition(ctx context.Context, userID int64) (int, error) {
	pos, err := s.client.Get(ctx, key(browseKeyPrefix, userID)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get browse position for user %d from redis: %w", userID, err)
	}
	return pos, nil
}

func (s *Store) SetBrowsePosition(ctx context.Context, userID int64, pos int) error {
	if err := s.client.Set(ctx, key(browseKeyPrefix, userID), pos, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set browse position for user %d to redis: %w", userID, err)
	}
	return nil
}

func (s *Store) Form(ctx context.Context, userID int64) (*domain.FormState, error) {
	var f domain.FormState
	found, err := s.getJSON(ctx, key(formKeyPrefix, userID), &f)
	if err != nil || !found {
		return nil, err
	}
	return &f, nil
}

func (s *Store) SetForm(ctx context.Context, userID int64, form domain.FormState) error {
	if form.Kind == domain.FormNone {
		return s.ClearForm(ctx, userID)
	}
	return s.setJSON(ctx, key(formKeyPrefix, userID), form)
}

func (s *Store) ClearForm(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, key(formKeyPrefix, userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete form for user %d from redis: %w", userID, err)
	}
	return nil
}

func (s *Store) Moderation(ctx context.Context, adminID int64) (*domain.ModerationCursor, error) {
	var c domain.ModerationCursor
	found, err := s.getJSON(ctx, key(moderationKeyPrefix, adminID), &c)
	if err != nil || !found {
		return nil, err
	}
	return &c, nil
}

func (s *Store) SetModeration(ctx context.Context, adminID int64, cursor *domain.ModerationCursor) error {
	k := key(moderationKeyPrefix, adminID)
	if cursor == nil {
		if err := s.client.Del(ctx, k).Err(); err != nil {
			return fmt.Errorf("failed to delete moderation cursor for admin %d from redis: %w", adminID, err)
		}
		return nil
	}
	return s.setJSON(ctx, k, cursor)
}

func (s *Store) getJSON(ctx context.Context, k string, dst any) (bool, error) {
	val, err := s.client.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get %s from redis: %w", k, err)
	}
	if err := json.Unmarshal(val, dst); err != nil {
		// a corrupt entry is dropped rather than wedging the user
		_ = s.client.Del(ctx, k).Err()
		return false, nil
	}
	return true, nil
}

func (s *Store) setJSON(ctx context.Context, k string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", k, err)
	}
	if err := s.client.Set(ctx, k, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s to redis: %w", k, err)
	}
	return nil
}

// TrackedSessions counts live browse cursors with SCAN.
func (s *Store) TrackedSessions(ctx context.Context) (int, error) {
	n := 0
	iter := s.client.Scan(ctx, 0, browseKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to scan browse sessions in redis: %w", err)
	}
	return n, nil
}
