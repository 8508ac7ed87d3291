package skiplist

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Checker reports whether an event has been excluded by operations.
type Checker interface {
	Contains(ctx context.Context, eventID uuid.UUID) (bool, error)
}

// Static is a fixed set of event ids, read from config at startup.
type Static map[uuid.UUID]struct{}

func NewStatic(ids []string) (Static, error) {
	s := make(Static, len(ids))
	for _, raw := range ids {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("skiplist: invalid event id %q: %w", raw, err)
		}
		s[id] = struct{}{}
	}
	return s, nil
}

func (s Static) Contains(_ context.Context, eventID uuid.UUID) (bool, error) {
	_, ok := s[eventID]
	return ok, nil
}

type setMembership interface {
	SIsMember(ctx context.Context, key string, member interface{}) *redis.BoolCmd
}

// Redis looks event ids up in a redis set, so ids can be added without a
// redeploy: SADD <key> <eventId>.
type Redis struct {
	client setMembership
	key    string
}

func NewRedis(client setMembership, key string) *Redis {
	return &Redis{client: client, key: key}
}

func (r *Redis) Contains(ctx context.Context, eventID uuid.UUID) (bool, error) {
	found, err := r.client.SIsMember(ctx, r.key, eventID.String()).Result()
	if err != nil {
		return false, fmt.Errorf("skiplist: redis lookup: %w", err)
	}
	return found, nil
}

// Chain checks each checker in order and stops at the first hit.
type Chain []Checker

func (c Chain) Contains(ctx context.Context, eventID uuid.UUID) (bool, error) {
	for _, checker := range c {
		found, err := checker.Contains(ctx, eventID)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}
