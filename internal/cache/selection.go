// Package cache holds the Redis-backed per-admin state: license selection sets and the
// cached dashboard summary.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/backoffice-service/internal/persistence"
)

// SelectionTTL bounds how long an idle selection survives in Redis.
const SelectionTTL = 24 * time.Hour

// SelectionStore tracks the set of license ids an admin has ticked. Members are
// returned in the order they were added.
type SelectionStore interface {
	// Toggle adds id when absent and removes it when present, reporting whether it is
	// now selected.
	Toggle(ctx context.Context, owner, id string) (bool, error)
	Members(ctx context.Context, owner string) ([]string, error)
	Clear(ctx context.Context, owner string) error
}

// toggleScript keeps the membership test and mutation atomic. Scores come from a per-owner
// counter (KEYS[2]) so ZRANGE yields selection order across API instances.
var toggleScript = redis.NewScript(`
if redis.call('ZSCORE', KEYS[1], ARGV[1]) then
  redis.call('ZREM', KEYS[1], ARGV[1])
  return 0
end
local seq = redis.call('INCR', KEYS[2])
redis.call('ZADD', KEYS[1], seq, ARGV[1])
redis.call('EXPIRE', KEYS[1], ARGV[2])
redis.call('EXPIRE', KEYS[2], ARGV[2])
return 1
`)

// RedisSelectionStore keeps one sorted set per admin.
type RedisSelectionStore struct {
	redis *persistence.Redis
}

// NewRedisSelectionStore builds a store on the shared client.
func NewRedisSelectionStore(r *persistence.Redis) *RedisSelectionStore {
	return &RedisSelectionStore{redis: r}
}

func (s *RedisSelectionStore) key(owner string) string {
	return s.redis.Key("selection", "licenses", owner)
}

func (s *RedisSelectionStore) seqKey(owner string) string {
	return s.redis.Key("selection", "seq", owner)
}

func (s *RedisSelectionStore) Toggle(ctx context.Context, owner, id string) (bool, error) {
	added, err := toggleScript.Run(ctx, s.redis.Client,
		[]string{s.key(owner), s.seqKey(owner)},
		id, int(SelectionTTL.Seconds()),
	).Int()
	if err != nil {
		return false, err
	}
	return added == 1, nil
}

func (s *RedisSelectionStore) Members(ctx context.Context, owner string) ([]string, error) {
	members, err := s.redis.Client.ZRange(ctx, s.key(owner), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if members == nil {
		members = []string{}
	}
	return members, nil
}

func (s *RedisSelectionStore) Clear(ctx context.Context, owner string) error {
	return s.redis.Client.Del(ctx, s.key(owner), s.seqKey(owner)).Err()
}

// MemorySelectionStore is the single-process fallback used when Redis is not wired.
type MemorySelectionStore struct {
	mu   sync.Mutex
	sets map[string][]string
}

// NewMemorySelectionStore returns an empty store.
func NewMemorySelectionStore() *MemorySelectionStore {
	return &MemorySelectionStore{sets: make(map[string][]string)}
}

func (s *MemorySelectionStore) Toggle(_ context.Context, owner, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.sets[owner]
	for i, existing := range ids {
		if existing == id {
			s.sets[owner] = append(ids[:i:i], ids[i+1:]...)
			return false, nil
		}
	}
	s.sets[owner] = append(ids, strings.Clone(id))
	return true, nil
}

func (s *MemorySelectionStore) Members(_ context.Context, owner string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.sets[owner]...), nil
}

func (s *MemorySelectionStore) Clear(_ context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets, owner)
	return nil
}
