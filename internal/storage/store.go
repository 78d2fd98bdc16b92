package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bigtwo/internal/app"
	"bigtwo/internal/domain"
)

// ErrNotFound is returned when no snapshot exists for a match id.
var ErrNotFound = errors.New("match snapshot not found")

// Snapshot is the persisted form of a match: the full ledger plus the
// auto-pass countdown and the running series. It is written after every
// accepted move so a restarted or rejoining node can resume mid-trick.
type Snapshot struct {
	Game    *domain.Game      `json:"game"`
	Timer   app.AutoPassTimer `json:"timer"`
	Series  *domain.Series    `json:"series"`
	SavedAt time.Time         `json:"saved_at"`
}

// MatchStore persists match snapshots keyed by match id.
type MatchStore interface {
	Save(ctx context.Context, matchID string, m *app.Match) error
	Load(ctx context.Context, matchID string) (*app.Match, error)
	Delete(ctx context.Context, matchID string) error
}

const defaultTTL = 24 * time.Hour

// RedisStore keeps snapshots in Redis with a TTL so abandoned matches age
// out on their own.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore wraps a Redis client. A non-positive ttl selects the
// default of one day.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func matchKey(matchID string) string {
	return "bigtwo:match:" + matchID
}

// Save serializes the match and overwrites any previous snapshot.
func (s *RedisStore) Save(ctx context.Context, matchID string, m *app.Match) error {
	snap := Snapshot{Game: m.Game, Timer: m.Timer, Series: m.Series, SavedAt: time.Now().UTC()}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.rdb.Set(ctx, matchKey(matchID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load restores a match from its snapshot. The played-card set is rebuilt
// from its serialized list form.
func (s *RedisStore) Load(ctx context.Context, matchID string) (*app.Match, error) {
	data, err := s.rdb.Get(ctx, matchKey(matchID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snap.Game == nil {
		return nil, ErrNotFound
	}
	snap.Game.RestoreHistory()
	return &app.Match{Game: snap.Game, Timer: snap.Timer, Series: snap.Series}, nil
}

// Delete drops the snapshot, typically when a series concludes.
func (s *RedisStore) Delete(ctx context.Context, matchID string) error {
	return s.rdb.Del(ctx, matchKey(matchID)).Err()
}
