package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Occupancy mirrors the active session holding a station. The entry's
// TTL matches the session deadline so wedged entries age out on their
// own; Postgres remains the source of truth.
type Occupancy struct {
	SessionID int64     `json:"session_id"`
	Code      string    `json:"code"`
	StationID int64     `json:"station_id"`
	UserID    int64     `json:"user_id"`
	StartedAt time.Time `json:"started_at"`
	Deadline  time.Time `json:"deadline"`
}

// Store caches one occupancy record per station.
type Store struct {
	client *redis.Client
}

// NewStore returns a redis-backed store.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) key(stationID int64) string {
	return fmt.Sprintf("charging:occupied:%d", stationID)
}

// Save caches the occupancy until its deadline.
func (s *Store) Save(ctx context.Context, occ Occupancy) error {
	data, err := json.Marshal(occ)
	if err != nil {
		return err
	}
	ttl := time.Until(occ.Deadline)
	if ttl <= 0 {
		ttl = time.Minute
	}
	return s.client.Set(ctx, s.key(occ.StationID), data, ttl).Err()
}

// Get returns the cached occupancy for a station, or redis.Nil.
func (s *Store) Get(ctx context.Context, stationID int64) (*Occupancy, error) {
	result, err := s.client.Get(ctx, s.key(stationID)).Result()
	if err != nil {
		return nil, err
	}
	var occ Occupancy
	if err := json.Unmarshal([]byte(result), &occ); err != nil {
		return nil, err
	}
	return &occ, nil
}

// Delete removes the cached occupancy.
func (s *Store) Delete(ctx context.Context, stationID int64) error {
	return s.client.Del(ctx, s.key(stationID)).Err()
}
