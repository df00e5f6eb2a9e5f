// internal/cache/cache.go

// Package cache maintains the Redis connection used for the append-only
// match action log consumed by the historian worker.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Rdb is the shared Redis client. Nil when Redis is not configured; all
// callers must check before use.
var Rdb *redis.Client

// GameActionRecord is one entry in a room's action log.
type GameActionRecord struct {
	RoomID        string                 `json:"roomId"`
	ActionIndex   int                    `json:"actionIndex"`
	ActorID       uuid.UUID              `json:"actorId"`
	ActionType    string                 `json:"actionType"`
	ActionPayload map[string]interface{} `json:"actionPayload"`
	Timestamp     int64                  `json:"timestamp"`
}

// Init connects the shared client using REDIS_ADDR. Leaves Rdb nil when
// the variable is unset, which disables action logging.
func Init(ctx context.Context) error {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Info("REDIS_ADDR not set, action logging disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	Rdb = client
	log.Infof("connected to redis at %s", addr)
	return nil
}

// Close releases the shared client.
func Close() {
	if Rdb != nil {
		_ = Rdb.Close()
		Rdb = nil
	}
}

// actionKey returns the Redis list key holding a room's action log.
func actionKey(roomID string) string {
	return "room:" + roomID + ":actions"
}

// PublishGameAction appends one record to the room's action list and
// refreshes its expiry. Records are JSON for the historian's benefit.
func PublishGameAction(ctx context.Context, rec GameActionRecord) error {
	if Rdb == nil {
		return fmt.Errorf("redis client not initialized")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal action record: %w", err)
	}
	key := actionKey(rec.RoomID)
	pipe := Rdb.Pipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, 24*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append action record: %w", err)
	}
	return nil
}

// FetchGameActions returns a room's full action log in append order.
func FetchGameActions(ctx context.Context, roomID string) ([]GameActionRecord, error) {
	if Rdb == nil {
		return nil, fmt.Errorf("redis client not initialized")
	}
	raw, err := Rdb.LRange(ctx, actionKey(roomID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read action log: %w", err)
	}
	records := make([]GameActionRecord, 0, len(raw))
	for _, item := range raw {
		var rec GameActionRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("decode action record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
