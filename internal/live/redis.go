package live

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisMirror writes the latest position per bus into Redis so other
// instances and tools can read the live state without a websocket.
type RedisMirror struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisMirror connects to Redis and verifies the connection.
func NewRedisMirror(addr, password string, db int, ttl time.Duration, logger *zap.Logger) (*RedisMirror, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisMirror{client: client, ttl: ttl, logger: logger}, nil
}

func positionKey(busNumber string) string {
	return fmt.Sprintf("fleet:position:%s", busNumber)
}

// Set stores the position under its bus-number key with the mirror TTL.
func (m *RedisMirror) Set(ctx context.Context, pos Position) error {
	data, err := json.Marshal(pos)
	if err != nil {
		return fmt.Errorf("marshaling position: %w", err)
	}
	if err := m.client.Set(ctx, positionKey(pos.BusNumber), data, m.ttl).Err(); err != nil {
		m.logger.Error("position mirror set failed",
			zap.String("bus_number", pos.BusNumber),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// All scans every mirrored position. Used at startup to repopulate the
// in-memory store after a restart.
func (m *RedisMirror) All(ctx context.Context) ([]Position, error) {
	var out []Position
	iter := m.client.Scan(ctx, 0, positionKey("*"), 100).Iterator()
	for iter.Next(ctx) {
		data, err := m.client.Get(ctx, iter.Val()).Bytes()
		if err == redis.Nil {
			continue // expired between scan and read
		}
		if err != nil {
			return nil, err
		}
		var pos Position
		if err := json.Unmarshal(data, &pos); err != nil {
			m.logger.Warn("skipping unreadable mirrored position",
				zap.String("key", iter.Val()),
				zap.Error(err),
			)
			continue
		}
		out = append(out, pos)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Close closes the Redis connection.
func (m *RedisMirror) Close() error {
	return m.client.Close()
}
