package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pscheid92/marketpulse/internal/domain"
)

const historyKey = "marketpulse:fear_greed:history"

// RedisStore keeps snapshots in a sorted set scored by snapshot time, so
// range queries are a single ZRANGEBYSCORE.
type RedisStore struct {
	rdb *goredis.Client
}

func NewRedisStore(rdb *goredis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Append(ctx context.Context, index domain.FearGreedIndex) error {
	payload, err := json.Marshal(index)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	score := float64(index.ComputedAt.Unix())
	pipe := s.rdb.TxPipeline()
	pipe.ZAdd(ctx, historyKey, goredis.Z{Score: score, Member: payload})
	cutoff := index.ComputedAt.Add(-historyRetention).Unix()
	pipe.ZRemRangeByScore(ctx, historyKey, "-inf", strconv.FormatInt(cutoff, 10))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append snapshot: %w", err)
	}
	return nil
}

func (s *RedisStore) Range(ctx context.Context, from, to time.Time) ([]domain.FearGreedIndex, error) {
	members, err := s.rdb.ZRangeByScore(ctx, historyKey, &goredis.ZRangeBy{
		Min: strconv.FormatInt(from.Unix(), 10),
		Max: strconv.FormatInt(to.Unix(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot range: %w", err)
	}

	out := make([]domain.FearGreedIndex, 0, len(members))
	for _, member := range members {
		var snap domain.FearGreedIndex
		if err := json.Unmarshal([]byte(member), &snap); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot: %w", err)
		}
		out = append(out, snap)
	}
	return out, nil
}
