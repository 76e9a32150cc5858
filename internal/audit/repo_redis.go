package audit

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisKey    = "call_events"
	defaultRedisMaxLen = 10000
)

// RedisRepo appends call events to a capped Redis list, newest last.
type RedisRepo struct {
	rdb    *redis.Client
	key    string
	maxLen int64
}

func NewRedisRepo(rdb *redis.Client) *RedisRepo {
	return &RedisRepo{rdb: rdb, key: defaultRedisKey, maxLen: defaultRedisMaxLen}
}

func (r *RedisRepo) Append(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	pipe := r.rdb.TxPipeline()
	pipe.RPush(ctx, r.key, payload)
	pipe.LTrim(ctx, r.key, -r.maxLen, -1)
	_, err = pipe.Exec(ctx)
	return err
}
