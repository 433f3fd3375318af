package queuesvc

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/core/notification"
)

// popTimeout bounds each BRPOP so that Close is noticed promptly.
const popTimeout = time.Second

// redisQueue is a Redis list shared by every API replica: LPUSH in, BRPOP out.
// Batches left in the list on shutdown are picked up by the next worker.
type redisQueue struct {
	rdb     *redis.Client
	key     string
	maxLen  int64
	done    chan struct{}
	closeMu sync.Once
}

var _ notification.Queue = (*redisQueue)(nil)

func NewRedisClient(conf *core.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Address,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
}

func NewRedisQueue(rdb *redis.Client, key string, maxLen int) notification.Queue {
	if maxLen < 1 {
		maxLen = 1
	}
	return &redisQueue{
		rdb:    rdb,
		key:    key,
		maxLen: int64(maxLen),
		done:   make(chan struct{}),
	}
}

func (q *redisQueue) isClosed() bool {
	select {
	case <-q.done:
		return true
	default:
		return false
	}
}

func (q *redisQueue) Push(ctx context.Context, batch notification.Batch) error {
	if q.isClosed() {
		return notification.ErrQueueClosed
	}
	n, err := q.rdb.LLen(ctx, q.key).Result()
	if err != nil {
		return errors.Wrap(err, "measuring queue")
	}
	if n >= q.maxLen {
		return notification.ErrQueueFull
	}

	data, err := encode(batch)
	if err != nil {
		return err
	}
	return errors.Wrap(q.rdb.LPush(ctx, q.key, data).Err(), "pushing batch")
}

func (q *redisQueue) Pop(ctx context.Context) (notification.Batch, error) {
	for {
		if q.isClosed() {
			return notification.Batch{}, notification.ErrQueueClosed
		}
		if err := ctx.Err(); err != nil {
			return notification.Batch{}, err
		}

		res, err := q.rdb.BRPop(ctx, popTimeout, q.key).Result()
		if errors.Is(err, redis.Nil) { // timed out
			continue
		}
		if err != nil {
			return notification.Batch{}, errors.Wrap(err, "popping batch")
		}
		// res = [key, value]
		return decode(res[1])
	}
}

func (q *redisQueue) Close() error {
	q.closeMu.Do(func() { close(q.done) })
	return nil
}

func encode(batch notification.Batch) ([]byte, error) {
	data, err := json.Marshal(batch)
	return data, errors.Wrap(err, "encoding batch")
}

func decode(data string) (notification.Batch, error) {
	var batch notification.Batch
	if err := json.Unmarshal([]byte(data), &batch); err != nil {
		return notification.Batch{}, errors.Wrap(err, "decoding batch")
	}
	return batch, nil
}
