package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	jobQueueKey  = "video_jobs"
	cancelSetKey = "video_jobs:cancelled"
)

// RedisQueue is the durable job queue between the API server and the
// transcoding worker. Cancellation is best effort: a cancelled asset id goes
// into a set the consumer checks right before starting a job. A job that
// already started is never interrupted.
type RedisQueue struct {
	rdb *redis.Client
}

func NewRedisQueue(rdb *redis.Client) *RedisQueue {
	return &RedisQueue{rdb: rdb}
}

func (q *RedisQueue) Enqueue(ctx context.Context, job Job) error {
	serialized, err := SerializeJob(job)
	if err != nil {
		return err
	}
	// A re-enqueue supersedes any earlier cancel request for the asset.
	if err := q.rdb.SRem(ctx, cancelSetKey, job.AssetID).Err(); err != nil {
		return fmt.Errorf("could not clear cancel mark: %w", err)
	}
	return q.rdb.LPush(ctx, jobQueueKey, serialized).Err()
}

// Cancel marks a queued job so the consumer skips it. Returns false when
// nothing was pending for the asset.
func (q *RedisQueue) Cancel(ctx context.Context, assetID string) (bool, error) {
	pending, err := q.pending(ctx, assetID)
	if err != nil {
		return false, err
	}
	if !pending {
		return false, nil
	}
	return true, q.rdb.SAdd(ctx, cancelSetKey, assetID).Err()
}

func (q *RedisQueue) pending(ctx context.Context, assetID string) (bool, error) {
	items, err := q.rdb.LRange(ctx, jobQueueKey, 0, -1).Result()
	if err != nil {
		return false, err
	}
	for _, item := range items {
		job, err := DeserializeJob(item)
		if err != nil {
			continue
		}
		if job.AssetID == assetID {
			return true, nil
		}
	}
	return false, nil
}

// Consume blocks on the queue and invokes handler for each job that was not
// cancelled while waiting. Returns when ctx is done.
func (q *RedisQueue) Consume(ctx context.Context, handler func(Job)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		val, err := q.rdb.BRPop(ctx, 5*time.Second, jobQueueKey).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			time.Sleep(time.Second)
			continue
		}

		job, err := DeserializeJob(val[1])
		if err != nil {
			continue
		}

		cancelled, err := q.rdb.SRem(ctx, cancelSetKey, job.AssetID).Result()
		if err == nil && cancelled > 0 {
			continue
		}

		handler(*job)
	}
}
