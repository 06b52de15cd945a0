package jobstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is the Store backend used when --redis-addr is set
// (SPEC_FULL.md §3), so job status survives an API process restart
// and can be shared across replicas. Grounded on passbi_core's
// internal/cache Redis client and wabus-backend's Redis-backed store.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

const defaultJobTTL = 24 * time.Hour

func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}

	return &RedisStore{client: client, ttl: defaultJobTTL}, nil
}

func (s *RedisStore) key(id string) string {
	return "gtfs2gmns:job:" + id
}

func (s *RedisStore) Create(job Job) error {
	return s.set(job)
}

func (s *RedisStore) Update(job Job) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	exists, err := s.client.Exists(ctx, s.key(job.ID)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("job %q not found", job.ID)
	}
	return s.set(job)
}

func (s *RedisStore) set(job Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshaling job %q: %w", job.ID, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return s.client.Set(ctx, s.key(job.ID), data, s.ttl).Err()
}

func (s *RedisStore) Get(id string) (Job, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err == redis.Nil {
		return Job{}, false, nil
	}
	if err != nil {
		return Job{}, false, err
	}

	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return Job{}, false, fmt.Errorf("unmarshaling job %q: %w", id, err)
	}
	return job, true, nil
}
