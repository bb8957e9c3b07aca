package policy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"peopledesk/internal/platform/redis"
	"peopledesk/pkg/platform/sentinel"
)

const responseKeyPrefix = "policy:response:"

// RedisResponseStore keeps answered questions in Redis with a TTL so the
// response window survives process restarts without a durable store.
type RedisResponseStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisResponseStore(client *redis.Client, ttl time.Duration) *RedisResponseStore {
	return &RedisResponseStore{client: client, ttl: ttl}
}

func (s *RedisResponseStore) Save(ctx context.Context, response Response) error {
	payload, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("marshal policy response: %w", err)
	}
	return s.client.Set(ctx, responseKeyPrefix+response.ResponseID, payload, s.ttl).Err()
}

func (s *RedisResponseStore) FindByID(ctx context.Context, id string) (Response, error) {
	raw, err := s.client.Get(ctx, responseKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return Response{}, sentinel.ErrNotFound
		}
		return Response{}, fmt.Errorf("get policy response: %w", err)
	}
	var response Response
	if err := json.Unmarshal(raw, &response); err != nil {
		return Response{}, fmt.Errorf("unmarshal policy response: %w", err)
	}
	return response, nil
}
