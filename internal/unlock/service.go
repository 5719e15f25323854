package unlock

import (
	"context"
	"encoding/json"
	"time"

	"github.com/KhawajaJ/territorycycle/internal/ride"

	"github.com/redis/go-redis/v9"
)

const cacheTTL = time.Minute

type Service struct {
	rides      *ride.Service
	redis      *redis.Client
	windowDays int
	threshold  int
	now        func() time.Time
}

func NewService(rides *ride.Service, redisClient *redis.Client, windowDays, threshold int) *Service {
	return &Service{
		rides:      rides,
		redis:      redisClient,
		windowDays: windowDays,
		threshold:  threshold,
		now:        time.Now,
	}
}

// Evaluate pulls the owner's window of same-fingerprint rides and applies
// the evaluator. Results are cached briefly in redis; the cache is advisory
// and claim paths re-evaluate with Fresh.
func (s *Service) Evaluate(ctx context.Context, ownerID, fingerprint string) (Result, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey(ownerID, fingerprint)).Result(); err == nil {
			var result Result
			if json.Unmarshal([]byte(cached), &result) == nil {
				return result, nil
			}
		}
	}

	result, err := s.Fresh(ctx, ownerID, fingerprint)
	if err != nil {
		return Result{}, err
	}

	if s.redis != nil {
		if payload, err := json.Marshal(result); err == nil {
			_ = s.redis.Set(ctx, cacheKey(ownerID, fingerprint), payload, cacheTTL).Err()
		}
	}
	return result, nil
}

// Fresh bypasses the cache.
func (s *Service) Fresh(ctx context.Context, ownerID, fingerprint string) (Result, error) {
	now := s.now()
	since := now.AddDate(0, 0, -s.windowDays)

	rides, err := s.rides.WithFingerprint(ctx, ownerID, fingerprint, since)
	if err != nil {
		return Result{}, err
	}
	return Evaluate(rides, fingerprint, now, s.windowDays, s.threshold), nil
}

func cacheKey(ownerID, fingerprint string) string {
	return "unlock:" + ownerID + ":" + fingerprint
}
