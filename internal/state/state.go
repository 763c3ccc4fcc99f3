package state

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// SyncReport describes the outcome of one sync cycle.
type SyncReport struct {
	StartedAt     time.Time `json:"started_at"`
	CompletedAt   time.Time `json:"completed_at"`
	ProductSource Source    `json:"product_source"`
	ArticleSource Source    `json:"article_source"`
	ProductCount  int       `json:"product_count"`
	ArticleCount  int       `json:"article_count"`
	Errors        []string  `json:"errors,omitempty"`
}

// StateManager records sync status so every instance can report when the
// catalog was last refreshed and where its data came from.
type StateManager interface {
	GetLastSync(ctx context.Context) (*SyncReport, error)
	SetLastSync(ctx context.Context, report SyncReport) error
}

type redisStateManager struct {
	redisClient *redis.Client
	keyPrefix   string
}

func NewRedisStateManager(redisClient *redis.Client, keyPrefix string) StateManager {
	if keyPrefix == "" {
		keyPrefix = "elysoir:sync:"
	}
	return &redisStateManager{
		redisClient: redisClient,
		keyPrefix:   keyPrefix,
	}
}

func (s *redisStateManager) GetLastSync(ctx context.Context) (*SyncReport, error) {
	key := s.keyPrefix + "last"
	val, err := s.redisClient.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // No sync recorded yet
		}
		return nil, fmt.Errorf("failed to get last sync report: %w", err)
	}

	var report SyncReport
	if err := json.Unmarshal([]byte(val), &report); err != nil {
		return nil, fmt.Errorf("failed to parse last sync report: %w", err)
	}

	return &report, nil
}

func (s *redisStateManager) SetLastSync(ctx context.Context, report SyncReport) error {
	key := s.keyPrefix + "last"
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode sync report: %w", err)
	}
	if err := s.redisClient.Set(ctx, key, payload, 0).Err(); err != nil { // No expiration
		return fmt.Errorf("failed to set last sync report: %w", err)
	}
	return nil
}

type memoryStateManager struct {
	mu   sync.RWMutex
	last *SyncReport
}

// NewMemoryStateManager keeps the report in process memory.
func NewMemoryStateManager() StateManager {
	return &memoryStateManager{}
}

func (s *memoryStateManager) GetLastSync(_ context.Context) (*SyncReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil, nil
	}
	r := *s.last
	r.Errors = append([]string(nil), s.last.Errors...)
	return &r, nil
}

func (s *memoryStateManager) SetLastSync(_ context.Context, report SyncReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	report.Errors = append([]string(nil), report.Errors...)
	s.last = &report
	return nil
}
