// Package jobstore persists async batch-run results in Redis so job
// status survives process restarts and is addressable from any instance.
package jobstore

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/storage/redis/v3"
	"github.com/google/uuid"

	"trendscout/internal/models"
)

// ErrJobNotFound is returned for unknown or expired job ids.
var ErrJobNotFound = errors.New("job not found")

// Job statuses.
const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusError   = "error"
)

// Job is the stored state of one async batch run.
type Job struct {
	ID        uuid.UUID          `json:"id"`
	Status    string             `json:"status"`
	StartedAt time.Time          `json:"started_at"`
	Summary   *models.RunSummary `json:"summary,omitempty"`
}

// Store keeps jobs in Redis with a TTL, so finished results evict
// themselves instead of growing with process lifetime.
type Store struct {
	storage *redis.Storage
	ttl     time.Duration
}

// New connects to Redis at the given URL. Results live for ttl after
// their last write.
func New(redisURL string, ttl time.Duration) *Store {
	return &Store{
		storage: redis.New(redis.Config{URL: redisURL}),
		ttl:     ttl,
	}
}

// Create registers a new running job and returns it.
func (s *Store) Create() (*Job, error) {
	job := &Job{
		ID:        uuid.New(),
		Status:    StatusRunning,
		StartedAt: time.Now(),
	}
	if err := s.put(job); err != nil {
		return nil, err
	}
	return job, nil
}

// Finish stores the run summary against the job and flips its status.
func (s *Store) Finish(id uuid.UUID, summary *models.RunSummary) error {
	job, err := s.Get(id)
	if err != nil {
		return err
	}
	job.Status = StatusDone
	if summary != nil && summary.Status == "error" {
		job.Status = StatusError
	}
	job.Summary = summary
	return s.put(job)
}

// Get retrieves a job by id.
func (s *Store) Get(id uuid.UUID) (*Job, error) {
	data, err := s.storage.Get(key(id))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrJobNotFound
	}

	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Close releases the Redis connection.
func (s *Store) Close() error {
	return s.storage.Close()
}

func (s *Store) put(job *Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return s.storage.Set(key(job.ID), data, s.ttl)
}

func key(id uuid.UUID) string {
	return "scrape-job:" + id.String()
}
