package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/exam-portal/internal/config"
	"github.com/stemsi/exam-portal/internal/model"
)

// SubmissionPublisher announces accepted submissions.
type SubmissionPublisher interface {
	PublishSubmission(ctx context.Context, ev model.SubmissionEvent) error
}

// ResultFeed carries submission events over Redis Pub/Sub, one channel per exam.
type ResultFeed struct {
	rdb *redis.Client
}

// NewResultFeed creates a new ResultFeed.
func NewResultFeed(rdb *redis.Client) *ResultFeed {
	return &ResultFeed{rdb: rdb}
}

// PublishSubmission broadcasts ev on the exam's results channel.
func (f *ResultFeed) PublishSubmission(ctx context.Context, ev model.SubmissionEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return f.rdb.Publish(ctx, config.CacheKey.ExamResultsChannel(ev.ExamID), payload).Err()
}

// Subscribe attaches to the exam's results channel. The caller must Close it.
func (f *ResultFeed) Subscribe(ctx context.Context, examID int64) *redis.PubSub {
	return f.rdb.Subscribe(ctx, config.CacheKey.ExamResultsChannel(examID))
}
