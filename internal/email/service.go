package email

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"arenabook/internal/logger"
	"arenabook/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey       = "emails"
	failedQueueKey = "emails:failed"
	maxAttempts    = 3
)

type EmailJob struct {
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Type    string    `json:"type"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// Sender delivers one message. SMTPSender is the production implementation.
type Sender interface {
	Send(ctx context.Context, job EmailJob) error
}

// Service queues mail in a Redis list and delivers it from a worker loop.
type Service struct {
	redis      *redis.Client
	sender     Sender
	retryDelay time.Duration
}

func New(rdb *redis.Client, sender Sender) *Service {
	return &Service{redis: rdb, sender: sender, retryDelay: 5 * time.Second}
}

func (s *Service) Enqueue(ctx context.Context, job EmailJob) error {
	if job.Created.IsZero() {
		job.Created = time.Now()
	}

	if err := s.push(ctx, queueKey, job); err != nil {
		logger.Error("failed to queue email", "to", job.To, "type", job.Type, "error", err)
		return err
	}

	logger.Debug("email queued", "to", job.To, "subject", job.Subject)
	return nil
}

// Start blocks until ctx is done.
func (s *Service) Start(ctx context.Context) {
	logger.Info("email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("email worker stopped")
			return
		default:
			s.step(ctx)
		}
	}
}

// step handles one job and refreshes the queue length gauge when it took one.
func (s *Service) step(ctx context.Context) {
	if s.processNext(ctx) {
		s.QueueLength(ctx)
	}
}

// processNext handles at most one job and reports whether it took one.
func (s *Service) processNext(ctx context.Context) bool {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			logger.Warn("email queue read failed", "error", err)
			sleep(ctx, time.Second)
		}
		return false
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Error("bad email job", "error", err)
		return true
	}

	job.Tries++
	if err := s.sender.Send(ctx, job); err != nil {
		logger.Error("failed to send email", "to", job.To, "attempt", job.Tries, "error", err)

		if job.Tries < maxAttempts {
			metrics.RecordEmail(job.Type, "retry")
			sleep(ctx, s.retryDelay)
			if err := s.push(context.WithoutCancel(ctx), queueKey, job); err != nil {
				metrics.RecordEmail(job.Type, "lost")
				logger.Error("email requeue failed, job lost", "to", job.To, "type", job.Type, "error", err)
			}
		} else {
			metrics.RecordEmail(job.Type, "failed")
			s.saveFailed(ctx, job, err)
		}
		return true
	}

	metrics.RecordEmail(job.Type, "sent")
	logger.Info("email sent", "to", job.To, "type", job.Type)
	return true
}

func (s *Service) saveFailed(ctx context.Context, job EmailJob, err error) {
	failed := map[string]any{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	if err := s.push(context.WithoutCancel(ctx), failedQueueKey, failed); err != nil {
		metrics.RecordEmail(job.Type, "lost")
		logger.Error("failed to save email to failed queue, job lost", "to", job.To, "type", job.Type, "error", err)
		return
	}
	logger.Error("email moved to failed queue", "to", job.To)
}

// push stores v as a JSON string so the list holds readable payloads.
func (s *Service) push(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.redis.LPush(ctx, key, string(data)).Err()
}

// QueueLength reports the pending queue size and exports it as a gauge.
// A failed read leaves the gauge untouched.
func (s *Service) QueueLength(ctx context.Context) int64 {
	length, err := s.redis.LLen(ctx, queueKey).Result()
	if err != nil {
		logger.Warn("email queue length read failed", "error", err)
		return 0
	}
	metrics.EmailQueueLength.Set(float64(length))
	return length
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
