package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueEmail = "jobs:email"
	// QueueEmailRetry is a ZSET scored by next-attempt unix time; the retry
	// cron moves due entries back onto QueueEmail.
	QueueEmailRetry = "jobs:email:retry"

	JobTypeInvoiceEmail = "invoice_email"
)

// Job is the wire envelope for every queued task.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// InvoiceEmailPayload is the payload of an invoice_email job.
type InvoiceEmailPayload struct {
	InvoiceID string `json:"invoice_id"`
	Attempts  int    `json:"attempts"`
}

// Dispatcher pushes jobs onto the Redis lists the pool consumes.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueInvoiceEmail pushes an invoice-email job to Redis.
func (d *Dispatcher) EnqueueInvoiceEmail(ctx context.Context, invoiceID uuid.UUID) error {
	return enqueue(ctx, d.rdb, QueueEmail, JobTypeInvoiceEmail, InvoiceEmailPayload{
		InvoiceID: invoiceID.String(),
	})
}

func enqueue(ctx context.Context, rdb *redis.Client, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming the email queue.
// Workers sit in BRPOP when the queue is empty.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, emailWorker *EmailWorker) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i, emailWorker)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, emailWorker *EmailWorker) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Pop with a bounded wait so ctx cancellation is noticed.
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueEmail).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, result[1], emailWorker)
		}
	}
}

func processJob(ctx context.Context, raw string, emailWorker *EmailWorker) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal job")
		return
	}
	switch job.Type {
	case JobTypeInvoiceEmail:
		emailWorker.Process(ctx, job.Payload)
	default:
		log.Warn().Str("type", job.Type).Msg("unknown job type, dropped")
	}
}
