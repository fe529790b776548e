package worker

// Sends issued invoices (with the PDF attached) to the customer's email.
// Failures are retried with exponential backoff via QueueEmailRetry; jobs
// that exhaust their retries land in the DLQ.

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"shalom/internal/infra"
	"shalom/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const MaxEmailRetries = 3

// EmailWorker processes invoice_email jobs from QueueEmail.
type EmailWorker struct {
	invoiceRepo  repository.InvoiceRepository
	mailer       *infra.Mailer
	cb           *infra.CircuitBreaker
	rdb          *redis.Client
	pdfRoot      string
	businessName string
}

func NewEmailWorker(
	invoiceRepo repository.InvoiceRepository,
	mailer *infra.Mailer,
	cb *infra.CircuitBreaker,
	rdb *redis.Client,
	pdfRoot, businessName string,
) *EmailWorker {
	return &EmailWorker{
		invoiceRepo:  invoiceRepo,
		mailer:       mailer,
		cb:           cb,
		rdb:          rdb,
		pdfRoot:      pdfRoot,
		businessName: businessName,
	}
}

// Process sends one invoice email through the circuit breaker.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload InvoiceEmailPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	invoiceID, err := uuid.Parse(payload.InvoiceID)
	if err != nil {
		log.Error().Str("invoice_id", payload.InvoiceID).Msg("email_worker: invalid invoice id")
		return
	}

	inv, err := w.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		log.Error().Err(err).Str("invoice_id", payload.InvoiceID).Msg("email_worker: invoice not found")
		return
	}
	if inv.Customer == nil || inv.Customer.Email == nil || *inv.Customer.Email == "" {
		log.Warn().Str("invoice", inv.InvoiceNumber).Msg("email_worker: customer has no email — skipping")
		return
	}

	subject := fmt.Sprintf("%s - Factura %s", w.businessName, inv.InvoiceNumber)
	body := fmt.Sprintf(
		"Hola %s,\n\nAdjuntamos la factura %s por un total de $%s.\n\nGracias por su confianza.\n%s",
		inv.Customer.FirstName, inv.InvoiceNumber, inv.Total.StringFixed(2), w.businessName,
	)
	pdfPath := ""
	if inv.PDFPath != nil {
		pdfPath = filepath.Join(w.pdfRoot, *inv.PDFPath)
	}

	sendErr := w.cb.Execute(func() error {
		return w.mailer.SendInvoice(*inv.Customer.Email, subject, body, pdfPath)
	})
	if sendErr != nil {
		w.scheduleRetry(ctx, payload, raw, sendErr)
		return
	}
	log.Info().Str("to", *inv.Customer.Email).Str("invoice", inv.InvoiceNumber).Msg("email_worker: invoice sent")
}

func (w *EmailWorker) scheduleRetry(ctx context.Context, payload InvoiceEmailPayload, raw json.RawMessage, cause error) {
	payload.Attempts++
	if payload.Attempts >= MaxEmailRetries {
		SendToDLQ(ctx, w.rdb, QueueEmail, JobTypeInvoiceEmail, raw, cause.Error(), payload.Attempts)
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("email_worker: marshal retry payload")
		return
	}
	encoded, err := json.Marshal(Job{Type: JobTypeInvoiceEmail, Payload: data})
	if err != nil {
		log.Error().Err(err).Msg("email_worker: marshal retry job")
		return
	}

	nextAt := time.Now().Add(retryBackoff(payload.Attempts))
	if err := w.rdb.ZAdd(ctx, QueueEmailRetry, redis.Z{
		Score:  float64(nextAt.Unix()),
		Member: string(encoded),
	}).Err(); err != nil {
		log.Error().Err(err).Msg("email_worker: schedule retry")
		return
	}
	log.Warn().
		Err(cause).
		Str("invoice_id", payload.InvoiceID).
		Int("attempt", payload.Attempts).
		Time("next_retry_at", nextAt).
		Msg("email_worker: send failed, retry scheduled")
}

// retryBackoff doubles per attempt: 1m, 2m, 4m... capped at 10m.
func retryBackoff(attempts int) time.Duration {
	d := time.Minute << (attempts - 1)
	if d > 10*time.Minute {
		return 10 * time.Minute
	}
	return d
}
