package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"frangapp/internal/logger"
	"frangapp/internal/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	queueKey  = "emails"
	failedKey = "emails:failed"
	maxTries  = 3

	TypeReceipt        = "deposit_receipt"
	TypeReconciliation = "reconciliation_alert"
	TypeGeneric        = "generic"
)

type EmailJob struct {
	Type    string    `json:"type"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type Config struct {
	From     string
	FromName string
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	// OpsEmail receives reconciliation alerts. Alerts are only logged when empty.
	OpsEmail string
	// RetryDelay is the pause before a failed job is queued again.
	RetryDelay time.Duration
}

type Service struct {
	redis *redis.Client
	cfg   Config
	send  func(job EmailJob) error
}

func New(cfg Config, rdb *redis.Client) *Service {
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 5 * time.Second
	}
	s := &Service{redis: rdb, cfg: cfg}
	s.send = s.sendSMTP
	return s
}

func (s *Service) Send(ctx context.Context, to, name, subject, body string) error {
	return s.enqueue(ctx, EmailJob{Type: TypeGeneric, To: to, Name: name, Subject: subject, Body: body})
}

func (s *Service) enqueue(ctx context.Context, job EmailJob) error {
	job.Tries = 0
	job.Created = time.Now()

	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal email job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		metrics.RecordEmail(job.Type, "queue_failed")
		logger.Error("failed to queue email", "to", job.To, "type", job.Type, "error", err)
		return fmt.Errorf("queue email: %w", err)
	}

	metrics.RecordEmail(job.Type, "queued")
	logger.Info("email queued", "to", job.To, "type", job.Type, "subject", job.Subject)
	return nil
}

// Start consumes the queue until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("Email service started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Email service stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if errors.Is(err, redis.Nil) || ctx.Err() != nil {
		return
	}
	if err != nil {
		logger.Error("email queue unavailable", "error", err, "retry_in", s.cfg.RetryDelay.String())
		select {
		case <-ctx.Done():
		case <-time.After(s.cfg.RetryDelay):
		}
		return
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad email data: %v", err)
		return
	}

	job.Tries++
	if err := s.send(job); err != nil {
		logger.Error("failed to send email", "to", job.To, "type", job.Type, "attempt", job.Tries, "error", err)

		if job.Tries < maxTries {
			s.retry(ctx, job)
		} else {
			s.saveFailed(ctx, job, err)
		}
		return
	}

	metrics.RecordEmail(job.Type, "sent")
	logger.Info("email sent", "to", job.To, "type", job.Type)
}

func (s *Service) retry(ctx context.Context, job EmailJob) {
	select {
	case <-ctx.Done():
	case <-time.After(s.cfg.RetryDelay):
	}

	data, _ := json.Marshal(job)
	// The job must survive shutdown, so the requeue ignores ctx.
	if err := s.redis.LPush(context.WithoutCancel(ctx), queueKey, string(data)).Err(); err != nil {
		logger.Error("failed to requeue email", "to", job.To, "error", err)
		return
	}
	logger.Infof("Retrying email to %s (attempt %d)", job.To, job.Tries+1)
}

func (s *Service) sendSMTP(job EmailJob) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", s.cfg.FromName), s.cfg.From)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", job.Subject))
	message += "MIME-Version: 1.0\r\n"
	message += "Content-Type: text/plain; charset=UTF-8\r\n"
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.cfg.SMTPUser != "" && s.cfg.SMTPPass != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)
	}

	addr := s.cfg.SMTPHost + ":" + s.cfg.SMTPPort
	return smtp.SendMail(addr, auth, s.cfg.From, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(ctx context.Context, job EmailJob, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.WithoutCancel(ctx), failedKey, string(data))
	metrics.RecordEmail(job.Type, "failed")
	logger.Error("email moved to failed queue", "to", job.To, "type", job.Type, "attempts", job.Tries)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	return length
}

// Receipt describes a credited top-up.
type Receipt struct {
	To            string
	Name          string
	AppName       string
	Quantity      int
	Amount        decimal.Decimal
	Currency      string
	Balance       int
	TransactionID string
}

func (s *Service) SendDepositReceipt(ctx context.Context, r Receipt) error {
	subject := fmt.Sprintf("Payment receipt - %s", r.AppName)
	body := fmt.Sprintf(`Hi %s,

Thank you for your payment.

Application: %s
Credits added: %d
Amount charged: %s %s
New balance: %d
Reference: %s

- FrangApp Team`, r.Name, r.AppName, r.Quantity, r.Amount.String(), strings.ToUpper(r.Currency), r.Balance, r.TransactionID)

	return s.enqueue(ctx, EmailJob{Type: TypeReceipt, To: r.To, Name: r.Name, Subject: subject, Body: body})
}

// Alert describes a captured charge whose credit could not be recorded.
type Alert struct {
	ChargeID      string
	TransactionID string
	AppID         int
	AppUID        string
	UserID        int
	Quantity      int
	Amount        decimal.Decimal
	Currency      string
	Cause         string
	At            time.Time
}

func (s *Service) SendReconciliationAlert(ctx context.Context, a Alert) error {
	if s.cfg.OpsEmail == "" {
		logger.Warn("no operator email configured, reconciliation alert not mailed", "charge_id", a.ChargeID)
		return nil
	}

	subject := fmt.Sprintf("[ACTION REQUIRED] Charge %s captured but not credited", a.ChargeID)
	body := fmt.Sprintf(`A payment was captured by the gateway but the balance credit failed.
The customer has been told the credit is pending. Do not charge them again.

Charge: %s
Transaction: %s
Application: %s (id %d)
User: %d
Credits owed: %d
Amount: %s %s
Time: %s
Cause: %s
`, a.ChargeID, a.TransactionID, a.AppUID, a.AppID, a.UserID, a.Quantity, a.Amount.String(),
		strings.ToUpper(a.Currency), a.At.UTC().Format(time.RFC3339), a.Cause)

	return s.enqueue(ctx, EmailJob{Type: TypeReconciliation, To: s.cfg.OpsEmail, Name: "Operations", Subject: subject, Body: body})
}
