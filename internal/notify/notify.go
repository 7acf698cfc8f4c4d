// Package notify delivers password reset links, either directly through a
// mailer or via a RabbitMQ queue drained by Worker.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"storerate/internal/metrics"
	"storerate/internal/services"
	"storerate/pkg/mailer"

	"github.com/sirupsen/logrus"
)

// PasswordResetJob is the queued form of a reset notification.
type PasswordResetJob struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func jobFrom(reset services.PasswordReset) PasswordResetJob {
	return PasswordResetJob{
		Email:     reset.Email,
		Name:      reset.Name,
		Token:     reset.Token,
		ExpiresAt: reset.ExpiresAt,
	}
}

// Deliverer renders and sends reset emails.
type Deliverer struct {
	mailer      mailer.Mailer
	frontendURL string
	ttl         time.Duration
	now         func() time.Time
}

// NewDeliverer creates a Deliverer linking to frontendURL.
func NewDeliverer(m mailer.Mailer, frontendURL string, ttl time.Duration) *Deliverer {
	return &Deliverer{mailer: m, frontendURL: frontendURL, ttl: ttl, now: time.Now}
}

// Deliver sends job unless its token has already expired.
func (d *Deliverer) Deliver(ctx context.Context, job PasswordResetJob) error {
	if !job.ExpiresAt.IsZero() && d.now().After(job.ExpiresAt) {
		return nil
	}
	msg, err := mailer.PasswordResetEmail(job.Email, job.Name, mailer.ResetLink(d.frontendURL, job.Token), humanize(d.ttl))
	if err != nil {
		return err
	}
	err = d.mailer.Send(ctx, msg)
	metrics.RecordMailDelivery(err == nil)
	return err
}

func humanize(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute:
		return plural(int(d/time.Minute), "minute")
	default:
		return d.String()
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// DirectNotifier sends reset emails in the background without a queue.
type DirectNotifier struct {
	deliverer *Deliverer
	logger    *logrus.Logger
	timeout   time.Duration
	wg        sync.WaitGroup
}

// NewDirectNotifier creates a DirectNotifier.
func NewDirectNotifier(d *Deliverer, logger *logrus.Logger) *DirectNotifier {
	return &DirectNotifier{deliverer: d, logger: logger, timeout: 30 * time.Second}
}

// NotifyPasswordReset starts delivery and returns immediately. Failures are
// logged.
func (n *DirectNotifier) NotifyPasswordReset(_ context.Context, reset services.PasswordReset) error {
	job := jobFrom(reset)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := n.deliverer.Deliver(ctx, job); err != nil {
			n.logger.WithError(err).WithField("email", job.Email).Error("password reset email failed")
		}
	}()
	return nil
}

// Wait blocks until in-flight deliveries finish.
func (n *DirectNotifier) Wait() {
	n.wg.Wait()
}

// Publisher publishes JSON messages to a queue.
type Publisher interface {
	PublishJSON(v interface{}) error
}

// QueueNotifier hands reset notifications to a message queue.
type QueueNotifier struct {
	publisher Publisher
}

// NewQueueNotifier creates a QueueNotifier.
func NewQueueNotifier(p Publisher) *QueueNotifier {
	return &QueueNotifier{publisher: p}
}

func (n *QueueNotifier) NotifyPasswordReset(_ context.Context, reset services.PasswordReset) error {
	if err := n.publisher.PublishJSON(jobFrom(reset)); err != nil {
		return fmt.Errorf("failed to queue password reset: %w", err)
	}
	return nil
}
