package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// Consumer feeds queued deliveries to a handler until ctx is done.
type Consumer interface {
	Consume(ctx context.Context, handler func(msg amqp.Delivery) error) error
}

// Worker drains the mail queue and sends each reset email.
type Worker struct {
	deliverer *Deliverer
	logger    *logrus.Logger
	timeout   time.Duration
}

// NewWorker creates a Worker.
func NewWorker(d *Deliverer, logger *logrus.Logger) *Worker {
	return &Worker{deliverer: d, logger: logger, timeout: 30 * time.Second}
}

// Run consumes from c until ctx is cancelled.
func (w *Worker) Run(ctx context.Context, c Consumer) error {
	return c.Consume(ctx, w.Handle)
}

// Handle decodes and delivers one message. Malformed messages are dropped.
func (w *Worker) Handle(msg amqp.Delivery) error {
	var job PasswordResetJob
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		w.logger.WithError(err).WithField("delivery_tag", msg.DeliveryTag).Error("dropping malformed mail message")
		return nil
	}
	if job.Email == "" || job.Token == "" {
		w.logger.WithField("delivery_tag", msg.DeliveryTag).Error("dropping incomplete mail message")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	if err := w.deliverer.Deliver(ctx, job); err != nil {
		return fmt.Errorf("deliver to %s: %w", job.Email, err)
	}
	w.logger.WithField("email", job.Email).Info("password reset email sent")
	return nil
}
