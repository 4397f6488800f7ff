package rabbitmq

import (
	"context"
	"encoding/json"
	"time"

	reservationPort "travelhub/internal/ports/reservation"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// StatusChangedQueue carries reservation status transitions.
const StatusChangedQueue = "reservation.status_changed"

// StatusPublisherRabbit opens a connection per publish.
type StatusPublisherRabbit struct {
	URL    string
	Logger *zap.Logger
}

func NewStatusPublisherRabbit(url string, logger *zap.Logger) *StatusPublisherRabbit {
	return &StatusPublisherRabbit{
		URL:    url,
		Logger: logger,
	}
}

func (p *StatusPublisherRabbit) PublishStatusChanged(ctx context.Context, ev reservationPort.StatusChangedEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		p.Logger.Error("rabbitmq: dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Logger.Error("rabbitmq: channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(StatusChangedQueue, true, false, false, false, nil); err != nil {
		p.Logger.Error("rabbitmq: queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", StatusChangedQueue, false, false, msg); err != nil {
		p.Logger.Error("rabbitmq: publish failed", zap.Error(err), zap.String("reservation_id", ev.ReservationID))
		return err
	}

	p.Logger.Info("Published status change",
		zap.String("reservation_id", ev.ReservationID),
		zap.String("from", ev.From),
		zap.String("to", ev.To))
	return nil
}

// NoopPublisher is used when RABBITMQ_URL is not configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishStatusChanged(context.Context, reservationPort.StatusChangedEvent) error {
	return nil
}
