package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/screenhall/web/internal/domain"
	pkgkafka "github.com/screenhall/web/pkg/kafka"
	"github.com/screenhall/web/pkg/logger"
)

// Kafka topics for checkout lifecycle events.
const (
	TopicCheckoutStarted   = "screenhall.checkout.started"
	TopicCheckoutCompleted = "screenhall.checkout.completed"
	TopicCheckoutFailed    = "screenhall.checkout.failed"
)

// Aggregate type constant.
const AggregateTypeCheckout = "checkout"

// Source identifier for events originating from this service.
const SourceWeb = "web"

// CheckoutStartedData is the payload for a checkout.started event.
type CheckoutStartedData struct {
	SessionID  string `json:"session_id"`
	ShowtimeID string `json:"showtime_id"`
	MovieTitle string `json:"movie_title"`
	CinemaName string `json:"cinema_name"`
}

// CheckoutCompletedData is the payload for a checkout.completed event.
type CheckoutCompletedData struct {
	SessionID  string          `json:"session_id"`
	UserID     string          `json:"user_id"`
	ShowtimeID string          `json:"showtime_id"`
	Seats      []domain.SeatID `json:"seats"`
	BookingIDs []string        `json:"booking_ids"`
	GrandTotal int64           `json:"grand_total"`
}

// CheckoutFailedData is the payload for a checkout.failed event.
type CheckoutFailedData struct {
	SessionID     string `json:"session_id"`
	UserID        string `json:"user_id"`
	ShowtimeID    string `json:"showtime_id"`
	SeatCount     int    `json:"seat_count"`
	FailureReason string `json:"failure_reason"`
}

// Producer publishes checkout lifecycle events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, l *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: l,
	}
}

// PublishCheckoutStarted publishes a checkout.started event.
func (p *Producer) PublishCheckoutStarted(ctx context.Context, session *domain.CheckoutSession) error {
	data := CheckoutStartedData{
		SessionID:  session.ID,
		ShowtimeID: session.Showtime.ID,
		MovieTitle: session.Showtime.MovieTitle,
		CinemaName: session.Showtime.CinemaName,
	}

	evt, err := pkgkafka.NewEvent(TopicCheckoutStarted, session.ID, AggregateTypeCheckout, SourceWeb, data)
	if err != nil {
		return fmt.Errorf("create checkout.started event: %w", err)
	}
	evt.WithCorrelationID(logger.CorrelationIDFromContext(ctx))

	if err := p.kafka.Publish(ctx, TopicCheckoutStarted, evt); err != nil {
		return fmt.Errorf("publish checkout.started event: %w", err)
	}

	p.logger.DebugContext(ctx, "published checkout.started event",
		slog.String("session_id", session.ID),
		slog.String("showtime_id", session.Showtime.ID),
	)

	return nil
}

// PublishCheckoutCompleted publishes a checkout.completed event.
func (p *Producer) PublishCheckoutCompleted(ctx context.Context, session *domain.CheckoutSession, bookingIDs []string) error {
	data := CheckoutCompletedData{
		SessionID:  session.ID,
		UserID:     session.UserID,
		ShowtimeID: session.Showtime.ID,
		Seats:      session.Seats,
		BookingIDs: bookingIDs,
		GrandTotal: session.GrandTotal(),
	}

	evt, err := pkgkafka.NewEvent(TopicCheckoutCompleted, session.ID, AggregateTypeCheckout, SourceWeb, data)
	if err != nil {
		return fmt.Errorf("create checkout.completed event: %w", err)
	}
	evt.WithCorrelationID(logger.CorrelationIDFromContext(ctx))

	if err := p.kafka.Publish(ctx, TopicCheckoutCompleted, evt); err != nil {
		return fmt.Errorf("publish checkout.completed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published checkout.completed event",
		slog.String("session_id", session.ID),
		slog.Int("seat_count", len(session.Seats)),
	)

	return nil
}

// PublishCheckoutFailed publishes a checkout.failed event.
func (p *Producer) PublishCheckoutFailed(ctx context.Context, session *domain.CheckoutSession, reason string) error {
	data := CheckoutFailedData{
		SessionID:     session.ID,
		UserID:        session.UserID,
		ShowtimeID:    session.Showtime.ID,
		SeatCount:     len(session.Seats),
		FailureReason: reason,
	}

	evt, err := pkgkafka.NewEvent(TopicCheckoutFailed, session.ID, AggregateTypeCheckout, SourceWeb, data)
	if err != nil {
		return fmt.Errorf("create checkout.failed event: %w", err)
	}
	evt.WithCorrelationID(logger.CorrelationIDFromContext(ctx))

	if err := p.kafka.Publish(ctx, TopicCheckoutFailed, evt); err != nil {
		return fmt.Errorf("publish checkout.failed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published checkout.failed event",
		slog.String("session_id", session.ID),
		slog.String("failure_reason", reason),
	)

	return nil
}
