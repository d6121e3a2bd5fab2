package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/screenhall/web/internal/backend"
	"github.com/screenhall/web/internal/domain"
	"github.com/screenhall/web/internal/repository"
	apperrors "github.com/screenhall/web/pkg/errors"
)

// TicketTypeStandard is the fixed ticket type recorded on every booking
// written by the checkout flow.
const TicketTypeStandard = "standard"

// BackendClient is the subset of the backend API the checkout flow needs.
type BackendClient interface {
	GetShowtime(ctx context.Context, id string) (*domain.ShowtimeRef, error)
	ListConcessions(ctx context.Context) ([]domain.ConcessionItem, error)
	ListPromotions(ctx context.Context) ([]domain.Promotion, error)
	GetSeatOccupancy(ctx context.Context, showtimeID string) ([]domain.SeatID, bool, error)
	CreateBooking(ctx context.Context, token string, input backend.CreateBookingInput) (*backend.Booking, error)
}

// EventPublisher publishes checkout lifecycle events. Publishing failures
// are logged and never fail the user-facing operation.
type EventPublisher interface {
	PublishCheckoutStarted(ctx context.Context, session *domain.CheckoutSession) error
	PublishCheckoutCompleted(ctx context.Context, session *domain.CheckoutSession, bookingIDs []string) error
	PublishCheckoutFailed(ctx context.Context, session *domain.CheckoutSession, reason string) error
}

// CheckoutService orchestrates the three-step booking wizard: seat
// selection, concessions, confirmation. Session state lives in the store;
// every mutation is load, apply, save.
type CheckoutService struct {
	store    repository.SessionStore
	backend  BackendClient
	producer EventPublisher
	logger   *slog.Logger

	// inFlight guards against double submission: at most one Confirm may
	// run per session at a time. Entries exist only while a confirmation
	// is outstanding.
	inFlight sync.Map
}

// NewCheckoutService creates a checkout service.
func NewCheckoutService(store repository.SessionStore, client BackendClient, producer EventPublisher, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		store:    store,
		backend:  client,
		producer: producer,
		logger:   logger,
	}
}

// Start creates a checkout session for a showtime. The showtime lookup, the
// concession catalog, the promotion catalog, and the seat occupancy snapshot
// are fetched concurrently. A missing showtime is fatal; the other three
// reads degrade to empty collections so checkout is never blocked by them.
func (s *CheckoutService) Start(ctx context.Context, showtimeID string) (*domain.CheckoutSession, error) {
	if showtimeID == "" {
		return nil, apperrors.InvalidInput("showtime id is required")
	}

	var (
		showtime    *domain.ShowtimeRef
		concessions []domain.ConcessionItem
		promotions  []domain.Promotion
		occupancy   []domain.SeatID
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		st, err := s.backend.GetShowtime(gctx, showtimeID)
		if err != nil {
			return fmt.Errorf("get showtime: %w", err)
		}
		showtime = st
		return nil
	})

	g.Go(func() error {
		items, err := s.backend.ListConcessions(gctx)
		if err != nil {
			s.logger.WarnContext(gctx, "concession catalog unavailable, continuing without it",
				slog.String("error", err.Error()),
			)
			return nil
		}
		concessions = items
		return nil
	})

	g.Go(func() error {
		promos, err := s.backend.ListPromotions(gctx)
		if err != nil {
			s.logger.WarnContext(gctx, "promotion catalog unavailable, continuing without it",
				slog.String("error", err.Error()),
			)
			return nil
		}
		promotions = promos
		return nil
	})

	g.Go(func() error {
		seats, ok, err := s.backend.GetSeatOccupancy(gctx, showtimeID)
		if err != nil || !ok {
			if err != nil {
				s.logger.WarnContext(gctx, "seat occupancy unavailable, continuing with empty snapshot",
					slog.String("error", err.Error()),
				)
			}
			return nil
		}
		occupancy = seats
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &domain.CheckoutSession{
		ID:                 uuid.New().String(),
		Showtime:           *showtime,
		Seats:              []domain.SeatID{},
		Concessions:        []domain.ConcessionLine{},
		Step:               domain.StepSeats,
		Occupancy:          occupancy,
		ConcessionsCatalog: concessions,
		PromotionsCatalog:  promotions,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if session.Occupancy == nil {
		session.Occupancy = []domain.SeatID{}
	}
	if session.ConcessionsCatalog == nil {
		session.ConcessionsCatalog = []domain.ConcessionItem{}
	}
	if session.PromotionsCatalog == nil {
		session.PromotionsCatalog = []domain.Promotion{}
	}

	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save checkout session: %w", err)
	}

	if err := s.producer.PublishCheckoutStarted(ctx, session); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish checkout.started event",
			slog.String("session_id", session.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "checkout session started",
		slog.String("session_id", session.ID),
		slog.String("showtime_id", showtimeID),
		slog.Int("occupied_seats", len(session.Occupancy)),
	)

	return session, nil
}

// Get retrieves a checkout session by id.
func (s *CheckoutService) Get(ctx context.Context, sessionID string) (*domain.CheckoutSession, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get checkout session: %w", err)
	}
	return session, nil
}

// ToggleSeat flips one seat in the session's selection. Occupied seats are
// ignored without error.
func (s *CheckoutService) ToggleSeat(ctx context.Context, sessionID string, seat domain.SeatID) (*domain.CheckoutSession, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session for seat toggle: %w", err)
	}

	if session.ToggleSeat(seat) {
		session.UpdatedAt = time.Now().UTC()
		if err := s.store.Save(ctx, session); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
	}

	return session, nil
}

// AddConcession adds one unit of a catalog item to the session.
func (s *CheckoutService) AddConcession(ctx context.Context, sessionID, concessionID string) (*domain.CheckoutSession, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session for concession add: %w", err)
	}

	var item *domain.ConcessionItem
	for i := range session.ConcessionsCatalog {
		if session.ConcessionsCatalog[i].ID == concessionID {
			item = &session.ConcessionsCatalog[i]
			break
		}
	}
	if item == nil {
		return nil, apperrors.NotFound("concession", concessionID)
	}

	session.AddConcession(*item)
	session.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return session, nil
}

// RemoveConcession removes one unit of a concession from the session.
// Unknown ids are a no-op.
func (s *CheckoutService) RemoveConcession(ctx context.Context, sessionID, concessionID string) (*domain.CheckoutSession, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session for concession remove: %w", err)
	}

	session.RemoveConcession(concessionID)
	session.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return session, nil
}

// SelectPromotion sets the active promotion. An empty or unknown id clears
// it; promotions never stack.
func (s *CheckoutService) SelectPromotion(ctx context.Context, sessionID, promotionID string) (*domain.CheckoutSession, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session for promotion select: %w", err)
	}

	session.SelectPromotion(promotionID)
	session.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return session, nil
}

// Continue advances the wizard one step. The move out of seat selection
// requires at least one selected seat.
func (s *CheckoutService) Continue(ctx context.Context, sessionID string) (*domain.CheckoutSession, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session for continue: %w", err)
	}

	if !session.Continue() {
		if session.Step == domain.StepSeats {
			return nil, apperrors.InvalidInput("select at least one seat to continue")
		}
		return nil, apperrors.InvalidInput("cannot continue past confirmation")
	}

	session.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return session, nil
}

// Back moves the wizard one step backward, preserving all selections.
func (s *CheckoutService) Back(ctx context.Context, sessionID string) (*domain.CheckoutSession, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session for back: %w", err)
	}

	if session.Back() {
		session.UpdatedAt = time.Now().UTC()
		if err := s.store.Save(ctx, session); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
	}

	return session, nil
}

// Abandon discards a checkout session without booking anything.
func (s *CheckoutService) Abandon(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete checkout session: %w", err)
	}
	s.logger.InfoContext(ctx, "checkout session abandoned",
		slog.String("session_id", sessionID),
	)
	return nil
}

// ConfirmResult reports a successful submission.
type ConfirmResult struct {
	BookingIDs []string      `json:"booking_ids"`
	Totals     domain.Totals `json:"totals"`
}

// Confirm submits the checkout: one booking write per selected seat, all
// issued concurrently. Only the first-selected seat's booking carries the
// concession list; concessions are bought once per transaction, not once
// per seat. Submission succeeds only if every write succeeds. On any
// failure the session is kept unchanged so the user can retry; bookings
// that did succeed are not compensated.
func (s *CheckoutService) Confirm(ctx context.Context, sessionID, userID, token string) (*ConfirmResult, error) {
	if userID == "" || token == "" {
		return nil, apperrors.Unauthorized("sign in to complete your booking")
	}

	if _, busy := s.inFlight.LoadOrStore(sessionID, struct{}{}); busy {
		return nil, apperrors.Conflict("a confirmation is already in progress for this session")
	}
	defer s.inFlight.Delete(sessionID)

	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session for confirm: %w", err)
	}

	if len(session.Seats) == 0 {
		return nil, apperrors.InvalidInput("select at least one seat before confirming")
	}

	var promoCode *string
	if session.Promotion != nil {
		code := session.Promotion.Code
		promoCode = &code
	}

	concessions := make([]backend.BookingConcession, 0, len(session.Concessions))
	for _, line := range session.Concessions {
		concessions = append(concessions, backend.BookingConcession{
			ConcessionID: line.Item.ID,
			Quantity:     line.Quantity,
		})
	}

	// Build all inputs up front: the seat that carries the concessions is
	// the first in selection order, fixed before the fan-out begins.
	inputs := make([]backend.CreateBookingInput, len(session.Seats))
	for i, seat := range session.Seats {
		input := backend.CreateBookingInput{
			ShowtimeID:    session.Showtime.ID,
			SeatID:        seat,
			TicketType:    TicketTypeStandard,
			Concessions:   []backend.BookingConcession{},
			PromotionCode: promoCode,
		}
		if i == 0 {
			input.Concessions = concessions
		}
		inputs[i] = input
	}

	// Plain group, not WithContext: a sibling failure must not cancel
	// writes already in flight, since partial successes are left standing.
	bookingIDs := make([]string, len(inputs))
	var g errgroup.Group
	for i := range inputs {
		g.Go(func() error {
			booking, err := s.backend.CreateBooking(ctx, token, inputs[i])
			if err != nil {
				return fmt.Errorf("book seat %s: %w", inputs[i].SeatID, err)
			}
			bookingIDs[i] = booking.ID
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// Session is retained untouched for retry.
		if pubErr := s.producer.PublishCheckoutFailed(ctx, session, err.Error()); pubErr != nil {
			s.logger.ErrorContext(ctx, "failed to publish checkout.failed event",
				slog.String("session_id", session.ID),
				slog.String("error", pubErr.Error()),
			)
		}
		s.logger.ErrorContext(ctx, "checkout submission failed",
			slog.String("session_id", session.ID),
			slog.Int("seat_count", len(session.Seats)),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.BookingFailed(err.Error())
	}

	session.UserID = userID
	totals := session.ComputeTotals()

	if err := s.store.Delete(ctx, session.ID); err != nil {
		s.logger.ErrorContext(ctx, "failed to discard completed session",
			slog.String("session_id", session.ID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishCheckoutCompleted(ctx, session, bookingIDs); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish checkout.completed event",
			slog.String("session_id", session.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "checkout completed",
		slog.String("session_id", session.ID),
		slog.String("user_id", userID),
		slog.Int("seat_count", len(session.Seats)),
		slog.Int64("grand_total", totals.GrandTotal),
	)

	return &ConfirmResult{BookingIDs: bookingIDs, Totals: totals}, nil
}
