package backend

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/screenhall/web/internal/domain"
)

// GetShowtime fetches one showtime by id. A missing showtime surfaces as
// apperrors.ErrNotFound from the response mapper.
func (c *Client) GetShowtime(ctx context.Context, id string) (*domain.ShowtimeRef, error) {
	var resp envelope[domain.ShowtimeRef]
	if err := c.getJSON(ctx, "/api/v1/showtimes/"+id, nil, "", &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// ListConcessions fetches the full concession catalog.
func (c *Client) ListConcessions(ctx context.Context) ([]domain.ConcessionItem, error) {
	var resp envelope[[]domain.ConcessionItem]
	if err := c.getJSON(ctx, "/api/v1/concessions", nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ListPromotions fetches the full promotion catalog.
func (c *Client) ListPromotions(ctx context.Context) ([]domain.Promotion, error) {
	var resp envelope[[]domain.Promotion]
	if err := c.getJSON(ctx, "/api/v1/promotions", nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// occupancyPayload carries the backend's seat snapshot. The backend reports
// success=false when its own seat query failed even though the HTTP call
// succeeded; callers must treat that the same as a transport error.
type occupancyPayload struct {
	Success bool            `json:"success"`
	Seats   []domain.SeatID `json:"seats"`
}

// GetSeatOccupancy fetches the seats already booked for a showtime. The
// second return value reports whether the snapshot is trustworthy; a false
// value means the caller should fall back to an empty occupancy set.
func (c *Client) GetSeatOccupancy(ctx context.Context, showtimeID string) ([]domain.SeatID, bool, error) {
	q := url.Values{}
	q.Set("showtime", showtimeID)

	var resp envelope[occupancyPayload]
	if err := c.getJSON(ctx, "/api/v1/seats/occupancy", q, "", &resp); err != nil {
		return nil, false, err
	}
	if !resp.Data.Success {
		c.logger.WarnContext(ctx, "backend reported unusable seat occupancy snapshot",
			slog.String("showtime_id", showtimeID),
		)
		return nil, false, nil
	}
	return resp.Data.Seats, true, nil
}

// CreateBookingInput is one per-seat booking write.
type CreateBookingInput struct {
	ShowtimeID    string              `json:"showtime_id"`
	SeatID        domain.SeatID       `json:"seat_id"`
	TicketType    string              `json:"ticket_type"`
	Concessions   []BookingConcession `json:"concessions"`
	PromotionCode *string             `json:"promotion_code"`
}

// BookingConcession is a concession line attached to a booking record.
type BookingConcession struct {
	ConcessionID string `json:"concession_id"`
	Quantity     int    `json:"quantity"`
}

// Booking is a booking record as returned by the backend.
type Booking struct {
	ID            string              `json:"id"`
	UserID        string              `json:"user_id"`
	ShowtimeID    string              `json:"showtime_id"`
	MovieTitle    string              `json:"movie_title"`
	CinemaName    string              `json:"cinema_name"`
	SeatID        domain.SeatID       `json:"seat_id"`
	TicketType    string              `json:"ticket_type"`
	Concessions   []BookingConcession `json:"concessions"`
	PromotionCode *string             `json:"promotion_code"`
	Status        string              `json:"status"`
	Date          string              `json:"date"`
	Time          string              `json:"time"`
	CreatedAt     string              `json:"created_at"`
}

// CreateBooking writes one booking record for one seat. The caller's auth
// token is forwarded so the backend attributes the booking to the user.
func (c *Client) CreateBooking(ctx context.Context, token string, input CreateBookingInput) (*Booking, error) {
	if input.Concessions == nil {
		input.Concessions = []BookingConcession{}
	}

	var resp envelope[Booking]
	if err := c.postJSON(ctx, "/api/v1/bookings", input, &resp, token); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// ListBookings fetches the authenticated user's booking history.
func (c *Client) ListBookings(ctx context.Context, token string) ([]Booking, error) {
	var resp envelope[[]Booking]
	if err := c.getJSON(ctx, "/api/v1/bookings", nil, token, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetBooking fetches one booking owned by the authenticated user.
func (c *Client) GetBooking(ctx context.Context, token, id string) (*Booking, error) {
	var resp envelope[Booking]
	if err := c.getJSON(ctx, "/api/v1/bookings/"+id, nil, token, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}
