package domain

import "time"

// Wizard steps for the checkout flow.
const (
	StepSeats        = 1
	StepConcessions  = 2
	StepConfirmation = 3
)

// ShowtimeRef identifies one scheduled screening. It is fetched once when a
// checkout session is created and never refreshed for the session's lifetime.
type ShowtimeRef struct {
	ID         string `json:"id"`
	MovieTitle string `json:"movie_title"`
	CinemaName string `json:"cinema_name"`
	ScreenID   string `json:"screen_id"`
	ScreenType string `json:"screen_type"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	// UnitPrice is the per-seat ticket price in cents.
	UnitPrice int64 `json:"unit_price"`
}

// ConcessionCategory classifies concession catalog entries.
type ConcessionCategory string

const (
	CategoryCombo   ConcessionCategory = "combo"
	CategoryPopcorn ConcessionCategory = "popcorn"
	CategoryDrink   ConcessionCategory = "drink"
	CategorySnack   ConcessionCategory = "snack"
	CategoryCandy   ConcessionCategory = "candy"
)

// ConcessionItem is a read-only concession catalog entry.
type ConcessionItem struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Category    ConcessionCategory `json:"category"`
	Price       int64              `json:"price"`
	Description string             `json:"description,omitempty"`
}

// ConcessionLine is a catalog item plus the quantity the user has chosen.
// A line only exists while its quantity is at least 1.
type ConcessionLine struct {
	Item     ConcessionItem `json:"item"`
	Quantity int            `json:"quantity"`
}

// DiscountType distinguishes the two promotion flavors.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Promotion is a discount code applicable to a checkout subtotal.
// Value is a whole percentage for percentage promotions and an amount in
// cents for fixed promotions.
type Promotion struct {
	ID    string       `json:"id"`
	Code  string       `json:"code"`
	Title string       `json:"title"`
	Type  DiscountType `json:"type"`
	Value int64        `json:"value"`
}

// CheckoutSession is the working state of one in-progress booking attempt.
// It owns the showtime, the seats picked so far (in selection order), the
// chosen concessions, the optional promotion, and the wizard step. The
// catalogs and the occupancy snapshot are captured once at session start.
type CheckoutSession struct {
	ID       string      `json:"id"`
	UserID   string      `json:"user_id,omitempty"`
	Showtime ShowtimeRef `json:"showtime"`

	// Seats holds selected seats in the order the user picked them. The
	// first entry is the seat whose booking record carries the concession
	// list at submission.
	Seats       []SeatID         `json:"seats"`
	Concessions []ConcessionLine `json:"concessions"`
	Promotion   *Promotion       `json:"promotion,omitempty"`
	Step        int              `json:"step"`

	Occupancy          []SeatID         `json:"occupancy"`
	ConcessionsCatalog []ConcessionItem `json:"concessions_catalog"`
	PromotionsCatalog  []Promotion      `json:"promotions_catalog"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsOccupied reports whether the seat was already booked when the session
// started.
func (s *CheckoutSession) IsOccupied(seat SeatID) bool {
	for _, o := range s.Occupancy {
		if o == seat {
			return true
		}
	}
	return false
}

// IsSelected reports whether the seat is in the working selection.
func (s *CheckoutSession) IsSelected(seat SeatID) bool {
	return s.seatIndex(seat) >= 0
}

// SeatStateOf returns the session-relative state of a seat.
func (s *CheckoutSession) SeatStateOf(seat SeatID) SeatState {
	if s.IsOccupied(seat) {
		return SeatTaken
	}
	if s.IsSelected(seat) {
		return SeatSelected
	}
	return SeatAvailable
}

// ToggleSeat flips a seat in or out of the selection. Occupied seats are
// ignored entirely. Returns true when the session state changed.
func (s *CheckoutSession) ToggleSeat(seat SeatID) bool {
	if !seat.Valid() || s.IsOccupied(seat) {
		return false
	}
	if i := s.seatIndex(seat); i >= 0 {
		s.Seats = append(s.Seats[:i], s.Seats[i+1:]...)
		return true
	}
	s.Seats = append(s.Seats, seat)
	return true
}

// AddConcession adds one unit of the item to the selection, merging with an
// existing line for the same id.
func (s *CheckoutSession) AddConcession(item ConcessionItem) {
	for i := range s.Concessions {
		if s.Concessions[i].Item.ID == item.ID {
			s.Concessions[i].Quantity++
			return
		}
	}
	s.Concessions = append(s.Concessions, ConcessionLine{Item: item, Quantity: 1})
}

// RemoveConcession removes one unit of the item. A line at quantity 1 is
// deleted; an unknown id is a no-op.
func (s *CheckoutSession) RemoveConcession(id string) {
	for i := range s.Concessions {
		if s.Concessions[i].Item.ID != id {
			continue
		}
		if s.Concessions[i].Quantity > 1 {
			s.Concessions[i].Quantity--
		} else {
			s.Concessions = append(s.Concessions[:i], s.Concessions[i+1:]...)
		}
		return
	}
}

// SelectPromotion replaces the active promotion with the catalog entry for
// the given id. An empty or unknown id clears the promotion.
func (s *CheckoutSession) SelectPromotion(id string) {
	s.Promotion = nil
	if id == "" {
		return
	}
	for i := range s.PromotionsCatalog {
		if s.PromotionsCatalog[i].ID == id {
			p := s.PromotionsCatalog[i]
			s.Promotion = &p
			return
		}
	}
}

// Continue advances the wizard one step. The move from seat selection to
// concessions requires at least one selected seat; the remaining forward
// move is unconditional. Returns false when the transition is rejected.
func (s *CheckoutSession) Continue() bool {
	switch s.Step {
	case StepSeats:
		if len(s.Seats) == 0 {
			return false
		}
		s.Step = StepConcessions
		return true
	case StepConcessions:
		s.Step = StepConfirmation
		return true
	default:
		return false
	}
}

// Back moves the wizard one step backward, preserving all selections.
func (s *CheckoutSession) Back() bool {
	if s.Step <= StepSeats {
		return false
	}
	s.Step--
	return true
}

// TicketSubtotal is seat count times the showtime's unit price, in cents.
func (s *CheckoutSession) TicketSubtotal() int64 {
	return int64(len(s.Seats)) * s.Showtime.UnitPrice
}

// ConcessionSubtotal sums price times quantity over the selected
// concessions, in cents.
func (s *CheckoutSession) ConcessionSubtotal() int64 {
	var total int64
	for _, line := range s.Concessions {
		total += line.Item.Price * int64(line.Quantity)
	}
	return total
}

// Subtotal is tickets plus concessions before any discount.
func (s *CheckoutSession) Subtotal() int64 {
	return s.TicketSubtotal() + s.ConcessionSubtotal()
}

// Discount returns the amount deducted by the active promotion, in cents.
// Percentage promotions truncate toward zero.
func (s *CheckoutSession) Discount() int64 {
	if s.Promotion == nil {
		return 0
	}
	switch s.Promotion.Type {
	case DiscountPercentage:
		return s.Subtotal() * s.Promotion.Value / 100
	case DiscountFixed:
		return s.Promotion.Value
	default:
		return 0
	}
}

// GrandTotal is the subtotal minus the discount. A fixed discount larger
// than the subtotal yields a negative total; the value is reported as-is
// rather than clamped so callers can decide policy.
func (s *CheckoutSession) GrandTotal() int64 {
	return s.Subtotal() - s.Discount()
}

// Totals is a denormalized pricing snapshot for rendering.
type Totals struct {
	TicketSubtotal     int64 `json:"ticket_subtotal"`
	ConcessionSubtotal int64 `json:"concession_subtotal"`
	Subtotal           int64 `json:"subtotal"`
	Discount           int64 `json:"discount"`
	GrandTotal         int64 `json:"grand_total"`
}

// ComputeTotals derives the full pricing breakdown from the current state.
func (s *CheckoutSession) ComputeTotals() Totals {
	return Totals{
		TicketSubtotal:     s.TicketSubtotal(),
		ConcessionSubtotal: s.ConcessionSubtotal(),
		Subtotal:           s.Subtotal(),
		Discount:           s.Discount(),
		GrandTotal:         s.GrandTotal(),
	}
}

func (s *CheckoutSession) seatIndex(seat SeatID) int {
	for i, sel := range s.Seats {
		if sel == seat {
			return i
		}
	}
	return -1
}
