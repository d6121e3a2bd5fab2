package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession() *CheckoutSession {
	return &CheckoutSession{
		ID:       "sess-1",
		Showtime: ShowtimeRef{ID: "st-1", MovieTitle: "Arrival", UnitPrice: 1200},
		Step:     StepSeats,
	}
}

// ============================================================================
// SeatID Tests
// ============================================================================

func TestSeatID_Valid(t *testing.T) {
	assert.True(t, SeatID("A1").Valid())
	assert.True(t, SeatID("F10").Valid())
	assert.True(t, SeatID("C7").Valid())
}

func TestSeatID_Invalid(t *testing.T) {
	assert.False(t, SeatID("G1").Valid())
	assert.False(t, SeatID("A0").Valid())
	assert.False(t, SeatID("A11").Valid())
	assert.False(t, SeatID("A").Valid())
	assert.False(t, SeatID("").Valid())
	assert.False(t, SeatID("AA").Valid())
}

func TestSeatGrid_SixtySeats(t *testing.T) {
	grid := SeatGrid()
	require.Len(t, grid, 60)
	assert.Equal(t, SeatID("A1"), grid[0])
	assert.Equal(t, SeatID("A10"), grid[9])
	assert.Equal(t, SeatID("F10"), grid[59])
	for _, s := range grid {
		assert.True(t, s.Valid(), "seat %s should be valid", s)
	}
}

// ============================================================================
// ToggleSeat Tests
// ============================================================================

func TestToggleSeat_SelectsAvailableSeat(t *testing.T) {
	s := newTestSession()
	assert.True(t, s.ToggleSeat("B3"))
	assert.Equal(t, []SeatID{"B3"}, s.Seats)
	assert.Equal(t, SeatSelected, s.SeatStateOf("B3"))
}

func TestToggleSeat_OccupiedSeatIsNoOp(t *testing.T) {
	s := newTestSession()
	s.Occupancy = []SeatID{"B3"}

	assert.False(t, s.ToggleSeat("B3"))
	assert.Empty(t, s.Seats)
	assert.Equal(t, SeatTaken, s.SeatStateOf("B3"))
}

func TestToggleSeat_TwiceRestoresPriorState(t *testing.T) {
	s := newTestSession()
	s.ToggleSeat("A1")
	before := append([]SeatID(nil), s.Seats...)

	s.ToggleSeat("C5")
	s.ToggleSeat("C5")
	assert.Equal(t, before, s.Seats)
}

func TestToggleSeat_PreservesSelectionOrder(t *testing.T) {
	s := newTestSession()
	s.ToggleSeat("D4")
	s.ToggleSeat("A1")
	s.ToggleSeat("B2")
	assert.Equal(t, []SeatID{"D4", "A1", "B2"}, s.Seats)

	// Removing the middle seat keeps the remaining order intact.
	s.ToggleSeat("A1")
	assert.Equal(t, []SeatID{"D4", "B2"}, s.Seats)
}

func TestToggleSeat_InvalidSeatIsNoOp(t *testing.T) {
	s := newTestSession()
	assert.False(t, s.ToggleSeat("Z99"))
	assert.Empty(t, s.Seats)
}

// ============================================================================
// Concession Tests
// ============================================================================

func TestAddConcession_NewItemStartsAtOne(t *testing.T) {
	s := newTestSession()
	s.AddConcession(ConcessionItem{ID: "c-1", Name: "Popcorn", Price: 550})

	require.Len(t, s.Concessions, 1)
	assert.Equal(t, 1, s.Concessions[0].Quantity)
}

func TestAddConcession_ExistingItemIncrements(t *testing.T) {
	s := newTestSession()
	item := ConcessionItem{ID: "c-1", Name: "Popcorn", Price: 550}
	s.AddConcession(item)
	s.AddConcession(item)

	require.Len(t, s.Concessions, 1)
	assert.Equal(t, 2, s.Concessions[0].Quantity)
}

func TestRemoveConcession_DecrementsAboveOne(t *testing.T) {
	s := newTestSession()
	item := ConcessionItem{ID: "c-1", Name: "Popcorn", Price: 550}
	s.AddConcession(item)
	s.AddConcession(item)

	s.RemoveConcession("c-1")
	require.Len(t, s.Concessions, 1)
	assert.Equal(t, 1, s.Concessions[0].Quantity)
}

func TestRemoveConcession_DeletesAtQuantityOne(t *testing.T) {
	s := newTestSession()
	s.AddConcession(ConcessionItem{ID: "c-1", Name: "Popcorn", Price: 550})

	s.RemoveConcession("c-1")
	assert.Empty(t, s.Concessions)
}

func TestRemoveConcession_UnknownIDIsNoOp(t *testing.T) {
	s := newTestSession()
	s.AddConcession(ConcessionItem{ID: "c-1", Name: "Popcorn", Price: 550})

	s.RemoveConcession("c-999")
	require.Len(t, s.Concessions, 1)
	assert.Equal(t, 1, s.Concessions[0].Quantity)
}

func TestConcessions_QuantityNeverZeroWhilePresent(t *testing.T) {
	s := newTestSession()
	item := ConcessionItem{ID: "c-1", Price: 300}
	s.AddConcession(item)
	s.AddConcession(item)
	s.AddConcession(item)

	for i := 0; i < 3; i++ {
		for _, line := range s.Concessions {
			assert.GreaterOrEqual(t, line.Quantity, 1)
		}
		s.RemoveConcession("c-1")
	}
	assert.Empty(t, s.Concessions)
}

// ============================================================================
// Promotion Tests
// ============================================================================

func TestSelectPromotion_FromCatalog(t *testing.T) {
	s := newTestSession()
	s.PromotionsCatalog = []Promotion{
		{ID: "p-1", Code: "TEN", Type: DiscountPercentage, Value: 10},
		{ID: "p-2", Code: "FLAT8", Type: DiscountFixed, Value: 800},
	}

	s.SelectPromotion("p-2")
	require.NotNil(t, s.Promotion)
	assert.Equal(t, "FLAT8", s.Promotion.Code)
}

func TestSelectPromotion_ReplacesNotStacks(t *testing.T) {
	s := newTestSession()
	s.PromotionsCatalog = []Promotion{
		{ID: "p-1", Type: DiscountPercentage, Value: 10},
		{ID: "p-2", Type: DiscountFixed, Value: 800},
	}

	s.SelectPromotion("p-1")
	s.SelectPromotion("p-2")
	require.NotNil(t, s.Promotion)
	assert.Equal(t, "p-2", s.Promotion.ID)
}

func TestSelectPromotion_UnknownIDClears(t *testing.T) {
	s := newTestSession()
	s.PromotionsCatalog = []Promotion{{ID: "p-1", Type: DiscountPercentage, Value: 10}}

	s.SelectPromotion("p-1")
	s.SelectPromotion("p-404")
	assert.Nil(t, s.Promotion)
}

func TestSelectPromotion_EmptyIDClears(t *testing.T) {
	s := newTestSession()
	s.PromotionsCatalog = []Promotion{{ID: "p-1", Type: DiscountPercentage, Value: 10}}

	s.SelectPromotion("p-1")
	s.SelectPromotion("")
	assert.Nil(t, s.Promotion)
}

// ============================================================================
// Totals Tests
// ============================================================================

// Three $12.00 seats, popcorn $5.50 x2, soda $3.00 x1, 10% promotion.
func TestTotals_PercentagePromotion(t *testing.T) {
	s := newTestSession()
	s.ToggleSeat("A1")
	s.ToggleSeat("A2")
	s.ToggleSeat("A3")
	popcorn := ConcessionItem{ID: "c-1", Name: "Popcorn", Price: 550}
	soda := ConcessionItem{ID: "c-2", Name: "Soda", Price: 300}
	s.AddConcession(popcorn)
	s.AddConcession(popcorn)
	s.AddConcession(soda)
	s.PromotionsCatalog = []Promotion{{ID: "p-1", Type: DiscountPercentage, Value: 10}}
	s.SelectPromotion("p-1")

	totals := s.ComputeTotals()
	assert.Equal(t, int64(3600), totals.TicketSubtotal)
	assert.Equal(t, int64(1400), totals.ConcessionSubtotal)
	assert.Equal(t, int64(5000), totals.Subtotal)
	assert.Equal(t, int64(500), totals.Discount)
	assert.Equal(t, int64(4500), totals.GrandTotal)
}

func TestTotals_FixedPromotion(t *testing.T) {
	s := newTestSession()
	s.ToggleSeat("A1")
	s.ToggleSeat("A2")
	s.ToggleSeat("A3")
	popcorn := ConcessionItem{ID: "c-1", Name: "Popcorn", Price: 550}
	soda := ConcessionItem{ID: "c-2", Name: "Soda", Price: 300}
	s.AddConcession(popcorn)
	s.AddConcession(popcorn)
	s.AddConcession(soda)
	s.PromotionsCatalog = []Promotion{{ID: "p-2", Type: DiscountFixed, Value: 800}}
	s.SelectPromotion("p-2")

	totals := s.ComputeTotals()
	assert.Equal(t, int64(800), totals.Discount)
	assert.Equal(t, int64(4200), totals.GrandTotal)
}

func TestTotals_NoPromotion(t *testing.T) {
	s := newTestSession()
	s.ToggleSeat("A1")

	totals := s.ComputeTotals()
	assert.Equal(t, int64(0), totals.Discount)
	assert.Equal(t, int64(1200), totals.GrandTotal)
}

// A fixed discount larger than the subtotal produces a negative grand
// total; the computation reports it unclamped.
func TestTotals_FixedDiscountExceedsSubtotal(t *testing.T) {
	s := newTestSession()
	s.ToggleSeat("A1")
	s.PromotionsCatalog = []Promotion{{ID: "p-big", Type: DiscountFixed, Value: 5000}}
	s.SelectPromotion("p-big")

	assert.Equal(t, int64(1200), s.Subtotal())
	assert.Equal(t, int64(-3800), s.GrandTotal())
}

func TestTotals_PercentageTruncates(t *testing.T) {
	s := newTestSession()
	s.Showtime.UnitPrice = 999
	s.ToggleSeat("A1")
	s.PromotionsCatalog = []Promotion{{ID: "p-1", Type: DiscountPercentage, Value: 10}}
	s.SelectPromotion("p-1")

	// 999 * 10 / 100 = 99 with integer truncation.
	assert.Equal(t, int64(99), s.Discount())
	assert.Equal(t, int64(900), s.GrandTotal())
}

func TestTotals_EmptySession(t *testing.T) {
	s := newTestSession()
	totals := s.ComputeTotals()
	assert.Equal(t, int64(0), totals.Subtotal)
	assert.Equal(t, int64(0), totals.GrandTotal)
}

// ============================================================================
// Step Transition Tests
// ============================================================================

func TestContinue_RejectedWithoutSeats(t *testing.T) {
	s := newTestSession()
	assert.False(t, s.Continue())
	assert.Equal(t, StepSeats, s.Step)
}

func TestContinue_AdvancesWithSeats(t *testing.T) {
	s := newTestSession()
	s.ToggleSeat("A1")

	assert.True(t, s.Continue())
	assert.Equal(t, StepConcessions, s.Step)
}

func TestContinue_ConcessionsToConfirmationUnconditional(t *testing.T) {
	s := newTestSession()
	s.ToggleSeat("A1")
	s.Continue()

	assert.True(t, s.Continue())
	assert.Equal(t, StepConfirmation, s.Step)
}

func TestContinue_NoStepPastConfirmation(t *testing.T) {
	s := newTestSession()
	s.ToggleSeat("A1")
	s.Continue()
	s.Continue()

	assert.False(t, s.Continue())
	assert.Equal(t, StepConfirmation, s.Step)
}

func TestBack_PreservesState(t *testing.T) {
	s := newTestSession()
	s.ToggleSeat("A1")
	s.AddConcession(ConcessionItem{ID: "c-1", Price: 550})
	s.Continue()
	s.Continue()

	assert.True(t, s.Back())
	assert.Equal(t, StepConcessions, s.Step)
	assert.True(t, s.Back())
	assert.Equal(t, StepSeats, s.Step)
	assert.Equal(t, []SeatID{"A1"}, s.Seats)
	assert.Len(t, s.Concessions, 1)
}

func TestBack_RejectedAtFirstStep(t *testing.T) {
	s := newTestSession()
	assert.False(t, s.Back())
	assert.Equal(t, StepSeats, s.Step)
}
