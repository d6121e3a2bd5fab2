package domain

import "fmt"

// Seat grid dimensions. Every auditorium exposes the same fixed layout:
// rows A through F, seats 1 through 10 within each row.
const (
	SeatRows       = 6
	SeatsPerRow    = 10
	TotalSeatCount = SeatRows * SeatsPerRow
)

// SeatID identifies one seat as "<Row><Number>", e.g. "A1" or "F10".
type SeatID string

// NewSeatID builds a seat identifier from a zero-based row index and a
// one-based seat number.
func NewSeatID(row, number int) SeatID {
	return SeatID(fmt.Sprintf("%c%d", 'A'+row, number))
}

// Valid reports whether the seat identifier names a seat on the grid.
func (s SeatID) Valid() bool {
	if len(s) < 2 || len(s) > 3 {
		return false
	}
	row := s[0]
	if row < 'A' || row > 'A'+SeatRows-1 {
		return false
	}
	num := 0
	for _, c := range s[1:] {
		if c < '0' || c > '9' {
			return false
		}
		num = num*10 + int(c-'0')
	}
	return num >= 1 && num <= SeatsPerRow
}

// SeatGrid enumerates all seats in row-major order (A1..A10, B1..B10, ...).
func SeatGrid() []SeatID {
	seats := make([]SeatID, 0, TotalSeatCount)
	for row := 0; row < SeatRows; row++ {
		for n := 1; n <= SeatsPerRow; n++ {
			seats = append(seats, NewSeatID(row, n))
		}
	}
	return seats
}

// SeatState describes where a seat currently stands within a checkout
// session. A seat is in exactly one state at any time.
type SeatState string

const (
	SeatAvailable SeatState = "available"
	SeatSelected  SeatState = "selected"
	SeatTaken     SeatState = "taken"
)
