package rental

import (
	"errors"
	"time"
)

const DateLayout = "2006-01-02"

var ErrReturnBeforeRental = errors.New("expected return date must not be before expected rental date")

// Period is a closed [rentalOn, returnOn] range of calendar dates.
type Period struct {
	rentalOn time.Time
	returnOn time.Time
}

func NewPeriod(rentalOn, returnOn time.Time) (Period, error) {
	start := DateOf(rentalOn)
	end := DateOf(returnOn)
	if end.Before(start) {
		return Period{}, ErrReturnBeforeRental
	}
	return Period{rentalOn: start, returnOn: end}, nil
}

func (p Period) RentalOn() time.Time { return p.rentalOn }
func (p Period) ReturnOn() time.Time { return p.returnOn }

func (p Period) Days() int {
	return int(p.returnOn.Sub(p.rentalOn).Hours()/24) + 1
}

func (p Period) Contains(day time.Time) bool {
	d := DateOf(day)
	return !d.Before(p.rentalOn) && !d.After(p.returnOn)
}

// Overlaps reports whether two periods share more than a boundary day.
func Overlaps(a, b Period) bool {
	return a.rentalOn.Before(b.returnOn) && a.returnOn.After(b.rentalOn)
}

// DateOf is the calendar day of t in t's own location, as UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
