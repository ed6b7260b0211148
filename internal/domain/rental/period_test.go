//go:build unit

package rental_test

import (
	"testing"
	"time"

	"library-rental/internal/domain/rental"
	"library-rental/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func period(t *testing.T, fromDay, toDay int) rental.Period {
	t.Helper()
	p, err := rental.NewPeriod(builder.Date(2025, time.January, fromDay), builder.Date(2025, time.January, toDay))
	require.NoError(t, err)
	return p
}

func TestNewPeriod(t *testing.T) {
	t.Run("truncates to calendar dates", func(t *testing.T) {
		jst := time.FixedZone("JST", 9*60*60)
		p, err := rental.NewPeriod(
			time.Date(2025, time.January, 10, 18, 30, 0, 0, jst),
			time.Date(2025, time.January, 12, 7, 0, 0, 0, jst),
		)
		require.NoError(t, err)

		assert.Equal(t, builder.Date(2025, time.January, 10), p.RentalOn())
		assert.Equal(t, builder.Date(2025, time.January, 12), p.ReturnOn())
		assert.Equal(t, 3, p.Days())
	})

	t.Run("calendar day follows the location of the instant", func(t *testing.T) {
		jst := time.FixedZone("JST", 9*60*60)
		instant := time.Date(2025, time.January, 13, 0, 30, 0, 0, jst)

		assert.Equal(t, builder.Date(2025, time.January, 13), rental.DateOf(instant))
		assert.Equal(t, builder.Date(2025, time.January, 12), rental.DateOf(instant.UTC()))
	})

	t.Run("same day is allowed", func(t *testing.T) {
		p := period(t, 10, 10)
		assert.Equal(t, 1, p.Days())
	})

	t.Run("return before rental is rejected", func(t *testing.T) {
		_, err := rental.NewPeriod(builder.Date(2025, time.January, 20), builder.Date(2025, time.January, 19))
		assert.ErrorIs(t, err, rental.ErrReturnBeforeRental)
	})
}

func TestPeriod_Contains(t *testing.T) {
	p := period(t, 10, 20)

	assert.True(t, p.Contains(builder.Date(2025, time.January, 10)))
	assert.True(t, p.Contains(builder.Date(2025, time.January, 15)))
	assert.True(t, p.Contains(builder.Date(2025, time.January, 20)))
	assert.False(t, p.Contains(builder.Date(2025, time.January, 9)))
	assert.False(t, p.Contains(builder.Date(2025, time.January, 21)))
}

func TestOverlaps(t *testing.T) {
	existing := period(t, 10, 20)

	testCases := []struct {
		name     string
		from, to int
		want     bool
	}{
		{name: "overlaps the second half", from: 15, to: 25, want: true},
		{name: "starts on the return day", from: 20, to: 25, want: false},
		{name: "starts the day after return", from: 21, to: 25, want: false},
		{name: "ends on the rental day", from: 5, to: 10, want: false},
		{name: "ends the day after rental", from: 5, to: 11, want: true},
		{name: "inside", from: 12, to: 14, want: true},
		{name: "covers", from: 1, to: 31, want: true},
		{name: "identical", from: 10, to: 20, want: true},
		{name: "entirely before", from: 1, to: 5, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			candidate := period(t, tc.from, tc.to)
			assert.Equal(t, tc.want, rental.Overlaps(existing, candidate))
			assert.Equal(t, tc.want, rental.Overlaps(candidate, existing), "overlap must be symmetric")
		})
	}
}
