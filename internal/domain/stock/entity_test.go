//go:build unit

package stock_test

import (
	"testing"

	"library-rental/internal/domain/stock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStock(t *testing.T) {
	testCases := []struct {
		name      string
		id, title string
		status    stock.Status
		errIs     error
		lendable  bool
	}{
		{name: "available copy", id: "S0001", title: "Concurrency in Go", status: stock.StatusAvailable, lendable: true},
		{name: "withdrawn copy", id: "S0004", title: "Refactoring", status: stock.StatusUnavailable, lendable: false},
		{name: "empty id", id: "  ", title: "Refactoring", errIs: stock.ErrEmptyStockID},
		{name: "empty title", id: "S0005", title: "", errIs: stock.ErrEmptyBookTitle},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := stock.NewStock(tc.id, tc.title, tc.status, false)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.lendable, s.IsLendable())
			assert.Equal(t, tc.status, s.Status())
		})
	}
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "available", stock.StatusAvailable.String())
	assert.Equal(t, "unavailable", stock.StatusUnavailable.String())
	assert.Equal(t, "unknown", stock.Status(7).String())
}
