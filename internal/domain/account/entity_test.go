//go:build unit

package account_test

import (
	"testing"

	"library-rental/internal/domain/account"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount(t *testing.T) {
	t.Run("display name includes the employee id", func(t *testing.T) {
		a, err := account.NewAccount(" E0001 ", " Hanako Sato ", "hanako.sato@example.com")
		require.NoError(t, err)

		assert.Equal(t, "E0001", a.EmployeeID())
		assert.Equal(t, "Hanako Sato", a.Name())
		assert.Equal(t, "Hanako Sato (E0001)", a.DisplayName())
	})

	t.Run("falls back to the employee id", func(t *testing.T) {
		a, err := account.NewAccount("E0009", "", "")
		require.NoError(t, err)
		assert.Equal(t, "E0009", a.DisplayName())
	})

	t.Run("employee id is required", func(t *testing.T) {
		_, err := account.NewAccount("", "Nobody", "")
		assert.ErrorIs(t, err, account.ErrEmptyEmployeeID)
	})
}
