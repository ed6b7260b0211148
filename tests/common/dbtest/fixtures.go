//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"library-rental/internal/infra/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// Reference rows shared by the e2e suites.
const (
	EmployeeHanako = "E0001"
	EmployeeTaro   = "E0002"

	StockGoBook          = "S0001"
	StockConcurrencyBook = "S0002"
	StockWithdrawn       = "S0004"
)

func CreateTestAccount(t *testing.T, dbtx db.DBTX, employeeID, name string) {
	t.Helper()

	_, err := dbtx.Exec(context.Background(),
		"INSERT INTO accounts (employee_id, name, email) VALUES ($1, $2, $3) ON CONFLICT (employee_id) DO NOTHING",
		employeeID, name, strings.ToLower(employeeID)+"@example.com")
	require.NoError(t, err)
}

func CreateTestStock(t *testing.T, dbtx db.DBTX, id, title string, status int16) {
	t.Helper()

	_, err := dbtx.Exec(context.Background(),
		"INSERT INTO stocks (id, book_title, status) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING",
		id, title, status)
	require.NoError(t, err)
}

// CreateTestRental inserts directly, bypassing the use case checks.
func CreateTestRental(t *testing.T, dbtx db.DBTX, employeeID, stockID string, rentalOn, returnOn time.Time, status int16) int64 {
	t.Helper()

	var id int64
	err := dbtx.QueryRow(context.Background(),
		`INSERT INTO rentals (employee_id, stock_id, expected_rental_on, expected_return_on, status)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		employeeID, stockID, rentalOn, returnOn, status).Scan(&id)
	require.NoError(t, err)
	return id
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO accounts (employee_id, name, email) VALUES
		    ('E0001', 'Hanako Sato', 'hanako.sato@example.com'),
		    ('E0002', 'Taro Suzuki', 'taro.suzuki@example.com')
		ON CONFLICT (employee_id) DO NOTHING;
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO stocks (id, book_title, status) VALUES
		    ('S0001', 'The Go Programming Language', 0),
		    ('S0002', 'Concurrency in Go', 0),
		    ('S0004', 'Refactoring', 1)
		ON CONFLICT (id) DO NOTHING;
	`)
	return err
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
