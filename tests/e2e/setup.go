//go:build e2e

// Package e2e runs the rental API against a throwaway PostgreSQL container. Every suite gets
// its own database inside one shared container.
package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"library-rental/cmd/bootstrap"
	"library-rental/cmd/bootstrap/components"
	"library-rental/internal/infra/db"
	"library-rental/internal/pkg/config"
	"library-rental/tests/common/dbtest"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver used by wait.ForSQL
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

const (
	postgresImage    = "postgres:17" // ships btree_gist
	postgresUser     = "rental"
	postgresPassword = "rental"
	postgresPort     = nat.Port("5432/tcp")
)

var (
	containerOnce sync.Once
	container     testcontainers.Container
	containerErr  error
)

type SharedSuite struct {
	suite.Suite
	Router *gin.Engine
	DB     *pgxpool.Pool
	Config config.Config
}

func (s *SharedSuite) SetupSuite() {
	t := s.T()
	gin.SetMode(gin.TestMode)

	cfg := config.NewTestConfig()
	cfg.Store.Driver = config.StoreDriverPostgres
	cfg.DB = createDatabase(t, cfg.DB)

	pool := connect(t, cfg.DB)
	require.NoError(t, applyMigrations(pool), "apply migrations")
	require.NoError(t, dbtest.SeedReferenceData(pool), "seed reference data")

	s.DB = pool
	s.Config = cfg
	s.Router = startApp(t, pool, cfg)
}

// SetupSubTest gives every s.Run a freshly seeded database.
func (s *SharedSuite) SetupSubTest() {
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "reset database")
}

// postgresEndpoint starts the container on first use. Ryuk removes it when the test binary exits.
func postgresEndpoint(t *testing.T) (string, string) {
	t.Helper()
	containerOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()

		container, containerErr = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        postgresImage,
				ExposedPorts: []string{string(postgresPort)},
				Env: map[string]string{
					"POSTGRES_USER":     postgresUser,
					"POSTGRES_PASSWORD": postgresPassword,
					"POSTGRES_DB":       "postgres",
				},
				Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=256m"},
				Cmd:   []string{"postgres", "-c", "fsync=off", "-c", "synchronous_commit=off", "-c", "max_connections=200"},
				WaitingFor: wait.ForSQL(postgresPort, "pgx", func(host string, port nat.Port) string {
					cfg := adminConfig(host, port.Port())
					return cfg.BuildDSN()
				}).WithStartupTimeout(time.Minute),
				Labels: map[string]string{"purpose": "library-rental-e2e"},
			},
			Started: true,
		})
	})
	require.NoError(t, containerErr, "start postgres container")

	ctx := context.Background()
	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, postgresPort)
	require.NoError(t, err)
	return host, port.Port()
}

func adminConfig(host, port string) config.DBConfig {
	cfg := config.NewTestConfig().DB
	cfg.Host = host
	cfg.Port = port
	cfg.User = postgresUser
	cfg.Password = postgresPassword
	cfg.DBName = "postgres"
	return cfg
}

// createDatabase creates a uniquely named database and drops it when the suite ends.
func createDatabase(t *testing.T, base config.DBConfig) config.DBConfig {
	t.Helper()
	host, port := postgresEndpoint(t)
	admin := adminConfig(host, port)
	name := "rental_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	ctx, cancel := context.WithTimeout(context.Background(), admin.ConnectTimeout)
	defer cancel()
	adminPool, err := pgxpool.New(ctx, admin.BuildDSN())
	require.NoError(t, err, "connect as admin")
	defer adminPool.Close()

	// concurrent CREATE DATABASE calls contend for template1
	for attempt := 1; ; attempt++ {
		if _, err = adminPool.Exec(ctx, "CREATE DATABASE "+name); err == nil || attempt == 5 {
			break
		}
		slog.Warn("create database failed, retrying", "database", name, "attempt", attempt, "error", err)
		time.Sleep(time.Duration(attempt) * 300 * time.Millisecond)
	}
	require.NoError(t, err, "create database %s", name)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), admin.ConnectTimeout)
		defer cancel()
		pool, err := pgxpool.New(ctx, admin.BuildDSN())
		if err != nil {
			slog.Warn("drop database skipped", "database", name, "error", err)
			return
		}
		defer pool.Close()
		if _, err := pool.Exec(ctx, "DROP DATABASE IF EXISTS "+name+" WITH (FORCE)"); err != nil {
			slog.Warn("drop database failed", "database", name, "error", err)
		}
	})

	cfg := base
	cfg.Host = host
	cfg.Port = port
	cfg.User = postgresUser
	cfg.Password = postgresPassword
	cfg.DBName = name
	cfg.MaxConns = 20
	return cfg
}

func connect(t *testing.T, cfg config.DBConfig) *pgxpool.Pool {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	pool, closePool, err := db.Connect(ctx, cfg)
	require.NoError(t, err, "connect to %s", cfg.DBName)
	t.Cleanup(closePool)
	return pool
}

// applyMigrations runs migrations/*.sql in name order.
func applyMigrations(pool *pgxpool.Pool) error {
	root, err := moduleRoot()
	if err != nil {
		return err
	}
	files, err := filepath.Glob(filepath.Join(root, "migrations", "*.sql"))
	if err != nil {
		return err
	}
	sort.Strings(files)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, file := range files {
		sqlText, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		if _, err := pool.Exec(ctx, string(sqlText)); err != nil {
			return fmt.Errorf("apply migration %s: %w", filepath.Base(file), err)
		}
	}
	return nil
}

func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found above working directory")
		}
		dir = parent
	}
}

// startApp wires the production modules around the suite's pool and config.
func startApp(t *testing.T, pool *pgxpool.Pool, cfg config.Config) *gin.Engine {
	t.Helper()
	var router *gin.Engine

	app := fx.New(
		fx.Supply(pool, cfg),
		fx.Provide(func() *gin.Engine { return gin.New() }),
		bootstrap.LoggerModule,
		components.PersistenceModule,
		components.UseCaseModule,
		components.HandlerModule,
		fx.Populate(&router),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx), "start application")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			slog.Warn("stop application", "error", err)
		}
	})
	return router
}
