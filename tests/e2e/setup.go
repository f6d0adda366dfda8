//go:build e2e

// Package e2e runs the HTTP surface against a real Postgres in a container.
// One container serves the whole test binary; every suite gets its own
// database, and every subtest starts from empty tables.
package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"qrcard/cmd/bootstrap"
	"qrcard/cmd/bootstrap/components"
	"qrcard/internal/infra/db"
	"qrcard/internal/pkg/config"
	"qrcard/migrations"
	"qrcard/tests/common/dbtest"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

const (
	pgImage    = "postgres:17"
	pgPort     = nat.Port("5432/tcp")
	pgUser     = "test"
	pgPassword = "testpass"
)

// postgresServer is started lazily by the first suite. The container is left
// to the testcontainers reaper so suites still running are never cut off.
type postgresServer struct {
	once sync.Once
	err  error
	host string
	port string
}

var server postgresServer

func (s *postgresServer) ensure(t *testing.T) {
	t.Helper()
	s.once.Do(func() { s.err = s.start() })
	require.NoError(t, s.err, "start PostgreSQL container")
}

func (s *postgresServer) start() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        pgImage,
			ExposedPorts: []string{string(pgPort)},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       "postgres",
			},
			Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=512m"},
			// durability off; the data dir is tmpfs anyway
			Cmd: []string{
				"postgres",
				"-c", "fsync=off",
				"-c", "full_page_writes=off",
				"-c", "synchronous_commit=off",
				"-c", "max_connections=200",
			},
			WaitingFor: wait.ForSQL(pgPort, "pgx", func(host string, port nat.Port) string {
				return dsn(host, port.Port(), "postgres")
			}).WithStartupTimeout(time.Minute),
			Labels: map[string]string{"purpose": "qrcard-e2e"},
		},
		Started: true,
	})
	if err != nil {
		return err
	}

	host, err := c.Host(ctx)
	if err != nil {
		return err
	}
	port, err := c.MappedPort(ctx, pgPort)
	if err != nil {
		return err
	}
	s.host, s.port = host, port.Port()
	slog.Info("PostgreSQL container ready", "host", s.host, "port", s.port)
	return nil
}

func dsn(host, port, database string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", pgUser, pgPassword, host, port, database)
}

// createDatabase makes a fresh database on the shared server and drops it
// when t finishes.
func (s *postgresServer) createDatabase(t *testing.T) config.DBConfig {
	t.Helper()
	name := "qrcard_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	admin := dsn(s.host, s.port, "postgres")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, admin)
	require.NoError(t, err, "connect as admin")
	defer pool.Close()

	// CREATE DATABASE serializes on the template; parallel suites can collide
	for attempt := 1; ; attempt++ {
		if _, err = pool.Exec(ctx, "CREATE DATABASE "+name); err == nil || attempt == 5 {
			break
		}
		slog.Warn("retrying CREATE DATABASE", "attempt", attempt, "error", err)
		time.Sleep(time.Duration(attempt) * 500 * time.Millisecond)
	}
	require.NoError(t, err, "create database %s", name)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		pool, err := pgxpool.New(ctx, admin)
		if err != nil {
			slog.Warn("drop database: connect", "database", name, "error", err)
			return
		}
		defer pool.Close()
		if _, err := pool.Exec(ctx, "DROP DATABASE IF EXISTS "+name+" WITH (FORCE)"); err != nil {
			slog.Warn("drop database", "database", name, "error", err)
		}
	})

	return config.DBConfig{
		Host:     s.host,
		Port:     s.port,
		User:     pgUser,
		Password: pgPassword,
		DBName:   name,
		SSLMode:  "disable",
		TimeZone: "UTC",
		MaxConns: 20,
	}
}

func openMigratedPool(t *testing.T, dbCfg config.DBConfig) *pgxpool.Pool {
	t.Helper()
	pool, closePool, err := db.Connect(dbCfg)
	require.NoError(t, err, "connect to test database")
	t.Cleanup(closePool)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, migrations.Apply(ctx, pool), "apply migrations")
	return pool
}

// startApp wires the production fx graph around pool and the test config,
// skipping config loading and the DB module.
func startApp(t *testing.T, pool *pgxpool.Pool, cfg config.Config) *gin.Engine {
	t.Helper()
	var router *gin.Engine

	app := fx.New(
		fx.Supply(cfg),
		fx.Provide(
			func() *components.Store {
				return &components.Store{Driver: config.StoreDriverPostgres, Postgres: pool}
			},
			func() *gin.Engine { return gin.New() },
		),
		bootstrap.LoggerModule,
		bootstrap.JWTModule,
		bootstrap.ArtifactModule,
		bootstrap.MetricsModule,
		components.RepositoryModule,
		components.UseCaseModule,
		components.HandlerModule,
		fx.Populate(&router),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx), "start fx app")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			slog.Warn("stop fx app", "error", err)
		}
	})
	return router
}

// SharedSuite is embedded by every e2e suite.
type SharedSuite struct {
	suite.Suite
	Router *gin.Engine
	DB     *pgxpool.Pool
	Config config.Config
}

func (s *SharedSuite) SetupSuite() {
	t := s.T()
	gin.SetMode(gin.TestMode)
	server.ensure(t)

	s.Config = config.NewTestConfig()
	s.Config.DB = server.createDatabase(t)
	s.Config.Issuance.ExportDir = t.TempDir()

	s.DB = openMigratedPool(t, s.Config.DB)
	s.Router = startApp(t, s.DB, s.Config)
}

func (s *SharedSuite) SetupSubTest() {
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "reset database")
}
