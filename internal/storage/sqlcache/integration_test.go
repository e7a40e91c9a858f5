//go:build integration

package sqlcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	store     *Store
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	store, err := Open(s.ctx, Config{Driver: DriverPostgres, DSN: connStr})
	s.Require().NoError(err)
	s.store = store
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.store != nil {
		s.store.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, _ = s.store.db.ExecContext(s.ctx, "DELETE FROM countries")
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) TestLoad_Empty() {
	blob, err := s.store.Load(s.ctx)
	s.NoError(err)
	s.Empty(blob)
}

func (s *PostgresIntegrationSuite) TestSaveLoad_RoundTrip() {
	payload := `[{"name":{"common":"Portugal"},"currencies":{"EUR":{"symbol":"€"}}}]`

	s.Require().NoError(s.store.Save(s.ctx, payload))

	blob, err := s.store.Load(s.ctx)
	s.NoError(err)
	s.Equal(payload, blob)
}

func (s *PostgresIntegrationSuite) TestSave_SingleRow() {
	s.Require().NoError(s.store.Save(s.ctx, "first"))
	s.Require().NoError(s.store.Save(s.ctx, "second"))

	var count int
	err := s.store.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM countries")
	s.NoError(err)
	s.Equal(1, count)

	blob, err := s.store.Load(s.ctx)
	s.NoError(err)
	s.Equal("second", blob)
}

func (s *PostgresIntegrationSuite) TestClear_Idempotent() {
	s.Require().NoError(s.store.Save(s.ctx, "payload"))

	s.NoError(s.store.Clear(s.ctx))
	s.NoError(s.store.Clear(s.ctx))

	blob, err := s.store.Load(s.ctx)
	s.NoError(err)
	s.Empty(blob)
}

func (s *PostgresIntegrationSuite) TestOpen_ExistingTable() {
	connStr, err := s.container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	again, err := Open(s.ctx, Config{Driver: DriverPostgres, DSN: connStr})
	s.Require().NoError(err)
	s.NoError(again.Close())
}
