//go:build integration
// +build integration

package integration

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/fairway/competitions/internal/db"
)

func setupTestDB(t *testing.T) *sql.DB {
	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:17.7",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	database, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	require.NoError(t, database.Ping())

	version, err := db.Migrate(database)
	require.NoError(t, err)
	require.NotZero(t, version)

	t.Cleanup(func() {
		database.Close()
		require.NoError(t, postgresContainer.Terminate(ctx))
	})

	return database
}

func insertUser(t *testing.T, database *sql.DB, email string, handicap float64) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := database.Exec(
		`INSERT INTO users (id, email, first_name, last_name, handicap) VALUES ($1, $2, 'Test', 'Player', $3)`,
		id, email, handicap,
	)
	require.NoError(t, err)
	return id
}

func countRows(t *testing.T, database *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}
