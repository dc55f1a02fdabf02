package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTables(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer dbMock.Close()

	for _, table := range []string{"users", "user_profiles", "clothing_items", "outfit_recommendations", "daily_usage"} {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS " + table + " ").
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	c := &Clients{DB: sqlx.NewDb(dbMock, "sqlmock")}
	require.NoError(t, c.CreateTables(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTablesStopsOnError(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer dbMock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").
		WillReturnError(errors.New("permission denied"))

	c := &Clients{DB: sqlx.NewDb(dbMock, "sqlmock")}
	err = c.CreateTables(context.Background())
	assert.ErrorContains(t, err, "users")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewClientsOptionalBackends(t *testing.T) {
	c, err := NewClients(context.Background(), "", RedisOptions{})
	require.NoError(t, err)
	assert.Nil(t, c.DB)
	assert.Nil(t, c.Redis)

	mr := miniredis.RunT(t)
	c, err = NewClients(context.Background(), "", RedisOptions{Addr: mr.Addr()})
	require.NoError(t, err)
	defer c.Close()
	assert.NotNil(t, c.Redis)
}
