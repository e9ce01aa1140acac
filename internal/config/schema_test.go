package config

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSchemaCreatesEveryTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for range schemaDDL {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, EnsureSchema(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingSeatListFitsLargeCoaches(t *testing.T) {
	var bookings string
	for _, ddl := range schemaDDL {
		if strings.Contains(ddl, "CREATE TABLE IF NOT EXISTS bookings ") {
			bookings = ddl
		}
	}
	require.NotEmpty(t, bookings)
	// a full hold on a 200-seat coach joins to well over 512 characters
	assert.Contains(t, bookings, "seat_numbers TEXT NOT NULL")
}
