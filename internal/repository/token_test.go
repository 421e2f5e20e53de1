package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumeTokenReturnsRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepository(db)

	now := time.Now()
	mock.ExpectQuery(`UPDATE tokens`).
		WithArgs(sqlmock.AnyArg(), "raw-token", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "type", "token", "expires_at", "used_at", "created_at"}).
			AddRow("t1", "user-1", "invite_link", "raw-token", now.Add(time.Hour), now, now))

	token, err := repo.ConsumeToken("raw-token")
	require.NoError(t, err)
	assert.Equal(t, "user-1", token.UserID)
	assert.True(t, token.IsUsed())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConsumeTokenAlreadyUsed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepository(db)

	// The guarded UPDATE matches no row when the token was consumed
	// or has expired.
	mock.ExpectQuery(`UPDATE tokens`).
		WithArgs(sqlmock.AnyArg(), "stale-token", sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.ConsumeToken("stale-token")
	require.ErrorIs(t, err, ErrTokenNotFound)
}
