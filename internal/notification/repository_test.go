package notification

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cols = []string{"id", "user_id", "title", "message", "is_read", "created_at"}

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestCreateAndList(t *testing.T) {
	repo, mock := setupMock(t)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO notifications (user_id, title, message) VALUES ($1, $2, $3)")).
		WithArgs(3, "Your booking was approved", "Arena: A\nDate: 2025-12-15").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(1, 3, "Your booking was approved", "Arena: A\nDate: 2025-12-15", false, now))

	n, err := repo.Create(ctx, 3, "Your booking was approved", "Arena: A\nDate: 2025-12-15")
	require.NoError(t, err)
	assert.Equal(t, 1, n.ID)
	assert.False(t, n.IsRead)

	mock.ExpectQuery(regexp.QuoteMeta("FROM notifications WHERE user_id = $1 ORDER BY created_at DESC")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(2, 3, "Your booking was rejected", "Arena: A", false, now).
			AddRow(1, 3, "Your booking was approved", "Arena: A", true, now.Add(-time.Hour)))

	list, err := repo.ListByUser(ctx, 3)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 2, list[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkRead(t *testing.T) {
	repo, mock := setupMock(t)
	query := regexp.QuoteMeta("UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2")

	mock.ExpectExec(query).WithArgs(1, 3).WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.MarkRead(context.Background(), 3, 1))

	mock.ExpectExec(query).WithArgs(1, 4).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.MarkRead(context.Background(), 4, 1), ErrNotificationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
