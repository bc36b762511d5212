package database

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotspotsapp/wifi-directory/internal/domain/repositories"
	"github.com/hotspotsapp/wifi-directory/internal/infrastructure/clients/postgres"
	apperrors "github.com/hotspotsapp/wifi-directory/pkg/errors"
)

var hotspotRowColumns = []string{
	"id", "name", "address", "category", "latitude", "longitude",
	"is_free", "wifi_password", "description", "is_verified",
	"moderation_status", "submitted_by", "average_rating",
	"review_count", "is_sponsored", "created_at",
}

func newMockAdapter(t *testing.T) (*DirectoryAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewDirectoryAdapter(postgres.NewClientFromDB(db)), mock
}

func hotspotRow(mock sqlmock.Sqlmock, id int, name string) *sqlmock.Rows {
	return mock.NewRows(hotspotRowColumns).AddRow(
		id, name, "123 Main St", "cafe", 37.7749, -122.4194,
		true, nil, nil, true,
		"approved", "admin", 4.5,
		2, false, time.Now().UTC(),
	)
}

func TestGetHotspotByID(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`FROM hotspots WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(hotspotRow(mock, 1, "Test Cafe"))

	h, err := adapter.GetHotspotByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, h.ID)
	assert.Equal(t, "Test Cafe", h.Name)
	assert.Nil(t, h.WifiPassword)
	require.NotNil(t, h.SubmittedBy)
	assert.Equal(t, "admin", *h.SubmittedBy)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetHotspotByID_NotFound(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`FROM hotspots WHERE id = \$1`).
		WithArgs(42).
		WillReturnError(sql.ErrNoRows)

	_, err := adapter.GetHotspotByID(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListApproved(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	rows := hotspotRow(mock, 1, "First Cafe").AddRow(
		2, "Second Cafe", "456 Side St", "cafe", 37.78, -122.42,
		true, nil, nil, true,
		"approved", "admin", 0.0,
		0, false, time.Now().UTC(),
	)
	mock.ExpectQuery(`FROM hotspots\s+WHERE moderation_status = 'approved'\s+ORDER BY id`).
		WillReturnRows(rows)

	listed, err := adapter.ListApproved(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "First Cafe", listed[0].Name)
	assert.Equal(t, "Second Cafe", listed[1].Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchHotspots(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`WHERE moderation_status = 'approved'\s+AND \(name ILIKE`).
		WithArgs("%coffee%").
		WillReturnRows(hotspotRow(mock, 1, "Corner Coffee"))

	listed, err := adapter.SearchHotspots(context.Background(), "coffee")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Corner Coffee", listed[0].Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveHotspot_OnlyTouchesPendingRows(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "hotspots" SET "moderation_status"=$1 WHERE (("id" = $2) AND ("moderation_status" = $3))`)).
		WithArgs("approved", 1, "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, adapter.ApproveHotspot(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveHotspot_MissingIDIsNoOp(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectExec(`UPDATE "hotspots"`).
		WithArgs("approved", 999, "pending").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, adapter.ApproveHotspot(context.Background(), 999))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecomputeRating(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectExec(`UPDATE hotspots SET\s+average_rating = COALESCE`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, adapter.RecomputeRating(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The postgres dialect must be registered or goqu falls back to its default
// dialect, whose ? placeholders lib/pq rejects at prepare time.
func TestPreparedStatementsUseNumberedPlaceholders(t *testing.T) {
	adapter, _ := newMockAdapter(t)

	query, args, err := adapter.db.Insert("users").Prepared(true).Rows(goqu.Record{
		"username": "alice",
		"password": "secret",
	}).Returning("id").ToSQL()
	require.NoError(t, err)

	assert.Equal(t, `INSERT INTO "users" ("password", "username") VALUES ($1, $2) RETURNING "id"`, query)
	assert.Equal(t, []interface{}{"secret", "alice"}, args)
}

func TestCreateUser_DuplicateUsernameConflicts(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	// goqu emits record columns alphabetically, password before username.
	mock.ExpectQuery(`INSERT INTO "users"`).
		WithArgs("secret", "alice").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := adapter.CreateUser(context.Background(), repositories.NewUser{
		Username: "alice",
		Password: "secret",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsFavorite(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(7, 1).
		WillReturnRows(mock.NewRows([]string{"exists"}).AddRow(true))

	is, err := adapter.IsFavorite(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.True(t, is)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddFavorite_UsesConflictDoNothing(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectExec(`INSERT INTO favorites (.+) ON CONFLICT \(user_id, hotspot_id\) DO NOTHING`).
		WithArgs(7, 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, adapter.AddFavorite(context.Background(), 7, 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}
