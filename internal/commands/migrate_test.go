package commands

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"roster/backend/internal/pkg/repository/postgresql"
)

func newDB(t *testing.T) (*postgresql.Database, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return postgresql.NewFromDB(db), mock
}

func expectBookkeeping(mock sqlmock.Sqlmock, version int, dirty bool) {
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO schema_migrations`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT version, dirty FROM schema_migrations`).
		WillReturnRows(sqlmock.NewRows([]string{"version", "dirty"}).AddRow(version, dirty))
}

func TestMigrateUPAppliesNewerVersions(t *testing.T) {
	db, mock := newDB(t)

	expectBookkeeping(mock, 3, false)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS attendances`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE schema_migrations SET version = 4`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`CREATE INDEX IF NOT EXISTS idx_attendances_employee_created`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE schema_migrations SET version = 5`).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, MigrateUP(context.Background(), db, zap.NewNop().Sugar()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUPRetriesDirtyVersion(t *testing.T) {
	db, mock := newDB(t)

	expectBookkeeping(mock, 5, true)
	mock.ExpectExec(`CREATE INDEX IF NOT EXISTS idx_attendances_employee_created`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE schema_migrations SET version = 5`).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, MigrateUP(context.Background(), db, zap.NewNop().Sugar()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUPRecordsFailure(t *testing.T) {
	db, mock := newDB(t)

	expectBookkeeping(mock, 4, false)
	mock.ExpectExec(`CREATE INDEX`).WillReturnError(errors.New("permission denied"))
	mock.ExpectExec(`UPDATE schema_migrations SET error = 'permission denied', version = 5, dirty = true`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := MigrateUP(context.Background(), db, zap.NewNop().Sugar())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrate version 5")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchemeIsOrdered(t *testing.T) {
	for i, s := range scheme {
		assert.Equal(t, i+1, s.Index, s.Description)
	}
}
