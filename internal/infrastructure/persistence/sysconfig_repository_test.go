package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopx/backoffice/internal/domain/shared"
	"github.com/shopx/backoffice/internal/domain/sysconfig"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newMockConfigRepository(t *testing.T) (*GormConfigRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormConfigRepository(gormDB), mock, mockDB
}

func TestGormConfigRepository_FindByGroupAndKey(t *testing.T) {
	t.Run("finds entry by qualified key", func(t *testing.T) {
		repo, mock, mockDB := newMockConfigRepository(t)
		defer mockDB.Close()

		entryID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "group", "key", "value", "type"}).
			AddRow(entryID, "inventory", "expiry_warning_days", "30", "NUMBER")

		mock.ExpectQuery(`SELECT \* FROM "system_configs" WHERE "group" = \$1 AND key = \$2 ORDER BY .* LIMIT .*`).
			WithArgs("inventory", "expiry_warning_days", 1).
			WillReturnRows(rows)

		entry, err := repo.FindByGroupAndKey(context.Background(), "inventory", "expiry_warning_days")

		assert.NoError(t, err)
		assert.NotNil(t, entry)
		assert.Equal(t, "inventory.expiry_warning_days", entry.QualifiedKey())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for unknown key", func(t *testing.T) {
		repo, mock, mockDB := newMockConfigRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "system_configs" WHERE "group" = \$1 AND key = \$2 ORDER BY .* LIMIT .*`).
			WithArgs("inventory", "missing", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		entry, err := repo.FindByGroupAndKey(context.Background(), "inventory", "missing")

		assert.Error(t, err)
		assert.Nil(t, entry)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormConfigRepository_Upsert(t *testing.T) {
	t.Run("writes entry with conflict handling on group and key", func(t *testing.T) {
		repo, mock, mockDB := newMockConfigRepository(t)
		defer mockDB.Close()

		entry, err := sysconfig.NewConfigEntry("inventory", "expiry_warning_days", "45", sysconfig.ValueTypeNumber)
		assert.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "system_configs" .* ON CONFLICT \("group","key"\) DO UPDATE SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Upsert(context.Background(), entry)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormConfigRepository_FindByGroup(t *testing.T) {
	t.Run("lists entries of a group ordered by key", func(t *testing.T) {
		repo, mock, mockDB := newMockConfigRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "group", "key", "value", "type"}).
			AddRow(uuid.New(), "team", "commission_tiers", "[]", "JSON").
			AddRow(uuid.New(), "team", "rollup_depth", "3", "NUMBER")

		mock.ExpectQuery(`SELECT \* FROM "system_configs" WHERE "group" = \$1 ORDER BY key ASC`).
			WithArgs("team").
			WillReturnRows(rows)

		entries, err := repo.FindByGroup(context.Background(), "team")

		assert.NoError(t, err)
		assert.Len(t, entries, 2)
		assert.Equal(t, "commission_tiers", entries[0].Key)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
