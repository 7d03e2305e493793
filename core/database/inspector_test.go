package database

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestGetTableColumns(t *testing.T) {
	// Setup In-Memory DB
	cfg := Config{
		Driver: "sqlite",
		Name:   ":memory:",
	}
	db, err := Connect(cfg)
	assert.NoError(t, err)
	assert.NotNil(t, db)

	err = db.Exec("CREATE TABLE ref_companies (LEI TEXT NOT NULL PRIMARY KEY, name TEXT, isin VARCHAR(12))").Error
	assert.NoError(t, err)

	columns, err := GetTableColumns(db, "ref_companies")
	assert.NoError(t, err)
	require.Len(t, columns, 3)

	// Table order and declared case are kept
	assert.Equal(t, []string{"LEI", "name", "isin"}, ColumnNames(columns))
	assert.Equal(t, "text", columns[0].Type)
	assert.Equal(t, "PRI", columns[0].Key)
	assert.Equal(t, "NO", columns[0].Null)
	assert.Equal(t, "varchar(12)", columns[2].Type)

	// PRAGMA table_info returns nothing for a missing table
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestGetTableColumns_MySQL(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ?")).
		WithArgs("matching").
		WillReturnRows(sqlmock.NewRows([]string{"field", "type", "null", "key", "default", "extra"}).
			AddRow("tgt_name", "VARCHAR(255)", "YES", "", nil, "").
			AddRow("tgt_id", "VARCHAR(255)", "YES", "", nil, ""))

	columns, err := GetTableColumns(db, "matching")
	require.NoError(t, err)
	assert.Equal(t, []string{"tgt_name", "tgt_id"}, ColumnNames(columns))
	assert.Equal(t, "varchar(255)", columns[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}
