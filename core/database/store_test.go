package database

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"esg-matching/core/query"
	"esg-matching/core/reconcile"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupSQLiteStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	return NewStore(db, zap.NewNop(), time.Minute), db
}

func entityBinding() reconcile.Binding {
	return reconcile.Binding{
		Policy: &reconcile.Policy{
			Name:        "entities",
			Referential: "referential",
			Matching:    "matching",
			NoMatching:  "no_matching",
			Rules: map[reconcile.RuleType][]reconcile.Rule{
				reconcile.RuleFull:     {{Name: "by_entity", Aliases: []string{"entity_id"}}},
				reconcile.RuleResidual: {{Name: "by_entity", Aliases: []string{"entity_id"}}},
			},
		},
		Target: &reconcile.Descriptor{
			Name:    "positions",
			Role:    reconcile.RoleTarget,
			Table:   "positions",
			Aliases: map[string]string{"entity_id": "entity_id"},
			MapToMatching: []reconcile.Mapping{
				{Column: "tgt_id", Source: "id"},
				{Column: "tgt_entity_id", Source: "entity_id"},
			},
		},
		Referential: &reconcile.Descriptor{
			Name:          "referential",
			Role:          reconcile.RoleReferential,
			Table:         "referential",
			Aliases:       map[string]string{"entity_id": "entity_id"},
			MapToMatching: []reconcile.Mapping{{Column: "ref_company", Source: "name"}},
		},
		Matching: &reconcile.Descriptor{
			Name: "matching", Role: reconcile.RoleMatching, Table: "matching",
			IfTableExists: reconcile.TableDrop,
		},
		NoMatching: &reconcile.Descriptor{
			Name: "no_matching", Role: reconcile.RoleNoMatching, Table: "no_matching",
			MatchingID: "tgt_id", IfTableExists: reconcile.TableClean, CreateTable: true,
		},
	}
}

func prepareEntities(t *testing.T, store *Store, db *gorm.DB, b reconcile.Binding) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, db.Exec("CREATE TABLE positions (id TEXT, entity_id TEXT)").Error)
	require.NoError(t, db.Exec("INSERT INTO positions VALUES ('1', 'A'), ('2', 'B')").Error)
	require.NoError(t, db.Exec("CREATE TABLE referential (entity_id TEXT, name TEXT)").Error)
	require.NoError(t, db.Exec("INSERT INTO referential VALUES ('A', 'Acme')").Error)

	require.NoError(t, store.PrepareTable(ctx, b.Matching, reconcile.MatchingTableColumns(b.Referential, b.Target)))
	require.NoError(t, store.PrepareTable(ctx, b.NoMatching, reconcile.NoMatchingTableColumns(b.Target)))
	seeded, err := reconcile.Seed(ctx, store, b)
	require.NoError(t, err)
	require.EqualValues(t, 2, seeded)
}

func TestStore_ResidualMatchingOnSQLite(t *testing.T) {
	store, db := setupSQLiteStore(t)
	b := entityBinding()
	prepareEntities(t, store, db, b)
	ctx := context.Background()

	sum, err := reconcile.NewMatcher(reconcile.RuleResidual, b, store, reconcile.Options{RunID: "run-1"}).ExecuteMatching(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, sum.Inserted)
	assert.EqualValues(t, 1, sum.Deleted)

	type matchRow struct {
		TgtName, RefName, MatchingType, MatchingScope, MatchingRule string
		RunID, TgtID, TgtEntityID, RefCompany                       string
	}
	var matches []matchRow
	require.NoError(t, db.Table("matching").Find(&matches).Error)
	assert.Equal(t, []matchRow{{
		TgtName:       "positions",
		RefName:       "referential",
		MatchingType:  "direct",
		MatchingScope: "residual",
		MatchingRule:  "by_entity",
		RunID:         "run-1",
		TgtID:         "1",
		TgtEntityID:   "A",
		RefCompany:    "Acme",
	}}, matches)

	var residual []string
	require.NoError(t, db.Table("no_matching").Order("tgt_id").Pluck("tgt_id", &residual).Error)
	assert.Equal(t, []string{"2"}, residual)

	// A second pass over unchanged data finds nothing left to match
	sum, err = reconcile.NewMatcher(reconcile.RuleResidual, b, store, reconcile.Options{}).ExecuteMatching(ctx)
	require.NoError(t, err)
	assert.Zero(t, sum.Inserted)
	assert.Zero(t, sum.Deleted)

	var count int64
	require.NoError(t, db.Table("matching").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestStore_FullMatchingOnSQLite(t *testing.T) {
	store, db := setupSQLiteStore(t)
	b := entityBinding()
	prepareEntities(t, store, db, b)

	sum, err := reconcile.NewMatcher(reconcile.RuleFull, b, store, reconcile.Options{}).ExecuteMatching(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, sum.Inserted)
	assert.EqualValues(t, 1, sum.Deleted)

	var scopes []string
	require.NoError(t, db.Table("matching").Pluck("matching_scope", &scopes).Error)
	assert.Equal(t, []string{"full"}, scopes)
}

func TestStore_PrepareTable(t *testing.T) {
	store, db := setupSQLiteStore(t)
	ctx := context.Background()
	b := entityBinding()

	// clean creates a missing table when allowed
	require.NoError(t, store.PrepareTable(ctx, b.NoMatching, []string{"tgt_name", "tgt_id"}))
	cols, err := store.Columns(ctx, "no_matching")
	require.NoError(t, err)
	assert.Equal(t, []string{"tgt_name", "tgt_id"}, cols)

	require.NoError(t, db.Exec("INSERT INTO no_matching VALUES ('positions', '1')").Error)
	require.NoError(t, store.PrepareTable(ctx, b.NoMatching, []string{"tgt_name", "tgt_id"}))
	var count int64
	require.NoError(t, db.Table("no_matching").Count(&count).Error)
	assert.Zero(t, count)

	// drop recreates with the new layout and the cache follows
	b.NoMatching.IfTableExists = reconcile.TableDrop
	require.NoError(t, store.PrepareTable(ctx, b.NoMatching, []string{"tgt_name", "tgt_id", "tgt_entity_id"}))
	cols, err = store.Columns(ctx, "no_matching")
	require.NoError(t, err)
	assert.Equal(t, []string{"tgt_name", "tgt_id", "tgt_entity_id"}, cols)

	// clean refuses to create unless allowed
	b.Matching.IfTableExists = reconcile.TableClean
	err = store.PrepareTable(ctx, b.Matching, []string{"tgt_name"})
	assert.ErrorIs(t, err, reconcile.ErrUnknownTable)

	err = store.PrepareTable(ctx, b.Target, []string{"tgt_name"})
	assert.ErrorIs(t, err, reconcile.ErrInvalidDescriptor)
}

func TestStore_ExecMySQL(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db, zap.NewNop(), time.Minute)
	nm := query.T("no_matching")

	del, err := query.DeleteFrom(nm).Where(query.EqualsValue{Column: nm.Col("tgt_name"), Value: "positions"}).Build()
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `no_matching` WHERE `no_matching`.`tgt_name` = ?")).
		WithArgs("positions").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := store.Exec(context.Background(), del)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_TransactionRollsBackOnError(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db, zap.NewNop(), time.Minute)
	nm := query.T("no_matching")
	del, err := query.DeleteFrom(nm).Where(query.EqualsValue{Column: nm.Col("tgt_name"), Value: "positions"}).Build()
	require.NoError(t, err)

	dbErr := errors.New("deadlock found")
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `no_matching`")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `no_matching`")).WillReturnError(dbErr)
	mock.ExpectRollback()

	err = store.Transaction(context.Background(), func(tx reconcile.Executor) error {
		if _, err := tx.Exec(context.Background(), del); err != nil {
			return err
		}
		_, err := tx.Exec(context.Background(), del)
		return err
	})

	assert.ErrorIs(t, err, dbErr)
	assert.ErrorContains(t, err, "storage error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ColumnsAreCached(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db, zap.NewNop(), time.Minute)

	mock.ExpectQuery(regexp.QuoteMeta("FROM information_schema.columns")).
		WithArgs("matching").
		WillReturnRows(sqlmock.NewRows([]string{"field", "type"}).AddRow("tgt_name", "varchar(255)"))

	for i := 0; i < 3; i++ {
		cols, err := store.Columns(context.Background(), "matching")
		require.NoError(t, err)
		assert.Equal(t, []string{"tgt_name"}, cols)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_StructuralErrorsNeverReachTheDatabase(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db, zap.NewNop(), time.Minute)

	_, err := store.Exec(context.Background(), query.InsertStatement{
		Table:   query.T("matching"),
		Columns: []string{"a", "b"},
		Select:  query.SelectStatement{Items: query.Columns(query.T("t").Col("a")), From: query.T("t")},
	})
	assert.ErrorIs(t, err, query.ErrColumnCountMismatch)
	assert.NoError(t, mock.ExpectationsWereMet())
}
