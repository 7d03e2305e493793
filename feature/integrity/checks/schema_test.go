package checks

import (
	"context"
	"errors"
	"testing"

	"esg-matching/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeColumns map[string][]string

func (f fakeColumns) Columns(_ context.Context, table string) ([]string, error) {
	if table == "broken" {
		return nil, errors.New("storage error: connection refused")
	}
	return f[table], nil
}

func target() *reconcile.Descriptor {
	return &reconcile.Descriptor{
		Name:       "portfolio",
		Role:       reconcile.RoleTarget,
		Table:      "portfolio",
		Attributes: map[string]string{"entity_id": "ENTITY_ID"},
		Aliases:    map[string]string{"entity": "entity_id", "isin": "isin"},
		MapToMatching: []reconcile.Mapping{
			{Column: "tgt_id", Source: "id"},
			{Column: "tgt_isin", Source: "isin"},
		},
	}
}

func TestSourceColumns(t *testing.T) {
	assert.Equal(t, []string{"ENTITY_ID", "id", "isin"}, SourceColumns(target()))
}

func TestCheckTable(t *testing.T) {
	src := fakeColumns{
		"portfolio":   {"ID", "entity_id", "isin"},
		"partial":     {"id"},
		"no_matching": {"tgt_name", "tgt_id"},
	}
	ctx := context.Background()

	t.Run("Complete", func(t *testing.T) {
		r, err := CheckTable(ctx, src, target(), SourceColumns(target()))
		require.NoError(t, err)
		assert.True(t, r.Exists)
		assert.Equal(t, StatusOK, r.Status)
		assert.True(t, r.OK())
	})

	t.Run("MissingColumns", func(t *testing.T) {
		d := target()
		d.Table = "partial"
		r, err := CheckTable(ctx, src, d, SourceColumns(d))
		require.NoError(t, err)
		assert.Equal(t, StatusMissingColumns, r.Status)
		assert.Equal(t, []string{"ENTITY_ID", "isin"}, r.Missing)
		assert.False(t, r.OK())
	})

	t.Run("MissingTable", func(t *testing.T) {
		d := target()
		d.Table = "ghost"
		r, err := CheckTable(ctx, src, d, nil)
		require.NoError(t, err)
		assert.False(t, r.Exists)
		assert.Equal(t, StatusMissingTable, r.Status)
	})

	t.Run("DroppedResultTable", func(t *testing.T) {
		d := &reconcile.Descriptor{Name: "matching", Role: reconcile.RoleMatching, Table: "matching", IfTableExists: reconcile.TableDrop}
		r, err := CheckTable(ctx, src, d, []string{"tgt_name"})
		require.NoError(t, err)
		assert.Equal(t, StatusPreparedOnRun, r.Status)
	})

	t.Run("CleanedResultTable", func(t *testing.T) {
		d := &reconcile.Descriptor{Name: "nm", Role: reconcile.RoleNoMatching, Table: "no_matching",
			MatchingID: "tgt_id", IfTableExists: reconcile.TableClean}
		r, err := CheckTable(ctx, src, d, []string{"tgt_name", "tgt_id", "tgt_isin"})
		require.NoError(t, err)
		assert.Equal(t, []string{"tgt_isin"}, r.Missing)

		d.Table = "absent"
		r, err = CheckTable(ctx, src, d, nil)
		require.NoError(t, err)
		assert.Equal(t, StatusMissingTable, r.Status)

		d.CreateTable = true
		r, err = CheckTable(ctx, src, d, nil)
		require.NoError(t, err)
		assert.Equal(t, StatusPreparedOnRun, r.Status)
	})

	t.Run("StorageError", func(t *testing.T) {
		d := target()
		d.Table = "broken"
		_, err := CheckTable(ctx, src, d, nil)
		assert.ErrorContains(t, err, "connection refused")
	})
}
