package checks

import (
	"context"
	"slices"
	"strings"

	"esg-matching/core/reconcile"
)

// ColumnSource returns the live columns of a table; none when it is missing.
type ColumnSource interface {
	Columns(ctx context.Context, table string) ([]string, error)
}

// Table statuses.
const (
	StatusOK             = "ok"
	StatusMissingTable   = "missing_table"
	StatusMissingColumns = "missing_columns"
	// StatusPreparedOnRun marks a result table the run drops or creates.
	StatusPreparedOnRun = "prepared_on_run"
)

// TableReport is the state of one datasource table.
type TableReport struct {
	Datasource string   `json:"datasource"`
	Role       string   `json:"role"`
	Table      string   `json:"table"`
	Exists     bool     `json:"exists"`
	Status     string   `json:"status"`
	Missing    []string `json:"missing,omitempty"`
}

// OK reports whether a run can use the table.
func (r TableReport) OK() bool {
	return r.Status == StatusOK || r.Status == StatusPreparedOnRun
}

// SourceColumns returns the columns a target or referential table must have:
// those its aliases resolve to and those it maps to the result tables.
func SourceColumns(d *reconcile.Descriptor) []string {
	var cols []string
	for alias := range d.Aliases {
		if col, err := d.ColumnByAlias(alias); err == nil {
			cols = append(cols, col)
		}
	}
	for _, m := range d.MapToMatching {
		cols = append(cols, m.Source)
	}
	slices.Sort(cols)
	return slices.Compact(cols)
}

// CheckTable compares a table with the columns it needs. Result tables that
// are dropped, or created when missing, are always usable.
func CheckTable(ctx context.Context, src ColumnSource, d *reconcile.Descriptor, required []string) (TableReport, error) {
	report := TableReport{Datasource: d.Name, Role: string(d.Role), Table: d.Table}

	cols, err := src.Columns(ctx, d.Table)
	if err != nil {
		return TableReport{}, err
	}
	report.Exists = len(cols) > 0

	if d.Role.IsResult() && d.IfTableExists == reconcile.TableDrop {
		report.Status = StatusPreparedOnRun
		return report, nil
	}
	if !report.Exists {
		report.Status = StatusMissingTable
		if d.Role.IsResult() && d.CreateTable {
			report.Status = StatusPreparedOnRun
		}
		return report, nil
	}

	have := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		have[strings.ToLower(c)] = struct{}{}
	}
	for _, c := range required {
		if _, ok := have[strings.ToLower(c)]; !ok {
			report.Missing = append(report.Missing, c)
		}
	}
	report.Status = StatusOK
	if len(report.Missing) > 0 {
		report.Status = StatusMissingColumns
	}
	return report, nil
}
