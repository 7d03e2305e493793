package matching

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"esg-matching/core/database"
	"esg-matching/core/reconcile"
	"esg-matching/core/storage"
	"esg-matching/core/storage/mocks"
	"esg-matching/feature/settings"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// spyStore counts table preparations.
type spyStore struct {
	Store
	prepared []string
}

func (s *spyStore) PrepareTable(ctx context.Context, d *reconcile.Descriptor, columns []string) error {
	s.prepared = append(s.prepared, d.Table)
	return s.Store.PrepareTable(ctx, d, columns)
}

func setupService(t *testing.T, mc *mocks.Client) (*Service, *spyStore, *gorm.DB) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	for _, stmt := range []string{
		"CREATE TABLE portfolio (id TEXT, entity_id TEXT, isin TEXT)",
		"INSERT INTO portfolio VALUES ('p1', 'L1', 'US9'), ('p2', 'X', 'US2'), ('p3', 'Y', 'NONE')",
		"CREATE TABLE funds (fund_id TEXT, entity_id TEXT, isin TEXT)",
		"INSERT INTO funds VALUES ('f1', 'X', 'ZZ'), ('f2', 'L2', 'QQ')",
		"CREATE TABLE ref_companies (lei TEXT, company TEXT, isin TEXT)",
		"INSERT INTO ref_companies VALUES ('L1', 'Acme', 'US1'), ('L2', 'Globex', 'US2')",
	} {
		require.NoError(t, db.Exec(stmt).Error)
	}

	s, err := settings.Load(context.Background(), "testdata/esg.yaml")
	require.NoError(t, err)

	var client storage.Client
	bucket := ""
	if mc != nil {
		client, bucket = mc, "reports"
	}

	store := &spyStore{Store: database.NewStore(db, zap.NewNop(), time.Minute)}
	cfg := Config{Policy: "esg", ReportPrefix: "runs/", Enabled: true}
	return NewService(store, s, client, bucket, cfg, zap.NewNop()), store, db
}

type matchRow struct {
	TgtName       string
	TgtID         string
	RefName       string
	MatchingType  string
	MatchingScope string
	MatchingRule  string
	RefCompany    string
}

func TestService_Run(t *testing.T) {
	svc, store, db := setupService(t, nil)

	report, err := svc.Run(context.Background(), RunRequest{})
	require.NoError(t, err)

	assert.Equal(t, "esg", report.Policy)
	assert.NotEmpty(t, report.RunID)
	assert.EqualValues(t, 4, report.Matched)
	assert.Empty(t, report.ReportURI)
	assert.Equal(t, []string{"matching", "no_matching"}, store.prepared)

	require.Len(t, report.Targets, 2)
	portfolio, funds := report.Targets[0], report.Targets[1]
	assert.Equal(t, "portfolio", portfolio.Target)
	assert.EqualValues(t, 3, portfolio.Seeded)
	assert.EqualValues(t, 2, funds.Seeded)

	inserted := func(tr TargetReport) []int64 {
		var n []int64
		for _, s := range tr.Summaries {
			assert.Equal(t, report.RunID, s.RunID)
			n = append(n, s.Inserted)
		}
		return n
	}
	assert.Equal(t, []int64{1, 1, 0}, inserted(portfolio))
	assert.Equal(t, []int64{1, 0, 1}, inserted(funds))

	var matches []matchRow
	require.NoError(t, db.Table("matching").Order("tgt_id").Find(&matches).Error)
	assert.Equal(t, []matchRow{
		{"funds", "f1", "ref_companies", "indirect", "full", "by_entity_indirect", "Globex"},
		{"funds", "f2", "ref_companies", "direct", "full", "by_entity", "Globex"},
		{"portfolio", "p1", "ref_companies", "direct", "full", "by_entity", "Acme"},
		{"portfolio", "p2", "ref_companies", "direct", "residual", "by_isin", "Globex"},
	}, matches)

	var residual []string
	require.NoError(t, db.Table("no_matching").Order("tgt_id").Pluck("tgt_id", &residual).Error)
	assert.Equal(t, []string{"p3"}, residual)

	var runIDs []string
	require.NoError(t, db.Table("matching").Distinct("run_id").Pluck("run_id", &runIDs).Error)
	assert.Equal(t, []string{report.RunID}, runIDs)
}

func TestService_RunIsRepeatable(t *testing.T) {
	svc, _, db := setupService(t, nil)
	ctx := context.Background()

	_, err := svc.Run(ctx, RunRequest{})
	require.NoError(t, err)
	second, err := svc.Run(ctx, RunRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 4, second.Matched)

	// matching is dropped and no_matching cleaned before each run
	var count int64
	require.NoError(t, db.Table("matching").Count(&count).Error)
	assert.EqualValues(t, 4, count)
}

func TestService_RunSubset(t *testing.T) {
	svc, _, db := setupService(t, nil)

	report, err := svc.Run(context.Background(), RunRequest{
		Targets: []string{"portfolio"},
		Types:   []string{"drm", "full"},
	})
	require.NoError(t, err)
	require.Len(t, report.Targets, 1)

	var types []reconcile.RuleType
	for _, s := range report.Targets[0].Summaries {
		types = append(types, s.Type)
	}
	assert.Equal(t, []reconcile.RuleType{reconcile.RuleFull, reconcile.RuleResidual}, types)

	var residual []string
	require.NoError(t, db.Table("no_matching").Pluck("tgt_id", &residual).Error)
	assert.Equal(t, []string{"p3"}, residual)
}

func TestService_ConfigErrorsBeforeMutation(t *testing.T) {
	typoInResidualRule := func(s *settings.Settings) {
		s.Policies["esg"].Rules[reconcile.RuleResidual] = []reconcile.Rule{{Name: "by_isin", Aliases: []string{"isn"}}}
	}
	tests := []struct {
		name    string
		req     RunRequest
		mutate  func(*settings.Settings)
		wantErr error
	}{
		{"UnknownPolicy", RunRequest{Policy: "missing"}, nil, settings.ErrUnknownPolicy},
		{"TypeNotInPolicy", RunRequest{Policy: "lei_only", Types: []string{"residual"}}, nil, reconcile.ErrRuleTypeNotInPolicy},
		{"UnknownType", RunRequest{Types: []string{"fuzzy"}}, nil, reconcile.ErrUnknownRuleType},
		{"TargetNotInPolicy", RunRequest{Policy: "lei_only", Targets: []string{"funds"}}, nil, reconcile.ErrInvalidPolicy},
		{"UnknownTarget", RunRequest{Targets: []string{"portfolio", "ghost"}}, nil, settings.ErrUnknownDatasource},
		// the full rules would commit matches before the residual rule is planned
		{"UnresolvedAlias", RunRequest{}, typoInResidualRule, reconcile.ErrUnresolvedAlias},
		{"UnresolvedAliasSecondTarget", RunRequest{Targets: []string{"funds"}, Types: []string{"full", "residual"}}, typoInResidualRule, reconcile.ErrUnresolvedAlias},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, db := setupService(t, nil)
			if tt.mutate != nil {
				tt.mutate(svc.settings)
			}

			_, err := svc.Run(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, reconcile.IsConfigError(err))
			assert.Empty(t, store.prepared)
			assert.False(t, db.Migrator().HasTable("matching"))
			assert.False(t, db.Migrator().HasTable("no_matching"))
		})
	}
}

func TestService_DryRun(t *testing.T) {
	svc, store, db := setupService(t, nil)
	ctx := context.Background()

	// the result tables must exist for the statements to be planned
	_, err := svc.Run(ctx, RunRequest{Types: []string{"full"}})
	require.NoError(t, err)
	store.prepared = nil

	report, err := svc.Run(ctx, RunRequest{Targets: []string{"funds"}, DryRun: true})
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Empty(t, store.prepared)
	assert.Zero(t, report.Matched)

	require.Len(t, report.Targets, 1)
	for _, s := range report.Targets[0].Summaries {
		assert.True(t, s.DryRun)
		assert.Len(t, s.Statements, 2)
	}

	var count int64
	require.NoError(t, db.Table("matching").Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestService_UploadsReport(t *testing.T) {
	client := mocks.NewClient(t)
	client.On("BucketExists", mock.Anything, "reports").Return(true, nil)
	client.On("PutObject", mock.Anything, "reports", mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "runs/") && strings.HasSuffix(key, ".json")
	}), mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	svc, _, _ := setupService(t, client)
	report, err := svc.Run(context.Background(), RunRequest{})
	require.NoError(t, err)

	assert.Equal(t, "s3://reports/runs/"+report.RunID+".json", report.ReportURI)
	client.AssertExpectations(t)
}

func TestService_UploadFailureKeepsRun(t *testing.T) {
	client := mocks.NewClient(t)
	client.On("BucketExists", mock.Anything, "reports").Return(false, errors.New("connection refused"))

	svc, _, _ := setupService(t, client)
	report, err := svc.Run(context.Background(), RunRequest{})
	require.NoError(t, err)
	assert.Empty(t, report.ReportURI)
	assert.EqualValues(t, 4, report.Matched)
}

func TestService_Policies(t *testing.T) {
	svc, _, _ := setupService(t, nil)

	infos, err := svc.Policies()
	require.NoError(t, err)
	assert.Equal(t, []PolicyInfo{
		{Name: "esg", Referential: "ref_companies", Targets: []string{"portfolio", "funds"}, Types: []string{"full", "residual", "indirect"}},
		{Name: "lei_only", Referential: "ref_companies", Targets: []string{"portfolio"}, Types: []string{"full"}},
	}, infos)
}
