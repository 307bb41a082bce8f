package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"esgdash/internal/dataset"
	"esgdash/internal/shared/testutil"
	"esgdash/pkg/contracts/domain"
)

type mockViewRecorder struct {
	mock.Mock
}

func (m *mockViewRecorder) RecordView(ctx context.Context, view string, skipped bool) {
	m.Called(view, skipped)
}

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Load(ctx context.Context) (*dataset.LoadResult, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*dataset.LoadResult)
	return res, args.Error(1)
}

func (m *mockSource) Reset() { m.Called() }

func (m *mockSource) Candidates() []string {
	return m.Called().Get(0).([]string)
}

func newService(t *testing.T, csv string, opts ...DashboardOption) *DashboardService {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	path := testutil.WriteFixture(t, "sp500esg.csv", csv)
	return NewDashboardService(dataset.NewLoader([]string{path}, logger), logger, opts...)
}

func hasMessage(d *Dashboard, level domain.MessageLevel, view, text string) bool {
	for _, m := range d.Messages {
		if m.Level == level && m.View == view && m.Text == text {
			return true
		}
	}
	return false
}

func messagesFor(d *Dashboard, view string) []domain.Message {
	var out []domain.Message
	for _, m := range d.Messages {
		if m.View == view {
			out = append(out, m)
		}
	}
	return out
}

func TestDashboardService_BuildDefaults(t *testing.T) {
	svc := newService(t, testutil.SampleCSV)

	d, err := svc.Build(context.Background(), Query{}, Interactive)

	require.NoError(t, err)
	require.True(t, d.Available())
	assert.Equal(t, testutil.SampleRows, d.Table.Len())

	w := d.Widgets
	assert.Equal(t, []string{"Energy", "Healthcare", "Technology", "Unknown"}, w.Sectors)
	assert.Equal(t, w.Sectors, w.SelectedSectors)
	assert.Equal(t, "Environment Risk Score", w.Metric)
	assert.Equal(t, "Environment Risk Score", w.SortBy)
	assert.Equal(t, 15, w.TopN)
	assert.False(t, w.Ascending)
	assert.Equal(t, "Environment Risk Score", w.X)
	assert.Equal(t, "Controversy Score", w.Y)
	assert.Equal(t, "Sector", w.Color)

	require.NotNil(t, d.Overview)
	assert.Equal(t, 5, d.Overview.Sample.Len())
	assert.NotEmpty(t, d.Summary)
	assert.Len(t, d.SectorCounts, 4)
	require.NotNil(t, d.Correlation)
	assert.Len(t, d.Correlation.Columns, 5)
	assert.Len(t, d.SectorMeans, 4)
	require.NotNil(t, d.TopN)
	assert.Len(t, d.TopN.Labels, testutil.SampleRows)
	assert.Equal(t, "XOM", d.TopN.Labels[0])
	require.NotNil(t, d.Scatter)
	assert.Equal(t, 1, d.Scatter.Dropped)

	assert.True(t, hasMessage(d, domain.MessageInfo, ViewCorrelation, CorrelationInsight))
	for _, m := range d.Messages {
		assert.NotEqual(t, domain.MessageSkipped, m.Level, m.Text)
		assert.NotEqual(t, domain.MessageError, m.Level, m.Text)
	}
}

func TestDashboardService_SectorFilter(t *testing.T) {
	tests := []struct {
		name        string
		query       Query
		wantRows    int
		wantWarning string
		wantTopN    []string
	}{
		{
			name:     "single sector",
			query:    Query{Sectors: []string{"Technology"}, Filtered: true},
			wantRows: 2,
			wantTopN: []string{"ENPH", "AAPL"},
		},
		{
			name:     "unknown group",
			query:    Query{Sectors: []string{"Unknown"}, Filtered: true},
			wantRows: 1,
			wantTopN: []string{"MMM"},
		},
		{
			name:        "empty selection falls back to all",
			query:       Query{Filtered: true},
			wantRows:    testutil.SampleRows,
			wantWarning: dataset.EmptySelectionWarning,
		},
		{
			name:     "every sector selected",
			query:    Query{Sectors: []string{"Energy", "Healthcare", "Technology", "Unknown"}, Filtered: true},
			wantRows: testutil.SampleRows,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t, testutil.SampleCSV)

			d, err := svc.Build(context.Background(), tt.query, Interactive)

			require.NoError(t, err)
			assert.Equal(t, tt.wantRows, d.Table.Len())
			if tt.wantWarning != "" {
				assert.True(t, hasMessage(d, domain.MessageWarning, "", tt.wantWarning))
			}
			if tt.wantTopN != nil {
				assert.Equal(t, tt.wantTopN, d.TopN.Labels)
			}
		})
	}
}

func TestDashboardService_InvalidWidgetsFallBack(t *testing.T) {
	svc := newService(t, testutil.SampleCSV)
	q := Query{
		Metric:  "Bogus Score",
		SortBy:  "Social Risk Score",
		TopN:    80,
		Sectors: []string{"Mining", "Energy"},
		X:       "Name",
		Color:   "Nope",
	}

	d, err := svc.Build(context.Background(), q, Interactive)

	require.NoError(t, err)
	w := d.Widgets
	assert.Equal(t, "Environment Risk Score", w.Metric)
	assert.Equal(t, "Social Risk Score", w.SortBy)
	assert.Equal(t, 15, w.TopN)
	assert.Equal(t, []string{"Energy"}, w.SelectedSectors)
	assert.Equal(t, "Environment Risk Score", w.X)
	assert.Equal(t, "Sector", w.Color)
	assert.Equal(t, 2, d.Table.Len())

	for _, widget := range []string{"metric", "top_n", "sector", "x", "color"} {
		assert.NotEmpty(t, messagesFor(d, widget), "expected a message for %s", widget)
	}
}

func TestDashboardService_TopNWidget(t *testing.T) {
	svc := newService(t, testutil.SampleCSV, WithDefaultTopN(5))

	d, err := svc.Build(context.Background(), Query{SortBy: "Total ESG Risk score"}, Interactive)
	require.NoError(t, err)
	assert.Equal(t, 5, d.Widgets.TopN)
	assert.Equal(t, []string{"XOM", "CVX", "MMM", "JNJ", "PFE"}, d.TopN.Labels)

	d, err = svc.Build(context.Background(), Query{SortBy: "Total ESG Risk score", TopN: 5, Ascending: true}, Interactive)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "ENPH", "PFE", "JNJ", "MMM"}, d.TopN.Labels)
}

func TestDashboardService_StaticVariant(t *testing.T) {
	svc := newService(t, testutil.SampleCSV)

	d, err := svc.Build(context.Background(), Query{Sectors: []string{"Energy"}, Filtered: true, Metric: "Social Risk Score"}, Static)

	require.NoError(t, err)
	assert.Equal(t, testutil.SampleRows, d.Table.Len())
	assert.Nil(t, d.Scatter)
	assert.Nil(t, d.Widgets.SelectedSectors)
	assert.Equal(t, "Social Risk Score", d.Widgets.Metric)
	assert.Empty(t, messagesFor(d, ViewScatter))
}

func TestDashboardService_NoDataset(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	dir := t.TempDir()
	loader := dataset.NewLoader([]string{filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.csv")}, logger)
	svc := NewDashboardService(loader, logger)

	d, err := svc.Build(context.Background(), Query{}, Interactive)

	assert.ErrorIs(t, err, ErrNoDataset)
	require.NotNil(t, d)
	assert.False(t, d.Available())
	assert.True(t, hasMessage(d, domain.MessageError, "", dataset.MissingDatasetMessage))
	assert.True(t, hasMessage(d, domain.MessageWarning, "", CheckPathHint))
	for _, name := range []string{"a.csv", "b.csv"} {
		assert.True(t, hasMessage(d, domain.MessageInfo, "", "No file at "+filepath.Join(dir, name)))
	}
	assert.Nil(t, d.TopN)
	testutil.AssertLogContains(t, logs, slog.LevelError, "no dataset candidate could be loaded")
}

func TestDashboardService_SkipsViewsWithoutColumns(t *testing.T) {
	rec := &mockViewRecorder{}
	rec.On("RecordView", ViewOverview, false).Once()
	rec.On("RecordView", ViewSummary, false).Once()
	rec.On("RecordView", ViewSectorCounts, true).Once()
	rec.On("RecordView", ViewCorrelation, true).Once()
	rec.On("RecordView", ViewSectorMeans, true).Once()
	rec.On("RecordView", ViewTopN, false).Once()
	rec.On("RecordView", ViewScatter, true).Once()

	svc := newService(t, "Ticker,Total ESG Risk score\nA,10\nB,30\nC,20\n", WithViewRecorder(rec))

	d, err := svc.Build(context.Background(), Query{}, Interactive)

	require.NoError(t, err)
	assert.True(t, hasMessage(d, domain.MessageSkipped, ViewCorrelation, CorrelationSkipped))
	assert.NotEmpty(t, messagesFor(d, ViewSectorCounts))
	assert.NotEmpty(t, messagesFor(d, ViewSectorMeans))
	assert.True(t, hasMessage(d, domain.MessageInfo, "", noSectorColumnNotice))
	require.NotNil(t, d.TopN)
	assert.Equal(t, "Ticker", d.TopN.LabelColumn)
	assert.Equal(t, []string{"B", "C", "A"}, d.TopN.Labels)
	rec.AssertExpectations(t)
}

func TestDashboardService_TextMetricIsSkipped(t *testing.T) {
	csv := "Symbol,Sector,Rating Score,Total ESG Risk score\nA,Tech,high,10\nB,Health,low,20\n"
	svc := newService(t, csv)

	d, err := svc.Build(context.Background(), Query{Metric: "Rating Score", SortBy: "Rating Score"}, Interactive)

	require.NoError(t, err)
	assert.Nil(t, d.SectorMeans)
	assert.Nil(t, d.TopN)
	for _, view := range []string{ViewSectorMeans, ViewTopN} {
		msgs := messagesFor(d, view)
		require.Len(t, msgs, 1)
		assert.Equal(t, domain.MessageSkipped, msgs[0].Level)
		assert.Contains(t, msgs[0].Text, dataset.ErrNotNumeric.Error())
	}
}

func TestDashboard_ViewDTO(t *testing.T) {
	svc := newService(t, "Ticker,Total ESG Risk score\nA,10\nB,30\n")
	d, err := svc.Build(context.Background(), Query{}, Interactive)
	require.NoError(t, err)

	view, err := d.ViewDTO(ViewTopN)
	require.NoError(t, err)
	top, ok := view.(*domain.TopN)
	require.True(t, ok)
	assert.Equal(t, "Top 15 Companies based on Total ESG Risk score", top.Title)
	require.Len(t, top.Companies, 2)
	assert.Equal(t, 1, top.Companies[0].Rank)
	assert.Equal(t, "B", top.Companies[0].Label)

	_, err = d.ViewDTO(ViewCorrelation)
	assert.ErrorIs(t, err, ErrViewSkipped)
	assert.Contains(t, err.Error(), CorrelationSkipped)

	_, err = d.ViewDTO("heatmap")
	assert.ErrorIs(t, err, ErrUnknownView)
}

func TestDashboard_DTOEncodesMissingValues(t *testing.T) {
	csv := "Symbol,Sector,Environment Risk Score,Social Risk Score\nA,Tech,,1\nB,Health,2,2\nC,Health,3,4\n"
	svc := newService(t, csv)
	d, err := svc.Build(context.Background(), Query{}, Interactive)
	require.NoError(t, err)

	dto := d.DTO([]string{"sp500esg.csv"})
	data, err := json.Marshal(dto)
	require.NoError(t, err)

	require.NotNil(t, dto.SectorMeans)
	assert.Equal(t, "Average Environment Risk Score by Sector", dto.SectorMeans.Title)
	last := dto.SectorMeans.Sectors[len(dto.SectorMeans.Sectors)-1]
	assert.Equal(t, "Tech", last.Sector)
	assert.Nil(t, last.Value)
	assert.Contains(t, string(data), `"value":null`)
	assert.True(t, dto.Dataset.Loaded)
	assert.Equal(t, 3, dto.Dataset.Rows)
}

func TestDashboardService_Reload(t *testing.T) {
	src := &mockSource{}
	res := &dataset.LoadResult{Source: "sp500esg.csv"}
	src.On("Reset").Once()
	src.On("Load", mock.Anything).Return(res, nil).Once()

	logger, _ := testutil.NewTestLogger(t)
	svc := NewDashboardService(src, logger)

	got, err := svc.Reload(context.Background())

	require.NoError(t, err)
	assert.Same(t, res, got)
	src.AssertExpectations(t)
}

func TestDashboardService_LoadFailure(t *testing.T) {
	src := &mockSource{}
	src.On("Load", mock.Anything).Return(nil, errors.New("disk on fire"))

	logger, _ := testutil.NewTestLogger(t)
	d, err := NewDashboardService(src, logger).Build(context.Background(), Query{}, Interactive)

	assert.Nil(t, d)
	assert.ErrorContains(t, err, "disk on fire")
	assert.NotErrorIs(t, err, ErrNoDataset)
}
