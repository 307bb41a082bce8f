package services

import (
	"fmt"

	"esgdash/internal/analytics"
	"esgdash/internal/dataset"
	"esgdash/pkg/contracts/domain"
)

// DTO converts the dashboard to its JSON contract.
func (d *Dashboard) DTO(candidates []string) domain.Dashboard {
	out := domain.Dashboard{
		Title:       Title,
		Dataset:     DatasetMeta(d.Load, candidates),
		Widgets:     d.Widgets,
		Messages:    d.Messages,
		GeneratedAt: d.GeneratedAt,
	}
	if out.Messages == nil {
		out.Messages = []domain.Message{}
	}
	if d.Overview != nil {
		out.Overview = overviewDTO(d.Overview)
	}
	if d.Summary != nil {
		out.Summary = summaryDTO(d.Summary)
	}
	if d.SectorCounts != nil {
		out.SectorCounts = sectorValuesDTO(d.SectorCounts)
	}
	if d.Correlation != nil {
		out.Correlation = correlationDTO(d.Correlation)
	}
	if d.SectorMeans != nil {
		out.SectorMeans = &domain.SectorBreakdown{
			Metric:  d.Widgets.Metric,
			Title:   fmt.Sprintf("Average %s by Sector", d.Widgets.Metric),
			Sectors: sectorValuesDTO(d.SectorMeans),
		}
	}
	if d.TopN != nil {
		out.TopN = topNDTO(d.TopN)
	}
	if d.Scatter != nil {
		out.Scatter = scatterDTO(d.Scatter)
	}
	return out
}

// ViewDTO returns the JSON contract of a single view. It fails with
// ErrUnknownView for names outside Views and ErrViewSkipped when the view
// was not built; the skip reason is in the dashboard messages.
func (d *Dashboard) ViewDTO(name string) (any, error) {
	dto := d.DTO(nil)
	var (
		view  any
		built bool
	)
	switch name {
	case ViewOverview:
		view, built = dto.Overview, dto.Overview != nil
	case ViewSummary:
		view, built = dto.Summary, dto.Summary != nil
	case ViewSectorCounts:
		view, built = dto.SectorCounts, dto.SectorCounts != nil
	case ViewCorrelation:
		view, built = dto.Correlation, dto.Correlation != nil
	case ViewSectorMeans:
		view, built = dto.SectorMeans, dto.SectorMeans != nil
	case ViewTopN:
		view, built = dto.TopN, dto.TopN != nil
	case ViewScatter:
		view, built = dto.Scatter, dto.Scatter != nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, name)
	}
	if !built {
		return nil, fmt.Errorf("%w: %s%s", ErrViewSkipped, name, d.reasonFor(name))
	}
	return view, nil
}

func (d *Dashboard) reasonFor(view string) string {
	for _, m := range d.Messages {
		if m.View == view && (m.Level == domain.MessageSkipped || m.Level == domain.MessageError) {
			return ": " + m.Text
		}
	}
	return ""
}

// DatasetMeta describes a load result for the dataset endpoint.
func DatasetMeta(res *dataset.LoadResult, candidates []string) *domain.DatasetMeta {
	meta := &domain.DatasetMeta{
		Candidates:  candidates,
		Columns:     []domain.ColumnMeta{},
		Diagnostics: []domain.Diagnostic{},
	}
	if meta.Candidates == nil {
		meta.Candidates = []string{}
	}
	if res == nil {
		return meta
	}
	meta.Source = res.Source
	meta.LoadedAt = res.LoadedAt
	for _, diag := range res.Diagnostics {
		meta.Diagnostics = append(meta.Diagnostics, domain.Diagnostic{
			Severity: string(diag.Severity),
			Path:     diag.Path,
			Message:  diag.Message,
		})
	}
	if res.Table == nil {
		return meta
	}
	meta.Loaded = true
	meta.Rows = res.Table.Len()
	for i := range res.Table.Columns() {
		col := res.Table.ColumnAt(i)
		meta.Columns = append(meta.Columns, domain.ColumnMeta{Name: col.Name(), Kind: col.Kind().String()})
	}
	return meta
}

func overviewDTO(ov *analytics.Overview) *domain.Overview {
	out := &domain.Overview{Rows: ov.Rows, Columns: ov.Columns, Sample: [][]string{}}
	if ov.Sample != nil {
		for i := 0; i < ov.Sample.Len(); i++ {
			out.Sample = append(out.Sample, ov.Sample.Row(i))
		}
	}
	return out
}

func summaryDTO(summary []analytics.ColumnSummary) []domain.ColumnSummary {
	out := make([]domain.ColumnSummary, len(summary))
	for i, s := range summary {
		out[i] = domain.ColumnSummary{
			Column: s.Column,
			Count:  s.Count,
			Mean:   domain.Float(s.Mean),
			Std:    domain.Float(s.Std),
			Min:    domain.Float(s.Min),
			Q25:    domain.Float(s.Q25),
			Median: domain.Float(s.Median),
			Q75:    domain.Float(s.Q75),
			Max:    domain.Float(s.Max),
		}
	}
	return out
}

func correlationDTO(m *analytics.CorrelationMatrix) *domain.Correlation {
	out := &domain.Correlation{
		Columns: m.Columns,
		Values:  make([][]*float64, len(m.Values)),
		Insight: CorrelationInsight,
	}
	for i, row := range m.Values {
		out.Values[i] = domain.Floats(row)
	}
	return out
}

func sectorValuesDTO(values []analytics.SectorValue) []domain.SectorValue {
	out := make([]domain.SectorValue, len(values))
	for i, v := range values {
		out[i] = domain.SectorValue{Sector: v.Sector, Value: domain.Float(v.Value), Count: v.Count}
	}
	return out
}

func topNDTO(top *analytics.TopNResult) *domain.TopN {
	out := &domain.TopN{
		Title:       top.Title(),
		Metric:      top.Metric,
		Ascending:   top.Ascending,
		N:           top.N,
		LabelColumn: top.LabelColumn,
		Columns:     top.Table.Columns(),
		Companies:   make([]domain.RankedCompany, len(top.Labels)),
	}
	for i := range top.Labels {
		out.Companies[i] = domain.RankedCompany{
			Rank:   i + 1,
			Label:  top.Labels[i],
			Value:  domain.Float(top.Values[i]),
			Fields: top.Table.Row(i),
		}
	}
	return out
}

func scatterDTO(sc *analytics.ScatterResult) *domain.Scatter {
	out := &domain.Scatter{
		X:       sc.X,
		Y:       sc.Y,
		Color:   sc.Color,
		Grouped: sc.ColorIsGroup,
		Groups:  sc.Groups,
		Points:  make([]domain.ScatterPoint, len(sc.Points)),
		Dropped: sc.Dropped,
	}
	for i, p := range sc.Points {
		pt := domain.ScatterPoint{Label: p.Label, X: p.X, Y: p.Y, Group: p.Group}
		if !sc.ColorIsGroup && sc.Color != "" {
			pt.Color = domain.Float(p.Color)
		}
		out.Points[i] = pt
	}
	return out
}
