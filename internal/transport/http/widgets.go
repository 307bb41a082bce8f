package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"esgdash/internal/middleware"
	"esgdash/internal/services"
	api "esgdash/pkg/contracts/api/v1"
	"esgdash/pkg/contracts/domain"
)

// ParseQuery reads the widget parameters. Values that cannot be parsed or
// fail validation are dropped and reported as warnings, so the dashboard
// falls back to its defaults for them.
func ParseQuery(values url.Values, v *middleware.Validator) (services.Query, []domain.Message) {
	var (
		q        api.DashboardQuery
		messages []domain.Message
	)
	warn := func(field, text string) {
		messages = append(messages, domain.Message{Level: domain.MessageWarning, View: field, Text: text})
	}

	q.Sectors = nonEmpty(values["sector"])
	q.Filtered = values.Has("filter")
	q.Metric = strings.TrimSpace(values.Get("metric"))
	q.SortBy = strings.TrimSpace(values.Get("sort_by"))
	q.X = strings.TrimSpace(values.Get("x"))
	q.Y = strings.TrimSpace(values.Get("y"))
	q.Color = strings.TrimSpace(values.Get("color"))

	if raw := values.Get("top_n"); raw != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			warn("top_n", fmt.Sprintf("top_n: %q is not a whole number", raw))
		} else {
			q.TopN = n
		}
	}
	if raw := values.Get("ascending"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if raw == "on" {
			b, err = true, nil
		}
		if err != nil {
			warn("ascending", fmt.Sprintf("ascending: %q is not a boolean", raw))
		} else {
			q.Ascending = b
		}
	}

	for _, fe := range v.ValidateStruct(q) {
		warn(fieldName(fe.Field), fe.Message)
		clearField(&q, fe.Field)
	}

	return services.Query{
		Sectors:   q.Sectors,
		Filtered:  q.Filtered,
		Metric:    q.Metric,
		SortBy:    q.SortBy,
		TopN:      q.TopN,
		Ascending: q.Ascending,
		X:         q.X,
		Y:         q.Y,
		Color:     q.Color,
	}, messages
}

// fieldName strips the element index validator adds for slice fields.
func fieldName(field string) string {
	if i := strings.IndexByte(field, '['); i >= 0 {
		return field[:i]
	}
	return field
}

func clearField(q *api.DashboardQuery, field string) {
	switch fieldName(field) {
	case "sector":
		q.Sectors = nil
	case "metric":
		q.Metric = ""
	case "sort_by":
		q.SortBy = ""
	case "top_n":
		q.TopN = 0
	case "x":
		q.X = ""
	case "y":
		q.Y = ""
	case "color":
		q.Color = ""
	}
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
