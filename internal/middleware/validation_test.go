package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widgetInput struct {
	TopN   int    `query:"top_n" validate:"gte=5,lte=50"`
	Format string `query:"format" validate:"omitempty,oneof=png svg"`
	Chart  string `json:"chart" validate:"required,slug"`
}

func TestValidator_ValidateStruct(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name       string
		input      widgetInput
		wantFields []string
	}{
		{"valid", widgetInput{TopN: 15, Format: "png", Chart: "top-n"}, nil},
		{"top n too small", widgetInput{TopN: 4, Chart: "scatter"}, []string{"top_n"}},
		{"top n too large", widgetInput{TopN: 51, Chart: "scatter"}, []string{"top_n"}},
		{"bad format and slug", widgetInput{TopN: 10, Format: "gif", Chart: "Top_N"}, []string{"format", "chart"}},
		{"missing chart", widgetInput{TopN: 10}, []string{"chart"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.ValidateStruct(tt.input)
			if tt.wantFields == nil {
				assert.Nil(t, errs)
				return
			}
			require.Len(t, errs, len(tt.wantFields))
			for i, field := range tt.wantFields {
				assert.Equal(t, field, errs[i].Field)
				assert.Contains(t, errs[i].Message, field)
			}
		})
	}
}

func TestValidator_Var(t *testing.T) {
	v := NewValidator()

	assert.Nil(t, v.Var("top_n", 15, "gte=5,lte=50"))

	got := v.Var("top_n", 80, "gte=5,lte=50")
	require.NotNil(t, got)
	assert.Equal(t, "top_n", got.Field)
	assert.Equal(t, "top_n must be less than or equal to 50", got.Message)
}
