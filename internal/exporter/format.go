package exporter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// formatFloat formats a value with up to six decimals and no trailing
// zeros. Missing values become an empty cell.
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	s := strings.TrimRight(fmt.Sprintf("%.6f", f), "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

// formatCell renders a sheet cell for CSV output.
func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return formatFloat(x)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// xlsxCell converts a cell for excelize, which cannot store NaN.
func xlsxCell(v any) any {
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return ""
	}
	if v == nil {
		return ""
	}
	return v
}
