package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// missingMarkers are the cell values treated as missing, matching what the
// dataset's publishers emit for absent scores.
var missingMarkers = []string{"", "NA", "N/A", "NaN", "nan", "null", "<nil>"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadFile parses a CSV or XLSX file into a Table, choosing by extension.
func ReadFile(path string) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses CSV text with a header row. Column types are inferred:
// a column is numeric when every non-missing cell parses as a number.
func ReadCSV(r io.Reader) (*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	// Short rows are padded with missing cells; a row wider than the header
	// cannot be attributed to columns and rejects the file.
	width := len(records[0])
	for i, rec := range records {
		switch {
		case len(rec) > width:
			return nil, fmt.Errorf("parse csv: record %d has %d fields, header has %d", i+1, len(rec), width)
		case len(rec) < width:
			padded := make([]string, width)
			copy(padded, rec)
			records[i] = padded
		}
	}
	return fromRecords(records)
}

// ReadXLSX parses the first sheet of a workbook; its first row is the header.
func ReadXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	// excelize trims trailing empty cells, so rows are padded to the header width.
	width := len(rows[0])
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		if len(records) > 0 && isBlankRow(row) {
			continue
		}
		rec := make([]string, width)
		copy(rec, row)
		records = append(records, rec)
	}
	return fromRecords(records)
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// fromRecords converts header + rows into a Table using gota for type inference.
func fromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}
	header := records[0]

	// A header with no data rows is a valid, empty table.
	if len(records) == 1 {
		cols := make([]Column, len(header))
		for i, name := range header {
			cols[i] = TextColumn(name, nil)
		}
		return NewTable(cols...)
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(missingMarkers),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("load records: %w", df.Err)
	}

	cols := make([]Column, 0, df.Ncol())
	for _, name := range df.Names() {
		cols = append(cols, columnFromSeries(name, df.Col(name)))
	}
	return NewTable(cols...)
}

// columnFromSeries maps a gota series onto a Column. A column with no
// values at all is numeric, so an empty score column still counts as a
// metric.
func columnFromSeries(name string, s series.Series) Column {
	switch s.Type() {
	case series.Int, series.Float:
		return NumericColumn(name, s.Float())
	}
	missing := s.IsNaN()
	if !slices.Contains(missing, false) {
		nums := make([]float64, len(missing))
		for i := range nums {
			nums[i] = math.NaN()
		}
		return NumericColumn(name, nums)
	}
	values := s.Records()
	for i, isNA := range missing {
		if isNA {
			values[i] = ""
		}
	}
	return TextColumn(name, values)
}
