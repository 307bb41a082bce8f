package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleCSV is a small slice of the S&P 500 ESG dataset. Row order matters
// to the sorting and grouping tests: ties are resolved by first appearance.
const SampleCSV = `Symbol,Name,Sector,Environment Risk Score,Social Risk Score,Governance Risk Score,Total ESG Risk score,Controversy Score,ESG Risk Level,Full Time Employees
ENPH,Enphase Energy Inc.,Technology,3.8,7.6,7.1,18.5,1,Low,3157
AAPL,Apple Inc.,Technology,0.5,7.4,9.4,17.2,3,Low,161000
XOM,Exxon Mobil Corp.,Energy,19.2,10.3,8.8,38.3,3,High,62000
JNJ,Johnson & Johnson,Healthcare,1.1,15.2,5.8,22.1,4,Medium,131900
PFE,Pfizer Inc.,Healthcare,0.9,14.1,5.3,20.3,2,Medium,83000
CVX,Chevron Corp.,Energy,,11.0,9.0,36.4,3,High,43846
MMM,3M Co.,,8.0,6.5,8.2,34.2,4,High,85000
`

// SampleRows is the number of data rows in SampleCSV.
const SampleRows = 7

// WriteFixture writes content to name inside a fresh temp dir and returns the path.
func WriteFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("create fixture dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}
