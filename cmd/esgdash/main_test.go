package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esgdash/internal/config"
	"esgdash/internal/shared/testutil"
	"esgdash/pkg/contracts/domain"
)

func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "snapshot", "describe"})
	assert.NotNil(t, cmd.PersistentFlags().Lookup("dataset"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestRootOptions_LoadConfig(t *testing.T) {
	cfgFile := testutil.WriteFixture(t, "config.yaml", "dataset:\n  path: from-file.csv\nlogging:\n  level: warn\n")

	tests := []struct {
		name          string
		opts          rootOptions
		expectedPath  string
		expectedFirst string
		expectedLevel string
	}{
		{
			name:          "config file",
			opts:          rootOptions{configFile: cfgFile},
			expectedPath:  "from-file.csv",
			expectedFirst: "from-file.csv",
			expectedLevel: "warn",
		},
		{
			name:          "dataset flag goes first",
			opts:          rootOptions{configFile: cfgFile, dataset: "flag.csv", logLevel: "debug"},
			expectedPath:  "flag.csv",
			expectedFirst: "flag.csv",
			expectedLevel: "debug",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := tt.opts.loadConfig()
			require.NoError(t, err)
			assert.Equal(t, tt.expectedPath, cfg.Dataset.Path)
			assert.Equal(t, tt.expectedFirst, cfg.DatasetCandidates()[0])
			assert.Equal(t, tt.expectedLevel, cfg.Logging.Level)
		})
	}

	cfg, err := (&rootOptions{configFile: cfgFile, dataset: "flag.csv"}).loadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"flag.csv", "from-file.csv"}, cfg.DatasetCandidates()[:2])
}

func TestDescribeCmd(t *testing.T) {
	path := testutil.WriteFixture(t, "sp500esg.csv", testutil.SampleCSV)

	stdout, _, err := runCmd(t, "describe", "--dataset", path, "--top-n", "5")
	require.NoError(t, err)

	assert.Contains(t, stdout, config.AppName)
	assert.Contains(t, stdout, "Source: "+path)
	assert.Contains(t, stdout, "Rows: 7")
	assert.Contains(t, stdout, "Statistical Summary")
	assert.Contains(t, stdout, "Top 5 Companies based on")
}

func TestDescribeCmd_JSON(t *testing.T) {
	path := testutil.WriteFixture(t, "sp500esg.csv", testutil.SampleCSV)

	stdout, _, err := runCmd(t, "describe", "--dataset", path, "--json")
	require.NoError(t, err)

	var d domain.Dashboard
	require.NoError(t, json.Unmarshal([]byte(stdout), &d))
	require.NotNil(t, d.Dataset)
	assert.True(t, d.Dataset.Loaded)
	assert.Equal(t, testutil.SampleRows, d.Dataset.Rows)
	assert.Nil(t, d.Scatter)
}

func TestDescribeCmd_NoDataset(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := runCmd(t, "describe", "--dataset", filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, stdout, "Please check the file path and try again.")
	assert.NotContains(t, stdout, "Source:")
}

func TestSnapshotCmd(t *testing.T) {
	path := testutil.WriteFixture(t, "sp500esg.csv", testutil.SampleCSV)
	out := filepath.Join(t.TempDir(), "site")

	stdout, _, err := runCmd(t, "snapshot", "--dataset", path, "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, filepath.Join(out, "index.html"))

	_, err = os.Stat(filepath.Join(out, "index.html"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "charts", "top-n.png"))
	assert.NoError(t, err)
}
