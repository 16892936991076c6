package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyConfig(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	return path
}

func TestRunStartsFromDefaultFlags(t *testing.T) {
	conf := emptyConfig(t)

	var buf bytes.Buffer
	require.NoError(t, Run([]string{"--config", conf, "report", "--from", "2", simpleScore}, &buf))
	assert.NotContains(t, buf.String(), "Measure 1:")

	buf.Reset()
	require.NoError(t, Run([]string{"--config", conf, "report", simpleScore}, &buf))
	assert.Contains(t, buf.String(), "Measure 1: C E\nMeasure 2: D\n")
	assert.Equal(t, 0, fromFlag)
}

func TestRunClearsChangedFlags(t *testing.T) {
	conf := emptyConfig(t)
	dir := t.TempDir()

	require.NoError(t, Run([]string{"--config", conf, "extract", "--format", "midi", "--output-dir", dir, simpleScore}, &bytes.Buffer{}))
	assert.True(t, extractCmd.Flags().Changed("format"))

	require.NoError(t, Run([]string{"--config", conf, "name", "25"}, &bytes.Buffer{}))
	assert.False(t, extractCmd.Flags().Changed("format"))
	assert.Equal(t, "", formatFlag)
	assert.Equal(t, "", outputDirFlag)
}
