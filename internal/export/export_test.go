package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testReport() Report {
	return Report{
		Name: "mining_calculation",
		Rows: []Row{
			{Parameter: "Hashrate (MH/s)", Value: "100"},
			{Parameter: "Daily Profit ($)", Value: "-3.96"},
			{Parameter: "ROI (%)", Value: "n/a"},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []Row{
		{Parameter: "Asset", Value: "bitcoin"},
		{Parameter: "Price, USD", Value: "1,000.00"},
		{Parameter: `Say "hi"`, Value: "x"},
	})
	require.NoError(t, err)

	want := "Parameter,Value\n" +
		"Asset,bitcoin\n" +
		"\"Price, USD\",\"1,000.00\"\n" +
		"\"Say \"\"hi\"\"\",x\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "Parameter,Value\n", buf.String())
}

func TestResultExportCSV(t *testing.T) {
	exporter := NewResultExporter(zap.NewNop())
	tempDir := t.TempDir()

	outputPath, err := exporter.Save(testReport(), ExportOptions{Format: FormatCSV, OutputDir: tempDir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tempDir, "mining_calculation.csv"), outputPath)

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Parameter,Value", lines[0])
	assert.Equal(t, "Daily Profit ($),-3.96", lines[2])

	assertNoTempFiles(t, tempDir)
}

func TestResultExportJSON(t *testing.T) {
	exporter := NewResultExporter(zap.NewNop())
	exporter.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	tempDir := t.TempDir()

	outputPath, err := exporter.Save(testReport(), ExportOptions{Format: FormatJSON, OutputDir: tempDir})
	require.NoError(t, err)
	assert.Equal(t, ".json", filepath.Ext(outputPath))

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	var decoded struct {
		Report   string `json:"report"`
		RowCount int    `json:"row_count"`
		Rows     []Row  `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(content, &decoded))
	assert.Equal(t, "mining_calculation", decoded.Report)
	assert.Equal(t, 3, decoded.RowCount)
	assert.Equal(t, testReport().Rows, decoded.Rows)
}

func TestResultExport_ExplicitPath(t *testing.T) {
	exporter := NewResultExporter(zap.NewNop())
	path := filepath.Join(t.TempDir(), "nested", "out.csv")

	got, err := exporter.Save(testReport(), ExportOptions{Path: path})
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.FileExists(t, path)
}

func TestResultExport_FileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	exporter := NewResultExporter(zap.NewNop())
	path := filepath.Join(t.TempDir(), "out.json")

	_, err := exporter.Save(testReport(), ExportOptions{Format: FormatJSON, Path: path})
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestResultExport_Overwrites(t *testing.T) {
	exporter := NewResultExporter(zap.NewNop())
	tempDir := t.TempDir()
	opts := ExportOptions{OutputDir: tempDir}

	_, err := exporter.Save(testReport(), opts)
	require.NoError(t, err)

	r := testReport()
	r.Rows = r.Rows[:1]
	path, err := exporter.Save(r, opts)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Parameter,Value\nHashrate (MH/s),100\n", string(content))
}

func TestResultExport_Errors(t *testing.T) {
	exporter := NewResultExporter(zap.NewNop())
	tempDir := t.TempDir()

	_, err := exporter.Save(Report{Name: "empty"}, ExportOptions{OutputDir: tempDir})
	assert.ErrorIs(t, err, ErrEmptyReport)

	_, err = exporter.Save(testReport(), ExportOptions{Format: "xml", OutputDir: tempDir})
	assert.EqualError(t, err, "unsupported format: xml")

	assertNoTempFiles(t, tempDir)
}

func TestWriteFile_RemovesTempOnFailure(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "broken.csv")
	boom := errors.New("disk full")

	err := writeFile(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoFileExists(t, path)
	assertNoTempFiles(t, tempDir)
}

func TestFilenameGeneration(t *testing.T) {
	exporter := NewResultExporter(zap.NewNop())
	exporter.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	tests := []struct {
		name     string
		report   string
		options  ExportOptions
		expected string
	}{
		{"plain csv", "staking_result", ExportOptions{Format: FormatCSV}, "staking_result.csv"},
		{"json", "roi-result", ExportOptions{Format: FormatJSON}, "roi-result.json"},
		{"timestamped", "roi-result", ExportOptions{Format: FormatCSV, Timestamped: true}, "roi-result_20240102_030405.csv"},
		{"unnamed", "", ExportOptions{Format: FormatCSV}, "result.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, exporter.generateFilename(tt.report, tt.options))
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, ".*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}
