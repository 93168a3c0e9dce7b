package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/gitmine/internal/contract"
	"github.com/huangsam/gitmine/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var day = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleBundle() *schema.ReportBundle {
	return &schema.ReportBundle{
		Authors: []schema.AuthorChurn{
			{AuthorName: "alice", Commits: 3, LinesAdded: 10, LinesDeleted: 2, LinesAddDel: 12, FirstCommit: day, LastCommit: day.AddDate(0, 0, 2)},
			{AuthorName: "bob", Commits: 1, LinesAdded: 1, LinesAddDel: 1, FirstCommit: day, LastCommit: day},
		},
		Files: []schema.FileChurn{
			{Path: "src/main.go", Commits: 2, LinesAdded: 5, LinesDeleted: 1, LinesAddDel: 6, Cloc: 40, Created: day},
		},
		FileAuthors: []schema.FileAuthors{
			{Path: "src/main.go", AuthorsCount: 2, Commits: 2, LinesAdded: 5, LinesDeleted: 1, LinesAddDel: 6, Created: day},
		},
		Coupling: []schema.CouplingEntry{
			{File: "a.go", CoupledFile: "b.go", TotCommitsForFile: 4, TotCommitsForCoupledFile: 3, HowManyTimes: 2, HowManyTimesVsTotCommits: 66.67, TotNumberOfCommits: 9},
		},
		Modules: []schema.ModuleChurn{
			{Module: "src", NumFiles: 1, Cloc: 40, LinesAdded: 5, LinesDeleted: 1, LinesAddDel: 6, Created: day},
		},
		Branches: []schema.DailyBranchSummary{
			{Day: "2024-03-01", Commits: 2, BranchTips: []string{"abc", "def"}, DeltaBranchTips: 1, LinesAdded: 3, LinesDeleted: 1, LinesAddDel: 4},
		},
	}
}

func testConfig(mode schema.OutputMode, outputFile string) *contract.Config {
	return &contract.Config{
		Output:       mode,
		OutputFile:   outputFile,
		Precision:    2,
		Width:        120,
		CacheBackend: schema.NoneBackend,
	}
}

func TestToTabular(t *testing.T) {
	bundle := sampleBundle()
	tests := []struct {
		kind     schema.ReportKind
		rows     int
		firstRow []string
		summary  string
	}{
		{schema.AuthorsReport, 2, []string{"1", "alice", "3", "10", "2", "12", "2024-03-01T12:00:00Z", "2024-03-03T12:00:00Z"}, "Showing 2 authors (total commits: 4)"},
		{schema.FilesReport, 1, []string{"1", "src/main.go", "2", "5", "1", "6", "40", "2024-03-01T12:00:00Z"}, "Showing 1 files (total churn: 6)"},
		{schema.FileAuthorsReport, 1, []string{"1", "src/main.go", "2", "2", "5", "1", "6", "2024-03-01T12:00:00Z"}, "Showing 1 files"},
		{schema.CouplingReport, 1, []string{"1", "a.go", "b.go", "4", "3", "2", "66.67", "9"}, "Showing 1 couplings across 9 commits"},
		{schema.ModulesReport, 1, []string{"1", "src", "1", "40", "5", "1", "6", "2024-03-01T12:00:00Z"}, "Showing 1 modules"},
		{schema.BranchesReport, 1, []string{"2024-03-01", "2", "abc|def", "1", "0", "0", "0", "3", "1", "4"}, "Showing 1 days"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			tab, err := toTabular(tt.kind, bundle, 2)
			require.NoError(t, err)
			require.Len(t, tab.rows, tt.rows)
			assert.Equal(t, tt.firstRow, tab.rows[0])
			assert.Len(t, tab.csvHeader, len(tab.rows[0]))
			assert.Equal(t, tt.summary, tab.summary)

			display := tab.tableRows(tt.kind, 40)
			assert.Len(t, display[0], len(tab.headers))
		})
	}

	_, err := toTabular("bogus", bundle, 2)
	assert.Error(t, err)
}

func TestTableRowsBranchTipCount(t *testing.T) {
	tab, err := toTabular(schema.BranchesReport, sampleBundle(), 0)
	require.NoError(t, err)
	rows := tab.tableRows(schema.BranchesReport, 40)
	assert.Equal(t, []string{"2024-03-01", "2", "2", "1", "0", "0", "0", "4"}, rows[0])
	// The flattened rows are untouched
	assert.Equal(t, "abc|def", tab.rows[0][2])
}

func TestWriteBundleTables(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig(schema.TextOut, "")
	err := writeBundleTables(&buf, sampleBundle(), []schema.ReportKind{schema.AuthorsReport, schema.CouplingReport}, cfg, time.Second)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Author churn")
	assert.Contains(t, out, "File coupling")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "66.67")
	assert.Contains(t, out, "Showing 2 authors")
	assert.Contains(t, out, "Analysis completed in 1s. Cache backend: none")
}

func TestWriteBundleTablesSingleReportHasNoTitle(t *testing.T) {
	var buf bytes.Buffer
	err := writeBundleTables(&buf, sampleBundle(), []schema.ReportKind{schema.FilesReport}, testConfig(schema.TextOut, ""), time.Millisecond)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "File churn")
	assert.Contains(t, buf.String(), "src/main.go")
}

func TestReportDocument(t *testing.T) {
	t.Run("single report is a bare list", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeJSON(&buf, reportDocument(sampleBundle(), []schema.ReportKind{schema.FilesReport})))

		var rows []map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, "src/main.go", rows[0]["path"])
		assert.Equal(t, float64(40), rows[0]["cloc"])
	})

	t.Run("several reports are keyed by kind", func(t *testing.T) {
		bundle := sampleBundle()
		bundle.Modules = nil
		var buf bytes.Buffer
		require.NoError(t, writeJSON(&buf, reportDocument(bundle, []schema.ReportKind{schema.AuthorsReport, schema.ModulesReport})))

		var doc map[string][]map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
		assert.Len(t, doc["authors"], 2)
		assert.NotNil(t, doc["modules"])
		assert.Empty(t, doc["modules"])
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeYAML(&buf, reportDocument(sampleBundle(), []schema.ReportKind{schema.BranchesReport})))

		var rows []schema.DailyBranchSummary
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, []string{"abc", "def"}, rows[0].BranchTips)
	})
}

func TestWriteBundleCSVPerKindFiles(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.csv")
	cfg := testConfig(schema.CSVOut, out)
	kinds := []schema.ReportKind{schema.AuthorsReport, schema.CouplingReport}

	require.NoError(t, writeBundle(sampleBundle(), kinds, cfg, time.Second))

	for _, kind := range kinds {
		f, err := os.Open(reportFileName(out, string(kind), ".csv"))
		require.NoError(t, err)
		records, err := csv.NewReader(f).ReadAll()
		_ = f.Close()
		require.NoError(t, err)
		assert.Equal(t, "rank", records[0][0])
	}
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteBundleCSVSingleFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "files.csv")
	require.NoError(t, writeBundle(sampleBundle(), []schema.ReportKind{schema.FilesReport}, testConfig(schema.CSVOut, out), 0))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "rank,path,commits,lines_added,lines_deleted,lines_add_del,cloc,created", lines[0])
}

func TestWriteBundleParquet(t *testing.T) {
	dir := t.TempDir()

	err := writeBundle(sampleBundle(), []schema.ReportKind{schema.FilesReport}, testConfig(schema.ParquetOut, ""), 0)
	assert.Error(t, err)

	out := filepath.Join(dir, "report.parquet")
	kinds := []schema.ReportKind{schema.FilesReport, schema.BranchesReport}
	require.NoError(t, writeBundle(sampleBundle(), kinds, testConfig(schema.ParquetOut, out), 0))
	assert.FileExists(t, filepath.Join(dir, "report.files.parquet"))
	assert.FileExists(t, filepath.Join(dir, "report.branches.parquet"))
}

func TestOutWriterJSONToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "authors.json")
	ow := NewOutWriter()
	require.NoError(t, ow.WriteAuthors(sampleBundle().Authors, testConfig(schema.JSONOut, out), 0))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var rows []schema.AuthorChurn
	require.NoError(t, json.Unmarshal(data, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "alice", rows[0].AuthorName)
	assert.True(t, rows[0].LastCommit.Equal(day.AddDate(0, 0, 2)))
}
