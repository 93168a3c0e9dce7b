package cloc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/gitmine/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReport = `language,filename,blank,comment,code,"github.com/AlDanial/cloc v 1.98  T=0.05 s (100.0 files/s, 5000.0 lines/s)"
Go,./core/gitlog/commit.go,20,15,120
Markdown,README.md,10,0,40
Go,"./weird,name.go",1,2,3
SUM,,31,17,163
`

func TestParseTable(t *testing.T) {
	table, err := ParseReader(strings.NewReader(sampleReport))
	require.NoError(t, err)

	assert.Len(t, table, 3)
	assert.Equal(t, schema.ClocEntry{Language: "Go", Filename: "core/gitlog/commit.go", Blank: 20, Comment: 15, Code: 120}, table["core/gitlog/commit.go"])
	assert.Equal(t, 40, table["README.md"].Code)
	assert.Equal(t, 3, table["weird,name.go"].Code)
}

func TestParseTable_Errors(t *testing.T) {
	header := "language,filename,blank,comment,code"
	testCases := []struct {
		name   string
		lines  []string
		assert func(t *testing.T, err error)
	}{
		{
			name:  "no sum row",
			lines: []string{header, "Go,a.go,1,2,3"},
			assert: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNoSumRow)
			},
		},
		{
			name:  "empty input",
			lines: nil,
			assert: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNoSumRow)
			},
		},
		{
			name:  "duplicate filename",
			lines: []string{header, "Go,a.go,1,2,3", "Go,./a.go,1,2,3", "SUM,,2,4,6"},
			assert: func(t *testing.T, err error) {
				var dupErr *DuplicateEntryError
				require.ErrorAs(t, err, &dupErr)
				assert.Equal(t, "a.go", dupErr.Filename)
			},
		},
		{
			name:  "empty filename",
			lines: []string{header, "Go,,1,2,3", "SUM,,1,2,3"},
			assert: func(t *testing.T, err error) {
				var emptyErr *EmptyFilenameError
				require.ErrorAs(t, err, &emptyErr)
				assert.Equal(t, 1, emptyErr.Row)
			},
		},
		{
			name:  "too few fields",
			lines: []string{header, "Go,a.go,1", "SUM,,1,2,3"},
			assert: func(t *testing.T, err error) {
				var rowErr *MalformedRowError
				assert.ErrorAs(t, err, &rowErr)
			},
		},
		{
			name:  "non numeric count",
			lines: []string{header, "Go,a.go,one,2,3", "SUM,,1,2,3"},
			assert: func(t *testing.T, err error) {
				var rowErr *MalformedRowError
				assert.ErrorAs(t, err, &rowErr)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			table, err := ParseTable(tc.lines)
			require.Error(t, err)
			assert.Nil(t, table)
			tc.assert(t, err)
		})
	}
}

func TestParseTable_OnlySum(t *testing.T) {
	table, err := ParseTable([]string{"language,filename,blank,comment,code", "SUM,,0,0,0"})
	require.NoError(t, err)
	assert.Empty(t, table)
}

func TestLoadTable(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file is an empty table", func(t *testing.T) {
		table, err := LoadTable(filepath.Join(dir, "nope.csv"))
		require.NoError(t, err)
		assert.NotNil(t, table)
		assert.Empty(t, table)
	})

	t.Run("existing file is parsed", func(t *testing.T) {
		path := filepath.Join(dir, "cloc.csv")
		require.NoError(t, os.WriteFile(path, []byte(sampleReport), 0o600))

		table, err := LoadTable(path)
		require.NoError(t, err)
		assert.Len(t, table, 3)
	})

	t.Run("existing file without sum row fails", func(t *testing.T) {
		path := filepath.Join(dir, "broken.csv")
		require.NoError(t, os.WriteFile(path, []byte("language,filename,blank,comment,code\n"), 0o600))

		_, err := LoadTable(path)
		assert.ErrorIs(t, err, ErrNoSumRow)
	})
}
