package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/computesales/internal/types"
)

func sampleResult() *types.Result {
	return &types.Result{
		Total: 29.97,
		Details: []string{
			"VALID_SALES_ROWS: 1",
			"- SALE_ID=S1 | DATE=2024-01-01 | PRODUCT='Widget' | QTY=3 | UNIT=9.99 | LINE_TOTAL=29.97",
		},
	}
}

func TestBuild(t *testing.T) {
	lines := Build(sampleResult(), 1500*time.Millisecond)

	assert.Equal(t, []string{
		"SALES SUMMARY",
		"=============",
		"VALID_SALES_ROWS: 1",
		"- SALE_ID=S1 | DATE=2024-01-01 | PRODUCT='Widget' | QTY=3 | UNIT=9.99 | LINE_TOTAL=29.97",
		"",
		"TOTAL_COST: 29.97",
		"ELAPSED_SECONDS: 1.500000",
	}, lines)
}

func TestBuildNoValidRows(t *testing.T) {
	result := &types.Result{Details: []string{"VALID_SALES_ROWS: 0"}}

	lines := Build(result, 0)

	assert.Equal(t, "VALID_SALES_ROWS: 0", lines[2])
	assert.Equal(t, "", lines[3])
	assert.Equal(t, "TOTAL_COST: 0.00", lines[4])
	assert.Equal(t, "ELAPSED_SECONDS: 0.000000", lines[5])
}

func TestBuildRoundsTotal(t *testing.T) {
	lines := Build(&types.Result{Total: 2.675, Details: []string{"VALID_SALES_ROWS: 0"}}, 0)
	// 2.675 is stored just below the midpoint.
	assert.Equal(t, "TOTAL_COST: 2.67", lines[4])
}

func TestWriteConsoleAndFile(t *testing.T) {
	var out bytes.Buffer
	path := filepath.Join(t.TempDir(), DefaultFileName)
	lines := Build(sampleResult(), time.Second)

	require.NoError(t, Write(&out, path, lines))

	want := strings.Join(lines, "\n") + "\n"
	assert.Equal(t, want, out.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, string(data))
}

func TestWriteReplacesPreviousFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("old content\n", 50)), 0o644))

	require.NoError(t, Write(&bytes.Buffer{}, path, []string{"new"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(data))
}
