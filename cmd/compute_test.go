package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/computesales/internal/config"
	"github.com/ginjaninja78/computesales/pkg/utils"
)

type inputs struct {
	dir       string
	catalogue string
	sales     string
}

func writeInputs(t *testing.T, catalogue, sales string) inputs {
	t.Helper()
	dir := t.TempDir()
	in := inputs{
		dir:       dir,
		catalogue: filepath.Join(dir, "priceCatalogue.json"),
		sales:     filepath.Join(dir, "salesRecord.json"),
	}
	require.NoError(t, os.WriteFile(in.catalogue, []byte(catalogue), 0o644))
	require.NoError(t, os.WriteFile(in.sales, []byte(sales), 0o644))
	return in
}

func testConfig(dir string) config.Config {
	cfg := config.Default()
	cfg.OutputFile = filepath.Join(dir, "SalesResults.txt")
	return cfg
}

func TestRunComputeWritesReport(t *testing.T) {
	var out, errOut bytes.Buffer
	in := writeInputs(t,
		`[{"title":"Widget","price":9.99}]`,
		`[{"Product":"Widget","Quantity":3,"SALE_ID":"S1","SALE_Date":"2024-01-01"},{"Product":"Widget","Quantity":"abc"}]`,
	)
	cfg := testConfig(in.dir)

	require.NoError(t, runCompute(&out, &errOut, in.catalogue, in.sales, cfg))

	console := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, console, 8)
	assert.Equal(t, "[Sales row 2] Invalid 'Quantity' for product 'Widget': abc. Skipping.", console[0])
	assert.Equal(t, "SALES SUMMARY", console[1])
	assert.Equal(t, "=============", console[2])
	assert.Equal(t, "VALID_SALES_ROWS: 1", console[3])
	assert.Equal(t, "- SALE_ID=S1 | DATE=2024-01-01 | PRODUCT='Widget' | QTY=3 | UNIT=9.99 | LINE_TOTAL=29.97", console[4])
	assert.Equal(t, "", console[5])
	assert.Equal(t, "TOTAL_COST: 29.97", console[6])
	assert.Regexp(t, `^ELAPSED_SECONDS: \d+\.\d{6}$`, console[7])

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(console[1:], "\n")+"\n", string(data))

	// Nothing but logs on stderr, and warn level keeps them quiet.
	assert.Empty(t, errOut.String())
}

// withoutElapsed drops the ELAPSED_SECONDS line from a report.
func withoutElapsed(report string) string {
	var kept []string
	for _, line := range strings.Split(report, "\n") {
		if !strings.HasPrefix(line, "ELAPSED_SECONDS: ") {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func TestRunComputeRepeatableReport(t *testing.T) {
	in := writeInputs(t,
		`[{"title":"Widget","price":9.99},{"title":"Gadget","price":"4.5"},{"title":"Broken"}]`,
		`[
			{"Product":"Widget","Quantity":3,"SALE_ID":"S1","SALE_Date":"2024-01-01"},
			{"Product":"Gadget","Quantity":"2","SALE_ID":2,"SALE_Date":null},
			{"Product":"Gizmo","Quantity":1},
			{"Product":"Widget","Quantity":"abc"}
		]`,
	)
	cfg := testConfig(in.dir)

	var firstOut, secondOut bytes.Buffer
	require.NoError(t, runCompute(&firstOut, &bytes.Buffer{}, in.catalogue, in.sales, cfg))
	first, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	var errOut bytes.Buffer
	cfg.LogLevel = "debug"
	require.NoError(t, runCompute(&secondOut, &errOut, in.catalogue, in.sales, cfg))
	second, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	assert.Equal(t, withoutElapsed(string(first)), withoutElapsed(string(second)))
	assert.Equal(t, withoutElapsed(firstOut.String()), withoutElapsed(secondOut.String()))

	// The second run replaced the file rather than appending to it.
	assert.Equal(t, 1, strings.Count(string(second), "SALES SUMMARY"))
	assert.Equal(t, len(strings.Split(string(first), "\n")), len(strings.Split(string(second), "\n")))
	assert.Contains(t, errOut.String(), "msg=\"replacing previous report\"")
}

func TestRunComputeFatalWritesNoReport(t *testing.T) {
	cases := []struct {
		name      string
		catalogue string
		sales     string
		prefix    string
	}{
		{"invalid catalogue json", `[{`, `[]`, "Error reading catalogue file '"},
		{"invalid sales json", `[]`, `nope`, "Error reading sales file '"},
		{"catalogue not an array", `{}`, `[]`, "Error processing data: Price catalogue JSON must be a list of product objects."},
		{"sales not an array", `[]`, `{}`, "Error processing data: Sales record JSON must be a list of sale objects."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			in := writeInputs(t, tc.catalogue, tc.sales)
			cfg := testConfig(in.dir)

			err := runCompute(&out, &bytes.Buffer{}, in.catalogue, in.sales, cfg)
			assert.ErrorIs(t, err, errReported)
			assert.True(t, strings.HasPrefix(out.String(), tc.prefix), "got %q", out.String())
			assert.False(t, utils.FileExists(cfg.OutputFile))
		})
	}
}

func TestRunComputeMissingFile(t *testing.T) {
	var out bytes.Buffer
	in := writeInputs(t, `[]`, `[]`)
	missing := filepath.Join(in.dir, "missing.json")

	err := runCompute(&out, &bytes.Buffer{}, in.catalogue, missing, testConfig(in.dir))
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out.String(), "Error reading sales file '"+missing+"'")
}

func TestRunComputeExportsAndMetrics(t *testing.T) {
	var out bytes.Buffer
	in := writeInputs(t,
		`[{"title":"Widget","price":2.5}]`,
		`[{"Product":"Widget","Quantity":4}]`,
	)
	cfg := testConfig(in.dir)
	cfg.XLSXFile = filepath.Join(in.dir, "exports", "sales.xlsx")
	cfg.PDFFile = filepath.Join(in.dir, "exports", "sales_{run_id}.pdf")
	cfg.MetricsFile = filepath.Join(in.dir, "metrics", "computesales.prom")

	require.NoError(t, runCompute(&out, &bytes.Buffer{}, in.catalogue, in.sales, cfg))

	assert.True(t, utils.FileExists(cfg.XLSXFile))

	pdfs, err := filepath.Glob(filepath.Join(in.dir, "exports", "sales_*.pdf"))
	require.NoError(t, err)
	require.Len(t, pdfs, 1)
	assert.NotContains(t, pdfs[0], "{run_id}")

	data, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "computesales_total_cost 10")
	assert.Contains(t, string(data), `computesales_rows_total{document="Sales",outcome="priced"} 1`)
}

func TestRunComputeDebugLogging(t *testing.T) {
	var out, errOut bytes.Buffer
	in := writeInputs(t, `[]`, `[]`)
	cfg := testConfig(in.dir)
	cfg.LogLevel = "debug"

	require.NoError(t, runCompute(&out, &errOut, in.catalogue, in.sales, cfg))

	assert.Contains(t, errOut.String(), "msg=\"loaded catalogue\"")
	assert.Contains(t, errOut.String(), "run_id=")
	assert.NotContains(t, out.String(), "level=")
}

func TestValidateArgs(t *testing.T) {
	for _, args := range [][]string{nil, {"one"}, {"one", "two", "three"}} {
		var out bytes.Buffer
		cmd := &cobra.Command{}
		cmd.SetOut(&out)

		err := validateArgs(cmd, args)
		assert.ErrorIs(t, err, errReported)
		assert.Equal(t, usageLine+"\n", out.String())
	}

	assert.NoError(t, validateArgs(&cobra.Command{}, []string{"a.json", "b.json"}))
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Compute Sales")
	assert.Contains(t, out.String(), "Version:    "+Version)
}

func TestRootCommandRun(t *testing.T) {
	in := writeInputs(t, `[{"title":"A","price":1}]`, `[{"Product":"A","Quantity":2}]`)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(in.dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{in.catalogue, in.sales})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "TOTAL_COST: 2.00")

	data, err := os.ReadFile(filepath.Join(in.dir, "SalesResults.txt"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "SALES SUMMARY\n"))
}
