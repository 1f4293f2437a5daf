package adm

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"github.com/pyxis-oop/qablame/pkg/api"
)

const checkstyleReport = `<?xml version="1.0" encoding="UTF-8"?>
<checkstyle version="8.36">
<file name="/repo/src/Foo.java">
<error line="10" severity="warning" message="missing final"/>
<error line="12" severity="warning" message="magic number"/>
</file>
</checkstyle>`

func runParseReport(t *testing.T, args ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "checkstyle.xml")
	require.NoError(t, os.WriteFile(path, []byte(checkstyleReport), 0644))

	var out bytes.Buffer
	parseReportArgs = parseReportInput{}
	parseReportCmd.SetOut(&out)
	require.NoError(t, parseReportCmd.Flags().Parse(args))
	require.NoError(t, parseReportRun(parseReportCmd, []string{path}))
	return out.String()
}

func TestParseReportSummary(t *testing.T) {
	out := runParseReport(t, "--no-blame")
	assert.Contains(t, out, "- Total: 2")
	assert.Contains(t, out, "- Style errors: 2")
	assert.Contains(t, out, "Foo.java@[10..10] (unknown) missing final")
}

func TestParseReportYAML(t *testing.T) {
	out := runParseReport(t, "--no-blame", "--yaml")

	var records []api.Record
	require.NoError(t, yaml.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2)
	assert.Equal(t, api.CheckerStyle, records[0].Checker)
	assert.Equal(t, api.LineRange{Start: 12, End: 12}, records[1].Lines)
	assert.Equal(t, []string{"unknown"}, records[1].BlamedTo)
}

func TestParseRange(t *testing.T) {
	r, err := parseRange([]string{"3", "7"})
	require.NoError(t, err)
	assert.Equal(t, api.LineRange{Start: 3, End: 7}, r)

	r, err = parseRange([]string{"3"})
	require.NoError(t, err)
	assert.True(t, r.IsUnbounded())

	_, err = parseRange([]string{"7", "3"})
	assert.Error(t, err)
	_, err = parseRange([]string{"x"})
	assert.Error(t, err)
}
