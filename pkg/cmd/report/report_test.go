package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyxis-oop/qablame/internal/qa/blame"
	"github.com/pyxis-oop/qablame/internal/qa/pipeline"
)

func TestInputFromConfigDefaults(t *testing.T) {
	cmd := NewCmdReport()
	require.NoError(t, cmd.PreRunE(cmd, nil))

	input := inputFromConfig(nil)
	assert.Equal(t, []string{defaultSources}, input.sources)
	assert.Equal(t, defaultOutput, input.output)
	assert.Equal(t, ".", input.repo)
	assert.Equal(t, blame.DefaultTimeout, input.blameTimeout)
	assert.Equal(t, pipeline.DefaultParallel, input.parallel)
	assert.Empty(t, input.saveXLSX)
}

func TestInputFromConfigFlags(t *testing.T) {
	cmd := NewCmdReport()
	require.NoError(t, cmd.Flags().Set("output", "out/blame.md"))
	require.NoError(t, cmd.Flags().Set("blame-timeout", "5s"))
	require.NoError(t, cmd.Flags().Set("parallel", "1"))
	require.NoError(t, cmd.Flags().Set("save-chart", "out/blame.html"))
	require.NoError(t, cmd.PreRunE(cmd, nil))

	input := inputFromConfig([]string{"a", "b.xml"})
	assert.Equal(t, []string{"a", "b.xml"}, input.sources)
	assert.Equal(t, "out/blame.md", input.output)
	assert.Equal(t, 5*time.Second, input.blameTimeout)
	assert.Equal(t, 1, input.parallel)
	assert.Equal(t, "out/blame.html", input.saveChart)
}
