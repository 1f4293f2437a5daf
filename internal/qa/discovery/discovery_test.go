package discovery

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isXML(path string) bool {
	return strings.HasSuffix(path, ".xml")
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("<x/>"), 0644))
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	checkstyle := filepath.Join(dir, "reports", "checkstyle", "main.xml")
	pmd := filepath.Join(dir, "reports", "pmd", "main.xml")
	touch(t, checkstyle)
	touch(t, pmd)
	touch(t, filepath.Join(dir, "reports", "pmd", "main.html"))
	touch(t, filepath.Join(dir, ".git", "config.xml"))

	files, err := Find([]string{dir, pmd}, isXML)
	require.NoError(t, err)
	assert.Equal(t, []string{checkstyle, pmd}, files)
}

func TestFindExplicitFile(t *testing.T) {
	dir := t.TempDir()
	report := filepath.Join(dir, "cpd.report")
	touch(t, report)

	files, err := Find([]string{report}, isXML)
	require.NoError(t, err)
	assert.Equal(t, []string{report}, files)
}

func TestFindMissingRoot(t *testing.T) {
	_, err := Find([]string{filepath.Join(t.TempDir(), "missing")}, isXML)
	assert.Error(t, err)
}
