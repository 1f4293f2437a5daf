package blame

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyxis-oop/qablame/pkg/api"
)

const porcelain = `4d5e3c1a2b3c4d5e6f708192a3b4c5d6e7f80910 10 10 2
author Alice Liddell
author-mail <alice@example.com>
author-time 1617000000
author-tz +0200
committer Alice Liddell
summary Add Foo
filename src/Foo.java
	public class Foo {
4d5e3c1a2b3c4d5e6f708192a3b4c5d6e7f80910 11 11
	    int x;
9f8e7d6c5b4a39281706f5e4d3c2b1a098765432 12 12 1
author Bob
author-mail <bob@example.com>
summary Fix
filename src/Foo.java
	author fake line in the source
`

func TestParsePorcelain(t *testing.T) {
	assert.Equal(t, []string{"Alice Liddell", "Bob"}, ParsePorcelain([]byte(porcelain)))
	assert.Empty(t, ParsePorcelain([]byte("")))
}

func TestGitArgs(t *testing.T) {
	g := NewGit("", 0)
	assert.Equal(t, []string{"blame", "-p", "-L", "10,12", "--", "Foo.java"},
		g.args("Foo.java", api.LineRange{Start: 10, End: 12}))
	assert.Equal(t, []string{"blame", "-p", "-L", "1,", "--", "Foo.java"},
		g.args("Foo.java", api.LineRange{Start: 1, End: api.Unbounded}))
}

func TestGitAuthorsFailure(t *testing.T) {
	g := &Git{Dir: t.TempDir(), Binary: "false"}
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false binary not available")
	}
	_, err := g.Authors(context.Background(), "Foo.java", api.LineRange{Start: 1, End: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrNoAuthors))
	assert.Contains(t, err.Error(), "false blame -p -L 1,1 -- Foo.java")
}

func TestGitAuthorsRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=alice", "GIT_AUTHOR_EMAIL=alice@example.com",
			"GIT_COMMITTER_NAME=alice", "GIT_COMMITTER_EMAIL=alice@example.com",
			"GIT_CONFIG_NOSYSTEM=1", "HOME="+dir,
		)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	run("init", "-q")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Foo.java"), []byte("a\nb\nc\n"), 0644))
	run("add", "Foo.java")
	run("commit", "-q", "-m", "init")

	g := NewGit(dir, 0)
	authors, err := g.Authors(context.Background(), "Foo.java", api.LineRange{Start: 2, End: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, authors)

	authors, err = g.Authors(context.Background(), "Foo.java", api.LineRange{Start: 1, End: api.Unbounded})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, authors)
}

type countingResolver struct {
	calls int
}

func (r *countingResolver) Authors(_ context.Context, file string, _ api.LineRange) ([]string, error) {
	r.calls++
	return []string{"alice"}, nil
}

func TestCache(t *testing.T) {
	next := &countingResolver{}
	c := NewCache(next)
	lines := api.LineRange{Start: 1, End: 2}

	for i := 0; i < 3; i++ {
		authors, err := c.Authors(context.Background(), "Foo.java", lines)
		require.NoError(t, err)
		assert.Equal(t, []string{"alice"}, authors)
	}
	_, err := c.Authors(context.Background(), "Foo.java", api.LineRange{Start: 3, End: 3})
	require.NoError(t, err)

	assert.Equal(t, 2, next.calls)
	entries, hits := c.Stats()
	assert.Equal(t, 2, entries)
	assert.Equal(t, 2, hits)
}

func TestCacheDoesNotStoreFailures(t *testing.T) {
	c := NewCache(Static{})
	_, err := c.Authors(context.Background(), "Foo.java", api.LineRange{Start: 1, End: 1})
	assert.True(t, errors.Is(err, api.ErrNoAuthors))
	entries, _ := c.Stats()
	assert.Zero(t, entries)
}

func TestStatic(t *testing.T) {
	s := Static{
		"Foo.java":        {"alice"},
		"Foo.java@10..12": {"bob"},
	}
	authors, err := s.Authors(context.Background(), "Foo.java", api.LineRange{Start: 1, End: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, authors)

	authors, err = s.Authors(context.Background(), "Foo.java", api.LineRange{Start: 10, End: 12})
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, authors)

	_, err = s.Authors(context.Background(), "Bar.java", api.LineRange{Start: 1, End: 1})
	assert.True(t, errors.Is(err, api.ErrNoAuthors))
}
