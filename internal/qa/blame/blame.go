// Package blame resolves which version-control authors last touched a range
// of lines.
package blame

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/pyxis-oop/qablame/pkg/api"
)

// DefaultTimeout bounds a single history query.
const DefaultTimeout = time.Minute

var authorPattern = regexp.MustCompile(`^author\s+(.+)$`)

// Resolver maps a file and a line range to the authors of those lines.
type Resolver = api.AuthorResolver

// Git resolves authors through `git blame --porcelain`.
type Git struct {
	// Dir is the working directory of the git process. Empty means the
	// current directory.
	Dir string
	// Timeout bounds each query; zero means DefaultTimeout.
	Timeout time.Duration
	// Binary is the git executable, "git" when empty.
	Binary string
}

func NewGit(dir string, timeout time.Duration) *Git {
	return &Git{Dir: dir, Timeout: timeout}
}

func (g *Git) args(file string, lines api.LineRange) []string {
	rng := fmt.Sprintf("%d,%d", lines.Start, lines.End)
	if lines.IsUnbounded() {
		rng = fmt.Sprintf("%d,", lines.Start)
	}
	return []string{"blame", "-p", "-L", rng, "--", file}
}

// Authors runs the blame query for exactly the given file and range.
func (g *Git) Authors(ctx context.Context, file string, lines api.LineRange) ([]string, error) {
	timeout := g.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	binary := g.Binary
	if binary == "" {
		binary = "git"
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := g.args(file, lines)
	command := binary + " " + strings.Join(args, " ")
	log.Debugf("Blame/Query: %s", command)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = g.Dir
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = errors.Wrapf(ctx.Err(), "timed out after %s", timeout)
		}
		return nil, errors.Wrapf(api.ErrNoAuthors, "unable to assign anything with '%s': %v: %s",
			command, err, strings.TrimSpace(stderr.String()))
	}

	authors := ParsePorcelain(out)
	if len(authors) == 0 {
		return nil, errors.Wrapf(api.ErrNoAuthors, "unable to assign anything with '%s'", command)
	}
	return authors, nil
}

// ParsePorcelain extracts the distinct authors, in order of first
// appearance, from `git blame --porcelain` output.
func ParsePorcelain(out []byte) []string {
	var authors []string
	seen := map[string]struct{}{}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		match := authorPattern.FindStringSubmatch(scanner.Text())
		if match == nil {
			continue
		}
		author := strings.TrimSpace(match[1])
		if _, ok := seen[author]; ok {
			continue
		}
		seen[author] = struct{}{}
		authors = append(authors, author)
	}
	return authors
}
