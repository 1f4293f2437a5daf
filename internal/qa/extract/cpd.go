package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/pyxis-oop/qablame/internal/qa/blame"
	"github.com/pyxis-oop/qablame/internal/qa/xmldoc"
	"github.com/pyxis-oop/qablame/pkg/api"
)

// CPD reads `<pmd-cpd><duplication lines tokens><file path line>` reports.
// A duplication is reported at its first occurrence but blamed on the
// authors of every occurrence.
type CPD struct {
	Blame blame.Resolver
}

func (c *CPD) Extract(ctx context.Context, root *xmldoc.Node) ([]*api.Violation, error) {
	var violations []*api.Violation
	for _, dup := range root.ChildrenNamed("duplication") {
		v, err := c.duplication(ctx, dup)
		if err != nil {
			return nil, err
		}
		violations = append(violations, v)
	}
	return violations, nil
}

func (c *CPD) duplication(ctx context.Context, dup *xmldoc.Node) (*api.Violation, error) {
	length, err := dup.AttrInt("lines")
	if err != nil {
		return nil, err
	}
	tokens, err := dup.Attr("tokens")
	if err != nil {
		return nil, err
	}
	files := dup.ChildrenNamed("file")
	if len(files) == 0 {
		return nil, errors.Errorf("no <file> element in <duplication> of %d lines", length)
	}

	var (
		paths    []string
		ranges   []api.LineRange
		short    []string
		authors  []string
		distinct = map[string]struct{}{}
	)
	for _, file := range files {
		path, err := file.Attr("path")
		if err != nil {
			return nil, err
		}
		begin, err := file.AttrInt("line")
		if err != nil {
			return nil, err
		}
		lines, err := api.NewLineRange(begin, begin+length)
		if err != nil {
			return nil, err
		}
		blamed, err := c.Blame.Authors(ctx, path, lines)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
		ranges = append(ranges, lines)
		short = append(short, fmt.Sprintf("%s:%d", filepath.Base(path), begin))
		authors = append(authors, blamed...)
		distinct[path] = struct{}{}
	}

	details := fmt.Sprintf("Duplication of %d lines and %s tokens across %d files: %s",
		length, tokens, len(distinct), strings.Join(short, ", "))
	return api.NewViolationBlamed(api.CheckerDuplication, paths[0], ranges[0], details, authors)
}
