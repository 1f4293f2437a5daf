// Package extract turns analyzer reports into violations. Each supported
// analyzer schema is recognized by the tag of the document root.
package extract

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"

	"github.com/pyxis-oop/qablame/internal/qa/blame"
	"github.com/pyxis-oop/qablame/internal/qa/xmldoc"
	"github.com/pyxis-oop/qablame/pkg/api"
)

var ErrUnknownSchema = errors.New("unknown root type")

// Extractor produces violations from a parsed report root.
type Extractor interface {
	Extract(ctx context.Context, root *xmldoc.Node) ([]*api.Violation, error)
}

// Factory builds an extractor bound to a blame resolver.
type Factory func(r blame.Resolver) Extractor

var registry = map[string]Factory{
	"pmd":           func(r blame.Resolver) Extractor { return &PMD{Blame: r} },
	"pmd-cpd":       func(r blame.Resolver) Extractor { return &CPD{Blame: r} },
	"checkstyle":    func(r blame.Resolver) Extractor { return &Checkstyle{Blame: r} },
	"BugCollection": func(r blame.Resolver) Extractor { return &SpotBugs{Blame: r} },
}

// RootTags lists the recognized root tags.
func RootTags() []string {
	tags := make([]string, 0, len(registry))
	for tag := range registry {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// For returns the extractor for a root tag.
func For(tag string, r blame.Resolver) (Extractor, error) {
	factory, ok := registry[tag]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownSchema, "%s", tag)
	}
	return factory(r), nil
}

// Root dispatches a parsed document to the extractor matching its tag.
func Root(ctx context.Context, root *xmldoc.Node, r blame.Resolver) ([]*api.Violation, error) {
	ex, err := For(root.Name(), r)
	if err != nil {
		return nil, err
	}
	return ex.Extract(ctx, root)
}

// File reads, parses and extracts a report file. Files ending in ".xz" are
// decompressed first.
func File(ctx context.Context, path string, r blame.Resolver) ([]*api.Violation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error reading XML file")
	}
	defer f.Close()

	var in io.Reader = bufio.NewReader(f)
	if strings.HasSuffix(path, ".xz") {
		in, err = xz.NewReader(in)
		if err != nil {
			return nil, errors.Wrapf(err, "error decompressing %s", path)
		}
	}
	root, err := xmldoc.Parse(in)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	violations, err := Root(ctx, root, r)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return violations, nil
}

// IsReport reports whether the file name looks like an analyzer report.
func IsReport(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	return strings.HasSuffix(name, ".xml") || strings.HasSuffix(name, ".xml.xz")
}

func newRange(node *xmldoc.Node, startAttr, endAttr string) (api.LineRange, error) {
	start, err := node.AttrInt(startAttr)
	if err != nil {
		return api.LineRange{}, err
	}
	end, err := node.AttrInt(endAttr)
	if err != nil {
		return api.LineRange{}, err
	}
	return api.NewLineRange(start, end)
}
