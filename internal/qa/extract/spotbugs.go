package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"k8s.io/utils/ptr"

	"github.com/pyxis-oop/qablame/internal/qa/blame"
	"github.com/pyxis-oop/qablame/internal/qa/xmldoc"
	"github.com/pyxis-oop/qablame/pkg/api"
)

const (
	spotBugsStyleCategory = "STYLE"
	spotBugsUnsafeLabel   = "UNSAFE"
)

// SpotBugs reads `<BugCollection>` reports. Findings whose source file
// cannot be located under any declared source directory are skipped.
type SpotBugs struct {
	Blame blame.Resolver
}

func (s *SpotBugs) Extract(ctx context.Context, root *xmldoc.Node) ([]*api.Violation, error) {
	var sourceDirs []string
	if project, err := root.FirstChild("Project"); err == nil {
		for _, dir := range project.ChildrenNamed("SrcDir") {
			sourceDirs = append(sourceDirs, dir.TrimmedText())
		}
	} else {
		log.Debugf("Extract/SpotBugs: no <Project> element, source directories unknown")
	}

	var violations []*api.Violation
	for _, bug := range root.ChildrenNamed("BugInstance") {
		v, err := s.bug(ctx, bug, sourceDirs)
		if err != nil {
			return nil, err
		}
		if v != nil {
			violations = append(violations, v)
		}
	}
	return violations, nil
}

func (s *SpotBugs) bug(ctx context.Context, bug *xmldoc.Node, sourceDirs []string) (*api.Violation, error) {
	source, err := bug.FirstChild("SourceLine")
	if err != nil {
		return nil, err
	}
	category, err := bug.Attr("category")
	if err != nil {
		return nil, err
	}
	if category == spotBugsStyleCategory {
		category = spotBugsUnsafeLabel
	}
	start, err := source.OptionalInt("start")
	if err != nil {
		return nil, err
	}
	end, err := source.OptionalInt("end")
	if err != nil {
		return nil, err
	}
	lines, err := api.NewLineRange(ptr.Deref(start, 1), ptr.Deref(end, api.Unbounded))
	if err != nil {
		return nil, err
	}

	file, ok := source.Lookup("relSourcepath")
	if !ok {
		sourcePath, err := source.Attr("sourcepath")
		if err != nil {
			return nil, err
		}
		file = locate(sourcePath, sourceDirs)
		if file == "" {
			log.Warnf("Skipping file %s, as none of %v exists", sourcePath, candidates(sourcePath, sourceDirs))
			return nil, nil
		}
	}

	message, err := bug.FirstChild("LongMessage")
	if err != nil {
		return nil, err
	}
	details := fmt.Sprintf("[%s] %s", category, message.TrimmedText())
	return api.NewViolation(ctx, s.Blame, api.CheckerBugs, file, lines, details)
}

func candidates(sourcePath string, sourceDirs []string) []string {
	paths := make([]string, 0, len(sourceDirs))
	for _, dir := range sourceDirs {
		paths = append(paths, filepath.Join(dir, sourcePath))
	}
	return paths
}

// locate returns the first candidate existing on disk, or "".
func locate(sourcePath string, sourceDirs []string) string {
	for _, path := range candidates(sourcePath, sourceDirs) {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
