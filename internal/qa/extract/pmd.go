package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/pyxis-oop/qablame/internal/qa/blame"
	"github.com/pyxis-oop/qablame/internal/qa/xmldoc"
	"github.com/pyxis-oop/qablame/pkg/api"
)

// PMD reads `<pmd><file name><violation beginline endline ruleset>` reports.
type PMD struct {
	Blame blame.Resolver
}

func (p *PMD) Extract(ctx context.Context, root *xmldoc.Node) ([]*api.Violation, error) {
	var violations []*api.Violation
	for _, file := range root.ChildrenNamed("file") {
		name, err := file.Attr("name")
		if err != nil {
			return nil, err
		}
		for _, node := range file.ChildrenNamed("violation") {
			lines, err := newRange(node, "beginline", "endline")
			if err != nil {
				return nil, err
			}
			ruleset, err := node.Attr("ruleset")
			if err != nil {
				return nil, err
			}
			details := fmt.Sprintf("[%s] %s", strings.ToUpper(ruleset), node.TrimmedText())
			v, err := api.NewViolation(ctx, p.Blame, api.CheckerDesign, name, lines, details)
			if err != nil {
				return nil, err
			}
			violations = append(violations, v)
		}
	}
	return violations, nil
}
