package extract

import (
	"context"

	"github.com/pyxis-oop/qablame/internal/qa/blame"
	"github.com/pyxis-oop/qablame/internal/qa/xmldoc"
	"github.com/pyxis-oop/qablame/pkg/api"
)

// Checkstyle reads `<checkstyle><file name><error line message>` reports.
type Checkstyle struct {
	Blame blame.Resolver
}

func (c *Checkstyle) Extract(ctx context.Context, root *xmldoc.Node) ([]*api.Violation, error) {
	var violations []*api.Violation
	for _, file := range root.ChildrenNamed("file") {
		name, err := file.Attr("name")
		if err != nil {
			return nil, err
		}
		for _, node := range file.ChildrenNamed("error") {
			lines, err := newRange(node, "line", "line")
			if err != nil {
				return nil, err
			}
			message, err := node.Attr("message")
			if err != nil {
				return nil, err
			}
			v, err := api.NewViolation(ctx, c.Blame, api.CheckerStyle, name, lines, message)
			if err != nil {
				return nil, err
			}
			violations = append(violations, v)
		}
	}
	return violations, nil
}
