// Package render writes aggregated violations as reports.
package render

import (
	"io"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/pkg/errors"

	"github.com/pyxis-oop/qablame/internal/qa/aggregate"
)

var markdownTemplate = `{{- range $author := .Authors }}# {{ $author.Name }}

{{ $author.Total }} violations
{{ range $checker := $author.Checkers }}
## {{ $checker.Name }}: {{ len $checker.Entries }} mistakes
{{ range $checker.Entries }}* {{ .Details }} In: {{ .File }}@[{{ .Lines }}]
{{ end }}{{ end }}
{{ end -}}
`

type printableReport struct {
	Authors []printableAuthor
}

type printableAuthor struct {
	Name     string
	Total    int
	Checkers []printableChecker
}

type printableChecker struct {
	Name    string
	Entries []printableEntry
}

type printableEntry struct {
	Details string
	File    string
	Lines   string
}

// EndingWith appends suffix to s unless s already ends with it.
func EndingWith(s, suffix string) string {
	if strings.HasSuffix(s, suffix) {
		return s
	}
	return s + suffix
}

func newPrintableReport(view aggregate.View) printableReport {
	report := printableReport{}
	for _, author := range view.Authors() {
		checkers := view[author]
		pa := printableAuthor{Name: author, Total: checkers.Total()}
		for _, name := range checkers.Names() {
			pc := printableChecker{Name: name}
			for _, v := range checkers[name] {
				pc.Entries = append(pc.Entries, printableEntry{
					Details: EndingWith(v.Details(), "."),
					File:    filepath.Base(v.File()),
					Lines:   v.Lines().String(),
				})
			}
			pa.Checkers = append(pa.Checkers, pc)
		}
		report.Authors = append(report.Authors, pa)
	}
	return report
}

// Markdown writes one section per author, one subsection per checker and one
// bullet per violation.
func Markdown(w io.Writer, view aggregate.View) error {
	tmpl, err := template.New("markdown").Parse(markdownTemplate)
	if err != nil {
		return errors.Wrap(err, "unable to parse markdown template")
	}
	if err := tmpl.Execute(w, newPrintableReport(view)); err != nil {
		return errors.Wrap(err, "unable to render markdown report")
	}
	return nil
}
