// Package aggregate groups violations by author and checker.
package aggregate

import (
	"sort"

	"github.com/pyxis-oop/qablame/pkg/api"
)

// Checkers maps a checker label to the violations found by it.
type Checkers map[string][]*api.Violation

// View maps an author to the violations attributed to them.
type View map[string]Checkers

// Aggregate deduplicates violations and fans them out to each of their
// authors, grouped by checker and ordered by details.
func Aggregate(violations []*api.Violation) View {
	seen := make(map[string]struct{}, len(violations))
	view := View{}
	for _, v := range violations {
		key := v.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		for _, author := range v.BlamedTo() {
			if view[author] == nil {
				view[author] = Checkers{}
			}
			view[author][v.Checker()] = append(view[author][v.Checker()], v)
		}
	}
	for _, checkers := range view {
		for _, group := range checkers {
			sortViolations(group)
		}
	}
	return view
}

// sortViolations orders by details, then by location so the result does not
// depend on input order.
func sortViolations(vs []*api.Violation) {
	sort.SliceStable(vs, func(i, j int) bool {
		a, b := vs[i], vs[j]
		if a.Details() != b.Details() {
			return a.Details() < b.Details()
		}
		if a.File() != b.File() {
			return a.File() < b.File()
		}
		if a.Lines().Start != b.Lines().Start {
			return a.Lines().Start < b.Lines().Start
		}
		return a.Lines().End < b.Lines().End
	})
}

// Authors returns the authors in lexicographic order.
func (v View) Authors() []string {
	authors := make([]string, 0, len(v))
	for a := range v {
		authors = append(authors, a)
	}
	sort.Strings(authors)
	return authors
}

// Total is the number of violation entries over all authors; a violation
// blamed to several authors counts once for each.
func (v View) Total() int {
	total := 0
	for _, c := range v {
		total += c.Total()
	}
	return total
}

// Names returns the checker labels in lexicographic order.
func (c Checkers) Names() []string {
	names := make([]string, 0, len(c))
	for n := range c {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Total is the number of violations across all checkers.
func (c Checkers) Total() int {
	total := 0
	for _, vs := range c {
		total += len(vs)
	}
	return total
}
