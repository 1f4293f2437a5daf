package render

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"

	"github.com/pyxis-oop/qablame/internal/qa/aggregate"
)

// NewChartPage creates the page holding the violation charts.
func NewChartPage(view aggregate.View) *components.Page {
	page := components.NewPage()
	page.PageTitle = "QA violations by author"
	page.AddCharts(newAuthorsBar(view))
	return page
}

// newAuthorsBar stacks, for each author, the number of violations of each
// checker.
func newAuthorsBar(view aggregate.View) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Violations by author",
			Subtitle: "stacked by checker",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: true, Bottom: "0"}),
	)

	authors := view.Authors()
	bar.SetXAxis(authors)
	for _, checker := range allCheckers(view) {
		data := make([]opts.BarData, 0, len(authors))
		for _, author := range authors {
			data = append(data, opts.BarData{Value: len(view[author][checker])})
		}
		bar.AddSeries(checker, data)
	}
	bar.SetSeriesOptions(charts.WithBarChartOpts(opts.BarChart{Stack: "checkers"}))
	return bar
}

// RenderChart writes the HTML chart page to w.
func RenderChart(w io.Writer, view aggregate.View) error {
	if err := NewChartPage(view).Render(w); err != nil {
		return errors.Wrap(err, "unable to render chart")
	}
	return nil
}
