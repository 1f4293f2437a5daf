// Package pipeline drives a complete run: it discovers the analyzer reports,
// extracts their violations, aggregates them by author and writes the
// reports.
package pipeline

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pyxis-oop/qablame/internal/qa/aggregate"
	"github.com/pyxis-oop/qablame/internal/qa/blame"
	"github.com/pyxis-oop/qablame/internal/qa/discovery"
	"github.com/pyxis-oop/qablame/internal/qa/extract"
	"github.com/pyxis-oop/qablame/internal/qa/metrics"
	"github.com/pyxis-oop/qablame/internal/qa/render"
	"github.com/pyxis-oop/qablame/pkg/api"
)

const DefaultParallel = 4

type Options struct {
	// Sources are report files or directories searched for reports.
	Sources []string
	// Output is the markdown destination.
	Output string
	// Resolver attributes lines to authors.
	Resolver blame.Resolver
	// Parallel bounds how many report files are extracted at once.
	Parallel int
	// Workbook and Chart are optional extra destinations.
	Workbook string
	Chart    string
}

type Result struct {
	Reports    []string
	Skipped    []string
	Violations int
	View       aggregate.View
	Timers     *metrics.Timers
}

// Run executes the whole pipeline. Nothing is written unless every report was
// extracted and every violation attributed.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Resolver == nil {
		return nil, errors.New("no blame resolver configured")
	}
	if opts.Output == "" {
		return nil, errors.New("no output file configured")
	}
	res := &Result{Timers: metrics.NewTimers()}
	res.Timers.Add("total")

	res.Timers.Set("discover")
	reports, err := discovery.Find(opts.Sources, extract.IsReport)
	if err != nil {
		return nil, err
	}
	res.Reports = reports
	log.Infof("Found %d report files", len(reports))

	res.Timers.Set("extract")
	perReport, skipped, err := extractAll(ctx, reports, opts.Resolver, opts.Parallel)
	if err != nil {
		return nil, err
	}
	res.Skipped = skipped
	var all []*api.Violation
	for _, vs := range perReport {
		all = append(all, vs...)
	}
	res.Violations = len(all)

	res.Timers.Set("aggregate")
	res.View = aggregate.Aggregate(all)
	s := res.View.Summary()
	log.Infof("Attributed %d violations to %d authors (min=%.0f max=%.0f mean=%.2f median=%.1f stddev=%.2f)",
		s.Violations, s.Authors, s.Min, s.Max, s.Mean, s.Median, s.StdDev)

	res.Timers.Set("render")
	outputs, err := renderAll(res.View, opts)
	if err != nil {
		return nil, err
	}

	res.Timers.Set("write")
	if err := WriteFiles(outputs); err != nil {
		return nil, err
	}
	for _, out := range outputs {
		log.Infof("%s saved to %s", out.Kind, out.Path)
	}
	res.Timers.Stop()
	res.Timers.Add("total")

	for _, name := range res.Timers.Names() {
		log.Debugf("Timer/%s: %.3fs", name, res.Timers.Timers[name].Total)
	}
	return res, nil
}

// Output is a rendered file waiting to be written.
type Output struct {
	Kind string
	Path string
	Data []byte
}

// renderAll renders the markdown report and the optional extras in memory.
func renderAll(view aggregate.View, opts Options) ([]Output, error) {
	renderers := []struct {
		kind   string
		path   string
		render func(io.Writer, aggregate.View) error
	}{
		{"Report", opts.Output, render.Markdown},
		{"Workbook", opts.Workbook, render.Workbook},
		{"Chart", opts.Chart, render.RenderChart},
	}
	var outputs []Output
	for _, r := range renderers {
		if r.path == "" {
			continue
		}
		var buf bytes.Buffer
		if err := r.render(&buf, view); err != nil {
			return nil, err
		}
		outputs = append(outputs, Output{Kind: r.kind, Path: r.path, Data: buf.Bytes()})
	}
	return outputs, nil
}

// extractAll extracts every report, keeping the per-report results in the
// order of reports. Reports with an unknown schema are returned as skipped.
func extractAll(ctx context.Context, reports []string, r blame.Resolver, parallel int) ([][]*api.Violation, []string, error) {
	if parallel <= 0 {
		parallel = DefaultParallel
	}
	results := make([][]*api.Violation, len(reports))
	unknown := make([]bool, len(reports))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, report := range reports {
		i, report := i, report
		g.Go(func() error {
			vs, err := extract.File(ctx, report, r)
			if errors.Is(err, extract.ErrUnknownSchema) {
				log.Infof("Skipping %s: %v", report, err)
				unknown[i] = true
				return nil
			}
			if err != nil {
				return err
			}
			log.Debugf("Extract: %d violations in %s", len(vs), report)
			results[i] = vs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var skipped []string
	for i, report := range reports {
		if unknown[i] {
			skipped = append(skipped, report)
		}
	}
	return results, skipped, nil
}

// WriteFile replaces path with data through a temporary file in the same
// directory, so a failed write leaves any previous content untouched.
func WriteFile(path string, data []byte) error {
	return WriteFiles([]Output{{Path: path, Data: data}})
}

// WriteFiles stages every output in a temporary file next to its destination
// and renames them into place only once all of them were staged. A failure
// while staging leaves every destination untouched.
func WriteFiles(outputs []Output) error {
	staged := make([]string, 0, len(outputs))
	defer func() {
		for _, tmp := range staged {
			os.Remove(tmp)
		}
	}()
	for _, out := range outputs {
		tmp, err := stage(out.Path, out.Data)
		if err != nil {
			return err
		}
		staged = append(staged, tmp)
	}
	for i, out := range outputs {
		if err := os.Rename(staged[i], out.Path); err != nil {
			return errors.Wrapf(err, "unable to save %s", out.Path)
		}
	}
	return nil
}

// stage writes data to a temporary file in the directory of path.
func stage(path string, data []byte) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, "unable to create directory %s", dir)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return "", errors.Wrapf(err, "unable to create temporary file for %s", path)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", errors.Wrapf(err, "unable to write temporary file for %s", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", errors.Wrapf(err, "unable to close temporary file for %s", path)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return "", errors.Wrapf(err, "unable to set permissions of %s", path)
	}
	return tmp.Name(), nil
}
