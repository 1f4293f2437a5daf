package adm

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/pyxis-oop/qablame/internal/qa/blame"
	"github.com/pyxis-oop/qablame/internal/qa/extract"
	"github.com/pyxis-oop/qablame/pkg/api"
)

const unknownAuthor = "unknown"

type parseReportInput struct {
	repo    string
	asYAML  bool
	noBlame bool
}

var parseReportArgs parseReportInput
var parseReportCmd = &cobra.Command{
	Use:     "parse-report report.xml",
	Example: "qablame adm parse-report build/reports/pmd/main.xml --yaml",
	Short:   "Parse a single analyzer report and print its violations.",
	Args:    cobra.ExactArgs(1),
	RunE:    parseReportRun,
}

func init() {
	parseReportCmd.Flags().StringVar(&parseReportArgs.repo, "repo", ".", "Directory where git blame is executed.")
	parseReportCmd.Flags().BoolVar(&parseReportArgs.asYAML, "yaml", false, "Print the violations as YAML.")
	parseReportCmd.Flags().BoolVar(&parseReportArgs.noBlame, "no-blame", false, "Do not query git, attribute every violation to '"+unknownAuthor+"'.")
}

// anyone attributes every range to the same author.
type anyone string

func (a anyone) Authors(_ context.Context, _ string, _ api.LineRange) ([]string, error) {
	return []string{string(a)}, nil
}

func parseReportRun(cmd *cobra.Command, args []string) error {
	var resolver blame.Resolver = blame.NewCache(blame.NewGit(parseReportArgs.repo, blame.DefaultTimeout))
	if parseReportArgs.noBlame {
		resolver = anyone(unknownAuthor)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	violations, err := extract.File(ctx, args[0], resolver)
	if err != nil {
		return errors.Wrap(err, "error parsing report")
	}
	if parseReportArgs.asYAML {
		return printYAML(cmd.OutOrStdout(), violations)
	}
	printSummary(cmd.OutOrStdout(), args[0], violations)
	return nil
}

func printYAML(w io.Writer, violations []*api.Violation) error {
	records := make([]api.Record, 0, len(violations))
	for _, v := range violations {
		records = append(records, v.Record())
	}
	out, err := yaml.Marshal(records)
	if err != nil {
		return errors.Wrap(err, "unable to encode violations")
	}
	_, err = w.Write(out)
	return err
}

func printSummary(w io.Writer, file string, violations []*api.Violation) {
	byChecker := map[string]int{}
	for _, v := range violations {
		byChecker[v.Checker()]++
	}
	checkers := make([]string, 0, len(byChecker))
	for c := range byChecker {
		checkers = append(checkers, c)
	}
	sort.Strings(checkers)

	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "- File: %s\n", file)
	fmt.Fprintf(w, "- Total: %d\n", len(violations))
	for _, c := range checkers {
		fmt.Fprintf(w, "- %s: %d\n", c, byChecker[c])
	}
	fmt.Fprintf(w, "\n#> Violations (%d):\n", len(violations))
	for _, v := range violations {
		fmt.Fprintf(w, "%s@[%s] (%s) %s\n", filepath.Base(v.File()), v.Lines(), strings.Join(v.BlamedTo(), ", "), v.Details())
	}
}
