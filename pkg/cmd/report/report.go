package report

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pyxis-oop/qablame/internal/qa/blame"
	"github.com/pyxis-oop/qablame/internal/qa/pipeline"
)

const (
	defaultOutput  = "build/blame.md"
	defaultSources = "build/reports"
)

type Input struct {
	sources      []string
	output       string
	repo         string
	blameTimeout time.Duration
	parallel     int
	saveXLSX     string
	saveChart    string
}

// flags bound to viper, readable from QABLAME_REPORT_<FLAG>.
var boundFlags = []string{"output", "repo", "blame-timeout", "parallel", "save-xlsx", "save-chart"}

func NewCmdReport() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "report [reports-dir|report.xml ...]",
		Example: "qablame report build/reports -o build/blame.md",
		Short:   "Create the per-author violations report.",
		Long: `Scan the given files and directories (default "build/reports") for Checkstyle,
PMD, CPD and SpotBugs XML reports, attribute every violation to the git authors
of the offending lines and write a markdown summary grouped by author.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			for _, flag := range boundFlags {
				if err := viper.BindPFlag("report."+flag, cmd.Flags().Lookup(flag)); err != nil {
					return errors.Wrapf(err, "unable to bind flag %s", flag)
				}
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			data := inputFromConfig(args)
			if err := processReports(cmd.Context(), data); err != nil {
				log.Error(errors.Wrap(err, "could not create the report"))
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringP("output", "o", defaultOutput, "Markdown report destination. Example: -o build/blame.md")
	cmd.Flags().String("repo", ".", "Directory where git blame is executed.")
	cmd.Flags().Duration("blame-timeout", blame.DefaultTimeout, "Timeout of each git blame query.")
	cmd.Flags().Int("parallel", pipeline.DefaultParallel, "Number of report files processed concurrently.")
	cmd.Flags().String("save-xlsx", "", "Also save the violations to a spreadsheet. Example: --save-xlsx build/blame.xlsx")
	cmd.Flags().String("save-chart", "", "Also save an HTML chart of violations by author. Example: --save-chart build/blame.html")

	return cmd
}

func inputFromConfig(args []string) *Input {
	sources := args
	if len(sources) == 0 {
		sources = []string{defaultSources}
	}
	return &Input{
		sources:      sources,
		output:       viper.GetString("report.output"),
		repo:         viper.GetString("report.repo"),
		blameTimeout: viper.GetDuration("report.blame-timeout"),
		parallel:     viper.GetInt("report.parallel"),
		saveXLSX:     viper.GetString("report.save-xlsx"),
		saveChart:    viper.GetString("report.save-chart"),
	}
}

// processReports runs the pipeline with a cached git resolver.
func processReports(ctx context.Context, input *Input) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log.Println("Creating report...")
	resolver := blame.NewCache(blame.NewGit(input.repo, input.blameTimeout))

	res, err := pipeline.Run(ctx, pipeline.Options{
		Sources:  input.sources,
		Output:   input.output,
		Resolver: resolver,
		Parallel: input.parallel,
		Workbook: input.saveXLSX,
		Chart:    input.saveChart,
	})
	if err != nil {
		return err
	}

	entries, hits := resolver.Stats()
	log.Debugf("Blame cache: %d ranges resolved, %d hits", entries, hits)
	if len(res.Skipped) > 0 {
		log.Infof("%d files with an unknown schema were ignored", len(res.Skipped))
	}
	return nil
}
