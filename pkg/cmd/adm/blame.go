package adm

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/pyxis-oop/qablame/internal/qa/blame"
	"github.com/pyxis-oop/qablame/pkg/api"
)

type blameInput struct {
	repo    string
	timeout time.Duration
}

var blameArgs blameInput
var blameCmd = &cobra.Command{
	Use:     "blame file start [end]",
	Example: "qablame adm blame src/main/java/Foo.java 10 20",
	Short:   "Print the authors of a range of lines, as used to attribute violations.",
	Args:    cobra.RangeArgs(2, 3),
	RunE:    blameRun,
}

func init() {
	blameCmd.Flags().StringVar(&blameArgs.repo, "repo", ".", "Directory where git blame is executed.")
	blameCmd.Flags().DurationVar(&blameArgs.timeout, "timeout", blame.DefaultTimeout, "Timeout of the git blame query.")
}

// parseRange reads "start [end]"; a missing end means the end of the file.
func parseRange(args []string) (api.LineRange, error) {
	start, err := strconv.Atoi(args[0])
	if err != nil {
		return api.LineRange{}, errors.Wrapf(err, "invalid start line %q", args[0])
	}
	end := api.Unbounded
	if len(args) > 1 {
		end, err = strconv.Atoi(args[1])
		if err != nil {
			return api.LineRange{}, errors.Wrapf(err, "invalid end line %q", args[1])
		}
	}
	return api.NewLineRange(start, end)
}

func blameRun(cmd *cobra.Command, args []string) error {
	lines, err := parseRange(args[1:])
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	authors, err := blame.NewGit(blameArgs.repo, blameArgs.timeout).Authors(ctx, args[0], lines)
	if err != nil {
		return err
	}
	for _, a := range authors {
		fmt.Fprintln(cmd.OutOrStdout(), a)
	}
	return nil
}
