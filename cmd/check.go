package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/hwt/internal/highlight"
)

var checkRanges bool

var checkCmd = &cobra.Command{
	Use:   "check SOURCE MARKED",
	Short: "Verify a pre-marked copy of a file",
	Long: `Check strips the <mark> tags from MARKED and verifies that what is left is
exactly SOURCE. On success the marks can be used as highlights for SOURCE;
otherwise the difference is reported.`,
	Args: cobra.ExactArgs(2),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkRanges, "ranges", false, "print the marked ranges as YAML")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	source, err := readFile(args[0])
	if err != nil {
		return err
	}
	marked, err := readFile(args[1])
	if err != nil {
		return err
	}
	return checkMarked(cmd.OutOrStdout(), source, marked, checkRanges)
}

func checkMarked(w io.Writer, source, marked string, printRanges bool) error {
	spec, err := highlight.ParseMarked(source, marked)
	if err != nil {
		return err
	}
	ranges, err := highlight.Resolve(source, spec)
	if err != nil {
		return err
	}
	if printRanges {
		return writeRanges(w, ranges)
	}
	_, err = fmt.Fprintf(w, "ok: %d highlights\n", len(ranges))
	return err
}
