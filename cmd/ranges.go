package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/hwt/internal/highlight"
)

var (
	rangesSpec          specFlags
	rangesInput         inputFlags
	rangesKeepStaggered bool
)

var rangesCmd = &cobra.Command{
	Use:   "ranges",
	Short: "Print the resolved highlight ranges as YAML",
	Long: `Ranges prints the byte ranges the highlights resolve to, after ranges that
partially overlap an earlier one have been dropped. The output can be pasted
into a config file as offsets rules.`,
	Args: cobra.NoArgs,
	RunE: runRanges,
}

func init() {
	rangesSpec.register(rangesCmd)
	rangesInput.register(rangesCmd)
	rangesCmd.Flags().BoolVar(&rangesKeepStaggered, "keep-staggered", false, "print partially overlapping ranges too")
	rootCmd.AddCommand(rangesCmd)
}

func runRanges(cmd *cobra.Command, _ []string) error {
	surface, err := rangesInput.surface(cmd.InOrStdin())
	if err != nil {
		return err
	}
	text, err := surface.Text()
	if err != nil {
		return err
	}
	spec, err := rangesSpec.spec(cmd.Context(), cfg.Highlights)
	if err != nil {
		return err
	}

	ranges, err := highlight.Resolve(text, spec)
	if err != nil {
		return err
	}
	if !rangesKeepStaggered {
		ranges = highlight.RemoveStaggered(ranges)
	}
	return writeRanges(cmd.OutOrStdout(), ranges)
}

func writeRanges(w io.Writer, ranges []highlight.Range) error {
	if ranges == nil {
		ranges = []highlight.Range{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ranges); err != nil {
		return fmt.Errorf("encoding ranges: %w", err)
	}
	return enc.Close()
}
