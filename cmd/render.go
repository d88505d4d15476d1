package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/hwt/internal/overlay"
)

var (
	renderSpec   specFlags
	renderInput  inputFlags
	renderOutput renderFlags
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the highlight markup for some text",
	Long: `Render resolves the highlights for the text and prints the markup that
goes behind the editable field. Text comes from --text, --file or stdin.

Without --literal or --pattern the highlights from the config file are used.`,
	Example: `  hwt render --text "the cat sat" --literal at
  hwt render --file notes.txt --pattern '\bTODO\b' --out overlay.html`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	renderSpec.register(renderCmd)
	renderInput.register(renderCmd)
	renderOutput.register(renderCmd)
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	surface, err := renderInput.surface(cmd.InOrStdin())
	if err != nil {
		return err
	}
	spec, err := renderSpec.spec(cmd.Context(), cfg.Highlights)
	if err != nil {
		return err
	}
	opts, err := renderOutput.options(cfg.Render)
	if err != nil {
		return err
	}

	// The overlay is left attached: detaching would clear the document we
	// just wrote.
	_, err = overlay.Attach(cmd.Context(), surface, renderOutput.sink(cmd.OutOrStdout(), renderInput.file, "\n"), spec, opts)
	return err
}
