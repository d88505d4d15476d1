package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zjrosen/hwt/internal/playground"
)

var (
	playgroundInput   inputFlags
	playgroundPattern string
)

var playgroundCmd = &cobra.Command{
	Use:   "playground",
	Short: "Try highlight patterns interactively",
	Long: `Launch an editor with a live highlight preview. The configured highlights
are always shown; the pattern typed in the playground is added on top and
can be saved to the config file with ctrl+s.`,
	Args: cobra.NoArgs,
	RunE: runPlayground,
}

func init() {
	playgroundCmd.Flags().StringVarP(&playgroundInput.text, "text", "t", "", "initial text")
	playgroundCmd.Flags().StringVarP(&playgroundInput.file, "file", "f", "", "load the initial text from a file")
	playgroundCmd.Flags().StringVarP(&playgroundPattern, "pattern", "p", "", "initial pattern")
	playgroundCmd.MarkFlagsMutuallyExclusive("text", "file")
	rootCmd.AddCommand(playgroundCmd)
}

func runPlayground(cmd *cobra.Command, _ []string) error {
	text := playgroundInput.text
	if playgroundInput.file != "" {
		var err error
		if text, err = readFile(playgroundInput.file); err != nil {
			return err
		}
	}

	opts, err := cfg.Render.OverlayOptions()
	if err != nil {
		return err
	}
	opts.Tracer = tracer

	model, err := playground.New(playground.Options{
		Text:       text,
		Pattern:    playgroundPattern,
		Config:     cfg,
		ConfigPath: configPath(),
		Patterns:   patternCache,
		Overlay:    opts,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err = p.Run()

	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("running playground: %w", err)
	}
	return nil
}
