package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/hwt/internal/config"
	"github.com/zjrosen/hwt/internal/log"
	"github.com/zjrosen/hwt/internal/tracing"
)

func init() {
	// Query the terminal background before any Bubble Tea program starts so
	// the OSC 11 reply does not land in the playground's inputs.
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

// localConfigPath is checked before the user config directory.
const localConfigPath = ".hwt/config.yaml"

var (
	version   = "dev"
	cfgFile   string
	debug     bool
	cfg       config.Config
	configErr error

	patternCache = config.NewPatternCache()
	provider     *tracing.Provider
	tracer       trace.Tracer
	closeLog     func()
)

var rootCmd = &cobra.Command{
	Use:   "hwt",
	Short: "Highlight text inside editable fields",
	Long: `hwt renders highlight overlays for text in editable fields.

Highlights are described by rules (literal strings, regular expressions,
explicit offsets or groups of those) and rendered as HTML markup that sits
behind the field's text.`,
	Version:            version,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .hwt/config.yaml, then ~/.config/hwt/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false,
		"write debug logs (also enabled by HWT_DEBUG)")
}

func initConfig() {
	config.SetDefaults(viper.GetViper())
	viper.SetEnvPrefix("HWT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if _, err := os.Stat(localConfigPath); err == nil {
		viper.SetConfigFile(localConfigPath)
	} else {
		home, _ := os.UserHomeDir()
		viper.AddConfigPath(filepath.Join(home, ".config", "hwt"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			configErr = fmt.Errorf("reading config: %w", err)
		}
	}
}

// setup loads the configuration and starts logging and tracing.
func setup(cmd *cobra.Command, _ []string) error {
	if configErr != nil {
		return configErr
	}

	var err error
	cfg, err = config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	if debug || os.Getenv("HWT_DEBUG") != "" {
		if cmd.Name() == "playground" {
			closeLog, err = log.InitWithTeaLog(cfg.Log.Path, "hwt")
		} else {
			closeLog, err = log.Init(cfg.Log.Path)
		}
		if err != nil {
			return fmt.Errorf("starting debug log: %w", err)
		}
		log.SetMinLevel(log.ParseLevel(cfg.Log.Level))
		log.Info(log.CatConfig, "config loaded", "path", viper.ConfigFileUsed(), "command", cmd.Name())
	}

	provider, err = tracing.NewProvider(tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		Exporter:     cfg.Tracing.Exporter,
		FilePath:     cfg.Tracing.FilePath,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRate:   cfg.Tracing.SampleRate,
		ServiceName:  tracing.DefaultServiceName,
	})
	if err != nil {
		return fmt.Errorf("starting tracing: %w", err)
	}
	tracer = provider.Tracer()
	return nil
}

func teardown(cmd *cobra.Command, _ []string) error {
	var err error
	if provider != nil {
		err = provider.Shutdown(cmd.Context())
	}
	if closeLog != nil {
		closeLog()
		closeLog = nil
	}
	return err
}

// configPath is where commands that write configuration save it.
func configPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return localConfigPath
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
