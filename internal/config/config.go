// Package config provides configuration types, defaults, validation and
// persistence for hwt.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/hwt/internal/log"
	"github.com/zjrosen/hwt/internal/overlay"
)

// Rule types accepted in the highlights list.
const (
	RuleLiteral   = "literal"
	RulePattern   = "pattern"
	RuleOffsets   = "offsets"
	RuleComposite = "composite"
)

// Pattern engines.
const (
	EngineECMAScript = "ecmascript"
	EngineRE2        = "re2"
)

// RuleConfig describes one highlight rule. Type may be omitted when it is
// implied by the populated fields.
type RuleConfig struct {
	Type    string       `mapstructure:"type" yaml:"type,omitempty"`
	Text    string       `mapstructure:"text" yaml:"text,omitempty"`       // literal
	Pattern string       `mapstructure:"pattern" yaml:"pattern,omitempty"` // pattern source, no slashes
	Flags   string       `mapstructure:"flags" yaml:"flags,omitempty"`     // g, i, m
	Engine  string       `mapstructure:"engine" yaml:"engine,omitempty"`   // "ecmascript" (default) or "re2"
	Start   *int         `mapstructure:"start" yaml:"start,omitempty"`     // offsets
	Stop    *int         `mapstructure:"stop" yaml:"stop,omitempty"`       // offsets
	Class   string       `mapstructure:"class" yaml:"class,omitempty"`     // class added to every range of the rule
	Items   []RuleConfig `mapstructure:"items" yaml:"items,omitempty"`     // composite
}

// Kind returns the rule type, inferring it from populated fields when Type
// is empty.
func (r RuleConfig) Kind() string {
	switch {
	case r.Type != "":
		return r.Type
	case r.Pattern != "":
		return RulePattern
	case r.Start != nil || r.Stop != nil:
		return RuleOffsets
	case len(r.Items) > 0:
		return RuleComposite
	default:
		return RuleLiteral
	}
}

// RenderConfig holds renderer and overlay placement options.
type RenderConfig struct {
	WrapFix     bool   `mapstructure:"wrap_fix"`      // insert <wbr> after spaces
	Tag         string `mapstructure:"tag"`           // element name, default "mark"
	BoxModelFix string `mapstructure:"box_model_fix"` // "none", "mirrored-padding" or "inset"

	// BoxModel is the padding and border of the editable control, in pixels.
	BoxModel overlay.BoxModel `mapstructure:"box_model"`
}

// OverlayOptions converts the render section into overlay options.
func (r RenderConfig) OverlayOptions() (overlay.Options, error) {
	fix, err := overlay.ParseBoxModelFix(r.BoxModelFix)
	if err != nil {
		return overlay.Options{}, err
	}
	return overlay.Options{
		WrapFix:     r.WrapFix,
		Tag:         r.Tag,
		BoxModelFix: fix,
		BoxModel:    r.BoxModel,
	}, nil
}

// WatchConfig holds options for `hwt watch`.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
	Output   string        `mapstructure:"output"` // overlay document path, stdout when empty
}

// TracingConfig holds OpenTelemetry options for overlay update cycles.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/hwt/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate"`
}

// LogConfig holds debug log options.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// Config holds all configuration options for hwt.
type Config struct {
	Highlights []RuleConfig  `mapstructure:"highlights"`
	Render     RenderConfig  `mapstructure:"render"`
	Watch      WatchConfig   `mapstructure:"watch"`
	Tracing    TracingConfig `mapstructure:"tracing"`
	Log        LogConfig     `mapstructure:"log"`
}

// DefaultTracesFilePath returns ~/.config/hwt/traces/traces.jsonl.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".hwt", "traces", "traces.jsonl")
	}
	return filepath.Join(home, ".config", "hwt", "traces", "traces.jsonl")
}

// Defaults returns the configuration used when no file sets a value.
func Defaults() Config {
	return Config{
		Render: RenderConfig{
			WrapFix:     false,
			Tag:         "mark",
			BoxModelFix: string(overlay.BoxModelNone),
		},
		Watch: WatchConfig{
			Debounce: 100 * time.Millisecond,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		Log: LogConfig{
			Path:  "debug.log",
			Level: "debug",
		},
	}
}

// Validate checks the whole configuration.
func Validate(cfg Config) error {
	if err := ValidateRules(cfg.Highlights); err != nil {
		return fmt.Errorf("highlights: %w", err)
	}
	if err := ValidateRender(cfg.Render); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := ValidateTracing(cfg.Tracing); err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch: debounce must not be negative")
	}
	return nil
}

// ValidateRules checks every rule, recursing into composites.
func ValidateRules(rules []RuleConfig) error {
	for i, r := range rules {
		if err := validateRule(r); err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
	}
	return nil
}

func validateRule(r RuleConfig) error {
	switch r.Kind() {
	case RuleLiteral:
		if r.Text == "" {
			return fmt.Errorf("literal rule requires text")
		}
	case RulePattern:
		if r.Pattern == "" {
			return fmt.Errorf("pattern rule requires pattern")
		}
		switch r.Engine {
		case "", EngineECMAScript, EngineRE2:
		default:
			return fmt.Errorf("invalid engine %q (must be %q or %q)", r.Engine, EngineECMAScript, EngineRE2)
		}
		for _, f := range r.Flags {
			if f != 'g' && f != 'i' && f != 'm' {
				return fmt.Errorf("invalid flag %q in %q (allowed: g, i, m)", f, r.Flags)
			}
		}
	case RuleOffsets:
		if r.Start == nil || r.Stop == nil {
			return fmt.Errorf("offsets rule requires start and stop")
		}
		if *r.Start < 0 || *r.Start > *r.Stop {
			return fmt.Errorf("offsets rule requires 0 <= start <= stop, got [%d,%d)", *r.Start, *r.Stop)
		}
	case RuleComposite:
		if len(r.Items) == 0 {
			return fmt.Errorf("composite rule requires items")
		}
		return ValidateRules(r.Items)
	default:
		return fmt.Errorf("invalid type %q (must be %s, %s, %s or %s)", r.Type, RuleLiteral, RulePattern, RuleOffsets, RuleComposite)
	}
	return nil
}

// ValidateRender checks renderer options.
func ValidateRender(r RenderConfig) error {
	if _, err := overlay.ParseBoxModelFix(r.BoxModelFix); err != nil {
		return err
	}
	for _, c := range r.Tag {
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || c == '-') {
			return fmt.Errorf("invalid tag %q", r.Tag)
		}
	}
	return nil
}

// ValidateTracing checks tracing options.
func ValidateTracing(t TracingConfig) error {
	if !t.Enabled {
		return nil
	}
	switch t.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("invalid exporter %q (must be none, file, stdout or otlp)", t.Exporter)
	}
	if t.SampleRate < 0 || t.SampleRate > 1 {
		return fmt.Errorf("sample_rate must be between 0 and 1, got %v", t.SampleRate)
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# hwt configuration

# What to highlight. Rules are resolved in order; when two ranges overlap
# unevenly the one from the earlier rule wins.
highlights:
  - type: literal           # case-insensitive substring
    text: todo
    class: todo
  - type: pattern           # JavaScript-style regular expression
    pattern: '\b\d+\b'
    flags: g                # g = every match, i = ignore case, m = multiline
    class: number
  # - type: pattern
  #   engine: re2           # use Go's regexp engine instead
  #   pattern: 'fix(me)?'
  #   flags: gi
  # - type: offsets         # explicit byte range
  #   start: 0
  #   stop: 4
  # - type: composite
  #   class: group
  #   items:
  #     - text: foo
  #     - text: bar

render:
  wrap_fix: false           # insert <wbr> after spaces for engines that wrap differently
  tag: mark
  box_model_fix: none       # none, mirrored-padding or inset
  # box_model:              # padding/border of the editable control in px
  #   padding: {top: 2, right: 4, bottom: 2, left: 4}
  #   border: {top: 1, right: 1, bottom: 1, left: 1}

watch:
  debounce: 100ms
  # output: overlay.html    # default: stdout

# log:
#   path: debug.log         # written when --debug is set
#   level: debug

# tracing:
#   enabled: true
#   exporter: file          # none, file, stdout or otlp
#   file_path: ~/.config/hwt/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
