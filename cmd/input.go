package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/hwt/internal/config"
	"github.com/zjrosen/hwt/internal/highlight"
	"github.com/zjrosen/hwt/internal/overlay"
)

// specFlags are the ad-hoc highlight flags shared by render, ranges and
// watch. When any is set they replace the configured highlights.
type specFlags struct {
	literals []string
	pattern  string
	flags    string
	engine   string
	class    string
}

func (f *specFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.literals, "literal", "l", nil, "highlight a case-insensitive substring (repeatable)")
	cmd.Flags().StringVarP(&f.pattern, "pattern", "p", "", "highlight matches of a regular expression")
	cmd.Flags().StringVar(&f.flags, "flags", "g", "pattern flags: g (every match), i (ignore case), m (multiline)")
	cmd.Flags().StringVar(&f.engine, "engine", config.EngineECMAScript, "pattern engine: ecmascript or re2")
	cmd.Flags().StringVar(&f.class, "class", "", "class name added to the highlights")
}

// rules converts the flags to config rules, nil when none are set.
func (f specFlags) rules() []config.RuleConfig {
	var rules []config.RuleConfig
	for _, lit := range f.literals {
		rules = append(rules, config.RuleConfig{Type: config.RuleLiteral, Text: lit, Class: f.class})
	}
	if f.pattern != "" {
		rules = append(rules, config.RuleConfig{
			Type:    config.RulePattern,
			Pattern: f.pattern,
			Flags:   f.flags,
			Engine:  f.engine,
			Class:   f.class,
		})
	}
	return rules
}

// spec builds the highlight spec from the flags or, if none are set, from
// the configured rules.
func (f specFlags) spec(ctx context.Context, configured []config.RuleConfig) (highlight.Spec, error) {
	rules := f.rules()
	if rules == nil {
		rules = configured
	}
	if err := config.ValidateRules(rules); err != nil {
		return nil, err
	}
	return config.BuildSpec(ctx, rules, patternCache)
}

// inputFlags select where the text comes from.
type inputFlags struct {
	text string
	file string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.text, "text", "t", "", "text to highlight")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "read the text from a file")
	cmd.MarkFlagsMutuallyExclusive("text", "file")
}

// surface returns the text source: --text, --file, or all of r.
func (f inputFlags) surface(r io.Reader) (overlay.Surface, error) {
	switch {
	case f.text != "":
		return overlay.NewStaticSurface(f.text), nil
	case f.file != "":
		return overlay.FileSurface{Path: f.file}, nil
	default:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return overlay.NewStaticSurface(string(data)), nil
	}
}

// renderFlags override the render section of the config.
type renderFlags struct {
	wrapFix bool
	tag     string
	out     string
	print   bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.wrapFix, "wrap-fix", false, "insert <wbr> after spaces")
	cmd.Flags().StringVar(&f.tag, "tag", "", "highlight element name (default from config, mark)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "write a standalone HTML overlay document instead of markup to stdout")
	cmd.Flags().BoolVar(&f.print, "print", false, "with --out, print the markup to stdout as well")
}

func (f renderFlags) options(render config.RenderConfig) (overlay.Options, error) {
	if f.wrapFix {
		render.WrapFix = true
	}
	if f.tag != "" {
		render.Tag = f.tag
	}
	if err := config.ValidateRender(render); err != nil {
		return overlay.Options{}, err
	}
	opts, err := render.OverlayOptions()
	if err != nil {
		return overlay.Options{}, err
	}
	opts.Tracer = tracer
	return opts, nil
}

// sink returns the overlay destination: an HTML document at out, w, or both.
func (f renderFlags) sink(w io.Writer, title, separator string) overlay.Sink {
	writer := overlay.WriterSink{W: w, Separator: separator}
	if f.out == "" {
		return writer
	}
	doc := overlay.FileSink{Path: f.out, Title: title}
	if f.print {
		return overlay.MultiSink{doc, writer}
	}
	return doc
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
