package config

import (
	"context"
	"fmt"
	"time"

	"github.com/zjrosen/hwt/internal/cachemanager"
	"github.com/zjrosen/hwt/internal/highlight"
	"github.com/zjrosen/hwt/internal/log"
)

// PatternTTL is how long an unused compiled pattern stays cached.
const PatternTTL = 30 * time.Minute

// PatternSource identifies a compiled pattern.
type PatternSource struct {
	Engine string
	Expr   string
	Flags  string
}

func (p PatternSource) key() string {
	engine := p.Engine
	if engine == "" {
		engine = EngineECMAScript
	}
	return engine + "/" + p.Flags + "/" + p.Expr
}

// PatternCache compiles patterns once and reuses them across update cycles.
// Typing in the playground recompiles the same handful of expressions on
// every keystroke.
type PatternCache struct {
	store cachemanager.CacheManager[string, highlight.Pattern]
	rt    *cachemanager.ReadThroughCache[string, highlight.Pattern, PatternSource]
}

// NewPatternCache returns an empty cache.
func NewPatternCache() *PatternCache {
	store := cachemanager.NewInMemoryCacheManager[string, highlight.Pattern]("patterns", PatternTTL, cachemanager.DefaultCleanupInterval)
	return &PatternCache{
		store: store,
		rt:    cachemanager.NewReadThroughCache[string, highlight.Pattern, PatternSource](store, compilePattern, false),
	}
}

// Compile returns the compiled pattern for src.
func (c *PatternCache) Compile(ctx context.Context, src PatternSource) (highlight.Pattern, error) {
	if c == nil {
		return compilePattern(ctx, src)
	}
	return c.rt.GetWithRefresh(ctx, src.key(), src, PatternTTL)
}

// Reset drops every cached pattern.
func (c *PatternCache) Reset(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.store.Flush(ctx)
}

// Len returns the number of cached patterns.
func (c *PatternCache) Len() int {
	if c == nil {
		return 0
	}
	return c.store.Len()
}

func compilePattern(_ context.Context, src PatternSource) (highlight.Pattern, error) {
	log.Debug(log.CatCache, "compiling pattern", "engine", src.Engine, "expr", src.Expr, "flags", src.Flags)
	switch src.Engine {
	case "", EngineECMAScript:
		return highlight.CompilePattern(src.Expr, src.Flags)
	case EngineRE2:
		return highlight.CompileRE2Pattern(src.Expr, src.Flags)
	default:
		return highlight.Pattern{}, fmt.Errorf("invalid engine %q", src.Engine)
	}
}

// BuildSpec turns rules into a highlight.Spec. Patterns are compiled through
// patterns, which may be nil.
func BuildSpec(ctx context.Context, rules []RuleConfig, patterns *PatternCache) (highlight.Spec, error) {
	if len(rules) == 0 {
		return highlight.Empty{}, nil
	}
	spec := make(highlight.Composite, 0, len(rules))
	for i, r := range rules {
		s, err := buildRule(ctx, r, patterns)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		spec = append(spec, s)
	}
	return spec, nil
}

func buildRule(ctx context.Context, r RuleConfig, patterns *PatternCache) (highlight.Spec, error) {
	if err := validateRule(r); err != nil {
		return nil, err
	}

	var spec highlight.Spec
	switch r.Kind() {
	case RuleLiteral:
		spec = highlight.Literal{Text: r.Text}
	case RulePattern:
		p, err := patterns.Compile(ctx, PatternSource{Engine: r.Engine, Expr: r.Pattern, Flags: r.Flags})
		if err != nil {
			return nil, err
		}
		spec = p
	case RuleOffsets:
		spec = highlight.Offsets{Start: *r.Start, Stop: *r.Stop}
	case RuleComposite:
		items, err := BuildSpec(ctx, r.Items, patterns)
		if err != nil {
			return nil, err
		}
		spec = items
	}

	if r.Class != "" {
		spec = highlight.Styled{Inner: spec, ClassName: r.Class}
	}
	return spec, nil
}
