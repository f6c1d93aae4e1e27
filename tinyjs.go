// Package tinyjs provides a minimal source-to-source transpiler.
//
// tinyjs reads a tiny expression-oriented language (variable declarations
// bound to arrow functions, arithmetic, identifiers, number and string
// literals) and emits the same program using classic function expressions:
//
//	const sum = (a, b) => a + b
//
// becomes
//
//	var sum = function (a, b) {
//	  return a + b
//	}
//
// # Quick Start
//
//	// One-shot compilation
//	out, err := tinyjs.Compile("const sum = (a, b) => a + b")
//
//	// Reusable compiler with caching and debug logging
//	c := tinyjs.New(
//	    tinyjs.WithCaching(true),
//	    tinyjs.WithDebug(true),
//	)
//	out, err = c.Compile(source)
//
// # Pipeline
//
// Compilation runs four independent stages in fixed order:
//   - Tokenizer: github.com/sandrolain/tinyjs/pkg/parser (Tokenize)
//   - Parser: github.com/sandrolain/tinyjs/pkg/parser (Parse)
//   - Transformer: github.com/sandrolain/tinyjs/pkg/transformer, built on
//     github.com/sandrolain/tinyjs/pkg/traverser
//   - Code generator: github.com/sandrolain/tinyjs/pkg/generator
//
// Each stage fails fast; the first error aborts compilation and no output
// is produced. Errors are *types.Error values and match one of
// types.ErrLex, types.ErrParse, types.ErrTraversal or types.ErrCodeGen
// with errors.Is.
package tinyjs

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/sandrolain/tinyjs/pkg/cache"
	"github.com/sandrolain/tinyjs/pkg/generator"
	"github.com/sandrolain/tinyjs/pkg/parser"
	"github.com/sandrolain/tinyjs/pkg/transformer"
	"github.com/sandrolain/tinyjs/pkg/types"
)

// Version returns the current version of tinyjs.
func Version() string {
	return "v0.1.0-dev"
}

// Compiler runs the tinyjs pipeline with a fixed configuration.
// It is safe for concurrent use: every stage keeps its state local to a
// single call and the optional cache is synchronized.
type Compiler struct {
	opts   Options
	logger *slog.Logger
	cache  *cache.Cache // non-nil when Caching is enabled
	prefix string       // cache key namespace, see fingerprint
	passes transformer.Pass
}

// Options configures compiler behavior.
type Options struct {
	// Caching enables caching of compiled units by source text and settings.
	// The default cache holds up to 256 entries with LRU eviction.
	Caching bool
	// CacheSize sets the maximum number of cached units.
	// Only used when Caching is true and no explicit Cache is provided.
	// Defaults to 256.
	CacheSize int
	// Cache is a custom unit cache. If non-nil, Caching is implicitly enabled.
	Cache *cache.Cache
	// MaxDepth limits expression nesting in the parser.
	MaxDepth int
	// Debug enables debug logging of every stage.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger
	// Passes run, in order, on the transformed tree before generation.
	Passes []transformer.Pass
}

// Option configures a Compiler.
type Option func(*Options)

// New creates a new Compiler with default options.
func New(opts ...Option) *Compiler {
	options := Options{
		Caching:  false,
		MaxDepth: 1000,
	}

	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	var c *cache.Cache
	if options.Cache != nil {
		c = options.Cache
	} else if options.Caching {
		c = cache.New(options.CacheSize)
	}

	return &Compiler{
		opts:   options,
		logger: options.Logger,
		cache:  c,
		prefix: fingerprint(options),
		passes: transformer.Chain(append([]transformer.Pass{transformer.Builtin}, options.Passes...)...),
	}
}

// Compile transpiles source and returns the generated program.
func (c *Compiler) Compile(source string) (string, error) {
	unit, err := c.CompileUnit(source)
	if err != nil {
		return "", err
	}
	return unit.Output(), nil
}

// CompileUnit transpiles source and returns every intermediate result.
// With caching enabled, repeated sources return the same *types.Unit.
func (c *Compiler) CompileUnit(source string) (*types.Unit, error) {
	if c.cache != nil {
		return c.cache.GetOrCompile(c.prefix+source, func() (*types.Unit, error) {
			return c.compile(source)
		})
	}
	return c.compile(source)
}

// CacheStats returns the counters of the compiler's cache. It is the zero
// value when caching is disabled.
func (c *Compiler) CacheStats() cache.Stats {
	if c.cache == nil {
		return cache.Stats{}
	}
	return c.cache.Stats()
}

func (c *Compiler) compile(source string) (*types.Unit, error) {
	tokens, err := parser.Tokenize(source)
	if err != nil {
		return nil, err
	}
	c.debug("tokenized", "tokens", len(tokens))

	ast, err := parser.Parse(tokens, parser.WithMaxDepth(c.opts.MaxDepth))
	if err != nil {
		return nil, err
	}
	c.debug("parsed", "statements", len(ast.Body))

	transformed, err := c.passes.Apply(ast)
	if err != nil {
		return nil, err
	}
	c.debug("transformed", "nodes", total(transformed.Count()))

	output, err := generator.Generate(transformed)
	if err != nil {
		return nil, err
	}
	c.debug("generated", "bytes", len(output))

	return types.NewUnit(source, ast, transformed, output), nil
}

// fingerprint names the settings that change compiled output. Compilers
// sharing a cache only see units built with the same fingerprint.
func fingerprint(opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "depth=%d", opts.MaxDepth)
	for _, p := range opts.Passes {
		b.WriteString(";pass=")
		b.WriteString(p.Name())
	}
	b.WriteByte(0)
	return b.String()
}

func (c *Compiler) debug(msg string, args ...any) {
	if c.opts.Debug {
		c.logger.Debug(msg, args...)
	}
}

func total(counts map[types.NodeType]int) int {
	n := 0
	for _, v := range counts {
		n += v
	}
	return n
}

// Compile is a convenience function that transpiles source with a default
// Compiler: tokenize, parse, transform, generate.
//
// Example:
//
//	out, err := tinyjs.Compile("const sum = (a, b) => a + b")
func Compile(source string, opts ...Option) (string, error) {
	return New(opts...).Compile(source)
}

// CompileUnit is like Compile but returns the intermediate trees as well.
func CompileUnit(source string, opts ...Option) (*types.Unit, error) {
	return New(opts...).CompileUnit(source)
}

// MustCompile is like Compile but panics if the source cannot be compiled.
// It simplifies safe initialization of global variables.
func MustCompile(source string) string {
	out, err := Compile(source)
	if err != nil {
		panic(fmt.Sprintf("tinyjs: Compile(%q): %v", source, err))
	}
	return out
}

// WithCaching enables or disables caching of compiled units.
func WithCaching(enabled bool) Option {
	return func(opts *Options) {
		opts.Caching = enabled
	}
}

// WithCacheSize sets the capacity of the cache created by WithCaching.
func WithCacheSize(size int) Option {
	return func(opts *Options) {
		opts.CacheSize = size
	}
}

// WithCache sets a custom unit cache, shared by every Compiler it is
// passed to.
func WithCache(c *cache.Cache) Option {
	return func(opts *Options) {
		opts.Cache = c
	}
}

// WithMaxDepth sets the maximum expression nesting depth.
func WithMaxDepth(depth int) Option {
	return func(opts *Options) {
		opts.MaxDepth = depth
	}
}

// WithDebug enables or disables debug logging.
func WithDebug(enabled bool) Option {
	return func(opts *Options) {
		opts.Debug = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithPasses appends passes that run after the built-in transformation.
// Pass names are part of the cache key, so distinct passes need distinct
// names when compilers share a cache.
//
// Example:
//
//	upper := transformer.PassFunc{N: "upper", F: renameToUpper}
//	out, err := tinyjs.Compile(src, tinyjs.WithPasses(upper))
func WithPasses(passes ...transformer.Pass) Option {
	return func(opts *Options) {
		opts.Passes = append(opts.Passes, passes...)
	}
}
