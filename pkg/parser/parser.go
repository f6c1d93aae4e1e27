package parser

// Package parser implements the front end of tinyjs: the tokenizer and the
// parser.
//
// # Architecture
//
// The front end consists of two independent stages:
//   - Lexer: Tokenizes the source text into a fully materialized token slice
//   - Parser: Builds an Abstract Syntax Tree (AST) from that slice
//
// The parser depends only on the shape of the tokens, never on the lexer, so
// token slices may come from anywhere.
//
// # Example
//
//	tokens, err := parser.Tokenize("const sum = (a, b) => a + b")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	program, err := parser.Parse(tokens)

import (
	"github.com/sandrolain/tinyjs/pkg/types"
)

// Parse builds a Program from a token sequence.
//
// Parsing stops at the first token that does not fit the grammar; the
// returned error matches types.ErrParse.
//
// Example:
//
//	program, err := parser.Parse(tokens)
//	if err != nil {
//	    fmt.Printf("Parse error: %v\n", err)
//	    return
//	}
func Parse(tokens []Token, opts ...ParseOption) (*types.Node, error) {
	p := NewParser(tokens, opts...)
	return p.Parse()
}

// ParseSource tokenizes source and parses the result.
func ParseSource(source string, opts ...ParseOption) (*types.Node, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	return Parse(tokens, opts...)
}

// ParseOption configures parsing behavior.
type ParseOption func(*ParseOptions)

// ParseOptions holds parser configuration.
type ParseOptions struct {
	// MaxDepth limits expression nesting to prevent stack overflow.
	MaxDepth int
}

// WithMaxDepth sets the maximum expression nesting depth.
func WithMaxDepth(depth int) ParseOption {
	return func(opts *ParseOptions) {
		opts.MaxDepth = depth
	}
}
