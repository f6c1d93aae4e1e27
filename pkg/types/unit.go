// Package types defines the core data model of tinyjs.
//
// This package contains type definitions for:
//   - Node: Abstract Syntax Tree nodes, before and after transformation
//   - Unit: a compiled source with its intermediate trees and output
//   - Error types: Structured errors with codes
package types

// Unit represents one compiled source.
//
// A Unit keeps the parsed tree, the transformed tree and the generated
// program side by side. The two trees share no nodes. A Unit is never
// mutated after construction and is safe for concurrent use by multiple
// goroutines as long as callers do not modify the trees they read.
type Unit struct {
	source      string
	ast         *Node
	transformed *Node
	output      string
}

// NewUnit creates a new Unit.
func NewUnit(source string, ast, transformed *Node, output string) *Unit {
	return &Unit{
		source:      source,
		ast:         ast,
		transformed: transformed,
		output:      output,
	}
}

// Source returns the original source text.
func (u *Unit) Source() string {
	return u.source
}

// AST returns the tree produced by the parser.
func (u *Unit) AST() *Node {
	return u.ast
}

// Transformed returns the tree produced by the transformer.
func (u *Unit) Transformed() *Node {
	return u.transformed
}

// Output returns the generated program.
func (u *Unit) Output() string {
	return u.output
}

// String returns the generated program.
func (u *Unit) String() string {
	return u.output
}
