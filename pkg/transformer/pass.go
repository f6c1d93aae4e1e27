package transformer

import (
	"fmt"

	"github.com/sandrolain/tinyjs/pkg/types"
)

// Pass rewrites a Program after the built-in transformation.
// Implementations must not mutate the input program; they return either the
// input unchanged or a new tree.
type Pass interface {
	Name() string
	Apply(program *types.Node) (*types.Node, error)
}

// PassFunc adapts a named function to the Pass interface.
type PassFunc struct {
	N string
	F func(*types.Node) (*types.Node, error)
}

func (p PassFunc) Name() string { return p.N }
func (p PassFunc) Apply(program *types.Node) (*types.Node, error) {
	return p.F(program)
}

// Builtin is the lambda-to-function rewrite as a Pass.
var Builtin Pass = PassFunc{N: "lambda-to-function", F: Transform}

// Chain composes passes left-to-right into a single Pass.
// Each pass receives the output of the previous one. The first failing pass
// stops the chain and its error is wrapped with the pass name.
func Chain(passes ...Pass) Pass {
	return PassFunc{
		N: "chain",
		F: func(program *types.Node) (*types.Node, error) {
			var err error
			for _, p := range passes {
				program, err = p.Apply(program)
				if err != nil {
					return nil, fmt.Errorf("pass %s: %w", p.Name(), err)
				}
			}
			return program, nil
		},
	}
}
