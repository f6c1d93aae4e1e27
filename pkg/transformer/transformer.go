// Package transformer rewrites a parsed tinyjs AST into the classic
// function-expression dialect.
//
// Transform never mutates its input: it deep-copies the tree and rewrites
// the copy, so the parsed and the transformed trees coexist without shared
// nodes.
//
//	Original AST                      |  Transformed AST
//	----------------------------------+----------------------------------
//	VariableDeclaration (const)       |  VariableDeclaration (var)
//	  VariableDeclarator              |    VariableDeclarator
//	    Identifier sum                |      Identifier sum
//	    LambdaExpression              |      FunctionExpression
//	      Identifier a, Identifier b  |        Identifier a, Identifier b
//	      BinaryExpression +          |        BlockStatement
//	                                  |          ReturnStatement
//	                                  |            BinaryExpression +
package transformer

import (
	"github.com/sandrolain/tinyjs/pkg/traverser"
	"github.com/sandrolain/tinyjs/pkg/types"
)

// Transform returns a rewritten deep copy of program:
//   - every declaration keyword becomes types.MutableBindingKeyword
//   - every LambdaExpression becomes a FunctionExpression whose body is a
//     BlockStatement holding a ReturnStatement of the former body expression
func Transform(program *types.Node) (*types.Node, error) {
	out := types.Clone(program)
	if err := traverser.Traverse(out, visitor(traverser.NewMarks())); err != nil {
		return nil, err
	}
	return out, nil
}

// visitor builds the rewriting visitor. Rewritten lambdas are recorded in
// marks so the traverser does not descend into them again.
func visitor(marks traverser.Marks) traverser.Visitor {
	v := traverser.Visitor{
		types.NodeVariableDeclaration: {
			Enter: func(n, _ *types.Node) error {
				n.Kind = types.MutableBindingKeyword
				return nil
			},
		},
	}

	v[types.NodeLambdaExpression] = traverser.Methods{
		Enter: func(n, _ *types.Node) error {
			// Lambdas nested in the body are rewritten before the body is
			// wrapped; the wrapped body is never walked again.
			if err := traverser.Walk(n.Expr, n, v, marks); err != nil {
				return err
			}

			ret := types.NewNode(types.NodeReturnStatement, n.Position)
			ret.Expr = n.Expr
			block := types.NewNode(types.NodeBlockStatement, n.Position)
			block.Expr = ret

			n.Type = types.NodeFunctionExpression
			n.Expr = block
			marks.Mark(n)
			return nil
		},
	}

	return v
}
