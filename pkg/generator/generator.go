// Package generator renders a tinyjs AST back to program text.
//
// Generation is a pure recursive function of the node: no buffer or state
// is shared between calls. Only node types with a fixed rendering are
// accepted; in particular a LambdaExpression must be transformed first.
//
//	Program              statements joined by "\n"
//	VariableDeclaration  <kind> <declarators>
//	VariableDeclarator   <id> = <init>
//	FunctionExpression   function (<params>) <body>
//	BlockStatement       {\n  <body>\n}
//	ReturnStatement      return <value>
//	ExpressionStatement  <expression>;
//	CallExpression       <callee>(<arguments>)
//	BinaryExpression     <left> <operator> <right>
//	Identifier           <name>
//	NumericLiteral       <value>
//	StringLiteral        "<value>"
package generator

import (
	"fmt"
	"strings"

	"github.com/sandrolain/tinyjs/pkg/types"
)

// Generate renders node and its subtree.
// An unknown node type returns an error matching types.ErrCodeGen.
func Generate(node *types.Node) (string, error) {
	if node == nil {
		return "", types.NewError(types.ErrGenerateUnknownNode, "Cannot generate code for nil node", -1)
	}

	switch node.Type {
	case types.NodeProgram:
		return join(node.Body, "\n")

	case types.NodeVariableDeclaration:
		decls, err := join(node.Declarations, ", ")
		if err != nil {
			return "", err
		}
		return node.Kind + " " + decls, nil

	case types.NodeVariableDeclarator:
		id, err := Generate(node.ID)
		if err != nil {
			return "", err
		}
		init, err := Generate(node.Init)
		if err != nil {
			return "", err
		}
		return id + " = " + init, nil

	case types.NodeFunctionExpression:
		params, err := join(node.Params, ", ")
		if err != nil {
			return "", err
		}
		body, err := Generate(node.Expr)
		if err != nil {
			return "", err
		}
		return "function (" + params + ") " + body, nil

	case types.NodeBlockStatement:
		body, err := Generate(node.Expr)
		if err != nil {
			return "", err
		}
		return "{\n  " + body + "\n}", nil

	case types.NodeReturnStatement:
		value, err := Generate(node.Expr)
		if err != nil {
			return "", err
		}
		return "return " + value, nil

	case types.NodeExpressionStatement:
		expr, err := Generate(node.Expr)
		if err != nil {
			return "", err
		}
		return expr + ";", nil

	case types.NodeCallExpression:
		callee, err := Generate(node.Callee)
		if err != nil {
			return "", err
		}
		args, err := join(node.Arguments, ", ")
		if err != nil {
			return "", err
		}
		return callee + "(" + args + ")", nil

	case types.NodeBinaryExpression:
		left, err := Generate(node.LHS)
		if err != nil {
			return "", err
		}
		right, err := Generate(node.RHS)
		if err != nil {
			return "", err
		}
		return left + " " + node.Operator + " " + right, nil

	case types.NodeIdentifier:
		return node.Name, nil

	case types.NodeNumericLiteral:
		return node.Value, nil

	case types.NodeStringLiteral:
		return `"` + node.Value + `"`, nil

	default:
		return "", types.NewError(types.ErrGenerateUnknownNode,
			fmt.Sprintf("Cannot generate code for node of type %q", node.Type), node.Position).
			WithToken(string(node.Type))
	}
}

// join renders each node and joins the results with sep.
func join(nodes []*types.Node, sep string) (string, error) {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		s, err := Generate(n)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, sep), nil
}
