// Package traverser implements a generic depth-first walk over a tinyjs AST.
//
// A Visitor maps node types to optional Enter and Exit callbacks. Enter runs
// before a node's children are visited and Exit runs after. Callbacks may
// mutate the node they receive in place; the traverser never copies nodes.
//
// # Example
//
//	counts := map[types.NodeType]int{}
//	visitor := traverser.Visitor{
//	    types.NodeIdentifier: {
//	        Enter: func(n, parent *types.Node) error {
//	            counts[n.Type]++
//	            return nil
//	        },
//	    },
//	}
//	err := traverser.Traverse(program, visitor)
//
// # Skipping subtrees
//
// A Marks set records nodes whose children must not be visited. Callbacks
// add a node to the set (usually from Enter, after rewriting it) and the
// traverser then goes straight to that node's Exit callback. The set lives
// outside the tree, so marked trees stay comparable and serializable.
package traverser

import (
	"fmt"

	"github.com/sandrolain/tinyjs/pkg/types"
)

// Func is a visitor callback. parent is nil for the root.
type Func func(node, parent *types.Node) error

// Methods holds the callbacks for one node type. Either may be nil.
type Methods struct {
	Enter Func
	Exit  Func
}

// Visitor maps node types to their callbacks.
type Visitor map[types.NodeType]Methods

// Marks is a set of nodes whose children are skipped during traversal.
type Marks map[*types.Node]struct{}

// NewMarks returns an empty set.
func NewMarks() Marks {
	return make(Marks)
}

// Mark adds n to the set.
func (m Marks) Mark(n *types.Node) {
	m[n] = struct{}{}
}

// Marked reports whether n is in the set.
func (m Marks) Marked(n *types.Node) bool {
	_, ok := m[n]
	return ok
}

// Traverse walks root depth-first with a fresh, empty Marks set.
func Traverse(root *types.Node, visitor Visitor) error {
	return TraverseWith(root, visitor, NewMarks())
}

// TraverseWith walks root depth-first, skipping the children of every node
// in marks. Callbacks may add nodes to marks while the walk is running.
//
// Children are visited in a fixed order per node type:
//
//	Program              body statements
//	VariableDeclaration  declarators
//	VariableDeclarator   id, init
//	LambdaExpression     params, body
//	FunctionExpression   params, body
//	BlockStatement       body
//	ReturnStatement      value
//	ExpressionStatement  expression
//	CallExpression       callee, arguments
//	BinaryExpression     left, right
//
// Identifier, NumericLiteral and StringLiteral are leaves. Any other node
// type stops the walk with an error matching types.ErrTraversal.
func TraverseWith(root *types.Node, visitor Visitor, marks Marks) error {
	return Walk(root, nil, visitor, marks)
}

// Walk is TraverseWith for a subtree: node is visited as a child of parent.
func Walk(node, parent *types.Node, visitor Visitor, marks Marks) error {
	if node == nil {
		return nil
	}
	if marks == nil {
		marks = NewMarks()
	}
	t := &traversal{visitor: visitor, marks: marks}
	return t.node(node, parent)
}

type traversal struct {
	visitor Visitor
	marks   Marks
}

func (t *traversal) node(n, parent *types.Node) error {
	methods := t.visitor[n.Type]

	if methods.Enter != nil {
		if err := methods.Enter(n, parent); err != nil {
			return err
		}
	}

	if !t.marks.Marked(n) {
		if err := t.children(n); err != nil {
			return err
		}
	}

	if methods.Exit != nil {
		return methods.Exit(n, parent)
	}
	return nil
}

func (t *traversal) children(n *types.Node) error {
	switch n.Type {
	case types.NodeProgram:
		return t.list(n.Body, n)
	case types.NodeVariableDeclaration:
		return t.list(n.Declarations, n)
	case types.NodeVariableDeclarator:
		return t.fields(n, n.ID, n.Init)
	case types.NodeLambdaExpression, types.NodeFunctionExpression:
		if err := t.list(n.Params, n); err != nil {
			return err
		}
		return t.fields(n, n.Expr)
	case types.NodeBlockStatement, types.NodeReturnStatement, types.NodeExpressionStatement:
		return t.fields(n, n.Expr)
	case types.NodeCallExpression:
		if err := t.fields(n, n.Callee); err != nil {
			return err
		}
		return t.list(n.Arguments, n)
	case types.NodeBinaryExpression:
		return t.fields(n, n.LHS, n.RHS)
	case types.NodeIdentifier, types.NodeNumericLiteral, types.NodeStringLiteral:
		return nil
	default:
		return types.NewError(types.ErrTraverseUnknownNode,
			fmt.Sprintf("Cannot traverse node of type %q", n.Type), n.Position).
			WithToken(string(n.Type))
	}
}

func (t *traversal) list(children []*types.Node, parent *types.Node) error {
	return t.fields(parent, children...)
}

func (t *traversal) fields(parent *types.Node, children ...*types.Node) error {
	for _, child := range children {
		if child == nil {
			continue
		}
		if err := t.node(child, parent); err != nil {
			return err
		}
	}
	return nil
}
