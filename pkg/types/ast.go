package types

// NodeType identifies the type of an AST node.
type NodeType string

// AST node types. The names follow the ESTree vocabulary used by the
// generated dialect.
const (
	// Root
	NodeProgram NodeType = "Program"

	// Statements
	NodeVariableDeclaration NodeType = "VariableDeclaration"
	NodeVariableDeclarator  NodeType = "VariableDeclarator"
	NodeExpressionStatement NodeType = "ExpressionStatement"
	NodeBlockStatement      NodeType = "BlockStatement"
	NodeReturnStatement     NodeType = "ReturnStatement"

	// Functions
	NodeLambdaExpression   NodeType = "LambdaExpression"   // (a, b) => a + b
	NodeFunctionExpression NodeType = "FunctionExpression" // function (a, b) { return a + b }
	NodeCallExpression     NodeType = "CallExpression"     // sum(1, 2)

	// Operators
	NodeBinaryExpression NodeType = "BinaryExpression" // +, -, *, /, %

	// Leaves
	NodeIdentifier     NodeType = "Identifier"
	NodeNumericLiteral NodeType = "NumericLiteral"
	NodeStringLiteral  NodeType = "StringLiteral"
)

// MutableBindingKeyword is the declaration keyword every declaration is
// normalized to by the transformer.
const MutableBindingKeyword = "var"

// DeclarationKeywords lists the names that open a variable declaration.
var DeclarationKeywords = [...]string{"var", "let", "const", "function"}

// IsDeclarationKeyword reports whether name opens a variable declaration.
func IsDeclarationKeyword(name string) bool {
	for _, kw := range DeclarationKeywords {
		if kw == name {
			return true
		}
	}
	return false
}

// Node represents a node in the Abstract Syntax Tree.
//
// Node is a tagged variant: Type selects which of the remaining fields are
// meaningful.
//
//	Program              Body
//	VariableDeclaration  Kind, Declarations
//	VariableDeclarator   ID, Init
//	LambdaExpression     Params, Expr (body expression)
//	FunctionExpression   Params, Expr (BlockStatement)
//	BlockStatement       Expr (ReturnStatement)
//	ReturnStatement      Expr (returned value)
//	ExpressionStatement  Expr
//	CallExpression       Callee, Arguments
//	BinaryExpression     Operator, LHS, RHS
//	Identifier           Name
//	NumericLiteral       Value
//	StringLiteral        Value
//
// The tree is strictly owned parent-to-child: no node is reachable from two
// parents.
type Node struct {
	Type     NodeType `json:"type" yaml:"type"`
	Position int      `json:"position" yaml:"position"`

	// Leaf payloads
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`

	// Declarations
	Kind         string  `json:"kind,omitempty" yaml:"kind,omitempty"`
	Declarations []*Node `json:"declarations,omitempty" yaml:"declarations,omitempty"`
	ID           *Node   `json:"id,omitempty" yaml:"id,omitempty"`
	Init         *Node   `json:"init,omitempty" yaml:"init,omitempty"`

	// Functions and calls
	Params    []*Node `json:"params,omitempty" yaml:"params,omitempty"`
	Callee    *Node   `json:"callee,omitempty" yaml:"callee,omitempty"`
	Arguments []*Node `json:"arguments,omitempty" yaml:"arguments,omitempty"`

	// Operators
	Operator string `json:"operator,omitempty" yaml:"operator,omitempty"`
	LHS      *Node  `json:"left,omitempty" yaml:"left,omitempty"`
	RHS      *Node  `json:"right,omitempty" yaml:"right,omitempty"`

	// Bodies
	Body []*Node `json:"body,omitempty" yaml:"body,omitempty"` // Program statements
	Expr *Node   `json:"expression,omitempty" yaml:"expression,omitempty"`
}

// NewNode creates a new AST node of the specified type.
func NewNode(nodeType NodeType, position int) *Node {
	return &Node{
		Type:     nodeType,
		Position: position,
	}
}

// NewProgram returns an empty Program root.
func NewProgram() *Node {
	return &Node{Type: NodeProgram, Body: []*Node{}}
}

// NewIdentifier returns an Identifier leaf.
func NewIdentifier(name string, position int) *Node {
	return &Node{Type: NodeIdentifier, Name: name, Position: position}
}

// String returns a string representation of the node type.
func (n *Node) String() string {
	return string(n.Type)
}

// Count returns the number of nodes of each type reachable from n,
// n included.
func (n *Node) Count() map[NodeType]int {
	counts := make(map[NodeType]int)
	n.count(counts)
	return counts
}

func (n *Node) count(counts map[NodeType]int) {
	if n == nil {
		return
	}
	counts[n.Type]++
	for _, list := range [][]*Node{n.Body, n.Declarations, n.Params, n.Arguments} {
		for _, child := range list {
			child.count(counts)
		}
	}
	for _, child := range []*Node{n.ID, n.Init, n.Callee, n.LHS, n.RHS, n.Expr} {
		child.count(counts)
	}
}
