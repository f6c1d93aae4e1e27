package parser

import (
	"fmt"

	"github.com/sandrolain/tinyjs/pkg/types"
)

// Parser implements a recursive descent parser over a token slice.
// Expressions use Pratt's "Top Down Operator Precedence" algorithm, so
// binary operators are recognized after their left operand without ever
// moving the cursor backwards.
type Parser struct {
	tokens  []Token
	pos     int
	current Token
	depth   int
	opts    ParseOptions
}

// NewParser creates a new parser for the given tokens.
func NewParser(tokens []Token, opts ...ParseOption) *Parser {
	options := ParseOptions{
		MaxDepth: 1000,
	}
	for _, opt := range opts {
		opt(&options)
	}

	p := &Parser{
		tokens: tokens,
		pos:    -1,
		opts:   options,
	}

	// Read the first token
	p.advance()

	return p
}

// Parse parses every statement and returns the Program root.
func (p *Parser) Parse() (*types.Node, error) {
	program := types.NewProgram()

	for p.current.Type != TokenEOF {
		// Statement terminators carry no meaning of their own.
		if p.current.Is(TokenNotation, ";") {
			p.advance()
			continue
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		program.Body = append(program.Body, stmt)
	}

	return program, nil
}

// advance moves to the next token.
func (p *Parser) advance() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
	p.current = p.peek(0)
}

// peek returns the token n positions after the current one without
// consuming anything. Past the end it returns TokenEOF.
func (p *Parser) peek(n int) Token {
	i := p.pos + n
	if i >= len(p.tokens) {
		end := 0
		if len(p.tokens) > 0 {
			last := p.tokens[len(p.tokens)-1]
			end = last.Position + len(last.Value)
		}
		return Token{Type: TokenEOF, Position: end}
	}
	return p.tokens[i]
}

// expect checks that the current token has the given type and text, then
// advances past it.
func (p *Parser) expect(tt TokenType, value string) error {
	if !p.current.Is(tt, value) {
		return p.unexpected(fmt.Sprintf("Expected %s %q", tt, value))
	}
	p.advance()
	return nil
}

// error creates a parser error located at the current token.
func (p *Parser) error(code types.ErrorCode, message string) error {
	return types.NewError(code, message, p.current.Position).WithToken(p.current.Value)
}

// unexpected reports the current token as not fitting the grammar.
func (p *Parser) unexpected(context string) error {
	if p.current.Type == TokenEOF {
		return p.error(types.ErrUnexpectedEnd, context+" but reached end of input")
	}
	return p.error(types.ErrUnexpectedToken,
		fmt.Sprintf("%s but got %s token %q", context, p.current.Type, p.current.Value))
}

// parseStatement parses a declaration or an expression statement.
func (p *Parser) parseStatement() (*types.Node, error) {
	if p.current.Type == TokenName && types.IsDeclarationKeyword(p.current.Value) {
		return p.parseDeclaration()
	}

	start := p.current.Position
	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	stmt := types.NewNode(types.NodeExpressionStatement, start)
	stmt.Expr = expr
	return stmt, nil
}

// parseDeclaration parses `<keyword> <name> = <expression>`.
// Exactly one declarator is produced.
func (p *Parser) parseDeclaration() (*types.Node, error) {
	keyword := p.current
	p.advance()

	decl := types.NewNode(types.NodeVariableDeclaration, keyword.Position)
	decl.Kind = keyword.Value

	if p.current.Type != TokenName || types.IsDeclarationKeyword(p.current.Value) {
		return nil, p.unexpected("Expected identifier after " + keyword.Value)
	}
	declarator := types.NewNode(types.NodeVariableDeclarator, p.current.Position)
	declarator.ID = types.NewIdentifier(p.current.Value, p.current.Position)
	p.advance()

	if err := p.expect(TokenOperator, "="); err != nil {
		return nil, err
	}

	init, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	declarator.Init = init

	decl.Declarations = []*types.Node{declarator}
	return decl, nil
}

// parseExpression parses an expression with operator precedence.
// rbp is the right binding power (minimum precedence).
func (p *Parser) parseExpression(rbp int) (*types.Node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.opts.MaxDepth > 0 && p.depth > p.opts.MaxDepth {
		return nil, p.error(types.ErrUnsupportedConstruct,
			fmt.Sprintf("Expression nesting exceeds maximum depth %d", p.opts.MaxDepth))
	}

	// Parse prefix expression (nud - null denotation)
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	// Parse infix expressions while precedence allows (led - left denotation)
	for rbp < p.infixPrecedence() {
		left, err = p.parseInfix(left)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

// infixPrecedence returns the binding power of the current token in infix
// position, or 0 if it cannot continue an expression.
func (p *Parser) infixPrecedence() int {
	switch {
	case p.current.Type == TokenOperator:
		return binaryOperators[p.current.Value]
	case p.current.Is(TokenParen, "("):
		return callPrecedence
	default:
		return 0
	}
}

// parsePrefix parses an expression that does not need a left-hand side.
func (p *Parser) parsePrefix() (*types.Node, error) {
	token := p.current

	switch token.Type {
	case TokenNumber:
		p.advance()
		node := types.NewNode(types.NodeNumericLiteral, token.Position)
		node.Value = token.Value
		return node, nil
	case TokenString:
		p.advance()
		node := types.NewNode(types.NodeStringLiteral, token.Position)
		node.Value = token.Value
		return node, nil
	case TokenName:
		if types.IsDeclarationKeyword(token.Value) {
			return nil, p.unexpected("Expected expression")
		}
		p.advance()
		return types.NewIdentifier(token.Value, token.Position), nil
	case TokenParen:
		if token.Value == "(" {
			return p.parseLambda()
		}
	}

	return nil, p.unexpected("Expected expression")
}

// parseInfix parses an expression that continues left.
func (p *Parser) parseInfix(left *types.Node) (*types.Node, error) {
	token := p.current

	if token.Is(TokenParen, "(") {
		return p.parseCall(left)
	}

	// Binary operator; infixPrecedence only admits the arithmetic set.
	prec := binaryOperators[token.Value]
	p.advance()

	right, err := p.parseExpression(prec)
	if err != nil {
		return nil, err
	}

	node := types.NewNode(types.NodeBinaryExpression, token.Position)
	node.Operator = token.Value
	node.LHS = left
	node.RHS = right
	return node, nil
}

// parseLambda parses `(<params>) => <expression>`.
// The opening paren is the current token.
func (p *Parser) parseLambda() (*types.Node, error) {
	open := p.current
	if !p.arrowFollows() {
		return nil, p.error(types.ErrUnsupportedConstruct,
			"Unsupported construct: parenthesized expression is not an arrow function header")
	}
	p.advance()

	node := types.NewNode(types.NodeLambdaExpression, open.Position)
	node.Params = []*types.Node{}

	for !p.current.Is(TokenParen, ")") {
		if p.current.Type != TokenName || types.IsDeclarationKeyword(p.current.Value) {
			return nil, p.unexpected("Expected parameter name")
		}
		node.Params = append(node.Params, types.NewIdentifier(p.current.Value, p.current.Position))
		p.advance()

		if p.current.Is(TokenNotation, ",") {
			p.advance()
			if p.current.Is(TokenParen, ")") {
				return nil, p.unexpected("Expected parameter name after \",\"")
			}
			continue
		}
		if !p.current.Is(TokenParen, ")") {
			return nil, p.unexpected(`Expected "," or ")" in parameter list`)
		}
	}
	p.advance()

	if err := p.expect(TokenSyntax, "=>"); err != nil {
		return nil, err
	}

	body, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	node.Expr = body
	return node, nil
}

// arrowFollows reports whether the paren at the cursor is closed by a
// matching paren that is immediately followed by `=>`. It only looks ahead.
func (p *Parser) arrowFollows() bool {
	depth := 0
	for i := 0; ; i++ {
		t := p.peek(i)
		switch {
		case t.Type == TokenEOF:
			return false
		case t.Is(TokenParen, "("):
			depth++
		case t.Is(TokenParen, ")"):
			depth--
			if depth == 0 {
				return p.peek(i + 1).Is(TokenSyntax, "=>")
			}
		}
	}
}

// parseCall parses the argument list of a call whose callee is left.
// The opening paren is the current token.
func (p *Parser) parseCall(left *types.Node) (*types.Node, error) {
	node := types.NewNode(types.NodeCallExpression, p.current.Position)
	node.Callee = left
	node.Arguments = []*types.Node{}
	p.advance()

	for !p.current.Is(TokenParen, ")") {
		arg, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		node.Arguments = append(node.Arguments, arg)

		if p.current.Is(TokenNotation, ",") {
			p.advance()
			if p.current.Is(TokenParen, ")") {
				return nil, p.unexpected("Expected argument after \",\"")
			}
			continue
		}
		if !p.current.Is(TokenParen, ")") {
			return nil, p.unexpected(`Expected "," or ")" in argument list`)
		}
	}
	p.advance()

	return node, nil
}
