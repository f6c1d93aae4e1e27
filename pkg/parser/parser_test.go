package parser_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/sandrolain/tinyjs/pkg/parser"
	"github.com/sandrolain/tinyjs/pkg/types"
)

func mustParse(t *testing.T, src string) *types.Node {
	t.Helper()
	program, err := parser.ParseSource(src)
	if err != nil {
		t.Fatalf("ParseSource(%q) unexpected error: %v", src, err)
	}
	if program.Type != types.NodeProgram {
		t.Fatalf("expected Program root, got %s", program.Type)
	}
	return program
}

func TestParseArrowDeclaration(t *testing.T) {
	program := mustParse(t, "const sum = (a, b) => a + b")

	if len(program.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program.Body))
	}
	decl := program.Body[0]
	if decl.Type != types.NodeVariableDeclaration || decl.Kind != "const" {
		t.Fatalf("expected const declaration, got %s %q", decl.Type, decl.Kind)
	}
	if len(decl.Declarations) != 1 {
		t.Fatalf("expected 1 declarator, got %d", len(decl.Declarations))
	}

	d := decl.Declarations[0]
	if d.Type != types.NodeVariableDeclarator {
		t.Fatalf("expected declarator, got %s", d.Type)
	}
	if d.ID.Type != types.NodeIdentifier || d.ID.Name != "sum" {
		t.Fatalf("expected id sum, got %s %q", d.ID.Type, d.ID.Name)
	}

	lambda := d.Init
	if lambda.Type != types.NodeLambdaExpression {
		t.Fatalf("expected lambda, got %s", lambda.Type)
	}
	if len(lambda.Params) != 2 || lambda.Params[0].Name != "a" || lambda.Params[1].Name != "b" {
		t.Fatalf("unexpected params %+v", lambda.Params)
	}

	body := lambda.Expr
	if body.Type != types.NodeBinaryExpression || body.Operator != "+" {
		t.Fatalf("expected a + b body, got %s %q", body.Type, body.Operator)
	}
	if body.LHS.Name != "a" || body.RHS.Name != "b" {
		t.Fatalf("unexpected operands %q %q", body.LHS.Name, body.RHS.Name)
	}
}

func TestParseKeywords(t *testing.T) {
	for _, kw := range []string{"var", "let", "const"} {
		t.Run(kw, func(t *testing.T) {
			program := mustParse(t, kw+" x = 1")
			decl := program.Body[0]
			if decl.Kind != kw {
				t.Fatalf("kind = %q, want %q", decl.Kind, kw)
			}
			init := decl.Declarations[0].Init
			if init.Type != types.NodeNumericLiteral || init.Value != "1" {
				t.Fatalf("unexpected init %s %q", init.Type, init.Value)
			}
		})
	}
}

func TestParseLiterals(t *testing.T) {
	program := mustParse(t, `let s = "hi"`)
	init := program.Body[0].Declarations[0].Init
	if init.Type != types.NodeStringLiteral || init.Value != "hi" {
		t.Fatalf("unexpected init %s %q", init.Type, init.Value)
	}
}

func TestParseEmpty(t *testing.T) {
	for _, src := range []string{"", "   ", ";", ";;;"} {
		program := mustParse(t, src)
		if len(program.Body) != 0 {
			t.Errorf("ParseSource(%q): expected no statements, got %d", src, len(program.Body))
		}
	}
}

func TestParseMultipleStatements(t *testing.T) {
	program := mustParse(t, "let a = 1; let b = 2; a")
	if len(program.Body) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(program.Body))
	}
	if program.Body[2].Type != types.NodeExpressionStatement {
		t.Fatalf("expected expression statement, got %s", program.Body[2].Type)
	}
}

func TestParseSemicolonBeforeParen(t *testing.T) {
	program := mustParse(t, "const x = 1;\n(b) => b")
	if len(program.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(program.Body))
	}
	if got := program.Body[1].Expr.Type; got != types.NodeLambdaExpression {
		t.Fatalf("second statement = %s, want LambdaExpression", got)
	}
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"multiplication binds tighter", "a + b * c", "(a + (b * c))"},
		{"multiplication on the left", "a * b + c", "((a * b) + c)"},
		{"left associative subtraction", "a - b - c", "((a - b) - c)"},
		{"left associative division", "a / b % c", "((a / b) % c)"},
		{"call binds tightest", "f(a) * b", "(f(a) * b)"},
		{"chained calls", "f(1)(2)", "f(1)(2)"},
		{"call arguments are expressions", "f(a + b, c)", "f((a + b), c)"},
		{"lambda body extends right", "(x) => x + 1", "((x) => (x + 1))"},
		{"nested lambdas", "(a) => (b) => a", "((a) => ((b) => a))"},
		{"lambda with no params", "() => 1", "(() => 1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program := mustParse(t, tt.input)
			if len(program.Body) != 1 {
				t.Fatalf("expected 1 statement, got %d", len(program.Body))
			}
			if got := render(program.Body[0].Expr); got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

// render prints an expression fully parenthesized.
func render(n *types.Node) string {
	switch n.Type {
	case types.NodeIdentifier:
		return n.Name
	case types.NodeNumericLiteral, types.NodeStringLiteral:
		return n.Value
	case types.NodeBinaryExpression:
		return "(" + render(n.LHS) + " " + n.Operator + " " + render(n.RHS) + ")"
	case types.NodeCallExpression:
		args := make([]string, len(n.Arguments))
		for i, a := range n.Arguments {
			args[i] = render(a)
		}
		return render(n.Callee) + "(" + strings.Join(args, ", ") + ")"
	case types.NodeLambdaExpression:
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Name
		}
		return "((" + strings.Join(params, ", ") + ") => " + render(n.Expr) + ")"
	}
	return "?" + string(n.Type)
}

func TestParsePositions(t *testing.T) {
	program := mustParse(t, "const sum = (a, b) => a + b")
	decl := program.Body[0]
	d := decl.Declarations[0]
	lambda := d.Init

	checks := []struct {
		name string
		got  int
		want int
	}{
		{"declaration", decl.Position, 0},
		{"id", d.ID.Position, 6},
		{"lambda", lambda.Position, 12},
		{"param b", lambda.Params[1].Position, 16},
		{"operator", lambda.Expr.Position, 24},
		{"rhs", lambda.Expr.RHS.Position, 26},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s position = %d, want %d", c.name, c.got, c.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		code     types.ErrorCode
		position int
	}{
		{"missing identifier", "const = 1", types.ErrUnexpectedToken, 6},
		{"keyword as identifier", "let let = 1", types.ErrUnexpectedToken, 4},
		{"missing assignment", "const x 1", types.ErrUnexpectedToken, 8},
		{"missing initializer", "const x =", types.ErrUnexpectedEnd, 9},
		{"keyword as expression", "let x = const", types.ErrUnexpectedToken, 8},
		{"stray closing paren", ")", types.ErrUnexpectedToken, 0},
		{"dangling operator", "a +", types.ErrUnexpectedEnd, 3},
		{"unclosed call", "sum(1, 2", types.ErrUnexpectedEnd, 8},
		{"bad argument separator", "sum(1 2)", types.ErrUnexpectedToken, 6},
		{"literal parameter", "(a, 1) => a", types.ErrUnexpectedToken, 4},
		{"trailing comma in parameters", "(a,) => a", types.ErrUnexpectedToken, 3},
		{"trailing comma in arguments", "f(1,)", types.ErrUnexpectedToken, 4},
		{"newline does not end a call", "const x = 1\n(b) => b", types.ErrUnexpectedToken, 16},
		{"missing lambda body", "(a) =>", types.ErrUnexpectedEnd, 6},
		{"grouping parens", "(a + b)", types.ErrUnsupportedConstruct, 0},
		{"grouping followed by operator", "let x = (a) + b", types.ErrUnsupportedConstruct, 8},
		{"colon is not an operator", "a : b", types.ErrUnexpectedToken, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, err := parser.ParseSource(tt.input)
			if err == nil {
				t.Fatalf("ParseSource(%q) = %v, want error", tt.input, program)
			}
			if program != nil {
				t.Errorf("expected nil program on error")
			}
			if !errors.Is(err, types.ErrParse) {
				t.Errorf("expected parse error, got %v", err)
			}
			var te *types.Error
			if !errors.As(err, &te) {
				t.Fatalf("expected *types.Error, got %T", err)
			}
			if te.Code != tt.code {
				t.Errorf("code = %s, want %s (%v)", te.Code, tt.code, err)
			}
			if te.Position != tt.position {
				t.Errorf("position = %d, want %d (%v)", te.Position, tt.position, err)
			}
		})
	}
}

func TestParseLexErrorPassesThrough(t *testing.T) {
	_, err := parser.ParseSource("const x = @")
	if !errors.Is(err, types.ErrLex) {
		t.Fatalf("expected lex error, got %v", err)
	}
	if errors.Is(err, types.ErrParse) {
		t.Fatalf("lex error must not match the parse stage")
	}
}

func TestParseMaxDepth(t *testing.T) {
	tokens, err := parser.Tokenize("f(f(f(1)))")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse(tokens); err != nil {
		t.Fatalf("default depth: unexpected error: %v", err)
	}

	_, err = parser.Parse(tokens, parser.WithMaxDepth(2))
	var te *types.Error
	if !errors.As(err, &te) || te.Code != types.ErrUnsupportedConstruct {
		t.Fatalf("expected %s, got %v", types.ErrUnsupportedConstruct, err)
	}
}

func TestParseHandBuiltTokens(t *testing.T) {
	tokens := []parser.Token{
		{Type: parser.TokenName, Value: "let", Position: 0},
		{Type: parser.TokenName, Value: "n", Position: 4},
		{Type: parser.TokenOperator, Value: "=", Position: 6},
		{Type: parser.TokenNumber, Value: "7", Position: 8},
	}
	program, err := parser.Parse(tokens)
	if err != nil {
		t.Fatal(err)
	}
	if got := program.Body[0].Declarations[0].Init.Value; got != "7" {
		t.Fatalf("init = %q, want 7", got)
	}
}
