package tinyjs_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/sandrolain/tinyjs"
	"github.com/sandrolain/tinyjs/pkg/cache"
	"github.com/sandrolain/tinyjs/pkg/transformer"
	"github.com/sandrolain/tinyjs/pkg/types"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "arrow function",
			input: "const sum = (a, b) => a + b",
			want:  "var sum = function (a, b) {\n  return a + b\n}",
		},
		{
			name:  "surrounding whitespace",
			input: "\n\t const sum = (a, b) => a + b \n",
			want:  "var sum = function (a, b) {\n  return a + b\n}",
		},
		{
			name:  "let with number",
			input: "let x = 10",
			want:  "var x = 10",
		},
		{
			name:  "declaration and call",
			input: "const sum = (a, b) => a + b; sum(1, 2)",
			want:  "var sum = function (a, b) {\n  return a + b\n}\nsum(1, 2);",
		},
		{
			name:  "string body",
			input: `let greet = (name) => "hi" + name`,
			want:  "var greet = function (name) {\n  return \"hi\" + name\n}",
		},
		{
			name:  "empty source",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tinyjs.Compile(tt.input)
			if err != nil {
				t.Fatalf("Compile(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("Compile(%q) =\n%s\nwant:\n%s", tt.input, got, tt.want)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		stage error
		code  types.ErrorCode
	}{
		{"unknown character", "const x = @", types.ErrLex, types.ErrUnknownCharacter},
		{"unterminated string", `const s = "abc`, types.ErrLex, types.ErrStringNotClosed},
		{"missing initializer", "const x =", types.ErrParse, types.ErrUnexpectedEnd},
		{"grouping parens", "let y = (a + b)", types.ErrParse, types.ErrUnsupportedConstruct},
		{"missing assignment", "let y 1", types.ErrParse, types.ErrUnexpectedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tinyjs.Compile(tt.input)
			if err == nil {
				t.Fatalf("Compile(%q) = %q, want error", tt.input, out)
			}
			if out != "" {
				t.Errorf("expected no output on error, got %q", out)
			}
			if !errors.Is(err, tt.stage) {
				t.Errorf("expected stage %v, got %v", tt.stage, err)
			}
			var te *types.Error
			if !errors.As(err, &te) || te.Code != tt.code {
				t.Errorf("expected code %s, got %v", tt.code, err)
			}
		})
	}
}

func TestCompileDeterministic(t *testing.T) {
	src := "const sum = (a, b) => a + b; let f = (x) => (y) => x * y; f(1)(2)"
	first := tinyjs.MustCompile(src)
	for i := 0; i < 10; i++ {
		if got := tinyjs.MustCompile(src); got != first {
			t.Fatalf("run %d: got %q, want %q", i, got, first)
		}
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		if !strings.Contains(r.(string), "L0101") {
			t.Fatalf("panic message %q does not carry the error code", r)
		}
	}()
	tinyjs.MustCompile("#")
}

func TestCompileUnit(t *testing.T) {
	src := "const sum = (a, b) => a + b"
	unit, err := tinyjs.CompileUnit(src)
	if err != nil {
		t.Fatal(err)
	}

	if unit.Source() != src {
		t.Errorf("Source() = %q", unit.Source())
	}
	if got := unit.AST().Body[0].Kind; got != "const" {
		t.Errorf("parsed kind = %q, want const", got)
	}
	if got := unit.Transformed().Body[0].Kind; got != "var" {
		t.Errorf("transformed kind = %q, want var", got)
	}
	if got := unit.AST().Body[0].Declarations[0].Init.Type; got != types.NodeLambdaExpression {
		t.Errorf("parsed init = %s, want LambdaExpression", got)
	}
	if !strings.HasPrefix(unit.Output(), "var sum = function") {
		t.Errorf("Output() = %q", unit.Output())
	}
}

func TestCompilerCaching(t *testing.T) {
	c := tinyjs.New(tinyjs.WithCaching(true), tinyjs.WithCacheSize(2))
	src := "let x = 1"

	u1, err := c.CompileUnit(src)
	if err != nil {
		t.Fatal(err)
	}
	u2, err := c.CompileUnit(src)
	if err != nil {
		t.Fatal(err)
	}
	if u1 != u2 {
		t.Fatal("expected cached unit on second compile")
	}

	if stats := c.CacheStats(); stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("CacheStats() = %+v, want one hit and one miss", stats)
	}

	nc := tinyjs.New()
	n1, _ := nc.CompileUnit(src)
	n2, _ := nc.CompileUnit(src)
	if n1 == n2 {
		t.Fatal("expected a fresh unit per compile without caching")
	}
	if stats := nc.CacheStats(); stats != (cache.Stats{}) {
		t.Fatalf("expected zero stats without caching, got %+v", stats)
	}
}

func TestCompilerSharedCache(t *testing.T) {
	shared := cache.New(8)
	a := tinyjs.New(tinyjs.WithCache(shared))
	b := tinyjs.New(tinyjs.WithCache(shared))

	ua, err := a.CompileUnit("let x = 1")
	if err != nil {
		t.Fatal(err)
	}
	ub, err := b.CompileUnit("let x = 1")
	if err != nil {
		t.Fatal(err)
	}
	if ua != ub {
		t.Fatal("expected compilers to share cached units")
	}
	if shared.Len() != 1 {
		t.Fatalf("shared cache has %d entries, want 1", shared.Len())
	}
}

func TestCompilerSharedCacheSeparatesSettings(t *testing.T) {
	rename := transformer.PassFunc{
		N: "rename",
		F: func(p *types.Node) (*types.Node, error) {
			out := types.Clone(p)
			out.Body[0].Declarations[0].ID.Name = "renamed"
			return out, nil
		},
	}
	shared := cache.New(8)
	renaming := tinyjs.New(tinyjs.WithCache(shared), tinyjs.WithPasses(rename))
	plain := tinyjs.New(tinyjs.WithCache(shared))
	shallow := tinyjs.New(tinyjs.WithCache(shared), tinyjs.WithMaxDepth(2))

	src := "const sum = (a, b) => a + b"
	got, err := renaming.Compile(src)
	if err != nil {
		t.Fatal(err)
	}
	if want := "var renamed = function (a, b) {\n  return a + b\n}"; got != want {
		t.Fatalf("renaming compiler = %q, want %q", got, want)
	}
	got, err = plain.Compile(src)
	if err != nil {
		t.Fatal(err)
	}
	if want := "var sum = function (a, b) {\n  return a + b\n}"; got != want {
		t.Fatalf("plain compiler = %q, want %q", got, want)
	}

	nested := "f(f(f(1)))"
	if _, err := plain.Compile(nested); err != nil {
		t.Fatal(err)
	}
	if _, err := shallow.Compile(nested); !errors.Is(err, types.ErrParse) {
		t.Fatalf("depth-limited compiler got %v, want parse error", err)
	}
	if shared.Len() != 3 {
		t.Fatalf("shared cache has %d entries, want 3", shared.Len())
	}
}

func TestCompilerCachingSkipsErrors(t *testing.T) {
	shared := cache.New(8)
	c := tinyjs.New(tinyjs.WithCache(shared))
	if _, err := c.Compile("const x = @"); err == nil {
		t.Fatal("expected error")
	}
	if shared.Len() != 0 {
		t.Fatal("failed compilation was cached")
	}
}

func TestWithPasses(t *testing.T) {
	rename := transformer.PassFunc{
		N: "rename-sum",
		F: func(p *types.Node) (*types.Node, error) {
			out := types.Clone(p)
			for _, stmt := range out.Body {
				for _, d := range stmt.Declarations {
					if d.ID.Name == "sum" {
						d.ID.Name = "add"
					}
				}
			}
			return out, nil
		},
	}

	got, err := tinyjs.Compile("const sum = (a, b) => a + b", tinyjs.WithPasses(rename))
	if err != nil {
		t.Fatal(err)
	}
	if want := "var add = function (a, b) {\n  return a + b\n}"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWithPassesError(t *testing.T) {
	boom := errors.New("boom")
	failing := transformer.PassFunc{N: "failing", F: func(*types.Node) (*types.Node, error) {
		return nil, boom
	}}
	if _, err := tinyjs.Compile("let x = 1", tinyjs.WithPasses(failing)); !errors.Is(err, boom) {
		t.Fatalf("expected pass error, got %v", err)
	}
}

func TestWithMaxDepth(t *testing.T) {
	src := "f(f(f(f(1))))"
	if _, err := tinyjs.Compile(src); err != nil {
		t.Fatalf("default depth: %v", err)
	}
	_, err := tinyjs.Compile(src, tinyjs.WithMaxDepth(2))
	if !errors.Is(err, types.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if _, err := tinyjs.Compile("let x = 1", tinyjs.WithLogger(logger), tinyjs.WithDebug(true)); err != nil {
		t.Fatal(err)
	}
	for _, stage := range []string{"tokenized", "parsed", "transformed", "generated"} {
		if !strings.Contains(buf.String(), stage) {
			t.Errorf("debug log is missing %q:\n%s", stage, buf.String())
		}
	}

	buf.Reset()
	if _, err := tinyjs.Compile("let x = 1", tinyjs.WithLogger(logger)); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no logs without debug, got:\n%s", buf.String())
	}
}

func TestCompilerConcurrent(t *testing.T) {
	c := tinyjs.New(tinyjs.WithCaching(true))
	sources := []string{
		"const sum = (a, b) => a + b",
		"let x = 1",
		"f(1, 2)",
		"let f = (a) => (b) => a",
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			src := sources[i%len(sources)]
			want := tinyjs.MustCompile(src)
			got, err := c.Compile(src)
			if err != nil {
				t.Error(err)
				return
			}
			if got != want {
				t.Errorf("concurrent compile of %q = %q, want %q", src, got, want)
			}
		}(i)
	}
	wg.Wait()
}

func TestVersion(t *testing.T) {
	if !strings.HasPrefix(tinyjs.Version(), "v") {
		t.Fatalf("Version() = %q", tinyjs.Version())
	}
}
