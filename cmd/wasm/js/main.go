//go:build js && wasm

// Command tinyjs-wasm-js is the WebAssembly entrypoint for browser and Node.js.
//
// It exposes a global `tinyjs` object with the following API:
//
//	tinyjs.version()          → string
//	tinyjs.compile(source)    → string, or an Error object on failure
//	tinyjs.tokenize(source)   → JSON array of tokens, or an Error object
//
// Failures are returned, not thrown, so the Go runtime keeps serving calls.
//
// Build:
//
//	GOOS=js GOARCH=wasm go build -o tinyjs.wasm ./cmd/wasm/js/
//
// Usage in Node.js:
//
//	require('./wasm_exec.js')
//	const go = new Go()
//	const { instance } = await WebAssembly.instantiate(fs.readFileSync('tinyjs.wasm'), go.importObject)
//	go.run(instance)
//	const out = tinyjs.compile('const sum = (a, b) => a + b')
//	if (out instanceof Error) throw out
package main

import (
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/sandrolain/tinyjs"
	"github.com/sandrolain/tinyjs/pkg/parser"
)

// jsError builds the JS Error value returned to the caller on failure.
func jsError(msg string) js.Value {
	return js.Global().Get("Error").New(msg)
}

// guard turns a panic in fn into a returned Error instead of killing the
// runtime.
func guard(fn func(js.Value, []js.Value) interface{}) js.Func {
	return js.FuncOf(func(this js.Value, args []js.Value) (result interface{}) {
		defer func() {
			if r := recover(); r != nil {
				result = jsError(fmt.Sprintf("tinyjs: %v", r))
			}
		}()
		return fn(this, args)
	})
}

// compiler is shared by every call; the cache makes repeated sources cheap.
var compiler = tinyjs.New(tinyjs.WithCaching(true))

// jsCompile implements tinyjs.compile(source) → string.
func jsCompile(_ js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return jsError("tinyjs.compile requires 1 argument: source (string)")
	}
	out, err := compiler.Compile(args[0].String())
	if err != nil {
		return jsError(fmt.Sprintf("tinyjs.compile: %v", err))
	}
	return out
}

type jsToken struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Position int    `json:"position"`
}

// jsTokenize implements tinyjs.tokenize(source) → JSON array.
func jsTokenize(_ js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return jsError("tinyjs.tokenize requires 1 argument: source (string)")
	}
	tokens, err := parser.Tokenize(args[0].String())
	if err != nil {
		return jsError(fmt.Sprintf("tinyjs.tokenize: %v", err))
	}
	out := make([]jsToken, len(tokens))
	for i, t := range tokens {
		out[i] = jsToken{Type: t.Type.String(), Value: t.Value, Position: t.Position}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return jsError(fmt.Sprintf("tinyjs.tokenize: marshal result: %v", err))
	}
	return string(b)
}

func main() {
	api := map[string]interface{}{
		"compile":  guard(jsCompile),
		"tokenize": guard(jsTokenize),
		"version": guard(func(_ js.Value, _ []js.Value) interface{} {
			return tinyjs.Version()
		}),
	}
	js.Global().Set("tinyjs", js.ValueOf(api))

	// Block forever: the JS event loop owns execution from here.
	select {}
}
