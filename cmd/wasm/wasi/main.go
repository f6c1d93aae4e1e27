//go:build wasip1

// Command tinyjs-wasm-wasi is the WASI (wasip1) entrypoint for use from any
// language that supports the WebAssembly System Interface.
//
// Protocol: single JSON object on stdin → single JSON object on stdout.
//
//	stdin:  { "source": "<program>" }
//	stdout: { "output": "<generated program>" }   on success
//	        { "error":  "<message>", "code": "<error code>" }   on failure (exit code 1)
//
// Build:
//
//	GOOS=wasip1 GOARCH=wasm go build -o tinyjs.wasm ./cmd/wasm/wasi/
//
// Usage with wasmtime CLI:
//
//	echo '{"source":"const sum = (a, b) => a + b"}' | wasmtime tinyjs.wasm
//
// From Go, github.com/sandrolain/tinyjs/pkg/wasmhost runs the module on
// wazero.
package main

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/sandrolain/tinyjs"
	"github.com/sandrolain/tinyjs/pkg/types"
)

type request struct {
	Source string `json:"source"`
}

type response struct {
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
	Code   string `json:"code,omitempty"`
}

func writeResponse(r response, exitCode int) {
	_ = json.NewEncoder(os.Stdout).Encode(r)
	os.Exit(exitCode)
}

func main() {
	var req request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(response{Error: "invalid request JSON: " + err.Error()}, 1)
	}

	out, err := tinyjs.Compile(req.Source)
	if err != nil {
		resp := response{Error: err.Error()}
		var te *types.Error
		if errors.As(err, &te) {
			resp.Code = string(te.Code)
		}
		writeResponse(resp, 1)
	}

	writeResponse(response{Output: out}, 0)
}
