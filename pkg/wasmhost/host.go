// Package wasmhost runs the WASI build of tinyjs (cmd/wasm/wasi) inside a
// wazero runtime, so the compiler can be executed sandboxed and from a
// binary that was built separately from the host program.
//
// Every Compile call instantiates a fresh module: the guest reads one JSON
// request from stdin, writes one JSON response to stdout and exits. No guest
// state survives between calls.
//
// # Example
//
//	bin, _ := os.ReadFile("tinyjs.wasm")
//	host, err := wasmhost.New(ctx, bin)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer host.Close(ctx)
//	out, err := host.CompileContext(ctx, "const sum = (a, b) => a + b")
package wasmhost

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"

	"github.com/sandrolain/tinyjs/pkg/types"
)

// EnvWASM names the environment variable holding the default module path.
const EnvWASM = "TINYJS_WASM"

// Host owns a wazero runtime with the compiled tinyjs module.
// It is safe for concurrent use by multiple goroutines.
type Host struct {
	runtime wazero.Runtime
	module  wazero.CompiledModule
	logger  *slog.Logger
}

// Options configures a Host.
type Options struct {
	// CacheDir enables wazero's on-disk compilation cache.
	CacheDir string
	// Logger for structured logging.
	Logger *slog.Logger
}

// Option configures a Host.
type Option func(*Options)

// WithCacheDir stores compiled machine code in dir across processes.
func WithCacheDir(dir string) Option {
	return func(opts *Options) {
		opts.CacheDir = dir
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// New compiles the wasip1 module in bin and prepares a runtime for it.
func New(ctx context.Context, bin []byte, opts ...Option) (*Host, error) {
	var options Options
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	cfg := wazero.NewRuntimeConfig().WithCloseOnContextDone(true)
	if options.CacheDir != "" {
		cache, err := wazero.NewCompilationCacheWithDir(options.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("wasmhost: compilation cache: %w", err)
		}
		cfg = cfg.WithCompilationCache(cache)
	}

	r := wazero.NewRuntimeWithConfig(ctx, cfg)
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("wasmhost: instantiate WASI: %w", err)
	}

	mod, err := r.CompileModule(ctx, bin)
	if err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("wasmhost: compile module: %w", err)
	}

	options.Logger.Debug("wasm module compiled", "bytes", len(bin))
	return &Host{runtime: r, module: mod, logger: options.Logger}, nil
}

// NewFromFile is New with the module read from path. An empty path falls
// back to the TINYJS_WASM environment variable.
func NewFromFile(ctx context.Context, path string, opts ...Option) (*Host, error) {
	if path == "" {
		path = os.Getenv(EnvWASM)
	}
	if path == "" {
		return nil, fmt.Errorf("wasmhost: no module path given and %s is not set", EnvWASM)
	}
	bin, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wasmhost: %w", err)
	}
	return New(ctx, bin, opts...)
}

type request struct {
	Source string `json:"source"`
}

type response struct {
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
	Code   string `json:"code,omitempty"`
}

// ModuleError is a compilation error reported by the guest module.
// It matches the stage sentinels of package types with errors.Is.
type ModuleError struct {
	Code    types.ErrorCode
	Message string
}

func (e *ModuleError) Error() string {
	return e.Message
}

// Is reports whether target is the stage sentinel of e's code.
func (e *ModuleError) Is(target error) bool {
	stage := e.Code.Stage()
	return stage != nil && stage == target
}

// Compile runs CompileContext with a background context.
func (h *Host) Compile(source string) (string, error) {
	return h.CompileContext(context.Background(), source)
}

// CompileContext transpiles source inside a fresh module instance.
// Cancelling ctx terminates the guest.
func (h *Host) CompileContext(ctx context.Context, source string) (string, error) {
	payload, err := json.Marshal(request{Source: source})
	if err != nil {
		return "", fmt.Errorf("wasmhost: marshal request: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cfg := wazero.NewModuleConfig().
		WithName("").
		WithArgs("tinyjs").
		WithStdin(bytes.NewReader(payload)).
		WithStdout(&stdout).
		WithStderr(&stderr).
		WithSysWalltime().
		WithSysNanotime().
		WithRandSource(rand.Reader)

	mod, err := h.runtime.InstantiateModule(ctx, h.module, cfg)
	if mod != nil {
		defer mod.Close(ctx)
	}
	exitCode := uint32(0)
	if err != nil {
		var exitErr *sys.ExitError
		if !errors.As(err, &exitErr) {
			return "", fmt.Errorf("wasmhost: run module: %w", err)
		}
		exitCode = exitErr.ExitCode()
	}

	var resp response
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return "", fmt.Errorf("wasmhost: decode response (exit code %d, stderr %q): %w",
			exitCode, stderr.String(), err)
	}

	if resp.Error != "" || exitCode != 0 {
		h.logger.Debug("wasm compile failed", "code", resp.Code, "exit", exitCode)
		return "", &ModuleError{Code: types.ErrorCode(resp.Code), Message: resp.Error}
	}
	return resp.Output, nil
}

// Close releases the runtime and every module compiled in it.
func (h *Host) Close(ctx context.Context) error {
	return h.runtime.Close(ctx)
}
