// Package driver is the file-system side of tinyjs: it reads a source file,
// compiles it and writes the generated program, creating the output
// directory when needed. The compiler itself never touches the file system.
package driver

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Compiler is the part of *tinyjs.Compiler the driver needs.
type Compiler interface {
	Compile(source string) (string, error)
}

// Driver compiles one input file to one output file.
type Driver struct {
	cfg      Config
	compiler Compiler
	logger   *slog.Logger
}

// New creates a driver. A nil logger uses slog.Default().
func New(cfg Config, compiler Compiler, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{
		cfg:      cfg,
		compiler: compiler,
		logger:   logger,
	}
}

// Config returns the driver configuration.
func (d *Driver) Config() Config {
	return d.cfg
}

// Result describes one successful build.
type Result struct {
	Input  string
	Output string
	Bytes  int
}

// Build reads the input file, compiles it and writes the output file.
// A failing compilation writes nothing.
func (d *Driver) Build() (Result, error) {
	src, err := os.ReadFile(d.cfg.Input)
	if err != nil {
		return Result{}, fmt.Errorf("read input: %w", err)
	}

	out, err := d.compiler.Compile(string(src))
	if err != nil {
		return Result{}, fmt.Errorf("compile %s: %w", d.cfg.Input, err)
	}

	if err := os.MkdirAll(d.cfg.OutDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create output directory: %w", err)
	}

	path := d.cfg.OutputPath()
	if err := writeFile(path, []byte(out)); err != nil {
		return Result{}, fmt.Errorf("write output: %w", err)
	}

	d.logger.Info("compiled complete", "input", d.cfg.Input, "output", path, "bytes", len(out))
	return Result{Input: d.cfg.Input, Output: path, Bytes: len(out)}, nil
}

// writeFile writes data through a temporary file in the same directory, so
// readers never observe a partially written output.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
