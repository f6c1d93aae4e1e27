package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sandrolain/tinyjs/pkg/driver"
	"github.com/sandrolain/tinyjs/pkg/wasmhost"
)

func newBuildCmd(a *app) *cobra.Command {
	var (
		outDir   string
		output   string
		wasmPath string
		watch    bool
	)

	cmd := &cobra.Command{
		Use:   "build [input]",
		Short: "Compile a source file into the output directory",
		Long: `Compile a source file and write the result into the output directory,
creating the directory when it does not exist. Without arguments the
configured input (default src/index.js) is compiled to dist/index.js.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if len(args) > 0 {
				cfg.Input = args[0]
			}
			if cmd.Flags().Changed("out-dir") {
				cfg.OutDir = outDir
			}
			if cmd.Flags().Changed("output") {
				cfg.Output = output
			}
			if err := cfg.Validate(); err != nil {
				printError(cmd.ErrOrStderr(), "config", err)
				return err
			}

			local := a.compiler()
			var compiler driver.Compiler = local
			if cmd.Flags().Changed("wasm") {
				host, err := wasmhost.NewFromFile(cmd.Context(), wasmPath, wasmhost.WithLogger(a.logger))
				if err != nil {
					printError(cmd.ErrOrStderr(), "wasm", err)
					return err
				}
				defer host.Close(cmd.Context())
				compiler = host
			}

			d := driver.New(cfg, compiler, a.logger)
			res, err := d.Build()
			report(cmd.OutOrStdout(), cmd.ErrOrStderr(), res, err)
			if !watch {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return d.Watch(ctx, func(res driver.Result, err error) {
				report(cmd.OutOrStdout(), cmd.ErrOrStderr(), res, err)
				stats := local.CacheStats()
				a.logger.Debug("cache", "hits", stats.Hits, "misses", stats.Misses, "evictions", stats.Evictions)
			})
		},
	}

	cmd.Flags().StringVarP(&outDir, "out-dir", "d", "", "output directory (default: dist)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file name inside the output directory (default: index.js)")
	cmd.Flags().StringVar(&wasmPath, "wasm", "", "compile inside the WASI module at this path (empty: $"+wasmhost.EnvWASM+")")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "rebuild whenever the input changes")
	return cmd
}

// report prints the outcome of one build.
func report(stdout, stderr io.Writer, res driver.Result, err error) {
	if err != nil {
		printError(stderr, "build", err)
		return
	}
	fmt.Fprintln(stdout, successStyle.Render("compiled complete")+" "+
		mutedStyle.Render(fmt.Sprintf("%s → %s (%d bytes)", res.Input, res.Output, res.Bytes)))
}
