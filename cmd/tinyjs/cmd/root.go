package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sandrolain/tinyjs"
	"github.com/sandrolain/tinyjs/pkg/driver"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	cfgFile string
	verbose bool

	cfg    driver.Config
	level  slog.Level
	logger *slog.Logger
	runID  string
}

// Execute runs the command line with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the complete command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "tinyjs",
		Short: "tinyjs - arrow function to function expression transpiler",
		Long: `tinyjs rewrites a tiny expression language that binds arrow functions
to variables into the same program written with classic function
expressions.

  const sum = (a, b) => a + b

becomes

  var sum = function (a, b) {
    return a + b
  }`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./"+driver.DefaultConfigFile+" if present)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newBuildCmd(a),
		newTokensCmd(a),
		newASTCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the configuration and builds the logger.
func (a *app) setup(stderr io.Writer) error {
	cfg, err := driver.LoadConfig(a.cfgFile)
	if err != nil {
		printError(stderr, "config", err)
		return err
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}
	level, err := driver.ParseLevel(cfg.LogLevel)
	if err != nil {
		printError(stderr, "config", err)
		return err
	}

	a.cfg = cfg
	a.level = level
	a.runID = uuid.New().String()
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})).
		With("run_id", a.runID)
	return nil
}

// compiler returns a Compiler configured from the loaded settings.
func (a *app) compiler() *tinyjs.Compiler {
	return tinyjs.New(
		tinyjs.WithCaching(a.cfg.CacheSize > 0),
		tinyjs.WithCacheSize(a.cfg.CacheSize),
		tinyjs.WithLogger(a.logger),
		tinyjs.WithDebug(a.level <= slog.LevelDebug),
	)
}

// readSource reads the file named by args, the configured input when args
// is empty, or stdin for "-".
func (a *app) readSource(args []string, stdin io.Reader) (string, error) {
	path := a.cfg.Input
	if len(args) > 0 {
		path = args[0]
	}
	if path == "-" {
		b, err := io.ReadAll(stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(b), nil
}

func printError(w io.Writer, msg string, err error) {
	fmt.Fprintln(w, errorStyle.Render("error: "+msg+": "+err.Error()))
}
