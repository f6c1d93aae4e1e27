package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sandrolain/tinyjs/pkg/parser"
	"github.com/sandrolain/tinyjs/pkg/transformer"
)

func newTokensCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [input]",
		Short: "Print the token stream of a source file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.readSource(args, cmd.InOrStdin())
			if err != nil {
				printError(cmd.ErrOrStderr(), "tokens", err)
				return err
			}
			tokens, err := parser.Tokenize(src)
			if err != nil {
				printError(cmd.ErrOrStderr(), "tokens", err)
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "POS\tTYPE\tVALUE")
			for _, t := range tokens {
				fmt.Fprintf(w, "%d\t%s\t%q\n", t.Position, t.Type, t.Value)
			}
			return w.Flush()
		},
	}
}

func newASTCmd(a *app) *cobra.Command {
	var (
		format      string
		transformed bool
	)

	cmd := &cobra.Command{
		Use:   "ast [input]",
		Short: "Dump the syntax tree of a source file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.readSource(args, cmd.InOrStdin())
			if err != nil {
				printError(cmd.ErrOrStderr(), "ast", err)
				return err
			}
			tree, err := parser.ParseSource(src)
			if err == nil && transformed {
				tree, err = transformer.Transform(tree)
			}
			if err != nil {
				printError(cmd.ErrOrStderr(), "ast", err)
				return err
			}

			var out []byte
			switch format {
			case "yaml":
				out, err = yaml.Marshal(tree)
			case "json":
				out, err = json.MarshalIndent(tree, "", "  ")
				out = append(out, '\n')
			default:
				err = fmt.Errorf("unknown format %q (want yaml or json)", format)
			}
			if err != nil {
				printError(cmd.ErrOrStderr(), "ast", err)
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml or json")
	cmd.Flags().BoolVarP(&transformed, "transformed", "t", false, "dump the tree after transformation")
	return cmd
}
