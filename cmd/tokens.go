package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/csimple/internal/compiler"
	"github.com/arnavsurve/csimple/internal/compiler/source"
)

// tokens: dump the lexer output
var TokensCmd = &cobra.Command{
	Use:   "tokens <source.csim>",
	Short: "Print the token stream of a Csimple source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		toks, err := compiler.Tokens(source.File{Path: args[0]})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, tok := range toks {
			fmt.Fprintf(out, "%d:%d\t%-8s %q\n", tok.Line, tok.Column, tok.Type, tok.Literal)
		}
		return nil
	},
}
