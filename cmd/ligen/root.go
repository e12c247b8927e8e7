package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ligen",
	Short: "Generate a predictive parser from a grammar",
	Long: `ligen provides two features:
- Generates recursive descent parser source code from a grammar.
- Prints the FIRST sets, FOLLOW sets, and parse table of a grammar.
  This feature is primarily aimed at debugging the grammar.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
