package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "infergen",
	Short: "Infer algebraic and structural properties of a function under test",
	Long: `infergen provides two features:
- Runs the property-inference engine against a bundled or user-supplied grammar + function under test.
- Describes a grammar file in human-readable form, for debugging grammar authoring.`,
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
