package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var numRows uint32
var keyValue int32
var explainOnly bool

// rootCmd is used for running scans on a generated table while debugging.
// current SamehadaScan is a library and this is not part of its surface.
var rootCmd = &cobra.Command{
	Use:   "samehada-scan",
	Short: "Runs access method scans over a generated table",
	Long: `samehada-scan builds table test_1 (colA serial, colB indexed 0..9, colC random varchar)
on in-memory storage and prints the Explain output and rows of a scan.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Uint32Var(&numRows, "rows", 100, "number of generated rows")
	rootCmd.PersistentFlags().BoolVar(&explainOnly, "explain", false, "print Explain output only")
}
