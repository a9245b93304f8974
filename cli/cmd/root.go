package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:          "chunkfmt",
		Short:        "chunkfmt",
		SilenceUsage: true,
		Long:         `chunkfmt reformats SQL source files by searching for the cheapest set of line breaks that fits a target page width.`,
	}

	directory string
	pageWidth int
	indent    int
	verbose   bool
)

// Execute executes the root command.
func Execute() error {
	rootCmd.PersistentFlags().StringVarP(&directory, "directory", "d", ".", "path to directory and subtree which will be scanned for *.sql files")
	rootCmd.PersistentFlags().IntVar(&pageWidth, "width", 0, "page width in columns (overrides chunkfmt.yaml; 0 means use config/default)")
	rootCmd.PersistentFlags().IntVar(&indent, "indent", 0, "spaces per indent level (accepted but not applied: the indent width is fixed at 2)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log batch boundaries and preemption decisions")

	// Flags are parsed inside rootCmd.Execute, so the level is chosen in a
	// hook that runs after parsing.
	rootCmd.PersistentPreRun = func(*cobra.Command, []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		} else {
			logrus.SetLevel(logrus.WarnLevel)
		}
	}

	return rootCmd.Execute()
}

func init() {
}
