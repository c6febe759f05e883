package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "bendybus",
	Short: "Developer harness for bendy-bus simulation programs",
	Long: `bendybus is a developer tool for writing and debugging bendy-bus
simulation programs: declarative descriptions of how a simulated D-Bus
object responds to method calls, property sets and the passage of time.

It never opens a D-Bus connection itself; that is a real host's job.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
