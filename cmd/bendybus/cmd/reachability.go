package cmd

import (
	"fmt"
	"os"

	"github.com/pwithnall/bendy-bus/internal/reach"
	"github.com/pwithnall/bendy-bus/pkg/bendybus"
	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"
)

var (
	reachIntrospectPath string
	reachJSON           bool
)

var reachabilityCmd = &cobra.Command{
	Use:   "reachability <file>",
	Short: "Report which states of a simulation program can be reached",
	Long: `Check a simulation program, then for each object run the
reachability analysis: every state is classified REACHABLE,
POSSIBLY_REACHABLE (only reachable through transitions that have
preconditions) or UNREACHABLE.

Examples:
  bendybus reachability service.sim --introspect service.xml
  bendybus reachability service.sim --introspect service.xml --json`,
	Args: cobra.ExactArgs(1),
	RunE: runReachability,
}

func init() {
	rootCmd.AddCommand(reachabilityCmd)
	reachabilityCmd.Flags().StringVar(&reachIntrospectPath, "introspect", "", "D-Bus introspection XML file describing implemented interfaces")
	reachabilityCmd.Flags().BoolVar(&reachJSON, "json", false, "emit machine-readable JSON instead of text")
}

func runReachability(_ *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	registry, err := loadRegistry(reachIntrospectPath)
	if err != nil {
		return err
	}

	result := bendybus.Load(string(content), filename, registry)
	if !result.OK() {
		fmt.Fprintln(os.Stderr, bendybus.FormatDiagnostics(result.Diagnostics, true))
		return fmt.Errorf("check failed with %d diagnostic(s)", len(result.Diagnostics))
	}

	if reachJSON {
		out, err := reachabilityJSON(result)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	for _, obj := range result.Objects {
		fmt.Printf("object at %s\n", obj.Decl.ObjectPath)
		for _, report := range reach.Analyze(obj.StateNames, obj.Transitions) {
			fmt.Printf("  %-20s %s\n", report.State, report.Reachability)
		}
	}
	return nil
}

func reachabilityJSON(result *bendybus.LoadResult) (string, error) {
	out := "{}"
	var err error
	for i, obj := range result.Objects {
		prefix := fmt.Sprintf("objects.%d.", i)
		out, err = sjson.Set(out, prefix+"objectPath", obj.Decl.ObjectPath)
		if err != nil {
			return "", err
		}
		for j, report := range reach.Analyze(obj.StateNames, obj.Transitions) {
			statePrefix := fmt.Sprintf("%sstates.%d.", prefix, j)
			out, err = sjson.Set(out, statePrefix+"name", report.State)
			if err != nil {
				return "", err
			}
			out, err = sjson.Set(out, statePrefix+"reachability", report.Reachability.String())
			if err != nil {
				return "", err
			}
		}
	}
	return out, nil
}
