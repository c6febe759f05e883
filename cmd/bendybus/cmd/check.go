package cmd

import (
	"fmt"
	"os"

	"github.com/pwithnall/bendy-bus/internal/dbus"
	"github.com/pwithnall/bendy-bus/pkg/bendybus"
	"github.com/spf13/cobra"
)

var checkIntrospectPath string

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Check a simulation program against its D-Bus introspection",
	Long: `Parse and check a simulation program, reporting every diagnostic
raised by the lexer, parser and the pre-check/type-check phases.

Examples:
  # Check a program, allowing every implemented interface to resolve
  bendybus check service.sim --introspect service.xml

  # Check a program with no interfaces implemented
  bendybus check standalone.sim`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkIntrospectPath, "introspect", "", "D-Bus introspection XML file describing implemented interfaces")
}

func runCheck(_ *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	registry, err := loadRegistry(checkIntrospectPath)
	if err != nil {
		return err
	}

	result := bendybus.Load(string(content), filename, registry)
	if !result.OK() {
		fmt.Fprintln(os.Stderr, bendybus.FormatDiagnostics(result.Diagnostics, true))
		return fmt.Errorf("check failed with %d diagnostic(s)", len(result.Diagnostics))
	}

	fmt.Printf("OK: %d object(s) checked\n", len(result.Objects))
	return nil
}

func loadRegistry(introspectPath string) (map[string]dbus.InterfaceInfo, error) {
	if introspectPath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(introspectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read introspection file %s: %w", introspectPath, err)
	}
	registry, err := bendybus.ParseIntrospectionXML(data)
	if err != nil {
		return nil, err
	}
	return registry, nil
}
