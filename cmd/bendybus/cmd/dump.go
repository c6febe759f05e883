package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/pwithnall/bendy-bus/internal/ast"
	"github.com/pwithnall/bendy-bus/pkg/bendybus"
	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"
)

var dumpJSON bool

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Dump the parsed structure of a simulation program",
	Long: `Parse a simulation program (without requiring introspection data)
and print its object declarations, data blocks, states and transitions.

Examples:
  # Human-readable dump
  bendybus dump service.sim

  # Machine-readable dump
  bendybus dump service.sim --json`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().BoolVar(&dumpJSON, "json", false, "emit a machine-readable JSON dump instead of text")
}

func runDump(_ *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	prog, err := bendybus.Parse(string(content), filename)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return fmt.Errorf("dump failed")
	}

	if dumpJSON {
		out, err := dumpProgramJSON(prog)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	fmt.Print(dumpProgramText(prog))
	return nil
}

func dumpProgramText(prog *ast.Program) string {
	var sb strings.Builder
	for _, obj := range prog.Objects {
		fmt.Fprintf(&sb, "object at %s\n", obj.ObjectPath)
		if len(obj.BusNames) > 0 {
			fmt.Fprintf(&sb, "  bus names: %s\n", strings.Join(obj.BusNames, ", "))
		}
		fmt.Fprintf(&sb, "  implements: %s\n", strings.Join(obj.InterfaceNames, ", "))
		for _, block := range obj.DataBlocks {
			sb.WriteString("  data {\n")
			for _, entry := range block {
				fmt.Fprintf(&sb, "    %s = %s;\n", entry.Name, entry.Literal)
			}
			sb.WriteString("  }\n")
		}
		for _, block := range obj.StateBlocks {
			fmt.Fprintf(&sb, "  states: %s\n", strings.Join(block, ", "))
		}
		for _, block := range obj.TransitionBlocks {
			for _, binding := range block.Bindings {
				nick := ""
				if binding.Nickname != "" {
					nick = " as " + binding.Nickname
				}
				fmt.Fprintf(&sb, "  %s -> %s%s: %s\n", binding.FromState, binding.ToState, nick, block.Def)
			}
		}
	}
	return sb.String()
}

func dumpProgramJSON(prog *ast.Program) (string, error) {
	out := "{}"
	var err error
	for i, obj := range prog.Objects {
		prefix := fmt.Sprintf("objects.%d.", i)
		out, err = sjson.Set(out, prefix+"objectPath", obj.ObjectPath)
		if err != nil {
			return "", err
		}
		out, err = sjson.Set(out, prefix+"busNames", obj.BusNames)
		if err != nil {
			return "", err
		}
		out, err = sjson.Set(out, prefix+"interfaces", obj.InterfaceNames)
		if err != nil {
			return "", err
		}
		var transitions []string
		for _, block := range obj.TransitionBlocks {
			for _, binding := range block.Bindings {
				transitions = append(transitions, fmt.Sprintf("%s -> %s: %s", binding.FromState, binding.ToState, block.Def))
			}
		}
		out, err = sjson.Set(out, prefix+"transitions", transitions)
		if err != nil {
			return "", err
		}
	}
	return out, nil
}
