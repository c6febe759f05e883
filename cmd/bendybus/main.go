// Command bendybus is a developer harness around the bendy-bus simulator:
// checking a simulation program against a set of D-Bus interfaces,
// dumping its parsed structure, reporting state reachability, and
// sampling the structural fuzzer against a bare type signature. It never
// opens a D-Bus connection itself.
package main

import (
	"os"

	"github.com/pwithnall/bendy-bus/cmd/bendybus/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
