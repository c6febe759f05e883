package cmd

import "testing"

func TestSubcommandsAreRegistered(t *testing.T) {
	want := map[string]bool{"check": false, "dump": false, "reachability": false, "fuzz-demo": false}
	for _, c := range rootCmd.Commands() {
		name := c.Name()
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Fatalf("expected %q to be registered on the root command", name)
		}
	}
}
