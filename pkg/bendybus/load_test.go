package bendybus

import (
	"strings"
	"testing"

	"github.com/pwithnall/bendy-bus/internal/dbus"
)

const echoProgram = `
object at "/org/example/Foo" implements org.example.Foo {
	states { Main; }
	transition from Main to Main on method Echo {
		reply (value);
	}
}
`

func echoRegistry() map[string]dbus.InterfaceInfo {
	return map[string]dbus.InterfaceInfo{
		"org.example.Foo": {
			Name: "org.example.Foo",
			Methods: []dbus.MethodInfo{{
				Name: "Echo",
				In:   []dbus.ArgInfo{{Name: "value", Signature: "s"}},
				Out:  []dbus.ArgInfo{{Name: "value", Signature: "s"}},
			}},
		},
	}
}

func TestLoadSucceedsWithMatchingIntrospection(t *testing.T) {
	result := Load(echoProgram, "echo.sim", echoRegistry())
	if !result.OK() {
		t.Fatalf("unexpected diagnostics: %s", FormatDiagnostics(result.Diagnostics, false))
	}
	if len(result.Objects) != 1 {
		t.Fatalf("expected 1 checked object, got %d", len(result.Objects))
	}
}

func TestLoadReportsUnknownInterface(t *testing.T) {
	result := Load(echoProgram, "echo.sim", nil)
	if result.OK() {
		t.Fatalf("expected a diagnostic for a missing interface")
	}
	msg := FormatDiagnostics(result.Diagnostics, false)
	if !strings.Contains(msg, "org.example.Foo") {
		t.Fatalf("expected the diagnostic to mention the unresolved interface, got %q", msg)
	}
}

func TestLoadReportsParseErrors(t *testing.T) {
	result := Load("object at not valid {", "broken.sim", nil)
	if result.OK() {
		t.Fatalf("expected a parse diagnostic")
	}
	if result.Program != nil {
		t.Fatalf("expected no program on a parse failure")
	}
}

func TestParseSucceedsWithoutIntrospection(t *testing.T) {
	prog, err := Parse(echoProgram, "echo.sim")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Objects) != 1 {
		t.Fatalf("expected 1 object, got %d", len(prog.Objects))
	}
}
