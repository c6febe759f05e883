package bendybus

import (
	"encoding/xml"
	"fmt"

	"github.com/pwithnall/bendy-bus/internal/dbus"
)

// xmlNode mirrors the subset of the D-Bus introspection XML schema
// (see the "org.freedesktop.DBus.Introspectable" interface) that a
// simulated object's "implements" clauses need: interface names and
// their methods, signals and properties. Anything else in a real
// introspection document (child <node> elements, annotations) is parsed
// and discarded.
type xmlNode struct {
	Interfaces []xmlInterface `xml:"interface"`
}

type xmlInterface struct {
	Name       string        `xml:"name,attr"`
	Methods    []xmlMethod   `xml:"method"`
	Signals    []xmlSignal   `xml:"signal"`
	Properties []xmlProperty `xml:"property"`
}

type xmlMethod struct {
	Name string  `xml:"name,attr"`
	Args []xmlArg `xml:"arg"`
}

type xmlSignal struct {
	Name string  `xml:"name,attr"`
	Args []xmlArg `xml:"arg"`
}

type xmlArg struct {
	Name      string `xml:"name,attr"`
	Type      string `xml:"type,attr"`
	Direction string `xml:"direction,attr"` // "in" or "out"; signal args carry none
}

type xmlProperty struct {
	Name   string `xml:"name,attr"`
	Type   string `xml:"type,attr"`
	Access string `xml:"access,attr"`
}

// ParseIntrospectionXML parses a standard D-Bus introspection document
// into the registry Load expects: a map from interface name to its
// InterfaceInfo, ready to be passed straight through. The core package
// (internal/dbus) never parses XML itself, by design; this is the one
// place the module touches it, and it uses the standard library's
// encoding/xml since no third-party D-Bus introspection parser appears
// anywhere in the reference corpus.
func ParseIntrospectionXML(data []byte) (map[string]dbus.InterfaceInfo, error) {
	var node xmlNode
	if err := xml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("bendybus: parsing introspection XML: %w", err)
	}

	registry := make(map[string]dbus.InterfaceInfo, len(node.Interfaces))
	for _, iface := range node.Interfaces {
		registry[iface.Name] = dbus.InterfaceInfo{
			Name:       iface.Name,
			Methods:    convertMethods(iface.Methods),
			Signals:    convertSignals(iface.Signals),
			Properties: convertProperties(iface.Properties),
		}
	}
	return registry, nil
}

func convertMethods(methods []xmlMethod) []dbus.MethodInfo {
	out := make([]dbus.MethodInfo, len(methods))
	for i, m := range methods {
		var in, outArgs []dbus.ArgInfo
		for _, a := range m.Args {
			arg := dbus.ArgInfo{Name: a.Name, Signature: a.Type}
			if a.Direction == "out" {
				outArgs = append(outArgs, arg)
			} else {
				in = append(in, arg)
			}
		}
		out[i] = dbus.MethodInfo{Name: m.Name, In: in, Out: outArgs}
	}
	return out
}

func convertSignals(signals []xmlSignal) []dbus.SignalInfo {
	out := make([]dbus.SignalInfo, len(signals))
	for i, s := range signals {
		args := make([]dbus.ArgInfo, len(s.Args))
		for j, a := range s.Args {
			args[j] = dbus.ArgInfo{Name: a.Name, Signature: a.Type}
		}
		out[i] = dbus.SignalInfo{Name: s.Name, Args: args}
	}
	return out
}

func convertProperties(properties []xmlProperty) []dbus.PropertyInfo {
	out := make([]dbus.PropertyInfo, len(properties))
	for i, p := range properties {
		access := dbus.AccessRead
		switch p.Access {
		case "write":
			access = dbus.AccessWrite
		case "readwrite":
			access = dbus.AccessReadWrite
		}
		out[i] = dbus.PropertyInfo{Name: p.Name, Signature: p.Type, Access: access}
	}
	return out
}
