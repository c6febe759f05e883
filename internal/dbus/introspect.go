package dbus

// NodeInfo is the passive introspection data structure the host supplies
// for an object: the set of interfaces it must implement, each with its
// methods, signals and properties. The core never parses introspection
// XML itself — that belongs to the host;
// NodeInfo is simply the structure the host is expected to have already
// built from it.
type NodeInfo struct {
	Interfaces []InterfaceInfo
}

// InterfaceInfo describes one D-Bus interface.
type InterfaceInfo struct {
	Name       string
	Methods    []MethodInfo
	Signals    []SignalInfo
	Properties []PropertyInfo
}

// MethodInfo describes one method, with its directional argument lists.
type MethodInfo struct {
	Name string
	In   []ArgInfo
	Out  []ArgInfo
}

// SignalInfo describes one signal and its (implicitly "out") arguments.
type SignalInfo struct {
	Name string
	Args []ArgInfo
}

// PropertyAccess is the read/write access flag on a D-Bus property.
type PropertyAccess int

const (
	AccessRead PropertyAccess = iota
	AccessWrite
	AccessReadWrite
)

// PropertyInfo describes one property.
type PropertyInfo struct {
	Name      string
	Signature string
	Access    PropertyAccess
}

// ArgInfo names one method argument and its D-Bus signature.
type ArgInfo struct {
	Name      string
	Signature string
}

// Interface looks up an interface by name.
func (n NodeInfo) Interface(name string) (InterfaceInfo, bool) {
	for _, i := range n.Interfaces {
		if i.Name == name {
			return i, true
		}
	}
	return InterfaceInfo{}, false
}

// FindMethod searches every interface, in declaration order, for a method
// named member. Returns the owning interface alongside it: when more than
// one implemented interface declares a method of the same name, the
// first one declared wins.
func (n NodeInfo) FindMethod(member string) (InterfaceInfo, MethodInfo, bool) {
	for _, iface := range n.Interfaces {
		for _, m := range iface.Methods {
			if m.Name == member {
				return iface, m, true
			}
		}
	}
	return InterfaceInfo{}, MethodInfo{}, false
}

// FindSignal searches every interface, in declaration order, for a signal
// named name.
func (n NodeInfo) FindSignal(name string) (InterfaceInfo, SignalInfo, bool) {
	for _, iface := range n.Interfaces {
		for _, s := range iface.Signals {
			if s.Name == name {
				return iface, s, true
			}
		}
	}
	return InterfaceInfo{}, SignalInfo{}, false
}

// FindProperty searches every interface, in declaration order, for a
// property named name.
func (n NodeInfo) FindProperty(name string) (InterfaceInfo, PropertyInfo, bool) {
	for _, iface := range n.Interfaces {
		for _, p := range iface.Properties {
			if p.Name == name {
				return iface, p, true
			}
		}
	}
	return InterfaceInfo{}, PropertyInfo{}, false
}
