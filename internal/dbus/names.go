// Package dbus holds the passive data structures describing D-Bus
// introspection (NodeInfo) and the validation rules for D-Bus object
// paths, well-known bus names, interface names and signatures.
// Nothing here talks to an actual bus — that remains the host's job.
package dbus

import "strings"

// IsValidObjectPath reports whether s is a syntactically valid D-Bus
// object path: starts with '/', contains only '/' and
// [A-Za-z0-9_]+ segments, no trailing slash unless the path is just "/",
// and no empty segments.
func IsValidObjectPath(s string) bool {
	if s == "" || s[0] != '/' {
		return false
	}
	if s == "/" {
		return true
	}
	if strings.HasSuffix(s, "/") {
		return false
	}
	for _, seg := range strings.Split(s[1:], "/") {
		if seg == "" || !isValidPathSegment(seg) {
			return false
		}
	}
	return true
}

func isValidPathSegment(seg string) bool {
	for _, r := range seg {
		if !isAsciiAlnum(r) && r != '_' {
			return false
		}
	}
	return true
}

func isAsciiAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// IsValidWellKnownBusName reports whether s is a syntactically valid
// *well-known* (non-unique) D-Bus bus name: at least two elements
// separated by '.', each element starting with a letter or '_' and
// containing only [A-Za-z0-9_-]. Unique names (starting with ':') are
// rejected: object implementations only use well-known (not unique) bus names
// requirement.
func IsValidWellKnownBusName(s string) bool {
	if s == "" || strings.HasPrefix(s, ":") {
		return false
	}
	elems := strings.Split(s, ".")
	if len(elems) < 2 {
		return false
	}
	for _, e := range elems {
		if !isValidNameElement(e, false) {
			return false
		}
	}
	return true
}

// IsValidInterfaceName reports whether s is a syntactically valid D-Bus
// interface name: the same element rules as a bus name, except that '-'
// is not allowed in any element.
func IsValidInterfaceName(s string) bool {
	elems := strings.Split(s, ".")
	if len(elems) < 2 {
		return false
	}
	for _, e := range elems {
		if !isValidNameElement(e, true) {
			return false
		}
	}
	return true
}

// IsValidMemberName reports whether s is a valid method/signal/property
// name: a single identifier element, no dots.
func IsValidMemberName(s string) bool {
	return isValidNameElement(s, true)
}

func isValidNameElement(e string, strict bool) bool {
	if e == "" || len(e) > 255 {
		return false
	}
	for i, r := range e {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			// always fine
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		case r == '-' && !strict:
			// bus names permit '-' in elements; interface/member names do not
		default:
			return false
		}
	}
	return true
}

// IsValidSignature reports whether s is a syntactically well-formed D-Bus
// signature (a possibly-empty sequence of complete types, no wildcards).
func IsValidSignature(s string) bool {
	rest := s
	for rest != "" {
		_, r2, ok := parseOneType(rest)
		if !ok {
			return false
		}
		rest = r2
	}
	return true
}

// parseOneType recognises a single complete D-Bus type at the front of s,
// returning the remainder. Kept local to avoid an import cycle with
// internal/types (this package only validates wire syntax, it does not
// construct Type values).
func parseOneType(s string) (string, string, bool) {
	if s == "" {
		return "", s, false
	}
	switch s[0] {
	case 'y', 'b', 'n', 'q', 'i', 'u', 'x', 't', 'd', 's', 'o', 'g', 'h', 'v':
		return s[:1], s[1:], true
	case 'a':
		rest := s[1:]
		if strings.HasPrefix(rest, "{") {
			_, r2, ok := parseOneType(rest[1:])
			if !ok {
				return "", s, false
			}
			_, r3, ok := parseOneType(r2)
			if !ok || !strings.HasPrefix(r3, "}") {
				return "", s, false
			}
			return s[:len(s)-len(r3)+1], r3[1:], true
		}
		_, r2, ok := parseOneType(rest)
		if !ok {
			return "", s, false
		}
		return s[:len(s)-len(r2)], r2, true
	case '(':
		rest := s[1:]
		for !strings.HasPrefix(rest, ")") {
			if rest == "" {
				return "", s, false
			}
			_, r2, ok := parseOneType(rest)
			if !ok {
				return "", s, false
			}
			rest = r2
		}
		return s[:len(s)-len(rest)+1], rest[1:], true
	default:
		return "", s, false
	}
}
