package ast

import "github.com/pwithnall/bendy-bus/internal/lexer"

// DataEntry is one "name = literal;" line of a data block.
type DataEntry struct {
	Position lexer.Position
	Name     string
	Literal  DataLiteral
}

// ObjectDecl is one "object at ... implements ... { ... }" declaration.
type ObjectDecl struct {
	Position         lexer.Position
	ObjectPath       string
	BusNames         []string   // ordered, possibly empty
	InterfaceNames   []string   // ordered, non-empty
	DataBlocks       [][]DataEntry
	StateBlocks      [][]string
	TransitionBlocks []*TransitionBlockDecl
}

func (o *ObjectDecl) Pos() lexer.Position { return o.Position }
func (o *ObjectDecl) String() string      { return "object at " + o.ObjectPath }

// Program is the root node: the ordered sequence of object declarations
// parsed from one source file.
type Program struct {
	Objects []*ObjectDecl
}
