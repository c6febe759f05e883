package ast

import (
	"fmt"

	"github.com/pwithnall/bendy-bus/internal/lexer"
)

// AssignStmt assigns RHS into LHS. LHS must be either a bare
// variable literal or a tree of array/tuple/dict constructor literals
// whose leaves are variable references; internal/check enforces this
// shape and internal/exec walks it component-wise.
type AssignStmt struct {
	Position lexer.Position
	LHS      Expression
	RHS      Expression
}

func (s *AssignStmt) Pos() lexer.Position { return s.Position }
func (s *AssignStmt) stmtNode()           {}
func (s *AssignStmt) String() string      { return fmt.Sprintf("%s = %s;", s.LHS, s.RHS) }

// EmitStmt emits a signal with a single value expression.
type EmitStmt struct {
	Position lexer.Position
	Signal   string
	Value    Expression
}

func (s *EmitStmt) Pos() lexer.Position { return s.Position }
func (s *EmitStmt) stmtNode()           {}
func (s *EmitStmt) String() string      { return fmt.Sprintf("emit %s %s;", s.Signal, s.Value) }

// ReplyStmt replies to the current method call with a value expression.
type ReplyStmt struct {
	Position lexer.Position
	Value    Expression
}

func (s *ReplyStmt) Pos() lexer.Position { return s.Position }
func (s *ReplyStmt) stmtNode()           {}
func (s *ReplyStmt) String() string      { return fmt.Sprintf("reply %s;", s.Value) }

// ThrowStmt throws a named D-Bus error.
type ThrowStmt struct {
	Position  lexer.Position
	ErrorName string
}

func (s *ThrowStmt) Pos() lexer.Position { return s.Position }
func (s *ThrowStmt) stmtNode()           {}
func (s *ThrowStmt) String() string      { return fmt.Sprintf("throw %s;", s.ErrorName) }
