package ast

import (
	"fmt"
	"strings"

	"github.com/pwithnall/bendy-bus/internal/lexer"
)

// FunctionCallExpr calls a registered function (keys, pairKeys, inArray,
// or any function the host's environment registers).
type FunctionCallExpr struct {
	Position lexer.Position
	Name     string
	Args     []Expression
}

func (e *FunctionCallExpr) Pos() lexer.Position { return e.Position }
func (e *FunctionCallExpr) exprNode()           {}

func (e *FunctionCallExpr) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", e.Name, strings.Join(parts, ", "))
}

// UnaryOp enumerates unary expression operators.
type UnaryOp int

const (
	OpNot UnaryOp = iota
)

func (op UnaryOp) String() string {
	if op == OpNot {
		return "!"
	}
	return "?"
}

// UnaryExpr is a prefix unary operator application.
type UnaryExpr struct {
	Position lexer.Position
	Op       UnaryOp
	Operand  Expression
}

func (e *UnaryExpr) Pos() lexer.Position { return e.Position }
func (e *UnaryExpr) exprNode()           {}
func (e *UnaryExpr) String() string      { return e.Op.String() + e.Operand.String() }

// BinaryOp enumerates the binary operators: arithmetic, comparison,
// equality and logical.
type BinaryOp int

const (
	OpMul BinaryOp = iota
	OpDiv
	OpMod
	OpAdd
	OpSub
	OpLT
	OpLE
	OpGT
	OpGE
	OpEq
	OpNe
	OpAnd
	OpOr
)

var binaryOpSymbols = map[BinaryOp]string{
	OpMul: "*", OpDiv: "/", OpMod: "%", OpAdd: "+", OpSub: "-",
	OpLT: "<", OpLE: "<=", OpGT: ">", OpGE: ">=", OpEq: "==", OpNe: "!=",
	OpAnd: "&&", OpOr: "||",
}

func (op BinaryOp) String() string { return binaryOpSymbols[op] }

// IsComparison reports whether op is one of the ordering operators
// (<, <=, >, >=), which require both operands to share a type.
func (op BinaryOp) IsComparison() bool {
	switch op {
	case OpLT, OpLE, OpGT, OpGE:
		return true
	default:
		return false
	}
}

// IsArithmetic reports whether op is one of the numeric operators.
func (op BinaryOp) IsArithmetic() bool {
	switch op {
	case OpMul, OpDiv, OpMod, OpAdd, OpSub:
		return true
	default:
		return false
	}
}

// IsLogical reports whether op is one of the boolean operators.
func (op BinaryOp) IsLogical() bool {
	return op == OpAnd || op == OpOr
}

// BinaryExpr is a binary operator application.
type BinaryExpr struct {
	Position lexer.Position
	Op       BinaryOp
	Left     Expression
	Right    Expression
}

func (e *BinaryExpr) Pos() lexer.Position { return e.Position }
func (e *BinaryExpr) exprNode()           {}
func (e *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left.String(), e.Op.String(), e.Right.String())
}
