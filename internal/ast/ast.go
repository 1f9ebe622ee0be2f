package ast

import (
	"fmt"
	"strings"

	"github.com/emberlang/ember/internal/token"
)

// Node is implemented by every AST node.
type Node interface {
	Pos() token.Position
}

// Statement is implemented by every statement node.
type Statement interface {
	Node
	stmtNode()
}

// Expression is implemented by every expression node.
type Expression interface {
	Node
	exprNode()
}

// Program is the root node produced by the parser.
type Program struct {
	Statements []Statement
}

func (p *Program) Pos() token.Position {
	if len(p.Statements) == 0 {
		return token.Position{}
	}
	return p.Statements[0].Pos()
}

// GlobalLet is a top-level "let name = expr;" statement.
type GlobalLet struct {
	LetPos token.Position
	Name   string
	Value  Expression
}

func (n *GlobalLet) Pos() token.Position { return n.LetPos }
func (n *GlobalLet) stmtNode()           {}

// FunctionDecl is a top-level "fn name(params) { body }" declaration.
type FunctionDecl struct {
	FnPos  token.Position
	Name   string
	Params []string
	Body   []Statement
}

func (n *FunctionDecl) Pos() token.Position { return n.FnPos }
func (n *FunctionDecl) stmtNode()           {}

// LetStmt declares a new local binding.
type LetStmt struct {
	LetPos token.Position
	Name   string
	Value  Expression
}

func (n *LetStmt) Pos() token.Position { return n.LetPos }
func (n *LetStmt) stmtNode()           {}

// AssignStmt assigns to an existing local binding.
type AssignStmt struct {
	AssignPos token.Position
	Name      string
	Value     Expression
}

func (n *AssignStmt) Pos() token.Position { return n.AssignPos }
func (n *AssignStmt) stmtNode()           {}

// CallStmt is a bare function-call statement whose return value is discarded.
type CallStmt struct {
	Call *CallExpr
}

func (n *CallStmt) Pos() token.Position { return n.Call.Pos() }
func (n *CallStmt) stmtNode()           {}

// ReturnStmt returns from the enclosing function. Per the grammar the
// returned value is restricted to a single identifier or number literal.
type ReturnStmt struct {
	ReturnPos token.Position
	ValueTok  token.Token
}

func (n *ReturnStmt) Pos() token.Position { return n.ReturnPos }
func (n *ReturnStmt) stmtNode()           {}

// IfStmt is a conditional with no else branch.
type IfStmt struct {
	IfPos     token.Position
	Condition Expression
	Body      []Statement
}

func (n *IfStmt) Pos() token.Position { return n.IfPos }
func (n *IfStmt) stmtNode()           {}

// CommentStmt preserves a source comment as a statement.
type CommentStmt struct {
	CommentPos token.Position
	Text       string
}

func (n *CommentStmt) Pos() token.Position { return n.CommentPos }
func (n *CommentStmt) stmtNode()           {}

// ExprStmt is a bare expression used as a statement.
type ExprStmt struct {
	Expression Expression
}

func (n *ExprStmt) Pos() token.Position { return n.Expression.Pos() }
func (n *ExprStmt) stmtNode()           {}

// Identifier references a local or parameter name.
type Identifier struct {
	IdentPos token.Position
	Name     string
}

func (n *Identifier) Pos() token.Position { return n.IdentPos }
func (n *Identifier) exprNode()           {}

// NumberLiteral is a numeric literal.
type NumberLiteral struct {
	LiteralPos token.Position
	Value      string
}

func (n *NumberLiteral) Pos() token.Position { return n.LiteralPos }
func (n *NumberLiteral) exprNode()           {}

// StringLiteral is a string literal.
type StringLiteral struct {
	LiteralPos token.Position
	Value      string
}

func (n *StringLiteral) Pos() token.Position { return n.LiteralPos }
func (n *StringLiteral) exprNode()           {}

// BoolLiteral is a true/false literal.
type BoolLiteral struct {
	LiteralPos token.Position
	Value      bool
}

func (n *BoolLiteral) Pos() token.Position { return n.LiteralPos }
func (n *BoolLiteral) exprNode()           {}

// NilLiteral is the nil literal.
type NilLiteral struct {
	LiteralPos token.Position
}

func (n *NilLiteral) Pos() token.Position { return n.LiteralPos }
func (n *NilLiteral) exprNode()           {}

// UnaryExpr is a prefix operator applied to a single operand.
type UnaryExpr struct {
	OpPos    token.Position
	Operator token.Type
	Right    Expression
}

func (n *UnaryExpr) Pos() token.Position { return n.OpPos }
func (n *UnaryExpr) exprNode()           {}

// BinaryExpr is an infix operator applied to two operands.
type BinaryExpr struct {
	OpPos    token.Position
	Operator token.Type
	Left     Expression
	Right    Expression
}

func (n *BinaryExpr) Pos() token.Position { return n.OpPos }
func (n *BinaryExpr) exprNode()           {}

// CallExpr invokes a named function with the given arguments.
type CallExpr struct {
	CallPos token.Position
	Name    string
	Args    []Expression
}

func (n *CallExpr) Pos() token.Position { return n.CallPos }
func (n *CallExpr) exprNode()           {}

// OperatorSymbol returns the display symbol for an operator token type.
func OperatorSymbol(t token.Type) string {
	switch t {
	case token.Plus:
		return "+"
	case token.Minus:
		return "-"
	case token.Star:
		return "*"
	case token.Slash:
		return "/"
	case token.Equal:
		return "=="
	case token.NotEqual:
		return "!="
	case token.Less:
		return "<"
	case token.LessEqual:
		return "<="
	case token.Greater:
		return ">"
	case token.GreaterEqual:
		return ">="
	case token.AndAnd:
		return "&&"
	case token.OrOr:
		return "||"
	case token.Bang:
		return "!"
	default:
		return string(t)
	}
}

// Render produces an S-expression rendering of an expression tree, e.g.
// "2 + 3" renders as "(+ 2 3)".
func Render(e Expression) string {
	switch n := e.(type) {
	case *NumberLiteral:
		return n.Value
	case *StringLiteral:
		return fmt.Sprintf("%q", n.Value)
	case *BoolLiteral:
		if n.Value {
			return "true"
		}
		return "false"
	case *NilLiteral:
		return "nil"
	case *Identifier:
		return n.Name
	case *UnaryExpr:
		return fmt.Sprintf("(%s %s)", OperatorSymbol(n.Operator), Render(n.Right))
	case *BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", OperatorSymbol(n.Operator), Render(n.Left), Render(n.Right))
	case *CallExpr:
		parts := make([]string, 0, len(n.Args)+1)
		parts = append(parts, n.Name)
		for _, a := range n.Args {
			parts = append(parts, Render(a))
		}
		return fmt.Sprintf("(%s)", strings.Join(parts, " "))
	default:
		return fmt.Sprintf("<?%T>", e)
	}
}
