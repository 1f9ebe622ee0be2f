package emitter

import (
	"fmt"
	"strconv"

	"github.com/emberlang/ember/internal/ast"
	"github.com/emberlang/ember/internal/bytecode"
	"github.com/emberlang/ember/internal/token"
)

// discardSink is the reserved local name a bare call_stmt's return value is
// stored into. The opcode catalog has no POP, so the pushed value has to
// land somewhere that never gets read back.
const discardSink = "_"

// Error reports an emitter-internal inconsistency. Per well-formed parser
// output, this should never fire.
type Error struct {
	Msg string
}

func (e *Error) Error() string {
	return e.Msg
}

// Emit lowers a parsed program into a Program Image. Global lets, then
// function declarations, then any bare top-level statements are emitted
// in that order, matching the grammar's top-level shape.
func Emit(prog *ast.Program) (*bytecode.Image, error) {
	img := bytecode.NewImage()
	e := &emitter{img: img}

	var globalLets []*ast.GlobalLet
	var funcs []*ast.FunctionDecl
	var bare []ast.Statement

	for _, stmt := range prog.Statements {
		switch s := stmt.(type) {
		case *ast.GlobalLet:
			globalLets = append(globalLets, s)
		case *ast.FunctionDecl:
			funcs = append(funcs, s)
		default:
			bare = append(bare, s)
		}
	}

	for _, gl := range globalLets {
		if err := e.emitExpr(gl.Value); err != nil {
			return nil, err
		}
		img.Emit(bytecode.STORE_LOCAL, img.Pool.AddName(gl.Name))
	}

	for _, fn := range funcs {
		if err := e.emitFunction(fn); err != nil {
			return nil, err
		}
	}

	for _, stmt := range bare {
		if err := e.emitStatement(stmt); err != nil {
			return nil, err
		}
	}

	return img, nil
}

type emitter struct {
	img *bytecode.Image
}

func (e *emitter) emitFunction(fn *ast.FunctionDecl) error {
	paramIndices := make([]int, len(fn.Params))
	for i, p := range fn.Params {
		paramIndices[i] = e.img.Pool.AddName(p)
	}
	if err := e.img.Functions.Register(bytecode.FunctionMetadata{
		Name:                 fn.Name,
		EntryPC:              e.img.Len(),
		ParameterNameIndices: paramIndices,
	}); err != nil {
		return &Error{Msg: fmt.Sprintf("function %q: %v", fn.Name, err)}
	}

	for _, stmt := range fn.Body {
		if err := e.emitStatement(stmt); err != nil {
			return err
		}
	}

	if len(fn.Body) == 0 {
		e.img.Emit(bytecode.RETURN)
	}
	return nil
}

func (e *emitter) emitStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		if err := e.emitExpr(s.Value); err != nil {
			return err
		}
		e.img.Emit(bytecode.STORE_LOCAL, e.img.Pool.AddName(s.Name))
	case *ast.AssignStmt:
		if err := e.emitExpr(s.Value); err != nil {
			return err
		}
		e.img.Emit(bytecode.STORE_LOCAL, e.img.Pool.AddName(s.Name))
	case *ast.CallStmt:
		if err := e.emitCallExpr(s.Call); err != nil {
			return err
		}
		e.img.Emit(bytecode.STORE_LOCAL, e.img.Pool.AddName(discardSink))
	case *ast.ReturnStmt:
		if err := e.emitReturnValue(s.ValueTok); err != nil {
			return err
		}
		e.img.Emit(bytecode.RETURN)
	case *ast.IfStmt:
		return e.emitIf(s)
	case *ast.CommentStmt:
		// no-op; comments produce no instructions.
	case *ast.ExprStmt:
		return e.emitExpr(s.Expression)
	default:
		return &Error{Msg: fmt.Sprintf("unhandled statement type %T", stmt)}
	}
	return nil
}

func (e *emitter) emitIf(s *ast.IfStmt) error {
	if err := e.emitExpr(s.Condition); err != nil {
		return err
	}
	labelThen := e.img.NextLabel()
	labelEnd := e.img.NextLabel()
	branchPC := e.img.Emit(bytecode.BRANCH, e.img.Pool.AddName(labelThen), e.img.Pool.AddName(labelEnd))
	thenPC := e.img.Len()
	if err := e.img.RegisterLabel(labelThen); err != nil {
		return &Error{Msg: err.Error()}
	}
	for _, stmt := range s.Body {
		if err := e.emitStatement(stmt); err != nil {
			return err
		}
	}

	// A body that emits no instructions (empty, or comments only) would
	// leave labelEnd pointing at the same pc as labelThen, and the
	// registry's name/pc bijection rejects registering a second name
	// there. Since both branches land on the same code in that case,
	// point BRANCH's when-false operand at labelThen instead of
	// registering labelEnd at all.
	if e.img.Len() == thenPC {
		e.img.Instructions[branchPC].Operands[1] = e.img.Instructions[branchPC].Operands[0]
		return nil
	}
	if err := e.img.RegisterLabel(labelEnd); err != nil {
		return &Error{Msg: err.Error()}
	}
	return nil
}

// emitReturnValue pushes the value named by a return statement's token, or
// nothing if the return carries no value. The token's kind, not its
// lexeme, decides how it is pushed.
func (e *emitter) emitReturnValue(tok token.Token) error {
	switch tok.Type {
	case "":
		return nil
	case token.Ident:
		e.img.Emit(bytecode.LOAD_LOCAL, e.img.Pool.AddName(tok.Lexeme))
		return nil
	case token.Number:
		n, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return &Error{Msg: fmt.Sprintf("malformed number literal %q", tok.Lexeme)}
		}
		e.img.Emit(bytecode.PUSH, e.img.Pool.Add(bytecode.NewDoubleValue(n)))
		return nil
	default:
		return &Error{Msg: fmt.Sprintf("unsupported return value token %s", tok.Type)}
	}
}

func (e *emitter) emitExpr(expr ast.Expression) error {
	switch n := expr.(type) {
	case *ast.NumberLiteral:
		val, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return &Error{Msg: fmt.Sprintf("malformed number literal %q", n.Value)}
		}
		e.img.Emit(bytecode.PUSH, e.img.Pool.Add(bytecode.NewDoubleValue(val)))
	case *ast.StringLiteral:
		e.img.Emit(bytecode.PUSH, e.img.Pool.Add(bytecode.NewStringValue(n.Value)))
	case *ast.BoolLiteral:
		v := 0.0
		if n.Value {
			v = 1.0
		}
		e.img.Emit(bytecode.PUSH, e.img.Pool.Add(bytecode.NewDoubleValue(v)))
	case *ast.NilLiteral:
		e.img.Emit(bytecode.PUSH, e.img.Pool.Add(bytecode.NewNoneValue()))
	case *ast.Identifier:
		e.img.Emit(bytecode.LOAD_LOCAL, e.img.Pool.AddName(n.Name))
	case *ast.UnaryExpr:
		return e.emitUnary(n)
	case *ast.BinaryExpr:
		return e.emitBinary(n)
	case *ast.CallExpr:
		return e.emitCallExpr(n)
	default:
		return &Error{Msg: fmt.Sprintf("unhandled expression type %T", expr)}
	}
	return nil
}

// emitUnary synthesizes the two unary operators from existing opcodes: no
// dedicated negate/not instruction exists.
func (e *emitter) emitUnary(n *ast.UnaryExpr) error {
	switch n.Operator {
	case token.Minus:
		e.img.Emit(bytecode.PUSH, e.img.Pool.Add(bytecode.NewDoubleValue(0)))
		if err := e.emitExpr(n.Right); err != nil {
			return err
		}
		e.img.Emit(bytecode.SUB)
		return nil
	case token.Bang:
		if err := e.emitExpr(n.Right); err != nil {
			return err
		}
		e.img.Emit(bytecode.PUSH, e.img.Pool.Add(bytecode.NewDoubleValue(0)))
		e.img.Emit(bytecode.EQUAL)
		return nil
	default:
		return &Error{Msg: fmt.Sprintf("unsupported unary operator %s", n.Operator)}
	}
}

func binaryOpcode(op token.Type) (bytecode.OpCode, error) {
	switch op {
	case token.Plus:
		return bytecode.ADD, nil
	case token.Minus:
		return bytecode.SUB, nil
	case token.Star:
		return bytecode.MUL, nil
	case token.Slash:
		return bytecode.DIV, nil
	case token.Equal:
		return bytecode.EQUAL, nil
	case token.NotEqual:
		return bytecode.NOT_EQUAL, nil
	case token.Less:
		return bytecode.LESS, nil
	case token.LessEqual:
		return bytecode.LESS_EQUAL, nil
	case token.Greater:
		return bytecode.GREATER, nil
	case token.GreaterEqual:
		return bytecode.GREATER_EQUAL, nil
	case token.AndAnd:
		return bytecode.AND, nil
	case token.OrOr:
		return bytecode.OR, nil
	default:
		return 0, &Error{Msg: fmt.Sprintf("unsupported binary operator %s", op)}
	}
}

func (e *emitter) emitBinary(n *ast.BinaryExpr) error {
	if err := e.emitExpr(n.Left); err != nil {
		return err
	}
	if err := e.emitExpr(n.Right); err != nil {
		return err
	}
	op, err := binaryOpcode(n.Operator)
	if err != nil {
		return err
	}
	e.img.Emit(op)
	return nil
}

func (e *emitter) emitCallExpr(call *ast.CallExpr) error {
	for _, arg := range call.Args {
		if err := e.emitExpr(arg); err != nil {
			return err
		}
	}
	e.img.Emit(bytecode.CALL, e.img.Pool.AddName(call.Name))
	return nil
}
