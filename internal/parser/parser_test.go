package parser

import (
	"testing"

	"github.com/emberlang/ember/internal/ast"
	"github.com/emberlang/ember/internal/lexer"
)

func TestParseGlobalLetAndFunction(t *testing.T) {
	input := `let x = 1;
fn main() {
  let a = x + 2;
  return a;
}`
	p := New(lexer.New(input))
	prog := p.ParseProgram()
	if p.Err() != nil {
		t.Fatalf("parse error: %v", p.Err())
	}
	if len(prog.Statements) != 2 {
		t.Fatalf("expected 2 top-level statements, got %d", len(prog.Statements))
	}
	if _, ok := prog.Statements[0].(*ast.GlobalLet); !ok {
		t.Fatalf("expected GlobalLet, got %T", prog.Statements[0])
	}
	fn, ok := prog.Statements[1].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("expected FunctionDecl, got %T", prog.Statements[1])
	}
	if fn.Name != "main" || len(fn.Body) != 2 {
		t.Fatalf("unexpected function shape: %+v", fn)
	}
}

func TestParseAssignAndCallStmt(t *testing.T) {
	input := `fn main() {
  let a = 1;
  a = 2;
  print(a);
}`
	p := New(lexer.New(input))
	prog := p.ParseProgram()
	if p.Err() != nil {
		t.Fatalf("parse error: %v", p.Err())
	}
	fn := prog.Statements[0].(*ast.FunctionDecl)
	if _, ok := fn.Body[1].(*ast.AssignStmt); !ok {
		t.Fatalf("expected AssignStmt, got %T", fn.Body[1])
	}
	callStmt, ok := fn.Body[2].(*ast.CallStmt)
	if !ok {
		t.Fatalf("expected CallStmt, got %T", fn.Body[2])
	}
	if callStmt.Call.Name != "print" || len(callStmt.Call.Args) != 1 {
		t.Fatalf("unexpected call shape: %+v", callStmt.Call)
	}
}

func TestParseCallOnlyAllowedAsWholeRHS(t *testing.T) {
	input := `fn main() {
  let a = 1 + foo();
}`
	p := New(lexer.New(input))
	p.ParseProgram()
	if p.Err() == nil {
		t.Fatalf("expected a parse error for a call nested in an expression")
	}
}

func TestParseIfConditionAtEqualityLevel(t *testing.T) {
	input := `fn main() {
  if (a != 3) {
    return a;
  }
}`
	p := New(lexer.New(input))
	prog := p.ParseProgram()
	if p.Err() != nil {
		t.Fatalf("parse error: %v", p.Err())
	}
	fn := prog.Statements[0].(*ast.FunctionDecl)
	ifStmt, ok := fn.Body[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected IfStmt, got %T", fn.Body[0])
	}
	bin, ok := ifStmt.Condition.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected BinaryExpr condition, got %T", ifStmt.Condition)
	}
	if ast.OperatorSymbol(bin.Operator) != "!=" {
		t.Fatalf("expected != condition, got %s", ast.OperatorSymbol(bin.Operator))
	}
}

func TestParseReturnRejectsComplexExpression(t *testing.T) {
	input := `fn main() {
  return 1 + 2;
}`
	p := New(lexer.New(input))
	p.ParseProgram()
	if p.Err() == nil {
		t.Fatalf("expected a parse error for a non identifier/number return value")
	}
}

func TestParseExpressionPrecedence(t *testing.T) {
	input := `2 + 3 * 4`
	p := New(lexer.New(input))
	prog := p.ParseProgram()
	if p.Err() != nil {
		t.Fatalf("parse error: %v", p.Err())
	}
	exprStmt := prog.Statements[0].(*ast.ExprStmt)
	if got, want := ast.Render(exprStmt.Expression), "(+ 2 (* 3 4))"; got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestParseDivisionGrouping(t *testing.T) {
	input := `(32 / (32 + 32)) / 32`
	p := New(lexer.New(input))
	prog := p.ParseProgram()
	if p.Err() != nil {
		t.Fatalf("parse error: %v", p.Err())
	}
	exprStmt := prog.Statements[0].(*ast.ExprStmt)
	if got, want := ast.Render(exprStmt.Expression), "(/ (/ 32 (+ 32 32)) 32)"; got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestParseSingleShotErrorDoesNotResync(t *testing.T) {
	input := `fn main() {
  return 1 + 2;
  let a = @;
}`
	p := New(lexer.New(input))
	p.ParseProgram()
	firstErr := p.Err()
	if firstErr == nil {
		t.Fatalf("expected an error")
	}
	if firstErr.Line != 2 {
		t.Fatalf("expected the first error to be reported on line 2, got line %d", firstErr.Line)
	}
}
