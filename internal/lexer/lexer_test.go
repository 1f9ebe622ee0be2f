package lexer

import (
	"testing"

	"github.com/emberlang/ember/internal/token"
)

func TestNextTokenBasics(t *testing.T) {
	input := `let a = 3;
fn add(x, y) {
  return x;
}
if (a != 3) {
  a = 4;
}
// trailing comment
"hi" 3.5 true false nil`

	expected := []token.Type{
		token.Let, token.Ident, token.Assign, token.Number, token.Semicolon,
		token.Fn, token.Ident, token.LParen, token.Ident, token.Comma, token.Ident, token.RParen, token.LBrace,
		token.Return, token.Ident, token.Semicolon,
		token.RBrace,
		token.If, token.LParen, token.Ident, token.NotEqual, token.Number, token.RParen, token.LBrace,
		token.Ident, token.Assign, token.Number, token.Semicolon,
		token.RBrace,
		token.Comment,
		token.String, token.Number, token.True, token.False, token.Nil,
		token.EOF,
	}

	l := New(input)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("token %d: expected %s, got %s (lexeme=%q)", i, want, tok.Type, tok.Lexeme)
		}
	}
}

func TestNextTokenTwoCharOperators(t *testing.T) {
	cases := []struct {
		src  string
		want token.Type
	}{
		{"==", token.Equal},
		{"!=", token.NotEqual},
		{"<=", token.LessEqual},
		{">=", token.GreaterEqual},
		{"&&", token.AndAnd},
		{"||", token.OrOr},
		{"=", token.Assign},
		{"!", token.Bang},
		{"<", token.Less},
		{">", token.Greater},
	}
	for _, c := range cases {
		l := New(c.src)
		tok := l.NextToken()
		if tok.Type != c.want {
			t.Fatalf("%q: expected %s, got %s", c.src, c.want, tok.Type)
		}
	}
}

func TestNextTokenLineTracking(t *testing.T) {
	input := "let a = 1;\nlet b = 2;\nlet c = 3;"
	l := New(input)
	var lastLetLine int
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
		if tok.Type == token.Let {
			lastLetLine = tok.Pos.Line
		}
	}
	if lastLetLine != 3 {
		t.Fatalf("expected last let on line 3, got %d", lastLetLine)
	}
}

func TestNextTokenUnterminatedString(t *testing.T) {
	l := New(`"oops`)
	tok := l.NextToken()
	if tok.Type != token.Illegal {
		t.Fatalf("expected ILLEGAL for unterminated string, got %s", tok.Type)
	}
}

func TestNextTokenIllegalChar(t *testing.T) {
	l := New("@")
	tok := l.NextToken()
	if tok.Type != token.Illegal {
		t.Fatalf("expected ILLEGAL, got %s", tok.Type)
	}
}
