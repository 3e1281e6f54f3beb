package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	l := New(src)
	var toks []Token
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Kind == EOF {
			break
		}
	}
	return toks
}

func TestLexesKeywordsAndIdentifiers(t *testing.T) {
	toks := lexAll(t, "func let global foo")
	require.Equal(t, []Kind{KwFunc, KwLet, KwGlobal, Ident, EOF}, kinds(toks))
}

func TestLexesNumber(t *testing.T) {
	toks := lexAll(t, "1234")
	require.Equal(t, Number, toks[0].Kind)
	require.EqualValues(t, 1234, toks[0].Num)
}

func TestLexesTwoCharOperators(t *testing.T) {
	toks := lexAll(t, "<= >= == != ->")
	require.Equal(t, []Kind{Le, Ge, EqEq, Ne, Arrow, EOF}, kinds(toks))
}

func TestLexesStringLiteralWithEscapes(t *testing.T) {
	toks := lexAll(t, `"say hello \"world\"\n"`)
	require.Equal(t, String, toks[0].Kind)
	require.Equal(t, "say hello \"world\"\n", toks[0].Text)
}

func TestSkipsLineComments(t *testing.T) {
	toks := lexAll(t, "let x = 1; // trailing comment\nlet y = 2;")
	require.Equal(t, KwLet, toks[0].Kind)
	// no comment tokens should appear between the two statements
	for _, tok := range toks {
		require.NotEqual(t, Slash, tok.Kind)
	}
}

func TestUnterminatedStringIsAnError(t *testing.T) {
	l := New(`"oops`)
	_, err := l.Next()
	require.Error(t, err)
}

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}
