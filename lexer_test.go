package simplec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func lexAll(src string) []Token {
	l := NewLexer(strings.NewReader(src))
	var toks []Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == Done {
			return toks
		}
	}
}

func TestLexerKeywordsAndIdentifiers(t *testing.T) {
	toks := lexAll("int foo while")
	require.Equal(t, []Kind{IntKw, Id, WhileKw, Done}, kindsOf(toks))
	require.Equal(t, "foo", toks[1].Lexeme)
}

func TestLexerMultiCharOperators(t *testing.T) {
	toks := lexAll("a == b != c <= d >= e && f || g")
	require.Equal(t, []Kind{Id, Eql, Id, Neq, Id, Leq, Id, Geq, Id, And, Id, Or, Id, Done}, kindsOf(toks))
}

func TestLexerSingleCharOperatorsUseASCIIValue(t *testing.T) {
	toks := lexAll("+ - * / ( ) { } [ ] ; , = < >")
	want := []Kind{'+', '-', '*', '/', '(', ')', '{', '}', '[', ']', ';', ',', '=', '<', '>', Done}
	require.Equal(t, want, kindsOf(toks))
}

func TestLexerSkipsComments(t *testing.T) {
	toks := lexAll("a // line comment\nb /* block\ncomment */ c")
	require.Equal(t, []Kind{Id, Id, Id, Done}, kindsOf(toks))
}

func TestLexerStringAndCharacterLiterals(t *testing.T) {
	toks := lexAll(`"hello" 'a'`)
	require.Equal(t, StringTok, toks[0].Kind)
	require.Equal(t, `"hello"`, toks[0].Lexeme)
	require.Equal(t, Character, toks[1].Kind)
	require.Equal(t, `'a'`, toks[1].Lexeme)
}

func TestLexerNumberLiteral(t *testing.T) {
	toks := lexAll("42 2147483648")
	require.Equal(t, Num, toks[0].Kind)
	require.Equal(t, "42", toks[0].Lexeme)
	require.Equal(t, "2147483648", toks[1].Lexeme)
}

func kindsOf(toks []Token) []Kind {
	kinds := make([]Kind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	return kinds
}
