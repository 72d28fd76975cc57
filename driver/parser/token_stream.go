package parser

import (
	"io"

	"github.com/nihei9/arvo/driver/lexer"
	spec "github.com/nihei9/arvo/spec/grammar"
)

// lexToken exposes a lexer.Token through VToken.
type lexToken struct {
	*lexer.Token
}

func (t lexToken) KindID() int          { return t.Token.KindID }
func (t lexToken) Lexeme() []byte       { return t.Token.Lexeme }
func (t lexToken) EOF() bool            { return t.Token.EOF }
func (t lexToken) Invalid() bool        { return t.Token.Invalid }
func (t lexToken) Position() (int, int) { return t.Row, t.Col }

type lexTokenStream struct {
	lex *lexer.Lexer
}

// NewTokenStream returns a TokenStream that tokenizes `src` with the lexical specification of `g`.
func NewTokenStream(g *spec.CompiledGrammar, src io.Reader) (TokenStream, error) {
	lex, err := lexer.NewLexer(g.Lexical, src)
	if err != nil {
		return nil, err
	}
	return &lexTokenStream{
		lex: lex,
	}, nil
}

func (s *lexTokenStream) Next() (VToken, error) {
	tok, err := s.lex.Next()
	if err != nil {
		return nil, err
	}
	return lexToken{tok}, nil
}
