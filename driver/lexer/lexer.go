package lexer

import (
	"io"
	"unicode/utf8"

	spec "github.com/nihei9/arvo/spec/grammar"
	mldriver "github.com/nihei9/maleeni/driver"
)

// Token representes a token.
type Token struct {
	// KindID is an ID of a lexical kind. The ID of an invalid token is 0.
	KindID int

	// Row is a row number where a lexeme appears. It starts from 1.
	Row int

	// Col is a column number where a lexeme appears. It starts from 1 and is counted in code points, not bytes.
	Col int

	// Lexeme is a byte sequence matched a pattern of a lexical specification.
	Lexeme []byte

	// When this field is true, it means the token is the EOF token.
	EOF bool

	// When this field is true, it means the token is an error token.
	Invalid bool
}

// Lexer reads tokens from a source and drops the kinds a lexical specification marks as skipped.
type Lexer struct {
	lex    *mldriver.Lexer
	skip   []int
	tokBuf []*Token

	// endRow and endCol point just past the last token that was not skipped. The EOF token takes this
	// position.
	endRow int
	endCol int
}

// NewLexer returns a new lexer.
func NewLexer(s *spec.LexicalSpec, src io.Reader) (*Lexer, error) {
	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(s.Maleeni), src)
	if err != nil {
		return nil, err
	}
	return &Lexer{
		lex:    lex,
		skip:   s.Skip,
		endRow: 1,
		endCol: 1,
	}, nil
}

// Next returns a next token. Consecutive invalid lexemes are merged into one invalid token.
func (l *Lexer) Next() (*Token, error) {
	if len(l.tokBuf) > 0 {
		tok := l.tokBuf[0]
		l.tokBuf = l.tokBuf[1:]
		return tok, nil
	}

	tok, err := l.next()
	if err != nil {
		return nil, err
	}
	if !tok.Invalid {
		return tok, nil
	}
	errTok := tok
	for {
		tok, err = l.next()
		if err != nil {
			return nil, err
		}
		if !tok.Invalid {
			break
		}
		errTok.Lexeme = append(errTok.Lexeme, tok.Lexeme...)
	}
	l.tokBuf = append(l.tokBuf, tok)

	return errTok, nil
}

func (l *Lexer) next() (*Token, error) {
	for {
		tok, err := l.lex.Next()
		if err != nil {
			return nil, err
		}

		kind := int(tok.KindID)
		if !tok.EOF && !tok.Invalid && kind < len(l.skip) && l.skip[kind] == 1 {
			continue
		}

		if tok.EOF {
			return &Token{
				KindID: kind,
				Row:    l.endRow,
				Col:    l.endCol,
				EOF:    true,
			}, nil
		}

		lexeme := make([]byte, len(tok.Lexeme))
		copy(lexeme, tok.Lexeme)
		l.endRow, l.endCol = advance(tok.Row+1, tok.Col+1, lexeme)
		return &Token{
			KindID:  kind,
			Row:     tok.Row + 1,
			Col:     tok.Col + 1,
			Lexeme:  lexeme,
			Invalid: tok.Invalid,
		}, nil
	}
}

// advance returns the position following `lexeme` when it starts at row:col.
func advance(row, col int, lexeme []byte) (int, int) {
	for len(lexeme) > 0 {
		r, size := utf8.DecodeRune(lexeme)
		lexeme = lexeme[size:]
		if r == '\n' {
			row++
			col = 1
			continue
		}
		col++
	}
	return row, col
}
