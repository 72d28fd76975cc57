package parser

import (
	"errors"
	"fmt"
	"strings"

	spec "github.com/nihei9/arvo/spec/grammar"
	"github.com/tliron/commonlog"
)

type Grammar interface {
	// InitialState returns the initial state of a parser.
	InitialState() int

	// AcceptState returns the state in which a parser accepts an input.
	AcceptState() int

	// StartProduction returns the start production of grammar.
	StartProduction() int

	// Action returns an ACTION entry corresponding to a (state, terminal symbol) pair.
	// The entry doesn't contain default reductions.
	Action(state int, terminal int) int

	// DefaultReduction returns the production a state reduces by when ACTION has no entry. 0 means
	// the state has no default reduction.
	DefaultReduction(state int) int

	// DefaultOnly returns true when a state always reduces by its default reduction.
	DefaultOnly(state int) bool

	// GoTo returns a GOTO entry corresponding to a (state, non-terminal symbol) pair.
	GoTo(state int, lhs int) int

	// AlternativeSymbolCount returns a symbol count of p production.
	AlternativeSymbolCount(prod int) int

	// LHS returns a LHS symbol of a production.
	LHS(prod int) int

	// TerminalCount returns a terminal symbol count of grammar.
	TerminalCount() int

	// ErrorTrapperState returns true when a state can shift the error symbol.
	ErrorTrapperState(state int) bool

	// EOF returns the EOF symbol.
	EOF() int

	// Error returns the error symbol.
	Error() int

	// Translate converts a kind ID of a token into a terminal symbol.
	Translate(kindID int) int

	// Terminal retuns a string representaion of a terminal symbol.
	Terminal(terminal int) string

	// TerminalAlias returns an alias of a terminal symbol. An empty string means no alias.
	TerminalAlias(terminal int) string

	// NonTerminal retuns a string representaion of a non-terminal symbol.
	NonTerminal(nonTerminal int) string
}

var _ Grammar = &grammarImpl{}

type VToken interface {
	// KindID returns the raw kind ID a lexer assigned to a token.
	KindID() int

	// Lexeme returns a lexeme.
	Lexeme() []byte

	// EOF returns true when a token represents EOF.
	EOF() bool

	// Invalid returns true when a token is invalid.
	Invalid() bool

	// Position returns (row, column) pair.
	Position() (int, int)
}

type TokenStream interface {
	Next() (VToken, error)
}

const (
	DefaultInitialStackDepth = 200
	DefaultMaxStackDepth     = 10000

	// maxExpectedTerminals is the largest number of expected terminals a diagnostic lists.
	maxExpectedTerminals = 4

	// errorCountdown is the number of real tokens a parser must shift to leave recovery mode.
	errorCountdown = 3
)

type ParserOption func(p *Parser) error

// SemanticAction enables a semantic action set. Without it, all semantic values are nil.
func SemanticAction(semAct SemanticActionSet) ParserOption {
	return func(p *Parser) error {
		p.semAct = semAct
		return nil
	}
}

// InitialStackDepth sets the initial capacity of the parse stacks.
func InitialStackDepth(depth int) ParserOption {
	return func(p *Parser) error {
		if depth < 1 {
			return fmt.Errorf("initial stack depth must be positive: %v", depth)
		}
		p.initialDepth = depth
		return nil
	}
}

// MaxStackDepth sets the depth the parse stacks never grow beyond.
func MaxStackDepth(depth int) ParserOption {
	return func(p *Parser) error {
		if depth < 1 {
			return fmt.Errorf("maximum stack depth must be positive: %v", depth)
		}
		p.maxDepth = depth
		return nil
	}
}

// Logger enables tracing. A parser logs every step at debug level.
func Logger(log commonlog.Logger) ParserOption {
	return func(p *Parser) error {
		p.log = log
		return nil
	}
}

type Parser struct {
	toks         TokenStream
	gram         Grammar
	stack        *parseStack
	semAct       SemanticActionSet
	log          commonlog.Logger
	initialDepth int
	maxDepth     int
	lastTok      VToken

	// errStatus counts down real shifts after a syntax error. The parser is in recovery mode while
	// it is positive.
	errStatus int

	// errorShifted is true while no real token has been shifted since the error symbol was.
	errorShifted bool

	synErrs []*SyntaxError
}

func NewParser(toks TokenStream, gram Grammar, opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		toks:         toks,
		gram:         gram,
		initialDepth: DefaultInitialStackDepth,
		maxDepth:     DefaultMaxStackDepth,
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	if p.initialDepth > p.maxDepth {
		p.initialDepth = p.maxDepth
	}

	return p, nil
}

// Parse runs the parser until it accepts or gives up. Syntax errors and aborts are reported through
// Result. The error is non-nil only when the token stream or a semantic action fails.
func (p *Parser) Parse() (*Result, error) {
	p.stack = newParseStack(p.initialDepth, p.maxDepth)
	p.errStatus = 0
	p.errorShifted = false
	p.synErrs = nil
	p.lastTok = nil

	err := p.stack.push(p.gram.InitialState(), nil)
	if err != nil {
		return p.fail(err)
	}

	var tok VToken
	var term int
	for {
		state := p.stack.top()
		if state == p.gram.AcceptState() {
			return p.accept(), nil
		}

		var act int
		if p.gram.DefaultOnly(state) {
			act = spec.EncodeReduce(p.gram.DefaultReduction(state))
		} else {
			if tok == nil {
				tok, err = p.nextToken()
				if err != nil {
					return nil, err
				}
				term = p.translate(tok)
			}
			act = p.lookupAction(state, term)
		}

		switch {
		case act > 0: // Shift
			err := p.shift(act, tok, term)
			if err != nil {
				return p.fail(err)
			}
			tok = nil
		case act < 0: // Reduce
			err := p.reduce(-act)
			if err == nil {
				continue
			}
			if !errors.Is(err, ErrSyntax) {
				return p.fail(err)
			}

			row, col := p.position(tok)
			p.synErrs = append(p.synErrs, &SyntaxError{
				Row:     row,
				Col:     col,
				Message: err.Error(),
				Token:   tok,
			})
			p.trace("a semantic action rejected production %v: %v", -act, err)

			err = p.trapError(tok)
			if err != nil {
				return p.fail(err)
			}
		default: // Error
			if p.errStatus == 0 {
				p.reportError(state, tok, term)
				if tok.EOF() {
					return p.abort(ErrUnrecoverable), nil
				}

				// Give the next token a chance in the same state before popping states.
				p.errStatus = errorCountdown
				p.errorShifted = false
				p.trace("discard %v", p.terminalName(term))
				tok = nil
				continue
			}

			if p.errorShifted {
				if tok.EOF() {
					return p.abort(ErrUnrecoverable), nil
				}
				p.trace("discard %v", p.terminalName(term))
				tok = nil
				continue
			}

			err := p.trapError(tok)
			if err != nil {
				return p.fail(err)
			}
		}
	}
}

func (p *Parser) nextToken() (VToken, error) {
	tok, err := p.toks.Next()
	if err != nil {
		return nil, err
	}
	p.lastTok = tok
	return tok, nil
}

func (p *Parser) translate(tok VToken) int {
	if tok.EOF() {
		return p.gram.EOF()
	}
	return p.gram.Translate(tok.KindID())
}

func (p *Parser) lookupAction(state int, term int) int {
	act := p.gram.Action(state, term)
	if act != spec.ActionEntryError {
		return act
	}
	if prod := p.gram.DefaultReduction(state); prod != 0 {
		return spec.EncodeReduce(prod)
	}
	return spec.ActionEntryError
}

func (p *Parser) shift(nextState int, tok VToken, term int) error {
	var v any
	if p.semAct != nil {
		v = p.semAct.Shift(tok)
	}
	err := p.stack.push(nextState, v)
	if err != nil {
		return err
	}

	if p.errStatus > 0 {
		p.errStatus--
	}
	p.errorShifted = false

	p.trace("shift %v; state: %v", p.terminalName(term), nextState)

	return nil
}

func (p *Parser) reduce(prod int) error {
	n := p.gram.AlternativeSymbolCount(prod)
	lhs := p.gram.LHS(prod)

	var v any
	if p.semAct != nil {
		var err error
		v, err = p.semAct.Reduce(prod, p.stack.topValues(n))
		if err != nil {
			p.stack.pop(n)
			return err
		}
	}

	p.stack.pop(n)
	next := p.gram.GoTo(p.stack.top(), lhs)
	err := p.stack.push(next, v)
	if err != nil {
		return err
	}

	p.trace("reduce %v by production %v; state: %v", p.gram.NonTerminal(lhs), prod, next)

	return nil
}

// trapError pops states until a state can shift the error symbol and then shifts it.
func (p *Parser) trapError(cause VToken) error {
	popped := 0
	for !p.gram.ErrorTrapperState(p.stack.top()) {
		if p.stack.depth() <= 1 {
			p.trace("no state can trap the error")
			return ErrUnrecoverable
		}
		p.stack.pop(1)
		popped++
	}

	state := p.stack.top()
	act := p.gram.Action(state, p.gram.Error())
	if act <= 0 {
		return fmt.Errorf("an entry must be a shift action by the error symbol; entry: %v, state: %v, symbol: %v", act, state, p.gram.Terminal(p.gram.Error()))
	}

	var v any
	if p.semAct != nil {
		v = p.semAct.ShiftError(cause)
	}
	err := p.stack.push(act, v)
	if err != nil {
		return err
	}

	p.errStatus = errorCountdown
	p.errorShifted = true

	p.trace("trap the error in state %v after popping %v states; state: %v", state, popped, act)

	return nil
}

func (p *Parser) accept() *Result {
	// The top of the stack is <eof>, and the value of the start symbol lies beneath it.
	root := p.stack.values[p.stack.depth()-2]

	p.trace("accept")

	status := StatusAccepted
	if len(p.synErrs) > 0 {
		status = StatusRejected
	}
	return &Result{
		Status:       status,
		Value:        root,
		SyntaxErrors: p.synErrs,
	}
}

func (p *Parser) abort(cause error) *Result {
	p.trace("abort: %v", cause)

	return &Result{
		Status:       StatusAborted,
		SyntaxErrors: p.synErrs,
		Cause:        cause,
	}
}

func (p *Parser) fail(err error) (*Result, error) {
	if errors.Is(err, ErrStackExhausted) || errors.Is(err, ErrUnrecoverable) {
		return p.abort(err), nil
	}
	return nil, err
}

func (p *Parser) reportError(state int, tok VToken, term int) {
	expected := p.searchLookahead(state)
	row, col := p.position(tok)
	p.synErrs = append(p.synErrs, &SyntaxError{
		Row:               row,
		Col:               col,
		Message:           p.errorMessage(state, term, expected),
		Token:             tok,
		ExpectedTerminals: expected,
	})

	p.trace("syntax error at %v:%v; state: %v, look-ahead: %v", row, col, state, p.terminalName(term))
}

func (p *Parser) errorMessage(state int, term int, expected []string) string {
	if p.gram.DefaultReduction(state) != 0 || len(expected) == 0 || len(expected) > maxExpectedTerminals {
		return ErrSyntax.Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%v, unexpected %v", ErrSyntax, p.terminalName(term))
	for i, e := range expected {
		if i == 0 {
			fmt.Fprintf(&b, ", expecting %v", e)
		} else {
			fmt.Fprintf(&b, " or %v", e)
		}
	}
	return b.String()
}

// searchLookahead returns the terminals a state has entries for. The error symbol is never included.
func (p *Parser) searchLookahead(state int) []string {
	var kinds []string
	for term := 0; term < p.gram.TerminalCount(); term++ {
		if term == p.gram.Error() {
			continue
		}
		if p.gram.Action(state, term) == spec.ActionEntryError {
			continue
		}
		kinds = append(kinds, p.terminalName(term))
	}
	return kinds
}

func (p *Parser) terminalName(term int) string {
	if alias := p.gram.TerminalAlias(term); alias != "" {
		return alias
	}
	return p.gram.Terminal(term)
}

func (p *Parser) position(tok VToken) (int, int) {
	if tok == nil {
		tok = p.lastTok
	}
	if tok == nil {
		return 0, 0
	}
	return tok.Position()
}

func (p *Parser) trace(format string, args ...any) {
	if p.log == nil {
		return
	}
	p.log.Debugf(format, args...)
}
