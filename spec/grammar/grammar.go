package grammar

import mlspec "github.com/nihei9/maleeni/spec"

// CompiledGrammar is the immutable data a parser runs on. It is computed once from a grammar
// definition and can be serialized as JSON.
type CompiledGrammar struct {
	Name      string         `json:"name"`
	Lexical   *LexicalSpec   `json:"lexical"`
	Syntactic *SyntacticSpec `json:"syntactic"`
}

type LexicalSpec struct {
	Maleeni *mlspec.CompiledLexSpec `json:"maleeni"`

	// KindToTerminal translates a lexical kind ID into a terminal number. Kinds that no terminal
	// corresponds to are translated into the undefined terminal.
	KindToTerminal []int `json:"kind_to_terminal"`

	// When Skip[kindID] is 1, a lexer drops tokens of the kind.
	Skip []int `json:"skip"`
}

// Action entries are encoded as follows:
//
//	0      error
//	n > 0  shift, and go to state n
//	n < 0  reduce by production -n
//
// State 0 never becomes a shift target, and production 0 is never reduced because the parser accepts
// an input when it reaches the accepting state.
const (
	ActionEntryError = 0
)

func EncodeShift(state int) int {
	return state
}

func EncodeReduce(prod int) int {
	return -prod
}

// RowDisplacementTable is a compressed two-dimensional table. See the compressor package.
type RowDisplacementTable struct {
	OriginalRowCount int   `json:"original_row_count"`
	OriginalColCount int   `json:"original_col_count"`
	EmptyValue       int   `json:"empty_value"`
	Entries          []int `json:"entries"`
	Bounds           []int `json:"bounds"`
	RowDisplacement  []int `json:"row_displacement"`
}

// UniqueEntriesTable is a compressed two-dimensional table. See the compressor package.
type UniqueEntriesTable struct {
	OriginalRowCount int   `json:"original_row_count"`
	OriginalColCount int   `json:"original_col_count"`
	UniqueEntries    []int `json:"unique_entries"`
	RowNums          []int `json:"row_nums"`
}

type SyntacticSpec struct {
	// Action holds the action table (state × terminal) without default reductions.
	Action *RowDisplacementTable `json:"action"`

	// DefaultReductions[state] is the production the state reduces by when the action table has no
	// entry for a look-ahead symbol. 0 means the state has no default reduction.
	DefaultReductions []int `json:"default_reductions"`

	// When DefaultOnlyStates[state] is 1, the state's action row is empty and the state reduces by its
	// default reduction without reading a look-ahead symbol.
	DefaultOnlyStates []int `json:"default_only_states"`

	// GoTo holds the goto table (state × non-terminal). 0 means an empty entry.
	GoTo *UniqueEntriesTable `json:"goto"`

	StateCount   int `json:"state_count"`
	InitialState int `json:"initial_state"`
	AcceptState  int `json:"accept_state"`

	StartProduction         int   `json:"start_production"`
	LHSSymbols              []int `json:"lhs_symbols"`
	AlternativeSymbolCounts []int `json:"alternative_symbol_counts"`

	Terminals        []string `json:"terminals"`
	TerminalAliases  []string `json:"terminal_aliases"`
	TerminalCount    int      `json:"terminal_count"`
	NonTerminals     []string `json:"non_terminals"`
	NonTerminalCount int      `json:"non_terminal_count"`

	EOFSymbol       int `json:"eof_symbol"`
	ErrorSymbol     int `json:"error_symbol"`
	UndefinedSymbol int `json:"undefined_symbol"`

	// When ErrorTrapperStates[state] is 1, the state has an item `A → α・error β` and can shift the
	// error symbol.
	ErrorTrapperStates []int `json:"error_trapper_states"`
}
