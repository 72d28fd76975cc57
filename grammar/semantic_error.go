package grammar

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	semErrNoGrammarName       = newSemanticError("name is missing")
	semErrNoStartSymbol       = newSemanticError("start symbol is missing")
	semErrUnusedProduction    = newSemanticError("unused production")
	semErrUnusedTerminal      = newSemanticError("unused terminal")
	semErrTermCannotBeSkipped = newSemanticError("a terminal used in productions cannot be skipped")
	semErrNoProduction        = newSemanticError("a grammar needs at least one production")
	semErrUndefinedSym        = newSemanticError("undefined symbol")
	semErrDuplicateProduction = newSemanticError("duplicate production")
	semErrDuplicateTerminal   = newSemanticError("duplicate terminal")
	semErrDuplicateName       = newSemanticError("duplicate names are not allowed between terminals and non-terminals")
	semErrReservedName        = newSemanticError("a reserved name cannot be defined")
	semErrNoPattern           = newSemanticError("a terminal needs a pattern")
	semErrInvalidAssoc        = newSemanticError("invalid associativity")
	semErrInvalidPrec         = newSemanticError("precedence can be given only to terminals")
	semErrDuplicatePrec       = newSemanticError("a terminal cannot have precedence twice")
	semErrLexSpec             = newSemanticError("invalid lexical specification")
)
